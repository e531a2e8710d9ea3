package stop

import "strings"

// ValidationError marks input problems that map to a 400 response.
type ValidationError string

func (v ValidationError) Error() string { return string(v) }

const (
	errTitleRequired  = ValidationError("Title is required")
	errVisualRequired = ValidationError("Either image_url or icon_name is required")
	errBothVisuals    = ValidationError("Cannot provide both image_url and icon_name")
	errInvalidIcon    = ValidationError("Invalid icon name. Allowed icons: Plane, Hotel, Restaurant, Gift, Heart")
)

// AllowedIcons is the canonical casing stored in the database; incoming
// icon names are matched case-insensitively against it.
var AllowedIcons = []string{"Plane", "Hotel", "Restaurant", "Gift", "Heart"}

// FormatExternalURL trims the input and guarantees an explicit scheme,
// defaulting to https. Empty input means no link and returns nil.
func FormatExternalURL(raw string) *string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		trimmed = "https://" + trimmed
	}
	return &trimmed
}

// normalizeVisual enforces that exactly one of image URL or icon name is
// set, returning the cleaned values. Icon names come back in canonical
// casing.
func normalizeVisual(imageURL, iconName string) (*string, *string, error) {
	image := strings.TrimSpace(imageURL)
	icon := strings.TrimSpace(iconName)

	if image == "" && icon == "" {
		return nil, nil, errVisualRequired
	}
	if image != "" && icon != "" {
		return nil, nil, errBothVisuals
	}
	if image != "" {
		return &image, nil, nil
	}

	for _, allowed := range AllowedIcons {
		if strings.EqualFold(allowed, icon) {
			name := allowed
			return nil, &name, nil
		}
	}
	return nil, nil, errInvalidIcon
}

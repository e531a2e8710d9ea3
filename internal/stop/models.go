package stop

type Stop struct {
	ID          string  `json:"id"`
	JourneyID   string  `json:"journeyId"`
	Title       string  `json:"title"`
	Note        *string `json:"note"`
	ImageURL    *string `json:"image_url"`
	IconName    *string `json:"icon_name"`
	ExternalURL *string `json:"external_url"`
	Order       int     `json:"order"`
}

// CreateInput is the request body for adding a stop to a journey.
type CreateInput struct {
	Title       string `json:"title"`
	Note        string `json:"note"`
	ImageURL    string `json:"image_url"`
	IconName    string `json:"icon_name"`
	ExternalURL string `json:"external_url"`
}

// UpdateInput is the request body for patching a stop. Pointer fields
// distinguish "omitted" from "set to empty"; omitted fields keep their
// stored values.
type UpdateInput struct {
	Title       *string `json:"title"`
	Note        *string `json:"note"`
	ImageURL    *string `json:"image_url"`
	IconName    *string `json:"icon_name"`
	ExternalURL *string `json:"external_url"`
}

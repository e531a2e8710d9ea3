package journey

import "time"

type Journey struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Paid           bool      `json:"paid"`
	ShareableToken *string   `json:"shareableToken,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Stop is the read-side shape of a journey's stop. Writes go through the
// stop package; this type only carries what journey responses expose.
type Stop struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Note        *string `json:"note"`
	ImageURL    *string `json:"image_url"`
	IconName    *string `json:"icon_name"`
	ExternalURL *string `json:"external_url"`
	Order       int     `json:"order"`
}

type JourneyWithStops struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Paid           bool    `json:"paid"`
	ShareableToken *string `json:"shareableToken,omitempty"`
	Stops          []Stop  `json:"stops"`
}

// PublicSummary is the only journey shape served without a token. It is
// built by NewPublicSummary, which never writes any other field.
type PublicSummary struct {
	JourneyTitle string   `json:"journeyTitle"`
	HeroImageURL *string  `json:"heroImageUrl"`
	Highlights   []string `json:"highlights"`
}

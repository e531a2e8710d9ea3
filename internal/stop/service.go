package stop

import (
	"context"
	"errors"
	"strings"

	"github.com/thekitbag/wibu-server/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrNotFound        = errors.New("stop not found")
	ErrJourneyNotFound = errors.New("journey not found")
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// Create validates the input, verifies the parent journey and inserts
// the stop. The position is computed inside the insert statement so two
// concurrent creates against the same journey cannot be handed the same
// slot.
func (s *Service) Create(ctx context.Context, journeyID string, input CreateInput) (Stop, error) {
	if input.Title == "" {
		return Stop{}, errTitleRequired
	}
	image, icon, err := normalizeVisual(input.ImageURL, input.IconName)
	if err != nil {
		return Stop{}, err
	}

	var exists bool
	if err := s.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM journeys WHERE id=$1)
	`, journeyID).Scan(&exists); err != nil {
		return Stop{}, err
	}
	if !exists {
		return Stop{}, ErrJourneyNotFound
	}

	st := Stop{
		ID:          uuid.NewString(),
		JourneyID:   journeyID,
		Title:       input.Title,
		Note:        optionalText(input.Note),
		ImageURL:    image,
		IconName:    icon,
		ExternalURL: FormatExternalURL(input.ExternalURL),
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO stops (id, journey_id, title, note, image_url, icon_name, external_url, position)
		SELECT $1, $2, $3, $4, $5, $6, $7, COUNT(*) + 1
		FROM stops WHERE journey_id = $2
		RETURNING position
	`, st.ID, st.JourneyID, st.Title, st.Note, st.ImageURL, st.IconName, st.ExternalURL)
	if err := row.Scan(&st.Order); err != nil {
		return Stop{}, err
	}
	return st, nil
}

func (s *Service) Get(ctx context.Context, id string) (Stop, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, journey_id, title, note, image_url, icon_name, external_url, position
		FROM stops WHERE id=$1
	`, id)

	var st Stop
	if err := row.Scan(&st.ID, &st.JourneyID, &st.Title, &st.Note, &st.ImageURL, &st.IconName, &st.ExternalURL, &st.Order); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Stop{}, ErrNotFound
		}
		return Stop{}, err
	}
	return st, nil
}

// Update patches the supplied fields onto the stored stop. Omitted
// fields keep their stored values, and the image/icon pair is
// re-validated against the merged result. Position and journey
// association cannot change here.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (Stop, error) {
	st, err := s.Get(ctx, id)
	if err != nil {
		return Stop{}, err
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return Stop{}, errTitleRequired
		}
		st.Title = *input.Title
	}
	if input.Note != nil {
		st.Note = optionalText(*input.Note)
	}
	if input.ImageURL != nil || input.IconName != nil {
		image := textOrStored(input.ImageURL, st.ImageURL)
		icon := textOrStored(input.IconName, st.IconName)
		img, icn, err := normalizeVisual(image, icon)
		if err != nil {
			return Stop{}, err
		}
		st.ImageURL = img
		st.IconName = icn
	}
	if input.ExternalURL != nil {
		st.ExternalURL = FormatExternalURL(*input.ExternalURL)
	}

	_, err = s.db.Exec(ctx, `
		UPDATE stops
		SET title=$2, note=$3, image_url=$4, icon_name=$5, external_url=$6
		WHERE id=$1
	`, st.ID, st.Title, st.Note, st.ImageURL, st.IconName, st.ExternalURL)
	if err != nil {
		return Stop{}, err
	}
	return st, nil
}

func optionalText(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func textOrStored(supplied, stored *string) string {
	if supplied != nil {
		return *supplied
	}
	if stored != nil {
		return *stored
	}
	return ""
}

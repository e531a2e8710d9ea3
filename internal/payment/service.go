package payment

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"

	"github.com/thekitbag/wibu-server/internal/db"
	"github.com/thekitbag/wibu-server/internal/journey"

	"github.com/jackc/pgx/v5"
)

var (
	ErrJourneyNotFound  = errors.New("journey not found")
	ErrAlreadyPaid      = errors.New("journey is already paid for")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrMissingMetadata  = errors.New("no journeyId in metadata")
	ErrInvalidMetadata  = errors.New("invalid session metadata")
	ErrUpdateFailed     = errors.New("failed to update journey")
)

type Service struct {
	db       db.Querier
	gateway  Gateway
	journeys *journey.Service
}

func NewService(db db.Querier, gateway Gateway, journeys *journey.Service) *Service {
	return &Service{db: db, gateway: gateway, journeys: journeys}
}

// StatusResult is the poll response for the redirect-vs-webhook race.
// Journey is only present when Status is "complete".
type StatusResult struct {
	Status  string                    `json:"status"`
	Journey *journey.JourneyWithStops `json:"journey,omitempty"`
}

// GenerateShareableToken returns a 64-character hex token backed by 32
// bytes of crypto/rand.
func GenerateShareableToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// CreateCheckoutSession asks the gateway for a hosted checkout session
// for the journey's fixed fee. Nothing is persisted locally; the
// session lives only in the gateway until the webhook or a status poll
// observes it.
func (s *Service) CreateCheckoutSession(ctx context.Context, journeyID string) (string, error) {
	var title string
	var paid bool
	err := s.db.QueryRow(ctx, `
		SELECT title, paid FROM journeys WHERE id=$1
	`, journeyID).Scan(&title, &paid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrJourneyNotFound
		}
		return "", err
	}
	if paid {
		return "", ErrAlreadyPaid
	}

	sess, err := s.gateway.CreateCheckoutSession(ctx, journeyID, title)
	if err != nil {
		return "", err
	}
	return sess.ID, nil
}

// HandleWebhook verifies and applies a gateway notification. A
// completed checkout marks the journey paid and issues its shareable
// token in a single conditional update; replays for an already-paid
// journey are acknowledged without touching the stored token, so links
// that were already handed out keep working. Unknown event types are
// acknowledged and ignored.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.gateway.VerifyWebhook(payload, signature)
	if err != nil {
		return ErrInvalidSignature
	}
	if event.Type != checkoutCompletedEvent {
		return nil
	}

	journeyID := event.Session.JourneyID
	if journeyID == "" {
		return ErrMissingMetadata
	}

	token, err := GenerateShareableToken()
	if err != nil {
		return ErrUpdateFailed
	}

	tag, err := s.db.Exec(ctx, `
		UPDATE journeys
		SET paid=true, shareable_token=$2
		WHERE id=$1 AND paid=false
	`, journeyID, token)
	if err != nil {
		return ErrUpdateFailed
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Zero rows: either the journey does not exist or this is a
	// replayed event for a journey that is already paid.
	var paid bool
	if err := s.db.QueryRow(ctx, `
		SELECT paid FROM journeys WHERE id=$1
	`, journeyID).Scan(&paid); err != nil || !paid {
		return ErrUpdateFailed
	}
	return nil
}

// CheckSessionStatus re-queries the gateway so a client polling right
// after the checkout redirect is not fooled by a webhook that has not
// landed yet. It never mutates local state: the paid transition belongs
// to the webhook alone, so "processing" is a legitimate answer even
// when the gateway already shows the session paid.
func (s *Service) CheckSessionStatus(ctx context.Context, sessionID string) (StatusResult, error) {
	sess, err := s.gateway.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return StatusResult{}, err
	}

	if sess.PaymentStatus != "paid" {
		return StatusResult{Status: "processing"}, nil
	}

	if sess.JourneyID == "" {
		return StatusResult{}, ErrInvalidMetadata
	}

	j, err := s.journeys.Get(ctx, sess.JourneyID)
	if err != nil {
		if errors.Is(err, journey.ErrNotFound) {
			return StatusResult{}, ErrJourneyNotFound
		}
		return StatusResult{}, err
	}
	return StatusResult{Status: "complete", Journey: &j}, nil
}

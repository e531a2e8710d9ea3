package journey

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/thekitbag/wibu-server/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("journey not found")

const (
	publicSummariesKey = "journeys:public:summaries"
	publicSummariesTTL = time.Minute
	publicSummaryLimit = 10
)

type Service struct {
	db    db.Querier
	redis *redis.Client
}

// NewService wires a journey service. redisClient may be nil, which
// disables caching of the public summary list.
func NewService(db db.Querier, redisClient *redis.Client) *Service {
	return &Service{db: db, redis: redisClient}
}

func (s *Service) Create(ctx context.Context, title string) (Journey, error) {
	j := Journey{ID: uuid.NewString(), Title: title}
	row := s.db.QueryRow(ctx, `
		INSERT INTO journeys (id, title)
		VALUES ($1,$2)
		RETURNING created_at
	`, j.ID, j.Title)
	if err := row.Scan(&j.CreatedAt); err != nil {
		return Journey{}, err
	}
	return j, nil
}

// Get returns a journey with its stops ordered by position. The
// shareable token is only populated for paid journeys that have one.
func (s *Service) Get(ctx context.Context, id string) (JourneyWithStops, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, title, paid, shareable_token
		FROM journeys WHERE id=$1
	`, id)

	var j JourneyWithStops
	if err := row.Scan(&j.ID, &j.Title, &j.Paid, &j.ShareableToken); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return JourneyWithStops{}, ErrNotFound
		}
		return JourneyWithStops{}, err
	}
	if !j.Paid {
		j.ShareableToken = nil
	}

	stops, err := s.loadStops(ctx, j.ID)
	if err != nil {
		return JourneyWithStops{}, err
	}
	j.Stops = stops
	return j, nil
}

// GetByToken resolves a paid journey by its shareable token. Unknown
// tokens and tokens pointing at unpaid journeys both return ErrNotFound
// so callers cannot tell the two cases apart. The token itself is never
// echoed back.
func (s *Service) GetByToken(ctx context.Context, token string) (JourneyWithStops, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, title, paid
		FROM journeys WHERE shareable_token=$1
	`, token)

	var j JourneyWithStops
	if err := row.Scan(&j.ID, &j.Title, &j.Paid); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return JourneyWithStops{}, ErrNotFound
		}
		return JourneyWithStops{}, err
	}
	if !j.Paid {
		return JourneyWithStops{}, ErrNotFound
	}

	stops, err := s.loadStops(ctx, j.ID)
	if err != nil {
		return JourneyWithStops{}, err
	}
	j.Stops = stops
	return j, nil
}

// PublicSummaries lists the most recently created paid journeys as
// public-safe summaries, at most publicSummaryLimit of them. The list
// is cached in redis for a minute when a client is configured.
func (s *Service) PublicSummaries(ctx context.Context) ([]PublicSummary, error) {
	if s.redis != nil {
		cached, err := s.redis.Get(ctx, publicSummariesKey).Bytes()
		if err == nil {
			var summaries []PublicSummary
			if err := json.Unmarshal(cached, &summaries); err == nil {
				return summaries, nil
			}
		}
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, title
		FROM journeys WHERE paid = true
		ORDER BY created_at DESC
		LIMIT $1
	`, publicSummaryLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var journeys []JourneyWithStops
	var ids []string
	for rows.Next() {
		var j JourneyWithStops
		if err := rows.Scan(&j.ID, &j.Title); err != nil {
			return nil, err
		}
		ids = append(ids, j.ID)
		journeys = append(journeys, j)
	}

	stops, err := s.loadStopsForJourneys(ctx, ids)
	if err != nil {
		return nil, err
	}

	summaries := make([]PublicSummary, 0, len(journeys))
	for _, j := range journeys {
		j.Stops = stops[j.ID]
		summaries = append(summaries, NewPublicSummary(j))
	}

	if s.redis != nil {
		if payload, err := json.Marshal(summaries); err == nil {
			_ = s.redis.Set(ctx, publicSummariesKey, payload, publicSummariesTTL).Err()
		}
	}
	return summaries, nil
}

func (s *Service) PublicSummaryByID(ctx context.Context, id string) (PublicSummary, error) {
	j, err := s.Get(ctx, id)
	if err != nil {
		return PublicSummary{}, err
	}
	return NewPublicSummary(j), nil
}

func (s *Service) loadStops(ctx context.Context, journeyID string) ([]Stop, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, title, note, image_url, icon_name, external_url, position
		FROM stops WHERE journey_id=$1
		ORDER BY position ASC
	`, journeyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stops := []Stop{}
	for rows.Next() {
		var st Stop
		if err := rows.Scan(&st.ID, &st.Title, &st.Note, &st.ImageURL, &st.IconName, &st.ExternalURL, &st.Order); err != nil {
			return nil, err
		}
		stops = append(stops, st)
	}
	return stops, nil
}

func (s *Service) loadStopsForJourneys(ctx context.Context, journeyIDs []string) (map[string][]Stop, error) {
	if len(journeyIDs) == 0 {
		return map[string][]Stop{}, nil
	}
	rows, err := s.db.Query(ctx, `
		SELECT journey_id, id, title, image_url, position
		FROM stops WHERE journey_id = ANY($1)
		ORDER BY position ASC
	`, journeyIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stops := map[string][]Stop{}
	for rows.Next() {
		var journeyID string
		var st Stop
		if err := rows.Scan(&journeyID, &st.ID, &st.Title, &st.ImageURL, &st.Order); err != nil {
			return nil, err
		}
		stops[journeyID] = append(stops[journeyID], st)
	}
	return stops, nil
}

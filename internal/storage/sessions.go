package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"brewcalc/internal/checklist"
)

const sessionPrefix = "session/"

// Session is one brew day of a saved recipe version.
type Session struct {
	ID            string             `json:"id"`
	RecipeID      string             `json:"recipe_id"`
	RecipeVersion int                `json:"recipe_version"`
	BrewDate      string             `json:"brew_date"`
	Checklist     []checklist.Item   `json:"checklist_overrides"`
	Measurements  map[string]float64 `json:"measurements"`
	Notes         string             `json:"notes"`
	CreatedAt     time.Time          `json:"created_at"`
}

// Sessions stores brew sessions.
type Sessions struct {
	store *Store
	now   func() time.Time
}

// NewSessions returns the brew session repository backed by s.
func NewSessions(s *Store) *Sessions {
	return &Sessions{store: s, now: func() time.Time { return time.Now().UTC() }}
}

// Start creates a session for a recipe version. An empty brew date means
// today.
func (s *Sessions) Start(ctx context.Context, recipeID string, version int, brewDate string) (Session, error) {
	if strings.TrimSpace(recipeID) == "" {
		return Session{}, fmt.Errorf("recipe id is required")
	}
	now := s.now()
	if brewDate == "" {
		brewDate = now.Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", brewDate); err != nil {
		return Session{}, fmt.Errorf("invalid brew date %q (expected YYYY-MM-DD)", brewDate)
	}
	sess := Session{
		ID:            uuid.NewString(),
		RecipeID:      recipeID,
		RecipeVersion: version,
		BrewDate:      brewDate,
		Measurements:  map[string]float64{},
		CreatedAt:     now,
	}
	if err := s.Save(ctx, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// Save overwrites a session.
func (s *Sessions) Save(ctx context.Context, sess Session) error {
	return Put(ctx, s.store, sessionPrefix+sess.ID, sess)
}

// Load returns a session by id.
func (s *Sessions) Load(ctx context.Context, id string) (Session, error) {
	return Get[Session](ctx, s.store, sessionPrefix+id)
}

// List returns every session ordered by brew date, then id.
func (s *Sessions) List(ctx context.Context) ([]Session, error) {
	keys, err := s.store.Keys(ctx, sessionPrefix)
	if err != nil {
		return nil, err
	}
	out := make([]Session, 0, len(keys))
	for _, k := range keys {
		sess, err := Get[Session](ctx, s.store, k)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	sortSessions(out)
	return out, nil
}

// AddItem records a checklist override or user item on a session. An item
// whose id matches an earlier override replaces it.
func (s *Sessions) AddItem(ctx context.Context, id string, item checklist.Item) (Session, error) {
	sess, err := s.Load(ctx, id)
	if err != nil {
		return Session{}, err
	}
	replaced := false
	for i, existing := range sess.Checklist {
		if existing.ID == item.ID {
			sess.Checklist[i] = item
			replaced = true
			break
		}
	}
	if !replaced {
		sess.Checklist = append(sess.Checklist, item)
	}
	if err := s.Save(ctx, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// Measure records a measured value (e.g. "og", "preboil_volume_l").
func (s *Sessions) Measure(ctx context.Context, id, key string, value float64) (Session, error) {
	sess, err := s.Load(ctx, id)
	if err != nil {
		return Session{}, err
	}
	if sess.Measurements == nil {
		sess.Measurements = map[string]float64{}
	}
	sess.Measurements[key] = value
	if err := s.Save(ctx, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

func sortSessions(out []Session) {
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && sessionLess(out[j], out[j-1]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
}

func sessionLess(a, b Session) bool {
	if a.BrewDate != b.BrewDate {
		return a.BrewDate < b.BrewDate
	}
	return a.ID < b.ID
}

// ABOUTME: Interaction store: one flat, persisted log of interactions for all clients
// ABOUTME: Filters by client in memory and seeds illustrative history for built-ins
package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dexterfire861/ClarityWorks/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type InteractionStore struct {
	kv        KV
	isBuiltin func(id string) bool
	seeds     map[string][]seedInteraction
	logger    *zap.Logger
	now       func() time.Time
	mu        sync.Mutex
}

func newInteractionStore(kv KV, isBuiltin func(string) bool, seeds map[string][]seedInteraction, logger *zap.Logger, now func() time.Time) *InteractionStore {
	return &InteractionStore{
		kv:        kv,
		isBuiltin: isBuiltin,
		seeds:     seeds,
		logger:    logger,
		now:       now,
	}
}

// All returns every interaction in persisted order.
func (s *InteractionStore) All() []models.Interaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// ListForClient returns the client's interactions, newest event date first.
// Equal dates keep their persisted order.
func (s *InteractionStore) ListForClient(clientID string) []models.Interaction {
	s.mu.Lock()
	all := s.read()
	s.mu.Unlock()

	out := []models.Interaction{}
	for _, i := range all {
		if i.ClientID == clientID {
			out = append(out, i)
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[b].Date.Before(out[a].Date)
	})
	return out
}

// Get finds an interaction by id.
func (s *InteractionStore) Get(id string) (models.Interaction, bool) {
	for _, i := range s.All() {
		if i.ID == id {
			return i, true
		}
	}
	return models.Interaction{}, false
}

// Create validates in, stamps id and createdAt, and appends it to the log.
func (s *InteractionStore) Create(in models.InteractionInput) (models.Interaction, error) {
	if err := in.Validate(); err != nil {
		return models.Interaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	interaction := s.build(in)
	if err := s.write(append(s.read(), interaction)); err != nil {
		return models.Interaction{}, err
	}
	return interaction, nil
}

// Update applies a partial patch. The boolean reports whether id exists.
func (s *InteractionStore) Update(id string, patch models.InteractionPatch) (models.Interaction, bool, error) {
	if patch.Type != nil && !patch.Type.Valid() {
		return models.Interaction{}, false, fmt.Errorf("%w: %q", models.ErrInvalidInteractionType, *patch.Type)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.read()
	for idx := range all {
		if all[idx].ID != id {
			continue
		}
		if patch.Empty() {
			return all[idx], true, nil
		}
		patch.Apply(&all[idx])
		if err := s.write(all); err != nil {
			return models.Interaction{}, true, err
		}
		return all[idx], true, nil
	}
	return models.Interaction{}, false, nil
}

// Remove deletes one interaction and reports whether it existed.
func (s *InteractionStore) Remove(id string) bool {
	return s.removeWhere(func(i models.Interaction) bool { return i.ID == id }) > 0
}

// RemoveForClient deletes every interaction of clientID.
func (s *InteractionStore) RemoveForClient(clientID string) int {
	return s.removeWhere(func(i models.Interaction) bool { return i.ClientID == clientID })
}

// SeedIfEmpty adds the illustrative history for a built-in client that has
// no interactions yet. It returns how many were added; custom clients and
// clients with existing history get nothing.
func (s *InteractionStore) SeedIfEmpty(clientID string) (int, error) {
	if !s.isBuiltin(clientID) {
		return 0, nil
	}
	seeds := s.seeds[clientID]
	if len(seeds) == 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.read()
	for _, i := range all {
		if i.ClientID == clientID {
			return 0, nil
		}
	}

	today := models.NewDate(s.now())
	for _, seed := range seeds {
		all = append(all, s.build(models.InteractionInput{
			ClientID:    clientID,
			Type:        models.InteractionType(seed.Type),
			Title:       seed.Title,
			Date:        models.NewDate(today.AddDate(0, 0, -seed.DaysAgo)),
			Notes:       seed.Notes,
			ActionItems: seed.ActionItems,
		}))
	}
	if err := s.write(all); err != nil {
		return 0, err
	}

	s.logger.Debug("seeded interactions", zap.String("client", clientID), zap.Int("count", len(seeds)))
	return len(seeds), nil
}

func (s *InteractionStore) build(in models.InteractionInput) models.Interaction {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = strings.ToUpper(string(in.Type[:1])) + string(in.Type[1:])
	}
	date := in.Date
	if date.IsZero() {
		date = models.NewDate(s.now())
	}
	var items []string
	if len(in.ActionItems) > 0 {
		items = append(items, in.ActionItems...)
	}

	return models.Interaction{
		ID:          "int-" + uuid.NewString(),
		ClientID:    in.ClientID,
		Type:        in.Type,
		Title:       title,
		Date:        date,
		Notes:       in.Notes,
		ActionItems: items,
		CreatedAt:   s.now().UTC(),
	}
}

func (s *InteractionStore) removeWhere(match func(models.Interaction) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.read()
	kept := all[:0]
	removed := 0
	for _, i := range all {
		if match(i) {
			removed++
			continue
		}
		kept = append(kept, i)
	}
	if removed == 0 {
		return 0
	}
	if err := s.write(kept); err != nil {
		s.logger.Error("failed to persist interaction removal", zap.Error(err))
		return 0
	}
	return removed
}

// read fails soft: absent or corrupt data means an empty log.
func (s *InteractionStore) read() []models.Interaction {
	data, err := s.kv.Get([]byte(InteractionsKey))
	if err != nil {
		s.logger.Debug("interactions unreadable", zap.Error(err))
		return []models.Interaction{}
	}
	if len(data) == 0 {
		return []models.Interaction{}
	}

	var all []models.Interaction
	if err := json.Unmarshal(data, &all); err != nil {
		s.logger.Debug("interactions corrupt, ignoring", zap.Error(err))
		return []models.Interaction{}
	}
	return all
}

func (s *InteractionStore) write(all []models.Interaction) error {
	data, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("failed to encode interactions: %w", err)
	}
	if err := s.kv.Set([]byte(InteractionsKey), data); err != nil {
		return fmt.Errorf("failed to persist interactions: %w", err)
	}
	return nil
}

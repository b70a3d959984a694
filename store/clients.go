// ABOUTME: Client store: immutable built-in samples plus persisted custom clients
// ABOUTME: Only the custom list is ever written to the key/value backend
package store

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/dexterfire861/ClarityWorks/models"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// IsCustom reports whether id was allocated for an advisor-created client.
func IsCustom(id string) bool {
	return strings.HasPrefix(id, models.CustomIDPrefix)
}

type ClientStore struct {
	kv       KV
	builtins []models.Client
	logger   *zap.Logger
	now      func() time.Time
	entropy  *ulid.MonotonicEntropy
	mu       sync.Mutex
}

func newClientStore(kv KV, builtins []models.Client, logger *zap.Logger, now func() time.Time) *ClientStore {
	return &ClientStore{
		kv:       kv,
		builtins: builtins,
		logger:   logger,
		now:      now,
		entropy:  ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

// List returns built-ins in their fixed order followed by customs in
// insertion order.
func (s *ClientStore) List() []models.Client {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.Builtins()
	return append(out, s.readCustoms()...)
}

// Builtins returns copies of the built-in sample clients.
func (s *ClientStore) Builtins() []models.Client {
	out := make([]models.Client, 0, len(s.builtins))
	for _, c := range s.builtins {
		out = append(out, c.Clone())
	}
	return out
}

// Customs returns the persisted custom clients.
func (s *ClientStore) Customs() []models.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readCustoms()
}

// Get finds a client by id.
func (s *ClientStore) Get(id string) (models.Client, bool) {
	for _, c := range s.List() {
		if c.ID == id {
			return c, true
		}
	}
	return models.Client{}, false
}

// IsBuiltin reports whether id names one of the built-in sample clients.
func (s *ClientStore) IsBuiltin(id string) bool {
	for _, c := range s.builtins {
		if c.ID == id {
			return true
		}
	}
	return false
}

// Create validates in, allocates a fresh custom id and persists the client.
func (s *ClientStore) Create(in models.ClientInput) (models.Client, error) {
	if err := in.Validate(); err != nil {
		return models.Client{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	customs := s.readCustoms()
	id := s.allocateID(customs)

	risk := models.RiskModerate
	if in.RiskProfile != "" {
		risk, _ = models.ParseRiskProfile(string(in.RiskProfile))
	}
	lastContact := in.LastContact
	if lastContact.IsZero() {
		lastContact = models.NewDate(s.now())
	}

	client := models.Client{
		ID:          id,
		Name:        strings.TrimSpace(in.Name),
		AUM:         in.AUM,
		RiskProfile: risk,
		Advisor:     in.Advisor,
		LastContact: lastContact,
		Goals:       withGoalIDs(in.Goals),
		Accounts:    withAccountIDs(in.Accounts),
		Provenance:  models.ProvenanceCustom,
	}

	if err := s.writeCustoms(append(customs, client)); err != nil {
		return models.Client{}, err
	}

	s.logger.Debug("custom client created", zap.String("id", id), zap.String("name", client.Name))
	return client.Clone(), nil
}

// Remove deletes a custom client. Built-in and unknown ids return false.
func (s *ClientStore) Remove(id string) bool {
	if !IsCustom(id) || s.IsBuiltin(id) {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	customs := s.readCustoms()
	kept := customs[:0]
	found := false
	for _, c := range customs {
		if c.ID == id && c.IsCustom() {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return false
	}

	if err := s.writeCustoms(kept); err != nil {
		s.logger.Error("failed to persist client removal", zap.String("id", id), zap.Error(err))
		return false
	}
	return true
}

func (s *ClientStore) allocateID(existing []models.Client) string {
	taken := make(map[string]bool, len(existing)+len(s.builtins))
	for _, c := range existing {
		taken[c.ID] = true
	}
	for _, c := range s.builtins {
		taken[c.ID] = true
	}

	for {
		id := models.CustomIDPrefix + ulid.MustNew(ulid.Timestamp(s.now()), s.entropy).String()
		if !taken[id] {
			return id
		}
	}
}

// readCustoms fails soft: absent or corrupt data means no custom clients.
func (s *ClientStore) readCustoms() []models.Client {
	data, err := s.kv.Get([]byte(CustomClientsKey))
	if err != nil {
		s.logger.Debug("custom clients unreadable", zap.Error(err))
		return []models.Client{}
	}
	if len(data) == 0 {
		return []models.Client{}
	}

	var customs []models.Client
	if err := json.Unmarshal(data, &customs); err != nil {
		s.logger.Debug("custom clients corrupt, ignoring", zap.Error(err))
		return []models.Client{}
	}
	for i := range customs {
		customs[i].Provenance = models.ProvenanceCustom
	}
	return customs
}

func (s *ClientStore) writeCustoms(customs []models.Client) error {
	data, err := json.Marshal(customs)
	if err != nil {
		return fmt.Errorf("failed to encode custom clients: %w", err)
	}
	if err := s.kv.Set([]byte(CustomClientsKey), data); err != nil {
		return fmt.Errorf("failed to persist custom clients: %w", err)
	}
	return nil
}

func withGoalIDs(goals []models.Goal) []models.Goal {
	out := make([]models.Goal, len(goals))
	for i, g := range goals {
		if g.ID == "" {
			g.ID = "goal-" + uuid.NewString()
		}
		out[i] = g
	}
	return out
}

func withAccountIDs(accounts []models.Account) []models.Account {
	out := make([]models.Account, len(accounts))
	for i, a := range accounts {
		if a.ID == "" {
			a.ID = "acct-" + uuid.NewString()
		}
		out[i] = a
	}
	return out
}

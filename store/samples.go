// ABOUTME: Embedded built-in sample clients and seed interaction history
// ABOUTME: Decoded from YAML once when a Store is opened
package store

import (
	_ "embed"
	"fmt"

	"github.com/dexterfire861/ClarityWorks/models"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed data/builtin_clients.yaml
var builtinClientsYAML []byte

//go:embed data/seed_interactions.yaml
var seedInteractionsYAML []byte

type sampleGoal struct {
	ID            string  `yaml:"id"`
	Name          string  `yaml:"name"`
	TargetAmount  float64 `yaml:"targetAmount"`
	CurrentAmount float64 `yaml:"currentAmount"`
	TargetDate    string  `yaml:"targetDate"`
}

type sampleAccount struct {
	ID      string  `yaml:"id"`
	Name    string  `yaml:"name"`
	Type    string  `yaml:"type"`
	Balance float64 `yaml:"balance"`
}

type sampleClient struct {
	ID          string          `yaml:"id"`
	Name        string          `yaml:"name"`
	AUM         float64         `yaml:"aum"`
	RiskProfile string          `yaml:"riskProfile"`
	Advisor     string          `yaml:"advisor"`
	LastContact string          `yaml:"lastContact"`
	Goals       []sampleGoal    `yaml:"goals"`
	Accounts    []sampleAccount `yaml:"accounts"`
}

type seedInteraction struct {
	Type        string   `yaml:"type"`
	Title       string   `yaml:"title"`
	DaysAgo     int      `yaml:"daysAgo"`
	Notes       string   `yaml:"notes"`
	ActionItems []string `yaml:"actionItems"`
}

func loadBuiltinClients() ([]models.Client, error) {
	var raw []sampleClient
	if err := yaml.Unmarshal(builtinClientsYAML, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode built-in clients: %w", err)
	}

	clients := make([]models.Client, 0, len(raw))
	for _, rc := range raw {
		risk, ok := models.ParseRiskProfile(rc.RiskProfile)
		if !ok {
			return nil, fmt.Errorf("built-in client %s: %w: %q", rc.ID, models.ErrInvalidRiskProfile, rc.RiskProfile)
		}
		lastContact, err := models.ParseDate(rc.LastContact)
		if err != nil {
			return nil, fmt.Errorf("built-in client %s: %w", rc.ID, err)
		}

		c := models.Client{
			ID:          rc.ID,
			Name:        rc.Name,
			AUM:         decimal.NewFromFloat(rc.AUM),
			RiskProfile: risk,
			Advisor:     rc.Advisor,
			LastContact: lastContact,
			Provenance:  models.ProvenanceBuiltin,
		}
		for _, g := range rc.Goals {
			target, err := models.ParseDate(g.TargetDate)
			if err != nil {
				return nil, fmt.Errorf("built-in goal %s: %w", g.ID, err)
			}
			c.Goals = append(c.Goals, models.Goal{
				ID:            g.ID,
				Name:          g.Name,
				TargetAmount:  decimal.NewFromFloat(g.TargetAmount),
				CurrentAmount: decimal.NewFromFloat(g.CurrentAmount),
				TargetDate:    target,
			})
		}
		for _, a := range rc.Accounts {
			typ := models.AccountType(a.Type)
			if !typ.Valid() {
				return nil, fmt.Errorf("built-in account %s: %w: %q", a.ID, models.ErrInvalidAccountType, a.Type)
			}
			c.Accounts = append(c.Accounts, models.Account{
				ID:      a.ID,
				Name:    a.Name,
				Type:    typ,
				Balance: decimal.NewFromFloat(a.Balance),
			})
		}
		clients = append(clients, c)
	}
	return clients, nil
}

func loadSeedInteractions() (map[string][]seedInteraction, error) {
	var seeds map[string][]seedInteraction
	if err := yaml.Unmarshal(seedInteractionsYAML, &seeds); err != nil {
		return nil, fmt.Errorf("failed to decode seed interactions: %w", err)
	}
	for clientID, list := range seeds {
		for _, s := range list {
			if !models.InteractionType(s.Type).Valid() {
				return nil, fmt.Errorf("seed for %s: %w: %q", clientID, models.ErrInvalidInteractionType, s.Type)
			}
		}
	}
	return seeds, nil
}

// ABOUTME: Strict validation for records entering the stores
// ABOUTME: Lenient ingestion lives in the parser; these checks guard the persisted model
package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNameRequired           = errors.New("name is required")
	ErrClientIDRequired       = errors.New("client id is required")
	ErrInvalidRiskProfile     = errors.New("invalid risk profile")
	ErrInvalidAccountType     = errors.New("invalid account type")
	ErrInvalidInteractionType = errors.New("invalid interaction type")
	ErrNegativeAmount         = errors.New("amount must not be negative")
)

// Validate checks a new client's fields.
func (in ClientInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrNameRequired
	}
	if in.RiskProfile != "" {
		if _, ok := ParseRiskProfile(string(in.RiskProfile)); !ok {
			return fmt.Errorf("%w: %q", ErrInvalidRiskProfile, in.RiskProfile)
		}
	}
	if in.AUM.IsNegative() {
		return fmt.Errorf("aum: %w", ErrNegativeAmount)
	}
	for _, g := range in.Goals {
		if g.TargetAmount.IsNegative() || g.CurrentAmount.IsNegative() {
			return fmt.Errorf("goal %q: %w", g.Name, ErrNegativeAmount)
		}
	}
	for _, a := range in.Accounts {
		if !a.Type.Valid() {
			return fmt.Errorf("account %q: %w: %q", a.Name, ErrInvalidAccountType, a.Type)
		}
		if a.Balance.IsNegative() {
			return fmt.Errorf("account %q: %w", a.Name, ErrNegativeAmount)
		}
	}
	return nil
}

// Validate checks a new interaction's fields.
func (in InteractionInput) Validate() error {
	if strings.TrimSpace(in.ClientID) == "" {
		return ErrClientIDRequired
	}
	if !in.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidInteractionType, in.Type)
	}
	return nil
}

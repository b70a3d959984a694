// ABOUTME: Data models for the advisor desk
// ABOUTME: Defines Client, Goal, Account and their enumerated fields
package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// RiskProfile is a client's investment risk tolerance.
type RiskProfile string

const (
	RiskConservative       RiskProfile = "Conservative"
	RiskModerate           RiskProfile = "Moderate"
	RiskModerateAggressive RiskProfile = "Moderate-Aggressive"
	RiskAggressive         RiskProfile = "Aggressive"
)

// RiskProfiles lists every valid risk profile in ascending order of risk.
var RiskProfiles = []RiskProfile{RiskConservative, RiskModerate, RiskModerateAggressive, RiskAggressive}

// ParseRiskProfile matches s case-insensitively against the known profiles.
func ParseRiskProfile(s string) (RiskProfile, bool) {
	s = strings.TrimSpace(s)
	for _, p := range RiskProfiles {
		if strings.EqualFold(s, string(p)) {
			return p, true
		}
	}
	return "", false
}

// AccountType is the registration type of a client account.
type AccountType string

const (
	AccountIRA       AccountType = "IRA"
	AccountBrokerage AccountType = "Brokerage"
	Account401k      AccountType = "401k"
	AccountRothIRA   AccountType = "Roth IRA"
	AccountTrust     AccountType = "Trust"
)

// AccountTypes lists every valid account type.
var AccountTypes = []AccountType{AccountIRA, AccountBrokerage, Account401k, AccountRothIRA, AccountTrust}

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	for _, known := range AccountTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Provenance records where a client record came from.
type Provenance string

const (
	ProvenanceBuiltin Provenance = "builtin"
	ProvenanceCustom  Provenance = "custom"
)

// Id prefixes. Custom ids are only ever allocated by the client store.
const (
	BuiltinIDPrefix = "client-"
	CustomIDPrefix  = "custom-"
)

type Goal struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	TargetDate    Date            `json:"targetDate"`
}

// Progress returns CurrentAmount/TargetAmount as a fraction.
// It is not clamped; a zero target yields zero.
func (g Goal) Progress() float64 {
	if g.TargetAmount.IsZero() {
		return 0
	}
	f, _ := g.CurrentAmount.Div(g.TargetAmount).Float64()
	return f
}

type Account struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Type    AccountType     `json:"type"`
	Balance decimal.Decimal `json:"balance"`
}

type Client struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	AUM         decimal.Decimal `json:"aum"`
	RiskProfile RiskProfile     `json:"riskProfile"`
	Advisor     string          `json:"advisor"`
	LastContact Date            `json:"lastContact"`
	Goals       []Goal          `json:"goals"`
	Accounts    []Account       `json:"accounts"`
	Provenance  Provenance      `json:"provenance"`
}

// ClientInput carries the advisor-supplied fields of a new client.
type ClientInput struct {
	Name        string
	AUM         decimal.Decimal
	RiskProfile RiskProfile
	Advisor     string
	LastContact Date
	Goals       []Goal
	Accounts    []Account
}

// Input returns the advisor-editable fields of c, for re-creating a parsed
// record as a custom client.
func (c Client) Input() ClientInput {
	return ClientInput{
		Name:        c.Name,
		AUM:         c.AUM,
		RiskProfile: c.RiskProfile,
		Advisor:     c.Advisor,
		LastContact: c.LastContact,
		Goals:       c.Goals,
		Accounts:    c.Accounts,
	}
}

// IsCustom reports whether the record was created by the advisor.
func (c Client) IsCustom() bool {
	return c.Provenance == ProvenanceCustom
}

// TotalBalance sums the balances of all accounts.
func (c Client) TotalBalance() decimal.Decimal {
	total := decimal.Zero
	for _, a := range c.Accounts {
		total = total.Add(a.Balance)
	}
	return total
}

// Clone returns a deep copy so that callers cannot mutate shared slices.
func (c Client) Clone() Client {
	out := c
	if c.Goals != nil {
		out.Goals = append([]Goal(nil), c.Goals...)
	}
	if c.Accounts != nil {
		out.Accounts = append([]Account(nil), c.Accounts...)
	}
	return out
}

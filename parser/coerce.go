// ABOUTME: Lenient coercion of loosely-typed JSON values into goal and account records
// ABOUTME: Shared by the free-text parser and the AI adapter
package parser

import (
	"strings"
	"time"

	"github.com/dexterfire861/ClarityWorks/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// today is the default for missing or unreadable dates.
var today = models.Today

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2006",
	"January 2006",
	"2006",
}

// accountSynonyms maps lower-cased advisor spellings to account types.
var accountSynonyms = map[string]models.AccountType{
	"ira":             models.AccountIRA,
	"traditional ira": models.AccountIRA,
	"rollover ira":    models.AccountIRA,
	"sep ira":         models.AccountIRA,
	"brokerage":       models.AccountBrokerage,
	"taxable":         models.AccountBrokerage,
	"individual":      models.AccountBrokerage,
	"joint":           models.AccountBrokerage,
	"401k":            models.Account401k,
	"401(k)":          models.Account401k,
	"401 k":           models.Account401k,
	"roth":            models.AccountRothIRA,
	"roth ira":        models.AccountRothIRA,
	"trust":           models.AccountTrust,
	"family trust":    models.AccountTrust,
	"revocable trust": models.AccountTrust,
}

// ParseAccountType maps free text onto an account type, defaulting to Brokerage.
func ParseAccountType(s string) models.AccountType {
	key := strings.Join(strings.Fields(strings.ToLower(s)), " ")
	if t, ok := accountSynonyms[key]; ok {
		return t
	}
	return models.AccountBrokerage
}

// ParseAmount keeps only digits and '.', then parses up to a second '.'.
// Anything unparseable is 0.
func ParseAmount(s string) decimal.Decimal {
	var b strings.Builder
	dots := 0
	for _, r := range s {
		if r == '.' {
			if dots++; dots > 1 {
				break
			}
		}
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	d, err := decimal.NewFromString(b.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseLooseDate accepts a handful of common layouts and falls back to today.
func ParseLooseDate(s string) models.Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return today()
	}
	if d, err := models.ParseDate(s); err == nil {
		return d
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return models.NewDate(t)
		}
	}
	return today()
}

// AmountFrom accepts a JSON number or numeric string; anything else is 0.
// Negative numbers are floored at 0.
func AmountFrom(r gjson.Result) decimal.Decimal {
	switch r.Type {
	case gjson.Number:
		d, err := decimal.NewFromString(r.Raw)
		if err != nil {
			d = decimal.NewFromFloat(r.Num)
		}
		if d.IsNegative() {
			return decimal.Zero
		}
		return d
	case gjson.String:
		return ParseAmount(r.Str)
	}
	return decimal.Zero
}

// StringFrom stringifies scalars; null or absent is "".
func StringFrom(r gjson.Result) string {
	if !r.Exists() || r.Type == gjson.Null {
		return ""
	}
	if r.Type == gjson.String {
		return r.Str
	}
	return r.Raw
}

func orDefault(s, fallback string) string {
	if s = strings.TrimSpace(s); s == "" {
		return fallback
	}
	return s
}

// GoalFromJSON coerces one JSON element into a Goal.
func GoalFromJSON(r gjson.Result) models.Goal {
	return models.Goal{
		ID:            orDefault(StringFrom(r.Get("id")), "goal-"+uuid.NewString()),
		Name:          orDefault(StringFrom(r.Get("name")), "Goal"),
		TargetAmount:  AmountFrom(r.Get("targetAmount")),
		CurrentAmount: AmountFrom(r.Get("currentAmount")),
		TargetDate:    ParseLooseDate(StringFrom(r.Get("targetDate"))),
	}
}

// AccountFromJSON coerces one JSON element into an Account.
func AccountFromJSON(r gjson.Result) models.Account {
	typ := models.AccountType(StringFrom(r.Get("type")))
	if !typ.Valid() {
		typ = ParseAccountType(string(typ))
	}
	return models.Account{
		ID:      orDefault(StringFrom(r.Get("id")), "acct-"+uuid.NewString()),
		Name:    orDefault(StringFrom(r.Get("name")), "Account"),
		Type:    typ,
		Balance: AmountFrom(r.Get("balance")),
	}
}

// GoalsFromJSON coerces a JSON array; anything that is not an array is empty.
func GoalsFromJSON(r gjson.Result) []models.Goal {
	goals := []models.Goal{}
	if !r.IsArray() {
		return goals
	}
	for _, el := range r.Array() {
		goals = append(goals, GoalFromJSON(el))
	}
	return goals
}

// AccountsFromJSON coerces a JSON array; anything that is not an array is empty.
func AccountsFromJSON(r gjson.Result) []models.Account {
	accounts := []models.Account{}
	if !r.IsArray() {
		return accounts
	}
	for _, el := range r.Array() {
		accounts = append(accounts, AccountFromJSON(el))
	}
	return accounts
}

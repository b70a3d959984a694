// ABOUTME: Best-effort parser turning advisor-typed text into goals and accounts
// ABOUTME: Accepts a JSON array or pipe-delimited lines and never fails
package parser

import (
	"fmt"
	"strings"

	"github.com/dexterfire861/ClarityWorks/models"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// ParseGoals reads goals from a JSON array or from lines of
// "name | target | current | date".
func ParseGoals(text string) []models.Goal {
	goals := []models.Goal{}
	text = strings.TrimSpace(text)
	if text == "" {
		return goals
	}
	if arr, ok := jsonArray(text); ok {
		return GoalsFromJSON(arr)
	}

	for _, fields := range pipeLines(text) {
		goals = append(goals, models.Goal{
			ID:            "goal-" + uuid.NewString(),
			Name:          orDefault(field(fields, 0), "Goal"),
			TargetAmount:  ParseAmount(field(fields, 1)),
			CurrentAmount: ParseAmount(field(fields, 2)),
			TargetDate:    ParseLooseDate(field(fields, 3)),
		})
	}
	return goals
}

// ParseAccounts reads accounts from a JSON array or from lines of
// "name | type | balance".
func ParseAccounts(text string) []models.Account {
	accounts := []models.Account{}
	text = strings.TrimSpace(text)
	if text == "" {
		return accounts
	}
	if arr, ok := jsonArray(text); ok {
		return AccountsFromJSON(arr)
	}

	for _, fields := range pipeLines(text) {
		accounts = append(accounts, models.Account{
			ID:      "acct-" + uuid.NewString(),
			Name:    orDefault(field(fields, 0), "Account"),
			Type:    ParseAccountType(field(fields, 1)),
			Balance: ParseAmount(field(fields, 2)),
		})
	}
	return accounts
}

// FormatGoals renders goals in the pipe form ParseGoals reads.
func FormatGoals(goals []models.Goal) string {
	var b strings.Builder
	for _, g := range goals {
		fmt.Fprintf(&b, "%s | %s | %s | %s\n", g.Name, g.TargetAmount.String(), g.CurrentAmount.String(), g.TargetDate.String())
	}
	return b.String()
}

// FormatAccounts renders accounts in the pipe form ParseAccounts reads.
func FormatAccounts(accounts []models.Account) string {
	var b strings.Builder
	for _, a := range accounts {
		fmt.Fprintf(&b, "%s | %s | %s\n", a.Name, a.Type, a.Balance.String())
	}
	return b.String()
}

func jsonArray(text string) (gjson.Result, bool) {
	if !gjson.Valid(text) {
		return gjson.Result{}, false
	}
	r := gjson.Parse(text)
	return r, r.IsArray()
}

func pipeLines(text string) [][]string {
	var out [][]string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Split(line, "|")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		out = append(out, parts)
	}
	return out
}

func field(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}

// ABOUTME: Wire shapes returned by the MCP tools
// ABOUTME: Currency and dates are rendered as strings so tool output stays plain JSON
package handlers

import (
	"time"

	"github.com/dexterfire861/ClarityWorks/models"
)

type GoalOutput struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	TargetAmount  string  `json:"target_amount"`
	CurrentAmount string  `json:"current_amount"`
	TargetDate    string  `json:"target_date"`
	Progress      float64 `json:"progress"`
}

type AccountOutput struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Balance string `json:"balance"`
}

type ClientOutput struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	AUM         string          `json:"aum"`
	RiskProfile string          `json:"risk_profile"`
	Advisor     string          `json:"advisor,omitempty"`
	LastContact string          `json:"last_contact,omitempty"`
	Provenance  string          `json:"provenance"`
	Goals       []GoalOutput    `json:"goals"`
	Accounts    []AccountOutput `json:"accounts"`
}

type InteractionOutput struct {
	ID          string   `json:"id"`
	ClientID    string   `json:"client_id"`
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	Notes       string   `json:"notes,omitempty"`
	ActionItems []string `json:"action_items,omitempty"`
	CreatedAt   string   `json:"created_at"`
}

func goalToOutput(g models.Goal) GoalOutput {
	return GoalOutput{
		ID:            g.ID,
		Name:          g.Name,
		TargetAmount:  g.TargetAmount.String(),
		CurrentAmount: g.CurrentAmount.String(),
		TargetDate:    g.TargetDate.String(),
		Progress:      g.Progress(),
	}
}

func goalsToOutput(goals []models.Goal) []GoalOutput {
	out := make([]GoalOutput, len(goals))
	for i, g := range goals {
		out[i] = goalToOutput(g)
	}
	return out
}

func accountsToOutput(accounts []models.Account) []AccountOutput {
	out := make([]AccountOutput, len(accounts))
	for i, a := range accounts {
		out[i] = AccountOutput{ID: a.ID, Name: a.Name, Type: string(a.Type), Balance: a.Balance.String()}
	}
	return out
}

func clientToOutput(c models.Client) ClientOutput {
	return ClientOutput{
		ID:          c.ID,
		Name:        c.Name,
		AUM:         c.AUM.String(),
		RiskProfile: string(c.RiskProfile),
		Advisor:     c.Advisor,
		LastContact: c.LastContact.String(),
		Provenance:  string(c.Provenance),
		Goals:       goalsToOutput(c.Goals),
		Accounts:    accountsToOutput(c.Accounts),
	}
}

func interactionToOutput(i models.Interaction) InteractionOutput {
	return InteractionOutput{
		ID:          i.ID,
		ClientID:    i.ClientID,
		Type:        string(i.Type),
		Title:       i.Title,
		Date:        i.Date.String(),
		Notes:       i.Notes,
		ActionItems: i.ActionItems,
		CreatedAt:   i.CreatedAt.Format(time.RFC3339),
	}
}

func interactionsToOutput(list []models.Interaction) []InteractionOutput {
	out := make([]InteractionOutput, len(list))
	for i, it := range list {
		out[i] = interactionToOutput(it)
	}
	return out
}

// ABOUTME: Interaction MCP tool handlers
// ABOUTME: Implements list, log, update, delete and seed tools for client interaction history
package handlers

import (
	"context"
	"fmt"

	"github.com/dexterfire861/ClarityWorks/models"
	"github.com/dexterfire861/ClarityWorks/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type InteractionHandlers struct {
	store *store.Store
}

func NewInteractionHandlers(s *store.Store) *InteractionHandlers {
	return &InteractionHandlers{store: s}
}

type ListInteractionsInput struct {
	ClientID string `json:"client_id" jsonschema:"Client ID (required)"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Maximum number of results, most recent first (default all)"`
}

type ListInteractionsOutput struct {
	Interactions []InteractionOutput `json:"interactions"`
}

func (h *InteractionHandlers) ListInteractions(_ context.Context, request *mcp.CallToolRequest, input ListInteractionsInput) (*mcp.CallToolResult, ListInteractionsOutput, error) {
	if input.ClientID == "" {
		return nil, ListInteractionsOutput{}, fmt.Errorf("client_id is required")
	}

	list := h.store.Interactions.ListForClient(input.ClientID)
	if input.Limit > 0 && len(list) > input.Limit {
		list = list[:input.Limit]
	}
	return nil, ListInteractionsOutput{Interactions: interactionsToOutput(list)}, nil
}

type LogInteractionInput struct {
	ClientID    string   `json:"client_id" jsonschema:"Client ID (required)"`
	Type        string   `json:"type" jsonschema:"meeting, call, email or note (required)"`
	Title       string   `json:"title,omitempty" jsonschema:"Short title (defaults to the type)"`
	Date        string   `json:"date,omitempty" jsonschema:"Date of the interaction (YYYY-MM-DD, defaults to today)"`
	Notes       string   `json:"notes,omitempty" jsonschema:"Free-text notes"`
	ActionItems []string `json:"action_items,omitempty" jsonschema:"Follow-up action items"`
}

func (h *InteractionHandlers) LogInteraction(_ context.Context, request *mcp.CallToolRequest, input LogInteractionInput) (*mcp.CallToolResult, InteractionOutput, error) {
	if input.ClientID == "" {
		return nil, InteractionOutput{}, fmt.Errorf("client_id is required")
	}

	in := models.InteractionInput{
		ClientID:    input.ClientID,
		Type:        models.InteractionType(input.Type),
		Title:       input.Title,
		Notes:       input.Notes,
		ActionItems: input.ActionItems,
	}
	if input.Date != "" {
		d, err := models.ParseDate(input.Date)
		if err != nil {
			return nil, InteractionOutput{}, fmt.Errorf("invalid date: %w", err)
		}
		in.Date = d
	}

	i, err := h.store.Interactions.Create(in)
	if err != nil {
		return nil, InteractionOutput{}, fmt.Errorf("failed to log interaction: %w", err)
	}
	return nil, interactionToOutput(i), nil
}

type UpdateInteractionInput struct {
	ID          string    `json:"id" jsonschema:"Interaction ID (required)"`
	Type        *string   `json:"type,omitempty" jsonschema:"New type: meeting, call, email or note"`
	Title       *string   `json:"title,omitempty" jsonschema:"New title"`
	Date        *string   `json:"date,omitempty" jsonschema:"New date (YYYY-MM-DD)"`
	Notes       *string   `json:"notes,omitempty" jsonschema:"Replacement notes"`
	ActionItems *[]string `json:"action_items,omitempty" jsonschema:"Replacement action items"`
}

func (h *InteractionHandlers) UpdateInteraction(_ context.Context, request *mcp.CallToolRequest, input UpdateInteractionInput) (*mcp.CallToolResult, InteractionOutput, error) {
	if input.ID == "" {
		return nil, InteractionOutput{}, fmt.Errorf("id is required")
	}

	patch := models.InteractionPatch{
		Title:       input.Title,
		Notes:       input.Notes,
		ActionItems: input.ActionItems,
	}
	if input.Type != nil {
		t := models.InteractionType(*input.Type)
		patch.Type = &t
	}
	if input.Date != nil {
		d, err := models.ParseDate(*input.Date)
		if err != nil {
			return nil, InteractionOutput{}, fmt.Errorf("invalid date: %w", err)
		}
		patch.Date = &d
	}

	i, ok, err := h.store.Interactions.Update(input.ID, patch)
	if err != nil {
		return nil, InteractionOutput{}, fmt.Errorf("failed to update interaction: %w", err)
	}
	if !ok {
		return nil, InteractionOutput{}, fmt.Errorf("interaction not found: %s", input.ID)
	}
	return nil, interactionToOutput(i), nil
}

type DeleteInteractionInput struct {
	ID string `json:"id" jsonschema:"Interaction ID (required)"`
}

type DeleteInteractionOutput struct {
	Deleted bool `json:"deleted"`
}

func (h *InteractionHandlers) DeleteInteraction(_ context.Context, request *mcp.CallToolRequest, input DeleteInteractionInput) (*mcp.CallToolResult, DeleteInteractionOutput, error) {
	if input.ID == "" {
		return nil, DeleteInteractionOutput{}, fmt.Errorf("id is required")
	}
	return nil, DeleteInteractionOutput{Deleted: h.store.Interactions.Remove(input.ID)}, nil
}

type SeedInteractionsInput struct {
	ClientID string `json:"client_id" jsonschema:"Built-in client ID (required)"`
}

type SeedInteractionsOutput struct {
	Seeded int `json:"seeded"`
}

func (h *InteractionHandlers) SeedInteractions(_ context.Context, request *mcp.CallToolRequest, input SeedInteractionsInput) (*mcp.CallToolResult, SeedInteractionsOutput, error) {
	if input.ClientID == "" {
		return nil, SeedInteractionsOutput{}, fmt.Errorf("client_id is required")
	}

	n, err := h.store.Interactions.SeedIfEmpty(input.ClientID)
	if err != nil {
		return nil, SeedInteractionsOutput{}, fmt.Errorf("failed to seed interactions: %w", err)
	}
	return nil, SeedInteractionsOutput{Seeded: n}, nil
}

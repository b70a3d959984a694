// ABOUTME: AI-backed MCP tool handlers
// ABOUTME: Implements generate_meeting_prep and generate_crm_update over the stores and the AI adapter
package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dexterfire861/ClarityWorks/ai"
	"github.com/dexterfire861/ClarityWorks/models"
	"github.com/dexterfire861/ClarityWorks/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MeetingPrepGenerator produces a meeting briefing; *ai.Adapter implements it.
type MeetingPrepGenerator interface {
	GenerateMeetingPrep(ctx context.Context, req ai.MeetingPrepRequest) (models.MeetingPrep, error)
}

type AIHandlers struct {
	store *store.Store
	prep  MeetingPrepGenerator
	crm   ai.CRMGenerator
}

func NewAIHandlers(s *store.Store, prep MeetingPrepGenerator, crm ai.CRMGenerator) *AIHandlers {
	return &AIHandlers{store: s, prep: prep, crm: crm}
}

// aiError keeps raw provider output out of tool errors.
func aiError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return errors.New(ai.UserMessage(err))
}

type MeetingPrepInput struct {
	ClientID string `json:"client_id" jsonschema:"Client ID (required)"`
}

func (h *AIHandlers) GenerateMeetingPrep(ctx context.Context, request *mcp.CallToolRequest, input MeetingPrepInput) (*mcp.CallToolResult, models.MeetingPrep, error) {
	if input.ClientID == "" {
		return nil, models.MeetingPrep{}, fmt.Errorf("client_id is required")
	}
	c, ok := h.store.Clients.Get(input.ClientID)
	if !ok {
		return nil, models.MeetingPrep{}, fmt.Errorf("client not found: %s", input.ClientID)
	}

	prep, err := h.prep.GenerateMeetingPrep(ctx, ai.MeetingPrepRequest{
		Client:       c,
		Interactions: h.store.Interactions.ListForClient(c.ID),
	})
	if err != nil {
		return nil, models.MeetingPrep{}, aiError(err)
	}
	return nil, prep, nil
}

type CRMUpdateInput struct {
	ClientID string `json:"client_id" jsonschema:"Client ID (required)"`
	Notes    string `json:"notes" jsonschema:"Raw meeting notes (required)"`
	Save     bool   `json:"save,omitempty" jsonschema:"Also record the suggestions as a note in the client's history"`
}

type FieldUpdateOutput struct {
	FieldName     string  `json:"field_name"`
	CurrentValue  string  `json:"current_value"`
	ProposedValue string  `json:"proposed_value"`
	Confidence    float64 `json:"confidence"`
	SourceSnippet string  `json:"source_snippet,omitempty"`
}

type TaskOutput struct {
	Owner       string `json:"owner"`
	Description string `json:"description"`
	DueDate     string `json:"due_date,omitempty"`
	Priority    string `json:"priority"`
}

type CRMUpdateOutput struct {
	FieldUpdates       []FieldUpdateOutput `json:"field_updates"`
	Tasks              []TaskOutput        `json:"tasks"`
	Summary            string              `json:"summary"`
	Tags               []string            `json:"tags"`
	Timestamp          string              `json:"timestamp"`
	SavedInteractionID string              `json:"saved_interaction_id,omitempty"`
}

func crmUpdateToOutput(u models.CRMUpdate) CRMUpdateOutput {
	out := CRMUpdateOutput{
		FieldUpdates: make([]FieldUpdateOutput, len(u.FieldUpdates)),
		Tasks:        make([]TaskOutput, len(u.Tasks)),
		Summary:      u.AuditLog.Summary,
		Tags:         u.AuditLog.Tags,
		Timestamp:    u.AuditLog.Timestamp.Format(time.RFC3339),
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	for i, f := range u.FieldUpdates {
		out.FieldUpdates[i] = FieldUpdateOutput(f)
	}
	for i, t := range u.Tasks {
		task := TaskOutput{Owner: t.Owner, Description: t.Description, Priority: string(t.Priority)}
		if t.DueDate != nil {
			task.DueDate = t.DueDate.String()
		}
		out.Tasks[i] = task
	}
	return out
}

func (h *AIHandlers) GenerateCRMUpdate(ctx context.Context, request *mcp.CallToolRequest, input CRMUpdateInput) (*mcp.CallToolResult, CRMUpdateOutput, error) {
	if input.ClientID == "" {
		return nil, CRMUpdateOutput{}, fmt.Errorf("client_id is required")
	}
	if input.Notes == "" {
		return nil, CRMUpdateOutput{}, fmt.Errorf("notes are required")
	}
	c, ok := h.store.Clients.Get(input.ClientID)
	if !ok {
		return nil, CRMUpdateOutput{}, fmt.Errorf("client not found: %s", input.ClientID)
	}

	update, err := h.crm.GenerateCRMUpdate(ctx, ai.CRMUpdateRequest{Client: c, Notes: input.Notes})
	if err != nil {
		return nil, CRMUpdateOutput{}, aiError(err)
	}

	out := crmUpdateToOutput(update)
	if input.Save {
		saved, err := h.store.Interactions.Create(models.InteractionFromCRMUpdate(c.ID, update))
		if err != nil {
			return nil, CRMUpdateOutput{}, fmt.Errorf("failed to save CRM update: %w", err)
		}
		out.SavedInteractionID = saved.ID
	}
	return nil, out, nil
}

// ABOUTME: MCP prompt handlers for reusable advisor workflows
// ABOUTME: Serves the meeting-prep prompt exactly as the AI adapter would send it
package handlers

import (
	"context"
	"fmt"

	"github.com/dexterfire861/ClarityWorks/ai"
	"github.com/dexterfire861/ClarityWorks/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const MeetingPrepPromptName = "meeting-prep"

type PromptHandlers struct {
	store *store.Store
}

func NewPromptHandlers(s *store.Store) *PromptHandlers {
	return &PromptHandlers{store: s}
}

// GetPrompt generates the prompt message based on the template
func (h *PromptHandlers) GetPrompt(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	switch name := request.Params.Name; name {
	case MeetingPrepPromptName:
		return h.getMeetingPrepPrompt(request.Params.Arguments)
	default:
		return nil, fmt.Errorf("unknown prompt: %s", name)
	}
}

func (h *PromptHandlers) getMeetingPrepPrompt(args map[string]string) (*mcp.GetPromptResult, error) {
	clientID, ok := args["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}

	c, found := h.store.Clients.Get(clientID)
	if !found {
		return nil, fmt.Errorf("client not found: %s", clientID)
	}

	p := ai.MeetingPrepPrompt(ai.MeetingPrepRequest{
		Client:       c,
		Interactions: h.store.Interactions.ListForClient(clientID),
	})

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Meeting prep for %s", c.Name),
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: p.System + "\n\n" + p.User},
			},
		},
	}, nil
}

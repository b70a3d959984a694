// ABOUTME: Tests for the MCP server wiring
// ABOUTME: Connects an in-memory MCP client and exercises tools, resources and the prompt
package cli

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/dexterfire861/ClarityWorks/ai"
	"github.com/dexterfire861/ClarityWorks/charm"
	"github.com/dexterfire861/ClarityWorks/models"
	"github.com/dexterfire861/ClarityWorks/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cannedPrep struct{}

func (cannedPrep) GenerateMeetingPrep(_ context.Context, req ai.MeetingPrepRequest) (models.MeetingPrep, error) {
	return models.MeetingPrep{
		ClientSnapshot:     req.Client.Name,
		KeyTopicsToDiscuss: []string{"cash flow"},
		OpenActionItems:    []string{},
		QuestionsToAsk:     []string{},
	}, nil
}

func connectMCP(t *testing.T) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	s, err := store.Open(charm.NewTestClient(t), store.Options{Now: func() time.Time { return fixedNow }})
	require.NoError(t, err)

	server := newMCPServer(s, cannedPrep{}, ai.MockCRM{Now: func() time.Time { return fixedNow }})
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func structured(t *testing.T, res *mcp.CallToolResult, v any) {
	t.Helper()
	require.False(t, res.IsError, "tool error: %+v", res.Content)
	data, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}

func TestMCPListsAllTools(t *testing.T) {
	session := connectMCP(t)

	res, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"list_clients", "get_client", "add_client", "delete_client",
		"list_interactions", "log_interaction", "update_interaction", "delete_interaction",
		"seed_interactions", "parse_goals", "parse_accounts",
		"generate_meeting_prep", "generate_crm_update",
	}, names)
}

func TestMCPClientToolsRoundTrip(t *testing.T) {
	ctx := context.Background()
	session := connectMCP(t)

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name: "add_client",
		Arguments: map[string]any{
			"name":     "Tomás Rivera",
			"aum":      500000,
			"goals":    "House | 120000 | 30000 | 2029-05-01",
			"accounts": "Joint | brokerage | 500000",
		},
	})
	require.NoError(t, err)
	var added struct {
		ID         string `json:"id"`
		Provenance string `json:"provenance"`
	}
	structured(t, res, &added)
	assert.Equal(t, "custom", added.Provenance)

	res, err = session.CallTool(ctx, &mcp.CallToolParams{Name: "list_clients", Arguments: map[string]any{}})
	require.NoError(t, err)
	var listed struct {
		Clients []struct {
			ID string `json:"id"`
		} `json:"clients"`
	}
	structured(t, res, &listed)
	require.Len(t, listed.Clients, 4)
	assert.Equal(t, added.ID, listed.Clients[3].ID)

	res, err = session.CallTool(ctx, &mcp.CallToolParams{Name: "delete_client", Arguments: map[string]any{"id": "client-2"}})
	require.NoError(t, err)
	assert.True(t, res.IsError, "built-in clients cannot be deleted")
}

func TestMCPCRMUpdateSaves(t *testing.T) {
	ctx := context.Background()
	session := connectMCP(t)

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name: "generate_crm_update",
		Arguments: map[string]any{
			"client_id": "client-3",
			"notes":     "Schedule a review of the concentrated position.",
			"save":      true,
		},
	})
	require.NoError(t, err)
	var update struct {
		Tasks              []map[string]any `json:"tasks"`
		SavedInteractionID string           `json:"saved_interaction_id"`
	}
	structured(t, res, &update)
	assert.Len(t, update.Tasks, 1)
	assert.NotEmpty(t, update.SavedInteractionID)

	res, err = session.CallTool(ctx, &mcp.CallToolParams{Name: "list_interactions", Arguments: map[string]any{"client_id": "client-3"}})
	require.NoError(t, err)
	var listed struct {
		Interactions []struct {
			ID string `json:"id"`
		} `json:"interactions"`
	}
	structured(t, res, &listed)
	require.Len(t, listed.Interactions, 1)
	assert.Equal(t, update.SavedInteractionID, listed.Interactions[0].ID)
}

func TestMCPResources(t *testing.T) {
	ctx := context.Background()
	session := connectMCP(t)

	res, err := session.ReadResource(ctx, &mcp.ReadResourceParams{URI: "clarity://clients"})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	assert.Equal(t, "application/json", res.Contents[0].MIMEType)
	assert.Contains(t, res.Contents[0].Text, "Margaret Chen")

	res, err = session.ReadResource(ctx, &mcp.ReadResourceParams{URI: "clarity://clients/client-2"})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	assert.Contains(t, res.Contents[0].Text, "Alvarez")

	_, err = session.ReadResource(ctx, &mcp.ReadResourceParams{URI: "clarity://clients/client-99"})
	require.Error(t, err)
}

func TestMCPMeetingPrepPrompt(t *testing.T) {
	session := connectMCP(t)

	res, err := session.GetPrompt(context.Background(), &mcp.GetPromptParams{
		Name:      "meeting-prep",
		Arguments: map[string]string{"client_id": "client-1"},
	})
	require.NoError(t, err)
	require.Len(t, res.Messages, 1)

	text, ok := res.Messages[0].Content.(*mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "Margaret Chen")
	assert.Contains(t, res.Description, "Margaret Chen")
}

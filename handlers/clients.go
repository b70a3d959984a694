// ABOUTME: Client MCP tool handlers
// ABOUTME: Implements list_clients, get_client, add_client, and delete_client tools
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/dexterfire861/ClarityWorks/models"
	"github.com/dexterfire861/ClarityWorks/parser"
	"github.com/dexterfire861/ClarityWorks/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/shopspring/decimal"
)

type ClientHandlers struct {
	store *store.Store
}

func NewClientHandlers(s *store.Store) *ClientHandlers {
	return &ClientHandlers{store: s}
}

type ListClientsInput struct {
	Query string `json:"query,omitempty" jsonschema:"Case-insensitive filter on client name"`
}

type ListClientsOutput struct {
	Clients []ClientOutput `json:"clients"`
}

func (h *ClientHandlers) ListClients(_ context.Context, request *mcp.CallToolRequest, input ListClientsInput) (*mcp.CallToolResult, ListClientsOutput, error) {
	query := strings.ToLower(strings.TrimSpace(input.Query))

	result := []ClientOutput{}
	for _, c := range h.store.Clients.List() {
		if query != "" && !strings.Contains(strings.ToLower(c.Name), query) {
			continue
		}
		result = append(result, clientToOutput(c))
	}
	return nil, ListClientsOutput{Clients: result}, nil
}

type GetClientInput struct {
	ID string `json:"id" jsonschema:"Client ID (required)"`
}

type GetClientOutput struct {
	Client       ClientOutput        `json:"client"`
	Interactions []InteractionOutput `json:"interactions"`
}

func (h *ClientHandlers) GetClient(_ context.Context, request *mcp.CallToolRequest, input GetClientInput) (*mcp.CallToolResult, GetClientOutput, error) {
	if input.ID == "" {
		return nil, GetClientOutput{}, fmt.Errorf("id is required")
	}

	c, ok := h.store.Clients.Get(input.ID)
	if !ok {
		return nil, GetClientOutput{}, fmt.Errorf("client not found: %s", input.ID)
	}

	return nil, GetClientOutput{
		Client:       clientToOutput(c),
		Interactions: interactionsToOutput(h.store.Interactions.ListForClient(c.ID)),
	}, nil
}

type AddClientInput struct {
	Name        string  `json:"name" jsonschema:"Client name (required)"`
	AUM         float64 `json:"aum,omitempty" jsonschema:"Assets under management in dollars"`
	RiskProfile string  `json:"risk_profile,omitempty" jsonschema:"Conservative, Moderate, Moderate-Aggressive or Aggressive (default Moderate)"`
	Advisor     string  `json:"advisor,omitempty" jsonschema:"Advisor responsible for the client"`
	LastContact string  `json:"last_contact,omitempty" jsonschema:"Date of last contact (YYYY-MM-DD, defaults to today)"`
	Goals       string  `json:"goals,omitempty" jsonschema:"Goals as a JSON array or lines of 'name | target | current | date'"`
	Accounts    string  `json:"accounts,omitempty" jsonschema:"Accounts as a JSON array or lines of 'name | type | balance'"`
}

func (h *ClientHandlers) AddClient(_ context.Context, request *mcp.CallToolRequest, input AddClientInput) (*mcp.CallToolResult, ClientOutput, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ClientOutput{}, fmt.Errorf("name is required")
	}

	in := models.ClientInput{
		Name:     input.Name,
		AUM:      decimal.NewFromFloat(input.AUM),
		Advisor:  input.Advisor,
		Goals:    parser.ParseGoals(input.Goals),
		Accounts: parser.ParseAccounts(input.Accounts),
	}
	if input.RiskProfile != "" {
		risk, ok := models.ParseRiskProfile(input.RiskProfile)
		if !ok {
			return nil, ClientOutput{}, fmt.Errorf("invalid risk_profile %q", input.RiskProfile)
		}
		in.RiskProfile = risk
	}
	if input.LastContact != "" {
		d, err := models.ParseDate(input.LastContact)
		if err != nil {
			return nil, ClientOutput{}, fmt.Errorf("invalid last_contact: %w", err)
		}
		in.LastContact = d
	}

	c, err := h.store.Clients.Create(in)
	if err != nil {
		return nil, ClientOutput{}, fmt.Errorf("failed to create client: %w", err)
	}
	return nil, clientToOutput(c), nil
}

type DeleteClientInput struct {
	ID string `json:"id" jsonschema:"ID of a custom client (required)"`
}

type DeleteClientOutput struct {
	Deleted             bool `json:"deleted"`
	InteractionsRemoved int  `json:"interactions_removed"`
}

func (h *ClientHandlers) DeleteClient(_ context.Context, request *mcp.CallToolRequest, input DeleteClientInput) (*mcp.CallToolResult, DeleteClientOutput, error) {
	if input.ID == "" {
		return nil, DeleteClientOutput{}, fmt.Errorf("id is required")
	}
	if h.store.Clients.IsBuiltin(input.ID) {
		return nil, DeleteClientOutput{}, fmt.Errorf("built-in client %s cannot be deleted", input.ID)
	}

	removed, n := h.store.RemoveClient(input.ID)
	if !removed {
		return nil, DeleteClientOutput{}, fmt.Errorf("client not found: %s", input.ID)
	}
	return nil, DeleteClientOutput{Deleted: true, InteractionsRemoved: n}, nil
}

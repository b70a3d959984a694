// ABOUTME: MCP resource handlers for exposing client data
// ABOUTME: Provides read-only access to clients and their interaction history via clarity:// URIs
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dexterfire861/ClarityWorks/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	resourceScheme = "clarity://"

	ClientsURI        = resourceScheme + "clients"
	ClientURITemplate = resourceScheme + "clients/{id}"
)

type ResourceHandlers struct {
	store *store.Store
}

func NewResourceHandlers(s *store.Store) *ResourceHandlers {
	return &ResourceHandlers{store: s}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	if !strings.HasPrefix(uri, resourceScheme) {
		return nil, fmt.Errorf("invalid URI scheme: expected %s", resourceScheme)
	}

	parts := strings.Split(strings.TrimPrefix(uri, resourceScheme), "/")
	if parts[0] != "clients" {
		return nil, mcp.ResourceNotFoundError(uri)
	}
	if len(parts) == 1 || parts[1] == "" {
		return h.readAllClients(uri)
	}
	return h.readClient(uri, parts[1])
}

func (h *ResourceHandlers) readAllClients(uri string) (*mcp.ReadResourceResult, error) {
	clients := h.store.Clients.List()
	out := make([]ClientOutput, len(clients))
	for i, c := range clients {
		out[i] = clientToOutput(c)
	}
	return jsonResource(uri, out)
}

func (h *ResourceHandlers) readClient(uri, id string) (*mcp.ReadResourceResult, error) {
	c, ok := h.store.Clients.Get(id)
	if !ok {
		return nil, mcp.ResourceNotFoundError(uri)
	}
	return jsonResource(uri, GetClientOutput{
		Client:       clientToOutput(c),
		Interactions: interactionsToOutput(h.store.Interactions.ListForClient(id)),
	})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}

// ABOUTME: MCP server subcommand
// ABOUTME: Serves the client, interaction, parser and AI tools plus resources and prompts on stdio
package cli

import (
	"github.com/dexterfire861/ClarityWorks/ai"
	"github.com/dexterfire861/ClarityWorks/handlers"
	"github.com/dexterfire861/ClarityWorks/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server on stdio for desktop assistants",
		Args:  cobra.NoArgs,
		RunE: a.withStore(func(cmd *cobra.Command, _ []string, s *store.Store) error {
			a.logger.Info("starting MCP server",
				zap.String("backend", a.cfg.Storage.Backend),
				zap.Bool("mock_crm", a.cfg.AI.MockCRM))

			server := newMCPServer(s, a.adapter(), a.crmGenerator())
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		}),
	}
}

func newMCPServer(s *store.Store, prep handlers.MeetingPrepGenerator, crm ai.CRMGenerator) *mcp.Server {
	clientHandlers := handlers.NewClientHandlers(s)
	interactionHandlers := handlers.NewInteractionHandlers(s)
	parseHandlers := handlers.NewParseHandlers()
	aiHandlers := handlers.NewAIHandlers(s, prep, crm)
	resourceHandlers := handlers.NewResourceHandlers(s)
	promptHandlers := handlers.NewPromptHandlers(s)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "clarity",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_clients",
		Description: "List built-in and custom clients, optionally filtered by name",
	}, clientHandlers.ListClients)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_client",
		Description: "Get a client's goals, accounts and interaction history",
	}, clientHandlers.GetClient)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_client",
		Description: "Add a custom client; goals and accounts accept free text or JSON",
	}, clientHandlers.AddClient)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_client",
		Description: "Delete a custom client and its interaction history",
	}, clientHandlers.DeleteClient)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_interactions",
		Description: "List a client's interactions, newest first",
	}, interactionHandlers.ListInteractions)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "log_interaction",
		Description: "Log a meeting, call, email or note for a client",
	}, interactionHandlers.LogInteraction)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_interaction",
		Description: "Edit an interaction; omitted fields are left unchanged",
	}, interactionHandlers.UpdateInteraction)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_interaction",
		Description: "Delete an interaction",
	}, interactionHandlers.DeleteInteraction)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "seed_interactions",
		Description: "Load sample history for a built-in client that has none",
	}, interactionHandlers.SeedInteractions)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "parse_goals",
		Description: "Preview how free-text or JSON goals will be parsed",
	}, parseHandlers.ParseGoals)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "parse_accounts",
		Description: "Preview how free-text or JSON accounts will be parsed",
	}, parseHandlers.ParseAccounts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_meeting_prep",
		Description: "Generate a meeting prep briefing from a client's profile and recent interactions",
	}, aiHandlers.GenerateMeetingPrep)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_crm_update",
		Description: "Suggest CRM field updates and follow-up tasks from meeting notes",
	}, aiHandlers.GenerateCRMUpdate)

	server.AddResource(&mcp.Resource{
		URI:         handlers.ClientsURI,
		Name:        "clients",
		Description: "All clients",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: handlers.ClientURITemplate,
		Name:        "client",
		Description: "One client with its interaction history",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	server.AddPrompt(&mcp.Prompt{
		Name:        handlers.MeetingPrepPromptName,
		Description: "Prepare for a client meeting",
		Arguments: []*mcp.PromptArgument{
			{Name: "client_id", Description: "Client ID", Required: true},
		},
	}, promptHandlers.GetPrompt)

	return server
}

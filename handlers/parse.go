// ABOUTME: Free-text parsing MCP tool handlers
// ABOUTME: Implements parse_goals and parse_accounts so an assistant can preview records before saving
package handlers

import (
	"context"

	"github.com/dexterfire861/ClarityWorks/parser"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ParseHandlers struct{}

func NewParseHandlers() *ParseHandlers {
	return &ParseHandlers{}
}

type ParseTextInput struct {
	Text string `json:"text" jsonschema:"A JSON array or one record per line with '|' separated fields"`
}

type ParseGoalsOutput struct {
	Goals []GoalOutput `json:"goals"`
}

type ParseAccountsOutput struct {
	Accounts []AccountOutput `json:"accounts"`
}

func (h *ParseHandlers) ParseGoals(_ context.Context, request *mcp.CallToolRequest, input ParseTextInput) (*mcp.CallToolResult, ParseGoalsOutput, error) {
	return nil, ParseGoalsOutput{Goals: goalsToOutput(parser.ParseGoals(input.Text))}, nil
}

func (h *ParseHandlers) ParseAccounts(_ context.Context, request *mcp.CallToolRequest, input ParseTextInput) (*mcp.CallToolResult, ParseAccountsOutput, error) {
	return nil, ParseAccountsOutput{Accounts: accountsToOutput(parser.ParseAccounts(input.Text))}, nil
}

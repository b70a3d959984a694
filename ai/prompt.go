// ABOUTME: Builds the system and user prompts sent to the chat model
// ABOUTME: Embeds client, goal, account and interaction context as plain text
package ai

import (
	"fmt"
	"strings"

	"github.com/dexterfire861/ClarityWorks/models"
)

// DocumentSeparator joins uploaded documents into a single prompt body.
const DocumentSeparator = "\n\n---\n\n"

// recentInteractionLimit caps how much history goes into a meeting prep prompt.
const recentInteractionLimit = 10

const (
	kindMeetingPrep = "meeting prep"
	kindClient      = "client extraction"
	kindCRMUpdate   = "CRM update"
)

// Prompt is one system/user message pair.
type Prompt struct {
	Kind   string
	System string
	User   string
}

// MeetingPrepRequest is the context for a meeting briefing.
type MeetingPrepRequest struct {
	Client       models.Client
	Interactions []models.Interaction
}

// CRMUpdateRequest carries the notes to turn into CRM suggestions.
type CRMUpdateRequest struct {
	Client models.Client
	Notes  string
}

const meetingPrepSystem = `You are an assistant to a financial advisor preparing for a client meeting.
Respond with a single JSON object with exactly these keys:
"clientSnapshot" (string), "recentContext" (string), "keyTopicsToDiscuss" (array of strings),
"openActionItems" (array of strings), "questionsToAsk" (array of strings),
"potentialConcerns" (string), "relationshipNotes" (string).
Base everything on the data provided. Do not invent balances or dates.`

const extractClientSystem = `You extract structured client records from documents supplied by a financial advisor.
Respond with a single JSON object with these keys:
"name" (string), "aum" (number), "riskProfile" (one of "Conservative", "Moderate", "Moderate-Aggressive", "Aggressive"),
"advisor" (string), "lastContact" (YYYY-MM-DD),
"goals" (array of {"name", "targetAmount", "currentAmount", "targetDate"}),
"accounts" (array of {"name", "type", "balance"}) where type is one of "IRA", "Brokerage", "401k", "Roth IRA", "Trust".
Only use information present in the documents. Use 0 for unknown amounts and leave unknown text empty.`

const crmUpdateSystem = `You update a financial advisor's CRM from raw meeting notes.
Respond with a single JSON object with these keys:
"fieldUpdates" (array of {"fieldName", "currentValue", "proposedValue", "confidence" between 0 and 1, "sourceSnippet"}),
"tasks" (array of {"owner", "description", "dueDate" as YYYY-MM-DD or null, "priority" one of "low", "medium", "high"}),
"auditLog" ({"summary", "tags" array of strings, "timestamp" RFC 3339}).
Only propose changes supported by a quoted snippet of the notes.`

// MeetingPrepPrompt renders the prompt for GenerateMeetingPrep.
func MeetingPrepPrompt(req MeetingPrepRequest) Prompt {
	var b strings.Builder
	writeClient(&b, req.Client)

	b.WriteString("\nRecent interactions:\n")
	if len(req.Interactions) == 0 {
		b.WriteString("- none recorded\n")
	}
	for i, it := range req.Interactions {
		if i == recentInteractionLimit {
			break
		}
		fmt.Fprintf(&b, "- %s [%s] %s", it.Date, it.Type, it.Title)
		if notes := strings.TrimSpace(it.Notes); notes != "" {
			fmt.Fprintf(&b, ": %s", notes)
		}
		b.WriteString("\n")
		for _, item := range it.ActionItems {
			fmt.Fprintf(&b, "    action item: %s\n", item)
		}
	}

	return Prompt{Kind: kindMeetingPrep, System: meetingPrepSystem, User: b.String()}
}

// ClientExtractionPrompt renders the prompt for ParseClientFromDocuments.
func ClientExtractionPrompt(documents []string) Prompt {
	return Prompt{
		Kind:   kindClient,
		System: extractClientSystem,
		User:   "Documents:\n\n" + strings.Join(documents, DocumentSeparator),
	}
}

// CRMUpdatePrompt renders the prompt for GenerateCRMUpdate.
func CRMUpdatePrompt(req CRMUpdateRequest) Prompt {
	var b strings.Builder
	writeClient(&b, req.Client)
	b.WriteString("\nMeeting notes:\n")
	b.WriteString(strings.TrimSpace(req.Notes))
	b.WriteString("\n")
	return Prompt{Kind: kindCRMUpdate, System: crmUpdateSystem, User: b.String()}
}

func writeClient(b *strings.Builder, c models.Client) {
	fmt.Fprintf(b, "Client: %s\n", c.Name)
	fmt.Fprintf(b, "AUM: $%s\n", c.AUM.StringFixed(2))
	fmt.Fprintf(b, "Risk profile: %s\n", c.RiskProfile)
	if c.Advisor != "" {
		fmt.Fprintf(b, "Advisor: %s\n", c.Advisor)
	}
	if !c.LastContact.IsZero() {
		fmt.Fprintf(b, "Last contact: %s\n", c.LastContact)
	}

	b.WriteString("\nGoals:\n")
	if len(c.Goals) == 0 {
		b.WriteString("- none\n")
	}
	for _, g := range c.Goals {
		fmt.Fprintf(b, "- %s: $%s of $%s by %s (%.0f%%)\n",
			g.Name, g.CurrentAmount.StringFixed(0), g.TargetAmount.StringFixed(0), g.TargetDate, g.Progress()*100)
	}

	b.WriteString("\nAccounts:\n")
	if len(c.Accounts) == 0 {
		b.WriteString("- none\n")
	}
	for _, a := range c.Accounts {
		fmt.Fprintf(b, "- %s (%s): $%s\n", a.Name, a.Type, a.Balance.StringFixed(2))
	}
}

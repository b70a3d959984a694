// ABOUTME: The adapter operations: meeting prep, client extraction from documents, CRM suggestions
// ABOUTME: Each is a single prompt round trip followed by schema validation and coercion
package ai

import (
	"context"
	"strings"

	"github.com/dexterfire861/ClarityWorks/models"
	"github.com/dexterfire861/ClarityWorks/parser"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// CRMGenerator produces CRM update suggestions from meeting notes.
// Both the live Adapter and MockCRM implement it.
type CRMGenerator interface {
	GenerateCRMUpdate(ctx context.Context, req CRMUpdateRequest) (models.CRMUpdate, error)
}

// GenerateMeetingPrep asks the model for a briefing on req.Client.
func (a *Adapter) GenerateMeetingPrep(ctx context.Context, req MeetingPrepRequest) (models.MeetingPrep, error) {
	r, err := a.request(ctx, MeetingPrepPrompt(req), meetingPrepSchema)
	if err != nil {
		return models.MeetingPrep{}, err
	}

	return models.MeetingPrep{
		ClientSnapshot:     parser.StringFrom(r.Get("clientSnapshot")),
		RecentContext:      parser.StringFrom(r.Get("recentContext")),
		KeyTopicsToDiscuss: stringList(r.Get("keyTopicsToDiscuss")),
		OpenActionItems:    stringList(r.Get("openActionItems")),
		QuestionsToAsk:     stringList(r.Get("questionsToAsk")),
		PotentialConcerns:  parser.StringFrom(r.Get("potentialConcerns")),
		RelationshipNotes:  parser.StringFrom(r.Get("relationshipNotes")),
	}, nil
}

// ParseClientFromDocuments extracts a client record from raw document text.
// The result is marked custom but is not persisted. An id the model omits is
// synthesized with the custom prefix; ClientStore.Create allocates its own.
func (a *Adapter) ParseClientFromDocuments(ctx context.Context, documents []string) (models.Client, error) {
	r, err := a.request(ctx, ClientExtractionPrompt(documents), clientSchema)
	if err != nil {
		return models.Client{}, err
	}
	return clientFromJSON(r), nil
}

func clientFromJSON(r gjson.Result) models.Client {
	risk, ok := models.ParseRiskProfile(parser.StringFrom(r.Get("riskProfile")))
	if !ok {
		risk = models.RiskModerate
	}

	var lastContact models.Date
	if d, err := models.ParseDate(parser.StringFrom(r.Get("lastContact"))); err == nil {
		lastContact = d
	}

	id := strings.TrimSpace(parser.StringFrom(r.Get("id")))
	if id == "" {
		id = models.CustomIDPrefix + uuid.NewString()
	}

	return models.Client{
		ID:          id,
		Name:        parser.StringFrom(r.Get("name")),
		AUM:         parser.AmountFrom(r.Get("aum")),
		RiskProfile: risk,
		Advisor:     parser.StringFrom(r.Get("advisor")),
		LastContact: lastContact,
		Goals:       parser.GoalsFromJSON(r.Get("goals")),
		Accounts:    parser.AccountsFromJSON(r.Get("accounts")),
		Provenance:  models.ProvenanceCustom,
	}
}

// GenerateCRMUpdate asks the model for field changes and tasks implied by req.Notes.
func (a *Adapter) GenerateCRMUpdate(ctx context.Context, req CRMUpdateRequest) (models.CRMUpdate, error) {
	r, err := a.request(ctx, CRMUpdatePrompt(req), crmUpdateSchema)
	if err != nil {
		return models.CRMUpdate{}, err
	}

	update := models.CRMUpdate{
		FieldUpdates: []models.FieldUpdate{},
		Tasks:        []models.Task{},
	}
	for _, f := range r.Get("fieldUpdates").Array() {
		update.FieldUpdates = append(update.FieldUpdates, models.FieldUpdate{
			FieldName:     parser.StringFrom(f.Get("fieldName")),
			CurrentValue:  parser.StringFrom(f.Get("currentValue")),
			ProposedValue: parser.StringFrom(f.Get("proposedValue")),
			Confidence:    confidenceFrom(f.Get("confidence")),
			SourceSnippet: parser.StringFrom(f.Get("sourceSnippet")),
		})
	}
	for _, t := range r.Get("tasks").Array() {
		update.Tasks = append(update.Tasks, models.Task{
			Owner:       parser.StringFrom(t.Get("owner")),
			Description: parser.StringFrom(t.Get("description")),
			DueDate:     dueDateFrom(t.Get("dueDate")),
			Priority:    priorityFrom(t.Get("priority")),
		})
	}

	audit := r.Get("auditLog")
	update.AuditLog = models.AuditLog{
		Summary:   parser.StringFrom(audit.Get("summary")),
		Tags:      stringList(audit.Get("tags")),
		Timestamp: timestampFrom(audit.Get("timestamp"), a.cfg.Now()),
	}
	return update, nil
}

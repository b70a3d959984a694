// ABOUTME: Canned CRM update generator that simulates model latency
// ABOUTME: Derives deterministic suggestions from keywords in the meeting notes
package ai

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dexterfire861/ClarityWorks/models"
)

// DefaultMockDelay is the simulated latency of MockCRM.
const DefaultMockDelay = 1500 * time.Millisecond

const mockTaskLeadDays = 7

var (
	sentenceSplit = regexp.MustCompile(`[.!?\n]+`)
	taskVerbs     = []string{"follow up", "send", "schedule", "call", "review", "email"}
)

// MockCRM returns CRM suggestions without calling a provider.
type MockCRM struct {
	Delay time.Duration
	Now   func() time.Time
}

// GenerateCRMUpdate waits Delay, or until ctx is done, then builds a
// suggestion set from the notes.
func (m MockCRM) GenerateCRMUpdate(ctx context.Context, req CRMUpdateRequest) (models.CRMUpdate, error) {
	if m.Delay > 0 {
		timer := time.NewTimer(m.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return models.CRMUpdate{}, ctx.Err()
		case <-timer.C:
		}
	}

	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	ts := now().UTC()
	today := models.NewDate(ts)
	sentences := splitSentences(req.Notes)

	update := models.CRMUpdate{
		FieldUpdates: []models.FieldUpdate{{
			FieldName:     "lastContact",
			CurrentValue:  req.Client.LastContact.String(),
			ProposedValue: today.String(),
			Confidence:    0.95,
			SourceSnippet: firstOr(sentences, ""),
		}},
		Tasks: []models.Task{},
	}

	for _, s := range sentences {
		lower := strings.ToLower(s)
		if p := mentionedRisk(lower); p != "" && p != req.Client.RiskProfile {
			update.FieldUpdates = append(update.FieldUpdates, models.FieldUpdate{
				FieldName:     "riskProfile",
				CurrentValue:  string(req.Client.RiskProfile),
				ProposedValue: string(p),
				Confidence:    0.6,
				SourceSnippet: s,
			})
		}
		for _, verb := range taskVerbs {
			if strings.Contains(lower, verb) {
				due := models.NewDate(ts.AddDate(0, 0, mockTaskLeadDays))
				update.Tasks = append(update.Tasks, models.Task{
					Owner:       orAdvisor(req.Client.Advisor),
					Description: s,
					DueDate:     &due,
					Priority:    models.PriorityMedium,
				})
				break
			}
		}
	}

	update.AuditLog = models.AuditLog{
		Summary:   fmt.Sprintf("Meeting notes reviewed for %s", req.Client.Name),
		Tags:      []string{"meeting-notes", "mock"},
		Timestamp: ts,
	}
	return update, nil
}

func splitSentences(notes string) []string {
	var out []string
	for _, s := range sentenceSplit.Split(notes, -1) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// mentionedRisk finds the most specific risk profile named in s.
func mentionedRisk(lower string) models.RiskProfile {
	switch {
	case strings.Contains(lower, "moderate-aggressive"), strings.Contains(lower, "moderately aggressive"):
		return models.RiskModerateAggressive
	case strings.Contains(lower, "conservative"):
		return models.RiskConservative
	case strings.Contains(lower, "aggressive"):
		return models.RiskAggressive
	case strings.Contains(lower, "moderate"):
		return models.RiskModerate
	}
	return ""
}

func firstOr(list []string, fallback string) string {
	if len(list) == 0 {
		return fallback
	}
	return list[0]
}

func orAdvisor(name string) string {
	if strings.TrimSpace(name) == "" {
		return "Advisor"
	}
	return name
}

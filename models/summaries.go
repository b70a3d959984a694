// ABOUTME: Transient AI-generated results: meeting prep and CRM update suggestions
// ABOUTME: Also folds a CRM update into an interaction so it can be kept in history
package models

import (
	"fmt"
	"strings"
	"time"
)

// MeetingPrep is a briefing generated before a client meeting.
type MeetingPrep struct {
	ClientSnapshot     string   `json:"clientSnapshot"`
	RecentContext      string   `json:"recentContext"`
	KeyTopicsToDiscuss []string `json:"keyTopicsToDiscuss"`
	OpenActionItems    []string `json:"openActionItems"`
	QuestionsToAsk     []string `json:"questionsToAsk"`
	PotentialConcerns  string   `json:"potentialConcerns"`
	RelationshipNotes  string   `json:"relationshipNotes"`
}

// Priority of a CRM follow-up task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority matches s case-insensitively.
func ParsePriority(s string) (Priority, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return PriorityLow, true
	case "medium":
		return PriorityMedium, true
	case "high":
		return PriorityHigh, true
	}
	return "", false
}

type FieldUpdate struct {
	FieldName     string  `json:"fieldName"`
	CurrentValue  string  `json:"currentValue"`
	ProposedValue string  `json:"proposedValue"`
	Confidence    float64 `json:"confidence"`
	SourceSnippet string  `json:"sourceSnippet"`
}

type Task struct {
	Owner       string   `json:"owner"`
	Description string   `json:"description"`
	DueDate     *Date    `json:"dueDate,omitempty"`
	Priority    Priority `json:"priority"`
}

type AuditLog struct {
	Summary   string    `json:"summary"`
	Tags      []string  `json:"tags"`
	Timestamp time.Time `json:"timestamp"`
}

// CRMUpdate is a set of suggested field changes and follow-up tasks
// extracted from meeting notes.
type CRMUpdate struct {
	FieldUpdates []FieldUpdate `json:"fieldUpdates"`
	Tasks        []Task        `json:"tasks"`
	AuditLog     AuditLog      `json:"auditLog"`
}

// InteractionFromCRMUpdate folds a CRM update into a note on the client's history.
func InteractionFromCRMUpdate(clientID string, u CRMUpdate) InteractionInput {
	title := strings.TrimSpace(u.AuditLog.Summary)
	if title == "" {
		title = "CRM update"
	}

	var notes strings.Builder
	for _, f := range u.FieldUpdates {
		fmt.Fprintf(&notes, "%s: %q -> %q (confidence %.0f%%)\n", f.FieldName, f.CurrentValue, f.ProposedValue, f.Confidence*100)
	}
	if len(u.AuditLog.Tags) > 0 {
		fmt.Fprintf(&notes, "Tags: %s\n", strings.Join(u.AuditLog.Tags, ", "))
	}

	var items []string
	for _, t := range u.Tasks {
		item := fmt.Sprintf("[%s] %s: %s", t.Priority, t.Owner, t.Description)
		if t.DueDate != nil && !t.DueDate.IsZero() {
			item += " (due " + t.DueDate.String() + ")"
		}
		items = append(items, item)
	}

	date := Today()
	if !u.AuditLog.Timestamp.IsZero() {
		date = NewDate(u.AuditLog.Timestamp)
	}

	return InteractionInput{
		ClientID:    clientID,
		Type:        InteractionNote,
		Title:       title,
		Date:        date,
		Notes:       strings.TrimRight(notes.String(), "\n"),
		ActionItems: items,
	}
}

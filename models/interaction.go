// ABOUTME: Interaction log entries recorded against a client
// ABOUTME: Covers meetings, calls, emails and notes plus the partial-update patch
package models

import "time"

// InteractionType constants.
type InteractionType string

const (
	InteractionMeeting InteractionType = "meeting"
	InteractionCall    InteractionType = "call"
	InteractionEmail   InteractionType = "email"
	InteractionNote    InteractionType = "note"
)

// InteractionTypes lists every valid interaction type.
var InteractionTypes = []InteractionType{InteractionMeeting, InteractionCall, InteractionEmail, InteractionNote}

// Valid reports whether t is a known interaction type.
func (t InteractionType) Valid() bool {
	for _, known := range InteractionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Interaction is one entry in the client history. Date is when the event
// happened; CreatedAt is when it was recorded.
type Interaction struct {
	ID          string          `json:"id"`
	ClientID    string          `json:"clientId"`
	Type        InteractionType `json:"type"`
	Title       string          `json:"title"`
	Date        Date            `json:"date"`
	Notes       string          `json:"notes"`
	ActionItems []string        `json:"actionItems,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// InteractionInput carries the fields of a new interaction.
type InteractionInput struct {
	ClientID    string
	Type        InteractionType
	Title       string
	Date        Date
	Notes       string
	ActionItems []string
}

// InteractionPatch is a partial update; nil fields are left unchanged.
type InteractionPatch struct {
	Type        *InteractionType
	Title       *string
	Date        *Date
	Notes       *string
	ActionItems *[]string
}

// Apply copies every non-nil field of p onto i.
func (p InteractionPatch) Apply(i *Interaction) {
	if p.Type != nil {
		i.Type = *p.Type
	}
	if p.Title != nil {
		i.Title = *p.Title
	}
	if p.Date != nil {
		i.Date = *p.Date
	}
	if p.Notes != nil {
		i.Notes = *p.Notes
	}
	if p.ActionItems != nil {
		i.ActionItems = append([]string(nil), (*p.ActionItems)...)
	}
}

// Empty reports whether the patch changes nothing.
func (p InteractionPatch) Empty() bool {
	return p.Type == nil && p.Title == nil && p.Date == nil && p.Notes == nil && p.ActionItems == nil
}

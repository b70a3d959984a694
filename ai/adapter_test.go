// ABOUTME: Tests for the AI adapter against a fake chat-completion server
// ABOUTME: Covers request shape, typed errors, fence stripping and payload coercion
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dexterfire861/ClarityWorks/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var fixedNow = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

type fakeProvider struct {
	*httptest.Server

	mu       sync.Mutex
	calls    int
	lastBody []byte
	lastAuth string
	lastPath string

	status int
	body   string
}

// newFakeProvider answers every request with status and a raw body.
func newFakeProvider(t *testing.T, status int, body string) *fakeProvider {
	t.Helper()
	f := &fakeProvider{status: status, body: body}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.calls++
		f.lastBody = data
		f.lastAuth = r.Header.Get("Authorization")
		f.lastPath = r.Method + " " + r.URL.Path
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.status)
		_, _ = io.WriteString(w, f.body)
	}))
	t.Cleanup(f.Close)
	return f
}

// newContentProvider wraps content in a successful chat-completion envelope.
func newContentProvider(t *testing.T, content string) *fakeProvider {
	t.Helper()
	envelope, err := json.Marshal(map[string]any{
		"id": "chatcmpl-test",
		"choices": []map[string]any{
			{"index": 0, "message": map[string]any{"role": "assistant", "content": content}},
		},
	})
	require.NoError(t, err)
	return newFakeProvider(t, http.StatusOK, string(envelope))
}

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeProvider) lastRequest() (path, auth string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastPath, f.lastAuth
}

func (f *fakeProvider) requestBody() gjson.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	return gjson.ParseBytes(f.lastBody)
}

func newTestAdapter(f *fakeProvider, logger *zap.Logger) *Adapter {
	return New(Config{
		APIKey:     "test-key",
		BaseURL:    f.URL + "/",
		Model:      "test-model",
		HTTPClient: f.Client(),
		Logger:     logger,
		Now:        func() time.Time { return fixedNow },
	})
}

func TestAdapterDefaults(t *testing.T) {
	a := New(Config{})
	assert.Equal(t, DefaultModel, a.Model())
	assert.Equal(t, DefaultTemperature, a.temperature)
}

func TestZeroTemperatureIsSent(t *testing.T) {
	f := newContentProvider(t, `{"clientSnapshot":"s","recentContext":"r","keyTopicsToDiscuss":[],"openActionItems":[],"questionsToAsk":[],"potentialConcerns":"","relationshipNotes":""}`)
	zero := 0.0
	a := New(Config{
		APIKey:      "test-key",
		BaseURL:     f.URL,
		Temperature: &zero,
		HTTPClient:  f.Client(),
	})

	_, err := a.GenerateMeetingPrep(context.Background(), MeetingPrepRequest{Client: sampleClient()})
	require.NoError(t, err)

	temp := f.requestBody().Get("temperature")
	require.True(t, temp.Exists())
	assert.Equal(t, 0.0, temp.Float())
}

func sampleClient() models.Client {
	return models.Client{
		ID:          "client-1",
		Name:        "Margaret Chen",
		AUM:         decimal.NewFromInt(2450000),
		RiskProfile: models.RiskModerate,
		Advisor:     "Sarah Whitfield",
		LastContact: models.MustParseDate("2026-09-12"),
		Goals: []models.Goal{
			{ID: "g1", Name: "Retirement at 62", TargetAmount: decimal.NewFromInt(3000000), CurrentAmount: decimal.NewFromInt(2100000), TargetDate: models.MustParseDate("2030-01-01")},
		},
		Accounts: []models.Account{
			{ID: "a1", Name: "Rollover IRA", Type: models.AccountIRA, Balance: decimal.NewFromInt(1850000)},
		},
		Provenance: models.ProvenanceBuiltin,
	}
}

func TestMeetingPrepRequestShape(t *testing.T) {
	f := newContentProvider(t, `{"clientSnapshot":"s","recentContext":"r","keyTopicsToDiscuss":[],"openActionItems":[],"questionsToAsk":[],"potentialConcerns":"","relationshipNotes":""}`)
	a := newTestAdapter(f, nil)

	_, err := a.GenerateMeetingPrep(context.Background(), MeetingPrepRequest{
		Client: sampleClient(),
		Interactions: []models.Interaction{
			{Type: models.InteractionMeeting, Title: "Annual review", Date: models.MustParseDate("2026-09-12"), Notes: "Discussed RMD timing", ActionItems: []string{"Send DAF paperwork"}},
		},
	})
	require.NoError(t, err)

	path, auth := f.lastRequest()
	assert.Equal(t, "POST /chat/completions", path)
	assert.Equal(t, "Bearer test-key", auth)

	body := f.requestBody()
	assert.Equal(t, "test-model", body.Get("model").String())
	assert.Equal(t, "json_object", body.Get("response_format.type").String())
	assert.Equal(t, 0.3, body.Get("temperature").Float())
	assert.Equal(t, int64(2000), body.Get("max_tokens").Int())
	assert.Equal(t, "system", body.Get("messages.0.role").String())
	assert.Equal(t, "user", body.Get("messages.1.role").String())

	user := body.Get("messages.1.content").String()
	assert.Contains(t, user, "Margaret Chen")
	assert.Contains(t, user, "Retirement at 62")
	assert.Contains(t, user, "Rollover IRA (IRA)")
	assert.Contains(t, user, "Annual review")
	assert.Contains(t, user, "Send DAF paperwork")
}

func TestMeetingPrepCoercesFields(t *testing.T) {
	f := newContentProvider(t, `{
		"clientSnapshot": "Retiree with a large IRA",
		"recentContext": null,
		"keyTopicsToDiscuss": "Rebalance toward bonds",
		"openActionItems": ["Send DAF paperwork", 7],
		"potentialConcerns": 42,
		"relationshipNotes": "Prefers morning calls"
	}`)
	a := newTestAdapter(f, nil)

	prep, err := a.GenerateMeetingPrep(context.Background(), MeetingPrepRequest{Client: sampleClient()})
	require.NoError(t, err)

	assert.Equal(t, []string{"Rebalance toward bonds"}, prep.KeyTopicsToDiscuss)
	assert.Equal(t, []string{"Send DAF paperwork", "7"}, prep.OpenActionItems)
	assert.NotNil(t, prep.QuestionsToAsk)
	assert.Empty(t, prep.QuestionsToAsk)
	assert.Equal(t, "", prep.RecentContext)
	assert.Equal(t, "42", prep.PotentialConcerns)
	assert.Equal(t, "Retiree with a large IRA", prep.ClientSnapshot)
	assert.Equal(t, "Prefers morning calls", prep.RelationshipNotes)
}

func TestMissingAPIKeyMakesNoRequest(t *testing.T) {
	f := newContentProvider(t, `{}`)
	a := New(Config{BaseURL: f.URL, HTTPClient: f.Client()})
	ctx := context.Background()

	var cfgErr *ConfigurationError

	_, err := a.GenerateMeetingPrep(ctx, MeetingPrepRequest{Client: sampleClient()})
	require.True(t, errors.As(err, &cfgErr), "got %v", err)

	_, err = a.ParseClientFromDocuments(ctx, []string{"doc"})
	require.True(t, errors.As(err, &cfgErr), "got %v", err)

	_, err = a.GenerateCRMUpdate(ctx, CRMUpdateRequest{Client: sampleClient(), Notes: "notes"})
	require.True(t, errors.As(err, &cfgErr), "got %v", err)

	assert.Zero(t, f.callCount())
}

func TestUpstreamErrors(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"provider envelope", http.StatusTooManyRequests, `{"error":{"message":"Rate limit reached","type":"requests"}}`, "Rate limit reached"},
		{"top level message", http.StatusBadRequest, `{"message":"bad model"}`, "bad model"},
		{"known status without body", http.StatusUnauthorized, ``, "authentication failed, check your API key"},
		{"plain text body", http.StatusInternalServerError, `boom`, "boom"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFakeProvider(t, tc.status, tc.body)
			a := newTestAdapter(f, nil)

			_, err := a.GenerateMeetingPrep(context.Background(), MeetingPrepRequest{Client: sampleClient()})
			var upErr *UpstreamError
			require.True(t, errors.As(err, &upErr), "got %v", err)
			assert.Equal(t, tc.status, upErr.Status)
			assert.Equal(t, tc.message, upErr.Message)
			assert.Equal(t, 1, f.callCount(), "no retries")
		})
	}
}

func TestTransportFailureIsUpstreamError(t *testing.T) {
	f := newContentProvider(t, `{}`)
	a := newTestAdapter(f, nil)
	f.Close()

	_, err := a.GenerateCRMUpdate(context.Background(), CRMUpdateRequest{Client: sampleClient(), Notes: "x"})
	var upErr *UpstreamError
	require.True(t, errors.As(err, &upErr), "got %v", err)
	assert.Zero(t, upErr.Status)
}

func TestCodeFencesStripped(t *testing.T) {
	f := newContentProvider(t, "```json\n{\"clientSnapshot\":\"fenced\",\"keyTopicsToDiscuss\":[\"a\"]}\n```")
	a := newTestAdapter(f, nil)

	prep, err := a.GenerateMeetingPrep(context.Background(), MeetingPrepRequest{Client: sampleClient()})
	require.NoError(t, err)
	assert.Equal(t, "fenced", prep.ClientSnapshot)
	assert.Equal(t, []string{"a"}, prep.KeyTopicsToDiscuss)
}

func TestStripFences(t *testing.T) {
	cases := map[string]string{
		`{"a":1}`:                 `{"a":1}`,
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n{\"a\":1}\n```":     `{"a":1}`,
		"```{\"a\":1}```":         `{"a":1}`,
		"  ```JSON\n[1]\n```  ":   `[1]`,
	}
	for in, want := range cases {
		assert.Equal(t, want, stripFences(in), "input %q", in)
	}
}

func TestUnparseableContentIsParseError(t *testing.T) {
	for _, content := range []string{"Sure! Here is your summary.", `[{"clientSnapshot":"x"}]`, `"just a string"`} {
		core, logs := observer.New(zapcore.DebugLevel)
		f := newContentProvider(t, content)
		a := newTestAdapter(f, zap.New(core))

		_, err := a.GenerateMeetingPrep(context.Background(), MeetingPrepRequest{Client: sampleClient()})
		var parseErr *ParseError
		require.True(t, errors.As(err, &parseErr), "content %q: got %v", content, err)
		assert.NotContains(t, err.Error(), content, "raw content must not leak into the error")

		entries := logs.FilterMessage("unusable model response").All()
		require.Len(t, entries, 1)
		assert.Equal(t, content, entries[0].ContextMap()["content"])
	}
}

func TestMissingContentIsParseError(t *testing.T) {
	f := newFakeProvider(t, http.StatusOK, `{"choices":[]}`)
	a := newTestAdapter(f, nil)

	_, err := a.GenerateMeetingPrep(context.Background(), MeetingPrepRequest{Client: sampleClient()})
	var parseErr *ParseError
	assert.True(t, errors.As(err, &parseErr), "got %v", err)
}

func TestParseClientFromDocuments(t *testing.T) {
	f := newContentProvider(t, `{
		"name": "Jane Park",
		"aum": "$1,200,000",
		"riskProfile": "YOLO",
		"advisor": "Sarah Whitfield",
		"lastContact": "2026-08-01",
		"goals": {"name": "not a list"},
		"accounts": [
			{"name": "Old 401k", "type": "401(k)", "balance": "50000"},
			{"type": "crypto", "balance": 10},
			{"id": "acct-given", "name": "Roth", "type": "Roth IRA", "balance": -3}
		]
	}`)
	a := newTestAdapter(f, nil)

	docs := []string{"Statement one", "Statement two"}
	c, err := a.ParseClientFromDocuments(context.Background(), docs)
	require.NoError(t, err)

	user := f.requestBody().Get("messages.1.content").String()
	assert.Contains(t, user, "Statement one\n\n---\n\nStatement two")

	assert.Equal(t, "Jane Park", c.Name)
	assert.True(t, c.AUM.Equal(decimal.NewFromInt(1200000)), "aum %s", c.AUM)
	assert.Equal(t, models.RiskModerate, c.RiskProfile)
	assert.Equal(t, "2026-08-01", c.LastContact.String())
	assert.Equal(t, models.ProvenanceCustom, c.Provenance)
	assert.True(t, strings.HasPrefix(c.ID, models.CustomIDPrefix), "synthesized id %q", c.ID)
	assert.NotNil(t, c.Goals)
	assert.Empty(t, c.Goals)

	require.Len(t, c.Accounts, 3)
	assert.Equal(t, models.Account401k, c.Accounts[0].Type)
	assert.True(t, c.Accounts[0].Balance.Equal(decimal.NewFromInt(50000)))
	assert.Equal(t, models.AccountBrokerage, c.Accounts[1].Type)
	assert.Equal(t, "Account", c.Accounts[1].Name)
	assert.NotEmpty(t, c.Accounts[1].ID)
	assert.Equal(t, "acct-given", c.Accounts[2].ID)
	assert.True(t, c.Accounts[2].Balance.IsZero())
}

func TestParseClientKnownRiskProfileKept(t *testing.T) {
	f := newContentProvider(t, `{"name":"A","aum":10,"riskProfile":"aggressive","goals":[{"name":"Boat","targetAmount":50000,"currentAmount":"5000","targetDate":"2028-05-01"}],"accounts":[]}`)
	a := newTestAdapter(f, nil)

	c, err := a.ParseClientFromDocuments(context.Background(), []string{"doc"})
	require.NoError(t, err)
	assert.Equal(t, models.RiskAggressive, c.RiskProfile)
	require.Len(t, c.Goals, 1)
	assert.Equal(t, "Boat", c.Goals[0].Name)
	assert.True(t, c.Goals[0].CurrentAmount.Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, "2028-05-01", c.Goals[0].TargetDate.String())
}

func TestParseClientKeepsGivenID(t *testing.T) {
	f := newContentProvider(t, `{"id":"custom-from-model","name":"A","aum":10,"riskProfile":"Moderate","goals":[],"accounts":[]}`)
	a := newTestAdapter(f, nil)

	c, err := a.ParseClientFromDocuments(context.Background(), []string{"doc"})
	require.NoError(t, err)
	assert.Equal(t, "custom-from-model", c.ID)
	assert.Equal(t, models.ProvenanceCustom, c.Provenance)
}

func TestGenerateCRMUpdate(t *testing.T) {
	f := newContentProvider(t, `{
		"fieldUpdates": [
			{"fieldName": "riskProfile", "currentValue": "Moderate", "proposedValue": "Conservative", "confidence": 85, "sourceSnippet": "wants less volatility"},
			{"fieldName": "advisor", "currentValue": null, "proposedValue": "Sam", "confidence": 0.4}
		],
		"tasks": [
			{"owner": "Sarah", "description": "Send bond ladder proposal", "dueDate": "2026-11-01", "priority": "HIGH"},
			{"owner": "Ops", "description": "Update beneficiary", "dueDate": null, "priority": "urgent"}
		],
		"auditLog": {"summary": "Risk review", "tags": "risk"}
	}`)
	a := newTestAdapter(f, nil)

	u, err := a.GenerateCRMUpdate(context.Background(), CRMUpdateRequest{Client: sampleClient(), Notes: "Client wants less volatility."})
	require.NoError(t, err)

	assert.Contains(t, f.requestBody().Get("messages.1.content").String(), "Client wants less volatility.")

	require.Len(t, u.FieldUpdates, 2)
	assert.InDelta(t, 0.85, u.FieldUpdates[0].Confidence, 1e-9)
	assert.Equal(t, "", u.FieldUpdates[1].CurrentValue)
	assert.InDelta(t, 0.4, u.FieldUpdates[1].Confidence, 1e-9)

	require.Len(t, u.Tasks, 2)
	assert.Equal(t, models.PriorityHigh, u.Tasks[0].Priority)
	require.NotNil(t, u.Tasks[0].DueDate)
	assert.Equal(t, "2026-11-01", u.Tasks[0].DueDate.String())
	assert.Equal(t, models.PriorityMedium, u.Tasks[1].Priority)
	assert.Nil(t, u.Tasks[1].DueDate)

	assert.Equal(t, "Risk review", u.AuditLog.Summary)
	assert.Equal(t, []string{"risk"}, u.AuditLog.Tags)
	assert.Equal(t, fixedNow, u.AuditLog.Timestamp)
}

func TestValidateReportsDefaultedFields(t *testing.T) {
	v := validate(meetingPrepSchema, `{"clientSnapshot":"x","recentContext":"y","keyTopicsToDiscuss":"one","openActionItems":[],"questionsToAsk":[1],"potentialConcerns":""}`)
	require.True(t, v.OK, v.Reason)
	assert.Empty(t, v.Reason)
	assert.Equal(t, []string{"keyTopicsToDiscuss", "questionsToAsk", "relationshipNotes"}, v.Defaulted)

	v = validate(clientSchema, `{"name":"A","aum":1,"riskProfile":"Moderate","goals":[],"accounts":[]}`)
	assert.True(t, v.OK)
	assert.Empty(t, v.Defaulted)

	v = validate(crmUpdateSchema, `[]`)
	assert.False(t, v.OK)
	assert.NotEmpty(t, v.Reason)

	v = validate(crmUpdateSchema, `{"fieldUpdates":`)
	assert.False(t, v.OK)
}

func TestProviderMessageTruncatesLongBodies(t *testing.T) {
	msg := providerMessage(http.StatusInternalServerError, []byte(strings.Repeat("x", 500)))
	assert.Len(t, msg, 203)
	assert.True(t, strings.HasSuffix(msg, "..."))
}

func TestUserMessage(t *testing.T) {
	assert.Contains(t, UserMessage(&ConfigurationError{Setting: "API key"}), "No API key configured")
	assert.Equal(t, "AI provider error (rate limited). Please try again.", UserMessage(&UpstreamError{Status: 429, Message: "rate limited"}))
	assert.Equal(t, "The AI response could not be read. Please try again.", UserMessage(&ParseError{Kind: kindMeetingPrep, Reason: "secret raw text"}))
	assert.Equal(t, "other", UserMessage(errors.New("other")))
}

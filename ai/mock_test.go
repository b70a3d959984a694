// ABOUTME: Tests for the canned CRM generator
// ABOUTME: Checks cancellation during the simulated delay and the derived suggestions
package ai

import (
	"context"
	"testing"
	"time"

	"github.com/dexterfire861/ClarityWorks/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockCRMHonoursCancellation(t *testing.T) {
	m := MockCRM{Delay: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, err := m.GenerateCRMUpdate(ctx, CRMUpdateRequest{Client: sampleClient(), Notes: "x"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestMockCRMWaitsForDelay(t *testing.T) {
	m := MockCRM{Delay: 20 * time.Millisecond, Now: func() time.Time { return fixedNow }}

	start := time.Now()
	_, err := m.GenerateCRMUpdate(context.Background(), CRMUpdateRequest{Client: sampleClient()})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestMockCRMSuggestions(t *testing.T) {
	m := MockCRM{Now: func() time.Time { return fixedNow }}
	notes := "Met Margaret to review the plan. She wants to be more conservative going into retirement. " +
		"Send the bond ladder proposal! Nothing else to add"

	u, err := m.GenerateCRMUpdate(context.Background(), CRMUpdateRequest{Client: sampleClient(), Notes: notes})
	require.NoError(t, err)

	require.Len(t, u.FieldUpdates, 2)
	assert.Equal(t, "lastContact", u.FieldUpdates[0].FieldName)
	assert.Equal(t, "2026-09-12", u.FieldUpdates[0].CurrentValue)
	assert.Equal(t, "2026-10-19", u.FieldUpdates[0].ProposedValue)
	assert.Equal(t, "Met Margaret to review the plan", u.FieldUpdates[0].SourceSnippet)

	assert.Equal(t, "riskProfile", u.FieldUpdates[1].FieldName)
	assert.Equal(t, string(models.RiskConservative), u.FieldUpdates[1].ProposedValue)

	require.Len(t, u.Tasks, 2, "review and send sentences become tasks")
	assert.Equal(t, "Sarah Whitfield", u.Tasks[0].Owner)
	assert.Equal(t, "Send the bond ladder proposal", u.Tasks[1].Description)
	require.NotNil(t, u.Tasks[1].DueDate)
	assert.Equal(t, "2026-10-26", u.Tasks[1].DueDate.String())

	assert.Equal(t, "Meeting notes reviewed for Margaret Chen", u.AuditLog.Summary)
	assert.Equal(t, fixedNow, u.AuditLog.Timestamp)

	again, err := m.GenerateCRMUpdate(context.Background(), CRMUpdateRequest{Client: sampleClient(), Notes: notes})
	require.NoError(t, err)
	assert.Equal(t, u, again, "deterministic for the same input")
}

func TestMockCRMSatisfiesGenerator(t *testing.T) {
	var _ CRMGenerator = MockCRM{}
	var _ CRMGenerator = New(Config{})
}

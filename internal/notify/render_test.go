package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gritforge/bidtrack/internal/bid"
	"github.com/gritforge/bidtrack/internal/lifecycle"
)

var t0 = time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)

func testRenderer(t *testing.T) *Renderer {
	t.Helper()
	catalog, err := DefaultCatalog()
	require.NoError(t, err)
	return NewRenderer(catalog)
}

func testBid() *bid.Record {
	return bid.New("B-7", "Riverside Medical Office", "Turner Construction",
		"Mike Chen", "mike@turner.example", t0, bid.WithPlatform("PlanHub"))
}

func TestRender_Blocked_AddressesApprover(t *testing.T) {
	renderer := testRenderer(t)
	r := testBid()
	deadline := time.Date(2025, time.March, 5, 14, 0, 0, 0, time.UTC)
	intent, err := lifecycle.MarkAwaitingSean(r, "Is the alternate deduct in scope?", &deadline, t0)
	require.NoError(t, err)

	msg, err := renderer.Render(r, intent)
	require.NoError(t, err)

	assert.Equal(t, "sean@example.com", msg.To)
	assert.Equal(t, "Bid #B-7 NOT Submitted – Awaiting Your Input – Riverside Medical Office", msg.Subject)
	assert.Contains(t, msg.Body, "Decision needed: Is the alternate deduct in scope?")
	assert.Contains(t, msg.Body, "Deadline: Mar 05, 2025 at 2:00 PM")
}

func TestRender_Blocked_NoDeadlineFallsBackToASAP(t *testing.T) {
	renderer := testRenderer(t)
	r := testBid()
	intent, err := lifecycle.MarkAwaitingSean(r, "Bond requirement?", nil, t0)
	require.NoError(t, err)

	msg, err := renderer.Render(r, intent)
	require.NoError(t, err)
	assert.Contains(t, msg.Body, "Deadline: ASAP")
}

func TestRender_Submitted(t *testing.T) {
	renderer := testRenderer(t)
	r := testBid()
	intent, err := lifecycle.MarkSubmitted(r, t0, "planhub-confirmation-8841", t0)
	require.NoError(t, err)

	msg, err := renderer.Render(r, intent)
	require.NoError(t, err)

	assert.Equal(t, "sean@example.com", msg.To)
	assert.Contains(t, msg.Subject, "Submitted")
	assert.Contains(t, msg.Body, "Platform: PlanHub")
	assert.Contains(t, msg.Body, "Proof: planhub-confirmation-8841")
	assert.Contains(t, msg.Body, "Mike Chen / Turner Construction")
}

func TestRender_FollowUp_AddressesEstimator(t *testing.T) {
	renderer := testRenderer(t)
	r := testBid()
	_, err := lifecycle.MarkSubmitted(r, t0, "proof.png", t0)
	require.NoError(t, err)

	for _, kind := range []bid.FollowUpKind{
		bid.FollowUpReceiptConfirmation, bid.FollowUpStatusCheck,
		bid.FollowUpValueTouch, bid.FollowUpCloseoutRequest,
	} {
		intent, err := lifecycle.MarkFollowUpSent(r, kind, t0.AddDate(0, 0, 2))
		require.NoError(t, err)

		msg, err := renderer.Render(r, intent)
		require.NoError(t, err, "kind %s", kind)
		assert.Equal(t, "mike@turner.example", msg.To)
		assert.Contains(t, msg.Body, "Hi Mike Chen")
		assert.Contains(t, msg.Body, "Riverside Medical Office")
		assert.Contains(t, msg.Body, "Arron")
		assert.Contains(t, msg.Body, "GritForge Consultants")
	}
}

func TestRender_SenderOverrides(t *testing.T) {
	catalog, err := DefaultCatalog()
	require.NoError(t, err)
	renderer := NewRenderer(catalog,
		WithSender("Dana", "Keystone Mechanical"),
		WithApproverEmail("approvals@keystone.example"),
	)

	r := testBid()
	intent, err := lifecycle.MarkAwaitingSean(r, "Scope?", nil, t0)
	require.NoError(t, err)

	msg, err := renderer.Render(r, intent)
	require.NoError(t, err)
	assert.Equal(t, "approvals@keystone.example", msg.To)
	assert.Contains(t, msg.Body, "Dana")
}

func TestRender_UnknownIntent(t *testing.T) {
	renderer := testRenderer(t)
	_, err := renderer.Render(testBid(), lifecycle.Intent{Kind: "telepathy"})
	assert.Error(t, err)
}

func TestRender_BlockedIntentWithoutBlockedRecord(t *testing.T) {
	renderer := testRenderer(t)
	_, err := renderer.Render(testBid(), lifecycle.Intent{Kind: lifecycle.IntentBlocked})
	assert.Error(t, err, "a blocked intent needs the blocked sub-record for the question")
}

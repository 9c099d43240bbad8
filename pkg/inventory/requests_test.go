package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionRequest_ApproveStartComplete(t *testing.T) {
	svc, db := newTestService(t)
	res := mustCreateResource(t, db, &Resource{Name: "Chainsaw", Quantity: 4})

	damage, err := svc.ReportDamage(context.Background(), DamageInput{
		ResourceID: res.ID, Actor: "tlopez", Severity: SeverityModerate,
		AffectedQuantity: 1, Description: "bar bent",
	})
	require.NoError(t, err)

	// pending -> approved
	result, err := svc.TransitionRequest(context.Background(), "default", damage.RequestID, "captain", StatusApproved, TransitionOptions{})
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, result.Request.Status)
	assert.Equal(t, "captain", result.Request.ResolvedBy)

	// approved -> in_progress
	result, err = svc.TransitionRequest(context.Background(), "default", damage.RequestID, "mechanic", StatusInProgress, TransitionOptions{})
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, result.Request.Status)

	// in_progress -> completed, with the technician stating the outcome.
	result, err = svc.TransitionRequest(context.Background(), "default", damage.RequestID, "mechanic", StatusCompleted, TransitionOptions{
		Note:              "bar replaced",
		RestoredCondition: ConditionServiceable,
		ActualCost:        85,
		LaborHours:        1.5,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, result.Request.Status)
	require.NotNil(t, result.Request.CompletedAt)
	require.NotEmpty(t, result.LedgerEntryID)

	// Completing the repair restored the stated condition and logged it.
	stored, err := NewResourceStore(db).Get("default", res.ID)
	require.NoError(t, err)
	assert.Equal(t, ConditionServiceable, stored.Condition)
	assert.Contains(t, stored.MaintenanceNotes, "REPAIR COMPLETED")

	entry, err := NewLedgerStore(db).Get("default", result.LedgerEntryID)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, EventRepairCompleted, entry.EventType)
	assert.Equal(t, ConditionServiceable, entry.ResultingCondition)
	assert.Equal(t, 85.0, entry.Cost)
	assert.Equal(t, 1.5, entry.LaborHours)
}

func TestTransitionRequest_CompleteRepairWithoutRestore(t *testing.T) {
	svc, db := newTestService(t)
	res := mustCreateResource(t, db, &Resource{Name: "Chainsaw", Quantity: 4})

	damage, err := svc.ReportDamage(context.Background(), DamageInput{
		ResourceID: res.ID, Actor: "tlopez", Severity: SeverityModerate,
		AffectedQuantity: 1, Description: "bar bent",
	})
	require.NoError(t, err)

	_, err = svc.TransitionRequest(context.Background(), "default", damage.RequestID, "captain", StatusApproved, TransitionOptions{})
	require.NoError(t, err)
	_, err = svc.TransitionRequest(context.Background(), "default", damage.RequestID, "mechanic", StatusInProgress, TransitionOptions{})
	require.NoError(t, err)

	result, err := svc.TransitionRequest(context.Background(), "default", damage.RequestID, "mechanic", StatusCompleted, TransitionOptions{})
	require.NoError(t, err)
	assert.Empty(t, result.LedgerEntryID)

	// Without a stated condition, nothing moves the resource back.
	stored, err := NewResourceStore(db).Get("default", res.ID)
	require.NoError(t, err)
	assert.Equal(t, ConditionUnderMaintenance, stored.Condition)
}

func TestTransitionRequest_CompleteSupplyRestocks(t *testing.T) {
	svc, db := newTestService(t)
	res := mustCreateResource(t, db, &Resource{Name: "Gloves", Quantity: 30, AvailableQuantity: 5, MinStockLevel: 10})

	supply, err := svc.SubmitRequest(context.Background(), RequestInput{
		ResourceID: res.ID, Actor: "quartermaster", Category: CategorySupply,
		Quantity: 25, Justification: "restock",
	})
	require.NoError(t, err)

	_, err = svc.TransitionRequest(context.Background(), "default", supply.RequestID, "captain", StatusApproved, TransitionOptions{})
	require.NoError(t, err)
	_, err = svc.TransitionRequest(context.Background(), "default", supply.RequestID, "captain", StatusInProgress, TransitionOptions{})
	require.NoError(t, err)

	result, err := svc.TransitionRequest(context.Background(), "default", supply.RequestID, "captain", StatusCompleted, TransitionOptions{
		ReceivedQuantity: 25,
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.LedgerEntryID)

	stored, err := NewResourceStore(db).Get("default", res.ID)
	require.NoError(t, err)
	assert.Equal(t, 55, stored.Quantity)
	assert.Equal(t, 30, stored.AvailableQuantity)

	entry, err := NewLedgerStore(db).Get("default", result.LedgerEntryID)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, EventRestock, entry.EventType)
	assert.Equal(t, 25, entry.Quantity)
}

func TestTransitionRequest_InvalidMove(t *testing.T) {
	svc, db := newTestService(t)
	res := mustCreateResource(t, db, &Resource{Name: "Gloves", Quantity: 5})

	supply, err := svc.SubmitRequest(context.Background(), RequestInput{
		ResourceID: res.ID, Actor: "a", Category: CategorySupply, Quantity: 5, Justification: "x",
	})
	require.NoError(t, err)

	_, err = svc.TransitionRequest(context.Background(), "default", supply.RequestID, "captain", StatusCompleted, TransitionOptions{})
	var te *TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, StatusPending, te.From)
	assert.Equal(t, StatusCompleted, te.To)

	// Nothing changed.
	req, err := NewRequestStore(db).Get("default", supply.RequestID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, req.Status)
}

func TestTransitionRequest_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.TransitionRequest(context.Background(), "default", "no-such-id", "captain", StatusApproved, TransitionOptions{})
	require.ErrorIs(t, err, ErrRequestNotFound)
}

func TestRequestStore_ListAndFilters(t *testing.T) {
	svc, db := newTestService(t)
	store := NewRequestStore(db)
	res := mustCreateResource(t, db, &Resource{Name: "Gloves", Quantity: 5})

	_, err := svc.SubmitRequest(context.Background(), RequestInput{
		ResourceID: res.ID, Actor: "alice", Category: CategorySupply, Quantity: 2, Justification: "x",
	})
	require.NoError(t, err)
	_, err = svc.SubmitRequest(context.Background(), RequestInput{
		ResourceID: res.ID, Actor: "bob", Category: CategoryRepair, Justification: "y", Priority: PriorityHigh,
	})
	require.NoError(t, err)

	all, _, err := store.List("default", RequestListFilter{}, 10, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	supply, _, err := store.List("default", RequestListFilter{Category: CategorySupply}, 10, "")
	require.NoError(t, err)
	require.Len(t, supply, 1)
	assert.Equal(t, "alice", supply[0].RequestedBy)

	high, _, err := store.List("default", RequestListFilter{Priority: PriorityHigh}, 10, "")
	require.NoError(t, err)
	require.Len(t, high, 1)
	assert.Equal(t, CategoryRepair, high[0].Category)

	byActor, _, err := store.List("default", RequestListFilter{RequestedBy: "bob"}, 10, "")
	require.NoError(t, err)
	assert.Len(t, byActor, 1)
}

func TestRequestStore_HasOpenSupplyRequest(t *testing.T) {
	svc, db := newTestService(t)
	store := NewRequestStore(db)
	res := mustCreateResource(t, db, &Resource{Name: "Gloves", Quantity: 5})

	open, err := store.HasOpenSupplyRequest(res.ID)
	require.NoError(t, err)
	assert.False(t, open)

	supply, err := svc.SubmitRequest(context.Background(), RequestInput{
		ResourceID: res.ID, Actor: "alice", Category: CategorySupply, Quantity: 2, Justification: "x",
	})
	require.NoError(t, err)

	open, err = store.HasOpenSupplyRequest(res.ID)
	require.NoError(t, err)
	assert.True(t, open)

	_, err = svc.TransitionRequest(context.Background(), "default", supply.RequestID, "captain", StatusRejected, TransitionOptions{})
	require.NoError(t, err)

	open, err = store.HasOpenSupplyRequest(res.ID)
	require.NoError(t, err)
	assert.False(t, open)
}

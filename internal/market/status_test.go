package market

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParentTransitions(t *testing.T) {
	cases := []struct {
		from, to ParentStatus
		ok       bool
	}{
		{ParentPending, ParentPaid, true},
		{ParentPending, ParentCancelled, true},
		{ParentPaid, ParentCompleted, true},
		{ParentPending, ParentCompleted, false},
		{ParentPaid, ParentPending, false},
		{ParentPaid, ParentCancelled, false},
		{ParentCompleted, ParentPaid, false},
		{ParentCancelled, ParentPaid, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.ok, CanTransitionParent(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestSubTransitions(t *testing.T) {
	cases := []struct {
		from, to SubStatus
		ok       bool
	}{
		{SubReceived, SubPreparing, true},
		{SubReceived, SubReadyForPickup, true},
		{SubReceived, SubShipped, true},
		{SubReceived, SubCancelled, true},
		{SubPreparing, SubReadyForPickup, true},
		{SubPreparing, SubShipped, true},
		{SubReadyForPickup, SubCompleted, true},
		{SubShipped, SubCompleted, true},
		{SubReceived, SubCompleted, false},
		{SubCompleted, SubCancelled, false},
		{SubCancelled, SubReceived, false},
		{SubReadyForPickup, SubShipped, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.ok, CanTransitionSub(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestValidStatuses(t *testing.T) {
	assert.True(t, ValidParentStatus(ParentPaid))
	assert.False(t, ValidParentStatus(ParentStatus("shipped")))
	assert.True(t, ValidSubStatus(SubPreparing))
	assert.False(t, ValidSubStatus(SubStatus("paid")))
}

func TestEarnedPoints(t *testing.T) {
	assert.Equal(t, 4, EarnedPoints(decimal.NewFromInt(230)))
	assert.Equal(t, 1, EarnedPoints(decimal.NewFromInt(50)))
	assert.Equal(t, 0, EarnedPoints(decimal.NewFromInt(49)))
	assert.Equal(t, 0, EarnedPoints(decimal.Zero))
	assert.Equal(t, 2, EarnedPoints(decimal.NewFromFloat(149.99)))
}

func TestParentTransitionEffects(t *testing.T) {
	amount := decimal.NewFromInt(230)

	effects := ParentTransitionEffects(ParentPending, ParentPaid, amount)
	if assert.Len(t, effects, 1) {
		assert.Equal(t, EffectCreditPoints, effects[0].Kind)
		assert.Equal(t, 4, effects[0].Points)
	}

	// re-saving an already paid order must not credit again
	assert.Empty(t, ParentTransitionEffects(ParentPaid, ParentPaid, amount))
	// other transitions carry no effects
	assert.Empty(t, ParentTransitionEffects(ParentPending, ParentCancelled, amount))
	assert.Empty(t, ParentTransitionEffects(ParentPaid, ParentCompleted, amount))
	// small orders below one point earn nothing
	assert.Empty(t, ParentTransitionEffects(ParentPending, ParentPaid, decimal.NewFromInt(20)))
}

package market

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLines() []pricedLine {
	return []pricedLine{
		{ProductID: "a", ProductName: "grilled squid", StallID: "stall-1", Quantity: 2, UnitPrice: decimal.NewFromInt(100)},
		{ProductID: "b", ProductName: "bubble tea", StallID: "stall-2", Quantity: 1, UnitPrice: decimal.NewFromInt(30)},
	}
}

func TestOrderTotal(t *testing.T) {
	total := orderTotal(sampleLines())
	assert.True(t, total.Equal(decimal.NewFromInt(230)), "got %s", total)

	assert.True(t, orderTotal(nil).Equal(decimal.Zero))
}

func TestFinalAmountClampsAtZero(t *testing.T) {
	total := decimal.NewFromInt(230)

	assert.True(t, finalAmount(total, 0).Equal(decimal.NewFromInt(230)))
	assert.True(t, finalAmount(total, 30).Equal(decimal.NewFromInt(200)))
	// points can fully cover small orders, never below zero
	assert.True(t, finalAmount(total, 250).Equal(decimal.Zero))
	assert.True(t, finalAmount(total, 230).Equal(decimal.Zero))
}

func TestGroupByStall(t *testing.T) {
	lines := []pricedLine{
		{ProductID: "a", StallID: "stall-2", Quantity: 1},
		{ProductID: "b", StallID: "stall-1", Quantity: 2},
		{ProductID: "c", StallID: "stall-2", Quantity: 3},
	}
	stallIDs, byStall := groupByStall(lines)

	require.Equal(t, []string{"stall-1", "stall-2"}, stallIDs)
	require.Len(t, byStall["stall-1"], 1)
	require.Len(t, byStall["stall-2"], 2)
	assert.Equal(t, "b", byStall["stall-1"][0].ProductID)
	assert.Equal(t, "a", byStall["stall-2"][0].ProductID)
	assert.Equal(t, "c", byStall["stall-2"][1].ProductID)
}

func TestGroupByStallSingleVendor(t *testing.T) {
	stallIDs, byStall := groupByStall(sampleLines()[:1])
	require.Equal(t, []string{"stall-1"}, stallIDs)
	assert.Len(t, byStall["stall-1"], 1)
}

func TestInsufficientStockErrorMessage(t *testing.T) {
	err := &InsufficientStockError{ProductID: "a", ProductName: "grilled squid", Requested: 5, Available: 3}
	assert.Contains(t, err.Error(), "grilled squid")
	assert.Contains(t, err.Error(), "requested 5")
	assert.Contains(t, err.Error(), "available 3")
}

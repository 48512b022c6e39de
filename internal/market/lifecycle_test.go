package market

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// The allow-list and status-value checks reject before any transaction starts,
// so they are testable without a database.

func TestUpdateSubOrderStatusRejectsUnlistedStatus(t *testing.T) {
	settable := map[SubStatus]bool{
		SubReceived:       true,
		SubReadyForPickup: true,
		SubCompleted:      true,
		SubCancelled:      true,
	}
	r := &OrderRepo{}

	_, err := r.UpdateSubOrderStatus(context.Background(), "sub-1", "op-1", SubPreparing, settable)
	assert.ErrorIs(t, err, ErrUnsupportedStatus)

	_, err = r.UpdateSubOrderStatus(context.Background(), "sub-1", "op-1", SubStatus("bogus"), settable)
	assert.ErrorIs(t, err, ErrUnsupportedStatus)
}

func TestUpdateSubOrderStatusConfigurableAllowList(t *testing.T) {
	// a deployment may widen the list to expose preparing/shipped
	settable := map[SubStatus]bool{SubPreparing: true}
	r := &OrderRepo{}

	_, err := r.UpdateSubOrderStatus(context.Background(), "sub-1", "op-1", SubReceived, settable)
	assert.ErrorIs(t, err, ErrUnsupportedStatus)
}

func TestUpdateParentStatusRejectsUnknownStatus(t *testing.T) {
	r := &OrderRepo{}
	_, err := r.UpdateParentStatus(context.Background(), "ord-1", "mem-1", ParentStatus("refunded"))
	assert.ErrorIs(t, err, ErrUnsupportedStatus)
}

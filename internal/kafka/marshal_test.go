package kafka

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnwrapPayload(t *testing.T) {
	type payload struct {
		OrderID string `json:"order_id"`
		Points  int    `json:"points"`
	}

	raw := json.RawMessage(MustMarshal(payload{OrderID: "o-1", Points: 4}))
	got, err := UnwrapPayload[payload](raw)
	require.NoError(t, err)
	assert.Equal(t, "o-1", got.OrderID)
	assert.Equal(t, 4, got.Points)

	_, err = UnwrapPayload[payload](json.RawMessage(`{broken`))
	assert.Error(t, err)
}

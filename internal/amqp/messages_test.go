package amqp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionSyncMessageRoundTrip(t *testing.T) {
	msg := NewTransactionSyncMessage("txn-1")
	data, err := msg.ToJSON()
	require.NoError(t, err)

	decoded, err := TransactionSyncMessageFromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, "txn-1", decoded.TransactionID)
	assert.False(t, decoded.Timestamp.IsZero())
}

func TestTransactionSyncMessageFromJSONRejectsBadInput(t *testing.T) {
	_, err := TransactionSyncMessageFromJSON([]byte("not json"))
	assert.Error(t, err)

	_, err = TransactionSyncMessageFromJSON([]byte(`{"timestamp":"2025-03-10T09:00:00Z"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transaction_id")
}

package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// TransactionSyncMessage asks the sync worker to export one transaction.
type TransactionSyncMessage struct {
	Timestamp     time.Time `json:"timestamp"`
	TransactionID string    `json:"transaction_id"`
}

// NewTransactionSyncMessage creates a sync message for a transaction.
func NewTransactionSyncMessage(transactionID string) *TransactionSyncMessage {
	return &TransactionSyncMessage{
		TransactionID: transactionID,
		Timestamp:     time.Now(),
	}
}

// ToJSON serializes the message.
func (m *TransactionSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionSyncMessageFromJSON deserializes a sync message.
func TransactionSyncMessageFromJSON(data []byte) (*TransactionSyncMessage, error) {
	var msg TransactionSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("unmarshal sync message: %w", err)
	}
	if msg.TransactionID == "" {
		return nil, fmt.Errorf("sync message missing transaction_id")
	}
	return &msg, nil
}

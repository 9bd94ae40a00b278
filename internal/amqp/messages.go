package amqp

import (
	"encoding/json"
	"time"

	"forecourt/internal/core"
)

// ImportJobMessage tells the worker which batch to process. It carries
// only the batch id and business date; the worker loads the file list
// from the database.
type ImportJobMessage struct {
	BatchID   int64     `json:"batch_id"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Timestamp time.Time `json:"timestamp"`
}

// NewImportJobMessage creates a job message for a batch.
func NewImportJobMessage(batchID int64, date core.Date) *ImportJobMessage {
	return &ImportJobMessage{
		BatchID:   batchID,
		Date:      date.String(),
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ImportJobMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ImportJobMessageFromJSON creates a message from JSON bytes
func ImportJobMessageFromJSON(data []byte) (*ImportJobMessage, error) {
	var msg ImportJobMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

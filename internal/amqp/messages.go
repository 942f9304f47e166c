package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"spese/internal/core"

	"github.com/shopspring/decimal"
)

// Operations carried by ExpenseChangeMessage.
const (
	OpAdd    = "add"
	OpEdit   = "edit"
	OpDelete = "delete"
)

// ExpenseChangeMessage describes one ledger mutation that has already been
// persisted. Index is the position of the record at the time of the change;
// for a delete it is the position the record used to hold.
type ExpenseChangeMessage struct {
	Op        string          `json:"op"`
	Index     int             `json:"index"`
	Amount    decimal.Decimal `json:"amount"`
	Category  string          `json:"category"`
	Date      string          `json:"date"`
	Payment   string          `json:"payment"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewExpenseChangeMessage creates a change message for record at index.
func NewExpenseChangeMessage(op string, index int, r core.Record) *ExpenseChangeMessage {
	return &ExpenseChangeMessage{
		Op:        op,
		Index:     index,
		Amount:    r.Amount,
		Category:  r.Category,
		Date:      r.Date,
		Payment:   r.Payment,
		Timestamp: time.Now(),
	}
}

// Record returns the expense carried by the message.
func (m *ExpenseChangeMessage) Record() core.Record {
	return core.Record{Amount: m.Amount, Category: m.Category, Date: m.Date, Payment: m.Payment}
}

// ToJSON converts the message to JSON bytes
func (m *ExpenseChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseChangeMessageFromJSON creates a message from JSON bytes
func ExpenseChangeMessageFromJSON(data []byte) (*ExpenseChangeMessage, error) {
	var msg ExpenseChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	switch msg.Op {
	case OpAdd, OpEdit, OpDelete:
	default:
		return nil, fmt.Errorf("unknown operation %q", msg.Op)
	}
	return &msg, nil
}

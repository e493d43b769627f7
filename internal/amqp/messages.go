package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"budgetcoach/internal/core"
)

// EventType names what happened to an expense.
type EventType string

const (
	EventCreated EventType = "created"
	EventDeleted EventType = "deleted"
)

// ExpenseEvent announces a change to the expense store. It carries the month
// so consumers can recompute insights without another lookup.
type ExpenseEvent struct {
	Type        EventType `json:"type"`
	ID          string    `json:"id"`
	Month       string    `json:"month"`
	Category    string    `json:"category"`
	AmountCents int64     `json:"amountCents"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewExpenseEvent builds an event of type t for e.
func NewExpenseEvent(t EventType, e core.Expense) *ExpenseEvent {
	return &ExpenseEvent{
		Type:        t,
		ID:          e.ID,
		Month:       e.Month().String(),
		Category:    string(e.Category),
		AmountCents: e.Amount.Cents,
		Timestamp:   time.Now(),
	}
}

// Validate checks the event type and month key.
func (m *ExpenseEvent) Validate() error {
	if m.Type != EventCreated && m.Type != EventDeleted {
		return fmt.Errorf("unknown event type %q", m.Type)
	}
	if _, err := core.ParseMonthKey(m.Month); err != nil {
		return err
	}
	return nil
}

// ToJSON converts the message to JSON bytes
func (m *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseEventFromJSON decodes and validates an event.
func ExpenseEventFromJSON(data []byte) (*ExpenseEvent, error) {
	var msg ExpenseEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}

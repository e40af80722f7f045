package amqp

import (
	"encoding/json"
	"time"
)

// TransactionEvent notifies downstream consumers that a transaction was
// recorded or deleted. Amounts travel as decimal strings so consumers
// never round.
type TransactionEvent struct {
	TransactionID string    `json:"transaction_id"`
	AccountID     string    `json:"account_id"`
	Kind          string    `json:"kind"`
	Category      string    `json:"category"`
	Amount        string    `json:"amount"`
	Action        string    `json:"action"` // "recorded" or "deleted"
	Timestamp     time.Time `json:"timestamp"`
}

// NewTransactionEvent creates a transaction event stamped with now.
func NewTransactionEvent(transactionID, accountID, kind, category, amount, action string) *TransactionEvent {
	return &TransactionEvent{
		TransactionID: transactionID,
		AccountID:     accountID,
		Kind:          kind,
		Category:      category,
		Amount:        amount,
		Action:        action,
		Timestamp:     time.Now(),
	}
}

func (m *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var msg TransactionEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// BillReminderMessage tells a notification consumer that a recurring
// bill is due within its reminder window.
type BillReminderMessage struct {
	BillID    int64     `json:"bill_id"`
	AccountID string    `json:"account_id"`
	Name      string    `json:"name"`
	Amount    string    `json:"amount"`
	DueDate   time.Time `json:"due_date"`
	DaysLeft  int       `json:"days_left"`
	Timestamp time.Time `json:"timestamp"`
}

// NewBillReminderMessage creates a reminder message stamped with now.
func NewBillReminderMessage(billID int64, accountID, name, amount string, dueDate time.Time, daysLeft int) *BillReminderMessage {
	return &BillReminderMessage{
		BillID:    billID,
		AccountID: accountID,
		Name:      name,
		Amount:    amount,
		DueDate:   dueDate,
		DaysLeft:  daysLeft,
		Timestamp: time.Now(),
	}
}

func (m *BillReminderMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func BillReminderMessageFromJSON(data []byte) (*BillReminderMessage, error) {
	var msg BillReminderMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

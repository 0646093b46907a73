package notification

import (
	"fmt"
	"sync"
	"time"
)

// Record is one sent confirmation, as stored in the log.
type Record struct {
	Email     string `json:"email"`
	OrderID   string `json:"order_id"`
	ProductID string `json:"product_id"`
	Message   string `json:"message"`
	SentAt    string `json:"sent_at"`
	Status    string `json:"status"`
}

// Receipt is returned to the caller of Send.
type Receipt struct {
	Status string `json:"status"`
	ID     string `json:"notification_id"`
	SentAt string `json:"sent_at"`
}

// Log is the append-only in-memory notification log. Sends never fail:
// delivery is simulated with a fixed delay and every record is appended.
type Log struct {
	mu        sync.Mutex
	records   []Record
	sendDelay time.Duration
}

func NewLog(sendDelay time.Duration) *Log {
	return &Log{sendDelay: sendDelay}
}

// Send simulates delivering a confirmation and appends the record. The
// delay runs outside the lock, so entry order is the order in which sends
// complete, not the order in which they arrive.
func (l *Log) Send(email, orderID, productID string) Receipt {
	time.Sleep(l.sendDelay)

	sentAt := time.Now().Format(time.RFC3339)
	record := Record{
		Email:     email,
		OrderID:   orderID,
		ProductID: productID,
		Message:   fmt.Sprintf("Order %s confirmed for product %s", orderID, productID),
		SentAt:    sentAt,
		Status:    "sent",
	}

	l.mu.Lock()
	l.records = append(l.records, record)
	total := len(l.records)
	l.mu.Unlock()

	return Receipt{
		Status: "sent",
		ID:     fmt.Sprintf("NOTIF-%d", total),
		SentAt: sentAt,
	}
}

// Recent returns up to n of the latest records, newest last, along with
// the total ever sent.
func (l *Log) Recent(n int) ([]Record, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	total := len(l.records)
	start := total - n
	if start < 0 {
		start = 0
	}

	out := make([]Record, total-start)
	copy(out, l.records[start:])
	return out, total
}

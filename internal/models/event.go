package models

import "time"

// ReceiptRequestedEvent asks the mail worker to send a student's receipt.
type ReceiptRequestedEvent struct {
	EventID     string    `json:"event_id"`
	StudentKey  string    `json:"student_key"`
	Email       string    `json:"email"`
	RequestedBy string    `json:"requested_by"`
	RequestedAt time.Time `json:"requested_at"`
}

package models

import (
	"fmt"
	"time"
)

type Batch struct {
	ID                string     `json:"id" db:"id"`
	BatchName         string     `json:"batch_name" db:"batch_name"`
	OriginalBatchName string     `json:"original_batch_name" db:"original_batch_name"`
	StartTime         string     `json:"start_time" db:"start_time"`
	EndTime           string     `json:"end_time" db:"end_time"`
	BatchStartDate    string     `json:"batch_start_date" db:"batch_start_date"`
	Description       string     `json:"description" db:"description"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// Name prefers the name the batch was created with.
func (b *Batch) Name() string {
	if b.OriginalBatchName != "" {
		return b.OriginalBatchName
	}
	return b.BatchName
}

// Label is the composite label stored on students as batch_time.
func (b *Batch) Label() string {
	return fmt.Sprintf("%s (%s)-(%s) (%s)", b.Name(), b.StartTime, b.EndTime, b.BatchStartDate)
}

type BatchSummary struct {
	BatchID       string `json:"batch_id"`
	DisplayName   string `json:"display_name"`
	TotalStudents int    `json:"total_students"`
	PaidStudents  int    `json:"paid_students"`
	UnpaidCount   int    `json:"unpaid_students"`
}

package models

import "time"

type Feedback struct {
	ID              string    `json:"id" db:"id"`
	StudentID       string    `json:"student_id" db:"student_id"`
	StudentRecordID string    `json:"student_record_id" db:"student_record_id"`
	StudentName     string    `json:"student_name" db:"student_name"`
	StudentNumber   string    `json:"student_number" db:"student_number"`
	BatchName       string    `json:"batch_name" db:"batch_name"`
	FeedbackText    string    `json:"feedback_text" db:"feedback_text"`
	SubmittedBy     string    `json:"submitted_by" db:"submitted_by"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

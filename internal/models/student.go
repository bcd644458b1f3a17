package models

import (
	"time"
)

const FeesStatusPaid = "Paid"

// Student is an enrolled learner. ID is the record key and equals the
// StudentID assigned at creation; it never changes afterwards.
type Student struct {
	ID             string     `json:"id" db:"id"`
	StudentID      string     `json:"student_id" db:"student_id"`
	CourseInitials string     `json:"course_initials" db:"course_initials"`
	StudentName    string     `json:"student_name" db:"student_name"`
	StudentNumber  string     `json:"student_number" db:"student_number"`
	Email          string     `json:"email" db:"email"`
	CourseName     string     `json:"course_name" db:"course_name"`
	BatchTime      string     `json:"batch_time" db:"batch_time"`
	BatchID        string     `json:"batch_id" db:"batch_id"`
	TotalFees      float64    `json:"total_fees" db:"total_fees"`
	FeesPaid       float64    `json:"fees_paid" db:"fees_paid"`
	DueFees        float64    `json:"due_fees" db:"due_fees"`
	Installments   string     `json:"installments" db:"installments"`
	FeesDueDate    string     `json:"fees_due_date" db:"fees_due_date"`
	FeesStatus     string     `json:"fees_status" db:"fees_status"`
	Username       string     `json:"username" db:"username"`
	Password       string     `json:"password" db:"password"`
	EnrollmentDate string     `json:"enrollment_date" db:"enrollment_date"`
	EnrollmentTime string     `json:"enrollment_time" db:"enrollment_time"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

func (s Student) IsPaid() bool {
	return s.FeesStatus == FeesStatusPaid
}

// StudentFilter narrows the admin student list. Empty fields match everything.
type StudentFilter struct {
	StudentID  string
	BatchTime  string
	FeesStatus string
}

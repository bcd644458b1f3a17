package models

// Data Transfer Objects

const (
	CustomCourseOption = "CUSTOM"
	CustomDueDate      = "custom"
)

type StudentRequest struct {
	StudentID      string  `json:"student_id"`
	CourseInitials string  `json:"course_initials" validate:"required"`
	CustomInitials string  `json:"custom_initials"`
	StudentName    string  `json:"student_name" validate:"required,max=255"`
	StudentNumber  string  `json:"student_number" validate:"required,max=32"`
	Email          string  `json:"email" validate:"required,email"`
	CourseName     string  `json:"course_name" validate:"required"`
	BatchTime      string  `json:"batch_time" validate:"required"`
	BatchID        string  `json:"batch_id"`
	TotalFees      float64 `json:"total_fees" validate:"gte=0"`
	FeesPaid       float64 `json:"fees_paid" validate:"gte=0"`
	DueFees        float64 `json:"due_fees" validate:"gte=0"`
	Installments   string  `json:"installments"`
	FeesDueDate    string  `json:"fees_due_date"`
	CustomDate     string  `json:"custom_date"`
	FeesStatus     string  `json:"fees_status"`
	Username       string  `json:"username" validate:"required"`
	Password       string  `json:"password" validate:"required"`
}

type BatchRequest struct {
	BatchName      string `json:"batch_name" validate:"required,max=255"`
	StartTime      string `json:"start_time" validate:"required"`
	EndTime        string `json:"end_time" validate:"required"`
	BatchStartDate string `json:"batch_start_date" validate:"required,datetime=2006-01-02"`
	Description    string `json:"description" validate:"max=1000"`
}

type SendMessageRequest struct {
	BatchID        string `json:"batch_id"`
	MessageContent string `json:"message_content"`
}

type FeedbackRequest struct {
	FeedbackText string `json:"feedback_text"`
}

type LoginRequest struct {
	Role     string `json:"role" validate:"required,oneof='Super Admin' Admin Trainer Student"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	BatchID  string `json:"batch_id" validate:"required_if=Role Student"`
}

type AdminRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SendOTPRequest struct {
	Email string `json:"email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type CourseRecordRequest struct {
	TrainerName     string `json:"trainer_name" validate:"required"`
	BatchName       string `json:"batch_name" validate:"required"`
	OngoingModule   string `json:"ongoing_module"`
	CompletedModule string `json:"completed_module"`
	UpcomingModule  string `json:"upcoming_module"`
	ClassDate       string `json:"class_date"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
}

// Session describes the authenticated caller.
type Session struct {
	SessionID    string `json:"session_id"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	StudentBatch string `json:"student_batch,omitempty"`
	StudentKey   string `json:"student_key,omitempty"`
}

type LoginResponse struct {
	Token   string  `json:"token"`
	Session Session `json:"session"`
}

// StudentReceipt is the printable view of a student's enrolment and fees.
type StudentReceipt struct {
	Student
	CreatedAtDisplay string `json:"created_at_display"`
}

type FileListResponse struct {
	BatchID string        `json:"batch_id"`
	Files   []TrainerFile `json:"files"`
}

type TrainerBatchView struct {
	Batch    Batch         `json:"batch"`
	Label    string        `json:"label"`
	Files    []TrainerFile `json:"files"`
	Messages []Message     `json:"messages"`
}

type Dashboard struct {
	Role          string             `json:"role"`
	Username      string             `json:"username"`
	Batches       []Batch            `json:"batches,omitempty"`
	CourseRecords []CourseRecord     `json:"course_records,omitempty"`
	TrainerViews  []TrainerBatchView `json:"trainer_batches,omitempty"`
	BatchLabel    string             `json:"batch_label,omitempty"`
	Files         []TrainerFile      `json:"files,omitempty"`
	Messages      []Message          `json:"messages,omitempty"`
	UnreadCount   int                `json:"unread_count"`
}

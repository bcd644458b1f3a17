package service

import (
	"errors"
)

// User-facing failures. Handlers map them to HTTP statuses with errors.Is.
var (
	ErrStudentNotFound     = errors.New("Student not found")
	ErrStudentIDExists     = errors.New("student id already exists")
	ErrStudentEmailExists  = errors.New("student email already exists")
	ErrUsernameExists      = errors.New("username already exists")
	ErrPasswordExists      = errors.New("password already exists")
	ErrSimpleIDTaken       = errors.New("Student ID already exists for this course type and phone number")
	ErrOTPNotVerified      = errors.New("Email OTP not verified. Please verify the email before adding the student.")
	ErrReceiptNoRecipient  = errors.New("Student not found or email not provided!")
	ErrEmailSendFailed     = errors.New("Error sending email. Please check email configuration.")
	ErrBatchNotFound       = errors.New("Batch not found")
	ErrFileNotFound        = errors.New("File not found in database!")
	ErrFileMissing         = errors.New("File not found!")
	ErrFileAccessDenied    = errors.New("You can only download files from your enrolled batch!")
	ErrNotFileOwner        = errors.New("You can only delete files you uploaded!")
	ErrNoFileSelected      = errors.New("No selected file")
	ErrNoFilePart          = errors.New("No file part or batch selected")
	ErrFileTooLarge        = errors.New("file size exceeds limit")
	ErrFileTypeNotAllowed  = errors.New("file type not allowed")
	ErrMessageRequired     = errors.New("Batch and message are required!")
	ErrNoBatch             = errors.New("Student not in any batch.")
	ErrFeedbackRequired    = errors.New("Please enter your feedback before submitting.")
	ErrStudentInfoMissing  = errors.New("Student information not found!")
	ErrFeedbackNotFound    = errors.New("Feedback not found")
	ErrInvalidCredentials  = errors.New("Invalid credentials")
	ErrCredentialsRequired = errors.New("Username and password are required!")
	ErrAdminExists         = errors.New("Error adding admin or username already exists!")
	ErrAdminNotFound       = errors.New("Admin not found")
	ErrInvalidRole         = errors.New("invalid role")
	ErrEmailRequired       = errors.New("Email is required.")
	ErrInvalidEmail        = errors.New("Invalid email format.")
	ErrInvalidOTP          = errors.New("Invalid OTP.")
	ErrOTPSendFailed       = errors.New("Failed to send OTP. Please try again.")
	ErrCourseNotFound      = errors.New("Course record not found")
)

// FieldError is used to indicate an error with a specific request field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, fields ...FieldError) error {
	return &ValidationError{Err: err, Fields: fields}
}

func (e *ValidationError) Error() string {
	if e.Err == nil {
		return "validation failed"
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

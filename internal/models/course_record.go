package models

const CourseTimestampLayout = "2006-01-02 03:04 PM"

// CourseRecord tracks module progress for a batch session.
type CourseRecord struct {
	ID              string `json:"id" db:"id"`
	TrainerName     string `json:"trainer_name" db:"trainer_name"`
	BatchName       string `json:"batch_name" db:"batch_name"`
	OngoingModule   string `json:"ongoing_module" db:"ongoing_module"`
	CompletedModule string `json:"completed_module" db:"completed_module"`
	UpcomingModule  string `json:"upcoming_module" db:"upcoming_module"`
	ClassDate       string `json:"class_date" db:"class_date"`
	StartTime       string `json:"start_time" db:"start_time"`
	EndTime         string `json:"end_time" db:"end_time"`
	TimeStamp       string `json:"time_stamp" db:"time_stamp"`
}

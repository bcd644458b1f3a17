package models

import "time"

type TrainerFile struct {
	ID                string    `json:"id" db:"id"`
	Filename          string    `json:"filename" db:"filename"`
	OriginalFilename  string    `json:"original_filename" db:"original_filename"`
	UploadedBy        string    `json:"uploaded_by" db:"uploaded_by"`
	BatchID           string    `json:"batch_id" db:"batch_id"`
	FileSize          int64     `json:"file_size" db:"file_size"`
	ContentType       string    `json:"content_type" db:"content_type"`
	StoragePath       string    `json:"storage_path" db:"storage_path"`
	UploadedToStorage bool      `json:"uploaded_to_storage" db:"uploaded_to_storage"`
	FileDataBase64    string    `json:"-" db:"file_data_base64"`
	HasBase64Backup   bool      `json:"has_base64_backup" db:"has_base64_backup"`
	UploadedAt        time.Time `json:"timestamp" db:"uploaded_at"`
}

// FileContent is a file ready to be streamed to the client.
type FileContent struct {
	FileName    string
	ContentType string
	FileSize    int64
	Content     []byte
}

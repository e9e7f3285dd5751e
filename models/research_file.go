package models

import "time"

// ResearchFile represents an uploaded manuscript or supplementary file.
type ResearchFile struct {
	FileID       int        `gorm:"primaryKey;column:file_id" json:"file_id"`
	ResearchID   int        `gorm:"column:research_id" json:"research_id"`
	OriginalName string     `gorm:"column:original_name" json:"original_name"`
	StoredPath   string     `gorm:"column:stored_path" json:"stored_path"`
	FileSize     int64      `gorm:"column:file_size" json:"file_size"`
	MimeType     string     `gorm:"column:mime_type" json:"mime_type"`
	FileHash     string     `gorm:"column:file_hash" json:"file_hash"`
	FileKind     string     `gorm:"column:file_kind" json:"file_kind"` // manuscript|revision|supplementary
	UploadedBy   int        `gorm:"column:uploaded_by" json:"uploaded_by"`
	UploadedAt   time.Time  `gorm:"column:uploaded_at" json:"uploaded_at"`
	CreateAt     time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt     time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Uploader User `gorm:"foreignKey:UploadedBy" json:"uploader,omitempty"`
}

func (ResearchFile) TableName() string {
	return "research_files"
}

// IsValidDocumentType reports whether the mime type is an accepted manuscript format.
func (f *ResearchFile) IsValidDocumentType() bool {
	validTypes := []string{
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}
	for _, validType := range validTypes {
		if f.MimeType == validType {
			return true
		}
	}
	return false
}

func (f *ResearchFile) GetFileSizeInMB() float64 {
	return float64(f.FileSize) / (1024 * 1024)
}

package entity

import (
	"time"
)

// File is one stored file: the display name shown to users plus the
// object-store key the bytes actually live under. Delete and export must
// only ever use StorageKey/BlobURL, never re-derive them from FileName.
type File struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	FileName   string    `json:"file_name" gorm:"type:text;not null"`
	Extension  string    `json:"extension" gorm:"type:varchar(64)"`
	StorageKey string    `json:"storage_key" gorm:"type:varchar(1024);not null;uniqueIndex"`
	BlobURL    string    `json:"blob_url" gorm:"type:varchar(2048);not null"`
	SizeBytes  int64     `json:"size_bytes" gorm:"not null"`
	UploadedAt time.Time `json:"uploaded_at" gorm:"not null;autoCreateTime"`
}

func (File) TableName() string {
	return "files"
}

// Package domain contains persistence models for upload batches.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// UploadStatus is the lifecycle state of an upload batch.
type UploadStatus string

const (
	UploadStatusProcessing UploadStatus = "processing"
	UploadStatusCompleted  UploadStatus = "completed"
	UploadStatusFailed     UploadStatus = "failed"
)

// Upload records a single CSV upload event. Failed batches keep the full
// validation error list in ErrorDetail as an audit trail; no rows are ever
// persisted for a failed batch.
type Upload struct {
	ID          snowflake.ID   `gorm:"primaryKey"`
	Filename    string         `gorm:"type:text;not null"`
	UploadTime  time.Time      `gorm:"not null"`
	Status      UploadStatus   `gorm:"type:text;not null"`
	ErrorDetail datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt   time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Upload) TableName() string { return "uploads" }

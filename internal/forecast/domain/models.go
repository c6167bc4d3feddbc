// Package domain contains persistence models for forecast rows.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Forecast stores a single demand forecast line from an upload batch.
type Forecast struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	SKU         string       `gorm:"column:sku;type:text;not null;index:ix_forecasts_sku"`
	Date        time.Time    `gorm:"type:date;not null;index:ix_forecasts_date"`
	ForecastQty int64        `gorm:"not null"`
	UnitPrice   float64      `gorm:"not null"`
	Region      Region       `gorm:"type:text;not null;index:ix_forecasts_region"`
	UploadID    snowflake.ID `gorm:"not null;index:ix_forecasts_upload_id"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Forecast) TableName() string { return "forecasts" }

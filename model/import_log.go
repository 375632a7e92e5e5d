package model

import (
	"time"

	"gorm.io/datatypes"
)

// ImportLog is an audit record of one admin CSV bulk import
type ImportLog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	AdminID   uint           `gorm:"not null;index" json:"admin_id"`
	Filename  string         `gorm:"type:varchar(255)" json:"filename"`
	Inserted  int            `gorm:"default:0" json:"inserted"`
	Rejected  int            `gorm:"default:0" json:"rejected"`
	Summary   datatypes.JSON `gorm:"type:jsonb" json:"summary,omitempty"` // per-row rejection messages
}

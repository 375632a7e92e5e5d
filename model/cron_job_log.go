package model

import "time"

// CronJobLog records one run of a scheduled job
type CronJobLog struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	JobName    string     `gorm:"type:varchar(100);not null;index" json:"job_name"`
	Status     string     `gorm:"type:varchar(20)" json:"status"` // running, completed, failed
	Message    string     `gorm:"type:text" json:"message"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

package entity

import (
	"time"

	"gorm.io/gorm"
)

const (
	TaskPending = "pending"
	TaskRunning = "running"
	TaskDone    = "done"
	TaskFailed  = "failed"
)

// Task is a unit of background work persisted next to the data that produced it.
type Task struct {
	gorm.Model
	Kind      string     `gorm:"index;not null" json:"kind"`
	Payload   string     `gorm:"type:text;not null" json:"payload"`
	Status    string     `gorm:"index;not null;default:pending" json:"status"`
	Attempts  int        `gorm:"not null;default:0" json:"attempts"`
	LastError string     `json:"lastError,omitempty"`
	StartedAt *time.Time `json:"startedAt,omitempty"`
}

package queue

import (
	"time"

	"gorm.io/gorm"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/logger"
)

// FailedJobRecord is a dead-letter row for a job that exhausted its
// retries, kept for manual inspection and replay.
type FailedJobRecord struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Name     string    `gorm:"size:191;index" json:"name"`
	Payload  []byte    `json:"payload"`
	Error    string    `gorm:"type:text" json:"error"`
	FailedAt time.Time `json:"failed_at"`
}

// TableName keeps the dead-letter table clearly namespaced.
func (FailedJobRecord) TableName() string { return "failed_jobs" }

var failedDB *gorm.DB

// UseDB enables persisting exhausted jobs to the database.
func UseDB(db *gorm.DB) { failedDB = db }

func persistFailed(env envelope, jobErr error) {
	if failedDB == nil {
		return
	}
	record := FailedJobRecord{
		Name:     env.Name,
		Payload:  env.Payload,
		Error:    jobErr.Error(),
		FailedAt: time.Now().UTC(),
	}
	if err := failedDB.Create(&record).Error; err != nil {
		logger.Error("failed job could not be persisted", "job", env.Name, "error", err)
	}
}

package job

import (
	"eco-ui/database"
	"eco-ui/logger"

	"gorm.io/gorm"
)

// CheckpointJob periodically flushes the sqlite WAL into the main database
// file so the on-disk store stays compact.
type CheckpointJob struct {
	db *gorm.DB
}

func NewCheckpointJob(db *gorm.DB) *CheckpointJob {
	return &CheckpointJob{db: db}
}

func (j *CheckpointJob) Run() {
	if err := database.Checkpoint(j.db); err != nil {
		logger.Warning("wal checkpoint failed:", err)
	}
}

package schema

import "time"

// ProgressStatus is the outcome of one unit of pipeline work
type ProgressStatus string

const (
	// ProgressCompleted marks a successfully processed unit
	ProgressCompleted ProgressStatus = "completed"
	// ProgressFailed marks a unit that errored and was skipped
	ProgressFailed ProgressStatus = "failed"
)

// ProgressLog represents the progress_log table - the population pipeline's
// checkpoint journal. Replaying a run's completed entries lets an
// interrupted run resume without redoing work.
type ProgressLog struct {
	ID uint `gorm:"column:id;primaryKey;autoIncrement"`
	// RunID identifies one pipeline invocation
	RunID string `gorm:"column:run_id;not null;type:text;index:idx_progress_log_run_stage,priority:1"`
	Stage string `gorm:"column:stage;not null;type:text;index:idx_progress_log_run_stage,priority:2"`
	// PoliticianID is null for stage-level entries
	PoliticianID *uint          `gorm:"column:politician_id"`
	Status       ProgressStatus `gorm:"column:status;not null;type:text"`
	// Detail carries the error message of failed units
	Detail string `gorm:"column:detail;type:text"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for the ProgressLog model
func (ProgressLog) TableName() string {
	return "progress_log"
}

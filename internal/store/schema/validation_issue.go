package schema

import (
	"time"

	"gorm.io/datatypes"
)

// ValidationIssue represents the validation_issues table - one finding of a
// validation run, kept for audit across runs
type ValidationIssue struct {
	// ID is assigned by the validator, not the database
	ID string `gorm:"column:id;primaryKey;type:uuid"`
	// RunID ties the issue to one validation invocation
	RunID    string `gorm:"column:run_id;not null;type:text;index"`
	Severity string `gorm:"column:severity;not null;type:text"`
	Table    string `gorm:"column:table_name;not null;type:text"`
	Check    string `gorm:"column:check_name;not null;type:text"`
	// AffectedRows counts every row the check flagged
	AffectedRows int64 `gorm:"column:affected_rows;not null"`
	// Samples holds up to a handful of offending rows for inspection
	Samples datatypes.JSON `gorm:"column:samples;type:jsonb"`
	// Fixed reports whether the auto-fix pass repaired the issue
	Fixed bool `gorm:"column:fixed;not null;default:false"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for the ValidationIssue model
func (ValidationIssue) TableName() string {
	return "validation_issues"
}

package jobs

import (
	"time"
)

// JobState represents the lifecycle state of a stock scan job.
type JobState string

const (
	JobStateQueued    JobState = "queued"
	JobStateRunning   JobState = "running"
	JobStateSucceeded JobState = "succeeded"
	JobStateFailed    JobState = "failed"
	JobStateCanceled  JobState = "canceled"
)

// StockScanJob is the GORM model for a low stock scan job. A scan walks the
// active inventory of one station, finds resources at or below the minimum
// stock level and files supply requests for the ones that do not already have
// an open one.
type StockScanJob struct {
	ID               string     `gorm:"primaryKey;column:id;type:varchar(36)"`
	Station          string     `gorm:"column:station;index:idx_scan_station_state,priority:1;default:default;not null"`
	RequestedBy      string     `gorm:"column:requested_by;not null"`
	RequestedAt      time.Time  `gorm:"column:requested_at;not null"`
	State            JobState   `gorm:"column:state;index:idx_scan_station_state,priority:2;index:idx_scan_state;not null;default:queued"`
	Message          string     `gorm:"column:message"`
	StartedAt        *time.Time `gorm:"column:started_at"`
	FinishedAt       *time.Time `gorm:"column:finished_at"`
	AttemptCount     int        `gorm:"column:attempt_count;default:0"`
	LastError        string     `gorm:"column:last_error"`
	IdempotencyKey   string     `gorm:"column:idempotency_key;uniqueIndex:idx_scan_idemp_key"`
	ResourcesScanned int        `gorm:"column:resources_scanned"`
	RequestsFiled    int        `gorm:"column:requests_filed"`
	DurationMs       int64      `gorm:"column:duration_ms"`
}

// TableName returns the GORM table name.
func (StockScanJob) TableName() string { return "stock_scan_jobs" }

// IsTerminal returns true if the job is in a terminal state.
func (j *StockScanJob) IsTerminal() bool {
	switch j.State {
	case JobStateSucceeded, JobStateFailed, JobStateCanceled:
		return true
	}
	return false
}

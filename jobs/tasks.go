package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskStatementWarmup pre-populates the income statement cache.
	TaskStatementWarmup = "statement:warmup"
	// TaskLedgerIntegrity scans posted journal entries for debit/credit drift.
	TaskLedgerIntegrity = "ledger:integrity"
)

// StatementWarmupPayload scopes the periods the warmup should build.
type StatementWarmupPayload struct {
	// Months is the number of trailing calendar months to warm, current
	// month included. Zero means the default of three.
	Months int `json:"months"`
}

// NewStatementWarmupTask constructs an Asynq task.
func NewStatementWarmupTask(payload StatementWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStatementWarmup, data), nil
}

// LedgerIntegrityPayload scopes the integrity scan.
type LedgerIntegrityPayload struct {
	// Limit caps the number of drifting entries reported per run.
	Limit int `json:"limit"`
}

// NewLedgerIntegrityTask constructs an Asynq task.
func NewLedgerIntegrityTask(payload LedgerIntegrityPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLedgerIntegrity, data), nil
}

package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	jobmetrics "github.com/safar-erp/safar-erp/internal/jobs"
)

const defaultIntegrityLimit = 100

// LedgerIntegrityJob scans posted journal entries whose line sums drifted
// apart. The service enforces balance on every write, so a hit here means
// rows were touched outside the application.
type LedgerIntegrityJob struct {
	Pool    *pgxpool.Pool
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewLedgerIntegrityJob wires dependencies for the integrity handler.
func NewLedgerIntegrityJob(pool *pgxpool.Pool, logger *slog.Logger, metrics *jobmetrics.Metrics) *LedgerIntegrityJob {
	return &LedgerIntegrityJob{Pool: pool, Logger: logger, Metrics: metrics}
}

// Handle processes ledger integrity tasks.
func (j *LedgerIntegrityJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Pool == nil {
		return errors.New("ledger integrity: handler not configured")
	}
	var payload LedgerIntegrityPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Limit <= 0 {
		payload.Limit = defaultIntegrityLimit
	}

	tracker := j.metrics().Track(TaskLedgerIntegrity)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger()
	logger.Info("starting ledger integrity scan")

	rows, err := j.Pool.Query(ctx, `
SELECT e.id, e.number, SUM(l.debit) AS debits, SUM(l.credit) AS credits
FROM journal_entries e
JOIN journal_lines l ON l.entry_id = e.id
WHERE e.is_posted
GROUP BY e.id, e.number
HAVING SUM(l.debit) <> SUM(l.credit)
ORDER BY e.id
LIMIT $1`, payload.Limit)
	if err != nil {
		resultErr = err
		logger.Error("scan entries", slog.Any("error", err))
		return resultErr
	}
	defer rows.Close()

	drifting := 0
	for rows.Next() {
		var (
			id      int64
			number  string
			debits  string
			credits string
		)
		if err := rows.Scan(&id, &number, &debits, &credits); err != nil {
			resultErr = err
			return resultErr
		}
		drifting++
		logger.Warn("unbalanced posted entry",
			slog.Int64("entry_id", id),
			slog.String("number", number),
			slog.String("debits", debits),
			slog.String("credits", credits))
	}
	if err := rows.Err(); err != nil {
		resultErr = err
		return resultErr
	}

	j.metrics().AddDrift(drifting)
	logger.Info("completed ledger integrity scan", slog.Int("drifting", drifting))
	return resultErr
}

func (j *LedgerIntegrityJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskLedgerIntegrity))
	}
	return slog.Default().With(slog.String("job", TaskLedgerIntegrity))
}

func (j *LedgerIntegrityJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

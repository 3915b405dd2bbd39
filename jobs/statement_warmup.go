package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/safar-erp/safar-erp/internal/jobs"
	"github.com/safar-erp/safar-erp/internal/statement"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

const defaultWarmupMonths = 3

// StatementWarmupJob pre-populates the income statement cache so the first
// request after an invalidation does not pay the aggregation cost.
type StatementWarmupJob struct {
	Statements *statement.Service
	Logger     *slog.Logger
	Metrics    *jobmetrics.Metrics
	clock      func() time.Time
}

// NewStatementWarmupJob wires dependencies for the warmup handler.
func NewStatementWarmupJob(statements *statement.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *StatementWarmupJob {
	return &StatementWarmupJob{
		Statements: statements,
		Logger:     logger,
		Metrics:    metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes statement warmup tasks.
func (j *StatementWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Statements == nil {
		return errors.New("statement warmup: handler not configured")
	}
	var payload StatementWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Months <= 0 {
		payload.Months = defaultWarmupMonths
	}

	tracker := j.metrics().Track(TaskStatementWarmup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.Int("months", payload.Months))
	logger.Info("starting statement warmup")

	now := j.now()
	warmed := 0
	for i := 0; i < payload.Months; i++ {
		period := monthPeriod(now, -i)
		periodCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
		_, err := j.Statements.IncomeStatement(periodCtx, period)
		cancel()
		if err != nil {
			resultErr = err
			logger.Error("warm period",
				slog.Time("from", period.From),
				slog.Time("to", period.To),
				slog.Any("error", err))
			return resultErr
		}
		warmed++
	}

	logger.Info("completed statement warmup", slog.Int("periods", warmed), slog.Duration("duration", time.Since(now)))
	return resultErr
}

// monthPeriod returns the calendar month offset months from now's month.
func monthPeriod(now time.Time, offset int) statement.Period {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, offset, 0)
	return statement.Period{From: first, To: first.AddDate(0, 1, -1)}
}

func (j *StatementWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskStatementWarmup))
	}
	return slog.Default().With(slog.String("job", TaskStatementWarmup))
}

func (j *StatementWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *StatementWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}

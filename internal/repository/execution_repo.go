package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"taskcadence/internal/model"
	"taskcadence/internal/scheduler"
	"taskcadence/pkg/metrics"
)

// TimestampPolicy controls what happens when an execution row carries a
// timestamp the legacy "DD/MM/YYYY HH:MM:SS" format cannot parse.
type TimestampPolicy int

const (
	// TimestampLenient skips malformed rows with a warning. This matches
	// the historical behavior where such rows were simply never "today"
	// and never satisfied a period threshold.
	TimestampLenient TimestampPolicy = iota
	// TimestampStrict rejects the whole load when any row is malformed.
	TimestampStrict
)

type ExecutionRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
	policy TimestampPolicy
}

func NewExecutionRepository(db *pgxpool.Pool, logger *zap.Logger, policy TimestampPolicy) *ExecutionRepository {
	return &ExecutionRepository{
		db:     db,
		logger: logger,
		policy: policy,
	}
}

// ListAll returns the full execution log. The scheduler filters by task
// itself; no date-range narrowing happens here.
func (r *ExecutionRepository) ListAll(ctx context.Context) ([]model.ExecutionRecord, error) {
	start := time.Now()
	query := `
        SELECT task_id, executed_at, output
        FROM task_executions
        ORDER BY id
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.ExecutionRecord
	for rows.Next() {
		var (
			taskID     int
			executedAt string
			output     string
		)
		if err := rows.Scan(&taskID, &executedAt, &output); err != nil {
			return nil, err
		}

		ts, err := scheduler.ParseLogTimestamp(executedAt)
		if err != nil {
			if r.policy == TimestampStrict {
				return nil, fmt.Errorf("malformed execution timestamp for task %d: %w", taskID, err)
			}
			r.logger.Warn("Skipping execution record with malformed timestamp",
				zap.Int("task_id", taskID),
				zap.String("executed_at", executedAt),
			)
			continue
		}

		records = append(records, model.ExecutionRecord{
			TaskID:     fmt.Sprintf("%d", taskID),
			ExecutedAt: ts,
			Output:     output,
		})
	}

	metrics.RecordDBQueryDuration("list_all", "task_executions", time.Since(start))
	return records, rows.Err()
}

// Append records one completed run in the legacy timestamp format.
func (r *ExecutionRepository) Append(ctx context.Context, taskID string, executedAt time.Time, output string) error {
	start := time.Now()
	query := `
        INSERT INTO task_executions (task_id, executed_at, output)
        VALUES ($1, $2, $3)
    `
	_, err := r.db.Exec(ctx, query, taskID, scheduler.FormatLogTimestamp(executedAt), output)
	metrics.RecordDBQueryDuration("append", "task_executions", time.Since(start))
	return err
}

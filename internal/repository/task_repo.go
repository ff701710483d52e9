package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"taskcadence/internal/model"
	"taskcadence/pkg/metrics"
)

type TaskRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTaskRepository(db *pgxpool.Pool, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{
		db:     db,
		logger: logger,
	}
}

// ListActive returns every active task definition. Raw cadence labels and
// weekday names are normalized here; the scheduler only sees the closed
// model vocabulary.
func (r *TaskRepository) ListActive(ctx context.Context) ([]model.Task, error) {
	start := time.Now()
	query := `
        SELECT id, subject, cadence, period, day_of_week, day_of_month, time_of_day, prompt_template
        FROM tasks
        WHERE is_active = TRUE
        ORDER BY id
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		var (
			id             int
			subject        string
			cadence        string
			period         int
			dayOfWeek      *string
			dayOfMonth     *int
			timeOfDay      *string
			promptTemplate string
		)
		if err := rows.Scan(&id, &subject, &cadence, &period, &dayOfWeek, &dayOfMonth, &timeOfDay, &promptTemplate); err != nil {
			return nil, err
		}

		task := model.Task{
			ID:             strconv.Itoa(id),
			Subject:        subject,
			Cadence:        model.ParseCadence(cadence),
			Period:         period,
			PromptTemplate: promptTemplate,
		}
		if dayOfWeek != nil {
			d, ok := model.ParseWeekday(*dayOfWeek)
			if !ok {
				r.logger.Warn("Task has unrecognized weekday name",
					zap.Int("task_id", id),
					zap.String("day_of_week", *dayOfWeek),
				)
			}
			task.DayOfWeek = d
		}
		if dayOfMonth != nil {
			task.DayOfMonth = *dayOfMonth
		}
		if timeOfDay != nil {
			task.TimeOfDay = *timeOfDay
		}
		tasks = append(tasks, task)
	}

	metrics.RecordDBQueryDuration("list_active", "tasks", time.Since(start))
	return tasks, rows.Err()
}

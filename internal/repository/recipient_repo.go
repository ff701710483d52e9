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

type RecipientRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewRecipientRepository(db *pgxpool.Pool, logger *zap.Logger) *RecipientRepository {
	return &RecipientRepository{
		db:     db,
		logger: logger,
	}
}

// ListPairs returns every (task, address) mapping in insertion order.
// Duplicates are preserved; the scheduler deduplicates per task.
func (r *RecipientRepository) ListPairs(ctx context.Context) ([]model.RecipientPair, error) {
	start := time.Now()
	query := `
        SELECT task_id, address
        FROM task_recipients
        ORDER BY id
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pairs []model.RecipientPair
	for rows.Next() {
		var (
			taskID  int
			address string
		)
		if err := rows.Scan(&taskID, &address); err != nil {
			return nil, err
		}
		pairs = append(pairs, model.RecipientPair{
			TaskID:  strconv.Itoa(taskID),
			Address: address,
		})
	}

	metrics.RecordDBQueryDuration("list_pairs", "task_recipients", time.Since(start))
	return pairs, rows.Err()
}

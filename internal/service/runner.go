package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	mqcontracts "taskcadence/contracts/mq"
	"taskcadence/internal/model"
	"taskcadence/internal/repository"
	"taskcadence/internal/scheduler"
	"taskcadence/pkg/metrics"
	"taskcadence/pkg/mq"
	"taskcadence/pkg/util"
)

// Runner drives one evaluation cycle: load the task, execution and
// recipient sources, run the selection pipeline for an explicit now, and
// publish one dispatch item per (task, recipient). The Redis deduper
// guards against double-sends when triggers overlap or the runner
// restarts mid-cycle.
type Runner struct {
	taskRepo  *repository.TaskRepository
	execRepo  *repository.ExecutionRepository
	recipRepo *repository.RecipientRepository
	pipeline  *scheduler.Pipeline
	publisher *mq.Publisher
	deduper   *util.Deduper
	logger    *zap.Logger
}

func NewRunner(
	taskRepo *repository.TaskRepository,
	execRepo *repository.ExecutionRepository,
	recipRepo *repository.RecipientRepository,
	pipeline *scheduler.Pipeline,
	publisher *mq.Publisher,
	deduper *util.Deduper,
	logger *zap.Logger,
) *Runner {
	return &Runner{
		taskRepo:  taskRepo,
		execRepo:  execRepo,
		recipRepo: recipRepo,
		pipeline:  pipeline,
		publisher: publisher,
		deduper:   deduper,
		logger:    logger,
	}
}

// RunOnce evaluates all tasks at now and publishes the resulting dispatch
// items. Source faults propagate; the due list itself never errors.
func (r *Runner) RunOnce(ctx context.Context, now time.Time) (scheduler.Result, error) {
	res, err := r.evaluate(ctx, now)
	if err != nil {
		return scheduler.Result{}, err
	}

	published := 0
	for _, due := range res.Due {
		metrics.IncrementDueTask(due.Cadence.String())

		for _, item := range scheduler.Explode(due) {
			key := util.DispatchKey(item.Task.ID, item.Recipient, now)
			if !r.deduper.AcquireOnce(ctx, "dispatch", key) {
				metrics.IncrementDroppedTask("duplicate")
				continue
			}

			payload := mqcontracts.TaskDispatchPayload{
				TaskID:         item.Task.ID,
				Subject:        item.Task.Subject,
				ResolvedPrompt: item.ResolvedPrompt,
				HistoryCount:   item.HistoryCount,
				Recipient:      item.Recipient,
				ScheduledFor:   now,
			}
			if err := r.publisher.Publish(mqcontracts.RoutingKeyTaskDispatch, payload); err != nil {
				metrics.IncrementDispatchPublished("failed")
				r.logger.Error("Failed to publish dispatch item",
					zap.String("task_id", item.Task.ID),
					zap.String("recipient", item.Recipient),
					zap.Error(err),
				)
				continue
			}
			metrics.IncrementDispatchPublished("success")
			published++
		}
	}

	if res.DroppedNoRecipients > 0 {
		metrics.DroppedTaskCount.WithLabelValues("no_recipients").Add(float64(res.DroppedNoRecipients))
	}

	r.logger.Info("Dispatch cycle complete",
		zap.Int("due_tasks", len(res.Due)),
		zap.Int("published_items", published),
		zap.Int("dropped_no_recipients", res.DroppedNoRecipients),
	)
	return res, nil
}

// Preview runs the selection pipeline without publishing anything.
func (r *Runner) Preview(ctx context.Context, now time.Time) (scheduler.Result, error) {
	return r.evaluate(ctx, now)
}

func (r *Runner) evaluate(ctx context.Context, now time.Time) (scheduler.Result, error) {
	tasks, err := r.taskRepo.ListActive(ctx)
	if err != nil {
		return scheduler.Result{}, err
	}

	records, err := r.execRepo.ListAll(ctx)
	if err != nil {
		return scheduler.Result{}, err
	}

	pairs, err := r.recipRepo.ListPairs(ctx)
	if err != nil {
		return scheduler.Result{}, err
	}

	return r.pipeline.Run(tasks, records, pairs, now), nil
}

// DueSummary is the wire shape returned by the admin preview endpoint.
type DueSummary struct {
	TaskID       string   `json:"task_id"`
	Subject      string   `json:"subject"`
	Cadence      string   `json:"cadence"`
	HistoryCount int      `json:"history_count"`
	Recipients   []string `json:"recipients"`
}

func Summarize(due []model.EnrichedTask) []DueSummary {
	out := make([]DueSummary, 0, len(due))
	for _, d := range due {
		out = append(out, DueSummary{
			TaskID:       d.ID,
			Subject:      d.Subject,
			Cadence:      d.Cadence.String(),
			HistoryCount: d.HistoryCount,
			Recipients:   d.Recipients,
		})
	}
	return out
}

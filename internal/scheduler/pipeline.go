package scheduler

import (
	"time"

	"go.uber.org/zap"

	"taskcadence/internal/model"
)

// DefaultHistoryDepth bounds the execution digest appended to prompts.
const DefaultHistoryDepth = 3

// Pipeline selects the tasks due at a given instant and enriches them for
// dispatch. It is a pure function of its inputs plus the explicit now;
// the only side effect is informational logging.
type Pipeline struct {
	logger       *zap.Logger
	historyDepth int
}

// NewPipeline builds a pipeline. historyDepth <= 0 selects the default.
func NewPipeline(logger *zap.Logger, historyDepth int) *Pipeline {
	if historyDepth <= 0 {
		historyDepth = DefaultHistoryDepth
	}
	return &Pipeline{
		logger:       logger,
		historyDepth: historyDepth,
	}
}

// Result of one evaluation run.
type Result struct {
	Due                 []model.EnrichedTask
	Evaluated           int
	DroppedNoRecipients int
}

// Run evaluates every task against now and returns the enriched due list,
// order-preserving relative to the input task list. Inputs are never
// mutated. Due tasks nobody would be notified about are dropped and
// counted, not treated as errors.
func (p *Pipeline) Run(tasks []model.Task, records []model.ExecutionRecord, pairs []model.RecipientPair, now time.Time) Result {
	hist := NewHistory(records)
	res := Result{Evaluated: len(tasks)}

	for _, t := range tasks {
		if t.Cadence == model.CadenceUnknown {
			p.logger.Warn("Task has unknown cadence, treating as never due",
				zap.String("task_id", t.ID),
				zap.String("subject", t.Subject),
			)
			continue
		}

		last, hasLast := hist.LastExecution(t.ID)
		if !IsDue(t, last, hasLast, now) {
			continue
		}

		recipients := ResolveRecipients(t.ID, pairs)
		if len(recipients) == 0 {
			res.DroppedNoRecipients++
			p.logger.Info("Due task dropped: no recipients",
				zap.String("task_id", t.ID),
				zap.String("subject", t.Subject),
			)
			continue
		}

		recent := hist.Recent(t.ID, p.historyDepth)
		res.Due = append(res.Due, model.EnrichedTask{
			Task:           t,
			ResolvedPrompt: BuildPrompt(t, recent),
			HistoryCount:   len(recent),
			Recipients:     recipients,
		})
	}

	p.logger.Info("Evaluation run complete",
		zap.Int("evaluated", res.Evaluated),
		zap.Int("due", len(res.Due)),
		zap.Int("dropped_no_recipients", res.DroppedNoRecipients),
	)
	return res
}

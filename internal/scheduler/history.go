package scheduler

import (
	"sort"
	"time"

	"taskcadence/internal/model"
)

// History is a per-task index over the execution log, most recent first.
// Building it once per run avoids re-scanning the full record list for
// every task. Records for tasks that no longer exist are indexed like any
// other; they are simply never looked up.
type History struct {
	byTask map[string][]model.Execution
}

// NewHistory indexes records by task ID and sorts each bucket descending
// by execution time. The sort is stable so records sharing an exact
// timestamp keep their input order.
func NewHistory(records []model.ExecutionRecord) *History {
	byTask := make(map[string][]model.Execution, len(records))
	for _, r := range records {
		byTask[r.TaskID] = append(byTask[r.TaskID], model.Execution{
			ExecutedAt: r.ExecutedAt,
			Output:     r.Output,
		})
	}
	for id := range byTask {
		execs := byTask[id]
		sort.SliceStable(execs, func(i, j int) bool {
			return execs[i].ExecutedAt.After(execs[j].ExecutedAt)
		})
		byTask[id] = execs
	}
	return &History{byTask: byTask}
}

// LastExecution returns the most recent execution time for a task.
// The second return is false when the task has never executed.
func (h *History) LastExecution(taskID string) (time.Time, bool) {
	execs := h.byTask[taskID]
	if len(execs) == 0 {
		return time.Time{}, false
	}
	return execs[0].ExecutedAt, true
}

// Recent returns up to n executions for a task, most recent first.
func (h *History) Recent(taskID string, n int) []model.Execution {
	execs := h.byTask[taskID]
	if n > len(execs) {
		n = len(execs)
	}
	if n <= 0 {
		return nil
	}
	out := make([]model.Execution, n)
	copy(out, execs[:n])
	return out
}

package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"taskcadence/internal/model"
)

func newTestPipeline() *Pipeline {
	return NewPipeline(zap.NewNop(), 0)
}

func TestPipelineWeeklyNeverExecutedOnMatchingDay(t *testing.T) {
	// Scenario A: weekly Monday task with no history is due on a Monday.
	task := model.Task{ID: "2", Subject: "weekly digest", Cadence: model.CadenceWeekly, Period: 1, DayOfWeek: time.Monday, PromptTemplate: "digest"}
	recips := []model.RecipientPair{{TaskID: "2", Address: "a@x"}}

	res := newTestPipeline().Run([]model.Task{task}, nil, recips, monday)

	require.Len(t, res.Due, 1)
	assert.Equal(t, "2", res.Due[0].ID)
	assert.Equal(t, []string{"a@x"}, res.Due[0].Recipients)
	assert.Equal(t, 0, res.Due[0].HistoryCount)
	assert.Equal(t, "digest", res.Due[0].ResolvedPrompt)
}

func TestPipelineSameDaySuppression(t *testing.T) {
	// Scenario B: a daily task that already ran earlier today is excluded.
	task := model.Task{ID: "1", Subject: "daily note", Cadence: model.CadenceDaily, Period: 1}
	earlierToday := time.Date(monday.Year(), monday.Month(), monday.Day(), 6, 0, 0, 0, time.Local)
	records := []model.ExecutionRecord{{TaskID: "1", ExecutedAt: earlierToday, Output: "done"}}
	recips := []model.RecipientPair{{TaskID: "1", Address: "a@x"}}

	res := newTestPipeline().Run([]model.Task{task}, records, recips, monday)

	assert.Empty(t, res.Due)
	assert.Equal(t, 0, res.DroppedNoRecipients)
}

func TestPipelineDropsRecipientlessDueTask(t *testing.T) {
	// Scenario C: due but nobody to notify.
	task := model.Task{ID: "5", Subject: "orphan", Cadence: model.CadenceDaily, Period: 1}

	res := newTestPipeline().Run([]model.Task{task}, nil, nil, monday)

	assert.Empty(t, res.Due)
	assert.Equal(t, 1, res.DroppedNoRecipients)
	assert.Equal(t, 1, res.Evaluated)
}

func TestPipelinePreservesTaskOrder(t *testing.T) {
	tasks := []model.Task{
		{ID: "a", Cadence: model.CadenceDaily, Period: 1},
		{ID: "b", Cadence: model.CadenceWeekly, Period: 1, DayOfWeek: time.Tuesday}, // not due on Monday
		{ID: "c", Cadence: model.CadenceDaily, Period: 1},
	}
	recips := []model.RecipientPair{
		{TaskID: "c", Address: "c@x"},
		{TaskID: "a", Address: "a@x"},
	}

	res := newTestPipeline().Run(tasks, nil, recips, monday)

	require.Len(t, res.Due, 2)
	assert.Equal(t, "a", res.Due[0].ID)
	assert.Equal(t, "c", res.Due[1].ID)
}

func TestPipelineEnrichesWithBoundedHistory(t *testing.T) {
	task := model.Task{ID: "1", Subject: "daily", Cadence: model.CadenceDaily, Period: 1, PromptTemplate: "tpl"}
	var records []model.ExecutionRecord
	for i := 1; i <= 5; i++ {
		records = append(records, model.ExecutionRecord{
			TaskID:     "1",
			ExecutedAt: monday.Add(-time.Duration(i) * 24 * time.Hour),
			Output:     "run",
		})
	}
	recips := []model.RecipientPair{{TaskID: "1", Address: "a@x"}}

	res := newTestPipeline().Run([]model.Task{task}, records, recips, monday)

	require.Len(t, res.Due, 1)
	assert.Equal(t, 3, res.Due[0].HistoryCount)
	assert.Contains(t, res.Due[0].ResolvedPrompt, "tpl")
	assert.Contains(t, res.Due[0].ResolvedPrompt, antiRepeatDirective)
}

func TestPipelineSkipsUnknownCadence(t *testing.T) {
	task := model.Task{ID: "8", Subject: "typoed", Cadence: model.CadenceUnknown}
	recips := []model.RecipientPair{{TaskID: "8", Address: "a@x"}}

	res := newTestPipeline().Run([]model.Task{task}, nil, recips, monday)

	assert.Empty(t, res.Due)
	assert.Equal(t, 0, res.DroppedNoRecipients)
}

func TestPipelineEmptyInputs(t *testing.T) {
	res := newTestPipeline().Run(nil, nil, nil, monday)
	assert.Empty(t, res.Due)
	assert.Equal(t, 0, res.Evaluated)
	assert.Equal(t, 0, res.DroppedNoRecipients)
}

func TestPipelineDoesNotMutateInputs(t *testing.T) {
	tasks := []model.Task{{ID: "1", Subject: "daily", Cadence: model.CadenceDaily, Period: 1, PromptTemplate: "tpl"}}
	records := []model.ExecutionRecord{{TaskID: "1", ExecutedAt: monday.Add(-24 * time.Hour), Output: "run"}}
	recips := []model.RecipientPair{{TaskID: "1", Address: "a@x"}}

	newTestPipeline().Run(tasks, records, recips, monday)

	assert.Equal(t, "tpl", tasks[0].PromptTemplate)
	assert.Equal(t, "run", records[0].Output)
	assert.Equal(t, "a@x", recips[0].Address)
}

func TestExplodeOneItemPerRecipient(t *testing.T) {
	enriched := model.EnrichedTask{
		Task:           model.Task{ID: "1", Subject: "daily"},
		ResolvedPrompt: "prompt",
		HistoryCount:   2,
		Recipients:     []string{"a@x", "b@x", "c@x"},
	}

	items := Explode(enriched)

	require.Len(t, items, 3)
	for i, r := range enriched.Recipients {
		assert.Equal(t, r, items[i].Recipient)
		assert.Equal(t, "prompt", items[i].ResolvedPrompt)
		assert.Equal(t, 2, items[i].HistoryCount)
		assert.Equal(t, "1", items[i].Task.ID)
	}
}

func TestExplodeEmptyRecipients(t *testing.T) {
	assert.Empty(t, Explode(model.EnrichedTask{Task: model.Task{ID: "1"}}))
}

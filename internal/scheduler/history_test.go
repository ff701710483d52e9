package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskcadence/internal/model"
)

func execAt(taskID string, t time.Time, output string) model.ExecutionRecord {
	return model.ExecutionRecord{TaskID: taskID, ExecutedAt: t, Output: output}
}

func TestHistoryLastExecution(t *testing.T) {
	base := time.Date(2026, time.January, 10, 9, 0, 0, 0, time.Local)
	hist := NewHistory([]model.ExecutionRecord{
		execAt("1", base, "first"),
		execAt("1", base.Add(48*time.Hour), "third"),
		execAt("1", base.Add(24*time.Hour), "second"),
		execAt("2", base.Add(time.Hour), "other task"),
	})

	last, ok := hist.LastExecution("1")
	require.True(t, ok)
	assert.True(t, last.Equal(base.Add(48*time.Hour)))
}

func TestHistoryLastExecutionNeverExecuted(t *testing.T) {
	hist := NewHistory(nil)
	_, ok := hist.LastExecution("99")
	assert.False(t, ok)
}

func TestHistoryToleratesOrphanRecords(t *testing.T) {
	// Records for removed tasks are indexed but harmless.
	base := time.Date(2026, time.January, 10, 9, 0, 0, 0, time.Local)
	hist := NewHistory([]model.ExecutionRecord{
		execAt("deleted-task", base, "stale"),
	})

	_, ok := hist.LastExecution("still-alive")
	assert.False(t, ok)
}

func TestHistoryRecentBoundedAndDescending(t *testing.T) {
	base := time.Date(2026, time.February, 1, 8, 0, 0, 0, time.Local)
	var records []model.ExecutionRecord
	for i := 0; i < 5; i++ {
		records = append(records, execAt("7", base.Add(time.Duration(i)*24*time.Hour), "run"))
	}

	recent := hist3(t, records)
	require.Len(t, recent, 3)
	for i := 1; i < len(recent); i++ {
		assert.True(t, recent[i-1].ExecutedAt.After(recent[i].ExecutedAt),
			"expected strictly descending order at index %d", i)
	}
	assert.True(t, recent[0].ExecutedAt.Equal(base.Add(4*24*time.Hour)))
}

func hist3(t *testing.T, records []model.ExecutionRecord) []model.Execution {
	t.Helper()
	return NewHistory(records).Recent("7", 3)
}

func TestHistoryRecentFewerThanRequested(t *testing.T) {
	base := time.Date(2026, time.February, 1, 8, 0, 0, 0, time.Local)
	hist := NewHistory([]model.ExecutionRecord{execAt("7", base, "only")})

	recent := hist.Recent("7", 3)
	require.Len(t, recent, 1)
	assert.Equal(t, "only", recent[0].Output)

	assert.Empty(t, hist.Recent("missing", 3))
}

func TestHistoryStableOrderForEqualTimestamps(t *testing.T) {
	ts := time.Date(2026, time.February, 1, 8, 0, 0, 0, time.Local)
	hist := NewHistory([]model.ExecutionRecord{
		execAt("1", ts, "a"),
		execAt("1", ts, "b"),
	})

	recent := hist.Recent("1", 2)
	require.Len(t, recent, 2)
	assert.Equal(t, "a", recent[0].Output)
	assert.Equal(t, "b", recent[1].Output)
}

func TestHistoryDoesNotAliasInternalSlice(t *testing.T) {
	ts := time.Date(2026, time.February, 1, 8, 0, 0, 0, time.Local)
	hist := NewHistory([]model.ExecutionRecord{
		execAt("1", ts, "a"),
		execAt("1", ts.Add(time.Hour), "b"),
	})

	recent := hist.Recent("1", 2)
	recent[0].Output = "mutated"

	again := hist.Recent("1", 2)
	assert.Equal(t, "b", again[0].Output)
}

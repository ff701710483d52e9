package model

import (
	"strings"
	"time"
)

// Task is a recurring task definition. Definitions are externally supplied
// and treated as immutable for the duration of an evaluation run.
type Task struct {
	ID             string
	Subject        string
	Cadence        Cadence
	Period         int          // repeat every N days/weeks/months, default 1
	DayOfWeek      time.Weekday // weekly only
	DayOfMonth     int          // monthly only, 1-31
	TimeOfDay      string       // "HH:MM" 24h local, empty means always passed
	PromptTemplate string
}

// ExecutionRecord is one historical run of a task. The log is append-only;
// records may reference tasks that no longer exist.
type ExecutionRecord struct {
	TaskID     string
	ExecutedAt time.Time
	Output     string
}

// Execution is a (time, output) pair taken from the history index.
type Execution struct {
	ExecutedAt time.Time
	Output     string
}

// RecipientPair maps a task to one notification address. The mapping is not
// unique; deduplication happens per task at resolution time.
type RecipientPair struct {
	TaskID  string
	Address string
}

// EnrichedTask is a due task ready for fan-out: the original definition plus
// the resolved prompt, its history count and the deduplicated recipient list.
// Constructed once per run and never mutated afterwards.
type EnrichedTask struct {
	Task
	ResolvedPrompt string
	HistoryCount   int
	Recipients     []string
}

// DispatchItem is the per-recipient explosion of an EnrichedTask, the unit
// handed to downstream generation and email delivery.
type DispatchItem struct {
	Task           Task
	ResolvedPrompt string
	HistoryCount   int
	Recipient      string
}

// ParseWeekday maps a weekday name to time.Weekday. Matching is
// case-insensitive; unrecognized names report false.
func ParseWeekday(name string) (time.Weekday, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sunday":
		return time.Sunday, true
	case "monday":
		return time.Monday, true
	case "tuesday":
		return time.Tuesday, true
	case "wednesday":
		return time.Wednesday, true
	case "thursday":
		return time.Thursday, true
	case "friday":
		return time.Friday, true
	case "saturday":
		return time.Saturday, true
	default:
		return time.Sunday, false
	}
}

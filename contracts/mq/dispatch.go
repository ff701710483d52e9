package mq

import "time"

// Routing keys on the events exchange.
const (
	RoutingKeyTaskDispatch   = "task.dispatch"
	RoutingKeyDispatchSent   = "dispatch.sent"
	RoutingKeyDispatchFailed = "dispatch.failed"
)

// TaskDispatchPayload is one (task, recipient) fan-out item produced by an
// evaluation run, consumed by the dispatch worker.
type TaskDispatchPayload struct {
	TaskID         string    `json:"task_id"`
	Subject        string    `json:"subject"`
	ResolvedPrompt string    `json:"resolved_prompt"`
	HistoryCount   int       `json:"history_count"`
	Recipient      string    `json:"recipient"`
	ScheduledFor   time.Time `json:"scheduled_for"`
}

type DispatchSentPayload struct {
	TaskID    string    `json:"task_id"`
	Recipient string    `json:"recipient"`
	SentAt    time.Time `json:"sent_at"`
}

type DispatchFailedPayload struct {
	TaskID     string `json:"task_id"`
	Recipient  string `json:"recipient"`
	Error      string `json:"error"`
	ErrorType  string `json:"error_type"`
	RetryCount int64  `json:"retry_count"`
}

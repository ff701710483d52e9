package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	mqcontracts "taskcadence/contracts/mq"
	"taskcadence/internal/repository"
	"taskcadence/pkg/logger"
	"taskcadence/pkg/metrics"
	"taskcadence/pkg/mq"
	"taskcadence/pkg/trace"
	"taskcadence/pkg/util"
)

// DispatchHandler processes one task.dispatch item: generate content via
// the agent, deliver it by email, and append the run to the execution log.
// Retryable failures are nacked back to the queue until the retry budget
// runs out; everything else goes straight to the DLQ.
type DispatchHandler struct {
	execRepo   *repository.ExecutionRepository
	agent      *AgentClient
	sender     *EmailSender
	publisher  *mq.Publisher
	retries    *util.RetryCounter
	maxRetries int64
	logger     *zap.Logger
}

func NewDispatchHandler(
	execRepo *repository.ExecutionRepository,
	agent *AgentClient,
	sender *EmailSender,
	publisher *mq.Publisher,
	retries *util.RetryCounter,
	maxRetries int64,
	logger *zap.Logger,
) *DispatchHandler {
	return &DispatchHandler{
		execRepo:   execRepo,
		agent:      agent,
		sender:     sender,
		publisher:  publisher,
		retries:    retries,
		maxRetries: maxRetries,
		logger:     logger,
	}
}

// Handle implements mq.MessageHandler. Returning nil acks the message;
// returning an error nacks it back onto the queue.
func (h *DispatchHandler) Handle(ctx context.Context, data json.RawMessage) error {
	ctx = trace.WithContext(ctx, trace.GenerateTraceID())
	log := logger.WithTrace(ctx, h.logger)

	var payload mqcontracts.TaskDispatchPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		log.Error("Malformed dispatch payload, sending to DLQ", zap.Error(err))
		if dlqErr := h.publisher.PublishToDLQ(mqcontracts.RoutingKeyTaskDispatch, data, err.Error()); dlqErr != nil {
			log.Error("Failed to publish malformed payload to DLQ", zap.Error(dlqErr))
		}
		return nil
	}

	dispatchKey := util.DispatchKey(payload.TaskID, payload.Recipient, payload.ScheduledFor)
	retryKey := util.FormatRetryKey("dispatch", dispatchKey)

	err := h.process(ctx, payload)
	if err == nil {
		if resetErr := h.retries.Reset(ctx, retryKey); resetErr != nil {
			log.Warn("Failed to reset retry counter", zap.String("key", retryKey), zap.Error(resetErr))
		}
		return nil
	}

	retryable, errType := util.IsRetryableError(err)
	count, cntErr := h.retries.IncrementAndGet(ctx, retryKey)
	if cntErr != nil {
		// Without a reliable counter, do not risk an infinite requeue loop.
		log.Warn("Retry counter unavailable, treating retry budget as exhausted",
			zap.String("key", retryKey),
			zap.Error(cntErr),
		)
		count = h.maxRetries + 1
	}

	if util.ShouldRetry(count, h.maxRetries, retryable) {
		log.Warn("Dispatch failed, requeueing",
			zap.String("task_id", payload.TaskID),
			zap.String("recipient", payload.Recipient),
			zap.String("error_type", errType),
			zap.Int64("retry_count", count),
			zap.Error(err),
		)
		return err
	}

	log.Error("Dispatch failed permanently, sending to DLQ",
		zap.String("task_id", payload.TaskID),
		zap.String("recipient", payload.Recipient),
		zap.String("error_type", errType),
		zap.Int64("retry_count", count),
		zap.Error(err),
	)

	if dlqErr := h.publisher.PublishToDLQ(mqcontracts.RoutingKeyTaskDispatch, data, err.Error()); dlqErr != nil {
		log.Error("Failed to publish to DLQ", zap.Error(dlqErr))
	}
	failed := mqcontracts.DispatchFailedPayload{
		TaskID:     payload.TaskID,
		Recipient:  payload.Recipient,
		Error:      err.Error(),
		ErrorType:  errType,
		RetryCount: count,
	}
	if pubErr := h.publisher.Publish(mqcontracts.RoutingKeyDispatchFailed, failed); pubErr != nil {
		log.Error("Failed to publish dispatch.failed event", zap.Error(pubErr))
	}
	return nil
}

func (h *DispatchHandler) process(ctx context.Context, payload mqcontracts.TaskDispatchPayload) error {
	log := logger.WithTrace(ctx, h.logger)

	content, err := h.agent.Generate(ctx, payload.TaskID, payload.Subject, payload.ResolvedPrompt)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("[taskcadence] %s", payload.Subject)
	if err := h.sender.Send(ctx, payload.Recipient, subject, content); err != nil {
		metrics.IncrementEmailDelivered("failed")
		return err
	}
	metrics.IncrementEmailDelivered("success")

	executedAt := time.Now()
	if err := h.execRepo.Append(ctx, payload.TaskID, executedAt, content); err != nil {
		// The email is already out; losing the log entry only weakens the
		// anti-repetition digest, so log and move on instead of resending.
		log.Warn("Failed to append execution record",
			zap.String("task_id", payload.TaskID),
			zap.Error(err),
		)
	}

	sent := mqcontracts.DispatchSentPayload{
		TaskID:    payload.TaskID,
		Recipient: payload.Recipient,
		SentAt:    executedAt,
	}
	if err := h.publisher.Publish(mqcontracts.RoutingKeyDispatchSent, sent); err != nil {
		log.Warn("Failed to publish dispatch.sent event", zap.Error(err))
	}

	log.Info("Dispatch delivered",
		zap.String("task_id", payload.TaskID),
		zap.String("recipient", payload.Recipient),
	)
	return nil
}

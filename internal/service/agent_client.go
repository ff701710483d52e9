package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"taskcadence/pkg/circuitbreaker"
	"taskcadence/pkg/metrics"
	"taskcadence/pkg/trace"
)

// AgentClient calls the external generation agent that turns a resolved
// prompt into the content eventually emailed to recipients.
type AgentClient struct {
	baseURL    string
	httpClient *http.Client
	cb         *circuitbreaker.CircuitBreaker
}

func NewAgentClient(baseURL string) *AgentClient {
	cbConfig := circuitbreaker.Config{
		FailureThreshold:    3,
		SuccessThreshold:    2,
		Timeout:             30 * time.Second,
		HalfOpenMaxRequests: 2,
	}

	return &AgentClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		cb: circuitbreaker.NewCircuitBreaker(cbConfig),
	}
}

type generateRequest struct {
	TaskID  string `json:"task_id"`
	Subject string `json:"subject"`
	Prompt  string `json:"prompt"`
}

type generateResponse struct {
	Content string `json:"content"`
}

// Generate asks the agent service for fresh content. Failures (including
// an open circuit breaker) surface as errors so the worker's retry/DLQ
// flow can handle them; there is no fallback content to send.
func (c *AgentClient) Generate(ctx context.Context, taskID, subject, prompt string) (string, error) {
	var content string

	err := c.cb.Execute(func() error {
		start := time.Now()
		b, marshalErr := json.Marshal(generateRequest{TaskID: taskID, Subject: subject, Prompt: prompt})
		if marshalErr != nil {
			return marshalErr
		}

		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate", bytes.NewReader(b))
		if reqErr != nil {
			return reqErr
		}
		req.Header.Set("Content-Type", "application/json")
		if traceID := trace.FromContext(ctx); traceID != "" {
			req.Header.Set(trace.HeaderName(), traceID)
		}

		resp, doErr := c.httpClient.Do(req)
		latency := time.Since(start)

		if doErr != nil {
			metrics.RecordAgentCallLatency("/generate", "error", latency)
			return fmt.Errorf("failed to call agent service: %w", doErr)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			status := fmt.Sprintf("%d", resp.StatusCode)
			metrics.RecordAgentCallLatency("/generate", status, latency)
			return fmt.Errorf("agent service returned error: %d", resp.StatusCode)
		}

		metrics.RecordAgentCallLatency("/generate", "success", latency)

		var out generateResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&out); decodeErr != nil {
			return decodeErr
		}
		content = out.Content
		return nil
	})
	if err != nil {
		return "", err
	}

	return content, nil
}

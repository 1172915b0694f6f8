package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"time"
)

// GatewayClient talks to a notification gateway over JSON/HTTP. The gateway
// plays the role the OS notification service plays on device: it holds
// pending one-shot notifications and fires them itself.
type GatewayClient struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
}

func NewGatewayClient(baseURL string, maxRetries int) *GatewayClient {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &GatewayClient{
		baseURL:    baseURL,
		httpClient: newHTTPClient(baseURL),
		maxRetries: maxRetries,
	}
}

func (c *GatewayClient) RequestPermission(ctx context.Context) (bool, error) {
	u, err := url.JoinPath(c.baseURL, "/api/v1/permission")
	if err != nil {
		return false, fmt.Errorf("failed to build permission URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to query permission: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var permission GatewayPermissionResponse
	if err := json.NewDecoder(resp.Body).Decode(&permission); err != nil {
		return false, fmt.Errorf("failed to decode permission response: %w", err)
	}

	return permission.Granted, nil
}

func (c *GatewayClient) ListPending(ctx context.Context) ([]PendingNotification, error) {
	u, err := url.JoinPath(c.baseURL, "/api/v1/notifications/pending")
	if err != nil {
		return nil, fmt.Errorf("failed to build pending URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("failed to list pending notifications from gateway",
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to list pending notifications: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var pending GatewayPendingResponse
	if err := json.NewDecoder(resp.Body).Decode(&pending); err != nil {
		return nil, fmt.Errorf("failed to decode pending response: %w", err)
	}

	return pending.Notifications, nil
}

func (c *GatewayClient) Cancel(ctx context.Context, id string) error {
	u, err := url.JoinPath(c.baseURL, "/api/v1/notifications", id)
	if err != nil {
		return fmt.Errorf("failed to build cancel URL: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * 100 * time.Millisecond
			slog.Debug("retrying notification cancel",
				slog.String("notification_id", id),
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		err := c.doCancel(ctx, u, id)
		if err == nil {
			return nil
		}
		lastErr = err
	}

	return fmt.Errorf("failed to cancel notification after %d retries: %w", c.maxRetries, lastErr)
}

func (c *GatewayClient) doCancel(ctx context.Context, u, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send cancel request: %w", err)
	}
	defer resp.Body.Close()

	// The gateway drops fired notifications on its own; a 404 means the
	// booking is already gone, which is the outcome cancel wants.
	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		slog.Debug("notification already gone from gateway",
			slog.String("notification_id", id),
		)
		return nil
	default:
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
}

func (c *GatewayClient) Schedule(ctx context.Context, scheduleReq *ScheduleRequest) (*ScheduleResponse, error) {
	payload, err := json.Marshal(scheduleReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schedule request: %w", err)
	}

	u, err := url.JoinPath(c.baseURL, "/api/v1/notifications")
	if err != nil {
		return nil, fmt.Errorf("failed to build schedule URL: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * 100 * time.Millisecond
			slog.Debug("retrying notification booking",
				slog.String("event_id", scheduleReq.EventID),
				slog.String("candidate_id", scheduleReq.CandidateID),
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		resp, err := c.doSchedule(ctx, u, payload, scheduleReq)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}

	slog.Error("all retries exhausted for notification booking",
		slog.String("event_id", scheduleReq.EventID),
		slog.String("candidate_id", scheduleReq.CandidateID),
		slog.Int("max_retries", c.maxRetries),
		slog.String("error", lastErr.Error()),
	)
	return nil, fmt.Errorf("failed to schedule notification after %d retries: %w", c.maxRetries, lastErr)
}

func (c *GatewayClient) doSchedule(ctx context.Context, u string, payload []byte, scheduleReq *ScheduleRequest) (*ScheduleResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("failed to send schedule request to gateway",
			slog.String("event_id", scheduleReq.EventID),
			slog.String("candidate_id", scheduleReq.CandidateID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		slog.Warn("unexpected status code from gateway",
			slog.String("event_id", scheduleReq.EventID),
			slog.String("candidate_id", scheduleReq.CandidateID),
			slog.Int("status_code", resp.StatusCode),
		)
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var gatewayResp GatewayScheduleResponse
	if err := json.NewDecoder(resp.Body).Decode(&gatewayResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	triggerTime, _ := time.Parse(time.RFC3339, gatewayResp.TriggerTime)
	createdAt, _ := time.Parse(time.RFC3339, gatewayResp.CreatedAt)

	slog.Debug("notification booked through gateway",
		slog.String("notification_id", gatewayResp.ID),
		slog.String("event_id", scheduleReq.EventID),
		slog.String("candidate_id", scheduleReq.CandidateID),
	)

	return &ScheduleResponse{
		ID:          gatewayResp.ID,
		TriggerTime: triggerTime,
		CreatedAt:   createdAt,
	}, nil
}

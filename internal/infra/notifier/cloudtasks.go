//go:build gcloud

package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	cloudtasks "cloud.google.com/go/cloudtasks/apiv2"
	taskspb "cloud.google.com/go/cloudtasks/apiv2/cloudtaskspb"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// CloudTasksClient backs the notifier with a Cloud Tasks queue: each booking
// is a one-shot HTTP task scheduled at the milestone's trigger instant,
// delivered to the push endpoint that fans out to devices.
type CloudTasksClient struct {
	client     *cloudtasks.Client
	projectID  string
	locationID string
	queueID    string
	targetURL  string
	maxRetries int
}

type CloudTasksConfig struct {
	ProjectID  string
	LocationID string
	QueueID    string
	TargetURL  string
	MaxRetries int
}

// taskPayload is the JSON body attached to every task. EventID and Kind are
// the tags cancel-all-for-event filters on.
type taskPayload struct {
	EventID     string `json:"event_id"`
	CandidateID string `json:"candidate_id"`
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	Body        string `json:"body"`
}

func NewCloudTasksClient(ctx context.Context, cfg CloudTasksConfig) (*CloudTasksClient, error) {
	client, err := cloudtasks.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud tasks client: %w", err)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	return &CloudTasksClient{
		client:     client,
		projectID:  cfg.ProjectID,
		locationID: cfg.LocationID,
		queueID:    cfg.QueueID,
		targetURL:  cfg.TargetURL,
		maxRetries: maxRetries,
	}, nil
}

func (c *CloudTasksClient) queuePath() string {
	return fmt.Sprintf("projects/%s/locations/%s/queues/%s",
		c.projectID, c.locationID, c.queueID)
}

// RequestPermission maps the permission probe onto queue state: a paused
// or disabled queue behaves exactly like a user who revoked notifications.
func (c *CloudTasksClient) RequestPermission(ctx context.Context) (bool, error) {
	queue, err := c.client.GetQueue(ctx, &taskspb.GetQueueRequest{
		Name: c.queuePath(),
	})
	if err != nil {
		return false, fmt.Errorf("failed to get queue state: %w", err)
	}

	if queue.State != taskspb.Queue_RUNNING {
		slog.Warn("cloud tasks queue is not running, treating as permission denied",
			slog.String("queue", c.queuePath()),
			slog.String("state", queue.State.String()),
		)
		return false, nil
	}

	return true, nil
}

func (c *CloudTasksClient) ListPending(ctx context.Context) ([]PendingNotification, error) {
	it := c.client.ListTasks(ctx, &taskspb.ListTasksRequest{
		Parent:       c.queuePath(),
		ResponseView: taskspb.Task_FULL,
	})

	pending := make([]PendingNotification, 0, 64)
	for {
		task, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list tasks: %w", err)
		}

		httpReq := task.GetHttpRequest()
		if httpReq == nil {
			continue
		}

		var payload taskPayload
		if err := json.Unmarshal(httpReq.GetBody(), &payload); err != nil {
			slog.Debug("skipping task with foreign payload",
				slog.String("task_name", task.GetName()),
			)
			continue
		}

		var triggerTime time.Time
		if task.GetScheduleTime() != nil {
			triggerTime = task.GetScheduleTime().AsTime()
		}

		pending = append(pending, PendingNotification{
			ID:          task.GetName(),
			EventID:     payload.EventID,
			Kind:        payload.Kind,
			TriggerTime: triggerTime,
		})
	}

	return pending, nil
}

func (c *CloudTasksClient) Cancel(ctx context.Context, id string) error {
	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * 100 * time.Millisecond
			slog.Debug("retrying task deletion",
				slog.String("task_name", id),
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		err := c.deleteTask(ctx, id)
		if err == nil {
			return nil
		}
		lastErr = err
	}

	slog.Error("all retries exhausted for task deletion",
		slog.String("task_name", id),
		slog.Int("max_retries", c.maxRetries),
		slog.String("error", lastErr.Error()),
	)
	return fmt.Errorf("failed to delete task after %d retries: %w", c.maxRetries, lastErr)
}

func (c *CloudTasksClient) deleteTask(ctx context.Context, taskName string) error {
	err := c.client.DeleteTask(ctx, &taskspb.DeleteTaskRequest{
		Name: taskName,
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			slog.Debug("task not found in Cloud Tasks (may have fired already)",
				slog.String("task_name", taskName),
			)
			return nil
		}

		slog.Warn("failed to delete cloud task",
			slog.String("task_name", taskName),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to delete cloud task: %w", err)
	}

	return nil
}

func (c *CloudTasksClient) Schedule(ctx context.Context, scheduleReq *ScheduleRequest) (*ScheduleResponse, error) {
	payload, err := json.Marshal(taskPayload{
		EventID:     scheduleReq.EventID,
		CandidateID: scheduleReq.CandidateID,
		Kind:        scheduleReq.Kind,
		Title:       scheduleReq.Title,
		Body:        scheduleReq.Body,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task payload: %w", err)
	}

	taskName := fmt.Sprintf("%s/tasks/%s--%s", c.queuePath(), scheduleReq.EventID, scheduleReq.CandidateID)

	task := &taskspb.Task{
		Name: taskName,
		MessageType: &taskspb.Task_HttpRequest{
			HttpRequest: &taskspb.HttpRequest{
				HttpMethod: taskspb.HttpMethod_POST,
				Url:        c.targetURL,
				Headers: map[string]string{
					"Content-Type": "application/json",
				},
				Body: payload,
			},
		},
		ScheduleTime: timestamppb.New(scheduleReq.TriggerTime),
	}

	req := &taskspb.CreateTaskRequest{
		Parent: c.queuePath(),
		Task:   task,
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * 100 * time.Millisecond
			slog.Debug("retrying task creation",
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

		resp, err := c.createTask(ctx, req, scheduleReq)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}

	slog.Error("all retries exhausted for task creation",
		slog.String("event_id", scheduleReq.EventID),
		slog.String("candidate_id", scheduleReq.CandidateID),
		slog.Int("max_retries", c.maxRetries),
		slog.String("error", lastErr.Error()),
	)
	return nil, fmt.Errorf("failed to create task after %d retries: %w", c.maxRetries, lastErr)
}

func (c *CloudTasksClient) createTask(ctx context.Context, req *taskspb.CreateTaskRequest, scheduleReq *ScheduleRequest) (*ScheduleResponse, error) {
	createdTask, err := c.client.CreateTask(ctx, req)
	if err != nil {
		slog.Warn("failed to create cloud task",
			slog.String("event_id", scheduleReq.EventID),
			slog.String("candidate_id", scheduleReq.CandidateID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to create cloud task: %w", err)
	}

	slog.Debug("notification task created in Cloud Tasks",
		slog.String("task_name", createdTask.Name),
		slog.String("event_id", scheduleReq.EventID),
	)

	var triggerTime, createdAt time.Time
	if createdTask.ScheduleTime != nil {
		triggerTime = createdTask.ScheduleTime.AsTime()
	}
	if createdTask.CreateTime != nil {
		createdAt = createdTask.CreateTime.AsTime()
	}

	return &ScheduleResponse{
		ID:          createdTask.Name,
		TriggerTime: triggerTime,
		CreatedAt:   createdAt,
	}, nil
}

func (c *CloudTasksClient) Close() error {
	return c.client.Close()
}

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/daymark-app/milestone-scheduling/internal/domain"
	"github.com/daymark-app/milestone-scheduling/internal/service/schedule"
)

type fakeEventService struct {
	createFn     func(ctx context.Context, title string, anchorDate time.Time, isTimeCapsule bool) (*domain.Event, error)
	updateFn     func(ctx context.Context, id, title string, anchorDate time.Time, isTimeCapsule bool) (*domain.Event, error)
	deleteFn     func(ctx context.Context, id string) error
	getFn        func(ctx context.Context, id string) (*domain.Event, error)
	listFn       func(ctx context.Context) ([]*domain.Event, error)
	rescheduleFn func(ctx context.Context, id string) (*schedule.Result, error)
	previewFn    func(ctx context.Context, id string, limit int) ([]domain.MilestoneCandidate, error)
}

func (f *fakeEventService) Create(ctx context.Context, title string, anchorDate time.Time, isTimeCapsule bool) (*domain.Event, error) {
	return f.createFn(ctx, title, anchorDate, isTimeCapsule)
}

func (f *fakeEventService) Update(ctx context.Context, id, title string, anchorDate time.Time, isTimeCapsule bool) (*domain.Event, error) {
	return f.updateFn(ctx, id, title, anchorDate, isTimeCapsule)
}

func (f *fakeEventService) Delete(ctx context.Context, id string) error {
	return f.deleteFn(ctx, id)
}

func (f *fakeEventService) Get(ctx context.Context, id string) (*domain.Event, error) {
	return f.getFn(ctx, id)
}

func (f *fakeEventService) List(ctx context.Context) ([]*domain.Event, error) {
	return f.listFn(ctx)
}

func (f *fakeEventService) Reschedule(ctx context.Context, id string) (*schedule.Result, error) {
	return f.rescheduleFn(ctx, id)
}

func (f *fakeEventService) PreviewMilestones(ctx context.Context, id string, limit int) ([]domain.MilestoneCandidate, error) {
	return f.previewFn(ctx, id, limit)
}

func newTestRouter(svc EventService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	RegisterValidations()

	h := NewEventHandler(svc, 20)

	router := gin.New()
	api := router.Group("/api/v1")
	api.POST("/events", h.HandleCreateEvent)
	api.GET("/events", h.HandleListEvents)
	api.GET("/events/:id", h.HandleGetEvent)
	api.PUT("/events/:id", h.HandleUpdateEvent)
	api.DELETE("/events/:id", h.HandleDeleteEvent)
	api.GET("/events/:id/milestones", h.HandleMilestonePreview)
	api.POST("/events/:id/reschedule", h.HandleReschedule)
	return router
}

func TestHandleCreateEventSuccess(t *testing.T) {
	anchor := time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC)

	svc := &fakeEventService{
		createFn: func(_ context.Context, title string, anchorDate time.Time, isTimeCapsule bool) (*domain.Event, error) {
			if title != "Wedding day" {
				t.Errorf("expected title passed through, got %s", title)
			}
			if !anchorDate.Equal(anchor) {
				t.Errorf("expected anchor %v, got %v", anchor, anchorDate)
			}
			return domain.NewEvent("event-001", title, anchorDate, isTimeCapsule), nil
		},
	}
	router := newTestRouter(svc)

	body := `{"title":"Wedding day","anchor_date":"2024-06-15T09:30:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/events", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp eventResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "event-001" {
		t.Errorf("expected event id in response, got %s", resp.ID)
	}
}

func TestHandleCreateEventValidation(t *testing.T) {
	svc := &fakeEventService{
		createFn: func(context.Context, string, time.Time, bool) (*domain.Event, error) {
			t.Fatal("create must not be called for invalid payloads")
			return nil, nil
		},
	}
	router := newTestRouter(svc)

	tests := []struct {
		name string
		body string
	}{
		{
			name: "missing title",
			body: `{"anchor_date":"2024-06-15T09:30:00Z"}`,
		},
		{
			name: "missing anchor date",
			body: `{"title":"No anchor"}`,
		},
		{
			name: "malformed anchor date",
			body: `{"title":"Bad anchor","anchor_date":"June 15th 2024"}`,
		},
		{
			name: "anchor date not a string",
			body: `{"title":"Bad anchor","anchor_date":1718443800}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/events", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", w.Code)
			}
		})
	}
}

func TestHandleGetEventNotFound(t *testing.T) {
	svc := &fakeEventService{
		getFn: func(_ context.Context, id string) (*domain.Event, error) {
			return nil, domain.ErrEventNotFound
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/missing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}

func TestHandleDeleteEvent(t *testing.T) {
	deleted := ""
	svc := &fakeEventService{
		deleteFn: func(_ context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/events/event-042", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", w.Code)
	}
	if deleted != "event-042" {
		t.Errorf("expected delete of event-042, got %q", deleted)
	}
}

func TestHandleMilestonePreviewLimit(t *testing.T) {
	var gotLimit int
	svc := &fakeEventService{
		previewFn: func(_ context.Context, id string, limit int) ([]domain.MilestoneCandidate, error) {
			gotLimit = limit
			return []domain.MilestoneCandidate{
				{ID: "weeks-1", Kind: domain.KindWeeks, Magnitude: 1, TriggerTime: time.Now().Add(time.Hour)},
			}, nil
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/event-001/milestones?limit=5", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if gotLimit != 5 {
		t.Errorf("expected limit 5 passed through, got %d", gotLimit)
	}

	var resp milestonesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Count != 1 {
		t.Errorf("expected count 1, got %d", resp.Count)
	}
}

func TestHandleMilestonePreviewDefaultLimit(t *testing.T) {
	var gotLimit int
	svc := &fakeEventService{
		previewFn: func(_ context.Context, id string, limit int) ([]domain.MilestoneCandidate, error) {
			gotLimit = limit
			return nil, nil
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/event-001/milestones", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if gotLimit != 20 {
		t.Errorf("expected default limit 20, got %d", gotLimit)
	}
}

func TestHandleRescheduleBackendUnavailable(t *testing.T) {
	svc := &fakeEventService{
		rescheduleFn: func(_ context.Context, id string) (*schedule.Result, error) {
			return nil, errors.New("failed to list pending bookings")
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/events/event-001/reschedule", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", w.Code)
	}
}

func TestHandleRescheduleSuccess(t *testing.T) {
	svc := &fakeEventService{
		rescheduleFn: func(_ context.Context, id string) (*schedule.Result, error) {
			return &schedule.Result{
				PassID:            "pass-001",
				EventID:           id,
				PermissionGranted: true,
				GeneratedCount:    120,
				CancelledCount:    60,
				BookedCount:       60,
			}, nil
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/events/event-001/reschedule", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp scheduleResultResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.BookedCount != 60 {
		t.Errorf("expected 60 booked, got %d", resp.BookedCount)
	}
	if !resp.PermissionGranted {
		t.Error("expected permission granted in response")
	}
}

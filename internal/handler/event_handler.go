package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/daymark-app/milestone-scheduling/internal/domain"
	"github.com/daymark-app/milestone-scheduling/internal/service/schedule"
)

// EventService is the slice of the event service the HTTP surface needs.
type EventService interface {
	Create(ctx context.Context, title string, anchorDate time.Time, isTimeCapsule bool) (*domain.Event, error)
	Update(ctx context.Context, id, title string, anchorDate time.Time, isTimeCapsule bool) (*domain.Event, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context) ([]*domain.Event, error)
	Reschedule(ctx context.Context, id string) (*schedule.Result, error)
	PreviewMilestones(ctx context.Context, id string, limit int) ([]domain.MilestoneCandidate, error)
}

type EventHandler struct {
	eventService EventService
	previewLimit int
}

func NewEventHandler(eventService EventService, previewLimit int) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		previewLimit: previewLimit,
	}
}

// RegisterValidations installs the custom binding rules the event payloads
// use. Call once before serving.
func RegisterValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("rfc3339", func(fl validator.FieldLevel) bool {
			_, err := time.Parse(time.RFC3339, fl.Field().String())
			return err == nil
		})
	}
}

func (h *EventHandler) HandleCreateEvent(c *gin.Context) {
	ctx := c.Request.Context()

	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "event create request rejected",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusBadRequest, "validation_error", "title and RFC3339 anchor_date are required")
		return
	}

	anchorDate, err := time.Parse(time.RFC3339, req.AnchorDate)
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "anchor_date must be RFC3339")
		return
	}

	event, err := h.eventService.Create(ctx, req.Title, anchorDate, req.IsTimeCapsule)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAnchor) {
			respondError(c, http.StatusBadRequest, "validation_error", "anchor_date is invalid")
			return
		}
		slog.ErrorContext(ctx, "failed to create event",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "processing_error", "failed to create event")
		return
	}

	c.JSON(http.StatusCreated, toEventResponse(event))
}

func (h *EventHandler) HandleUpdateEvent(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "event update request rejected",
			slog.String("event_id", id),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusBadRequest, "validation_error", "title and RFC3339 anchor_date are required")
		return
	}

	anchorDate, err := time.Parse(time.RFC3339, req.AnchorDate)
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "anchor_date must be RFC3339")
		return
	}

	event, err := h.eventService.Update(ctx, id, req.Title, anchorDate, req.IsTimeCapsule)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAnchor) {
			respondError(c, http.StatusBadRequest, "validation_error", "anchor_date is invalid")
			return
		}
		if errors.Is(err, domain.ErrEventNotFound) {
			respondError(c, http.StatusNotFound, "not_found", "event not found")
			return
		}
		slog.ErrorContext(ctx, "failed to update event",
			slog.String("event_id", id),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "processing_error", "failed to update event")
		return
	}

	c.JSON(http.StatusOK, toEventResponse(event))
}

func (h *EventHandler) HandleGetEvent(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	event, err := h.eventService.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			respondError(c, http.StatusNotFound, "not_found", "event not found")
			return
		}
		slog.ErrorContext(ctx, "failed to get event",
			slog.String("event_id", id),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "processing_error", "failed to get event")
		return
	}

	c.JSON(http.StatusOK, toEventResponse(event))
}

func (h *EventHandler) HandleListEvents(c *gin.Context) {
	ctx := c.Request.Context()

	events, err := h.eventService.List(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list events",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "processing_error", "failed to list events")
		return
	}

	items := make([]eventResponse, 0, len(events))
	for _, event := range events {
		items = append(items, toEventResponse(event))
	}

	c.JSON(http.StatusOK, listEventsResponse{
		Events: items,
		Count:  len(items),
	})
}

func (h *EventHandler) HandleDeleteEvent(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if err := h.eventService.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			respondError(c, http.StatusNotFound, "not_found", "event not found")
			return
		}
		slog.ErrorContext(ctx, "failed to delete event",
			slog.String("event_id", id),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "processing_error", "failed to delete event")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *EventHandler) HandleReschedule(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	result, err := h.eventService.Reschedule(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			respondError(c, http.StatusNotFound, "not_found", "event not found")
			return
		}
		// The pass aborted; state is unchanged and the client may retry.
		slog.ErrorContext(ctx, "scheduling pass aborted",
			slog.String("event_id", id),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusServiceUnavailable, "backend_unavailable", "notification backend unavailable")
		return
	}

	c.JSON(http.StatusOK, toScheduleResultResponse(result))
}

func (h *EventHandler) HandleMilestonePreview(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	limit := h.previewLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(c, http.StatusBadRequest, "validation_error", "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	candidates, err := h.eventService.PreviewMilestones(ctx, id, limit)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			respondError(c, http.StatusNotFound, "not_found", "event not found")
			return
		}
		slog.ErrorContext(ctx, "failed to preview milestones",
			slog.String("event_id", id),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "processing_error", "failed to preview milestones")
		return
	}

	c.JSON(http.StatusOK, milestonesResponse{
		EventID:    id,
		Milestones: toMilestoneItems(candidates),
		Count:      len(candidates),
	})
}

func respondError(c *gin.Context, status int, errType, message string) {
	c.JSON(status, errorResponse{
		Error:   errType,
		Message: message,
	})
}

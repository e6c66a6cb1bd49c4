package leave

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ajit432/hospital-leave/internal/core/events"
)

// NotificationHandler turns leave events into doctor and admin facing
// notifications. Delivery is the log for now.
type NotificationHandler struct {
	logger *slog.Logger
}

func NewNotificationHandler(logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{logger: logger}
}

func (h *NotificationHandler) HandleLeaveApplied(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.LeaveAppliedEvent)
	if !ok {
		return fmt.Errorf("expected LeaveAppliedEvent, got %T", event)
	}
	h.logger.Info("notify admins: new leave application",
		"application_id", e.ApplicationID,
		"doctor_id", e.DoctorID,
		"start_date", e.StartDate.Format("2006-01-02"),
		"end_date", e.EndDate.Format("2006-01-02"),
		"total_days", e.TotalDays,
		"event_id", e.EventID())
	return nil
}

func (h *NotificationHandler) HandleLeaveReviewed(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.LeaveReviewedEvent)
	if !ok {
		return fmt.Errorf("expected LeaveReviewedEvent, got %T", event)
	}
	h.logger.Info("notify doctor: leave application reviewed",
		"application_id", e.ApplicationID,
		"doctor_id", e.DoctorID,
		"status", e.Status,
		"comment", e.Comment,
		"event_id", e.EventID())
	return nil
}

func (h *NotificationHandler) HandleBalanceAllocated(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.BalanceAllocatedEvent)
	if !ok {
		return fmt.Errorf("expected BalanceAllocatedEvent, got %T", event)
	}
	h.logger.Info("notify doctor: leave allocation changed",
		"doctor_id", e.DoctorID,
		"category_id", e.CategoryID,
		"year", e.Year,
		"total_days", e.TotalDays,
		"event_id", e.EventID())
	return nil
}

func (h *NotificationHandler) HandlePendingStale(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.PendingLeaveStaleEvent)
	if !ok {
		return fmt.Errorf("expected PendingLeaveStaleEvent, got %T", event)
	}
	h.logger.Warn("remind admins: leave application awaiting review",
		"application_id", e.ApplicationID,
		"doctor_id", e.DoctorID,
		"applied_at", e.AppliedAt,
		"event_id", e.EventID())
	return nil
}

func (h *NotificationHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeLeaveApplied, h.HandleLeaveApplied)
	eventBus.Subscribe(events.EventTypeLeaveReviewed, h.HandleLeaveReviewed)
	eventBus.Subscribe(events.EventTypeBalanceAllocated, h.HandleBalanceAllocated)
	eventBus.Subscribe(events.EventTypePendingLeaveStale, h.HandlePendingStale)

	h.logger.Info("leave event handlers registered",
		"handlers", []string{
			events.EventTypeLeaveApplied,
			events.EventTypeLeaveReviewed,
			events.EventTypeBalanceAllocated,
			events.EventTypePendingLeaveStale,
		})
}

package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeLeaveApplied      = "leave.applied"
	EventTypeLeaveReviewed     = "leave.reviewed"
	EventTypeBalanceAllocated  = "balance.allocated"
	EventTypePendingLeaveStale = "leave.pending_stale"
)

type LeaveAppliedEvent struct {
	BaseEvent
	ApplicationID int64     `json:"application_id"`
	DoctorID      int64     `json:"doctor_id"`
	CategoryID    int64     `json:"category_id"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	TotalDays     int       `json:"total_days"`
}

func NewLeaveAppliedEvent(applicationID, doctorID, categoryID int64, start, end time.Time, totalDays int) *LeaveAppliedEvent {
	return &LeaveAppliedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.NewString(),
			Type:      EventTypeLeaveApplied,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"application_id": applicationID,
				"doctor_id":      doctorID,
				"category_id":    categoryID,
				"total_days":     totalDays,
			},
		},
		ApplicationID: applicationID,
		DoctorID:      doctorID,
		CategoryID:    categoryID,
		StartDate:     start,
		EndDate:       end,
		TotalDays:     totalDays,
	}
}

type LeaveReviewedEvent struct {
	BaseEvent
	ApplicationID int64  `json:"application_id"`
	DoctorID      int64  `json:"doctor_id"`
	ReviewerID    int64  `json:"reviewer_id"`
	Status        string `json:"status"`
	TotalDays     int    `json:"total_days"`
	Comment       string `json:"comment,omitempty"`
}

func NewLeaveReviewedEvent(applicationID, doctorID, reviewerID int64, status string, totalDays int, comment string) *LeaveReviewedEvent {
	return &LeaveReviewedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.NewString(),
			Type:      EventTypeLeaveReviewed,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"application_id": applicationID,
				"doctor_id":      doctorID,
				"reviewer_id":    reviewerID,
				"status":         status,
				"total_days":     totalDays,
			},
		},
		ApplicationID: applicationID,
		DoctorID:      doctorID,
		ReviewerID:    reviewerID,
		Status:        status,
		TotalDays:     totalDays,
		Comment:       comment,
	}
}

type BalanceAllocatedEvent struct {
	BaseEvent
	DoctorID   int64 `json:"doctor_id"`
	CategoryID int64 `json:"category_id"`
	Year       int   `json:"year"`
	TotalDays  int   `json:"total_days"`
}

func NewBalanceAllocatedEvent(doctorID, categoryID int64, year, totalDays int) *BalanceAllocatedEvent {
	return &BalanceAllocatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.NewString(),
			Type:      EventTypeBalanceAllocated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"doctor_id":   doctorID,
				"category_id": categoryID,
				"year":        year,
				"total_days":  totalDays,
			},
		},
		DoctorID:   doctorID,
		CategoryID: categoryID,
		Year:       year,
		TotalDays:  totalDays,
	}
}

// PendingLeaveStaleEvent is raised by the reminder worker for applications
// nobody has reviewed in time.
type PendingLeaveStaleEvent struct {
	BaseEvent
	ApplicationID int64     `json:"application_id"`
	DoctorID      int64     `json:"doctor_id"`
	AppliedAt     time.Time `json:"applied_at"`
}

func NewPendingLeaveStaleEvent(applicationID, doctorID int64, appliedAt time.Time) *PendingLeaveStaleEvent {
	return &PendingLeaveStaleEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.NewString(),
			Type:      EventTypePendingLeaveStale,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"application_id": applicationID,
				"doctor_id":      doctorID,
				"applied_at":     appliedAt,
			},
		},
		ApplicationID: applicationID,
		DoctorID:      doctorID,
		AppliedAt:     appliedAt,
	}
}

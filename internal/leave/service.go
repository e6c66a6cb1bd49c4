package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	errors "github.com/ajit432/hospital-leave/internal"
	"github.com/ajit432/hospital-leave/internal/balance"
	"github.com/ajit432/hospital-leave/internal/category"
	"github.com/ajit432/hospital-leave/internal/core/common/query"
	"github.com/ajit432/hospital-leave/internal/core/common/validation"
	"github.com/ajit432/hospital-leave/internal/core/common/workday"
	"github.com/ajit432/hospital-leave/internal/core/database"
	leaveDatamodel "github.com/ajit432/hospital-leave/internal/core/datamodel/leave"
	"github.com/ajit432/hospital-leave/internal/core/events"
)

type RepositoryAPI interface {
	Create(ctx context.Context, application *leaveDatamodel.LeaveApplication) error
	GetByID(ctx context.Context, id int64) (*leaveDatamodel.LeaveApplication, error)
	// HasOverlap looks for a pending or approved application of the doctor
	// sharing at least one calendar day with [start, end].
	HasOverlap(ctx context.Context, doctorID int64, start, end time.Time) (bool, error)
	List(ctx context.Context, filter ListFilter) ([]*leaveDatamodel.LeaveApplicationView, int64, error)
	// MarkReviewed only touches a row that is still pending and returns the
	// number of rows changed.
	MarkReviewed(ctx context.Context, id int64, status Status, reviewerID int64, comment *string, at time.Time) (int64, error)
	ListPendingBefore(ctx context.Context, before time.Time) ([]*leaveDatamodel.LeaveApplication, error)
}

type CategoryReader interface {
	GetByID(ctx context.Context, id int64) (*category.Category, error)
}

// Ledger is the slice of the balance service the workflows need.
type Ledger interface {
	Find(ctx context.Context, doctorID, categoryID int64, year int) (*balance.Balance, error)
	Debit(ctx context.Context, doctorID, categoryID int64, year, days, defaultTotal int) (*balance.Balance, error)
}

type Service struct {
	repo       RepositoryAPI
	categories CategoryReader
	ledger     Ledger
	tx         database.Transactor
	publisher  events.Publisher
	clock      workday.Clock
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, categories CategoryReader, ledger Ledger, tx database.Transactor, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		categories: categories,
		ledger:     ledger,
		tx:         tx,
		publisher:  publisher,
		clock:      workday.SystemClock(nil),
		logger:     logger,
	}
}

func (s *Service) WithClock(c workday.Clock) *Service {
	s.clock = c
	return s
}

// ApplyLeave records a pending application after checking, in order: the
// date range, the working-day count, the category, overlaps and the
// doctor's remaining balance. The first failing check wins.
func (s *Service) ApplyLeave(ctx context.Context, doctorID int64, dto ApplyLeaveDTO) (*ApplyLeaveResponse, error) {
	dto.Normalize()
	if appErr := validation.Struct(dto); appErr != nil {
		return nil, appErr
	}

	start, err := workday.ParseDate(dto.StartDate)
	if err != nil {
		return nil, errors.NewValidationFieldError("start_date", err.Error(), errors.ErrCodeInvalidDate)
	}
	end, err := workday.ParseDate(dto.EndDate)
	if err != nil {
		return nil, errors.NewValidationFieldError("end_date", err.Error(), errors.ErrCodeInvalidDate)
	}

	if start.Before(s.clock.Today()) {
		return nil, errors.NewValidationError("Leave start date cannot be in the past", errors.ErrCodeDateInPast)
	}
	if end.Before(start) {
		return nil, errors.NewValidationError("Leave end date cannot be before start date", errors.ErrCodeEndBeforeStart)
	}

	days := workday.Count(start, end)
	if days == 0 {
		return nil, errors.NewValidationError("Leave must include at least one working day", errors.ErrCodeNoWorkingDays)
	}

	var row *leaveDatamodel.LeaveApplication
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		cat, err := s.categories.GetByID(ctx, dto.CategoryID)
		if err != nil {
			if errors.HasCode(err, errors.ErrCodeCategoryNotFound) {
				return errors.NewValidationError("Invalid leave category", errors.ErrCodeInvalidCategory)
			}
			return err
		}
		if !cat.IsActiveCategory() {
			return errors.NewValidationError("Leave category is not currently available", errors.ErrCodeCategoryInactive)
		}
		if !cat.Allows(days) {
			return errors.NewValidationError(
				fmt.Sprintf("Leave days exceed maximum allowed (%d) for this category", cat.MaxDays),
				errors.ErrCodeExceedsMaxDays,
			)
		}

		overlap, err := s.repo.HasOverlap(ctx, doctorID, start, end)
		if err != nil {
			return errors.NewInternalError("Failed to check overlapping leave", err)
		}
		if overlap {
			return errors.NewConflictError("You have overlapping leave applications for the selected dates", errors.ErrCodeOverlappingLeave)
		}

		// no allocation row means the category cap is the only limit
		bal, err := s.ledger.Find(ctx, doctorID, cat.ID, s.clock.Year())
		if err != nil {
			return err
		}
		if bal != nil && !bal.Covers(days) {
			return errors.NewConflictError(
				fmt.Sprintf("Insufficient leave balance. You have %d days remaining out of %d allocated days for this category.",
					bal.RemainingDays, bal.TotalDays),
				errors.ErrCodeInsufficientLeave,
			)
		}

		row = NewApplication(doctorID, cat.ID, start, end, days, dto.Reason, s.clock.Instant())
		if err := s.repo.Create(ctx, row); err != nil {
			return errors.NewInternalError("Failed to submit leave application", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Info("leave application refused", "doctor_id", doctorID, "category_id", dto.CategoryID, "reason", err.Error())
		return nil, err
	}

	s.logger.Info("leave application submitted",
		"application_id", row.ID,
		"doctor_id", doctorID,
		"category_id", row.CategoryID,
		"total_days", days)
	s.publish(ctx, events.NewLeaveAppliedEvent(row.ID, doctorID, row.CategoryID, row.StartDate, row.EndDate, days))

	return &ApplyLeaveResponse{
		ApplicationID: row.ID,
		TotalDays:     days,
		Message:       "Leave application submitted successfully",
	}, nil
}

func (s *Service) GetMyLeaves(ctx context.Context, doctorID int64, status Status, page query.Page) (*LeavesResponse, error) {
	return s.list(ctx, ListFilter{DoctorID: doctorID, Status: status, Page: page})
}

func (s *Service) GetAllLeaves(ctx context.Context, filter ListFilter) (*LeavesResponse, error) {
	return s.list(ctx, filter)
}

func (s *Service) list(ctx context.Context, filter ListFilter) (*LeavesResponse, error) {
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list leave applications", "error", err, "doctor_id", filter.DoctorID, "status", filter.Status)
		return nil, errors.NewInternalError("Failed to fetch leave applications", err)
	}
	return &LeavesResponse{
		Leaves:     FromViewSlice(rows),
		Pagination: query.NewPagination(filter.Page, total),
	}, nil
}

// ReviewLeave moves a pending application to approved or rejected. Approval
// debits the balance in the same transaction; a concurrent second review
// finds no pending row and fails without touching the ledger.
func (s *Service) ReviewLeave(ctx context.Context, applicationID, reviewerID int64, dto ReviewLeaveDTO) (*ReviewResponse, error) {
	decision, ok := ParseDecision(dto.Status)
	if !ok {
		return nil, errors.NewValidationError("Status must be either approved or rejected", errors.ErrCodeInvalidLeaveStatus)
	}
	if appErr := validation.Struct(dto); appErr != nil {
		return nil, appErr
	}

	var comment *string
	if dto.AdminComment != "" {
		comment = &dto.AdminComment
	}
	now := s.clock.Instant()

	var app *Application
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		row, err := s.repo.GetByID(ctx, applicationID)
		if err != nil {
			return errors.NewInternalError("Failed to fetch leave application", err)
		}
		if row == nil {
			return errors.NewNotFoundError("Leave application not found", errors.ErrCodeLeaveNotFound)
		}
		app = FromDataModel(row)
		if !app.IsPending() {
			return alreadyReviewed()
		}

		affected, err := s.repo.MarkReviewed(ctx, applicationID, decision, reviewerID, comment, now)
		if err != nil {
			return errors.NewInternalError("Failed to review leave application", err)
		}
		if affected == 0 {
			return alreadyReviewed()
		}

		if decision == StatusApproved {
			cat, err := s.categories.GetByID(ctx, app.CategoryID)
			if err != nil {
				return err
			}
			if _, err := s.ledger.Debit(ctx, app.DoctorID, app.CategoryID, s.clock.Year(), app.TotalDays, cat.MaxDays); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	app.Status = decision
	app.AdminComment = comment
	app.ReviewedAt = &now
	app.ReviewedBy = &reviewerID

	s.logger.Info("leave application reviewed",
		"application_id", applicationID,
		"reviewer_id", reviewerID,
		"status", decision,
		"total_days", app.TotalDays)
	s.publish(ctx, events.NewLeaveReviewedEvent(applicationID, app.DoctorID, reviewerID, decision.String(), app.TotalDays, dto.AdminComment))

	return &ReviewResponse{
		Application: app,
		Message:     fmt.Sprintf("Leave application %s successfully", decision),
	}, nil
}

// RemindStalePending publishes a reminder for every application that has
// waited longer than olderThan and returns how many were found.
func (s *Service) RemindStalePending(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := s.clock.Instant().Add(-olderThan)
	rows, err := s.repo.ListPendingBefore(ctx, cutoff)
	if err != nil {
		return 0, errors.NewInternalError("Failed to fetch pending leave applications", err)
	}
	for _, row := range rows {
		s.publish(ctx, events.NewPendingLeaveStaleEvent(row.ID, row.DoctorID, row.AppliedAt))
	}
	s.logger.Info("stale pending applications checked", "count", len(rows), "cutoff", cutoff)
	return len(rows), nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}

func alreadyReviewed() *errors.AppError {
	return errors.NewConflictError("Leave application has already been reviewed", errors.ErrCodeAlreadyReviewed)
}

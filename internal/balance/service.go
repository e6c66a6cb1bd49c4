package balance

import (
	"context"
	"fmt"
	"log/slog"

	errors "github.com/ajit432/hospital-leave/internal"
	"github.com/ajit432/hospital-leave/internal/core/common/validation"
	"github.com/ajit432/hospital-leave/internal/core/common/workday"
	"github.com/ajit432/hospital-leave/internal/core/database"
	balanceDatamodel "github.com/ajit432/hospital-leave/internal/core/datamodel/balance"
	userDatamodel "github.com/ajit432/hospital-leave/internal/core/datamodel/user"
	"github.com/ajit432/hospital-leave/internal/core/events"
)

type RepositoryAPI interface {
	ListForDoctor(ctx context.Context, doctorID int64, year int) ([]*balanceDatamodel.BalanceWithCategory, error)
	Get(ctx context.Context, doctorID, categoryID int64, year int) (*balanceDatamodel.DoctorLeaveBalance, error)
	// GetForUpdate locks the row for the rest of the transaction in ctx.
	GetForUpdate(ctx context.Context, doctorID, categoryID int64, year int) (*balanceDatamodel.DoctorLeaveBalance, error)
	Create(ctx context.Context, b *balanceDatamodel.DoctorLeaveBalance) error
	SetTotal(ctx context.Context, id int64, total int) error
	AddUsage(ctx context.Context, id int64, days int) error
	// FindDoctor returns nil unless id belongs to a user with the doctor role.
	FindDoctor(ctx context.Context, id int64) (*userDatamodel.User, error)
	CategoryExists(ctx context.Context, id int64) (bool, error)
}

type Service struct {
	repo      RepositoryAPI
	tx        database.Transactor
	publisher events.Publisher
	clock     workday.Clock
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, tx database.Transactor, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		tx:        tx,
		publisher: publisher,
		clock:     workday.SystemClock(nil),
		logger:    logger,
	}
}

// WithClock replaces the clock used to resolve the current year.
func (s *Service) WithClock(c workday.Clock) *Service {
	s.clock = c
	return s
}

func (s *Service) resolveYear(year int) int {
	if year <= 0 {
		return s.clock.Year()
	}
	return year
}

func (s *Service) GetLeaveBalance(ctx context.Context, doctorID int64, year int) (*BalanceResponse, error) {
	year = s.resolveYear(year)
	rows, err := s.repo.ListForDoctor(ctx, doctorID, year)
	if err != nil {
		s.logger.Error("failed to list leave balance", "error", err, "doctor_id", doctorID, "year", year)
		return nil, errors.NewInternalError("Failed to fetch leave balance", err)
	}
	return &BalanceResponse{Balance: FromJoinedSlice(rows), Year: year}, nil
}

// GetDoctorLeaveBalance returns only the allocations that exist; categories
// without a row are not padded in.
func (s *Service) GetDoctorLeaveBalance(ctx context.Context, doctorID int64, year int) (*BalanceResponse, error) {
	doctor, err := s.repo.FindDoctor(ctx, doctorID)
	if err != nil {
		return nil, errors.NewInternalError("Failed to fetch doctor", err)
	}
	if doctor == nil {
		return nil, doctorNotFound()
	}

	resp, err := s.GetLeaveBalance(ctx, doctorID, year)
	if err != nil {
		return nil, err
	}
	resp.Doctor = &DoctorInfo{
		ID:         doctor.ID,
		Name:       doctor.Name,
		Email:      doctor.Email,
		Department: doctor.Department,
	}
	if doctor.EmployeeID != nil {
		resp.Doctor.EmployeeID = *doctor.EmployeeID
	}
	return resp, nil
}

func (s *Service) SetDoctorLeaveAllocation(ctx context.Context, doctorID int64, dto SetAllocationDTO) (*Balance, error) {
	if appErr := validation.Struct(dto); appErr != nil {
		return nil, appErr
	}
	year := s.resolveYear(dto.Year)
	total := *dto.TotalDays

	var result *Balance
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		doctor, err := s.repo.FindDoctor(ctx, doctorID)
		if err != nil {
			return errors.NewInternalError("Failed to fetch doctor", err)
		}
		if doctor == nil {
			return doctorNotFound()
		}

		ok, err := s.repo.CategoryExists(ctx, dto.CategoryID)
		if err != nil {
			return errors.NewInternalError("Failed to fetch leave category", err)
		}
		if !ok {
			return errors.NewNotFoundError("Leave category not found", errors.ErrCodeCategoryNotFound)
		}

		existing, err := s.repo.GetForUpdate(ctx, doctorID, dto.CategoryID, year)
		if err != nil {
			return errors.NewInternalError("Failed to fetch leave balance", err)
		}

		if existing == nil {
			row := NewAllocation(doctorID, dto.CategoryID, year, total)
			if err := s.repo.Create(ctx, row); err != nil {
				if database.IsUniqueViolation(err) {
					return contention()
				}
				return errors.NewInternalError("Failed to update leave allocation", err)
			}
			result = FromDataModel(row)
			return nil
		}

		if total < existing.UsedDays {
			return errors.NewConflictError(
				fmt.Sprintf("Cannot set total days less than already used days (%d)", existing.UsedDays),
				errors.ErrCodeAllocationBelowUsed,
			)
		}
		if err := s.repo.SetTotal(ctx, existing.ID, total); err != nil {
			return errors.NewInternalError("Failed to update leave allocation", err)
		}
		existing.TotalDays = total
		existing.RemainingDays = total - existing.UsedDays
		result = FromDataModel(existing)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("leave allocation updated",
		"doctor_id", doctorID, "category_id", dto.CategoryID, "year", year, "total_days", total)
	s.publish(ctx, events.NewBalanceAllocatedEvent(doctorID, dto.CategoryID, year, total))
	return result, nil
}

// Find returns the ledger row or nil when the doctor has no allocation.
func (s *Service) Find(ctx context.Context, doctorID, categoryID int64, year int) (*Balance, error) {
	row, err := s.repo.Get(ctx, doctorID, categoryID, year)
	if err != nil {
		return nil, errors.NewInternalError("Failed to fetch leave balance", err)
	}
	if row == nil {
		return nil, nil
	}
	return FromDataModel(row), nil
}

// Debit charges days against the ledger, creating the row with defaultTotal
// when the doctor was never allocated this category. It joins the caller's
// transaction when ctx carries one.
func (s *Service) Debit(ctx context.Context, doctorID, categoryID int64, year, days, defaultTotal int) (*Balance, error) {
	var result *Balance
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.GetForUpdate(ctx, doctorID, categoryID, year)
		if err != nil {
			return errors.NewInternalError("Failed to fetch leave balance", err)
		}

		if existing == nil {
			row := NewDebitedAllocation(doctorID, categoryID, year, defaultTotal, days)
			if err := s.repo.Create(ctx, row); err != nil {
				if database.IsUniqueViolation(err) {
					return contention()
				}
				return errors.NewInternalError("Failed to update leave balance", err)
			}
			result = FromDataModel(row)
			return nil
		}

		b := FromDataModel(existing)
		if !b.Covers(days) {
			return errors.NewConflictError(
				fmt.Sprintf("Insufficient leave balance to approve: %d days remaining out of %d allocated days for this category.",
					b.RemainingDays, b.TotalDays),
				errors.ErrCodeInsufficientLeave,
			)
		}
		if err := s.repo.AddUsage(ctx, existing.ID, days); err != nil {
			return errors.NewInternalError("Failed to update leave balance", err)
		}
		b.UsedDays += days
		b.RemainingDays -= days
		result = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}

func doctorNotFound() *errors.AppError {
	return errors.NewNotFoundError("Doctor not found", errors.ErrCodeDoctorNotFound)
}

func contention() *errors.AppError {
	return errors.NewConflictError("Leave balance was updated concurrently, please retry", errors.ErrCodeBalanceContention)
}

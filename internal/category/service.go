package category

import (
	"context"
	"fmt"
	"log/slog"

	errors "github.com/ajit432/hospital-leave/internal"
	"github.com/ajit432/hospital-leave/internal/core/common/query"
	"github.com/ajit432/hospital-leave/internal/core/common/validation"
	"github.com/ajit432/hospital-leave/internal/core/database"
	categoryDatamodel "github.com/ajit432/hospital-leave/internal/core/datamodel/category"
)

type RepositoryAPI interface {
	List(ctx context.Context, active *bool) ([]*categoryDatamodel.LeaveCategory, error)
	GetByID(ctx context.Context, id int64) (*categoryDatamodel.LeaveCategory, error)
	// GetByName matches case-insensitively and returns nil when absent.
	GetByName(ctx context.Context, name string) (*categoryDatamodel.LeaveCategory, error)
	Create(ctx context.Context, category *categoryDatamodel.LeaveCategory) error
	Update(ctx context.Context, category *categoryDatamodel.LeaveCategory) error
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
	CountApplications(ctx context.Context, id int64) (int64, error)
	CountBalances(ctx context.Context, id int64) (int64, error)
}

type Service struct {
	repo   RepositoryAPI
	tx     database.Transactor
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, tx database.Transactor, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		tx:     tx,
		logger: logger,
	}
}

func (s *Service) GetCategories(ctx context.Context, filter query.StatusFilter) ([]*Category, error) {
	rows, err := s.repo.List(ctx, filter.IsActive())
	if err != nil {
		s.logger.Error("failed to list leave categories", "error", err, "filter", filter)
		return nil, errors.NewInternalError("Failed to fetch leave categories", err)
	}

	s.logger.Debug("retrieved leave categories", "count", len(rows), "filter", filter)
	return FromDataModelSlice(rows), nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Category, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("Failed to fetch leave category", err)
	}
	if row == nil {
		return nil, notFound()
	}
	return FromDataModel(row), nil
}

func (s *Service) Create(ctx context.Context, dto CategoryDTO) (*Category, error) {
	dto.Normalize()
	if appErr := validation.Struct(dto); appErr != nil {
		return nil, appErr
	}

	var created *Category
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.ensureNameFree(ctx, dto.Name, 0); err != nil {
			return err
		}

		row := ToDataModel(NewCategory(dto.Name, dto.MaxDays, dto.Description))
		if err := s.repo.Create(ctx, row); err != nil {
			if database.IsUniqueViolation(err) {
				return nameTaken()
			}
			return errors.NewInternalError("Failed to create leave category", err)
		}
		created = FromDataModel(row)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("leave category created", "category_id", created.ID, "name", created.Name, "max_days", created.MaxDays)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int64, dto CategoryDTO) (*Category, error) {
	dto.Normalize()
	if appErr := validation.Struct(dto); appErr != nil {
		return nil, appErr
	}

	var updated *Category
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		row, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return errors.NewInternalError("Failed to fetch leave category", err)
		}
		if row == nil {
			return notFound()
		}

		if err := s.ensureNameFree(ctx, dto.Name, id); err != nil {
			return err
		}

		row.Name = dto.Name
		row.MaxDays = dto.MaxDays
		row.Description = dto.Description
		if err := s.repo.Update(ctx, row); err != nil {
			if database.IsUniqueViolation(err) {
				return nameTaken()
			}
			return errors.NewInternalError("Failed to update leave category", err)
		}
		updated = FromDataModel(row)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("leave category updated", "category_id", id, "name", updated.Name, "max_days", updated.MaxDays)
	return updated, nil
}

// Delete removes a category only while nothing references it. Categories
// with history must be deactivated instead.
func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		row, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return errors.NewInternalError("Failed to fetch leave category", err)
		}
		if row == nil {
			return notFound()
		}

		applications, err := s.repo.CountApplications(ctx, id)
		if err != nil {
			return errors.NewInternalError("Failed to check category usage", err)
		}
		if applications > 0 {
			return errors.NewConflictError("Cannot delete category that has been used in leave applications", errors.ErrCodeCategoryInUse)
		}

		balances, err := s.repo.CountBalances(ctx, id)
		if err != nil {
			return errors.NewInternalError("Failed to check category usage", err)
		}
		if balances > 0 {
			return errors.NewConflictError("Cannot delete category that has allocated leave balance", errors.ErrCodeCategoryInUse)
		}

		if err := s.repo.Delete(ctx, id); err != nil {
			return errors.NewInternalError("Failed to delete leave category", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("leave category deleted", "category_id", id)
	return nil
}

func (s *Service) Activate(ctx context.Context, id int64) (*Category, error) {
	return s.setActive(ctx, id, true)
}

func (s *Service) Deactivate(ctx context.Context, id int64) (*Category, error) {
	return s.setActive(ctx, id, false)
}

func (s *Service) setActive(ctx context.Context, id int64, active bool) (*Category, error) {
	var result *Category
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		row, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return errors.NewInternalError("Failed to fetch leave category", err)
		}
		if row == nil {
			return notFound()
		}

		if row.IsActive == active {
			state := "inactive"
			if active {
				state = "active"
			}
			return errors.NewConflictError(fmt.Sprintf("Leave category is already %s", state), errors.ErrCodeCategoryStateChange)
		}

		if err := s.repo.SetActive(ctx, id, active); err != nil {
			return errors.NewInternalError("Failed to update leave category status", err)
		}
		row.IsActive = active
		result = FromDataModel(row)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("leave category status changed", "category_id", id, "is_active", active)
	return result, nil
}

func (s *Service) ensureNameFree(ctx context.Context, name string, selfID int64) error {
	existing, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return errors.NewInternalError("Failed to check category name", err)
	}
	if existing != nil && existing.ID != selfID {
		return nameTaken()
	}
	return nil
}

func notFound() *errors.AppError {
	return errors.NewNotFoundError("Leave category not found", errors.ErrCodeCategoryNotFound)
}

func nameTaken() *errors.AppError {
	return errors.NewConflictError("Leave category with this name already exists", errors.ErrCodeCategoryNameTaken)
}

package user

import (
	"context"
	"fmt"
	"log/slog"

	errors "github.com/ajit432/hospital-leave/internal"
	"github.com/ajit432/hospital-leave/internal/core/common/query"
	"github.com/ajit432/hospital-leave/internal/core/common/validation"
	"github.com/ajit432/hospital-leave/internal/core/database"
	userDatamodel "github.com/ajit432/hospital-leave/internal/core/datamodel/user"
	coreUser "github.com/ajit432/hospital-leave/internal/core/user"
	"golang.org/x/crypto/bcrypt"
)

type RepositoryAPI interface {
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (*userDatamodel.User, error)
	Create(ctx context.Context, u *userDatamodel.User) error
	UpdateProfile(ctx context.Context, id int64, changes map[string]interface{}) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
	ListByRole(ctx context.Context, role coreUser.Role, active *bool) ([]*userDatamodel.User, error)
	SetActive(ctx context.Context, id int64, active bool) error
}

type Service struct {
	repo       RepositoryAPI
	tx         database.Transactor
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, tx database.Transactor, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		tx:         tx,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *Service) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError("Failed to fetch profile", err)
	}
	if u == nil {
		return nil, errors.NewNotFoundError("User not found", errors.ErrCodeUserNotFound)
	}
	return FromDataModel(u), nil
}

// UpdateProfile changes only the fields present in the request.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, dto UpdateProfileDTO) (*Profile, error) {
	dto.Normalize()
	if appErr := validation.Struct(dto); appErr != nil {
		return nil, appErr
	}
	// omitempty lets a blank name through the struct tags
	if dto.Name != nil {
		v := validation.NewValidator()
		v.Field("name", *dto.Name).Required().MinLength(2)
		if appErr := v.Validate(); appErr != nil {
			return nil, appErr
		}
	}

	var updated *Profile
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		u, err := s.repo.GetByID(ctx, userID)
		if err != nil {
			return errors.NewInternalError("Failed to fetch profile", err)
		}
		if u == nil {
			return errors.NewNotFoundError("User not found", errors.ErrCodeUserNotFound)
		}

		if !dto.Empty() {
			changes := map[string]interface{}{}
			if dto.Name != nil {
				changes["name"] = *dto.Name
				u.Name = *dto.Name
			}
			if dto.Department != nil {
				changes["department"] = *dto.Department
				u.Department = *dto.Department
			}
			if dto.Phone != nil {
				changes["phone"] = *dto.Phone
				u.Phone = *dto.Phone
			}
			if err := s.repo.UpdateProfile(ctx, userID, changes); err != nil {
				return errors.NewInternalError("Failed to update profile", err)
			}
		}
		updated = FromDataModel(u)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("profile updated", "user_id", userID)
	return updated, nil
}

func (s *Service) ChangePassword(ctx context.Context, userID int64, dto ChangePasswordDTO) error {
	if appErr := validation.Struct(dto); appErr != nil {
		return appErr
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return errors.NewInternalError("Failed to change password", err)
	}
	if u == nil {
		return errors.NewNotFoundError("User not found", errors.ErrCodeUserNotFound)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.CurrentPassword)); err != nil {
		return errors.NewValidationError("Current password is incorrect", errors.ErrCodeWrongPassword)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.NewPassword), s.bcryptCost)
	if err != nil {
		return errors.NewInternalError("Failed to change password", err)
	}
	if err := s.repo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return errors.NewInternalError("Failed to change password", err)
	}

	s.logger.Info("password changed", "user_id", userID)
	return nil
}

func (s *Service) ListDoctors(ctx context.Context, filter query.StatusFilter) ([]*Profile, error) {
	rows, err := s.repo.ListByRole(ctx, coreUser.RoleDoctor, filter.IsActive())
	if err != nil {
		s.logger.Error("failed to list doctors", "error", err, "filter", filter)
		return nil, errors.NewInternalError("Failed to fetch doctors", err)
	}
	return FromDataModelSlice(rows), nil
}

func (s *Service) RegisterDoctor(ctx context.Context, dto RegisterDoctorDTO) (*Profile, error) {
	dto.Normalize()
	if appErr := validation.Struct(dto); appErr != nil {
		return nil, appErr
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, errors.NewInternalError("Doctor registration failed", err)
	}

	var created *Profile
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.GetByEmail(ctx, dto.Email)
		if err != nil {
			return errors.NewInternalError("Doctor registration failed", err)
		}
		if existing != nil {
			return errors.NewConflictError("A user with this email already exists", errors.ErrCodeEmailTaken)
		}

		existing, err = s.repo.GetByEmployeeID(ctx, dto.EmployeeID)
		if err != nil {
			return errors.NewInternalError("Doctor registration failed", err)
		}
		if existing != nil {
			return errors.NewConflictError("A user with this employee ID already exists", errors.ErrCodeEmployeeIDTaken)
		}

		employeeID := dto.EmployeeID
		row := &userDatamodel.User{
			Name:         dto.Name,
			Email:        dto.Email,
			PasswordHash: string(hash),
			Role:         coreUser.RoleDoctor.String(),
			Department:   dto.Department,
			Phone:        dto.Phone,
			EmployeeID:   &employeeID,
			IsActive:     true,
		}
		if err := s.repo.Create(ctx, row); err != nil {
			if database.IsUniqueViolation(err) {
				return errors.NewConflictError("Doctor with this email or employee ID already exists", errors.ErrCodeEmailTaken)
			}
			return errors.NewInternalError("Doctor registration failed", err)
		}
		created = FromDataModel(row)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("doctor registered", "doctor_id", created.ID, "employee_id", dto.EmployeeID)
	return created, nil
}

func (s *Service) ActivateDoctor(ctx context.Context, doctorID int64) (*Profile, error) {
	return s.setDoctorActive(ctx, doctorID, true)
}

func (s *Service) DeactivateDoctor(ctx context.Context, doctorID int64) (*Profile, error) {
	return s.setDoctorActive(ctx, doctorID, false)
}

func (s *Service) setDoctorActive(ctx context.Context, doctorID int64, active bool) (*Profile, error) {
	var result *Profile
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		u, err := s.repo.GetByID(ctx, doctorID)
		if err != nil {
			return errors.NewInternalError("Failed to fetch doctor", err)
		}
		if u == nil || u.Role != coreUser.RoleDoctor.String() {
			return errors.NewNotFoundError("Doctor not found", errors.ErrCodeDoctorNotFound)
		}

		if u.IsActive == active {
			state := "inactive"
			if active {
				state = "active"
			}
			return errors.NewConflictError(fmt.Sprintf("Doctor is already %s", state), errors.ErrCodeUserStateChange)
		}

		if err := s.repo.SetActive(ctx, doctorID, active); err != nil {
			return errors.NewInternalError("Failed to update doctor status", err)
		}
		u.IsActive = active
		result = FromDataModel(u)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("doctor status changed", "doctor_id", doctorID, "is_active", active)
	return result, nil
}

package postgres

import (
	"context"
	"errors"

	"github.com/ajit432/hospital-leave/internal/core/database"
	userDatamodel "github.com/ajit432/hospital-leave/internal/core/datamodel/user"
	coreUser "github.com/ajit432/hospital-leave/internal/core/user"
	"github.com/ajit432/hospital-leave/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	return first(&u, database.Conn(ctx, r.db).First(&u, id).Error)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	return first(&u, database.Conn(ctx, r.db).Where("LOWER(email) = LOWER(?)", email).First(&u).Error)
}

func (r *UserRepository) GetByEmployeeID(ctx context.Context, employeeID string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	return first(&u, database.Conn(ctx, r.db).Where("employee_id = ?", employeeID).First(&u).Error)
}

func (r *UserRepository) Create(ctx context.Context, u *userDatamodel.User) error {
	return database.Conn(ctx, r.db).Create(u).Error
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, changes map[string]interface{}) error {
	return database.Conn(ctx, r.db).Model(&userDatamodel.User{}).Where("id = ?", id).Updates(changes).Error
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	return database.Conn(ctx, r.db).Model(&userDatamodel.User{}).Where("id = ?", id).Update("password_hash", hash).Error
}

func (r *UserRepository) ListByRole(ctx context.Context, role coreUser.Role, active *bool) ([]*userDatamodel.User, error) {
	var rows []*userDatamodel.User
	q := database.Conn(ctx, r.db).Where("role = ?", role.String())
	if active != nil {
		q = q.Where("is_active = ?", *active)
	}
	err := q.Order("is_active DESC").Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *UserRepository) SetActive(ctx context.Context, id int64, active bool) error {
	return database.Conn(ctx, r.db).Model(&userDatamodel.User{}).Where("id = ?", id).Update("is_active", active).Error
}

func first(u *userDatamodel.User, err error) (*userDatamodel.User, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

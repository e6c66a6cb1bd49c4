package postgres

import (
	"context"
	"errors"

	"github.com/ajit432/hospital-leave/internal/auth"
	"github.com/ajit432/hospital-leave/internal/core/database"
	userDatamodel "github.com/ajit432/hospital-leave/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) auth.RepositoryAPI {
	return &Repository{db: db}
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := database.Conn(ctx, r.db).Where("LOWER(email) = LOWER(?)", email).First(&u).Error
	return found(&u, err)
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := database.Conn(ctx, r.db).First(&u, id).Error
	return found(&u, err)
}

func found(u *userDatamodel.User, err error) (*userDatamodel.User, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/ajit432/hospital-leave/internal/category"
	"github.com/ajit432/hospital-leave/internal/core/database"
	balanceDatamodel "github.com/ajit432/hospital-leave/internal/core/datamodel/balance"
	categoryDatamodel "github.com/ajit432/hospital-leave/internal/core/datamodel/category"
	leaveDatamodel "github.com/ajit432/hospital-leave/internal/core/datamodel/leave"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) category.RepositoryAPI {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) List(ctx context.Context, active *bool) ([]*categoryDatamodel.LeaveCategory, error) {
	var categories []*categoryDatamodel.LeaveCategory
	q := database.Conn(ctx, r.db)
	if active != nil {
		q = q.Where("is_active = ?", *active)
	}
	err := q.Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*categoryDatamodel.LeaveCategory, error) {
	var cat categoryDatamodel.LeaveCategory
	err := database.Conn(ctx, r.db).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		First(&cat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*categoryDatamodel.LeaveCategory, error) {
	var cat categoryDatamodel.LeaveCategory
	err := database.Conn(ctx, r.db).Where("id = ?", id).First(&cat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

func (r *CategoryRepository) Create(ctx context.Context, cat *categoryDatamodel.LeaveCategory) error {
	return database.Conn(ctx, r.db).Create(cat).Error
}

func (r *CategoryRepository) Update(ctx context.Context, cat *categoryDatamodel.LeaveCategory) error {
	return database.Conn(ctx, r.db).Model(cat).
		Select("name", "max_days", "description", "updated_at").
		Updates(cat).Error
}

func (r *CategoryRepository) SetActive(ctx context.Context, id int64, active bool) error {
	return database.Conn(ctx, r.db).Model(&categoryDatamodel.LeaveCategory{}).
		Where("id = ?", id).
		Update("is_active", active).Error
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	return database.Conn(ctx, r.db).Delete(&categoryDatamodel.LeaveCategory{}, id).Error
}

func (r *CategoryRepository) CountApplications(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&leaveDatamodel.LeaveApplication{}).
		Where("category_id = ?", id).
		Count(&count).Error
	return count, err
}

func (r *CategoryRepository) CountBalances(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&balanceDatamodel.DoctorLeaveBalance{}).
		Where("category_id = ?", id).
		Count(&count).Error
	return count, err
}

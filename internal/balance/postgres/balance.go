package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/ajit432/hospital-leave/internal/balance"
	"github.com/ajit432/hospital-leave/internal/core/database"
	balanceDatamodel "github.com/ajit432/hospital-leave/internal/core/datamodel/balance"
	categoryDatamodel "github.com/ajit432/hospital-leave/internal/core/datamodel/category"
	userDatamodel "github.com/ajit432/hospital-leave/internal/core/datamodel/user"
	"github.com/ajit432/hospital-leave/internal/core/user"
	"gorm.io/gorm"
)

type BalanceRepository struct {
	db *gorm.DB
}

func NewBalanceRepository(db *gorm.DB) balance.RepositoryAPI {
	return &BalanceRepository{db: db}
}

func (r *BalanceRepository) ListForDoctor(ctx context.Context, doctorID int64, year int) ([]*balanceDatamodel.BalanceWithCategory, error) {
	var rows []*balanceDatamodel.BalanceWithCategory
	err := database.Conn(ctx, r.db).
		Table("doctor_leave_balance AS lb").
		Select("lb.*, lc.name AS category_name, lc.max_days AS category_max_days").
		Joins("JOIN leave_categories lc ON lc.id = lb.category_id").
		Where("lb.doctor_id = ? AND lb.year = ?", doctorID, year).
		Order("lc.name ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *BalanceRepository) Get(ctx context.Context, doctorID, categoryID int64, year int) (*balanceDatamodel.DoctorLeaveBalance, error) {
	return r.first(database.Conn(ctx, r.db), doctorID, categoryID, year)
}

func (r *BalanceRepository) GetForUpdate(ctx context.Context, doctorID, categoryID int64, year int) (*balanceDatamodel.DoctorLeaveBalance, error) {
	return r.first(database.ForUpdate(database.Conn(ctx, r.db)), doctorID, categoryID, year)
}

func (r *BalanceRepository) first(q *gorm.DB, doctorID, categoryID int64, year int) (*balanceDatamodel.DoctorLeaveBalance, error) {
	var b balanceDatamodel.DoctorLeaveBalance
	err := q.Where("doctor_id = ? AND category_id = ? AND year = ?", doctorID, categoryID, year).First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *BalanceRepository) Create(ctx context.Context, b *balanceDatamodel.DoctorLeaveBalance) error {
	return database.Conn(ctx, r.db).Create(b).Error
}

// SetTotal rewrites the allocation and recomputes remaining from the stored
// used_days in the same statement.
func (r *BalanceRepository) SetTotal(ctx context.Context, id int64, total int) error {
	return database.Conn(ctx, r.db).Model(&balanceDatamodel.DoctorLeaveBalance{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_days":     total,
			"remaining_days": gorm.Expr("? - used_days", total),
			"updated_at":     time.Now().UTC(),
		}).Error
}

func (r *BalanceRepository) AddUsage(ctx context.Context, id int64, days int) error {
	return database.Conn(ctx, r.db).Model(&balanceDatamodel.DoctorLeaveBalance{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"used_days":      gorm.Expr("used_days + ?", days),
			"remaining_days": gorm.Expr("remaining_days - ?", days),
			"updated_at":     time.Now().UTC(),
		}).Error
}

func (r *BalanceRepository) FindDoctor(ctx context.Context, id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := database.Conn(ctx, r.db).
		Where("id = ? AND role = ?", id, user.RoleDoctor.String()).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *BalanceRepository) CategoryExists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&categoryDatamodel.LeaveCategory{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

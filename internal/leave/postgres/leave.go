package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/ajit432/hospital-leave/internal/core/database"
	leaveDatamodel "github.com/ajit432/hospital-leave/internal/core/datamodel/leave"
	"github.com/ajit432/hospital-leave/internal/leave"
	"gorm.io/gorm"
)

var blockingStatuses = []string{leave.StatusPending.String(), leave.StatusApproved.String()}

type LeaveRepository struct {
	db *gorm.DB
}

func NewLeaveRepository(db *gorm.DB) leave.RepositoryAPI {
	return &LeaveRepository{db: db}
}

func (r *LeaveRepository) Create(ctx context.Context, application *leaveDatamodel.LeaveApplication) error {
	return database.Conn(ctx, r.db).Create(application).Error
}

func (r *LeaveRepository) GetByID(ctx context.Context, id int64) (*leaveDatamodel.LeaveApplication, error) {
	var application leaveDatamodel.LeaveApplication
	err := database.Conn(ctx, r.db).Where("id = ?", id).First(&application).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &application, nil
}

func (r *LeaveRepository) HasOverlap(ctx context.Context, doctorID int64, start, end time.Time) (bool, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&leaveDatamodel.LeaveApplication{}).
		Where("doctor_id = ?", doctorID).
		Where("status IN ?", blockingStatuses).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Count(&count).Error
	return count > 0, err
}

func (r *LeaveRepository) List(ctx context.Context, filter leave.ListFilter) ([]*leaveDatamodel.LeaveApplicationView, int64, error) {
	scope := func(q *gorm.DB) *gorm.DB {
		if filter.DoctorID > 0 {
			q = q.Where("la.doctor_id = ?", filter.DoctorID)
		}
		if filter.Status != "" {
			q = q.Where("la.status = ?", filter.Status.String())
		}
		return q
	}

	var total int64
	err := database.Conn(ctx, r.db).
		Table("leave_applications AS la").
		Scopes(scope).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var rows []*leaveDatamodel.LeaveApplicationView
	err = database.Conn(ctx, r.db).
		Table("leave_applications AS la").
		Select(`la.*,
			lc.name AS category_name,
			d.name AS doctor_name,
			d.employee_id AS employee_id,
			d.department AS department,
			rv.name AS reviewed_by_name`).
		Joins("JOIN leave_categories lc ON lc.id = la.category_id").
		Joins("JOIN users d ON d.id = la.doctor_id").
		Joins("LEFT JOIN users rv ON rv.id = la.reviewed_by").
		Scopes(scope).
		Order("la.applied_at DESC, la.id DESC").
		Limit(filter.Page.Limit).
		Offset(filter.Page.Offset()).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *LeaveRepository) MarkReviewed(ctx context.Context, id int64, status leave.Status, reviewerID int64, comment *string, at time.Time) (int64, error) {
	res := database.Conn(ctx, r.db).Model(&leaveDatamodel.LeaveApplication{}).
		Where("id = ? AND status = ?", id, leave.StatusPending.String()).
		Updates(map[string]interface{}{
			"status":        status.String(),
			"reviewed_by":   reviewerID,
			"reviewed_at":   at,
			"admin_comment": comment,
			"updated_at":    at,
		})
	return res.RowsAffected, res.Error
}

func (r *LeaveRepository) ListPendingBefore(ctx context.Context, before time.Time) ([]*leaveDatamodel.LeaveApplication, error) {
	var rows []*leaveDatamodel.LeaveApplication
	err := database.Conn(ctx, r.db).
		Where("status = ? AND applied_at < ?", leave.StatusPending.String(), before).
		Order("applied_at ASC").
		Find(&rows).Error
	return rows, err
}

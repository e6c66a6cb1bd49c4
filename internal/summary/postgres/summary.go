package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/ajit432/hospital-leave/internal/summary"
	"github.com/jmoiron/sqlx"
)

// SummaryRepository runs the reporting aggregates as plain SQL through sqlx.
type SummaryRepository struct {
	db *sqlx.DB
}

func NewSummaryRepository(db *sqlx.DB) summary.RepositoryAPI {
	return &SummaryRepository{db: db}
}

const statusCountsQuery = `
SELECT status, COUNT(*) AS count
FROM leave_applications
WHERE applied_at >= $1 AND applied_at < $2
GROUP BY status`

func (r *SummaryRepository) StatusCounts(ctx context.Context, from, to time.Time) ([]summary.StatusCount, error) {
	var rows []summary.StatusCount
	if err := r.db.SelectContext(ctx, &rows, statusCountsQuery, from, to); err != nil {
		return nil, fmt.Errorf("status counts query: %w", err)
	}
	return rows, nil
}

const categoryUsageQuery = `
SELECT
	lc.id AS category_id,
	lc.name AS category_name,
	COALESCE(SUM(lb.total_days), 0) AS total_allocated,
	COALESCE(SUM(lb.used_days), 0) AS total_used,
	COUNT(DISTINCT lb.doctor_id) AS doctors_count
FROM leave_categories lc
LEFT JOIN doctor_leave_balance lb ON lb.category_id = lc.id AND lb.year = $1
GROUP BY lc.id, lc.name
ORDER BY lc.name`

func (r *SummaryRepository) CategoryUsage(ctx context.Context, year int) ([]*summary.CategoryUsage, error) {
	var rows []*summary.CategoryUsage
	if err := r.db.SelectContext(ctx, &rows, categoryUsageQuery, year); err != nil {
		return nil, fmt.Errorf("category usage query: %w", err)
	}
	return rows, nil
}

const topRequestersQuery = `
SELECT
	u.id AS doctor_id,
	u.name AS doctor_name,
	u.employee_id,
	u.department,
	COUNT(la.id) AS applications_count,
	COALESCE(SUM(CASE WHEN la.status = 'approved' THEN la.total_days ELSE 0 END), 0) AS approved_days
FROM users u
LEFT JOIN leave_applications la
	ON la.doctor_id = u.id AND la.applied_at >= $1 AND la.applied_at < $2
WHERE u.role = 'doctor'
GROUP BY u.id, u.name, u.employee_id, u.department
HAVING COUNT(la.id) > 0
ORDER BY approved_days DESC, applications_count DESC
LIMIT $3`

func (r *SummaryRepository) TopRequesters(ctx context.Context, from, to time.Time, limit int) ([]*summary.Requester, error) {
	var rows []*summary.Requester
	if err := r.db.SelectContext(ctx, &rows, topRequestersQuery, from, to, limit); err != nil {
		return nil, fmt.Errorf("top requesters query: %w", err)
	}
	return rows, nil
}

const doctorStatsQuery = `
SELECT
	COUNT(*) AS total_applications,
	COALESCE(SUM(CASE WHEN status = 'approved' THEN 1 ELSE 0 END), 0) AS approved_count,
	COALESCE(SUM(CASE WHEN status = 'rejected' THEN 1 ELSE 0 END), 0) AS rejected_count,
	COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0) AS pending_count
FROM leave_applications
WHERE doctor_id = $1 AND applied_at >= $2 AND applied_at < $3`

func (r *SummaryRepository) DoctorStats(ctx context.Context, doctorID int64, from, to time.Time) (*summary.DoctorStats, error) {
	var stats summary.DoctorStats
	if err := r.db.GetContext(ctx, &stats, doctorStatsQuery, doctorID, from, to); err != nil {
		return nil, fmt.Errorf("doctor stats query: %w", err)
	}
	return &stats, nil
}

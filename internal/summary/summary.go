// Package summary serves the read-only reporting views: the admin leave
// summary and the per-doctor dashboard.
package summary

import (
	"github.com/ajit432/hospital-leave/internal/balance"
	"github.com/ajit432/hospital-leave/internal/leave"
	"github.com/shopspring/decimal"
)

// TopRequestersLimit caps the requester leaderboard.
const TopRequestersLimit = 10

type StatusCount struct {
	Status string `db:"status"`
	Count  int64  `db:"count"`
}

type StatusCounts struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

// NewStatusCounts folds grouped rows into fixed buckets, defaulting to 0.
func NewStatusCounts(rows []StatusCount) StatusCounts {
	var c StatusCounts
	for _, r := range rows {
		switch leave.Status(r.Status) {
		case leave.StatusPending:
			c.Pending = r.Count
		case leave.StatusApproved:
			c.Approved = r.Count
		case leave.StatusRejected:
			c.Rejected = r.Count
		}
	}
	return c
}

type CategoryUsage struct {
	CategoryID         int64           `db:"category_id" json:"category_id"`
	CategoryName       string          `db:"category_name" json:"category_name"`
	TotalAllocated     int64           `db:"total_allocated" json:"total_allocated"`
	TotalUsed          int64           `db:"total_used" json:"total_used"`
	DoctorsCount       int64           `db:"doctors_count" json:"doctors_count"`
	UtilizationPercent decimal.Decimal `db:"-" json:"utilization_percent"`
}

// Utilization is used/allocated as a percentage rounded to two places.
func Utilization(used, allocated int64) decimal.Decimal {
	if allocated <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(used).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(allocated)).
		Round(2)
}

type Requester struct {
	DoctorID          int64   `db:"doctor_id" json:"doctor_id"`
	DoctorName        string  `db:"doctor_name" json:"doctor_name"`
	EmployeeID        *string `db:"employee_id" json:"employee_id,omitempty"`
	Department        *string `db:"department" json:"department,omitempty"`
	ApplicationsCount int64   `db:"applications_count" json:"applications_count"`
	ApprovedDays      int64   `db:"approved_days" json:"approved_days"`
}

type LeaveSummary struct {
	Year                int              `json:"year"`
	ApplicationsSummary StatusCounts     `json:"applications_summary"`
	CategoryUsage       []*CategoryUsage `json:"category_usage"`
	TopRequesters       []*Requester     `json:"top_requesters"`
}

type DoctorStats struct {
	TotalApplications int64 `db:"total_applications" json:"total_applications"`
	ApprovedCount     int64 `db:"approved_count" json:"approved_count"`
	RejectedCount     int64 `db:"rejected_count" json:"rejected_count"`
	PendingCount      int64 `db:"pending_count" json:"pending_count"`
}

type Dashboard struct {
	Year          int                  `json:"year"`
	LeaveBalance  []*balance.Balance   `json:"leave_balance"`
	PendingLeaves []*leave.Application `json:"pending_leaves"`
	RecentLeaves  []*leave.Application `json:"recent_leaves"`
	Statistics    *DoctorStats         `json:"statistics"`
}

package leave

import (
	"fmt"
	"strings"
	"time"

	"github.com/ajit432/hospital-leave/internal/core/common/workday"
	leaveDatamodel "github.com/ajit432/hospital-leave/internal/core/datamodel/leave"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// ParseStatus reads a list filter. Empty means no filter.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if s == "" || s.Valid() {
		return s, nil
	}
	return "", fmt.Errorf("invalid status %q, use pending, approved or rejected", raw)
}

// ParseDecision accepts only the two outcomes a review can produce.
func ParseDecision(raw string) (Status, bool) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	return s, s == StatusApproved || s == StatusRejected
}

type Application struct {
	ID             int64        `json:"id"`
	DoctorID       int64        `json:"doctor_id"`
	DoctorName     string       `json:"doctor_name,omitempty"`
	EmployeeID     *string      `json:"employee_id,omitempty"`
	Department     string       `json:"department,omitempty"`
	CategoryID     int64        `json:"category_id"`
	CategoryName   string       `json:"category_name,omitempty"`
	StartDate      workday.Date `json:"start_date"`
	EndDate        workday.Date `json:"end_date"`
	TotalDays      int          `json:"total_days"`
	Reason         string       `json:"reason"`
	Status         Status       `json:"status"`
	AdminComment   *string      `json:"admin_comment,omitempty"`
	AppliedAt      time.Time    `json:"applied_at"`
	ReviewedAt     *time.Time   `json:"reviewed_at,omitempty"`
	ReviewedBy     *int64       `json:"reviewed_by,omitempty"`
	ReviewedByName *string      `json:"reviewed_by_name,omitempty"`
}

func (a *Application) IsPending() bool {
	return a.Status == StatusPending
}

func NewApplication(doctorID, categoryID int64, start, end time.Time, totalDays int, reason string, appliedAt time.Time) *leaveDatamodel.LeaveApplication {
	return &leaveDatamodel.LeaveApplication{
		DoctorID:   doctorID,
		CategoryID: categoryID,
		StartDate:  workday.DateOf(start),
		EndDate:    workday.DateOf(end),
		TotalDays:  totalDays,
		Reason:     reason,
		Status:     StatusPending.String(),
		AppliedAt:  appliedAt,
	}
}

func FromDataModel(a *leaveDatamodel.LeaveApplication) *Application {
	return &Application{
		ID:           a.ID,
		DoctorID:     a.DoctorID,
		CategoryID:   a.CategoryID,
		StartDate:    workday.NewDate(a.StartDate),
		EndDate:      workday.NewDate(a.EndDate),
		TotalDays:    a.TotalDays,
		Reason:       a.Reason,
		Status:       Status(a.Status),
		AdminComment: a.AdminComment,
		AppliedAt:    a.AppliedAt,
		ReviewedAt:   a.ReviewedAt,
		ReviewedBy:   a.ReviewedBy,
	}
}

func FromViewSlice(rows []*leaveDatamodel.LeaveApplicationView) []*Application {
	result := make([]*Application, len(rows))
	for i, r := range rows {
		a := FromDataModel(&r.LeaveApplication)
		a.CategoryName = r.CategoryName
		a.DoctorName = r.DoctorName
		a.EmployeeID = r.EmployeeID
		a.Department = r.Department
		a.ReviewedByName = r.ReviewedByName
		result[i] = a
	}
	return result
}

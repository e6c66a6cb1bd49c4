package leave

import (
	"strings"

	"github.com/ajit432/hospital-leave/internal/core/common/query"
)

type ApplyLeaveDTO struct {
	CategoryID int64  `json:"category_id" validate:"required,gt=0"`
	StartDate  string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate    string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Reason     string `json:"reason" validate:"required,min=10,max=500"`
}

func (d *ApplyLeaveDTO) Normalize() {
	d.StartDate = strings.TrimSpace(d.StartDate)
	d.EndDate = strings.TrimSpace(d.EndDate)
	d.Reason = strings.TrimSpace(d.Reason)
}

type ReviewLeaveDTO struct {
	Status       string `json:"status" validate:"required"`
	AdminComment string `json:"admin_comment" validate:"max=500"`
}

// ListFilter narrows application listings. Zero values mean "any".
type ListFilter struct {
	DoctorID int64
	Status   Status
	Page     query.Page
}

type ApplyLeaveResponse struct {
	ApplicationID int64  `json:"application_id"`
	TotalDays     int    `json:"total_days"`
	Message       string `json:"message"`
}

type LeavesResponse struct {
	Leaves     []*Application   `json:"leaves"`
	Pagination query.Pagination `json:"pagination"`
}

type ReviewResponse struct {
	Application *Application `json:"application"`
	Message     string       `json:"message"`
}

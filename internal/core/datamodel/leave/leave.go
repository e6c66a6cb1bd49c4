package leave

import "time"

type LeaveApplication struct {
	ID           int64      `gorm:"primaryKey"`
	DoctorID     int64      `gorm:"column:doctor_id;not null;index:idx_leave_doctor_dates"`
	CategoryID   int64      `gorm:"column:category_id;not null;index"`
	StartDate    time.Time  `gorm:"column:start_date;type:date;not null;index:idx_leave_doctor_dates"`
	EndDate      time.Time  `gorm:"column:end_date;type:date;not null;index:idx_leave_doctor_dates"`
	TotalDays    int        `gorm:"column:total_days;not null"`
	Reason       string     `gorm:"column:reason;not null"`
	Status       string     `gorm:"column:status;size:20;not null;default:pending;index"`
	AppliedAt    time.Time  `gorm:"column:applied_at;not null"`
	ReviewedAt   *time.Time `gorm:"column:reviewed_at"`
	ReviewedBy   *int64     `gorm:"column:reviewed_by"`
	AdminComment *string    `gorm:"column:admin_comment"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (LeaveApplication) TableName() string {
	return "leave_applications"
}

// LeaveApplicationView is an application joined with the names the list
// screens display.
type LeaveApplicationView struct {
	LeaveApplication
	CategoryName   string  `gorm:"column:category_name"`
	DoctorName     string  `gorm:"column:doctor_name"`
	EmployeeID     *string `gorm:"column:employee_id"`
	Department     string  `gorm:"column:department"`
	ReviewedByName *string `gorm:"column:reviewed_by_name"`
}

package balance

import "time"

// DoctorLeaveBalance is one ledger row per doctor, category and year.
// RemainingDays is stored and rewritten together with UsedDays.
type DoctorLeaveBalance struct {
	ID            int64     `gorm:"primaryKey"`
	DoctorID      int64     `gorm:"column:doctor_id;not null;uniqueIndex:uq_balance_doctor_category_year"`
	CategoryID    int64     `gorm:"column:category_id;not null;uniqueIndex:uq_balance_doctor_category_year"`
	Year          int       `gorm:"column:year;not null;uniqueIndex:uq_balance_doctor_category_year"`
	TotalDays     int       `gorm:"column:total_days;not null"`
	UsedDays      int       `gorm:"column:used_days;not null;default:0;check:chk_balance_used,used_days <= total_days"`
	RemainingDays int       `gorm:"column:remaining_days;not null;check:chk_balance_remaining,remaining_days = total_days - used_days"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (DoctorLeaveBalance) TableName() string {
	return "doctor_leave_balance"
}

// BalanceWithCategory is a ledger row joined with its category for listing.
type BalanceWithCategory struct {
	DoctorLeaveBalance
	CategoryName    string `gorm:"column:category_name"`
	CategoryMaxDays int    `gorm:"column:category_max_days"`
}

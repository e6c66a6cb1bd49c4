package balance

import (
	"time"

	balanceDatamodel "github.com/ajit432/hospital-leave/internal/core/datamodel/balance"
)

// Balance is a doctor's allocation for one category and year.
type Balance struct {
	ID              int64     `json:"id"`
	DoctorID        int64     `json:"doctor_id"`
	CategoryID      int64     `json:"category_id"`
	CategoryName    string    `json:"category_name,omitempty"`
	CategoryMaxDays int       `json:"max_days,omitempty"`
	Year            int       `json:"year"`
	TotalDays       int       `json:"total_days"`
	UsedDays        int       `json:"used_days"`
	RemainingDays   int       `json:"remaining_days"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Covers reports whether days more can be taken from this balance.
func (b *Balance) Covers(days int) bool {
	return days <= b.RemainingDays
}

// NewAllocation starts a ledger row with nothing used yet.
func NewAllocation(doctorID, categoryID int64, year, total int) *balanceDatamodel.DoctorLeaveBalance {
	return &balanceDatamodel.DoctorLeaveBalance{
		DoctorID:      doctorID,
		CategoryID:    categoryID,
		Year:          year,
		TotalDays:     total,
		UsedDays:      0,
		RemainingDays: total,
	}
}

// NewDebitedAllocation creates the row lazily on first approval. The total
// never drops below what is being debited so remaining stays non-negative.
func NewDebitedAllocation(doctorID, categoryID int64, year, defaultTotal, days int) *balanceDatamodel.DoctorLeaveBalance {
	total := defaultTotal
	if days > total {
		total = days
	}
	return &balanceDatamodel.DoctorLeaveBalance{
		DoctorID:      doctorID,
		CategoryID:    categoryID,
		Year:          year,
		TotalDays:     total,
		UsedDays:      days,
		RemainingDays: total - days,
	}
}

func FromDataModel(b *balanceDatamodel.DoctorLeaveBalance) *Balance {
	return &Balance{
		ID:            b.ID,
		DoctorID:      b.DoctorID,
		CategoryID:    b.CategoryID,
		Year:          b.Year,
		TotalDays:     b.TotalDays,
		UsedDays:      b.UsedDays,
		RemainingDays: b.RemainingDays,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func FromJoinedSlice(rows []*balanceDatamodel.BalanceWithCategory) []*Balance {
	result := make([]*Balance, len(rows))
	for i, r := range rows {
		b := FromDataModel(&r.DoctorLeaveBalance)
		b.CategoryName = r.CategoryName
		b.CategoryMaxDays = r.CategoryMaxDays
		result[i] = b
	}
	return result
}

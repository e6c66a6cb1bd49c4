package category

import (
	"time"

	categoryDatamodel "github.com/ajit432/hospital-leave/internal/core/datamodel/category"
)

// Category is a leave type such as Sick Leave. MaxDays caps a single
// application, not the yearly total.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	MaxDays     int       `json:"max_days"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (c *Category) IsActiveCategory() bool {
	return c.IsActive
}

// Allows reports whether an application of days working days fits the cap.
func (c *Category) Allows(days int) bool {
	return days <= c.MaxDays
}

func NewCategory(name string, maxDays int, description string) *Category {
	now := time.Now()
	return &Category{
		Name:        name,
		MaxDays:     maxDays,
		Description: description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func ToDataModel(c *Category) *categoryDatamodel.LeaveCategory {
	return &categoryDatamodel.LeaveCategory{
		ID:          c.ID,
		Name:        c.Name,
		MaxDays:     c.MaxDays,
		Description: c.Description,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func FromDataModel(c *categoryDatamodel.LeaveCategory) *Category {
	return &Category{
		ID:          c.ID,
		Name:        c.Name,
		MaxDays:     c.MaxDays,
		Description: c.Description,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*categoryDatamodel.LeaveCategory) []*Category {
	result := make([]*Category, len(rows))
	for i, r := range rows {
		result[i] = FromDataModel(r)
	}
	return result
}

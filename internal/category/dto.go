package category

import "strings"

type CategoryDTO struct {
	Name        string `json:"name" validate:"required,max=100"`
	MaxDays     int    `json:"max_days" validate:"required,gt=0,max=366"`
	Description string `json:"description" validate:"max=500"`
}

func (d *CategoryDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Description = strings.TrimSpace(d.Description)
}

type CategoryResponse struct {
	Category *Category `json:"category"`
	Message  string    `json:"message,omitempty"`
}

type CategoriesResponse struct {
	Categories []*Category `json:"categories"`
	Status     string      `json:"status"`
}

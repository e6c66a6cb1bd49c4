package balance

type SetAllocationDTO struct {
	CategoryID int64 `json:"category_id" validate:"required,gt=0"`
	TotalDays  *int  `json:"total_days" validate:"required,gte=0,max=366"`
	Year       int   `json:"year" validate:"omitempty,gte=2000,lte=2100"`
}

// DoctorInfo is the subset of the doctor record shown next to a balance.
type DoctorInfo struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	EmployeeID string `json:"employee_id,omitempty"`
	Department string `json:"department,omitempty"`
}

type BalanceResponse struct {
	Balance []*Balance  `json:"balance"`
	Year    int         `json:"year"`
	Doctor  *DoctorInfo `json:"doctor,omitempty"`
}

type AllocationResponse struct {
	Balance *Balance `json:"balance"`
	Message string   `json:"message"`
}

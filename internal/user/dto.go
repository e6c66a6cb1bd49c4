package user

import "strings"

type UpdateProfileDTO struct {
	Name       *string `json:"name" validate:"omitempty,min=2,max=100"`
	Department *string `json:"department" validate:"omitempty,max=100"`
	Phone      *string `json:"phone" validate:"omitempty,e164"`
}

func (d *UpdateProfileDTO) Normalize() {
	for _, f := range []*string{d.Name, d.Department, d.Phone} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
}

func (d UpdateProfileDTO) Empty() bool {
	return d.Name == nil && d.Department == nil && d.Phone == nil
}

type ChangePasswordDTO struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6,max=72,strongpassword"`
}

type RegisterDoctorDTO struct {
	Name       string `json:"name" validate:"required,min=2,max=100"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6,max=72,strongpassword"`
	Department string `json:"department" validate:"max=100"`
	Phone      string `json:"phone" validate:"omitempty,e164"`
	EmployeeID string `json:"employee_id" validate:"required,max=50"`
}

func (d *RegisterDoctorDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.Department = strings.TrimSpace(d.Department)
	d.Phone = strings.TrimSpace(d.Phone)
	d.EmployeeID = strings.TrimSpace(d.EmployeeID)
}

type ProfileResponse struct {
	User    *Profile `json:"user"`
	Message string   `json:"message,omitempty"`
}

type DoctorResponse struct {
	Doctor  *Profile `json:"doctor"`
	Message string   `json:"message,omitempty"`
}

type DoctorsResponse struct {
	Doctors []*Profile `json:"doctors"`
	Status  string     `json:"status"`
}

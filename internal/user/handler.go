package user

import (
	"context"
	"net/http"

	"github.com/ajit432/hospital-leave/internal"
	"github.com/ajit432/hospital-leave/internal/core/common/query"
	"github.com/ajit432/hospital-leave/internal/transport"
)

type ServiceAPI interface {
	GetProfile(ctx context.Context, userID int64) (*Profile, error)
	UpdateProfile(ctx context.Context, userID int64, dto UpdateProfileDTO) (*Profile, error)
	ChangePassword(ctx context.Context, userID int64, dto ChangePasswordDTO) error
	ListDoctors(ctx context.Context, filter query.StatusFilter) ([]*Profile, error)
	RegisterDoctor(ctx context.Context, dto RegisterDoctorDTO) (*Profile, error)
	ActivateDoctor(ctx context.Context, doctorID int64) (*Profile, error)
	DeactivateDoctor(ctx context.Context, doctorID int64) (*Profile, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
	}
}

// GetCurrentUser handles GET /users/me
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.caller(w, r)
	if !ok {
		return
	}

	p, err := h.Service.GetProfile(r.Context(), userID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ProfileResponse{User: p})
}

func (h *Handler) UpdateCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.caller(w, r)
	if !ok {
		return
	}

	var dto UpdateProfileDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.Service.UpdateProfile(r.Context(), userID, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ProfileResponse{User: p, Message: "Profile updated successfully"})
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.caller(w, r)
	if !ok {
		return
	}

	var dto ChangePasswordDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Service.ChangePassword(r.Context(), userID, dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, transport.MessageResponse{Message: "Password changed successfully"})
}

// GetDoctors handles GET /leave/doctors?status=active|inactive|all
func (h *Handler) GetDoctors(w http.ResponseWriter, r *http.Request) {
	filter, err := query.ParseStatusFilter(r.URL.Query().Get("status"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	doctors, err := h.Service.ListDoctors(r.Context(), filter)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, DoctorsResponse{Doctors: doctors, Status: string(filter)})
}

func (h *Handler) RegisterDoctor(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDoctorDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	doctor, err := h.Service.RegisterDoctor(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, DoctorResponse{Doctor: doctor, Message: "Doctor registered successfully"})
}

func (h *Handler) ActivateDoctor(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, true)
}

func (h *Handler) DeactivateDoctor(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, false)
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request, active bool) {
	doctorID, err := h.IDParam(r, "doctorId")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var (
		doctor *Profile
		msg    string
	)
	if active {
		doctor, err = h.Service.ActivateDoctor(r.Context(), doctorID)
		msg = "Doctor reactivated successfully"
	} else {
		doctor, err = h.Service.DeactivateDoctor(r.Context(), doctorID)
		msg = "Doctor deactivated successfully"
	}
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, DoctorResponse{Doctor: doctor, Message: msg})
}

func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "user not authenticated")
		return 0, false
	}
	return userID, true
}

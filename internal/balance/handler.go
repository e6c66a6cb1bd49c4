package balance

import (
	"context"
	"net/http"

	"github.com/ajit432/hospital-leave/internal"
	"github.com/ajit432/hospital-leave/internal/core/common/query"
	"github.com/ajit432/hospital-leave/internal/transport"
)

type ServiceAPI interface {
	GetLeaveBalance(ctx context.Context, doctorID int64, year int) (*BalanceResponse, error)
	GetDoctorLeaveBalance(ctx context.Context, doctorID int64, year int) (*BalanceResponse, error)
	SetDoctorLeaveAllocation(ctx context.Context, doctorID int64, dto SetAllocationDTO) (*Balance, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// GetLeaveBalance handles GET /leave/balance for the signed-in user.
func (h *Handler) GetLeaveBalance(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "user not authenticated")
		return
	}

	year, err := query.ParseYear(r.URL.Query())
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.Service.GetLeaveBalance(r.Context(), userID, year)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetDoctorLeaveBalance(w http.ResponseWriter, r *http.Request) {
	doctorID, err := h.IDParam(r, "doctorId")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	year, err := query.ParseYear(r.URL.Query())
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.Service.GetDoctorLeaveBalance(r.Context(), doctorID, year)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) SetDoctorLeaveAllocation(w http.ResponseWriter, r *http.Request) {
	doctorID, err := h.IDParam(r, "doctorId")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var dto SetAllocationDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	b, err := h.Service.SetDoctorLeaveAllocation(r.Context(), doctorID, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, AllocationResponse{
		Balance: b,
		Message: "Leave allocation updated successfully",
	})
}

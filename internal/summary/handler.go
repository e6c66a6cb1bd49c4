package summary

import (
	"context"
	"net/http"

	"github.com/ajit432/hospital-leave/internal"
	"github.com/ajit432/hospital-leave/internal/core/common/query"
	"github.com/ajit432/hospital-leave/internal/transport"
)

type ServiceAPI interface {
	GetLeaveSummary(ctx context.Context, year int) (*LeaveSummary, error)
	GetDoctorDashboard(ctx context.Context, doctorID int64) (*Dashboard, error)
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

// GetLeaveSummary handles GET /leave/summary?year=
func (h *Handler) GetLeaveSummary(w http.ResponseWriter, r *http.Request) {
	year, err := query.ParseYear(r.URL.Query())
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.Service.GetLeaveSummary(r.Context(), year)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "user not authenticated")
		return
	}

	resp, err := h.Service.GetDoctorDashboard(r.Context(), userID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

package leave

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ajit432/hospital-leave/internal"
	"github.com/ajit432/hospital-leave/internal/core/common/query"
	"github.com/ajit432/hospital-leave/internal/transport"
)

type ServiceAPI interface {
	ApplyLeave(ctx context.Context, doctorID int64, dto ApplyLeaveDTO) (*ApplyLeaveResponse, error)
	GetMyLeaves(ctx context.Context, doctorID int64, status Status, page query.Page) (*LeavesResponse, error)
	GetAllLeaves(ctx context.Context, filter ListFilter) (*LeavesResponse, error)
	ReviewLeave(ctx context.Context, applicationID, reviewerID int64, dto ReviewLeaveDTO) (*ReviewResponse, error)
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

func (h *Handler) ApplyLeave(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "user not authenticated")
		return
	}

	var dto ApplyLeaveDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.Service.ApplyLeave(r.Context(), userID, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, resp)
}

// GetMyLeaves handles GET /leave/my-leaves?status=&page=&limit=
func (h *Handler) GetMyLeaves(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "user not authenticated")
		return
	}

	status, err := ParseStatus(r.URL.Query().Get("status"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.Service.GetMyLeaves(r.Context(), userID, status, query.ParsePage(r.URL.Query()))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// GetAllLeaves handles GET /leave/all?status=&doctor_id=&page=&limit=
func (h *Handler) GetAllLeaves(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()

	status, err := ParseStatus(values.Get("status"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	filter := ListFilter{Status: status, Page: query.ParsePage(values)}
	if raw := values.Get("doctor_id"); raw != "" {
		doctorID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || doctorID <= 0 {
			h.WriteError(w, http.StatusBadRequest, "invalid doctor_id")
			return
		}
		filter.DoctorID = doctorID
	}

	resp, err := h.Service.GetAllLeaves(r.Context(), filter)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) ReviewLeave(w http.ResponseWriter, r *http.Request) {
	reviewerID := internal.UserIDFromContext(r.Context())
	if reviewerID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "user not authenticated")
		return
	}

	id, err := h.IDParam(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var dto ReviewLeaveDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.Service.ReviewLeave(r.Context(), id, reviewerID, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

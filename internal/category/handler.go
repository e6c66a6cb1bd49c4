package category

import (
	"context"
	"net/http"

	"github.com/ajit432/hospital-leave/internal/core/common/query"
	"github.com/ajit432/hospital-leave/internal/transport"
)

type ServiceAPI interface {
	GetCategories(ctx context.Context, filter query.StatusFilter) ([]*Category, error)
	GetByID(ctx context.Context, id int64) (*Category, error)
	Create(ctx context.Context, dto CategoryDTO) (*Category, error)
	Update(ctx context.Context, id int64, dto CategoryDTO) (*Category, error)
	Delete(ctx context.Context, id int64) error
	Activate(ctx context.Context, id int64) (*Category, error)
	Deactivate(ctx context.Context, id int64) (*Category, error)
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

// GetCategories handles GET /leave/categories?status=active|inactive|all
func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	filter, err := query.ParseStatusFilter(r.URL.Query().Get("status"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	categories, err := h.Service.GetCategories(r.Context(), filter)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, CategoriesResponse{
		Categories: categories,
		Status:     string(filter),
	})
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var dto CategoryDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, CategoryResponse{
		Category: created,
		Message:  "Leave category created successfully",
	})
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := h.IDParam(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var dto CategoryDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, CategoryResponse{
		Category: updated,
		Message:  "Leave category updated successfully",
	})
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := h.IDParam(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, transport.MessageResponse{Message: "Leave category deleted successfully"})
}

func (h *Handler) ActivateCategory(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, true)
}

func (h *Handler) DeactivateCategory(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, false)
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request, active bool) {
	id, err := h.IDParam(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var (
		cat *Category
		msg string
	)
	if active {
		cat, err = h.Service.Activate(r.Context(), id)
		msg = "Leave category activated successfully"
	} else {
		cat, err = h.Service.Deactivate(r.Context(), id)
		msg = "Leave category deactivated successfully"
	}
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, CategoryResponse{Category: cat, Message: msg})
}

package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/mestri-payroll/internal/domain/mestri"
	"github.com/cmlabs-hris/mestri-payroll/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type MestriHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
}

type mestriHandlerImpl struct {
	mestriService mestri.MestriService
}

func NewMestriHandler(mestriService mestri.MestriService) MestriHandler {
	return &mestriHandlerImpl{mestriService: mestriService}
}

func (h *mestriHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req mestri.CreateMestriRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.mestriService.CreateMestri(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Mestri created", result)
}

func (h *mestriHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.mestriService.GetMestri(r.Context(), chi.URLParam(r, "mestriID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *mestriHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.mestriService.ListMestris(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.List(w, result)
}

func (h *mestriHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req mestri.UpdateMestriRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.MestriID = chi.URLParam(r, "mestriID")

	result, err := h.mestriService.UpdateMestri(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

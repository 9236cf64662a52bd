package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cmlabs-hris/mestri-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/mestri-payroll/internal/handler/http/response"
	"github.com/cmlabs-hris/mestri-payroll/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
)

type PayrollHandler interface {
	// Month sheets
	GetMonth(w http.ResponseWriter, r *http.Request)
	UpdateRecord(w http.ResponseWriter, r *http.Request)
	CreateManualEntry(w http.ResponseWriter, r *http.Request)
	ImportRoster(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)

	// Summary
	Summaries(w http.ResponseWriter, r *http.Request)

	// Live updates
	GetStreamToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
	jwtService     jwt.Service
}

func NewPayrollHandler(payrollService payroll.PayrollService, jwtService jwt.Service) PayrollHandler {
	return &payrollHandlerImpl{
		payrollService: payrollService,
		jwtService:     jwtService,
	}
}

type streamTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

func monthParam(r *http.Request) (payroll.Month, error) {
	return payroll.ParseMonth(chi.URLParam(r, "month"))
}

// ========== MONTH SHEETS ==========

func (h *payrollHandlerImpl) GetMonth(w http.ResponseWriter, r *http.Request) {
	month, err := monthParam(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var filter payroll.MonthFilter
	if mestriID := r.URL.Query().Get("mestri_id"); mestriID != "" {
		filter.MestriID = &mestriID
	}

	result, err := h.payrollService.GetMonth(r.Context(), month, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	var req payroll.UpdateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.Month = chi.URLParam(r, "month")
	req.EmpID = chi.URLParam(r, "empID")

	result, err := h.payrollService.UpdateRecord(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) CreateManualEntry(w http.ResponseWriter, r *http.Request) {
	var req payroll.ManualEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.Month = chi.URLParam(r, "month")

	result, err := h.payrollService.CreateManualEntry(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll entry created", result)
}

func (h *payrollHandlerImpl) ImportRoster(w http.ResponseWriter, r *http.Request) {
	month, err := monthParam(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.ImportRoster(r.Context(), month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Roster imported", result)
}

func (h *payrollHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	month, err := monthParam(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	format := payroll.ExportFormat(r.URL.Query().Get("format"))

	file, err := h.payrollService.Export(r.Context(), month, format)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Attachment(w, file.Filename, file.ContentType, file.Content)
}

// ========== SUMMARY ==========

func (h *payrollHandlerImpl) Summaries(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.Summaries(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.List(w, result)
}

// ========== STREAM ==========

// GetStreamToken issues a short-lived token for the month stream
func (h *payrollHandlerImpl) GetStreamToken(w http.ResponseWriter, r *http.Request) {
	_, claims, _ := jwtauth.FromContext(r.Context())
	subject, _ := claims["user_id"].(string)
	if subject == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	token, expiresIn, err := h.jwtService.GenerateSSEToken(subject)
	if err != nil {
		response.InternalServerError(w, "Failed to generate stream token")
		return
	}

	response.Success(w, streamTokenResponse{
		Token:     token,
		ExpiresIn: expiresIn,
	})
}

// Stream pushes saved records of one month over SSE
func (h *payrollHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	// Token comes from the query string since EventSource cannot set headers
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}
	if _, err := h.jwtService.ValidateSSEToken(tokenStr); err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	month, err := monthParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.payrollService.Subscribe(r.Context(), month)
	defer cleanup()

	fmt.Fprintf(w, "event: connected\ndata: {\"month\":%q}\n\n", month.String())
	flusher.Flush()

	keepalive := time.NewTicker(30 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Record)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

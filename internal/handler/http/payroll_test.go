package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/mestri-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/mestri-payroll/internal/domain/mestri"
	"github.com/cmlabs-hris/mestri-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/mestri-payroll/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerTestSecret = "test-secret-key-for-jwt"

type stubPayrollService struct {
	lastUpdate payroll.UpdateRecordRequest
	lastFilter payroll.MonthFilter
	importErr  error
}

func (s *stubPayrollService) GetMonth(_ context.Context, month payroll.Month, filter payroll.MonthFilter) (payroll.MonthView, error) {
	s.lastFilter = filter
	return payroll.MonthView{
		Month: month,
		Label: month.Label(),
		Class: payroll.MonthCurrent,
		Rows:  []payroll.RecordResponse{{ID: payroll.RecordID("E001", month), EmpID: "E001", Month: month}},
	}, nil
}

func (s *stubPayrollService) UpdateRecord(_ context.Context, req payroll.UpdateRecordRequest) (payroll.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RecordResponse{}, err
	}
	s.lastUpdate = req
	return payroll.RecordResponse{EmpID: req.EmpID, Duties: req.Duties.Decimal()}, nil
}

func (s *stubPayrollService) CreateManualEntry(_ context.Context, req payroll.ManualEntryRequest) (payroll.RecordResponse, error) {
	return payroll.RecordResponse{}, payroll.ErrPayrollRecordAlreadyExists
}

func (s *stubPayrollService) ImportRoster(_ context.Context, month payroll.Month) (payroll.ImportResult, error) {
	if s.importErr != nil {
		return payroll.ImportResult{}, s.importErr
	}
	return payroll.ImportResult{Month: month, Imported: 2}, nil
}

func (s *stubPayrollService) Summaries(context.Context) ([]payroll.SummaryResponse, error) {
	return nil, nil
}

func (s *stubPayrollService) Export(_ context.Context, month payroll.Month, format payroll.ExportFormat) (payroll.ExportFile, error) {
	if format != payroll.FormatCSV {
		return payroll.ExportFile{}, payroll.ErrUnsupportedExportFormat
	}
	return payroll.ExportFile{Filename: "payroll_" + month.Label() + ".csv", ContentType: "text/csv; charset=utf-8", Content: []byte("Month\n")}, nil
}

func (s *stubPayrollService) Subscribe(ctx context.Context, _ payroll.Month) (<-chan payroll.Event, func()) {
	ch := make(chan payroll.Event)
	close(ch)
	return ch, func() {}
}

type stubEmployeeService struct{}

func (stubEmployeeService) CreateEmployee(context.Context, employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	return employee.EmployeeResponse{}, employee.ErrEmpIDExists
}

func (stubEmployeeService) GetEmployee(context.Context, string) (employee.EmployeeResponse, error) {
	return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
}

func (stubEmployeeService) ListEmployees(context.Context, employee.EmployeeFilter) ([]employee.EmployeeResponse, error) {
	return []employee.EmployeeResponse{{EmpID: "E001"}, {EmpID: "E002"}}, nil
}

func (stubEmployeeService) UpdateEmployee(context.Context, employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	return employee.EmployeeResponse{}, nil
}

func (stubEmployeeService) SetStatus(context.Context, employee.SetStatusRequest) (employee.EmployeeResponse, error) {
	return employee.EmployeeResponse{}, nil
}

type stubMestriService struct{}

func (stubMestriService) CreateMestri(context.Context, mestri.CreateMestriRequest) (mestri.MestriResponse, error) {
	return mestri.MestriResponse{MestriID: "M01"}, nil
}

func (stubMestriService) GetMestri(context.Context, string) (mestri.MestriResponse, error) {
	return mestri.MestriResponse{}, mestri.ErrMestriNotFound
}

func (stubMestriService) ListMestris(context.Context) ([]mestri.MestriResponse, error) {
	return []mestri.MestriResponse{}, nil
}

func (stubMestriService) UpdateMestri(context.Context, mestri.UpdateMestriRequest) (mestri.MestriResponse, error) {
	return mestri.MestriResponse{}, nil
}

type testServer struct {
	router  *chi.Mux
	jwt     jwt.Service
	payroll *stubPayrollService
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	jwtService := jwt.NewJWTService(handlerTestSecret, time.Hour, 5*time.Minute)
	svc := &stubPayrollService{}
	router := NewRouter(
		RouterOptions{AllowedOrigins: []string{"http://localhost:5173"}},
		jwtService,
		NewPayrollHandler(svc, jwtService),
		NewEmployeeHandler(stubEmployeeService{}),
		NewMestriHandler(stubMestriService{}),
	)
	return testServer{router: router, jwt: jwtService, payroll: svc}
}

func (s testServer) do(t *testing.T, method, path string, body any, admin *bool) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if admin != nil {
		token, _, err := s.jwt.GenerateAccessToken("operator", *admin)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

var (
	asAdmin  = boolPtr(true)
	asViewer = boolPtr(false)
)

func boolPtr(b bool) *bool { return &b }

func TestRouter_RequiresToken(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/payroll/months/2025-06", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_Healthz(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPayrollHandler_GetMonth(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/payroll/months/2025-06?mestri_id=M01", nil, asViewer)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeEnvelope(t, rec)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "2025-06", data["month"])
	assert.Equal(t, "June-2025", data["label"])

	require.NotNil(t, srv.payroll.lastFilter.MestriID)
	assert.Equal(t, "M01", *srv.payroll.lastFilter.MestriID)
}

func TestPayrollHandler_GetMonth_InvalidMonth(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/payroll/months/June-2025", nil, asViewer)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPayrollHandler_UpdateRecord_AdminOnly(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPut, "/api/v1/payroll/months/2025-06/employees/E001", `{"duties": 5}`, asViewer)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPayrollHandler_UpdateRecord_LenientNumbers(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPut, "/api/v1/payroll/months/2025-06/employees/E001",
		`{"duties": "abc", "ot": null, "bus": "150.5", "food": 40}`, asAdmin)
	require.Equal(t, http.StatusOK, rec.Code)

	got := srv.payroll.lastUpdate
	assert.Equal(t, "2025-06", got.Month)
	assert.Equal(t, "E001", got.EmpID)
	assert.True(t, got.Duties.IsSet())
	assert.True(t, got.Duties.Decimal().IsZero())
	assert.True(t, got.OT.Decimal().IsZero())
	assert.True(t, decimal.RequireFromString("150.5").Equal(got.Bus.Decimal()))
	assert.Equal(t, "40", got.Food.Decimal().String())
	assert.False(t, got.Cash.IsSet())
}

func TestPayrollHandler_UpdateRecord_ValidationError(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPut, "/api/v1/payroll/months/2025-13/employees/E001", `{"cash_or_account": "Cheque"}`, asAdmin)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body := decodeEnvelope(t, rec)
	details := body["error"].(map[string]any)["details"].(map[string]any)
	assert.Contains(t, details, "month")
	assert.Contains(t, details, "cash_or_account")
}

func TestPayrollHandler_UpdateRecord_BadBody(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPut, "/api/v1/payroll/months/2025-06/employees/E001", `{not json`, asAdmin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPayrollHandler_CreateManualEntry_Conflict(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/v1/payroll/months/2025-06/entries", `{"emp_id": "E001"}`, asAdmin)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestPayrollHandler_ImportRoster(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/v1/payroll/months/2025-05/import", nil, asAdmin)
	require.Equal(t, http.StatusOK, rec.Code)

	srv.payroll.importErr = payroll.ErrMonthNotPast
	rec = srv.do(t, http.MethodPost, "/api/v1/payroll/months/2025-06/import", nil, asAdmin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPayrollHandler_Export(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/payroll/months/2025-06/export?format=csv", nil, asViewer)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="payroll_June-2025.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "6", rec.Header().Get("Content-Length"))
	assert.Equal(t, "Month\n", rec.Body.String())

	rec = srv.do(t, http.MethodGet, "/api/v1/payroll/months/2025-06/export?format=pdf", nil, asViewer)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPayrollHandler_Stream_RequiresStreamToken(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/payroll/months/2025-06/stream", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	access, _, err := srv.jwt.GenerateAccessToken("operator", true)
	require.NoError(t, err)
	rec = srv.do(t, http.MethodGet, "/api/v1/payroll/months/2025-06/stream?token="+access, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPayrollHandler_Stream(t *testing.T) {
	srv := newTestServer(t)

	tokenRec := srv.do(t, http.MethodGet, "/api/v1/payroll/stream-token", nil, asViewer)
	require.Equal(t, http.StatusOK, tokenRec.Code)
	token := decodeEnvelope(t, tokenRec)["data"].(map[string]any)["token"].(string)

	// The stub closes its channel at once, so the stream ends after the greeting.
	rec := srv.do(t, http.MethodGet, "/api/v1/payroll/months/2025-06/stream?token="+token, nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "event: connected")
}

func TestEmployeeAndMestriErrors(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/employees/E404", nil, asViewer)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/v1/employees", `{"emp_id": "E001", "name": "Ravi"}`, asAdmin)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/mestris/M404", nil, asViewer)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/v1/mestris", `{"mestri_id": "M01", "name": "Murugan"}`, asViewer)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/v1/mestris", `{"mestri_id": "M01", "name": "Murugan"}`, asAdmin)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestListEndpoints_ReportTotal(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/employees", nil, asViewer)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Len(t, body["data"], 2)
	assert.Equal(t, float64(2), body["meta"].(map[string]any)["total"])

	rec = srv.do(t, http.MethodGet, "/api/v1/payroll/summaries", nil, asViewer)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeEnvelope(t, rec)
	assert.Equal(t, []any{}, body["data"])
	assert.Equal(t, float64(0), body["meta"].(map[string]any)["total"])
}

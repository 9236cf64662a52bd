package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/mestri-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/mestri-payroll/internal/domain/mestri"
	"github.com/cmlabs-hris/mestri-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/mestri-payroll/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Payroll domain errors
	case errors.Is(err, payroll.ErrInvalidMonth):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, payroll.ErrPayrollRecordNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrPayrollRecordAlreadyExists):
		Conflict(w, "Payroll record already exists for this employee and month")
	case errors.Is(err, payroll.ErrEmployeeNotFound):
		NotFound(w, "Employee not found in roster")
	case errors.Is(err, payroll.ErrMonthNotPast):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, payroll.ErrUnsupportedExportFormat):
		BadRequest(w, err.Error(), nil)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmpIDExists):
		Conflict(w, "Employee ID already exists")
	case errors.Is(err, employee.ErrInvalidStatus):
		BadRequest(w, err.Error(), nil)

	// Mestri domain errors
	case errors.Is(err, mestri.ErrMestriNotFound):
		NotFound(w, "Mestri not found")
	case errors.Is(err, mestri.ErrMestriIDExists):
		Conflict(w, "Mestri ID already exists")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}

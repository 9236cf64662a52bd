package employee

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/mestri-payroll/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type EmployeeResponse struct {
	ID             string          `json:"id"`
	EmpID          string          `json:"emp_id"`
	Name           string          `json:"name"`
	MestriID       string          `json:"mestri_id"`
	Dept           string          `json:"dept"`
	PerDayWage     decimal.Decimal `json:"per_day_wage"`
	JoiningDate    string          `json:"joining_date"`
	Status         Status          `json:"status"`
	PhoneNumber    string          `json:"phone_number"`
	BankHolderName string          `json:"bank_holder_name"`
	BankName       string          `json:"bank_name"`
	IFSC           string          `json:"ifsc"`
	AccountNumber  string          `json:"account_number"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:             e.ID,
		EmpID:          e.EmpID,
		Name:           e.Name,
		MestriID:       e.MestriID,
		Dept:           e.Dept,
		PerDayWage:     e.PerDayWage,
		Status:         e.Status,
		PhoneNumber:    e.PhoneNumber,
		BankHolderName: e.BankHolderName,
		BankName:       e.BankName,
		IFSC:           e.IFSC,
		AccountNumber:  e.AccountNumber,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
	if !e.JoiningDate.IsZero() {
		resp.JoiningDate = e.JoiningDate.Format("2006-01-02")
	}
	return resp
}

type EmployeeFilter struct {
	MestriID *string
	Status   *Status
	Search   *string
}

// ActiveOnly is the roster filter used by payroll sheets.
func ActiveOnly(mestriID *string) EmployeeFilter {
	status := StatusActive
	return EmployeeFilter{MestriID: mestriID, Status: &status}
}

type CreateEmployeeRequest struct {
	EmpID          string           `json:"emp_id"`
	Name           string           `json:"name"`
	MestriID       string           `json:"mestri_id"`
	Dept           string           `json:"dept"`
	PerDayWage     *decimal.Decimal `json:"per_day_wage,omitempty"`
	JoiningDate    string           `json:"joining_date,omitempty"`
	Status         Status           `json:"status,omitempty"`
	PhoneNumber    string           `json:"phone_number"`
	BankHolderName string           `json:"bank_holder_name"`
	BankName       string           `json:"bank_name"`
	IFSC           string           `json:"ifsc"`
	AccountNumber  string           `json:"account_number"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	r.EmpID = strings.TrimSpace(r.EmpID)
	r.Name = strings.TrimSpace(r.Name)
	r.IFSC = strings.ToUpper(strings.TrimSpace(r.IFSC))

	// EmpID
	if validator.IsEmpty(r.EmpID) {
		errs = append(errs, validator.ValidationError{
			Field:   "emp_id",
			Message: "emp_id is required",
		})
	}
	if len(r.EmpID) > 50 {
		errs = append(errs, validator.ValidationError{
			Field:   "emp_id",
			Message: "emp_id must not exceed 50 characters",
		})
	}

	// Name
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	// PerDayWage
	if r.PerDayWage != nil && r.PerDayWage.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "per_day_wage",
			Message: "per_day_wage must not be negative",
		})
	}

	// JoiningDate
	if r.JoiningDate != "" {
		if _, ok := validator.IsValidDate(r.JoiningDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "joining_date",
				Message: "joining_date must be in YYYY-MM-DD format",
			})
		}
	}

	// Status
	if r.Status != "" && !r.Status.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: ErrInvalidStatus.Error(),
		})
	}

	// PhoneNumber
	if r.PhoneNumber != "" && !validator.IsValidIndianPhone(r.PhoneNumber) {
		errs = append(errs, validator.ValidationError{
			Field:   "phone_number",
			Message: ErrInvalidPhoneNumber.Error(),
		})
	}

	// IFSC
	if r.IFSC != "" && !validator.IsValidIFSC(r.IFSC) {
		errs = append(errs, validator.ValidationError{
			Field:   "ifsc",
			Message: ErrInvalidIFSC.Error(),
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateEmployeeRequest struct {
	EmpID          string           `json:"-"` // From URL
	Name           *string          `json:"name,omitempty"`
	MestriID       *string          `json:"mestri_id,omitempty"`
	Dept           *string          `json:"dept,omitempty"`
	PerDayWage     *decimal.Decimal `json:"per_day_wage,omitempty"`
	JoiningDate    *string          `json:"joining_date,omitempty"`
	PhoneNumber    *string          `json:"phone_number,omitempty"`
	BankHolderName *string          `json:"bank_holder_name,omitempty"`
	BankName       *string          `json:"bank_name,omitempty"`
	IFSC           *string          `json:"ifsc,omitempty"`
	AccountNumber  *string          `json:"account_number,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmpID) {
		errs = append(errs, validator.ValidationError{
			Field:   "emp_id",
			Message: "emp_id is required",
		})
	}

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be empty",
		})
	}

	if r.PerDayWage != nil && r.PerDayWage.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "per_day_wage",
			Message: "per_day_wage must not be negative",
		})
	}

	if r.JoiningDate != nil {
		if _, ok := validator.IsValidDate(*r.JoiningDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "joining_date",
				Message: "joining_date must be in YYYY-MM-DD format",
			})
		}
	}

	if r.PhoneNumber != nil && *r.PhoneNumber != "" && !validator.IsValidIndianPhone(*r.PhoneNumber) {
		errs = append(errs, validator.ValidationError{
			Field:   "phone_number",
			Message: ErrInvalidPhoneNumber.Error(),
		})
	}

	if r.IFSC != nil {
		ifsc := strings.ToUpper(strings.TrimSpace(*r.IFSC))
		r.IFSC = &ifsc
		if ifsc != "" && !validator.IsValidIFSC(ifsc) {
			errs = append(errs, validator.ValidationError{
				Field:   "ifsc",
				Message: ErrInvalidIFSC.Error(),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type SetStatusRequest struct {
	EmpID  string `json:"-"` // From URL
	Status Status `json:"status"`
}

func (r *SetStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmpID) {
		errs = append(errs, validator.ValidationError{
			Field:   "emp_id",
			Message: "emp_id is required",
		})
	}
	if !r.Status.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: ErrInvalidStatus.Error(),
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

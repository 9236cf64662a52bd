package payroll

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/mestri-payroll/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// RecordPatch carries the editable fields of a record. Numeric fields decode
// leniently (see Number) and strings are applied only when sent.
type RecordPatch struct {
	Name           *string        `json:"name,omitempty"`
	Dept           *string        `json:"dept,omitempty"`
	Designation    *string        `json:"designation,omitempty"`
	MestriID       *string        `json:"mestri_id,omitempty"`
	JoiningDate    *string        `json:"joining_date,omitempty"`
	PhoneNumber    *string        `json:"phone_number,omitempty"`
	BankHolderName *string        `json:"bank_holder_name,omitempty"`
	BankName       *string        `json:"bank_name,omitempty"`
	IFSC           *string        `json:"ifsc,omitempty"`
	AccountNumber  *string        `json:"account_number,omitempty"`
	Duties         Number         `json:"duties"`
	OT             Number         `json:"ot"`
	PH             Number         `json:"ph"`
	PerDayWage     Number         `json:"per_day_wage"`
	Bus            Number         `json:"bus"`
	Food           Number         `json:"food"`
	EB             Number         `json:"eb"`
	Shoes          Number         `json:"shoes"`
	Karcha         Number         `json:"karcha"`
	LastMonth      Number         `json:"last_month"`
	Advance        Number         `json:"advance"`
	Others         Number         `json:"others"`
	Cash           Number         `json:"cash"`
	Bonus          Number         `json:"bonus"`
	Remarks        *string        `json:"remarks,omitempty"`
	CashOrAccount  *PaymentMethod `json:"cash_or_account,omitempty"`
	Paid           *bool          `json:"paid,omitempty"`
}

func (p RecordPatch) apply(r *PayrollRecord) {
	applyString(&r.Name, p.Name)
	applyString(&r.Dept, p.Dept)
	applyString(&r.Designation, p.Designation)
	applyString(&r.MestriID, p.MestriID)
	applyString(&r.JoiningDate, p.JoiningDate)
	applyString(&r.PhoneNumber, p.PhoneNumber)
	applyString(&r.BankHolderName, p.BankHolderName)
	applyString(&r.BankName, p.BankName)
	applyString(&r.IFSC, p.IFSC)
	applyString(&r.AccountNumber, p.AccountNumber)
	applyString(&r.Remarks, p.Remarks)

	r.Duties = p.Duties.Or(r.Duties)
	r.OT = p.OT.Or(r.OT)
	r.PH = p.PH.Or(r.PH)
	r.PerDayWage = p.PerDayWage.Or(r.PerDayWage)
	r.Bus = p.Bus.Or(r.Bus)
	r.Food = p.Food.Or(r.Food)
	r.EB = p.EB.Or(r.EB)
	r.Shoes = p.Shoes.Or(r.Shoes)
	r.Karcha = p.Karcha.Or(r.Karcha)
	r.LastMonth = p.LastMonth.Or(r.LastMonth)
	r.Advance = p.Advance.Or(r.Advance)
	r.Others = p.Others.Or(r.Others)
	r.Cash = p.Cash.Or(r.Cash)
	r.Bonus = p.Bonus.Or(r.Bonus)

	if p.CashOrAccount != nil {
		r.CashOrAccount = *p.CashOrAccount
	}
	if p.Paid != nil {
		r.Paid = *p.Paid
	}
}

// ChangesMestri reports whether applying p to r reassigns the mestri.
func (p RecordPatch) ChangesMestri(r PayrollRecord) bool {
	return p.MestriID != nil && *p.MestriID != r.MestriID
}

func applyString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func (p RecordPatch) validate(errs validator.ValidationErrors) validator.ValidationErrors {
	if p.CashOrAccount != nil && !p.CashOrAccount.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "cash_or_account",
			Message: ErrInvalidPaymentMethod.Error(),
		})
	}
	if p.JoiningDate != nil && *p.JoiningDate != "" {
		if _, ok := validator.IsValidDate(*p.JoiningDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "joining_date",
				Message: "joining_date must be in YYYY-MM-DD format",
			})
		}
	}
	return errs
}

// UpdateRecordRequest is a cell edit on one employee's month.
type UpdateRecordRequest struct {
	Month string `json:"-"` // From URL
	EmpID string `json:"-"` // From URL
	RecordPatch
}

func (r *UpdateRecordRequest) Validate() error {
	var errs validator.ValidationErrors

	errs = validateKey(errs, r.Month, r.EmpID)
	errs = r.RecordPatch.validate(errs)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ManualEntryRequest creates a full record for a roster employee.
type ManualEntryRequest struct {
	Month string `json:"-"` // From URL
	EmpID string `json:"emp_id"`
	RecordPatch
}

func (r *ManualEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	r.EmpID = strings.TrimSpace(r.EmpID)
	errs = validateKey(errs, r.Month, r.EmpID)
	errs = r.RecordPatch.validate(errs)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func validateKey(errs validator.ValidationErrors, month, empID string) validator.ValidationErrors {
	if !validator.IsValidMonth(month) {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: ErrInvalidMonth.Error(),
		})
	}
	if validator.IsEmpty(empID) {
		errs = append(errs, validator.ValidationError{
			Field:   "emp_id",
			Message: "emp_id is required",
		})
	}
	return errs
}

type MonthFilter struct {
	MestriID *string
}

// RecordResponse is the wire shape of a PayrollRecord.
type RecordResponse struct {
	ID             string          `json:"id"`
	EmployeeID     string          `json:"employee_id"`
	EmpID          string          `json:"emp_id"`
	Month          Month           `json:"month"`
	Name           string          `json:"name"`
	Dept           string          `json:"dept"`
	Designation    string          `json:"designation"`
	MestriID       string          `json:"mestri_id"`
	JoiningDate    string          `json:"joining_date"`
	PhoneNumber    string          `json:"phone_number"`
	BankHolderName string          `json:"bank_holder_name"`
	BankName       string          `json:"bank_name"`
	IFSC           string          `json:"ifsc"`
	AccountNumber  string          `json:"account_number"`
	Duties         decimal.Decimal `json:"duties"`
	OT             decimal.Decimal `json:"ot"`
	PH             decimal.Decimal `json:"ph"`
	PerDayWage     decimal.Decimal `json:"per_day_wage"`
	Bus            decimal.Decimal `json:"bus"`
	Food           decimal.Decimal `json:"food"`
	EB             decimal.Decimal `json:"eb"`
	Shoes          decimal.Decimal `json:"shoes"`
	Karcha         decimal.Decimal `json:"karcha"`
	LastMonth      decimal.Decimal `json:"last_month"`
	Advance        decimal.Decimal `json:"advance"`
	Others         decimal.Decimal `json:"others"`
	Cash           decimal.Decimal `json:"cash"`
	Bonus          decimal.Decimal `json:"bonus"`
	Remarks        string          `json:"remarks"`
	CashOrAccount  PaymentMethod   `json:"cash_or_account"`
	Paid           bool            `json:"paid"`
	TotalDuties    decimal.Decimal `json:"total_duties"`
	Salary         decimal.Decimal `json:"salary"`
	OTWages        decimal.Decimal `json:"ot_wages"`
	TotalSalary    decimal.Decimal `json:"total_salary"`
	Deductions     decimal.Decimal `json:"deductions"`
	NetSalary      decimal.Decimal `json:"net_salary"`
	TotalPayment   decimal.Decimal `json:"total_payment"`
	Balance        decimal.Decimal `json:"balance"`
	Status         PaymentStatus   `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func NewRecordResponse(r PayrollRecord) RecordResponse {
	return RecordResponse{
		ID:             r.ID,
		EmployeeID:     r.EmployeeID,
		EmpID:          r.EmpID,
		Month:          r.Month,
		Name:           r.Name,
		Dept:           r.Dept,
		Designation:    r.Designation,
		MestriID:       r.MestriID,
		JoiningDate:    r.JoiningDate,
		PhoneNumber:    r.PhoneNumber,
		BankHolderName: r.BankHolderName,
		BankName:       r.BankName,
		IFSC:           r.IFSC,
		AccountNumber:  r.AccountNumber,
		Duties:         r.Duties,
		OT:             r.OT,
		PH:             r.PH,
		PerDayWage:     r.PerDayWage,
		Bus:            r.Bus,
		Food:           r.Food,
		EB:             r.EB,
		Shoes:          r.Shoes,
		Karcha:         r.Karcha,
		LastMonth:      r.LastMonth,
		Advance:        r.Advance,
		Others:         r.Others,
		Cash:           r.Cash,
		Bonus:          r.Bonus,
		Remarks:        r.Remarks,
		CashOrAccount:  r.CashOrAccount,
		Paid:           r.Paid,
		TotalDuties:    r.TotalDuties,
		Salary:         r.Salary,
		OTWages:        r.OTWages,
		TotalSalary:    r.TotalSalary,
		Deductions:     r.Deductions,
		NetSalary:      r.NetSalary,
		TotalPayment:   r.TotalPayment,
		Balance:        r.Balance,
		Status:         r.Status,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// MonthTotals sums the money columns of a month view.
type MonthTotals struct {
	Duties       decimal.Decimal `json:"duties"`
	OT           decimal.Decimal `json:"ot"`
	TotalSalary  decimal.Decimal `json:"total_salary"`
	Deductions   decimal.Decimal `json:"deductions"`
	TotalPayment decimal.Decimal `json:"total_payment"`
	Cash         decimal.Decimal `json:"cash"`
	Balance      decimal.Decimal `json:"balance"`
}

func (t *MonthTotals) Add(r PayrollRecord) {
	t.Duties = t.Duties.Add(r.Duties)
	t.OT = t.OT.Add(r.OT)
	t.TotalSalary = t.TotalSalary.Add(r.TotalSalary)
	t.Deductions = t.Deductions.Add(r.Deductions)
	t.TotalPayment = t.TotalPayment.Add(r.TotalPayment)
	t.Cash = t.Cash.Add(r.Cash)
	t.Balance = t.Balance.Add(r.Balance)
}

type MonthView struct {
	Month       Month            `json:"month"`
	Label       string           `json:"label"`
	Class       MonthClass       `json:"class"`
	Provisional bool             `json:"provisional"`
	CanImport   bool             `json:"can_import"`
	Rows        []RecordResponse `json:"rows"`
	Totals      MonthTotals      `json:"totals"`
}

type ImportResult struct {
	Month    Month `json:"month"`
	Imported int   `json:"imported"`
	Skipped  int   `json:"skipped"`
}

type SummaryResponse struct {
	Month        Month           `json:"month"`
	Label        string          `json:"label"`
	Records      int             `json:"records"`
	TotalPayment decimal.Decimal `json:"total_payment"`
	PaidCount    int             `json:"paid_count"`
	PendingCount int             `json:"pending_count"`
	UnpaidCount  int             `json:"unpaid_count"`
}

type ExportFormat string

const (
	FormatXLSX ExportFormat = "xlsx"
	FormatCSV  ExportFormat = "csv"
)

func (f ExportFormat) IsValid() bool {
	return f == FormatXLSX || f == FormatCSV
}

type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Event is published on a month's live stream after every saved record.
type Event struct {
	Type   string         `json:"type"`
	Record RecordResponse `json:"record"`
}

const EventRecordSaved = "payroll.record.saved"

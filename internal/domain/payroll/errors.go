package payroll

import "errors"

var (
	ErrInvalidMonth               = errors.New("month must be in YYYY-MM format")
	ErrPayrollRecordNotFound      = errors.New("payroll record not found")
	ErrPayrollRecordAlreadyExists = errors.New("payroll record already exists for this employee and month")
	ErrEmployeeNotFound           = errors.New("employee not found in roster")
	ErrMonthNotPast               = errors.New("roster import is only allowed for past months")
	ErrUnsupportedExportFormat    = errors.New("export format must be xlsx or csv")
	ErrInvalidPaymentMethod       = errors.New("cash_or_account must be Cash or Account")
)

package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollRecord is one employee's payroll for one month. It is keyed by
// (EmpID, Month) and its ID is always "{empId}_{month}".
type PayrollRecord struct {
	ID         string
	EmployeeID string
	EmpID      string
	Month      Month

	// Carried over from the roster
	Name           string
	Dept           string
	Designation    string
	MestriID       string
	JoiningDate    string
	PhoneNumber    string
	BankHolderName string
	BankName       string
	IFSC           string
	AccountNumber  string

	// Inputs
	Duties        decimal.Decimal
	OT            decimal.Decimal
	PH            decimal.Decimal
	PerDayWage    decimal.Decimal
	Bus           decimal.Decimal
	Food          decimal.Decimal
	EB            decimal.Decimal
	Shoes         decimal.Decimal
	Karcha        decimal.Decimal
	LastMonth     decimal.Decimal
	Advance       decimal.Decimal
	Others        decimal.Decimal
	Cash          decimal.Decimal
	Bonus         decimal.Decimal
	Remarks       string
	CashOrAccount PaymentMethod
	Paid          bool

	// Derived, always overwritten by Calculator
	TotalDuties  decimal.Decimal
	Salary       decimal.Decimal
	OTWages      decimal.Decimal
	TotalSalary  decimal.Decimal
	Deductions   decimal.Decimal
	NetSalary    decimal.Decimal
	TotalPayment decimal.Decimal
	Balance      decimal.Decimal
	Status       PaymentStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RecordID builds the composite record id.
func RecordID(empID string, month Month) string {
	return empID + "_" + month.String()
}

type PaymentStatus string

const (
	StatusPaid    PaymentStatus = "Paid"
	StatusPending PaymentStatus = "Pending"
	StatusUnpaid  PaymentStatus = "Unpaid"
)

type PaymentMethod string

const (
	PaymentCash    PaymentMethod = "Cash"
	PaymentAccount PaymentMethod = "Account"
)

func (p PaymentMethod) IsValid() bool {
	return p == PaymentCash || p == PaymentAccount
}

// MonthClass places a month relative to the current calendar month.
type MonthClass string

const (
	MonthPast    MonthClass = "past"
	MonthCurrent MonthClass = "current"
	MonthFuture  MonthClass = "future"
)

// WriteTarget names the store a record write goes to.
type WriteTarget string

const (
	TargetPrimary WriteTarget = "primary"
	TargetArchive WriteTarget = "archive"
)

// MonthlySummary aggregates one month of persisted records.
type MonthlySummary struct {
	Month        Month
	Records      int
	TotalPayment decimal.Decimal
	PaidCount    int
	PendingCount int
	UnpaidCount  int
}

package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID             string
	EmpID          string
	Name           string
	MestriID       string
	Dept           string
	PerDayWage     decimal.Decimal
	JoiningDate    time.Time
	Status         Status
	PhoneNumber    string
	BankHolderName string
	BankName       string
	IFSC           string
	AccountNumber  string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsActive reports whether the employee appears on current and future payroll sheets.
func (e Employee) IsActive() bool {
	return e.Status == StatusActive
}

type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
	StatusOnLeave  Status = "On Leave"
	StatusLeft     Status = "Left"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusOnLeave, StatusLeft:
		return true
	}
	return false
}

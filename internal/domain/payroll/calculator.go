package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultPHRate is the wage paid per public-holiday day.
var DefaultPHRate = decimal.RequireFromString("497.65")

// Calculator derives salary fields from a record's inputs.
type Calculator struct {
	phRate decimal.Decimal
	now    func() time.Time
}

func NewCalculator(phRate decimal.Decimal) *Calculator {
	return &Calculator{phRate: phRate, now: time.Now}
}

// WithClock returns a copy of c that stamps records using now.
func (c *Calculator) WithClock(now func() time.Time) *Calculator {
	cp := *c
	cp.now = now
	return &cp
}

func (c *Calculator) Now() time.Time { return c.now() }

func (c *Calculator) PHRate() decimal.Decimal { return c.phRate }

// Calculate overwrites every derived field of r and stamps UpdatedAt. Inputs
// are left untouched, so calculating an already calculated record only
// moves UpdatedAt.
func (c *Calculator) Calculate(r PayrollRecord) PayrollRecord {
	r.TotalDuties = r.Duties.Add(r.OT)
	r.OTWages = r.OT.Mul(r.PerDayWage)
	r.Salary = r.TotalDuties.Mul(r.PerDayWage).Add(r.PH.Mul(c.phRate))
	r.TotalSalary = r.Salary

	r.Deductions = sum(r.Bus, r.Food, r.EB, r.Shoes, r.Karcha, r.LastMonth, r.Advance, r.Others)

	r.NetSalary = r.TotalSalary.Add(r.Bonus).Sub(r.Deductions)
	r.TotalPayment = r.NetSalary
	r.Balance = r.NetSalary.Sub(r.Cash)
	r.Status = DeriveStatus(r.Paid, r.Balance, r.Cash)

	r.UpdatedAt = c.now()
	return r
}

// DeriveStatus: Paid when flagged, Pending when money is still owed after a
// partial cash payment, Unpaid otherwise.
func DeriveStatus(paid bool, balance, cash decimal.Decimal) PaymentStatus {
	switch {
	case paid:
		return StatusPaid
	case balance.IsPositive() && cash.IsPositive():
		return StatusPending
	default:
		return StatusUnpaid
	}
}

func sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

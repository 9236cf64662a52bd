package payroll

import (
	"time"

	"github.com/cmlabs-hris/mestri-payroll/internal/domain/employee"
)

// Roster defaults for fields the directory leaves blank.
const (
	DefaultDept        = "General"
	DefaultDesignation = "Worker"
)

// Normalize builds a complete record for emp in month. Each field comes from
// the patch when present, then the existing record, then the roster entry,
// then its zero value. The result always has ID "{empId}_{month}", keeps the
// existing CreatedAt when there is one and has UpdatedAt set to now.
//
// Derived fields are not computed here; run the result through a Calculator.
func Normalize(patch RecordPatch, existing *PayrollRecord, emp *employee.Employee, month Month, now time.Time) PayrollRecord {
	var rec PayrollRecord
	if existing != nil {
		rec = *existing
	}

	if emp != nil {
		fillFromRoster(&rec, *emp, existing == nil)
	}
	if rec.CashOrAccount == "" {
		rec.CashOrAccount = PaymentCash
	}

	patch.apply(&rec)

	rec.Month = month
	rec.ID = RecordID(rec.EmpID, month)
	if existing == nil || existing.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	return rec
}

func fillFromRoster(rec *PayrollRecord, emp employee.Employee, fresh bool) {
	setIfBlank(&rec.EmpID, emp.EmpID)
	setIfBlank(&rec.EmployeeID, emp.ID)
	setIfBlank(&rec.Name, emp.Name)
	setIfBlank(&rec.MestriID, emp.MestriID)
	setIfBlank(&rec.PhoneNumber, emp.PhoneNumber)
	setIfBlank(&rec.BankHolderName, emp.BankHolderName)
	setIfBlank(&rec.BankName, emp.BankName)
	setIfBlank(&rec.IFSC, emp.IFSC)
	setIfBlank(&rec.AccountNumber, emp.AccountNumber)
	if !emp.JoiningDate.IsZero() {
		setIfBlank(&rec.JoiningDate, emp.JoiningDate.Format("2006-01-02"))
	}

	if fresh {
		rec.PerDayWage = emp.PerDayWage
		rec.Dept = emp.Dept
		if rec.Dept == "" {
			rec.Dept = DefaultDept
		}
		rec.Designation = DefaultDesignation
	}
}

func setIfBlank(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

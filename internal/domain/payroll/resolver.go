package payroll

import (
	"time"

	"github.com/cmlabs-hris/mestri-payroll/internal/domain/employee"
)

// Resolution is the set of rows a payroll sheet shows for a month.
type Resolution struct {
	Month       Month
	Class       MonthClass
	Rows        []PayrollRecord
	Provisional bool
	CanImport   bool
}

// Classify places month against the calendar month of today.
func Classify(month Month, today time.Time) MonthClass {
	switch month.Compare(MonthOf(today)) {
	case -1:
		return MonthPast
	case 1:
		return MonthFuture
	default:
		return MonthCurrent
	}
}

// WriteTargetFor returns the store that records of a month class are written to.
func WriteTargetFor(class MonthClass) WriteTarget {
	if class == MonthPast {
		return TargetArchive
	}
	return TargetPrimary
}

// ResolveVisibleRows decides which rows a month shows.
//
// Past months show only what was persisted. Current and future months show
// a row for every active roster employee, using the persisted record when
// there is one and a zeroed calculated template otherwise, plus any
// persisted record whose employee has since left the active roster. Rows
// carry no particular order.
func ResolveVisibleRows(roster []employee.Employee, persisted []PayrollRecord, month Month, today time.Time, calc *Calculator) Resolution {
	res := Resolution{
		Month: month,
		Class: Classify(month, today),
	}
	res.Provisional = res.Class == MonthFuture

	if res.Class == MonthPast {
		res.Rows = append([]PayrollRecord{}, persisted...)
		res.CanImport = len(res.Rows) == 0
		return res
	}

	byEmp := make(map[string]int, len(persisted))
	for i, rec := range persisted {
		byEmp[rec.EmpID] = i
	}

	used := make(map[string]bool, len(persisted))
	rows := make([]PayrollRecord, 0, len(roster)+len(persisted))
	for i := range roster {
		emp := roster[i]
		if !emp.IsActive() || used[emp.EmpID] {
			continue
		}
		used[emp.EmpID] = true

		if idx, ok := byEmp[emp.EmpID]; ok {
			rows = append(rows, persisted[idx])
			continue
		}
		tmpl := Normalize(RecordPatch{}, nil, &emp, month, calc.Now())
		rows = append(rows, calc.Calculate(tmpl))
	}

	for _, rec := range persisted {
		if used[rec.EmpID] {
			continue
		}
		used[rec.EmpID] = true
		rows = append(rows, rec)
	}

	res.Rows = rows
	return res
}

// MergeArchive overlays archived records on primary ones. The archive wins
// when both hold a record with the same id.
func MergeArchive(primary, archived []PayrollRecord) []PayrollRecord {
	if len(archived) == 0 {
		return primary
	}

	seen := make(map[string]bool, len(archived))
	out := make([]PayrollRecord, 0, len(primary)+len(archived))
	for _, rec := range archived {
		if seen[rec.ID] {
			continue
		}
		seen[rec.ID] = true
		out = append(out, rec)
	}
	for _, rec := range primary {
		if !seen[rec.ID] {
			out = append(out, rec)
		}
	}
	return out
}

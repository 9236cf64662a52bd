package payroll

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/cmlabs-hris/mestri-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/mestri-payroll/internal/domain/mestri"
	"github.com/cmlabs-hris/mestri-payroll/internal/domain/payroll"
)

// recordStore is an in-memory record table keyed by (emp_id, month).
type recordStore struct {
	mu      sync.Mutex
	records map[string]payroll.PayrollRecord
	writes  int
}

func newRecordStore(recs ...payroll.PayrollRecord) *recordStore {
	s := &recordStore{records: make(map[string]payroll.PayrollRecord)}
	for _, r := range recs {
		s.records[payroll.RecordID(r.EmpID, r.Month)] = r
	}
	return s
}

func (s *recordStore) ListByMonth(_ context.Context, month payroll.Month) ([]payroll.PayrollRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []payroll.PayrollRecord
	for _, r := range s.records {
		if r.Month == month {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *recordStore) GetByEmployeeMonth(_ context.Context, empID string, month payroll.Month) (payroll.PayrollRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[payroll.RecordID(empID, month)]
	if !ok {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	return r, nil
}

func (s *recordStore) put(id string, rec payroll.PayrollRecord) payroll.PayrollRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := payroll.RecordID(rec.EmpID, rec.Month)
	if old, ok := s.records[key]; ok {
		rec.CreatedAt = old.CreatedAt
	}
	rec.ID = id
	s.records[key] = rec
	s.writes++
	return rec
}

func (s *recordStore) ListByEmployeeAfter(_ context.Context, empID string, month payroll.Month) ([]payroll.PayrollRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []payroll.PayrollRecord
	for _, r := range s.records {
		if r.EmpID == empID && r.Month.After(month) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *recordStore) ListMonths(_ context.Context) ([]payroll.Month, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := map[payroll.Month]bool{}
	var out []payroll.Month
	for _, r := range s.records {
		if !seen[r.Month] {
			seen[r.Month] = true
			out = append(out, r.Month)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].After(out[j]) })
	return out, nil
}

func (s *recordStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

type fakePayrollRepo struct{ *recordStore }

func (r fakePayrollRepo) Upsert(_ context.Context, rec payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	return r.put(payroll.RecordID(rec.EmpID, rec.Month), rec), nil
}

type fakeArchiveRepo struct{ *recordStore }

func (r fakeArchiveRepo) Upsert(_ context.Context, id string, rec payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	return r.put(id, rec), nil
}

func (r fakeArchiveRepo) UpsertMany(_ context.Context, recs []payroll.PayrollRecord) error {
	for _, rec := range recs {
		r.put(rec.ID, rec)
	}
	return nil
}

type fakeEmployeeRepo struct {
	employees []employee.Employee
}

func (f *fakeEmployeeRepo) Create(_ context.Context, e employee.Employee) (employee.Employee, error) {
	f.employees = append(f.employees, e)
	return e, nil
}

func (f *fakeEmployeeRepo) GetByEmpID(_ context.Context, empID string) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.EmpID == empID {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) List(_ context.Context, filter employee.EmployeeFilter) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range f.employees {
		if filter.Status != nil && e.Status != *filter.Status {
			continue
		}
		if filter.MestriID != nil && *filter.MestriID != "" && e.MestriID != *filter.MestriID {
			continue
		}
		if filter.Search != nil && !strings.Contains(strings.ToLower(e.Name), strings.ToLower(*filter.Search)) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEmployeeRepo) Update(ctx context.Context, empID string, _ employee.UpdateEmployeeRequest) (employee.Employee, error) {
	return f.GetByEmpID(ctx, empID)
}

func (f *fakeEmployeeRepo) UpdateStatus(_ context.Context, empID string, status employee.Status) (employee.Employee, error) {
	for i := range f.employees {
		if f.employees[i].EmpID == empID {
			f.employees[i].Status = status
			return f.employees[i], nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

type fakeMestriRepo struct {
	mestris []mestri.Mestri
}

func (f *fakeMestriRepo) Create(_ context.Context, m mestri.Mestri) (mestri.Mestri, error) {
	f.mestris = append(f.mestris, m)
	return m, nil
}

func (f *fakeMestriRepo) GetByMestriID(_ context.Context, id string) (mestri.Mestri, error) {
	for _, m := range f.mestris {
		if m.MestriID == id {
			return m, nil
		}
	}
	return mestri.Mestri{}, mestri.ErrMestriNotFound
}

func (f *fakeMestriRepo) List(_ context.Context) ([]mestri.Mestri, error) {
	return f.mestris, nil
}

func (f *fakeMestriRepo) Update(ctx context.Context, id string, _ mestri.UpdateMestriRequest) (mestri.Mestri, error) {
	return f.GetByMestriID(ctx, id)
}

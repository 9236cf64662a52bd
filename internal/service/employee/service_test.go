package employee

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/mestri-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/mestri-payroll/internal/domain/mestri"
	"github.com/cmlabs-hris/mestri-payroll/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memEmployeeRepo struct {
	byEmpID map[string]employee.Employee
}

func (m *memEmployeeRepo) Create(_ context.Context, e employee.Employee) (employee.Employee, error) {
	if _, ok := m.byEmpID[e.EmpID]; ok {
		return employee.Employee{}, employee.ErrEmpIDExists
	}
	m.byEmpID[e.EmpID] = e
	return e, nil
}

func (m *memEmployeeRepo) GetByEmpID(_ context.Context, empID string) (employee.Employee, error) {
	e, ok := m.byEmpID[empID]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (m *memEmployeeRepo) List(_ context.Context, filter employee.EmployeeFilter) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range m.byEmpID {
		if filter.Status != nil && e.Status != *filter.Status {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *memEmployeeRepo) Update(_ context.Context, empID string, req employee.UpdateEmployeeRequest) (employee.Employee, error) {
	e, ok := m.byEmpID[empID]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	if req.Name != nil {
		e.Name = *req.Name
	}
	if req.MestriID != nil {
		e.MestriID = *req.MestriID
	}
	if req.PerDayWage != nil {
		e.PerDayWage = *req.PerDayWage
	}
	m.byEmpID[empID] = e
	return e, nil
}

func (m *memEmployeeRepo) UpdateStatus(_ context.Context, empID string, status employee.Status) (employee.Employee, error) {
	e, ok := m.byEmpID[empID]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	e.Status = status
	m.byEmpID[empID] = e
	return e, nil
}

type memMestriRepo struct {
	ids map[string]bool
}

func (m *memMestriRepo) Create(_ context.Context, v mestri.Mestri) (mestri.Mestri, error) {
	m.ids[v.MestriID] = true
	return v, nil
}

func (m *memMestriRepo) GetByMestriID(_ context.Context, id string) (mestri.Mestri, error) {
	if !m.ids[id] {
		return mestri.Mestri{}, mestri.ErrMestriNotFound
	}
	return mestri.Mestri{MestriID: id}, nil
}

func (m *memMestriRepo) List(_ context.Context) ([]mestri.Mestri, error) { return nil, nil }

func (m *memMestriRepo) Update(ctx context.Context, id string, _ mestri.UpdateMestriRequest) (mestri.Mestri, error) {
	return m.GetByMestriID(ctx, id)
}

func newTestService() (*EmployeeServiceImpl, *memEmployeeRepo) {
	repo := &memEmployeeRepo{byEmpID: map[string]employee.Employee{}}
	svc := NewEmployeeService(repo, &memMestriRepo{ids: map[string]bool{"M01": true, "M02": true}}).(*EmployeeServiceImpl)
	svc.now = func() time.Time { return time.Date(2025, 6, 15, 13, 30, 0, 0, time.UTC) }
	return svc, repo
}

func TestCreateEmployee_Defaults(t *testing.T) {
	svc, _ := newTestService()

	resp, err := svc.CreateEmployee(context.Background(), employee.CreateEmployeeRequest{
		EmpID:    " E001 ",
		Name:     "Ravi",
		MestriID: "M01",
	})
	require.NoError(t, err)

	assert.Equal(t, "E001", resp.EmpID)
	assert.Equal(t, employee.StatusActive, resp.Status)
	assert.Equal(t, "2025-06-15", resp.JoiningDate)
	assert.True(t, resp.PerDayWage.IsZero())
	assert.NotEmpty(t, resp.ID)
}

func TestCreateEmployee_DuplicateEmpID(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	req := employee.CreateEmployeeRequest{EmpID: "E001", Name: "Ravi"}

	_, err := svc.CreateEmployee(ctx, req)
	require.NoError(t, err)

	_, err = svc.CreateEmployee(ctx, req)
	assert.ErrorIs(t, err, employee.ErrEmpIDExists)
}

func TestCreateEmployee_UnknownMestri(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateEmployee(context.Background(), employee.CreateEmployeeRequest{
		EmpID: "E001", Name: "Ravi", MestriID: "M99",
	})
	assert.ErrorIs(t, err, mestri.ErrMestriNotFound)
}

func TestCreateEmployee_Validation(t *testing.T) {
	svc, _ := newTestService()
	negative := decimal.NewFromInt(-1)

	_, err := svc.CreateEmployee(context.Background(), employee.CreateEmployeeRequest{
		PerDayWage:  &negative,
		JoiningDate: "15-06-2025",
		PhoneNumber: "12345",
		IFSC:        "sbin123",
		Status:      "Fired",
	})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	details := verrs.ToMap()
	for _, field := range []string{"emp_id", "name", "per_day_wage", "joining_date", "phone_number", "ifsc", "status"} {
		assert.Contains(t, details, field)
	}
}

func TestUpdateEmployee_Partial(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	_, err := svc.CreateEmployee(ctx, employee.CreateEmployeeRequest{EmpID: "E001", Name: "Ravi", MestriID: "M01"})
	require.NoError(t, err)

	wage := decimal.NewFromInt(650)
	m02 := "M02"
	resp, err := svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{EmpID: "E001", PerDayWage: &wage, MestriID: &m02})
	require.NoError(t, err)

	assert.Equal(t, "Ravi", resp.Name)
	assert.Equal(t, "650", resp.PerDayWage.String())
	assert.Equal(t, "M02", resp.MestriID)
}

func TestSetStatus(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	_, err := svc.CreateEmployee(ctx, employee.CreateEmployeeRequest{EmpID: "E001", Name: "Ravi"})
	require.NoError(t, err)

	resp, err := svc.SetStatus(ctx, employee.SetStatusRequest{EmpID: "E001", Status: employee.StatusLeft})
	require.NoError(t, err)
	assert.Equal(t, employee.StatusLeft, resp.Status)
	assert.Len(t, repo.byEmpID, 1, "status changes never delete the worker")

	_, err = svc.SetStatus(ctx, employee.SetStatusRequest{EmpID: "E404", Status: employee.StatusActive})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestListEmployees_RejectsUnknownStatus(t *testing.T) {
	svc, _ := newTestService()
	bad := employee.Status("Retired")

	_, err := svc.ListEmployees(context.Background(), employee.EmployeeFilter{Status: &bad})
	assert.ErrorIs(t, err, employee.ErrInvalidStatus)
}

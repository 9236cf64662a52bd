package payroll

import "context"

// PayrollRepository is the primary record store, keyed by (emp_id, month).
type PayrollRepository interface {
	ListByMonth(ctx context.Context, month Month) ([]PayrollRecord, error)
	GetByEmployeeMonth(ctx context.Context, empID string, month Month) (PayrollRecord, error)
	// Upsert replaces the record at (rec.EmpID, rec.Month), keeping its original created_at.
	Upsert(ctx context.Context, rec PayrollRecord) (PayrollRecord, error)
	ListByEmployeeAfter(ctx context.Context, empID string, month Month) ([]PayrollRecord, error)
	ListMonths(ctx context.Context) ([]Month, error)
}

// ArchiveRepository holds records written for months that have closed.
type ArchiveRepository interface {
	ListByMonth(ctx context.Context, month Month) ([]PayrollRecord, error)
	GetByEmployeeMonth(ctx context.Context, empID string, month Month) (PayrollRecord, error)
	Upsert(ctx context.Context, id string, rec PayrollRecord) (PayrollRecord, error)
	// UpsertMany writes all records in one transaction.
	UpsertMany(ctx context.Context, recs []PayrollRecord) error
	ListMonths(ctx context.Context) ([]Month, error)
}

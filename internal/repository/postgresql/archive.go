package postgresql

import (
	"context"

	"github.com/cmlabs-hris/mestri-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/mestri-payroll/internal/pkg/database"
)

type archiveRepository struct {
	recordTable
}

// NewArchiveRepository stores records written to months that have closed.
func NewArchiveRepository(db *database.DB) payroll.ArchiveRepository {
	return &archiveRepository{recordTable{db: db, table: "last_employees"}}
}

func (r *archiveRepository) ListByMonth(ctx context.Context, month payroll.Month) ([]payroll.PayrollRecord, error) {
	return r.list(ctx, "month = $1", month.String())
}

func (r *archiveRepository) GetByEmployeeMonth(ctx context.Context, empID string, month payroll.Month) (payroll.PayrollRecord, error) {
	return r.get(ctx, empID, month)
}

func (r *archiveRepository) Upsert(ctx context.Context, id string, rec payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	return r.upsert(ctx, id, rec)
}

func (r *archiveRepository) UpsertMany(ctx context.Context, recs []payroll.PayrollRecord) error {
	return WithTransaction(ctx, r.db, func(ctx context.Context) error {
		for _, rec := range recs {
			if _, err := r.upsert(ctx, rec.ID, rec); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *archiveRepository) ListMonths(ctx context.Context) ([]payroll.Month, error) {
	return r.months(ctx)
}

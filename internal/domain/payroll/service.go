package payroll

import "context"

// PayrollService defines business logic for monthly payroll sheets
type PayrollService interface {
	// GetMonth resolves the rows shown for a month
	GetMonth(ctx context.Context, month Month, filter MonthFilter) (MonthView, error)

	// UpdateRecord applies a cell edit and recomputes the record
	UpdateRecord(ctx context.Context, req UpdateRecordRequest) (RecordResponse, error)

	// CreateManualEntry creates a record for a roster employee that has none for the month
	CreateManualEntry(ctx context.Context, req ManualEntryRequest) (RecordResponse, error)

	// ImportRoster fills an empty past month with zeroed records for the roster
	ImportRoster(ctx context.Context, month Month) (ImportResult, error)

	// Summaries aggregates persisted records per month, newest first
	Summaries(ctx context.Context) ([]SummaryResponse, error)

	// Export renders the month view as a spreadsheet
	Export(ctx context.Context, month Month, format ExportFormat) (ExportFile, error)

	// Subscribe streams saved-record events for a month until ctx is done
	Subscribe(ctx context.Context, month Month) (<-chan Event, func())
}

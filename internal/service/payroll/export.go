package payroll

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cmlabs-hris/mestri-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/mestri-payroll/internal/pkg/export"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

var exportHeader = []string{
	"Month", "Name", "EmpId", "Dept", "Mestri", "Status",
	"Duties", "OT", "TotalDuties", "PH", "PerDayWage", "Wage",
	"Bus", "Food", "EB", "Shoes", "Karcha", "LastMonth", "Advance",
	"Payment", "Cash", "Balance", "CashOrAccount", "Paid",
	"AccountNumber", "IFSC", "BankHolderName",
}

var exportWidths = []float64{10, 24, 10, 14, 20, 10}

// exportRow is one spreadsheet line. Field order matches exportHeader.
type exportRow struct {
	Month          string `csv:"Month"`
	Name           string `csv:"Name"`
	EmpID          string `csv:"EmpId"`
	Dept           string `csv:"Dept"`
	Mestri         string `csv:"Mestri"`
	Status         string `csv:"Status"`
	Duties         string `csv:"Duties"`
	OT             string `csv:"OT"`
	TotalDuties    string `csv:"TotalDuties"`
	PH             string `csv:"PH"`
	PerDayWage     string `csv:"PerDayWage"`
	Wage           string `csv:"Wage"`
	Bus            string `csv:"Bus"`
	Food           string `csv:"Food"`
	EB             string `csv:"EB"`
	Shoes          string `csv:"Shoes"`
	Karcha         string `csv:"Karcha"`
	LastMonth      string `csv:"LastMonth"`
	Advance        string `csv:"Advance"`
	Payment        string `csv:"Payment"`
	Cash           string `csv:"Cash"`
	Balance        string `csv:"Balance"`
	CashOrAccount  string `csv:"CashOrAccount"`
	Paid           string `csv:"Paid"`
	AccountNumber  string `csv:"AccountNumber"`
	IFSC           string `csv:"IFSC"`
	BankHolderName string `csv:"BankHolderName"`
}

func newExportRow(rec payroll.PayrollRecord, mestriName string) exportRow {
	return exportRow{
		Month:          rec.Month.String(),
		Name:           rec.Name,
		EmpID:          rec.EmpID,
		Dept:           rec.Dept,
		Mestri:         mestriName,
		Status:         string(rec.Status),
		Duties:         rec.Duties.String(),
		OT:             rec.OT.String(),
		TotalDuties:    rec.TotalDuties.String(),
		PH:             rec.PH.String(),
		PerDayWage:     rec.PerDayWage.String(),
		Wage:           rec.TotalSalary.String(),
		Bus:            rec.Bus.String(),
		Food:           rec.Food.String(),
		EB:             rec.EB.String(),
		Shoes:          rec.Shoes.String(),
		Karcha:         rec.Karcha.String(),
		LastMonth:      rec.LastMonth.String(),
		Advance:        rec.Advance.String(),
		Payment:        rec.TotalPayment.String(),
		Cash:           rec.Cash.String(),
		Balance:        rec.Balance.String(),
		CashOrAccount:  string(rec.CashOrAccount),
		Paid:           strconv.FormatBool(rec.Paid),
		AccountNumber:  rec.AccountNumber,
		IFSC:           rec.IFSC,
		BankHolderName: rec.BankHolderName,
	}
}

// cells returns the row for a workbook, with amounts as numbers.
func cells(rec payroll.PayrollRecord, mestriName string) []any {
	num := func(d decimal.Decimal) any { return d.InexactFloat64() }
	return []any{
		rec.Month.String(), rec.Name, rec.EmpID, rec.Dept, mestriName, string(rec.Status),
		num(rec.Duties), num(rec.OT), num(rec.TotalDuties), num(rec.PH), num(rec.PerDayWage), num(rec.TotalSalary),
		num(rec.Bus), num(rec.Food), num(rec.EB), num(rec.Shoes), num(rec.Karcha), num(rec.LastMonth), num(rec.Advance),
		num(rec.TotalPayment), num(rec.Cash), num(rec.Balance), string(rec.CashOrAccount), rec.Paid,
		rec.AccountNumber, rec.IFSC, rec.BankHolderName,
	}
}

func (s *PayrollServiceImpl) Export(ctx context.Context, month payroll.Month, format payroll.ExportFormat) (payroll.ExportFile, error) {
	if format == "" {
		format = payroll.FormatXLSX
	}
	if !format.IsValid() {
		return payroll.ExportFile{}, payroll.ErrUnsupportedExportFormat
	}

	var (
		res     payroll.Resolution
		mestris map[string]string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		res, err = s.resolve(gctx, month, payroll.MonthFilter{})
		return err
	})
	g.Go(func() error {
		list, err := s.mestriRepo.List(gctx)
		if err != nil {
			return err
		}
		mestris = make(map[string]string, len(list))
		for _, m := range list {
			mestris[m.MestriID] = m.Name
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return payroll.ExportFile{}, err
	}

	mestriName := func(id string) string {
		if name, ok := mestris[id]; ok && name != "" {
			return name
		}
		return id
	}

	base := "payroll_" + month.Label()
	switch format {
	case payroll.FormatCSV:
		rows := make([]exportRow, 0, len(res.Rows))
		for _, rec := range res.Rows {
			rows = append(rows, newExportRow(rec, mestriName(rec.MestriID)))
		}
		content, err := export.CSV(rows)
		if err != nil {
			return payroll.ExportFile{}, err
		}
		return payroll.ExportFile{
			Filename:    base + ".csv",
			ContentType: export.ContentTypeCSV,
			Content:     content,
		}, nil

	default:
		sheet := export.Sheet{
			Name:   "Payroll",
			Header: exportHeader,
			Rows:   make([][]any, 0, len(res.Rows)),
			Widths: exportWidths,
		}
		for _, rec := range res.Rows {
			sheet.Rows = append(sheet.Rows, cells(rec, mestriName(rec.MestriID)))
		}
		content, err := export.XLSX(sheet)
		if err != nil {
			return payroll.ExportFile{}, fmt.Errorf("failed to export %s: %w", month, err)
		}
		return payroll.ExportFile{
			Filename:    base + ".xlsx",
			ContentType: export.ContentTypeXLSX,
			Content:     content,
		}, nil
	}
}

package payroll

import (
	"fmt"

	"github.com/hrmanagement/hrm-backend-go/internal/domain/payroll"
	"github.com/xuri/excelize/v2"
)

const (
	exportSheet       = "Payroll"
	exportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var exportHeaders = []string{
	"Month", "Base Salary", "Work Hours", "Overtime Hours", "Overtime Pay",
	"Bonus", "Gross Salary", "Deductions", "Net Salary",
}

// renderYear writes one row per payroll record plus a totals row.
func renderYear(employeeName string, year int, records []payroll.Record) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	lastCol := colName(len(exportHeaders) - 1)
	f.SetColWidth(exportSheet, "A", "A", 10)
	f.SetColWidth(exportSheet, "B", lastCol, 16)

	f.SetCellValue(exportSheet, "A1", fmt.Sprintf("%s - %d", employeeName, year))
	f.MergeCell(exportSheet, "A1", lastCol+"1")
	f.SetCellStyle(exportSheet, "A1", "A1", headerStyle)

	for i, h := range exportHeaders {
		f.SetCellValue(exportSheet, cell(colName(i), 2), h)
	}
	f.SetCellStyle(exportSheet, "A2", lastCol+"2", headerStyle)

	var totals [8]float64
	row := 3
	for _, r := range records {
		values := []float64{
			r.BaseSalary.InexactFloat64(),
			r.TotalWorkHours.InexactFloat64(),
			r.OvertimeHours.InexactFloat64(),
			r.OvertimePay.InexactFloat64(),
			r.Bonus.InexactFloat64(),
			r.GrossSalary.InexactFloat64(),
			r.Deductions.InexactFloat64(),
			r.NetSalary.InexactFloat64(),
		}
		f.SetCellValue(exportSheet, cell("A", row), fmt.Sprintf("%d-%02d", r.Year, r.Month))
		for i, v := range values {
			f.SetCellValue(exportSheet, cell(colName(i+1), row), v)
			totals[i] += v
		}
		row++
	}

	f.SetCellValue(exportSheet, cell("A", row), "Total")
	for i, v := range totals {
		f.SetCellValue(exportSheet, cell(colName(i+1), row), v)
	}
	f.SetCellStyle(exportSheet, cell("A", row), cell(lastCol, row), headerStyle)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

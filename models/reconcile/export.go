package reconcile

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const exportSheetName = "Circuit Differences"

type exportRow struct {
	changeType string
	circuit    CircuitRecord
	changes    []Difference
}

func exportRows(c Comparison) []exportRow {
	rows := make([]exportRow, 0, len(c.Added)+len(c.Removed)+len(c.Modified))
	for _, circuit := range c.Added {
		rows = append(rows, exportRow{changeType: "added", circuit: circuit})
	}
	for _, circuit := range c.Removed {
		rows = append(rows, exportRow{changeType: "removed", circuit: circuit})
	}
	for _, m := range c.Modified {
		rows = append(rows, exportRow{changeType: "modified", circuit: m.Circuit, changes: m.Differences})
	}
	return rows
}

func exportColumns(hasChanges bool) []string {
	columns := []string{
		"Type", "Carrier", "Circuit Type", "Purpose", "Bandwidth",
		"Monthly Cost", "Static IPs", "Upload Bandwidth", "Contract Term",
		"Billing", "Usage Charges", "Installation Cost",
	}
	if hasChanges {
		columns = append(columns, "Changes")
	}
	return columns
}

func (r exportRow) cellValues(hasChanges bool) []string {
	usage := "No"
	if r.circuit.UsageCharges {
		usage = "Yes"
	}
	values := []string{
		r.changeType,
		r.circuit.Carrier,
		r.circuit.Type,
		r.circuit.Purpose,
		r.circuit.Bandwidth,
		r.circuit.MonthlyCost.String(),
		fmt.Sprint(r.circuit.StaticIPs),
		r.circuit.UploadBandwidth,
		fmt.Sprint(r.circuit.ContractTerm),
		r.circuit.Billing,
		usage,
		r.circuit.InstallationCost.String(),
	}
	if hasChanges {
		formatted := make([]string, len(r.changes))
		for i, d := range r.changes {
			formatted[i] = FormatDifference(d)
		}
		values = append(values, strings.Join(formatted, "; "))
	}
	return values
}

// csvField quotes a value only when it contains a comma, quote or newline,
// doubling any embedded quotes.
func csvField(value string) string {
	if strings.ContainsAny(value, ",\"\n") {
		return "\"" + strings.ReplaceAll(value, "\"", "\"\"") + "\""
	}
	return value
}

func exportFilename(extension string) string {
	return "circuit_differences_" + time.Now().Format("2006-01-02") + "." + extension
}

// ExportCSV renders the comparison as a CSV document and returns the content
// alongside the suggested download filename. The Changes column only appears
// when the comparison holds modified circuits.
func ExportCSV(c Comparison) ([]byte, string, error) {
	rows := exportRows(c)
	hasChanges := len(c.Modified) > 0

	var buf bytes.Buffer
	for i, column := range exportColumns(hasChanges) {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(csvField(column))
	}
	buf.WriteByte('\n')
	for _, row := range rows {
		for i, value := range row.cellValues(hasChanges) {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(csvField(value))
		}
		buf.WriteByte('\n')
	}

	return buf.Bytes(), exportFilename("csv"), nil
}

// ExportExcel renders the comparison as an xlsx workbook with a single
// "Circuit Differences" sheet.
func ExportExcel(c Comparison) ([]byte, string, error) {
	rows := exportRows(c)
	hasChanges := len(c.Modified) > 0

	f := excelize.NewFile()
	index, err := f.NewSheet(exportSheetName)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, "", err
	}

	col := 'A'
	for _, column := range exportColumns(hasChanges) {
		f.SetCellValue(exportSheetName, string(col)+"1", column)
		col++
	}

	rowNo := 2
	for _, row := range rows {
		col := 'A'
		for _, value := range row.cellValues(hasChanges) {
			f.SetCellValue(exportSheetName, string(col)+fmt.Sprint(rowNo), value)
			col++
		}
		rowNo++
	}

	f.SetColWidth(exportSheetName, "A", "M", 18)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}
	return buf.Bytes(), exportFilename("xlsx"), nil
}

package reconcile

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func TestExportCSVQuoting(t *testing.T) {
	c := Comparison{
		Added: []CircuitRecord{circuit(1, "AT&T, Inc.", "DIA", "500 Mbps", 1500)},
	}

	content, filename, err := ExportCSV(c)
	if err != nil {
		t.Fatalf("ExportCSV() error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}
	if lines[0] != "Type,Carrier,Circuit Type,Purpose,Bandwidth,Monthly Cost,Static IPs,Upload Bandwidth,Contract Term,Billing,Usage Charges,Installation Cost" {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], "added,") {
		t.Errorf("added row must be typed added: %s", lines[1])
	}
	if !strings.Contains(lines[1], `"AT&T, Inc."`) {
		t.Errorf("carrier with comma must be quoted: %s", lines[1])
	}
	if strings.Contains(lines[1], `"DIA"`) {
		t.Errorf("plain values must not be quoted: %s", lines[1])
	}

	wantName := "circuit_differences_" + time.Now().Format("2006-01-02") + ".csv"
	if filename != wantName {
		t.Errorf("filename = %q, want %q", filename, wantName)
	}
}

func TestExportCSVChangesColumn(t *testing.T) {
	c := Comparison{
		Modified: []ModifiedCircuit{{
			Circuit: circuit(1, "AT&T", "MPLS", "200 Mbps", 1500),
			Differences: []Difference{
				{Field: FieldBandwidth, OldValue: "100 Mbps", NewValue: "200 Mbps"},
				{Field: FieldMonthlyCost, OldValue: decimal.NewFromInt(1000), NewValue: decimal.NewFromInt(1500)},
			},
		}},
	}

	content, _, err := ExportCSV(c)
	if err != nil {
		t.Fatalf("ExportCSV() error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	if !strings.HasSuffix(lines[0], ",Changes") {
		t.Errorf("header must carry Changes for modified rows: %s", lines[0])
	}
	if !strings.Contains(lines[1], "bandwidth: 100 Mbps → 200 Mbps; monthlycost: $1,000 → $1,500") {
		t.Errorf("changes cell missing formatted differences: %s", lines[1])
	}
	if !strings.HasPrefix(lines[1], "modified,") {
		t.Errorf("modified row must be typed modified: %s", lines[1])
	}
}

func TestExportCSVEscapesEmbeddedQuotes(t *testing.T) {
	withQuote := circuit(1, `Acme "Fiber"`, "DIA", "500 Mbps", 100)

	content, _, err := ExportCSV(Comparison{Added: []CircuitRecord{withQuote}})
	if err != nil {
		t.Fatalf("ExportCSV() error: %v", err)
	}

	if !strings.Contains(string(content), `"Acme ""Fiber"""`) {
		t.Errorf("embedded quotes must be doubled: %s", content)
	}
}

func TestExportExcel(t *testing.T) {
	c := Comparison{
		Added:   []CircuitRecord{circuit(1, "Verizon", "DIA", "500 Mbps", 1500)},
		Removed: []CircuitRecord{circuit(2, "AT&T", "MPLS", "100 Mbps", 2000)},
	}

	content, filename, err := ExportExcel(c)
	if err != nil {
		t.Fatalf("ExportExcel() error: %v", err)
	}
	if !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("filename = %q, want .xlsx suffix", filename)
	}

	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		t.Fatalf("generated workbook does not open: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(exportSheetName)
	if err != nil {
		t.Fatalf("GetRows() error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus two rows, got %d", len(rows))
	}
	if rows[0][0] != "Type" || rows[0][1] != "Carrier" {
		t.Errorf("unexpected header row: %v", rows[0])
	}
	if rows[1][0] != "added" || rows[1][1] != "Verizon" {
		t.Errorf("unexpected first data row: %v", rows[1])
	}
	if rows[2][0] != "removed" || rows[2][1] != "AT&T" {
		t.Errorf("unexpected second data row: %v", rows[2])
	}
}

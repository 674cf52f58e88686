package reconcile

import (
	"testing"

	"github.com/shopspring/decimal"
)

func circuit(id int, carrier, circuitType, bandwidth string, monthlyCost int64) CircuitRecord {
	return CircuitRecord{
		ID:              id,
		Carrier:         carrier,
		Type:            circuitType,
		Purpose:         "Primary",
		Status:          "Active",
		Bandwidth:       bandwidth,
		MonthlyCost:     decimal.NewFromInt(monthlyCost),
		StaticIPs:       5,
		UploadBandwidth: "20 Mbps",
		ContractTerm:    12,
		Billing:         "Monthly",
	}
}

func TestCompareIdenticalInputs(t *testing.T) {
	circuits := []CircuitRecord{
		circuit(1, "AT&T", "MPLS", "100 Mbps", 1000),
		circuit(2, "Verizon", "DIA", "500 Mbps", 800),
	}

	got := Compare(circuits, circuits)

	if len(got.Added) != 0 || len(got.Removed) != 0 || len(got.Modified) != 0 {
		t.Errorf("expected empty comparison, got %d added, %d removed, %d modified",
			len(got.Added), len(got.Removed), len(got.Modified))
	}
	if got.Added == nil || got.Removed == nil || got.Modified == nil {
		t.Error("expected empty slices, got nil buckets")
	}
}

func TestCompareClassifiesAllBuckets(t *testing.T) {
	active := []CircuitRecord{
		circuit(1, "AT&T", "MPLS", "100 Mbps", 1000),
		circuit(2, "Verizon", "DIA", "500 Mbps", 800),
		circuit(3, "Lumen", "Broadband", "300 Mbps", 200),
	}
	modified := circuit(1, "AT&T", "MPLS", "200 Mbps", 1500)
	added := circuit(4, "Comcast", "Broadband", "600 Mbps", 150)
	proposed := []CircuitRecord{
		modified,
		circuit(3, "Lumen", "Broadband", "300 Mbps", 200),
		added,
	}

	got := Compare(active, proposed)

	if len(got.Added) != 1 || got.Added[0].ID != added.ID {
		t.Fatalf("expected circuit %d added, got %+v", added.ID, got.Added)
	}
	if len(got.Removed) != 1 || got.Removed[0].ID != 2 {
		t.Fatalf("expected circuit 2 removed, got %+v", got.Removed)
	}
	if len(got.Modified) != 1 || got.Modified[0].Circuit.ID != 1 {
		t.Fatalf("expected circuit 1 modified, got %+v", got.Modified)
	}

	diffs := got.Modified[0].Differences
	if len(diffs) != 2 {
		t.Fatalf("expected 2 differences, got %+v", diffs)
	}
	if diffs[0].Field != FieldBandwidth || diffs[0].OldValue != "100 Mbps" || diffs[0].NewValue != "200 Mbps" {
		t.Errorf("unexpected bandwidth difference %+v", diffs[0])
	}
	if diffs[1].Field != FieldMonthlyCost {
		t.Errorf("expected monthlycost difference second, got %+v", diffs[1])
	}
}

func TestCompareIgnoresUntrackedFields(t *testing.T) {
	active := circuit(1, "AT&T", "MPLS", "100 Mbps", 1000)
	proposed := active
	proposed.Status = "Quoted"
	proposed.Notes = "renegotiated"
	proposed.LocationID = 99

	got := Compare([]CircuitRecord{active}, []CircuitRecord{proposed})

	if len(got.Modified) != 0 {
		t.Errorf("untracked field changes should not mark the circuit modified: %+v", got.Modified)
	}
}

func TestCompareDecimalEqualityIgnoresScale(t *testing.T) {
	active := circuit(1, "AT&T", "MPLS", "100 Mbps", 1000)
	proposed := active
	proposed.MonthlyCost = decimal.RequireFromString("1000.00")

	got := Compare([]CircuitRecord{active}, []CircuitRecord{proposed})

	if len(got.Modified) != 0 {
		t.Errorf("1000 and 1000.00 should compare equal: %+v", got.Modified)
	}
}

func TestCompareDuplicateIdsLastWriteWins(t *testing.T) {
	first := circuit(1, "AT&T", "MPLS", "100 Mbps", 1000)
	second := circuit(1, "AT&T", "MPLS", "200 Mbps", 1500)

	got := Compare([]CircuitRecord{first}, []CircuitRecord{first, second})

	if len(got.Modified) != 1 {
		t.Fatalf("expected one modified entry, got %+v", got.Modified)
	}
	if got.Modified[0].Circuit.Bandwidth != "200 Mbps" {
		t.Errorf("expected the later duplicate to win, got %+v", got.Modified[0].Circuit)
	}
}

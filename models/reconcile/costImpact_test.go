package reconcile

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCostImpactReplacementScenario(t *testing.T) {
	removed := circuit(1, "AT&T", "MPLS", "100 Mbps", 2000)
	added := circuit(2, "Verizon", "DIA", "500 Mbps", 1500)
	added.InstallationCost = decimal.NewFromInt(500)

	impact := CostImpact(Comparison{
		Added:   []CircuitRecord{added},
		Removed: []CircuitRecord{removed},
	})

	if !impact.MonthlyImpact.Equal(decimal.NewFromInt(-500)) {
		t.Errorf("MonthlyImpact = %s, want -500", impact.MonthlyImpact)
	}
	if !impact.OneTimeImpact.Equal(decimal.NewFromInt(500)) {
		t.Errorf("OneTimeImpact = %s, want 500", impact.OneTimeImpact)
	}
}

func TestCostImpactModifiedMonthlyCost(t *testing.T) {
	impact := CostImpact(Comparison{
		Modified: []ModifiedCircuit{{
			Circuit: circuit(1, "AT&T", "MPLS", "100 Mbps", 1500),
			Differences: []Difference{{
				Field:    FieldMonthlyCost,
				OldValue: decimal.NewFromInt(1000),
				NewValue: decimal.NewFromInt(1500),
			}},
		}},
	})

	if !impact.MonthlyImpact.Equal(decimal.NewFromInt(500)) {
		t.Errorf("MonthlyImpact = %s, want 500", impact.MonthlyImpact)
	}
	if !impact.OneTimeImpact.IsZero() {
		t.Errorf("OneTimeImpact = %s, want 0", impact.OneTimeImpact)
	}
}

func TestCostImpactModifiedInstallationCostIsSunk(t *testing.T) {
	impact := CostImpact(Comparison{
		Modified: []ModifiedCircuit{{
			Circuit: circuit(1, "AT&T", "MPLS", "100 Mbps", 1000),
			Differences: []Difference{{
				Field:    FieldInstallationCost,
				OldValue: decimal.NewFromInt(500),
				NewValue: decimal.NewFromInt(900),
			}},
		}},
	})

	if !impact.MonthlyImpact.IsZero() || !impact.OneTimeImpact.IsZero() {
		t.Errorf("installation cost changes must not affect impact, got %+v", impact)
	}
}

func TestCostImpactUnparsableValueContributesZero(t *testing.T) {
	impact := CostImpact(Comparison{
		Modified: []ModifiedCircuit{{
			Circuit: circuit(1, "AT&T", "MPLS", "100 Mbps", 1500),
			Differences: []Difference{{
				Field:    FieldMonthlyCost,
				OldValue: "not a number",
				NewValue: decimal.NewFromInt(1500),
			}},
		}},
	})

	if !impact.MonthlyImpact.IsZero() {
		t.Errorf("MonthlyImpact = %s, want 0", impact.MonthlyImpact)
	}
}

func TestCostImpactEmptyComparison(t *testing.T) {
	impact := CostImpact(Comparison{})

	if !impact.MonthlyImpact.IsZero() || !impact.OneTimeImpact.IsZero() {
		t.Errorf("expected zero impact, got %+v", impact)
	}
}

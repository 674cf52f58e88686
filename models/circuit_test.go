package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/telcoflow/circuits_backend/utils"
)

func TestCircuitToRecord(t *testing.T) {
	upload := "20 Mbps"
	circuit := Circuit{
		ID:               42,
		LocationId:       7,
		Carrier:          "AT&T",
		Type:             CircuitTypeMPLS,
		Purpose:          CircuitPurposePrimary,
		Status:           CircuitStatusActive,
		Bandwidth:        "100 Mbps",
		MonthlyCost:      decimal.NewFromInt(2000),
		StaticIps:        8,
		UploadBandwidth:  &upload,
		ContractTerm:     36,
		Billing:          BillingCycleMonthly,
		UsageCharges:     utils.NewTrue(),
		InstallationCost: decimal.NewFromInt(1200),
	}

	record := circuit.ToRecord()

	if record.ID != 42 || record.LocationID != 7 {
		t.Errorf("ids not carried over: %+v", record)
	}
	if record.Type != "MPLS" || record.Purpose != "Primary" || record.Billing != "Monthly" {
		t.Errorf("enum fields not flattened to strings: %+v", record)
	}
	if record.UploadBandwidth != "20 Mbps" {
		t.Errorf("UploadBandwidth = %q, want 20 Mbps", record.UploadBandwidth)
	}
	if !record.UsageCharges {
		t.Error("UsageCharges pointer not dereferenced")
	}
	if !record.MonthlyCost.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("MonthlyCost = %s", record.MonthlyCost)
	}
}

func TestCircuitToRecordNilPointers(t *testing.T) {
	circuit := Circuit{ID: 1, Carrier: "Lumen", Type: CircuitTypeBroadband}

	record := circuit.ToRecord()

	if record.UploadBandwidth != "" || record.Notes != "" || record.UsageCharges {
		t.Errorf("nil pointers must map to zero values: %+v", record)
	}
}

func TestEnumValidation(t *testing.T) {
	valid := []error{
		CircuitTypeDIA.Validate(),
		CircuitPurposeBackup.Validate(),
		CircuitStatusQuoted.Validate(),
		BillingCycleAnnually.Validate(),
		ProposalStatusPending.Validate(),
		LocationCriticalityLow.Validate(),
	}
	for i, err := range valid {
		if err != nil {
			t.Errorf("case %d: unexpected error %v", i, err)
		}
	}

	invalid := []error{
		CircuitType("Satellite").Validate(),
		CircuitPurpose("Tertiary").Validate(),
		CircuitStatus("Decommissioned").Validate(),
		BillingCycle("Weekly").Validate(),
		ProposalStatus("Archived").Validate(),
		LocationCriticality("Critical").Validate(),
	}
	for i, err := range invalid {
		if err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}

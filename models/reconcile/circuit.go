// Package reconcile classifies the circuits proposed for a location against
// the circuits currently in service there. It is pure computation over plain
// values: no database, cache, or network access happens here.
package reconcile

import (
	"github.com/shopspring/decimal"
)

// CircuitRecord is the flat shape of a circuit the engine consumes. Callers
// build it from storage rows (with any proposal-level overrides already
// applied) before handing it in.
type CircuitRecord struct {
	ID               int             `json:"id"`
	Carrier          string          `json:"carrier"`
	Type             string          `json:"type"`
	Purpose          string          `json:"purpose"`
	Status           string          `json:"status"`
	Bandwidth        string          `json:"bandwidth"`
	MonthlyCost      decimal.Decimal `json:"monthlycost"`
	StaticIPs        int             `json:"static_ips"`
	UploadBandwidth  string          `json:"upload_bandwidth"`
	ContractTerm     int             `json:"contract_term"`
	Billing          string          `json:"billing"`
	UsageCharges     bool            `json:"usage_charges"`
	InstallationCost decimal.Decimal `json:"installation_cost"`
	Notes            string          `json:"notes"`
	LocationID       int             `json:"location_id"`
}

// Difference is one field-level change between the active and proposed
// version of a circuit. Values keep the type of the source attribute.
type Difference struct {
	Field    string `json:"field"`
	OldValue any    `json:"oldValue"`
	NewValue any    `json:"newValue"`
}

type ModifiedCircuit struct {
	Circuit     CircuitRecord `json:"circuit"`
	Differences []Difference  `json:"differences"`
}

// Comparison is the classified result of one reconciliation run. A circuit id
// appears in at most one bucket; circuits identical on all tracked fields
// appear in none.
type Comparison struct {
	Added    []CircuitRecord   `json:"added"`
	Removed  []CircuitRecord   `json:"removed"`
	Modified []ModifiedCircuit `json:"modified"`
}

// Tracked field names. Status, id, location, notes and contract dates are
// metadata, not negotiated circuit attributes, and are never tracked.
const (
	FieldCarrier          = "carrier"
	FieldType             = "type"
	FieldPurpose          = "purpose"
	FieldBandwidth        = "bandwidth"
	FieldMonthlyCost      = "monthlycost"
	FieldStaticIPs        = "static_ips"
	FieldUploadBandwidth  = "upload_bandwidth"
	FieldContractTerm     = "contract_term"
	FieldBilling          = "billing"
	FieldUsageCharges     = "usage_charges"
	FieldInstallationCost = "installation_cost"
)

type trackedField struct {
	name  string
	value func(CircuitRecord) any
	equal func(old, new any) bool
}

func decimalEqual(old, new any) bool {
	a, okA := old.(decimal.Decimal)
	b, okB := new.(decimal.Decimal)
	if !okA || !okB {
		return old == new
	}
	return a.Equal(b)
}

// comparison order is fixed; differences are emitted in this order
var trackedFields = []trackedField{
	{name: FieldCarrier, value: func(c CircuitRecord) any { return c.Carrier }},
	{name: FieldType, value: func(c CircuitRecord) any { return c.Type }},
	{name: FieldPurpose, value: func(c CircuitRecord) any { return c.Purpose }},
	{name: FieldBandwidth, value: func(c CircuitRecord) any { return c.Bandwidth }},
	{name: FieldMonthlyCost, value: func(c CircuitRecord) any { return c.MonthlyCost }, equal: decimalEqual},
	{name: FieldStaticIPs, value: func(c CircuitRecord) any { return c.StaticIPs }},
	{name: FieldUploadBandwidth, value: func(c CircuitRecord) any { return c.UploadBandwidth }},
	{name: FieldContractTerm, value: func(c CircuitRecord) any { return c.ContractTerm }},
	{name: FieldBilling, value: func(c CircuitRecord) any { return c.Billing }},
	{name: FieldUsageCharges, value: func(c CircuitRecord) any { return c.UsageCharges }},
	{name: FieldInstallationCost, value: func(c CircuitRecord) any { return c.InstallationCost }, equal: decimalEqual},
}

package reconcile

import (
	"github.com/shopspring/decimal"
)

// Impact is the aggregate cost delta a comparison implies.
type Impact struct {
	MonthlyImpact decimal.Decimal `json:"monthlyImpact"`
	OneTimeImpact decimal.Decimal `json:"oneTimeImpact"`
}

// CostImpact totals the recurring and one-time cost deltas of a comparison.
// Installation cost counts only for added circuits: installation is a sunk,
// non-refundable event, so removals and modifications never reverse it.
func CostImpact(c Comparison) Impact {
	monthly := decimal.Zero
	oneTime := decimal.Zero

	for _, circuit := range c.Added {
		monthly = monthly.Add(circuit.MonthlyCost)
		oneTime = oneTime.Add(circuit.InstallationCost)
	}
	for _, circuit := range c.Removed {
		monthly = monthly.Sub(circuit.MonthlyCost)
	}
	for _, m := range c.Modified {
		for _, d := range m.Differences {
			if d.Field != FieldMonthlyCost {
				continue
			}
			oldCost, okOld := toDecimal(d.OldValue)
			newCost, okNew := toDecimal(d.NewValue)
			// a value that fails to parse contributes zero rather than
			// poisoning the whole aggregate
			if okOld && okNew {
				monthly = monthly.Add(newCost.Sub(oldCost))
			}
			break
		}
	}

	return Impact{
		MonthlyImpact: monthly,
		OneTimeImpact: oneTime,
	}
}

func toDecimal(value any) (decimal.Decimal, bool) {
	switch v := value.(type) {
	case decimal.Decimal:
		return v, true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int64:
		return decimal.NewFromInt(v), true
	case float64:
		return decimal.NewFromFloat(v), true
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	default:
		return decimal.Zero, false
	}
}

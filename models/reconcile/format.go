package reconcile

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatDifference renders one field-level change as "<field>: <old> → <new>".
// Booleans render as Yes/No; the two cost fields render as currency with
// thousands separators; everything else uses its natural string form.
func FormatDifference(d Difference) string {
	return fmt.Sprintf("%s: %s → %s", d.Field, formatValue(d.Field, d.OldValue), formatValue(d.Field, d.NewValue))
}

func formatValue(field string, value any) string {
	switch v := value.(type) {
	case bool:
		if v {
			return "Yes"
		}
		return "No"
	case decimal.Decimal:
		if field == FieldMonthlyCost || field == FieldInstallationCost {
			return "$" + groupThousands(v)
		}
		return v.String()
	default:
		return fmt.Sprint(value)
	}
}

// groupThousands renders a decimal with "," separators in the integer part,
// e.g. 1234567.5 -> "1,234,567.5".
func groupThousands(d decimal.Decimal) string {
	s := d.String()

	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}
	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart = s[:i]
		fracPart = s[i:]
	}

	var b strings.Builder
	n := len(intPart)
	for i, r := range intPart {
		if i > 0 && (n-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := b.String() + fracPart
	if negative {
		out = "-" + out
	}
	return out
}

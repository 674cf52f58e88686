package reconcile

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatDifferenceCurrency(t *testing.T) {
	d := Difference{
		Field:    FieldMonthlyCost,
		OldValue: decimal.NewFromInt(1000),
		NewValue: decimal.NewFromInt(1500),
	}

	got := FormatDifference(d)
	want := "monthlycost: $1,000 → $1,500"
	if got != want {
		t.Errorf("FormatDifference() = %q, want %q", got, want)
	}
}

func TestFormatDifferenceBool(t *testing.T) {
	d := Difference{Field: FieldUsageCharges, OldValue: false, NewValue: true}

	got := FormatDifference(d)
	want := "usage_charges: No → Yes"
	if got != want {
		t.Errorf("FormatDifference() = %q, want %q", got, want)
	}
}

func TestFormatDifferenceString(t *testing.T) {
	d := Difference{Field: FieldBandwidth, OldValue: "100 Mbps", NewValue: "200 Mbps"}

	got := FormatDifference(d)
	want := "bandwidth: 100 Mbps → 200 Mbps"
	if got != want {
		t.Errorf("FormatDifference() = %q, want %q", got, want)
	}
}

func TestGroupThousands(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"999", "999"},
		{"1000", "1,000"},
		{"1234567.5", "1,234,567.5"},
		{"-2500", "-2,500"},
		{"1500.25", "1,500.25"},
	}
	for _, tc := range cases {
		got := groupThousands(decimal.RequireFromString(tc.in))
		if got != tc.want {
			t.Errorf("groupThousands(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

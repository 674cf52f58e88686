package reconcile

import (
	"sort"
	"strings"
)

type FilterCategory string

const (
	CategoryAll      FilterCategory = "all"
	CategoryAdded    FilterCategory = "added"
	CategoryRemoved  FilterCategory = "removed"
	CategoryModified FilterCategory = "modified"
)

// CircuitFilter narrows a comparison. Search is a case-insensitive substring
// match over carrier, type and bandwidth; Carrier and Purpose are exact
// matches. Empty values match everything.
type CircuitFilter struct {
	Category FilterCategory `json:"category"`
	Search   string         `json:"search"`
	Carrier  string         `json:"carrier"`
	Purpose  string         `json:"purpose"`
}

type SortField string

const (
	SortByCarrier     SortField = "carrier"
	SortByType        SortField = "type"
	SortByBandwidth   SortField = "bandwidth"
	SortByMonthlyCost SortField = "monthlycost"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

type CircuitSort struct {
	Field     SortField     `json:"field"`
	Direction SortDirection `json:"direction"`
}

func (f CircuitFilter) matches(c CircuitRecord) bool {
	if f.Search != "" {
		search := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(c.Carrier), search) &&
			!strings.Contains(strings.ToLower(c.Type), search) &&
			!strings.Contains(strings.ToLower(c.Bandwidth), search) {
			return false
		}
	}
	if f.Carrier != "" && c.Carrier != f.Carrier {
		return false
	}
	if f.Purpose != "" && c.Purpose != f.Purpose {
		return false
	}
	return true
}

func (f CircuitFilter) includes(category FilterCategory) bool {
	return f.Category == "" || f.Category == CategoryAll || f.Category == category
}

// Filter returns a comparison holding only the circuits matching the filter.
// Buckets outside the selected category come back empty, never absent. For
// modified entries the predicates test the proposed circuit, not the diffs.
func Filter(c Comparison, f CircuitFilter) Comparison {
	filtered := Comparison{
		Added:    []CircuitRecord{},
		Removed:  []CircuitRecord{},
		Modified: []ModifiedCircuit{},
	}

	if f.includes(CategoryAdded) {
		for _, circuit := range c.Added {
			if f.matches(circuit) {
				filtered.Added = append(filtered.Added, circuit)
			}
		}
	}
	if f.includes(CategoryRemoved) {
		for _, circuit := range c.Removed {
			if f.matches(circuit) {
				filtered.Removed = append(filtered.Removed, circuit)
			}
		}
	}
	if f.includes(CategoryModified) {
		for _, m := range c.Modified {
			if f.matches(m.Circuit) {
				filtered.Modified = append(filtered.Modified, m)
			}
		}
	}

	return filtered
}

// compare returns <0, 0 or >0 in ascending order terms.
func (s CircuitSort) compare(a, b CircuitRecord) int {
	var cmp int
	switch s.Field {
	case SortByMonthlyCost:
		cmp = a.MonthlyCost.Cmp(b.MonthlyCost)
	case SortByType:
		cmp = compareFold(a.Type, b.Type)
	case SortByBandwidth:
		cmp = compareFold(a.Bandwidth, b.Bandwidth)
	default:
		cmp = compareFold(a.Carrier, b.Carrier)
	}
	if s.Direction == SortDesc {
		cmp = -cmp
	}
	return cmp
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// Sort orders each bucket independently with the same comparator, reading the
// proposed circuit for modified entries. Stable: equal circuits keep their
// relative input order. Inputs are never mutated.
func Sort(c Comparison, s CircuitSort) Comparison {
	sorted := Comparison{
		Added:    append([]CircuitRecord{}, c.Added...),
		Removed:  append([]CircuitRecord{}, c.Removed...),
		Modified: append([]ModifiedCircuit{}, c.Modified...),
	}

	sort.SliceStable(sorted.Added, func(i, j int) bool {
		return s.compare(sorted.Added[i], sorted.Added[j]) < 0
	})
	sort.SliceStable(sorted.Removed, func(i, j int) bool {
		return s.compare(sorted.Removed[i], sorted.Removed[j]) < 0
	})
	sort.SliceStable(sorted.Modified, func(i, j int) bool {
		return s.compare(sorted.Modified[i].Circuit, sorted.Modified[j].Circuit) < 0
	})

	return sorted
}

// CarrierOptions lists the distinct carriers present in a comparison, sorted,
// for populating filter dropdowns.
func CarrierOptions(c Comparison) []string {
	seen := map[string]bool{}
	var options []string
	collect := func(circuit CircuitRecord) {
		if !seen[circuit.Carrier] {
			seen[circuit.Carrier] = true
			options = append(options, circuit.Carrier)
		}
	}
	for _, circuit := range c.Added {
		collect(circuit)
	}
	for _, circuit := range c.Removed {
		collect(circuit)
	}
	for _, m := range c.Modified {
		collect(m.Circuit)
	}
	sort.Strings(options)
	return options
}

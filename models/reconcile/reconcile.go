package reconcile

// circuitMap keys a collection by id. Duplicate ids within one input are a
// caller error; last write wins, matching map overwrite order.
func circuitMap(circuits []CircuitRecord) map[int]CircuitRecord {
	m := make(map[int]CircuitRecord, len(circuits))
	for _, c := range circuits {
		m[c.ID] = c
	}
	return m
}

// compareFields walks the tracked fields in order and collects differences.
func compareFields(active, proposed CircuitRecord) []Difference {
	var differences []Difference
	for _, f := range trackedFields {
		oldValue := f.value(active)
		newValue := f.value(proposed)
		equal := f.equal
		if equal == nil {
			equal = func(a, b any) bool { return a == b }
		}
		if !equal(oldValue, newValue) {
			differences = append(differences, Difference{
				Field:    f.name,
				OldValue: oldValue,
				NewValue: newValue,
			})
		}
	}
	return differences
}

// Compare classifies proposed circuits against active ones into added,
// removed and modified buckets. Bucket order follows input iteration order;
// callers wanting a deterministic presentation sort downstream.
func Compare(active, proposed []CircuitRecord) Comparison {
	comparison := Comparison{
		Added:    []CircuitRecord{},
		Removed:  []CircuitRecord{},
		Modified: []ModifiedCircuit{},
	}

	activeMap := circuitMap(active)
	proposedMap := circuitMap(proposed)

	for _, p := range proposed {
		a, exists := activeMap[p.ID]
		if !exists {
			comparison.Added = append(comparison.Added, p)
			continue
		}
		if differences := compareFields(a, p); len(differences) > 0 {
			comparison.Modified = append(comparison.Modified, ModifiedCircuit{
				Circuit:     p,
				Differences: differences,
			})
		}
	}

	for _, a := range active {
		if _, exists := proposedMap[a.ID]; !exists {
			comparison.Removed = append(comparison.Removed, a)
		}
	}

	return comparison
}

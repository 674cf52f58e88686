package models

import "testing"

// NOTE: publication itself is best-effort against Redis and exercised in
// integration environments; these tests pin the channel/key naming and the
// fan-out set computed for circuit mutations.

func TestChannelAndCacheKeyNaming(t *testing.T) {
	if got := LocationCircuitsChannel(4); got != "circuits:location:4" {
		t.Errorf("location channel = %q", got)
	}
	if got := ProposalCircuitsChannel(9, 4); got != "circuits:proposal:9:location:4" {
		t.Errorf("proposal channel = %q", got)
	}
	if got := ActiveCircuitsCacheKey(4); got != "ActiveCircuits:4" {
		t.Errorf("active cache key = %q", got)
	}
	if got := ProposedCircuitsCacheKey(9, 4); got != "ProposedCircuits:9:4" {
		t.Errorf("proposed cache key = %q", got)
	}
}

func TestDedupeProposalRefsCollapsesPairs(t *testing.T) {
	refs := []ProposalCircuit{
		{ProposalId: 1, LocationId: 10},
		{ProposalId: 1, LocationId: 10},
		{ProposalId: 2, LocationId: 10},
		{ProposalId: 1, LocationId: 11},
		{ProposalId: 2, LocationId: 10},
	}

	got := dedupeProposalRefs(refs)
	want := []ProposalCircuit{
		{ProposalId: 1, LocationId: 10},
		{ProposalId: 2, LocationId: 10},
		{ProposalId: 1, LocationId: 11},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d distinct pairs, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].ProposalId != want[i].ProposalId || got[i].LocationId != want[i].LocationId {
			t.Errorf("pair %d = (%d,%d), want (%d,%d)",
				i, got[i].ProposalId, got[i].LocationId, want[i].ProposalId, want[i].LocationId)
		}
	}
}

func TestDedupeProposalRefsEmpty(t *testing.T) {
	if got := dedupeProposalRefs(nil); len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
}

package models

import (
	"context"
	"fmt"

	"github.com/telcoflow/circuits_backend/config"
)

// Change-notification channels. Subscribers receive unit events only; the
// payload carries no detail beyond "something in scope changed".

func LocationCircuitsChannel(locationId int) string {
	return fmt.Sprintf("circuits:location:%d", locationId)
}

func ProposalCircuitsChannel(proposalId int, locationId int) string {
	return fmt.Sprintf("circuits:proposal:%d:location:%d", proposalId, locationId)
}

// cache keys for the circuit views consumed by the reconciliation pipeline

func ActiveCircuitsCacheKey(locationId int) string {
	return fmt.Sprintf("ActiveCircuits:%d", locationId)
}

func ProposedCircuitsCacheKey(proposalId int, locationId int) string {
	return fmt.Sprintf("ProposedCircuits:%d:%d", proposalId, locationId)
}

// PublishLocationCircuitsChanged drops the cached active-circuit view for the
// location and notifies subscribers. Best-effort on both counts: a Redis
// failure must never fail the mutation that triggered it.
func PublishLocationCircuitsChanged(ctx context.Context, locationId int) {
	logger := config.GetLogger()
	if err := config.RemoveRedisKey(ActiveCircuitsCacheKey(locationId)); err != nil {
		config.LogError(logger, "notify.go", "PublishLocationCircuitsChanged", "invalidate cache", locationId, err)
	}
	if err := config.PublishRedis(ctx, LocationCircuitsChannel(locationId)); err != nil {
		config.LogError(logger, "notify.go", "PublishLocationCircuitsChanged", "publish", locationId, err)
	}
}

// PublishCircuitViewsChanged notifies every view a circuit participates in:
// the location's active view plus the proposed view of each proposal that
// carries the circuit.
func PublishCircuitViewsChanged(ctx context.Context, locationId int, refs []ProposalCircuit) {
	PublishLocationCircuitsChanged(ctx, locationId)
	for _, ref := range dedupeProposalRefs(refs) {
		PublishProposalCircuitsChanged(ctx, ref.ProposalId, ref.LocationId)
	}
}

// collapses duplicate (proposal, location) pairs, first-seen order preserved
func dedupeProposalRefs(refs []ProposalCircuit) []ProposalCircuit {
	seen := make(map[string]bool, len(refs))
	out := make([]ProposalCircuit, 0, len(refs))
	for _, ref := range refs {
		key := ProposedCircuitsCacheKey(ref.ProposalId, ref.LocationId)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, ref)
	}
	return out
}

// PublishProposalCircuitsChanged drops the cached proposed-circuit view for
// the (proposal, location) pair and notifies subscribers.
func PublishProposalCircuitsChanged(ctx context.Context, proposalId int, locationId int) {
	logger := config.GetLogger()
	if err := config.RemoveRedisKey(ProposedCircuitsCacheKey(proposalId, locationId)); err != nil {
		config.LogError(logger, "notify.go", "PublishProposalCircuitsChanged", "invalidate cache", proposalId, err)
	}
	if err := config.PublishRedis(ctx, ProposalCircuitsChannel(proposalId, locationId)); err != nil {
		config.LogError(logger, "notify.go", "PublishProposalCircuitsChanged", "publish", proposalId, err)
	}
}

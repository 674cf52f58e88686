package workflow

import (
	"context"

	"github.com/telcoflow/circuits_backend/models"
	"github.com/telcoflow/circuits_backend/models/reconcile"
)

// OptimisticMutation patches a cached circuit view ahead of the authoritative
// write so readers see the change immediately. Apply snapshots the view
// before patching; Rollback restores that snapshot verbatim. The two calls
// form an explicit pair so callers cannot forget the failure path.
type OptimisticMutation struct {
	Cache ViewCache
	Key   string
	Patch func(view []reconcile.CircuitRecord) []reconcile.CircuitRecord

	snapshot    []reconcile.CircuitRecord
	hadSnapshot bool
	applied     bool
}

// Apply snapshots the current cached view, then writes the patched view back.
// A cache miss means there is nothing to patch; the authoritative reload will
// pick the change up instead.
func (m *OptimisticMutation) Apply(ctx context.Context) error {
	view, found, err := m.Cache.Read(ctx, m.Key)
	if err != nil {
		return err
	}
	if !found {
		m.applied = true
		return nil
	}

	m.snapshot = append([]reconcile.CircuitRecord{}, view...)
	m.hadSnapshot = true

	if err := m.Cache.Write(ctx, m.Key, m.Patch(view)); err != nil {
		return err
	}
	m.applied = true
	return nil
}

// Rollback restores the pre-Apply snapshot. Calling it before Apply, or after
// an Apply that found no cached view, is a no-op.
func (m *OptimisticMutation) Rollback(ctx context.Context) error {
	if !m.applied || !m.hadSnapshot {
		return nil
	}
	return m.Cache.Write(ctx, m.Key, m.snapshot)
}

// RunMutation runs send under an optimistic cache patch. On success the view
// is invalidated so the next read reloads authoritative data; on failure the
// snapshot is restored and the send error returned unchanged.
func RunMutation(ctx context.Context, mutation *OptimisticMutation, send func(ctx context.Context) error) error {
	if err := mutation.Apply(ctx); err != nil {
		return err
	}
	if err := send(ctx); err != nil {
		mutation.Rollback(ctx)
		return err
	}
	return mutation.Cache.Invalidate(ctx, mutation.Key)
}

// ProposeCircuitOptimistically appends the proposed record to the cached view
// of the (proposal, location) pair while send performs the authoritative write.
func ProposeCircuitOptimistically(ctx context.Context, cache ViewCache, proposalId int, locationId int,
	record reconcile.CircuitRecord, send func(ctx context.Context) error) error {

	mutation := &OptimisticMutation{
		Cache: cache,
		Key:   models.ProposedCircuitsCacheKey(proposalId, locationId),
		Patch: func(view []reconcile.CircuitRecord) []reconcile.CircuitRecord {
			return append(view, record)
		},
	}
	return RunMutation(ctx, mutation, send)
}

// WithdrawCircuitOptimistically drops the circuit from the cached view of the
// (proposal, location) pair while send performs the authoritative delete.
func WithdrawCircuitOptimistically(ctx context.Context, cache ViewCache, proposalId int, locationId int,
	circuitId int, send func(ctx context.Context) error) error {

	mutation := &OptimisticMutation{
		Cache: cache,
		Key:   models.ProposedCircuitsCacheKey(proposalId, locationId),
		Patch: func(view []reconcile.CircuitRecord) []reconcile.CircuitRecord {
			out := make([]reconcile.CircuitRecord, 0, len(view))
			for _, r := range view {
				if r.ID != circuitId {
					out = append(out, r)
				}
			}
			return out
		},
	}
	return RunMutation(ctx, mutation, send)
}

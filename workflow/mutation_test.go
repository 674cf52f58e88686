package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/telcoflow/circuits_backend/models"
	"github.com/telcoflow/circuits_backend/models/reconcile"
)

func proposedKey() string { return models.ProposedCircuitsCacheKey(7, 3) }

func appendPatch(circuit reconcile.CircuitRecord) func([]reconcile.CircuitRecord) []reconcile.CircuitRecord {
	return func(view []reconcile.CircuitRecord) []reconcile.CircuitRecord {
		return append(view, circuit)
	}
}

func TestRunMutationSuccessInvalidatesView(t *testing.T) {
	cache := newFakeCache()
	cache.Write(context.Background(), proposedKey(), []reconcile.CircuitRecord{record(1, "AT&T", 2000)})

	mutation := &OptimisticMutation{
		Cache: cache,
		Key:   proposedKey(),
		Patch: appendPatch(record(2, "Verizon", 1500)),
	}

	err := RunMutation(context.Background(), mutation, func(ctx context.Context) error {
		// the optimistic patch must be visible while the write is in flight
		view, found, _ := cache.Read(ctx, proposedKey())
		if !found || len(view) != 2 {
			t.Errorf("expected patched view during send, got %v (found=%v)", view, found)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("RunMutation() error: %v", err)
	}

	if _, found, _ := cache.Read(context.Background(), proposedKey()); found {
		t.Error("view must be invalidated after a successful send")
	}
}

func TestRunMutationFailureRestoresSnapshot(t *testing.T) {
	cache := newFakeCache()
	original := []reconcile.CircuitRecord{record(1, "AT&T", 2000)}
	cache.Write(context.Background(), proposedKey(), original)

	mutation := &OptimisticMutation{
		Cache: cache,
		Key:   proposedKey(),
		Patch: appendPatch(record(2, "Verizon", 1500)),
	}

	sendErr := errors.New("storage rejected the write")
	err := RunMutation(context.Background(), mutation, func(ctx context.Context) error {
		return sendErr
	})
	if !errors.Is(err, sendErr) {
		t.Fatalf("RunMutation() error = %v, want the send error", err)
	}

	view, found, _ := cache.Read(context.Background(), proposedKey())
	if !found {
		t.Fatal("view missing after rollback")
	}
	if len(view) != 1 || view[0].ID != 1 {
		t.Errorf("rollback must restore the snapshot verbatim, got %v", view)
	}
}

func TestRunMutationCacheMissSkipsPatch(t *testing.T) {
	cache := newFakeCache()

	patched := false
	mutation := &OptimisticMutation{
		Cache: cache,
		Key:   proposedKey(),
		Patch: func(view []reconcile.CircuitRecord) []reconcile.CircuitRecord {
			patched = true
			return view
		},
	}

	err := RunMutation(context.Background(), mutation, func(ctx context.Context) error {
		return nil
	})
	if err != nil {
		t.Fatalf("RunMutation() error: %v", err)
	}
	if patched {
		t.Error("nothing cached means nothing to patch")
	}
}

func TestProposeCircuitOptimisticallyPatchesAndInvalidates(t *testing.T) {
	cache := newFakeCache()
	cache.Write(context.Background(), proposedKey(), []reconcile.CircuitRecord{record(1, "AT&T", 2000)})

	err := ProposeCircuitOptimistically(context.Background(), cache, 7, 3, record(2, "Verizon", 1500),
		func(ctx context.Context) error {
			view, found, _ := cache.Read(ctx, proposedKey())
			if !found || len(view) != 2 || view[1].ID != 2 {
				t.Errorf("expected appended record during send, got %v (found=%v)", view, found)
			}
			return nil
		})
	if err != nil {
		t.Fatalf("ProposeCircuitOptimistically() error: %v", err)
	}
	if _, found, _ := cache.Read(context.Background(), proposedKey()); found {
		t.Error("view must be invalidated after a successful propose")
	}
}

func TestWithdrawCircuitOptimisticallyRemovesRecord(t *testing.T) {
	cache := newFakeCache()
	cache.Write(context.Background(), proposedKey(), []reconcile.CircuitRecord{
		record(1, "AT&T", 2000),
		record(2, "Verizon", 1500),
	})

	err := WithdrawCircuitOptimistically(context.Background(), cache, 7, 3, 1,
		func(ctx context.Context) error {
			view, found, _ := cache.Read(ctx, proposedKey())
			if !found || len(view) != 1 || view[0].ID != 2 {
				t.Errorf("expected circuit 1 gone during send, got %v (found=%v)", view, found)
			}
			return nil
		})
	if err != nil {
		t.Fatalf("WithdrawCircuitOptimistically() error: %v", err)
	}
}

func TestWithdrawCircuitOptimisticallyRollsBackOnFailure(t *testing.T) {
	cache := newFakeCache()
	cache.Write(context.Background(), proposedKey(), []reconcile.CircuitRecord{
		record(1, "AT&T", 2000),
		record(2, "Verizon", 1500),
	})

	sendErr := errors.New("storage rejected the delete")
	err := WithdrawCircuitOptimistically(context.Background(), cache, 7, 3, 1,
		func(ctx context.Context) error { return sendErr })
	if !errors.Is(err, sendErr) {
		t.Fatalf("error = %v, want the send error", err)
	}

	view, found, _ := cache.Read(context.Background(), proposedKey())
	if !found || len(view) != 2 {
		t.Errorf("rollback must restore both records, got %v (found=%v)", view, found)
	}
}

func TestRollbackBeforeApplyIsNoop(t *testing.T) {
	cache := newFakeCache()
	mutation := &OptimisticMutation{Cache: cache, Key: proposedKey()}

	if err := mutation.Rollback(context.Background()); err != nil {
		t.Fatalf("Rollback() error: %v", err)
	}
	if _, found, _ := cache.Read(context.Background(), proposedKey()); found {
		t.Error("rollback must not write anything before apply")
	}
}

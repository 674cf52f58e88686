package workflow

// NOTE: These tests are intentionally DB-free and Redis-free. They validate
// the coordinator semantics with in-memory fakes:
// - a change event drops exactly the matching cached view
// - events coalesce but never get lost
// - Stop is synchronous: nothing is delivered after it returns
//
// Full Redis integration tests should be added in an environment that can run
// a Redis instance.

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/telcoflow/circuits_backend/models"
	"github.com/telcoflow/circuits_backend/models/reconcile"
)

type fakeCache struct {
	mu    sync.Mutex
	views map[string][]reconcile.CircuitRecord

	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{views: map[string][]reconcile.CircuitRecord{}}
}

func (c *fakeCache) Read(ctx context.Context, key string) ([]reconcile.CircuitRecord, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	view, found := c.views[key]
	return view, found, nil
}

func (c *fakeCache) Write(ctx context.Context, key string, circuits []reconcile.CircuitRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.views[key] = circuits
	return nil
}

func (c *fakeCache) Invalidate(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.views, key)
	c.invalidated = append(c.invalidated, key)
	return nil
}

func (c *fakeCache) invalidations() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string{}, c.invalidated...)
}

type fakeSubscription struct {
	events chan struct{}
	once   sync.Once
}

func (s *fakeSubscription) Events() <-chan struct{} { return s.events }

func (s *fakeSubscription) Close() error {
	s.once.Do(func() { close(s.events) })
	return nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	subs map[string]*fakeSubscription
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{subs: map[string]*fakeSubscription{}}
}

func (n *fakeNotifier) Subscribe(ctx context.Context, channel string) (Subscription, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	sub := &fakeSubscription{events: make(chan struct{}, 8)}
	n.subs[channel] = sub
	return sub, nil
}

func (n *fakeNotifier) publish(channel string) {
	n.mu.Lock()
	sub := n.subs[channel]
	n.mu.Unlock()
	if sub != nil {
		sub.events <- struct{}{}
	}
}

func record(id int, carrier string, monthlyCost int64) reconcile.CircuitRecord {
	return reconcile.CircuitRecord{
		ID:          id,
		Carrier:     carrier,
		Type:        "DIA",
		Purpose:     "Primary",
		Bandwidth:   "500 Mbps",
		MonthlyCost: decimal.NewFromInt(monthlyCost),
	}
}

func testCoordinator(cache ViewCache, notifier Notifier, active, proposed []reconcile.CircuitRecord) *Coordinator {
	c := newCoordinator(7, 3, cache, notifier)
	c.loadActive = func(ctx context.Context) ([]reconcile.CircuitRecord, error) {
		return active, nil
	}
	c.loadProposed = func(ctx context.Context) ([]reconcile.CircuitRecord, error) {
		return proposed, nil
	}
	return c
}

func waitEvent(t *testing.T, c *Coordinator) {
	t.Helper()
	select {
	case <-c.Events():
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for coordinator event")
	}
}

func TestCoordinatorEventInvalidatesMatchingView(t *testing.T) {
	cache := newFakeCache()
	notifier := newFakeNotifier()
	c := testCoordinator(cache, notifier, nil, nil)

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer c.Stop()

	notifier.publish(models.LocationCircuitsChannel(3))
	waitEvent(t, c)

	invalidated := cache.invalidations()
	if len(invalidated) != 1 || invalidated[0] != models.ActiveCircuitsCacheKey(3) {
		t.Errorf("expected active view invalidated, got %v", invalidated)
	}

	notifier.publish(models.ProposalCircuitsChannel(7, 3))
	waitEvent(t, c)

	invalidated = cache.invalidations()
	if len(invalidated) != 2 || invalidated[1] != models.ProposedCircuitsCacheKey(7, 3) {
		t.Errorf("expected proposed view invalidated second, got %v", invalidated)
	}
}

func TestCoordinatorLoadComparisonReadsThrough(t *testing.T) {
	cache := newFakeCache()
	active := []reconcile.CircuitRecord{record(1, "AT&T", 2000)}
	proposed := []reconcile.CircuitRecord{record(2, "Verizon", 1500)}
	c := testCoordinator(cache, newFakeNotifier(), active, proposed)

	comparison, err := c.LoadComparison(context.Background())
	if err != nil {
		t.Fatalf("LoadComparison() error: %v", err)
	}
	if len(comparison.Added) != 1 || len(comparison.Removed) != 1 {
		t.Fatalf("unexpected comparison %+v", comparison)
	}

	// loaded views must now be cached
	if _, found, _ := cache.Read(context.Background(), models.ActiveCircuitsCacheKey(3)); !found {
		t.Error("active view not cached after load")
	}
	if _, found, _ := cache.Read(context.Background(), models.ProposedCircuitsCacheKey(7, 3)); !found {
		t.Error("proposed view not cached after load")
	}
}

func TestCoordinatorPrefersCachedView(t *testing.T) {
	cache := newFakeCache()
	cache.Write(context.Background(), models.ActiveCircuitsCacheKey(3),
		[]reconcile.CircuitRecord{record(9, "Lumen", 300)})
	cache.Write(context.Background(), models.ProposedCircuitsCacheKey(7, 3),
		[]reconcile.CircuitRecord{})

	loaderCalled := false
	c := testCoordinator(cache, newFakeNotifier(), nil, nil)
	c.loadActive = func(ctx context.Context) ([]reconcile.CircuitRecord, error) {
		loaderCalled = true
		return nil, nil
	}

	comparison, err := c.LoadComparison(context.Background())
	if err != nil {
		t.Fatalf("LoadComparison() error: %v", err)
	}
	if loaderCalled {
		t.Error("loader must not run on a cache hit")
	}
	if len(comparison.Removed) != 1 || comparison.Removed[0].ID != 9 {
		t.Errorf("expected circuit 9 removed, got %+v", comparison)
	}
}

func TestCoordinatorStopIsSynchronous(t *testing.T) {
	notifier := newFakeNotifier()
	c := testCoordinator(newFakeCache(), notifier, nil, nil)

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	c.Stop()

	// Events must be closed, not pending
	select {
	case _, ok := <-c.Events():
		if ok {
			t.Error("received an event after Stop")
		}
	default:
		t.Error("events channel still open after Stop")
	}
}

func TestCoordinatorCoalescesBursts(t *testing.T) {
	notifier := newFakeNotifier()
	c := testCoordinator(newFakeCache(), notifier, nil, nil)

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer c.Stop()

	for i := 0; i < 5; i++ {
		notifier.publish(models.LocationCircuitsChannel(3))
	}

	// at least one event arrives; the burst never deadlocks the pump
	waitEvent(t, c)
}

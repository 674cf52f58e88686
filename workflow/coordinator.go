package workflow

import (
	"context"
	"sync"

	"github.com/telcoflow/circuits_backend/models"
	"github.com/telcoflow/circuits_backend/models/reconcile"
)

// CircuitSource loads one circuit view from authoritative storage.
type CircuitSource func(ctx context.Context) ([]reconcile.CircuitRecord, error)

// Coordinator keeps the comparison for one (proposal, location) pair current.
// It subscribes to the pair's change channels, drops the matching cached view
// when an event lands and forwards a unit event to its consumer. Loads go
// through the cache read-through, so a consumer reacting to an event gets
// fresh data on the next LoadComparison call.
type Coordinator struct {
	proposalId int
	locationId int

	cache        ViewCache
	notifier     Notifier
	loadActive   CircuitSource
	loadProposed CircuitSource

	mu      sync.Mutex
	started bool
	subs    []Subscription
	wg      sync.WaitGroup
	events  chan struct{}
}

// NewCoordinator wires a coordinator against the production model loaders.
func NewCoordinator(proposalId int, locationId int, cache ViewCache, notifier Notifier) *Coordinator {
	c := newCoordinator(proposalId, locationId, cache, notifier)
	c.loadActive = func(ctx context.Context) ([]reconcile.CircuitRecord, error) {
		return models.GetActiveCircuits(ctx, locationId)
	}
	c.loadProposed = func(ctx context.Context) ([]reconcile.CircuitRecord, error) {
		return models.GetProposedCircuits(ctx, proposalId, locationId)
	}
	return c
}

func newCoordinator(proposalId int, locationId int, cache ViewCache, notifier Notifier) *Coordinator {
	return &Coordinator{
		proposalId: proposalId,
		locationId: locationId,
		cache:      cache,
		notifier:   notifier,
		events:     make(chan struct{}, 1),
	}
}

// Events signals that the comparison for this pair may have changed. Unit
// events, coalesced: a burst of storage changes can surface as one event.
func (c *Coordinator) Events() <-chan struct{} {
	return c.events
}

// Start subscribes to both change channels. Calling Start twice is an error
// on the caller's side; the second call is a no-op.
func (c *Coordinator) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return nil
	}

	feeds := []struct {
		channel  string
		cacheKey string
	}{
		{models.LocationCircuitsChannel(c.locationId), models.ActiveCircuitsCacheKey(c.locationId)},
		{models.ProposalCircuitsChannel(c.proposalId, c.locationId), models.ProposedCircuitsCacheKey(c.proposalId, c.locationId)},
	}

	for _, feed := range feeds {
		sub, err := c.notifier.Subscribe(ctx, feed.channel)
		if err != nil {
			c.teardownLocked()
			return err
		}
		c.subs = append(c.subs, sub)

		c.wg.Add(1)
		go c.pump(sub, feed.cacheKey)
	}

	c.started = true
	return nil
}

func (c *Coordinator) pump(sub Subscription, cacheKey string) {
	defer c.wg.Done()
	for range sub.Events() {
		c.cache.Invalidate(context.Background(), cacheKey)
		select {
		case c.events <- struct{}{}:
		default:
		}
	}
}

// Stop closes the subscriptions and waits for the pumps to drain. After Stop
// returns no further event is delivered on Events.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	c.teardownLocked()
	started := c.started
	c.started = false
	c.mu.Unlock()

	c.wg.Wait()
	if started {
		close(c.events)
	}
}

func (c *Coordinator) teardownLocked() {
	for _, sub := range c.subs {
		sub.Close()
	}
	c.subs = nil
}

// LoadComparison builds the pair's comparison from the cached views, loading
// through to storage on a miss. Cache failures degrade to a plain load.
func (c *Coordinator) LoadComparison(ctx context.Context) (reconcile.Comparison, error) {
	active, err := c.loadView(ctx, models.ActiveCircuitsCacheKey(c.locationId), c.loadActive)
	if err != nil {
		return reconcile.Comparison{}, err
	}
	proposed, err := c.loadView(ctx, models.ProposedCircuitsCacheKey(c.proposalId, c.locationId), c.loadProposed)
	if err != nil {
		return reconcile.Comparison{}, err
	}
	return reconcile.Compare(active, proposed), nil
}

func (c *Coordinator) loadView(ctx context.Context, cacheKey string, load CircuitSource) ([]reconcile.CircuitRecord, error) {
	if cached, found, err := c.cache.Read(ctx, cacheKey); err == nil && found {
		return cached, nil
	}
	circuits, err := load(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.Write(ctx, cacheKey, circuits)
	return circuits, nil
}

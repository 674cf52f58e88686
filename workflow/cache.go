package workflow

import (
	"context"

	"github.com/telcoflow/circuits_backend/config"
	"github.com/telcoflow/circuits_backend/models/reconcile"
	"github.com/telcoflow/circuits_backend/utils"
)

// ViewCache holds materialized circuit views between reloads. The coordinator
// only ever talks to this interface so tests can swap in an in-memory map.
type ViewCache interface {
	Read(ctx context.Context, key string) ([]reconcile.CircuitRecord, bool, error)
	Write(ctx context.Context, key string, circuits []reconcile.CircuitRecord) error
	Invalidate(ctx context.Context, key string) error
}

type redisViewCache struct{}

// NewRedisViewCache returns the production cache backed by the shared Redis
// client. Entries expire after the configured cache lifespan.
func NewRedisViewCache() ViewCache {
	return redisViewCache{}
}

func (redisViewCache) Read(ctx context.Context, key string) ([]reconcile.CircuitRecord, bool, error) {
	var circuits []reconcile.CircuitRecord
	found, err := config.GetRedisObject(key, &circuits)
	if err != nil || !found {
		return nil, false, err
	}
	return circuits, true, nil
}

func (redisViewCache) Write(ctx context.Context, key string, circuits []reconcile.CircuitRecord) error {
	return config.SetRedisObject(key, circuits, utils.GetCacheLifespan())
}

func (redisViewCache) Invalidate(ctx context.Context, key string) error {
	return config.RemoveRedisKey(key)
}

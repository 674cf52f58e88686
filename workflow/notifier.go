package workflow

import (
	"context"
	"errors"
	"sync"

	"github.com/telcoflow/circuits_backend/config"
)

// Subscription is one live feed of unit change events. Events carries no
// payload; receiving means "reload whatever you derived from this channel".
// Close tears the feed down and is safe to call more than once.
type Subscription interface {
	Events() <-chan struct{}
	Close() error
}

// Notifier hands out subscriptions to named change channels.
type Notifier interface {
	Subscribe(ctx context.Context, channel string) (Subscription, error)
}

type redisNotifier struct{}

// NewRedisNotifier returns the production notifier backed by Redis pub/sub.
func NewRedisNotifier() Notifier {
	return redisNotifier{}
}

type redisSubscription struct {
	pubsub interface {
		Close() error
	}
	events    chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

func (n redisNotifier) Subscribe(ctx context.Context, channel string) (Subscription, error) {
	pubsub := config.SubscribeRedis(ctx, channel)
	if pubsub == nil {
		return nil, errors.New("redis not connected")
	}
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, err
	}

	sub := &redisSubscription{
		pubsub: pubsub,
		events: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}

	go func() {
		defer close(sub.events)
		for {
			select {
			case <-sub.done:
				return
			case _, ok := <-pubsub.Channel():
				if !ok {
					return
				}
				// coalesce: one pending event is enough
				select {
				case sub.events <- struct{}{}:
				default:
				}
			}
		}
	}()

	return sub, nil
}

func (s *redisSubscription) Events() <-chan struct{} {
	return s.events
}

func (s *redisSubscription) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.pubsub.Close()
	})
	return err
}

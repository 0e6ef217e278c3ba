package live

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	publishTimeout = 2 * time.Second

	minRetryDelay = 500 * time.Millisecond
	maxRetryDelay = 30 * time.Second
)

// RedisRelay fans the signal out to every API instance through a Redis
// channel. Each instance, the publisher included, forwards received messages
// to its local hub. While this instance is not subscribed, local sessions are
// signalled directly.
type RedisRelay struct {
	client     *redis.Client
	channel    string
	hub        *Hub
	log        *zap.Logger
	subscribed atomic.Bool
}

func NewRedisRelay(client *redis.Client, channel string, hub *Hub, log *zap.Logger) *RedisRelay {
	return &RedisRelay{client: client, channel: channel, hub: hub, log: log}
}

// Subscribed reports whether the relay currently receives channel messages.
func (r *RedisRelay) Subscribed() bool {
	return r.subscribed.Load()
}

func (r *RedisRelay) BroadcastIdeasChanged(ctx context.Context) {
	if !r.subscribed.Load() {
		r.hub.BroadcastIdeasChanged(ctx)
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := r.client.Publish(ctx, r.channel, EventIdeasUpdated).Err(); err != nil {
		r.log.Warn("live publish failed, signalling local sessions only",
			zap.String("channel", r.channel), zap.Error(err))
		if r.subscribed.Load() {
			r.hub.BroadcastIdeasChanged(ctx)
		}
	}
}

// Run keeps a subscription open until ctx is done, resubscribing with
// exponential backoff whenever it drops.
func (r *RedisRelay) Run(ctx context.Context) {
	delay := minRetryDelay
	for {
		started := time.Now()
		err := r.subscribe(ctx)
		if ctx.Err() != nil {
			return
		}

		if time.Since(started) > maxRetryDelay {
			delay = minRetryDelay
		}
		r.log.Warn("live relay disconnected, retrying",
			zap.String("channel", r.channel), zap.Duration("retry_in", delay), zap.Error(err))

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
		delay = min(delay*2, maxRetryDelay)
	}
}

func (r *RedisRelay) subscribe(ctx context.Context) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	r.subscribed.Store(true)
	defer r.subscribed.Store(false)
	r.log.Info("live relay subscribed", zap.String("channel", r.channel))

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return redis.ErrClosed
			}
			if msg.Payload == EventIdeasUpdated {
				r.hub.BroadcastIdeasChanged(ctx)
			}
		}
	}
}

package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/aiox-platform/vtuber/internal/ingest"
)

// CommentFeed receives comment events published on a Redis pub/sub channel.
type CommentFeed struct {
	client  *redis.Client
	channel string
}

// NewCommentFeed creates a feed for the given channel.
func NewCommentFeed(client *redis.Client, channel string) *CommentFeed {
	return &CommentFeed{client: client, channel: channel}
}

// Subscribe opens a subscription and waits for the server to confirm it.
func (f *CommentFeed) Subscribe(ctx context.Context) (ingest.Subscription, error) {
	ps := f.client.Subscribe(ctx, f.channel)
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, fmt.Errorf("subscribing to %s: %w", f.channel, err)
	}
	return &pubSubSubscription{ps: ps}, nil
}

type pubSubSubscription struct {
	ps *redis.PubSub
}

// Next blocks until the next message. A receive error means the
// connection dropped and the subscription should be replaced.
func (s *pubSubSubscription) Next(ctx context.Context) ([]byte, error) {
	msg, err := s.ps.ReceiveMessage(ctx)
	if err != nil {
		return nil, fmt.Errorf("receiving comment: %w", err)
	}
	return []byte(msg.Payload), nil
}

func (s *pubSubSubscription) Close() error {
	return s.ps.Close()
}

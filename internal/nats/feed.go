package nats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/aiox-platform/vtuber/internal/ingest"
)

// CommentFeed reads comment events from the VTUBER_COMMENTS stream.
type CommentFeed struct {
	consumers *ConsumerManager
	subject   string
}

// NewCommentFeed creates a feed bound to the given subject.
func NewCommentFeed(js jetstream.JetStream, subject string) *CommentFeed {
	return &CommentFeed{consumers: NewConsumerManager(js), subject: subject}
}

// Subscribe ensures the durable consumer exists and returns a pull subscription.
func (f *CommentFeed) Subscribe(ctx context.Context) (ingest.Subscription, error) {
	consumer, err := f.consumers.EnsureConsumer(ctx, StreamComments, ConsumerComments, f.subject)
	if err != nil {
		return nil, err
	}
	return &pullSubscription{consumer: consumer}, nil
}

type pullSubscription struct {
	consumer jetstream.Consumer
	pending  []jetstream.Msg
}

// Next returns the next comment payload, fetching a new batch when the
// local buffer is empty. Messages are acked as they are handed out.
func (s *pullSubscription) Next(ctx context.Context) ([]byte, error) {
	for len(s.pending) == 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.fetch(); err != nil {
			return nil, err
		}
	}

	msg := s.pending[0]
	s.pending = s.pending[1:]
	if err := msg.Ack(); err != nil {
		slog.Warn("comments: acking message", "error", err)
	}
	return msg.Data(), nil
}

func (s *pullSubscription) fetch() error {
	msgs, err := s.consumer.Fetch(FetchBatch, jetstream.FetchMaxWait(FetchTimeout))
	if err != nil {
		if isIdle(err) {
			return nil
		}
		return fmt.Errorf("fetching comments: %w", err)
	}

	for msg := range msgs.Messages() {
		s.pending = append(s.pending, msg)
	}
	if err := msgs.Error(); err != nil && !isIdle(err) {
		return fmt.Errorf("fetching comments: %w", err)
	}
	return nil
}

func (s *pullSubscription) Close() error {
	for _, msg := range s.pending {
		_ = msg.Nak()
	}
	s.pending = nil
	return nil
}

func isIdle(err error) bool {
	return errors.Is(err, nats.ErrTimeout) || errors.Is(err, jetstream.ErrNoMessages)
}

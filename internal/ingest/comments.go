package ingest

import (
	"context"
	"log/slog"

	"github.com/aiox-platform/vtuber/internal/metrics"
	"github.com/aiox-platform/vtuber/internal/pool"
)

// CommentFeed is an external event stream of audience comments.
type CommentFeed interface {
	Subscribe(ctx context.Context) (Subscription, error)
}

// Subscription yields raw events one at a time. Next returns an error when
// the underlying connection is lost; the producer then resubscribes.
type Subscription interface {
	Next(ctx context.Context) ([]byte, error)
	Close() error
}

// AuthorLimiter caps how often a single author may enter the pool.
type AuthorLimiter interface {
	Allow(ctx context.Context, author string) (bool, error)
}

// CommentSink receives parsed comments.
type CommentSink interface {
	PushComment(c pool.Comment) pool.Comment
}

// CommentProducer consumes the feed and appends every acceptable event to the sink.
type CommentProducer struct {
	feed    CommentFeed
	sink    CommentSink
	limiter AuthorLimiter
	dedupe  *Deduper
	backoff BackoffConfig
}

// CommentOption customises a CommentProducer.
type CommentOption func(*CommentProducer)

// WithAuthorLimiter drops comments from authors over their rate.
func WithAuthorLimiter(l AuthorLimiter) CommentOption {
	return func(p *CommentProducer) { p.limiter = l }
}

// WithDeduper drops repeated comments.
func WithDeduper(d *Deduper) CommentOption {
	return func(p *CommentProducer) { p.dedupe = d }
}

// WithCommentBackoff overrides the resubscription backoff.
func WithCommentBackoff(b BackoffConfig) CommentOption {
	return func(p *CommentProducer) { p.backoff = b }
}

// NewCommentProducer creates a producer reading feed into sink.
func NewCommentProducer(feed CommentFeed, sink CommentSink, opts ...CommentOption) *CommentProducer {
	p := &CommentProducer{
		feed:    feed,
		sink:    sink,
		backoff: DefaultBackoff(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Run consumes events until ctx is cancelled. Feed failures are retried
// with backoff and never returned.
func (p *CommentProducer) Run(ctx context.Context) error {
	b := p.backoff.newBackOff()

	for {
		sub, err := p.feed.Subscribe(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			slog.Warn("comments: subscribing to feed", "error", err)
			if !sleepBackOff(ctx, b) {
				return nil
			}
			continue
		}

		slog.Info("comments: subscribed to feed")
		b.Reset()

		err = p.consume(ctx, sub)
		if cerr := sub.Close(); cerr != nil {
			slog.Debug("comments: closing subscription", "error", cerr)
		}
		if ctx.Err() != nil {
			return nil
		}

		slog.Warn("comments: feed disconnected, resubscribing", "error", err)
		if !sleepBackOff(ctx, b) {
			return nil
		}
	}
}

func (p *CommentProducer) consume(ctx context.Context, sub Subscription) error {
	for {
		raw, err := sub.Next(ctx)
		if err != nil {
			return err
		}
		p.handle(ctx, raw)
	}
}

func (p *CommentProducer) handle(ctx context.Context, raw []byte) {
	c, err := ParseComment(raw)
	if err != nil {
		metrics.CommentsDroppedTotal.WithLabelValues("malformed").Inc()
		slog.Warn("comments: dropping malformed event", "error", err, "bytes", len(raw))
		return
	}

	if p.dedupe != nil && p.dedupe.Seen(c.Author, c.Text) {
		metrics.CommentsDroppedTotal.WithLabelValues("duplicate").Inc()
		slog.Debug("comments: dropping duplicate", "author", c.Author)
		return
	}

	if p.limiter != nil && c.Author != "" {
		allowed, err := p.limiter.Allow(ctx, c.Author)
		switch {
		case err != nil:
			// Fail open: a limiter outage must not stop ingestion.
			slog.Warn("comments: spam guard unavailable", "error", err)
		case !allowed:
			metrics.CommentsDroppedTotal.WithLabelValues("rate_limited").Inc()
			slog.Debug("comments: author over rate limit", "author", c.Author)
			return
		}
	}

	stored := p.sink.PushComment(c)
	metrics.CommentsIngestedTotal.Inc()
	slog.Debug("comments: received",
		"id", stored.ID,
		"author", stored.Author,
		"weight", stored.Weight,
	)
}

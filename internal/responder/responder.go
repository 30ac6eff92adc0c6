// Package responder drives the single loop that picks one pending item per
// cycle, generates a reply, voices it and records the exchange.
package responder

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aiox-platform/vtuber/internal/generation"
	"github.com/aiox-platform/vtuber/internal/memory"
	"github.com/aiox-platform/vtuber/internal/metrics"
	inats "github.com/aiox-platform/vtuber/internal/nats"
	"github.com/aiox-platform/vtuber/internal/personality"
	"github.com/aiox-platform/vtuber/internal/pool"
	"github.com/aiox-platform/vtuber/internal/synthesis"
)

// Source names the branch of selection that fired in a cycle.
type Source string

const (
	SourceUtterance Source = "utterance"
	SourceComment   Source = "comment"
	SourceFallback  Source = "fallback"
)

// Outcome is how a cycle ended.
type Outcome string

const (
	OutcomeReplied          Outcome = "replied"
	OutcomeSynthesisFailed  Outcome = "synthesis_failed"
	OutcomeGenerationFailed Outcome = "generation_failed"
)

// Pools is the part of the pool store the responder consumes.
type Pools interface {
	PopOldestUtterance() (pool.Utterance, bool)
	TakeTopComment() (pool.Comment, bool)
	SnapshotMemory() []memory.Entry
	AppendMemory(e memory.Entry) memory.Entry
}

// EventPublisher receives a record of every exchange that produced a reply.
type EventPublisher interface {
	PublishExchange(ctx context.Context, event inats.ExchangeEvent) error
}

// Config controls cadence and per-call deadlines.
type Config struct {
	Cadence           time.Duration
	FallbackPrompt    string
	GenerationTimeout time.Duration
	SynthesisTimeout  time.Duration
}

// Result describes one completed cycle.
type Result struct {
	CycleID string
	Source  Source
	Outcome Outcome
	Input   string
	Reply   string
	Entry   memory.Entry // zero when generation failed
	Err     error
}

// Responder is the consumer side of the pool store.
type Responder struct {
	cfg       Config
	pools     Pools
	generator generation.Generator
	voice     synthesis.Synthesizer
	profile   *personality.Profile
	publisher EventPublisher
	now       func() time.Time
}

// Option customises a Responder.
type Option func(*Responder)

// WithPublisher publishes an event after every exchange.
func WithPublisher(p EventPublisher) Option {
	return func(r *Responder) { r.publisher = p }
}

// WithClock overrides the clock used to stamp ledger entries.
func WithClock(now func() time.Time) Option {
	return func(r *Responder) { r.now = now }
}

// New creates a Responder.
func New(
	cfg Config,
	pools Pools,
	generator generation.Generator,
	voice synthesis.Synthesizer,
	profile *personality.Profile,
	opts ...Option,
) *Responder {
	r := &Responder{
		cfg:       cfg,
		pools:     pools,
		generator: generator,
		voice:     voice,
		profile:   profile,
		now:       time.Now,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run executes one cycle per cadence tick until ctx is cancelled.
func (r *Responder) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.cfg.Cadence)
	defer ticker.Stop()

	slog.Info("responder started", "cadence", r.cfg.Cadence)

	for {
		select {
		case <-ctx.Done():
			slog.Info("responder stopped")
			return nil
		case <-ticker.C:
			r.RunCycle(ctx)
		}
	}
}

// RunCycle performs selection, generation, synthesis and memory update once.
// A consumed item whose generation fails is dropped, never re-queued.
func (r *Responder) RunCycle(ctx context.Context) Result {
	res := Result{CycleID: uuid.NewString()}

	var role memory.Role
	res.Source, role, res.Input = r.selectInput()

	log := slog.With("cycle", res.CycleID, "source", res.Source)

	req := generation.Request{
		History: r.pools.SnapshotMemory(),
		Input:   res.Input,
		Role:    role,
		Profile: r.profile,
	}

	reply, err := r.generate(ctx, req)
	if err != nil {
		res.Outcome = OutcomeGenerationFailed
		res.Err = err
		metrics.CyclesTotal.WithLabelValues(string(res.Source), string(res.Outcome)).Inc()
		log.Error("responder: generation failed, dropping input", "error", err, "input", res.Input)
		return res
	}
	res.Reply = reply
	res.Outcome = OutcomeReplied

	if err := r.synthesize(ctx, reply); err != nil {
		res.Outcome = OutcomeSynthesisFailed
		res.Err = err
		metrics.SynthesisFailuresTotal.Inc()
		log.Error("responder: synthesis failed", "error", err)
	}

	entry := memory.Entry{Role: role, Reply: reply, CreatedAt: r.now()}
	if role != memory.RoleSelf {
		entry.Input = res.Input
	}
	res.Entry = r.pools.AppendMemory(entry)

	metrics.CyclesTotal.WithLabelValues(string(res.Source), string(res.Outcome)).Inc()
	log.Info("responder: replied", "seq", res.Entry.Seq, "reply", reply, "synthesized", res.Err == nil)

	r.publish(ctx, res)
	return res
}

func (r *Responder) selectInput() (Source, memory.Role, string) {
	if u, ok := r.pools.PopOldestUtterance(); ok {
		return SourceUtterance, memory.RoleListener, u.Text
	}
	if c, ok := r.pools.TakeTopComment(); ok {
		return SourceComment, memory.RoleViewer, c.Text
	}
	return SourceFallback, memory.RoleSelf, r.cfg.FallbackPrompt
}

func (r *Responder) generate(ctx context.Context, req generation.Request) (string, error) {
	ctx, cancel := withOptionalTimeout(ctx, r.cfg.GenerationTimeout)
	defer cancel()

	start := time.Now()
	reply, err := awaitCall(ctx, func() (string, error) {
		return r.generator.Generate(ctx, req)
	})
	metrics.GenerationDuration.Observe(time.Since(start).Seconds())
	return reply, err
}

func (r *Responder) synthesize(ctx context.Context, text string) error {
	ctx, cancel := withOptionalTimeout(ctx, r.cfg.SynthesisTimeout)
	defer cancel()
	_, err := awaitCall(ctx, func() (struct{}, error) {
		return struct{}{}, r.voice.Synthesize(ctx, text)
	})
	return err
}

func (r *Responder) publish(ctx context.Context, res Result) {
	if r.publisher == nil {
		return
	}
	event := inats.ExchangeEvent{
		ID:          uuid.NewString(),
		CycleID:     res.CycleID,
		Source:      string(res.Source),
		Input:       res.Input,
		Reply:       res.Reply,
		Seq:         res.Entry.Seq,
		Synthesized: res.Outcome == OutcomeReplied,
		Timestamp:   res.Entry.CreatedAt.UTC(),
	}
	if err := r.publisher.PublishExchange(ctx, event); err != nil {
		slog.Warn("responder: publishing exchange event", "error", err, "cycle", res.CycleID)
	}
}

func withOptionalTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// awaitCall runs fn in its own goroutine and returns as soon as either fn
// finishes or ctx is done, so an adapter that ignores ctx cannot stall the
// cycle. An abandoned call finishes in the background and its result is dropped.
func awaitCall[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	type result struct {
		val T
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := fn()
		done <- result{v, err}
	}()
	select {
	case res := <-done:
		return res.val, res.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

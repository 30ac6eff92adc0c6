package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nats-io/nats.go"
	"golang.org/x/sync/errgroup"

	"github.com/aiox-platform/vtuber/internal/api"
	"github.com/aiox-platform/vtuber/internal/config"
	"github.com/aiox-platform/vtuber/internal/generation"
	"github.com/aiox-platform/vtuber/internal/ingest"
	inats "github.com/aiox-platform/vtuber/internal/nats"
	"github.com/aiox-platform/vtuber/internal/personality"
	"github.com/aiox-platform/vtuber/internal/pool"
	iredis "github.com/aiox-platform/vtuber/internal/redis"
	"github.com/aiox-platform/vtuber/internal/responder"
	"github.com/aiox-platform/vtuber/internal/server"
	"github.com/aiox-platform/vtuber/internal/spamguard"
	"github.com/aiox-platform/vtuber/internal/synthesis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	profile, err := personality.Load(cfg.Personality.File)
	if err != nil {
		slog.Error("loading personality", "error", err, "file", cfg.Personality.File)
		os.Exit(1)
	}
	slog.Info("personality loaded", "name", profile.Name)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Redis
	redisClient, err := iredis.NewClient(ctx, cfg.Redis)
	if err != nil {
		slog.Error("connecting to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	// NATS (optional)
	var natsClient *inats.Client
	var natsConn *nats.Conn
	if cfg.NATS.Enabled() {
		natsClient, err = inats.NewClient(ctx, cfg.NATS, cfg.Feed.Subject)
		if err != nil {
			slog.Error("connecting to nats", "error", err)
			os.Exit(1)
		}
		defer natsClient.Close()
		natsConn = natsClient.Conn()
	}

	// Adapters
	generator, err := generation.New(ctx, cfg.Generation)
	if err != nil {
		slog.Error("creating generator", "error", err)
		os.Exit(1)
	}
	voice, err := synthesis.New(cfg.Synthesis, natsConn)
	if err != nil {
		slog.Error("creating synthesizer", "error", err)
		os.Exit(1)
	}

	store := pool.NewStore(pool.Config{
		MaxComments:    cfg.Pools.MaxComments,
		MaxUtterances:  cfg.Pools.MaxUtterances,
		LedgerCapacity: cfg.Pools.LedgerCapacity,
	})

	// Producers
	var feed ingest.CommentFeed
	switch cfg.Feed.Source {
	case "nats":
		feed = inats.NewCommentFeed(natsClient.JetStream(), cfg.Feed.Subject)
	default:
		feed = iredis.NewCommentFeed(redisClient, cfg.Feed.Channel)
	}

	commentOpts := []ingest.CommentOption{}
	if cfg.SpamGuard.MaxPerMinute > 0 {
		commentOpts = append(commentOpts, ingest.WithAuthorLimiter(spamguard.NewRateLimiter(redisClient, cfg.SpamGuard.MaxPerMinute)))
	}
	if cfg.SpamGuard.DedupeWindow > 0 {
		commentOpts = append(commentOpts, ingest.WithDeduper(ingest.NewDeduper(cfg.SpamGuard.DedupeSize, cfg.SpamGuard.DedupeWindow)))
	}
	comments := ingest.NewCommentProducer(feed, store, commentOpts...)

	speech := iredis.NewSpeechQueue(redisClient, cfg.Speech.Queue, cfg.Speech.PollTimeout)
	utterances := ingest.NewUtteranceProducer(speech, store, cfg.Speech.ActivationPhrase, ingest.DefaultBackoff())

	// Consumers
	sweeper := responder.NewSweeper(store, cfg.Pools.SweepInterval, cfg.Pools.CommentHorizon)

	var responderOpts []responder.Option
	if natsClient != nil {
		responderOpts = append(responderOpts, responder.WithPublisher(inats.NewPublisher(natsClient.JetStream())))
	}
	loop := responder.New(responder.Config{
		Cadence:           cfg.Responder.Cadence,
		FallbackPrompt:    cfg.Responder.FallbackPrompt,
		GenerationTimeout: cfg.Generation.Timeout,
		SynthesisTimeout:  cfg.Synthesis.Timeout,
	}, store, generator, voice, profile, responderOpts...)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return comments.Run(gctx) })
	g.Go(func() error { return utterances.Run(gctx) })
	g.Go(func() error { return sweeper.Run(gctx) })
	g.Go(func() error { return loop.Run(gctx) })

	if cfg.Ops.Enabled() {
		checks := api.Checks{
			Redis: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		}
		if natsClient != nil {
			checks.NATS = natsClient.Healthy
		}
		srv := server.New(cfg.Ops, api.NewRouter(checks, store))
		g.Go(func() error { return srv.Start(gctx) })
	}

	slog.Info("responder running",
		"feed", cfg.Feed.Source,
		"generation", cfg.Generation.Provider,
		"synthesis", cfg.Synthesis.Provider,
	)

	if err := g.Wait(); err != nil {
		slog.Error("responder exited", "error", err)
		os.Exit(1)
	}
	slog.Info("responder stopped")
}

func setupLogger(cfg config.LogConfig) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{}
	switch cfg.Level {
	case "debug":
		opts.Level = slog.LevelDebug
	case "info":
		opts.Level = slog.LevelInfo
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	default:
		opts.Level = slog.LevelInfo
	}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Redis       RedisConfig
	NATS        NATSConfig
	Feed        FeedConfig
	Speech      SpeechConfig
	Pools       PoolsConfig
	Responder   ResponderConfig
	Generation  GenerationConfig
	Synthesis   SynthesisConfig
	SpamGuard   SpamGuardConfig
	Personality PersonalityConfig
	Ops         OpsConfig
	Log         LogConfig
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// NATSConfig is optional; an empty URL disables every NATS-backed component.
type NATSConfig struct {
	URL string
}

func (c NATSConfig) Enabled() bool {
	return c.URL != ""
}

type FeedConfig struct {
	Source  string // "redis" or "nats"
	Channel string
	Subject string
}

type SpeechConfig struct {
	Queue            string
	PollTimeout      time.Duration
	ActivationPhrase string
}

type PoolsConfig struct {
	CommentHorizon time.Duration
	SweepInterval  time.Duration
	LedgerCapacity int
	MaxComments    int
	MaxUtterances  int
}

type ResponderConfig struct {
	Cadence        time.Duration
	FallbackPrompt string
}

type GenerationConfig struct {
	Provider    string // "openai" or "gemini"
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

type SynthesisConfig struct {
	Provider string // "http", "nats" or "none"
	URL      string
	Subject  string
	Timeout  time.Duration
}

type SpamGuardConfig struct {
	MaxPerMinute int
	DedupeWindow time.Duration
	DedupeSize   int
}

type PersonalityConfig struct {
	File string
}

type OpsConfig struct {
	Host string
	Port int
}

func (c OpsConfig) Enabled() bool {
	return c.Port != 0
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Load .env file if it exists (ignore error if missing)
	_ = k.Load(file.Provider(".env"), dotenv.Parser())

	// Load environment variables (override .env)
	err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(s, "_", "."))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	return fromKoanf(k)
}

func fromKoanf(k *koanf.Koanf) (*Config, error) {
	cfg := &Config{
		Redis: RedisConfig{
			Host:     k.String("redis.host"),
			Port:     k.Int("redis.port"),
			Password: k.String("redis.password"),
			DB:       k.Int("redis.db"),
		},
		NATS: NATSConfig{
			URL: k.String("nats.url"),
		},
		Feed: FeedConfig{
			Source:  k.String("feed.source"),
			Channel: k.String("feed.channel"),
			Subject: k.String("feed.subject"),
		},
		Speech: SpeechConfig{
			Queue:            k.String("speech.queue"),
			ActivationPhrase: k.String("speech.activation.phrase"),
		},
		Pools: PoolsConfig{
			LedgerCapacity: k.Int("pools.ledger.capacity"),
			MaxComments:    k.Int("pools.max.comments"),
			MaxUtterances:  k.Int("pools.max.utterances"),
		},
		Responder: ResponderConfig{
			FallbackPrompt: k.String("responder.fallback.prompt"),
		},
		Generation: GenerationConfig{
			Provider:    k.String("generation.provider"),
			APIKey:      k.String("generation.api.key"),
			BaseURL:     k.String("generation.base.url"),
			Model:       k.String("generation.model"),
			MaxTokens:   k.Int("generation.max.tokens"),
			Temperature: k.Float64("generation.temperature"),
		},
		Synthesis: SynthesisConfig{
			Provider: k.String("synthesis.provider"),
			URL:      k.String("synthesis.url"),
			Subject:  k.String("synthesis.subject"),
		},
		SpamGuard: SpamGuardConfig{
			MaxPerMinute: k.Int("spamguard.max.per.minute"),
			DedupeSize:   k.Int("spamguard.dedupe.size"),
		},
		Personality: PersonalityConfig{
			File: k.String("personality.file"),
		},
		Ops: OpsConfig{
			Host: k.String("ops.host"),
			Port: k.Int("ops.port"),
		},
		Log: LogConfig{
			Level:  k.String("log.level"),
			Format: k.String("log.format"),
		},
	}

	// Apply defaults
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Feed.Source == "" {
		cfg.Feed.Source = "redis"
	}
	if cfg.Feed.Channel == "" {
		cfg.Feed.Channel = "comment_channel"
	}
	if cfg.Feed.Subject == "" {
		cfg.Feed.Subject = "vtuber.comments"
	}
	if cfg.Speech.Queue == "" {
		cfg.Speech.Queue = "user_input_queue"
	}
	if cfg.Speech.ActivationPhrase == "" {
		cfg.Speech.ActivationPhrase = "luna"
	}
	if cfg.Pools.LedgerCapacity == 0 {
		cfg.Pools.LedgerCapacity = 10
	}
	if cfg.Pools.MaxComments == 0 {
		cfg.Pools.MaxComments = 500
	}
	if cfg.Pools.MaxUtterances == 0 {
		cfg.Pools.MaxUtterances = 100
	}
	if cfg.Responder.FallbackPrompt == "" {
		cfg.Responder.FallbackPrompt = "Generate something interesting!"
	}
	if cfg.Generation.Provider == "" {
		cfg.Generation.Provider = "openai"
	}
	if cfg.Generation.Model == "" {
		switch cfg.Generation.Provider {
		case "gemini":
			cfg.Generation.Model = "gemini-2.0-flash"
		default:
			cfg.Generation.Model = "gpt-4"
		}
	}
	if cfg.Generation.BaseURL == "" && cfg.Generation.Provider == "openai" {
		cfg.Generation.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Generation.MaxTokens == 0 {
		cfg.Generation.MaxTokens = 200
	}
	if !k.Exists("generation.temperature") {
		cfg.Generation.Temperature = 0.6
	}
	if cfg.Synthesis.Provider == "" {
		cfg.Synthesis.Provider = "http"
	}
	if cfg.Synthesis.URL == "" {
		cfg.Synthesis.URL = "http://localhost:5000/synthesize"
	}
	if cfg.Synthesis.Subject == "" {
		cfg.Synthesis.Subject = "vtuber.tts.synthesize"
	}
	if cfg.SpamGuard.DedupeSize == 0 {
		cfg.SpamGuard.DedupeSize = 1024
	}
	if cfg.Ops.Host == "" {
		cfg.Ops.Host = "0.0.0.0"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}

	// Parse durations
	durations := []struct {
		key  string
		def  string
		dest *time.Duration
	}{
		{"speech.poll.timeout", "5s", &cfg.Speech.PollTimeout},
		{"pools.comment.horizon", "2m", &cfg.Pools.CommentHorizon},
		{"pools.sweep.interval", "30s", &cfg.Pools.SweepInterval},
		{"responder.cadence", "1s", &cfg.Responder.Cadence},
		{"generation.timeout", "30s", &cfg.Generation.Timeout},
		{"synthesis.timeout", "30s", &cfg.Synthesis.Timeout},
		{"spamguard.dedupe.window", "1m", &cfg.SpamGuard.DedupeWindow},
	}
	for _, d := range durations {
		raw := k.String(d.key)
		if raw == "" {
			raw = d.def
		}
		v, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", d.key, err)
		}
		*d.dest = v
	}

	return cfg, nil
}

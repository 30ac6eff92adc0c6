package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Validate checks Config for problems that must stop the process before any loop starts.
// It collects all errors into a single joined error.
func (c *Config) Validate() error {
	var errs []string

	// Generation
	switch c.Generation.Provider {
	case "openai", "gemini":
	default:
		errs = append(errs, fmt.Sprintf("GENERATION_PROVIDER must be openai or gemini, got %q", c.Generation.Provider))
	}
	if c.Generation.APIKey == "" {
		errs = append(errs, "GENERATION_API_KEY is required")
	}
	if c.Generation.MaxTokens < 1 {
		errs = append(errs, fmt.Sprintf("GENERATION_MAX_TOKENS must be positive, got %d", c.Generation.MaxTokens))
	}
	if c.Generation.Temperature < 0 || c.Generation.Temperature > 2 {
		errs = append(errs, fmt.Sprintf("GENERATION_TEMPERATURE must be between 0 and 2, got %g", c.Generation.Temperature))
	}

	// Personality
	if c.Personality.File == "" {
		errs = append(errs, "PERSONALITY_FILE is required")
	}

	// Comment feed
	switch c.Feed.Source {
	case "redis":
	case "nats":
		if !c.NATS.Enabled() {
			errs = append(errs, "NATS_URL is required when FEED_SOURCE=nats")
		}
	default:
		errs = append(errs, fmt.Sprintf("FEED_SOURCE must be redis or nats, got %q", c.Feed.Source))
	}

	// Synthesis
	switch c.Synthesis.Provider {
	case "http":
		if c.Synthesis.URL == "" {
			errs = append(errs, "SYNTHESIS_URL is required when SYNTHESIS_PROVIDER=http")
		}
	case "nats":
		if !c.NATS.Enabled() {
			errs = append(errs, "NATS_URL is required when SYNTHESIS_PROVIDER=nats")
		}
	case "none":
		slog.Warn("SYNTHESIS_PROVIDER is none, replies will not be voiced")
	default:
		errs = append(errs, fmt.Sprintf("SYNTHESIS_PROVIDER must be http, nats or none, got %q", c.Synthesis.Provider))
	}

	// Speech
	if strings.TrimSpace(c.Speech.ActivationPhrase) == "" {
		errs = append(errs, "SPEECH_ACTIVATION_PHRASE must not be blank")
	}

	// Pools
	if c.Pools.LedgerCapacity < 1 {
		errs = append(errs, fmt.Sprintf("POOLS_LEDGER_CAPACITY must be at least 1, got %d", c.Pools.LedgerCapacity))
	}
	if c.Pools.MaxComments < 1 {
		errs = append(errs, fmt.Sprintf("POOLS_MAX_COMMENTS must be at least 1, got %d", c.Pools.MaxComments))
	}
	if c.Pools.MaxUtterances < 1 {
		errs = append(errs, fmt.Sprintf("POOLS_MAX_UTTERANCES must be at least 1, got %d", c.Pools.MaxUtterances))
	}
	if c.SpamGuard.MaxPerMinute < 0 {
		errs = append(errs, fmt.Sprintf("SPAMGUARD_MAX_PER_MINUTE must not be negative, got %d", c.SpamGuard.MaxPerMinute))
	}

	// Durations
	positive := []struct {
		name string
		v    time.Duration
	}{
		{"SPEECH_POLL_TIMEOUT", c.Speech.PollTimeout},
		{"POOLS_COMMENT_HORIZON", c.Pools.CommentHorizon},
		{"POOLS_SWEEP_INTERVAL", c.Pools.SweepInterval},
		{"RESPONDER_CADENCE", c.Responder.Cadence},
		{"GENERATION_TIMEOUT", c.Generation.Timeout},
		{"SYNTHESIS_TIMEOUT", c.Synthesis.Timeout},
	}
	for _, p := range positive {
		if p.v <= 0 {
			errs = append(errs, fmt.Sprintf("%s must be positive, got %s", p.name, p.v))
		}
	}

	// Port ranges
	if c.Redis.Port < 1 || c.Redis.Port > 65535 {
		errs = append(errs, fmt.Sprintf("REDIS_PORT must be between 1 and 65535, got %d", c.Redis.Port))
	}
	if c.Ops.Port < 0 || c.Ops.Port > 65535 {
		errs = append(errs, fmt.Sprintf("OPS_PORT must be between 0 and 65535, got %d", c.Ops.Port))
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n  " + strings.Join(errs, "\n  "))
	}
	return nil
}

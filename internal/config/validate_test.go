package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Redis: RedisConfig{Host: "localhost", Port: 6379},
		Feed:  FeedConfig{Source: "redis", Channel: "comment_channel", Subject: "vtuber.comments"},
		Speech: SpeechConfig{
			Queue: "user_input_queue", PollTimeout: 5 * time.Second, ActivationPhrase: "luna",
		},
		Pools: PoolsConfig{
			CommentHorizon: 2 * time.Minute, SweepInterval: 30 * time.Second,
			LedgerCapacity: 10, MaxComments: 500, MaxUtterances: 100,
		},
		Responder: ResponderConfig{Cadence: time.Second, FallbackPrompt: "Generate something interesting!"},
		Generation: GenerationConfig{
			Provider: "openai", APIKey: "sk-test", Model: "gpt-4",
			MaxTokens: 200, Temperature: 0.6, Timeout: 30 * time.Second,
		},
		Synthesis:   SynthesisConfig{Provider: "http", URL: "http://localhost:5000/synthesize", Timeout: 30 * time.Second},
		Personality: PersonalityConfig{File: "personality.yaml"},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidate_APIKeyRequired(t *testing.T) {
	cfg := validConfig()
	cfg.Generation.APIKey = ""
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "GENERATION_API_KEY") {
		t.Fatalf("expected GENERATION_API_KEY error, got: %v", err)
	}
}

func TestValidate_UnknownGenerationProvider(t *testing.T) {
	cfg := validConfig()
	cfg.Generation.Provider = "markov"
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "GENERATION_PROVIDER") {
		t.Fatalf("expected GENERATION_PROVIDER error, got: %v", err)
	}
}

func TestValidate_PersonalityFileRequired(t *testing.T) {
	cfg := validConfig()
	cfg.Personality.File = ""
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "PERSONALITY_FILE") {
		t.Fatalf("expected PERSONALITY_FILE error, got: %v", err)
	}
}

func TestValidate_NATSFeedRequiresURL(t *testing.T) {
	cfg := validConfig()
	cfg.Feed.Source = "nats"
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "FEED_SOURCE=nats") {
		t.Fatalf("expected NATS_URL error, got: %v", err)
	}

	cfg.NATS.URL = "nats://localhost:4222"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected no error with NATS_URL set, got: %v", err)
	}
}

func TestValidate_NATSSynthesisRequiresURL(t *testing.T) {
	cfg := validConfig()
	cfg.Synthesis.Provider = "nats"
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "SYNTHESIS_PROVIDER=nats") {
		t.Fatalf("expected NATS_URL error, got: %v", err)
	}
}

func TestValidate_LedgerCapacity(t *testing.T) {
	cfg := validConfig()
	cfg.Pools.LedgerCapacity = 0
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "POOLS_LEDGER_CAPACITY") {
		t.Fatalf("expected POOLS_LEDGER_CAPACITY error, got: %v", err)
	}
}

func TestValidate_NonPositiveDurations(t *testing.T) {
	cfg := validConfig()
	cfg.Responder.Cadence = 0
	cfg.Pools.CommentHorizon = -time.Second
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected duration validation errors")
	}
	if !strings.Contains(err.Error(), "RESPONDER_CADENCE") {
		t.Errorf("expected RESPONDER_CADENCE error in: %v", err)
	}
	if !strings.Contains(err.Error(), "POOLS_COMMENT_HORIZON") {
		t.Errorf("expected POOLS_COMMENT_HORIZON error in: %v", err)
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := &Config{Redis: RedisConfig{Port: 0}}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected multiple validation errors")
	}
	errStr := err.Error()
	for _, substr := range []string{"GENERATION_PROVIDER", "GENERATION_API_KEY", "PERSONALITY_FILE", "FEED_SOURCE", "SYNTHESIS_PROVIDER", "REDIS_PORT"} {
		if !strings.Contains(errStr, substr) {
			t.Errorf("expected %q in error: %s", substr, errStr)
		}
	}
}

func TestValidate_RangeMessagesAreASCII(t *testing.T) {
	cfg := validConfig()
	cfg.Generation.Temperature = 3
	cfg.Redis.Port = 70000
	cfg.Ops.Port = -1
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected range validation errors")
	}
	for _, want := range []string{"between 0 and 2", "between 1 and 65535", "between 0 and 65535"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in error: %v", want, err)
		}
	}
	for _, r := range err.Error() {
		if r > 127 {
			t.Fatalf("unexpected non-ASCII rune %q in: %v", r, err)
		}
	}
}

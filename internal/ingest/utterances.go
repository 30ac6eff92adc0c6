package ingest

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/aiox-platform/vtuber/internal/metrics"
	"github.com/aiox-platform/vtuber/internal/pool"
)

// SpeechSource yields recognized utterances. Recognize blocks for at most
// its own poll timeout and reports ErrTimeout, ErrNoSpeech or
// ErrUnavailable for the expected non-result outcomes.
type SpeechSource interface {
	Recognize(ctx context.Context) (string, error)
}

// UtteranceSink receives utterances that passed activation filtering.
type UtteranceSink interface {
	PushUtterance(u pool.Utterance) pool.Utterance
}

// UtteranceProducer filters recognized speech by activation phrase and
// appends qualifying text to the sink.
type UtteranceProducer struct {
	source  SpeechSource
	sink    UtteranceSink
	phrase  string
	backoff BackoffConfig
}

// NewUtteranceProducer creates a producer. phrase is matched case-insensitively.
func NewUtteranceProducer(source SpeechSource, sink UtteranceSink, phrase string, b BackoffConfig) *UtteranceProducer {
	return &UtteranceProducer{
		source:  source,
		sink:    sink,
		phrase:  strings.ToLower(strings.TrimSpace(phrase)),
		backoff: b,
	}
}

// Run polls the speech source until ctx is cancelled.
func (p *UtteranceProducer) Run(ctx context.Context) error {
	b := p.backoff.newBackOff()
	slog.Info("utterances: listening", "activation_phrase", p.phrase)

	for {
		if ctx.Err() != nil {
			return nil
		}

		text, err := p.source.Recognize(ctx)
		switch {
		case err == nil:
			b.Reset()
			p.handle(text)
		case ctx.Err() != nil:
			return nil
		case errors.Is(err, ErrTimeout):
			// nothing this cycle
		case errors.Is(err, ErrNoSpeech):
			slog.Debug("utterances: could not understand the speaker")
		case errors.Is(err, ErrUnavailable):
			slog.Warn("utterances: recognition service unavailable", "error", err)
			if !sleepBackOff(ctx, b) {
				return nil
			}
		default:
			slog.Warn("utterances: recognition failed", "error", err)
			if !sleepBackOff(ctx, b) {
				return nil
			}
		}
	}
}

func (p *UtteranceProducer) handle(text string) {
	text = strings.Join(strings.Fields(text), " ")
	if !MatchesActivation(text, p.phrase) {
		slog.Debug("utterances: ignoring speech without activation phrase")
		return
	}

	stored := p.sink.PushUtterance(pool.Utterance{Text: text})
	metrics.UtterancesIngestedTotal.Inc()
	slog.Info("utterances: user said", "id", stored.ID, "text", stored.Text)
}

// MatchesActivation reports whether text contains phrase, ignoring case.
func MatchesActivation(text, phrase string) bool {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return false
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(phrase))
}

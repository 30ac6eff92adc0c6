package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tidwall/gjson"

	"github.com/aiox-platform/vtuber/internal/ingest"
)

// SpeechQueue reads recognized speech from a Redis list. The recognizer
// LPUSHes results, so the oldest result sits at the right end.
//
// Entries are either the plain recognized text or a JSON result such as
// {"text": "...", "reason": "recognized"}; reason "no_match" means the
// recognizer heard audio but could not transcribe it.
type SpeechQueue struct {
	client  *redis.Client
	key     string
	timeout time.Duration
}

// NewSpeechQueue creates a queue reader blocking at most timeout per call.
func NewSpeechQueue(client *redis.Client, key string, timeout time.Duration) *SpeechQueue {
	return &SpeechQueue{client: client, key: key, timeout: timeout}
}

// Recognize pops the oldest recognition result.
func (q *SpeechQueue) Recognize(ctx context.Context) (string, error) {
	vals, err := q.client.BRPop(ctx, q.timeout, q.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ingest.ErrTimeout
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: brpop %s: %v", ingest.ErrUnavailable, q.key, err)
	}
	// BRPOP returns [key, value]
	if len(vals) != 2 {
		return "", ingest.ErrNoSpeech
	}
	return decodeSpeech(vals[1])
}

func decodeSpeech(payload string) (string, error) {
	text := payload
	if trimmed := strings.TrimSpace(payload); strings.HasPrefix(trimmed, "{") && gjson.Valid(trimmed) {
		res := gjson.Parse(trimmed)
		if strings.EqualFold(res.Get("reason").String(), "no_match") {
			return "", ingest.ErrNoSpeech
		}
		text = res.Get("text").String()
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ingest.ErrNoSpeech
	}
	return text, nil
}

package ingest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiox-platform/vtuber/internal/pool"
)

type result struct {
	text string
	err  error
}

// scriptedSource replays results, then reports timeouts forever.
type scriptedSource struct {
	mu      sync.Mutex
	results []result
	calls   int
}

func (s *scriptedSource) Recognize(ctx context.Context) (string, error) {
	s.mu.Lock()
	s.calls++
	if len(s.results) > 0 {
		r := s.results[0]
		s.results = s.results[1:]
		s.mu.Unlock()
		return r.text, r.err
	}
	s.mu.Unlock()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(time.Millisecond):
		return "", ErrTimeout
	}
}

func (s *scriptedSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestUtteranceProducer_FiltersByActivationPhrase(t *testing.T) {
	store := pool.NewStore(pool.Config{})
	src := &scriptedSource{results: []result{
		{text: "what a nice day"},
		{text: "Hey LUNA,   how are you?"},
		{text: "luna tell me about stars"},
	}}

	runProducer(t, NewUtteranceProducer(src, store, "Luna", testBackoff).Run)

	require.Eventually(t, func() bool { return store.UtteranceCount() == 2 }, time.Second, 5*time.Millisecond)

	u, _ := store.PopOldestUtterance()
	assert.Equal(t, "Hey LUNA, how are you?", u.Text)
	u, _ = store.PopOldestUtterance()
	assert.Equal(t, "luna tell me about stars", u.Text)
}

func TestUtteranceProducer_ExpectedConditionsAreRetried(t *testing.T) {
	store := pool.NewStore(pool.Config{})
	src := &scriptedSource{results: []result{
		{err: ErrTimeout},
		{err: ErrNoSpeech},
		{err: ErrUnavailable},
		{err: errors.New("microphone unplugged")},
		{text: "luna are you there"},
	}}

	runProducer(t, NewUtteranceProducer(src, store, "luna", testBackoff).Run)

	require.Eventually(t, func() bool { return store.UtteranceCount() == 1 }, time.Second, 5*time.Millisecond)
	assert.GreaterOrEqual(t, src.Calls(), 5)
}

func TestUtteranceProducer_StopsOnCancel(t *testing.T) {
	store := pool.NewStore(pool.Config{})
	src := &scriptedSource{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewUtteranceProducer(src, store, "luna", testBackoff).Run(ctx) }()

	require.Eventually(t, func() bool { return src.Calls() > 0 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("producer did not stop")
	}
}

func TestMatchesActivation(t *testing.T) {
	assert.True(t, MatchesActivation("Luna!", "luna"))
	assert.True(t, MatchesActivation("hey lunaaa", "luna"))
	assert.False(t, MatchesActivation("hello", "luna"))
	assert.False(t, MatchesActivation("anything", "  "))
}

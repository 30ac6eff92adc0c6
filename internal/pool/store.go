package pool

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/aiox-platform/vtuber/internal/memory"
	"github.com/aiox-platform/vtuber/internal/metrics"
)

const (
	DefaultMaxComments   = 500
	DefaultMaxUtterances = 100
)

// Config sizes the pools. Zero values fall back to the package defaults.
type Config struct {
	MaxComments    int
	MaxUtterances  int
	LedgerCapacity int

	// Now overrides the clock used for stamping and age checks (tests).
	Now func() time.Time
}

// Store is the only shared mutable state between producers, the sweeper
// and the responder. Each pool has its own lock; the memory ledger locks
// internally. No method hands out references into the underlying slices.
type Store struct {
	nextID atomic.Uint64
	now    func() time.Time

	commentsMu  sync.Mutex
	comments    []Comment
	maxComments int

	utterancesMu  sync.Mutex
	utterances    []Utterance
	maxUtterances int

	ledger *memory.Ledger
}

// NewStore creates an empty pool store.
func NewStore(cfg Config) *Store {
	if cfg.MaxComments <= 0 {
		cfg.MaxComments = DefaultMaxComments
	}
	if cfg.MaxUtterances <= 0 {
		cfg.MaxUtterances = DefaultMaxUtterances
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Store{
		now:           cfg.Now,
		comments:      make([]Comment, 0, 16),
		maxComments:   cfg.MaxComments,
		utterances:    make([]Utterance, 0, 8),
		maxUtterances: cfg.MaxUtterances,
		ledger:        memory.NewLedger(cfg.LedgerCapacity),
	}
}

// PushComment adds a comment to the pool and returns the stored record.
// ReceivedAt is stamped if unset. A full pool drops its oldest entry.
func (s *Store) PushComment(c Comment) Comment {
	c.ID = s.nextID.Add(1)
	if c.ReceivedAt.IsZero() {
		c.ReceivedAt = s.now()
	}

	s.commentsMu.Lock()
	defer s.commentsMu.Unlock()

	if len(s.comments) >= s.maxComments {
		s.comments = removeAt(s.comments, 0)
		metrics.CommentsDroppedTotal.WithLabelValues("overflow").Inc()
	}
	s.comments = append(s.comments, c)
	metrics.CommentPoolSize.Set(float64(len(s.comments)))
	return c
}

// PeekTopComment returns the highest-weight comment without removing it.
// Ties go to the earliest ReceivedAt.
func (s *Store) PeekTopComment() (Comment, bool) {
	s.commentsMu.Lock()
	defer s.commentsMu.Unlock()

	i := s.topCommentIndex()
	if i < 0 {
		return Comment{}, false
	}
	return s.comments[i], true
}

// RemoveComment removes the given comment if it is still pooled.
// It reports false when the comment was already taken or evicted.
func (s *Store) RemoveComment(c Comment) bool {
	s.commentsMu.Lock()
	defer s.commentsMu.Unlock()

	for i := range s.comments {
		if s.comments[i].ID == c.ID {
			s.comments = removeAt(s.comments, i)
			metrics.CommentPoolSize.Set(float64(len(s.comments)))
			return true
		}
	}
	return false
}

// TakeTopComment selects and removes the highest-priority comment in one
// critical section, so no concurrent push or eviction can interleave.
func (s *Store) TakeTopComment() (Comment, bool) {
	s.commentsMu.Lock()
	defer s.commentsMu.Unlock()

	i := s.topCommentIndex()
	if i < 0 {
		return Comment{}, false
	}
	c := s.comments[i]
	s.comments = removeAt(s.comments, i)
	metrics.CommentPoolSize.Set(float64(len(s.comments)))
	return c, true
}

// EvictCommentsOlderThan removes every comment whose age is at least horizon
// and returns how many were removed.
func (s *Store) EvictCommentsOlderThan(horizon time.Duration) int {
	now := s.now()

	s.commentsMu.Lock()
	defer s.commentsMu.Unlock()

	kept := s.comments[:0]
	for _, c := range s.comments {
		if now.Sub(c.ReceivedAt) < horizon {
			kept = append(kept, c)
		}
	}
	evicted := len(s.comments) - len(kept)
	clear(s.comments[len(kept):])
	s.comments = kept
	metrics.CommentPoolSize.Set(float64(len(s.comments)))
	return evicted
}

// CommentCount returns the number of pooled comments.
func (s *Store) CommentCount() int {
	s.commentsMu.Lock()
	defer s.commentsMu.Unlock()
	return len(s.comments)
}

// PushUtterance appends an utterance. A full pool drops its oldest entry.
func (s *Store) PushUtterance(u Utterance) Utterance {
	u.ID = s.nextID.Add(1)
	if u.ReceivedAt.IsZero() {
		u.ReceivedAt = s.now()
	}

	s.utterancesMu.Lock()
	defer s.utterancesMu.Unlock()

	if len(s.utterances) >= s.maxUtterances {
		s.utterances = removeAt(s.utterances, 0)
		metrics.UtterancesDroppedTotal.Inc()
	}
	s.utterances = append(s.utterances, u)
	metrics.UtterancePoolSize.Set(float64(len(s.utterances)))
	return u
}

// PopOldestUtterance removes and returns the earliest pushed utterance.
func (s *Store) PopOldestUtterance() (Utterance, bool) {
	s.utterancesMu.Lock()
	defer s.utterancesMu.Unlock()

	if len(s.utterances) == 0 {
		return Utterance{}, false
	}
	u := s.utterances[0]
	s.utterances = removeAt(s.utterances, 0)
	metrics.UtterancePoolSize.Set(float64(len(s.utterances)))
	return u, true
}

// UtteranceCount returns the number of pooled utterances.
func (s *Store) UtteranceCount() int {
	s.utterancesMu.Lock()
	defer s.utterancesMu.Unlock()
	return len(s.utterances)
}

// AppendMemory records an exchange in the bounded ledger.
func (s *Store) AppendMemory(e memory.Entry) memory.Entry {
	return s.ledger.Append(e)
}

// SnapshotMemory returns the ledger contents, oldest first.
func (s *Store) SnapshotMemory() []memory.Entry {
	return s.ledger.Snapshot()
}

// topCommentIndex must be called with commentsMu held.
func (s *Store) topCommentIndex() int {
	best := -1
	for i := range s.comments {
		if best < 0 || s.comments[i].outranks(s.comments[best]) {
			best = i
		}
	}
	return best
}

func removeAt[T any](items []T, i int) []T {
	copy(items[i:], items[i+1:])
	var zero T
	items[len(items)-1] = zero
	return items[:len(items)-1]
}

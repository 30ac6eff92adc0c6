package ingest

import (
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Deduper suppresses the same author repeating the same text within a window.
type Deduper struct {
	seen *expirable.LRU[string, struct{}]
}

// NewDeduper remembers up to size recent comments for window.
func NewDeduper(size int, window time.Duration) *Deduper {
	return &Deduper{seen: expirable.NewLRU[string, struct{}](size, nil, window)}
}

// Seen records the comment and reports whether it was already seen within the window.
// Anonymous comments are never reported: without an author, identical text
// most likely comes from different viewers.
func (d *Deduper) Seen(author, text string) bool {
	author = strings.TrimSpace(author)
	if author == "" {
		return false
	}
	key := strings.ToLower(author) + "\x00" + strings.ToLower(text)
	if _, ok := d.seen.Get(key); ok {
		return true
	}
	d.seen.Add(key, struct{}{})
	return false
}

package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeduper_SameAuthorSameText(t *testing.T) {
	d := NewDeduper(16, time.Minute)

	assert.False(t, d.Seen("nova", "first!"))
	assert.True(t, d.Seen("nova", "first!"))
	assert.True(t, d.Seen("NOVA", "FIRST!"), "comparison ignores case")
}

func TestDeduper_DifferentAuthorsIndependent(t *testing.T) {
	d := NewDeduper(16, time.Minute)

	assert.False(t, d.Seen("nova", "first!"))
	assert.False(t, d.Seen("comet", "first!"))
}

func TestDeduper_ExpiresAfterWindow(t *testing.T) {
	d := NewDeduper(16, 50*time.Millisecond)

	assert.False(t, d.Seen("nova", "again"))
	time.Sleep(120 * time.Millisecond)
	assert.False(t, d.Seen("nova", "again"))
}

func TestDeduper_AnonymousNeverSeen(t *testing.T) {
	d := NewDeduper(16, time.Minute)

	assert.False(t, d.Seen("", "lol"))
	assert.False(t, d.Seen("", "lol"))
	assert.False(t, d.Seen("  ", "lol"))
}

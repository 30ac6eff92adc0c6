package nats

import (
	"time"
)

// FetchTimeout is the default timeout for batch fetching messages from consumers.
const FetchTimeout = 2 * time.Second

// FetchBatch is the number of messages requested per fetch.
const FetchBatch = 10

// CommentMaxAge bounds how long the broker keeps unread comments.
const CommentMaxAge = 2 * time.Minute

// Stream names.
const (
	StreamComments = "VTUBER_COMMENTS"
	StreamEvents   = "VTUBER_EVENTS"
)

// Subject constants.
const (
	SubjectEventPrefix   = "vtuber.events"
	SubjectExchangeEvent = "vtuber.events.exchange"
)

// ConsumerComments is the durable consumer name for the comment feed.
const ConsumerComments = "responder-comments"

// ExchangeEvent is published after every responder cycle that produced a reply.
type ExchangeEvent struct {
	ID          string    `json:"id"`
	CycleID     string    `json:"cycle_id"`
	Source      string    `json:"source"` // utterance, comment or fallback
	Input       string    `json:"input"`
	Reply       string    `json:"reply"`
	Seq         uint64    `json:"seq"`
	Synthesized bool      `json:"synthesized"`
	Timestamp   time.Time `json:"timestamp"`
}

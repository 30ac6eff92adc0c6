package memory

import (
	"fmt"
	"time"
)

// Role identifies who the responder was answering when an exchange was recorded.
type Role string

const (
	RoleViewer   Role = "viewer"   // a live audience comment
	RoleListener Role = "listener" // a recognized speech utterance
	RoleSelf     Role = "self"     // spontaneous content, no input record
)

// Label is the speaker prefix used when an entry is rendered as conversation text.
func (r Role) Label() string {
	switch r {
	case RoleViewer:
		return "Comment"
	case RoleListener:
		return "User"
	default:
		return "Self"
	}
}

// Entry is a single completed exchange in the conversation ledger.
type Entry struct {
	Seq       uint64    `json:"seq"`
	Role      Role      `json:"role"`
	Input     string    `json:"input,omitempty"`
	Reply     string    `json:"reply"`
	CreatedAt time.Time `json:"created_at"`
}

// Text renders the exchange the way it is fed back to the generator as context.
func (e Entry) Text(speaker string) string {
	if e.Role == RoleSelf || e.Input == "" {
		return fmt.Sprintf("%s (random): %s", speaker, e.Reply)
	}
	return fmt.Sprintf("%s: %s\n%s: %s", e.Role.Label(), e.Input, speaker, e.Reply)
}

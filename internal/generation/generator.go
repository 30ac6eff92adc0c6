// Package generation turns a selected input plus conversation context into a reply.
package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aiox-platform/vtuber/internal/config"
	"github.com/aiox-platform/vtuber/internal/memory"
	"github.com/aiox-platform/vtuber/internal/personality"
)

// ErrEmptyReply is returned when the provider answered without any text.
var ErrEmptyReply = errors.New("generation returned an empty reply")

// Request carries everything a provider needs for one reply.
type Request struct {
	History []memory.Entry // oldest first
	Input   string
	Role    memory.Role
	Profile *personality.Profile
}

// Generator produces a single reply. Implementations must honour ctx
// cancellation so the caller can bound every call.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// New builds the generator selected by cfg.Provider.
func New(ctx context.Context, cfg config.GenerationConfig) (Generator, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIGenerator(cfg), nil
	case "gemini":
		g, err := NewGeminiGenerator(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, fmt.Errorf("unknown generation provider %q", cfg.Provider)
	}
}

// SystemPrompt returns the persona instruction, or an empty string without a profile.
func (r Request) SystemPrompt() string {
	if r.Profile == nil {
		return ""
	}
	return r.Profile.SystemPrompt()
}

// Prompt renders the ledger followed by the new input as a single user turn.
func (r Request) Prompt() string {
	speaker := "Assistant"
	if r.Profile != nil {
		speaker = r.Profile.Name
	}

	var b strings.Builder
	if len(r.History) > 0 {
		b.WriteString("Recent conversation:\n")
		for _, e := range r.History {
			b.WriteString(e.Text(speaker))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	switch r.Role {
	case memory.RoleSelf, "":
		b.WriteString(r.Input)
	default:
		fmt.Fprintf(&b, "%s: %s", r.Role.Label(), r.Input)
	}
	return b.String()
}

// Package synthesis hands generated replies to a text-to-speech service.
package synthesis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/aiox-platform/vtuber/internal/config"
)

// ErrRejected is returned when the service answered but refused the text.
var ErrRejected = errors.New("synthesis rejected")

// Synthesizer voices a reply. Implementations must honour ctx cancellation.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) error
}

// New builds the synthesizer selected by cfg.Provider. conn may be nil
// unless the provider is "nats".
func New(cfg config.SynthesisConfig, conn *nats.Conn) (Synthesizer, error) {
	switch cfg.Provider {
	case "http":
		return NewHTTPSynthesizer(cfg.URL), nil
	case "nats":
		if conn == nil {
			return nil, errors.New("nats synthesis requires NATS_URL")
		}
		return NewNATSSynthesizer(conn, cfg.Subject), nil
	case "none":
		return Nop{}, nil
	default:
		return nil, fmt.Errorf("unknown synthesis provider %q", cfg.Provider)
	}
}

// request is the payload shared by every transport.
type request struct {
	Text string `json:"text"`
}

// response mirrors the TTS service's status reply.
type response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (r response) err() error {
	if r.Status == "success" {
		return nil
	}
	msg := r.Message
	if msg == "" {
		msg = fmt.Sprintf("status %q", r.Status)
	}
	return fmt.Errorf("%w: %s", ErrRejected, msg)
}

// Nop discards replies. It is used when no voice output is configured.
type Nop struct{}

func (Nop) Synthesize(_ context.Context, text string) error {
	slog.Debug("synthesis: disabled, dropping reply", "chars", len(text))
	return nil
}

package synthesis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// NATSSynthesizer sends replies to a TTS worker over NATS request/reply.
type NATSSynthesizer struct {
	conn    *nats.Conn
	subject string
}

// NewNATSSynthesizer creates a synthesizer publishing requests on subject.
func NewNATSSynthesizer(conn *nats.Conn, subject string) *NATSSynthesizer {
	return &NATSSynthesizer{conn: conn, subject: subject}
}

func (s *NATSSynthesizer) Synthesize(ctx context.Context, text string) error {
	payload, err := json.Marshal(request{Text: text})
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	msg, err := s.conn.RequestWithContext(ctx, s.subject, payload)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", s.subject, err)
	}

	var out response
	if err := json.Unmarshal(msg.Data, &out); err != nil {
		return fmt.Errorf("parsing tts reply: %w", err)
	}
	return out.err()
}

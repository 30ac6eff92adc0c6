package synthesis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// HTTPSynthesizer posts replies to a TTS service endpoint.
type HTTPSynthesizer struct {
	url        string
	httpClient *http.Client
}

// NewHTTPSynthesizer creates a synthesizer for the given endpoint URL.
func NewHTTPSynthesizer(url string) *HTTPSynthesizer {
	return &HTTPSynthesizer{url: url, httpClient: &http.Client{}}
}

func (s *HTTPSynthesizer) Synthesize(ctx context.Context, text string) error {
	body, err := json.Marshal(request{Text: text})
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling tts service: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("reading tts response: %w", err)
	}

	var out response
	if jerr := json.Unmarshal(data, &out); jerr != nil && resp.StatusCode == http.StatusOK {
		return fmt.Errorf("parsing tts response: %w", jerr)
	}

	if resp.StatusCode != http.StatusOK {
		msg := out.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, msg)
	}
	return out.err()
}

package synthesis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiox-platform/vtuber/internal/config"
)

func TestHTTPSynthesizer_Success(t *testing.T) {
	var got request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/synthesize", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"status":"success","message":"Audio played successfully"}`))
	}))
	defer srv.Close()

	err := NewHTTPSynthesizer(srv.URL+"/synthesize").Synthesize(context.Background(), "Hello chat")
	require.NoError(t, err)
	assert.Equal(t, "Hello chat", got.Text)
}

func TestHTTPSynthesizer_ErrorStatusInBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"error","message":"voice not found"}`))
	}))
	defer srv.Close()

	err := NewHTTPSynthesizer(srv.URL).Synthesize(context.Background(), "x")
	require.ErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "voice not found")
}

func TestHTTPSynthesizer_BadRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":"error","message":"No text provided"}`))
	}))
	defer srv.Close()

	err := NewHTTPSynthesizer(srv.URL).Synthesize(context.Background(), "")
	require.ErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "No text provided")
}

func TestHTTPSynthesizer_NonJSONFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	}))
	defer srv.Close()

	err := NewHTTPSynthesizer(srv.URL).Synthesize(context.Background(), "x")
	require.ErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "Bad Gateway")
}

func TestHTTPSynthesizer_MalformedSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	err := NewHTTPSynthesizer(srv.URL).Synthesize(context.Background(), "x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRejected)
}

func TestHTTPSynthesizer_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := NewHTTPSynthesizer(url).Synthesize(context.Background(), "x")
	assert.Error(t, err)
}

func TestHTTPSynthesizer_HonoursDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := NewHTTPSynthesizer(srv.URL).Synthesize(ctx, "x")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop{}.Synthesize(context.Background(), "anything"))
}

func TestResponseErr(t *testing.T) {
	assert.NoError(t, response{Status: "success"}.err())

	err := response{Status: "queued"}.err()
	require.ErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "queued")
}

func TestNew_Providers(t *testing.T) {
	s, err := New(config.SynthesisConfig{Provider: "http", URL: "http://tts/synthesize"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &HTTPSynthesizer{}, s)

	s, err = New(config.SynthesisConfig{Provider: "none"}, nil)
	require.NoError(t, err)
	assert.IsType(t, Nop{}, s)

	_, err = New(config.SynthesisConfig{Provider: "nats"}, nil)
	assert.Error(t, err)

	_, err = New(config.SynthesisConfig{Provider: "carrier-pigeon"}, nil)
	assert.Error(t, err)
}

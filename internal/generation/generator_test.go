package generation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiox-platform/vtuber/internal/config"
	"github.com/aiox-platform/vtuber/internal/memory"
	"github.com/aiox-platform/vtuber/internal/personality"
)

func testProfile() *personality.Profile {
	return &personality.Profile{
		Name:         "Luna",
		Background:   "A cheerful virtual streamer.",
		Favorites:    []string{"games"},
		Dislikes:     []string{"spam"},
		Instructions: "Keep replies short.",
	}
}

func TestRequest_PromptWithHistory(t *testing.T) {
	req := Request{
		History: []memory.Entry{
			{Seq: 1, Role: memory.RoleListener, Input: "hi luna", Reply: "Hello!"},
			{Seq: 2, Role: memory.RoleSelf, Reply: "I love games."},
		},
		Input:   "what's up",
		Role:    memory.RoleViewer,
		Profile: testProfile(),
	}

	want := "Recent conversation:\n" +
		"User: hi luna\nLuna: Hello!\n" +
		"Luna (random): I love games.\n" +
		"\n" +
		"Comment: what's up"
	assert.Equal(t, want, req.Prompt())
}

func TestRequest_PromptFallbackWithoutHistory(t *testing.T) {
	req := Request{Input: "Generate something interesting!", Role: memory.RoleSelf}
	assert.Equal(t, "Generate something interesting!", req.Prompt())
	assert.Empty(t, req.SystemPrompt())
}

func TestRequest_SystemPromptUsesProfile(t *testing.T) {
	req := Request{Profile: testProfile()}
	assert.Contains(t, req.SystemPrompt(), "You are Luna")
	assert.Contains(t, req.SystemPrompt(), "Keep replies short.")
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(context.Background(), config.GenerationConfig{Provider: "llama"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llama")
}

func TestNew_OpenAI(t *testing.T) {
	g, err := New(context.Background(), config.GenerationConfig{Provider: "openai", BaseURL: "http://x/v1/"})
	require.NoError(t, err)
	oa, ok := g.(*OpenAIGenerator)
	require.True(t, ok)
	assert.Equal(t, "http://x/v1", oa.baseURL)
}

func TestNew_GeminiRequiresKey(t *testing.T) {
	_, err := New(context.Background(), config.GenerationConfig{Provider: "gemini"})
	assert.Error(t, err)
}

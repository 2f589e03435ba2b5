package providers

import (
	"context"
	"errors"
	"io"
	"journald/internal/structures"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type fakeModel struct {
	resp     *llms.ContentResponse
	err      error
	messages []llms.MessageContent
	opts     llms.CallOptions
}

func (f *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.messages = messages
	for _, o := range options {
		o(&f.opts)
	}
	return f.resp, f.err
}

func (f *fakeModel) Call(_ context.Context, _ string, _ ...llms.CallOption) (string, error) {
	return "", errors.New("not used")
}

func TestLLMProvider_Summarize(t *testing.T) {
	model := &fakeModel{resp: &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: "  A calm day.  "}},
	}}
	p := newLLMProvider(model, 500, 0.7)

	text, err := p.Summarize(context.Background(), "be kind", "9:00 AM: coffee")
	require.NoError(t, err)
	assert.Equal(t, "A calm day.", text)

	require.Len(t, model.messages, 2)
	assert.Equal(t, llms.ChatMessageTypeSystem, model.messages[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, model.messages[1].Role)
	assert.Equal(t, 500, model.opts.MaxTokens)
	assert.InDelta(t, 0.7, model.opts.Temperature, 1e-9)
}

func TestLLMProvider_EmptyChoices(t *testing.T) {
	p := newLLMProvider(&fakeModel{resp: &llms.ContentResponse{}}, 500, 0.7)

	_, err := p.Summarize(context.Background(), "s", "p")
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestLLMProvider_ModelError(t *testing.T) {
	boom := errors.New("rate limited")
	p := newLLMProvider(&fakeModel{err: boom}, 500, 0.7)

	_, err := p.Summarize(context.Background(), "s", "p")
	assert.ErrorIs(t, err, boom)
}

func TestNewLLMProvider_AgainstOpenAICompatibleServer(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"gpt-3.5-turbo",
			"choices":[{"index":0,"message":{"role":"assistant","content":"Summary text"},"finish_reason":"stop"}],
			"usage":{"prompt_tokens":1,"completion_tokens":1,"total_tokens":2}}`))
	}))
	defer srv.Close()

	conf := &structures.Config{OpenAI: structures.OpenAIConfig{
		APIKey:      "sk-test",
		BaseURL:     srv.URL,
		Model:       "gpt-3.5-turbo",
		MaxTokens:   500,
		Temperature: 0.7,
	}}
	p, err := NewLLMProvider(conf)
	require.NoError(t, err)

	text, err := p.Summarize(context.Background(), "system", "prompt")
	require.NoError(t, err)
	assert.Equal(t, "Summary text", text)
	assert.Equal(t, "gpt-3.5-turbo", got["model"])
}

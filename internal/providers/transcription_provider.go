package providers

import (
	"context"
	"fmt"
	"io"
	"journald/internal/structures"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
)

type TranscriberInterface interface {
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}

// WhisperTranscriber sends recorded audio to the OpenAI transcription endpoint.
type WhisperTranscriber struct {
	client *openai.Client
	model  string
}

func NewTranscriber(conf *structures.Config) TranscriberInterface {
	cfg := openai.DefaultConfig(conf.OpenAI.APIKey)
	if conf.OpenAI.BaseURL != "" {
		cfg.BaseURL = conf.OpenAI.BaseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: 2 * time.Minute}

	model := conf.OpenAI.TranscriptionModel
	if model == "" {
		model = openai.Whisper1
	}
	return &WhisperTranscriber{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (t *WhisperTranscriber) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	if filename == "" {
		filename = "audio.webm"
	}
	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		FilePath: filename,
		Reader:   audio,
	})
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}
	return resp.Text, nil
}

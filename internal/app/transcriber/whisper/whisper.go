// Package whisper transcribes audio through the OpenAI Whisper API.
package whisper

import (
	"context"
	"sync"

	"github.com/sashabaranov/go-openai"

	apierrors "clipscribe/internal/api/errors"
	"clipscribe/internal/app/model"
)

// APITranscriber calls the Whisper transcription endpoint. The underlying
// client is built once on first use and reused for the process lifetime.
type APITranscriber struct {
	apiKey string
	model  string

	once   sync.Once
	client *openai.Client
}

// New creates an APITranscriber for the given API key and model identifier
// (normally "whisper-1"). The client is not dialed until the first request,
// so processes that never transcribe pay nothing.
func New(apiKey, model string) *APITranscriber {
	return &APITranscriber{apiKey: apiKey, model: model}
}

// NewWithClient creates an APITranscriber around an existing client. Used by
// tests to point at a stub server.
func NewWithClient(client *openai.Client, model string) *APITranscriber {
	t := &APITranscriber{model: model}
	t.once.Do(func() { t.client = client })
	return t
}

// Transcribe sends the WAV file for transcription. Language is auto-detected
// by the model, never forced. Failures are terminal for the request; nothing
// is retried here.
func (t *APITranscriber) Transcribe(ctx context.Context, wavPath string) (*model.TranscriptionResult, error) {
	t.once.Do(func() { t.client = openai.NewClient(t.apiKey) })

	req := openai.AudioRequest{
		Model:    t.model,
		FilePath: wavPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
	}

	resp, err := t.client.CreateTranscription(ctx, req)
	if err != nil {
		return nil, apierrors.NewTranscriptionError("Transcription failed: " + err.Error())
	}

	segments := make([]model.Segment, 0, len(resp.Segments))
	for _, s := range resp.Segments {
		segments = append(segments, model.Segment{Start: s.Start, End: s.End, Text: s.Text})
	}

	return &model.TranscriptionResult{
		Text:     resp.Text,
		Language: resp.Language,
		Segments: segments,
	}, nil
}

// Package transcriber defines the speech-to-text contract.
package transcriber

import (
	"context"

	"clipscribe/internal/app/model"
)

// Transcriber converts a normalized WAV file into a structured result.
// Implementations own their model/client lifecycle; the rest of the system
// treats them as read-only after construction.
type Transcriber interface {
	Transcribe(ctx context.Context, wavPath string) (*model.TranscriptionResult, error)
}

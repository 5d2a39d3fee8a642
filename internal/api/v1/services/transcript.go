package services

import (
	"context"
	stderrors "errors"

	"clipscribe/internal/api/errors"
	"clipscribe/internal/app/model"
	"clipscribe/internal/app/pipeline"
	"clipscribe/internal/app/repository"
)

// historyLimit caps the transcript list endpoint.
const historyLimit = 20

// Runner executes one transcription pipeline run.
type Runner interface {
	Run(ctx context.Context, userID int64, src pipeline.Source) (*model.Transcript, error)
}

// TranscriptService wraps the pipeline and transcript reads behind ownership
// checks.
type TranscriptService struct {
	pipeline    Runner
	transcripts repository.TranscriptRepository
}

// NewTranscriptService creates a TranscriptService.
func NewTranscriptService(p Runner, transcripts repository.TranscriptRepository) *TranscriptService {
	return &TranscriptService{pipeline: p, transcripts: transcripts}
}

// Transcribe runs the full pipeline for one source.
func (s *TranscriptService) Transcribe(ctx context.Context, userID int64, src pipeline.Source) (*model.Transcript, error) {
	return s.pipeline.Run(ctx, userID, src)
}

// Get returns one of the user's transcripts. Rows owned by other users are
// reported as missing, not forbidden.
func (s *TranscriptService) Get(ctx context.Context, userID, id int64) (*model.Transcript, error) {
	t, err := s.transcripts.GetByID(ctx, id, userID)
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, errors.NewNotFoundError("Transcript")
	}
	if err != nil {
		return nil, errors.NewInternalError("Failed to load transcript")
	}
	return t, nil
}

// History returns the user's newest transcripts, capped at historyLimit.
func (s *TranscriptService) History(ctx context.Context, userID int64) ([]model.Transcript, error) {
	transcripts, err := s.transcripts.ListByUser(ctx, userID, historyLimit)
	if err != nil {
		return nil, errors.NewInternalError("Failed to load history")
	}
	return transcripts, nil
}

// Package pipeline runs the per-request flow: scratch directory, media
// acquisition, audio normalization, transcription, formatting, persistence.
package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apierrors "clipscribe/internal/api/errors"
	"clipscribe/internal/app/format"
	"clipscribe/internal/app/model"
	"clipscribe/internal/app/repository"
	"clipscribe/internal/app/transcriber"
)

// Downloader fetches remote media into a scratch directory.
type Downloader interface {
	Fetch(ctx context.Context, url, scratchDir string) (string, error)
}

// Normalizer converts arbitrary media into the transcription WAV format.
type Normalizer interface {
	Normalize(ctx context.Context, mediaPath string) (string, error)
}

// Source is the media input of one run: either a remote URL or an uploaded
// stream with its original (already sanitized) filename.
type Source struct {
	URL      string
	Upload   io.Reader
	Filename string
}

// Ref is the value stored as the transcript's source reference.
func (s Source) Ref() string {
	if s.Upload != nil {
		return "File: " + s.Filename
	}
	return s.URL
}

// Pipeline executes one synchronous run per request. Requests never share
// scratch directories; the only shared state is the transcriber (read-only
// after initialization) and the store.
type Pipeline struct {
	downloader  Downloader
	normalizer  Normalizer
	transcriber transcriber.Transcriber
	transcripts repository.TranscriptRepository

	downloadRoot string
	timeout      time.Duration
	log          *zap.SugaredLogger
}

// New creates a Pipeline writing scratch directories under downloadRoot.
func New(
	downloader Downloader,
	normalizer Normalizer,
	t transcriber.Transcriber,
	transcripts repository.TranscriptRepository,
	downloadRoot string,
	timeout time.Duration,
	log *zap.SugaredLogger,
) *Pipeline {
	return &Pipeline{
		downloader:   downloader,
		normalizer:   normalizer,
		transcriber:  t,
		transcripts:  transcripts,
		downloadRoot: downloadRoot,
		timeout:      timeout,
		log:          log,
	}
}

// Run processes one source for one user. On success exactly one transcript
// row is persisted; on failure nothing is. The scratch directory is removed
// on every exit path, and cleanup failures are swallowed.
func (p *Pipeline) Run(ctx context.Context, userID int64, src Source) (*model.Transcript, error) {
	start := time.Now()
	t, err := p.run(ctx, userID, src)
	runDuration.Observe(time.Since(start).Seconds())
	runsTotal.WithLabelValues(outcomeLabel(err)).Inc()
	return t, err
}

func (p *Pipeline) run(ctx context.Context, userID int64, src Source) (*model.Transcript, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	scratchDir := filepath.Join(p.downloadRoot, uuid.NewString())
	if err := os.MkdirAll(scratchDir, 0o755); err != nil {
		p.log.Errorw("cannot create scratch directory", "dir", scratchDir, "error", err)
		return nil, apierrors.NewInternalError("Could not prepare working directory")
	}
	defer func() {
		// Best-effort; a leaked scratch dir must never fail the request.
		_ = os.RemoveAll(scratchDir)
	}()

	mediaPath, err := p.obtainMedia(ctx, src, scratchDir)
	if err != nil {
		return nil, err
	}

	wavPath, err := p.normalizer.Normalize(ctx, mediaPath)
	if err != nil {
		return nil, err
	}

	result, err := p.transcriber.Transcribe(ctx, wavPath)
	if err != nil {
		return nil, err
	}

	script := format.Script(result)
	if script == "" {
		return nil, apierrors.NewEmptyTranscriptError()
	}

	language := result.Language
	if language == "" {
		language = "unknown"
	}

	t := &model.Transcript{
		UserID:    userID,
		SourceURL: src.Ref(),
		Text:      script,
		Language:  language,
		LineCount: format.LineCount(script),
	}
	if err := p.transcripts.Create(ctx, t); err != nil {
		p.log.Errorw("failed to persist transcript", "user_id", userID, "error", err)
		return nil, apierrors.NewInternalError("Failed to save transcript")
	}

	p.log.Infow("transcript created",
		"user_id", userID, "transcript_id", t.ID,
		"language", t.Language, "lines", t.LineCount)

	return t, nil
}

// obtainMedia materializes the source inside the scratch directory: uploads
// are written as-is, URLs go through the downloader.
func (p *Pipeline) obtainMedia(ctx context.Context, src Source, scratchDir string) (string, error) {
	if src.Upload == nil {
		return p.downloader.Fetch(ctx, src.URL, scratchDir)
	}

	name := filepath.Base(src.Filename)
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "", apierrors.NewValidationError("No file selected")
	}

	mediaPath := filepath.Join(scratchDir, name)
	f, err := os.Create(mediaPath)
	if err != nil {
		return "", apierrors.NewInternalError("Could not store uploaded file")
	}
	defer f.Close()

	if _, err := io.Copy(f, src.Upload); err != nil {
		return "", apierrors.NewInternalError("Could not store uploaded file")
	}
	return mediaPath, nil
}

func outcomeLabel(err error) string {
	if err == nil {
		return outcomeSuccess
	}
	switch apierrors.AsAPIError(err).Kind {
	case apierrors.KindAcquisition:
		return outcomeAcquisition
	case apierrors.KindNormalization:
		return outcomeNormalization
	case apierrors.KindTranscription:
		return outcomeTranscription
	case apierrors.KindEmptyTranscript:
		return outcomeEmptyTranscript
	default:
		return outcomeInternal
	}
}

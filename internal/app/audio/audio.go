// Package audio normalizes arbitrary media files into the fixed WAV format
// the transcription model expects.
package audio

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	apierrors "clipscribe/internal/api/errors"
)

// Normalizer transcodes input media with ffmpeg. The binary path is resolved
// and validated once at startup, so a missing transcoder surfaces as a fatal
// configuration error instead of a per-request failure.
type Normalizer struct {
	ffmpegPath string
	log        *zap.SugaredLogger
}

// NewNormalizer creates a Normalizer using the given ffmpeg binary.
func NewNormalizer(ffmpegPath string, log *zap.SugaredLogger) *Normalizer {
	return &Normalizer{ffmpegPath: ffmpegPath, log: log}
}

// Normalize strips video and converts the input to 16 kHz mono 16-bit PCM
// WAV, the input contract of the transcription model. Any existing output is
// overwritten so the operation stays deterministic.
func (n *Normalizer) Normalize(ctx context.Context, mediaPath string) (string, error) {
	wavPath := strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath)) + "_16khz.wav"

	args := []string{
		"-i", mediaPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		"-y",
		wavPath,
	}

	cmd := exec.CommandContext(ctx, n.ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	n.log.Debugw("normalizing audio", "input", mediaPath, "output", wavPath)

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		n.log.Warnw("ffmpeg failed", "input", mediaPath, "error", detail)
		return "", apierrors.NewNormalizationError("Failed to extract audio: " + detail)
	}

	return wavPath, nil
}

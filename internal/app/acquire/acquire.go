// Package acquire fetches remote media into per-request scratch storage by
// shelling out to yt-dlp.
package acquire

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apierrors "clipscribe/internal/api/errors"
)

// maxErrOutput bounds how much of the tool's diagnostic output is surfaced.
const maxErrOutput = 200

// Downloader wraps the yt-dlp binary. The binary path is resolved once at
// startup by the config layer.
type Downloader struct {
	binPath  string
	maxBytes int64
	log      *zap.SugaredLogger
}

// NewDownloader creates a Downloader enforcing the given size cap in bytes.
func NewDownloader(binPath string, maxBytes int64, log *zap.SugaredLogger) *Downloader {
	return &Downloader{binPath: binPath, maxBytes: maxBytes, log: log}
}

// Fetch downloads the best available audio/video stream for url into
// scratchDir and returns the path of the single resulting file. Playlists
// are refused and the download is capped at the configured size.
func (d *Downloader) Fetch(ctx context.Context, url, scratchDir string) (string, error) {
	if strings.TrimSpace(url) == "" {
		return "", apierrors.NewValidationError("Please provide a video URL or upload a file")
	}

	mediaID := uuid.NewString()[:8]
	outputTemplate := filepath.Join(scratchDir, mediaID+".%(ext)s")

	args := []string{
		"-f", "bestaudio/best",
		"-o", outputTemplate,
		"--no-playlist",
		"--max-filesize", fmt.Sprintf("%d", d.maxBytes),
		"--no-warnings",
		"--quiet",
		url,
	}

	cmd := exec.CommandContext(ctx, d.binPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	d.log.Debugw("fetching media", "url", url, "media_id", mediaID)

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		d.log.Warnw("media download failed", "url", url, "error", detail)
		return "", apierrors.NewAcquisitionError("Download failed. Error: " + truncate(detail, maxErrOutput))
	}

	entries, err := os.ReadDir(scratchDir)
	if err != nil {
		return "", apierrors.NewAcquisitionError("Download finished but scratch directory is unreadable")
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), mediaID) {
			return filepath.Join(scratchDir, entry.Name()), nil
		}
	}

	return "", apierrors.NewAcquisitionError("Video downloaded but file not found")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

package acquire

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apierrors "clipscribe/internal/api/errors"
)

// writeFakeTool writes an executable shell script standing in for yt-dlp.
func writeFakeTool(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "yt-dlp")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

// A fake downloader that honors the -o output template, writing one file
// with the requested ID prefix and an mp4 extension.
const happyTool = `#!/bin/sh
out=""
prev=""
for a in "$@"; do
  if [ "$prev" = "-o" ]; then out="$a"; fi
  prev="$a"
done
path=$(printf '%s' "$out" | sed 's/%(ext)s/mp4/')
printf 'media' > "$path"
`

func TestFetch_ReturnsDownloadedFile(t *testing.T) {
	bin := writeFakeTool(t, happyTool)
	scratch := t.TempDir()
	d := NewDownloader(bin, 200<<20, zap.NewNop().Sugar())

	path, err := d.Fetch(context.Background(), "https://example.com/v/1", scratch)

	require.NoError(t, err)
	assert.Equal(t, ".mp4", filepath.Ext(path))
	assert.Equal(t, scratch, filepath.Dir(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "media", string(data))
}

func TestFetch_EmptyURL(t *testing.T) {
	d := NewDownloader("/nonexistent", 200<<20, zap.NewNop().Sugar())

	_, err := d.Fetch(context.Background(), "   ", t.TempDir())

	require.Error(t, err)
	assert.Equal(t, apierrors.KindValidation, apierrors.AsAPIError(err).Kind)
}

func TestFetch_ToolFailureWrapsStderr(t *testing.T) {
	bin := writeFakeTool(t, "#!/bin/sh\necho 'ERROR: unsupported URL' >&2\nexit 1\n")
	d := NewDownloader(bin, 200<<20, zap.NewNop().Sugar())

	_, err := d.Fetch(context.Background(), "https://example.com/bad", t.TempDir())

	require.Error(t, err)
	apiErr := apierrors.AsAPIError(err)
	assert.Equal(t, apierrors.KindAcquisition, apiErr.Kind)
	assert.Contains(t, apiErr.Message, "Download failed")
	assert.Contains(t, apiErr.Message, "unsupported URL")
}

func TestFetch_ToolFailureTruncatesLongOutput(t *testing.T) {
	long := strings.Repeat("x", 500)
	bin := writeFakeTool(t, "#!/bin/sh\necho '"+long+"' >&2\nexit 1\n")
	d := NewDownloader(bin, 200<<20, zap.NewNop().Sugar())

	_, err := d.Fetch(context.Background(), "https://example.com/bad", t.TempDir())

	require.Error(t, err)
	msg := apierrors.AsAPIError(err).Message
	assert.Less(t, len(msg), 300)
	assert.True(t, strings.HasSuffix(msg, "..."))
}

func TestFetch_NoOutputFile(t *testing.T) {
	// Tool exits 0 without producing anything.
	bin := writeFakeTool(t, "#!/bin/sh\nexit 0\n")
	d := NewDownloader(bin, 200<<20, zap.NewNop().Sugar())

	_, err := d.Fetch(context.Background(), "https://example.com/v/2", t.TempDir())

	require.Error(t, err)
	apiErr := apierrors.AsAPIError(err)
	assert.Equal(t, apierrors.KindAcquisition, apiErr.Kind)
	assert.Contains(t, apiErr.Message, "file not found")
}

func TestFetch_PassesSizeCapAndNoPlaylist(t *testing.T) {
	bin := writeFakeTool(t, `#!/bin/sh
args="$@"
case "$args" in
  *--no-playlist*--max-filesize*) ;;
  *) echo "missing flags" >&2; exit 1 ;;
esac
out=""
prev=""
for a in "$@"; do
  if [ "$prev" = "-o" ]; then out="$a"; fi
  prev="$a"
done
path=$(printf '%s' "$out" | sed 's/%(ext)s/webm/')
: > "$path"
`)
	d := NewDownloader(bin, 1<<20, zap.NewNop().Sugar())

	_, err := d.Fetch(context.Background(), "https://example.com/v/3", t.TempDir())

	require.NoError(t, err)
}

package audio

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apierrors "clipscribe/internal/api/errors"
)

func writeFakeFFmpeg(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ffmpeg")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

// Writes its last argument (the output path) like ffmpeg would.
const happyFFmpeg = `#!/bin/sh
for out in "$@"; do :; done
printf 'RIFF' > "$out"
`

func TestNormalize_ProducesWavNextToInput(t *testing.T) {
	bin := writeFakeFFmpeg(t, happyFFmpeg)
	n := NewNormalizer(bin, zap.NewNop().Sugar())

	dir := t.TempDir()
	input := filepath.Join(dir, "abc123.mp4")
	require.NoError(t, os.WriteFile(input, []byte("x"), 0o644))

	wavPath, err := n.Normalize(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "abc123_16khz.wav"), wavPath)

	data, err := os.ReadFile(wavPath)
	require.NoError(t, err)
	assert.Equal(t, "RIFF", string(data))
}

func TestNormalize_WavInputGetsDistinctOutput(t *testing.T) {
	bin := writeFakeFFmpeg(t, happyFFmpeg)
	n := NewNormalizer(bin, zap.NewNop().Sugar())

	input := filepath.Join(t.TempDir(), "already.wav")

	wavPath, err := n.Normalize(context.Background(), input)

	require.NoError(t, err)
	assert.NotEqual(t, input, wavPath)
}

func TestNormalize_FailureCarriesDiagnostics(t *testing.T) {
	bin := writeFakeFFmpeg(t, "#!/bin/sh\necho 'Invalid data found when processing input' >&2\nexit 1\n")
	n := NewNormalizer(bin, zap.NewNop().Sugar())

	_, err := n.Normalize(context.Background(), "/tmp/whatever.mp4")

	require.Error(t, err)
	apiErr := apierrors.AsAPIError(err)
	assert.Equal(t, apierrors.KindNormalization, apiErr.Kind)
	assert.Contains(t, apiErr.Message, "Invalid data found")
}

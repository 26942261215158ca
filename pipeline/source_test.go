package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsImage(t *testing.T) {
	for _, name := range []string{"a.jpg", "a.JPEG", "/tmp/x.Png", "b.bmp"} {
		assert.True(t, IsImage(name), name)
	}
	for _, name := range []string{"a.mp4", "a.avi", "noext", "a.jpg.mov", "a.gif"} {
		assert.False(t, IsImage(name), name)
	}
}

func TestOpenVideoMissingFile(t *testing.T) {
	_, err := OpenVideo(filepath.Join(t.TempDir(), "missing.mp4"))
	assert.True(t, errors.Is(err, ErrMediaOpen))
}

func TestOpenImageZeroBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.jpg")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	_, err := OpenImage(path)
	assert.True(t, errors.Is(err, ErrMediaOpen))
}

func TestOpenVideoReadsWrittenClip(t *testing.T) {
	path := writeVideo(t, 12, 12, green, 64, 48)

	src, err := OpenVideo(path)
	require.NoError(t, err)
	defer src.Close()

	assert.InDelta(t, 12.0, src.FPS(), 0.5)
}

package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

var (
	red   = gocv.NewScalar(0, 0, 255, 0)
	green = gocv.NewScalar(0, 255, 0, 0)
)

func solidFrame(color gocv.Scalar, width, height int) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(color, height, width, gocv.MatTypeCV8UC3)
}

// writeImage writes a single-color still image and returns its path.
func writeImage(t *testing.T, name string, color gocv.Scalar, width, height int) string {
	t.Helper()

	img := solidFrame(color, width, height)
	defer img.Close()

	path := filepath.Join(t.TempDir(), name)
	require.True(t, gocv.IMWrite(path, img), "writing %s", path)
	return path
}

// writeVideo writes frames single-color frames as an MJPG AVI and returns its path.
func writeVideo(t *testing.T, frames int, fps float64, color gocv.Scalar, width, height int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "clip.avi")
	writer, err := gocv.VideoWriterFile(path, "MJPG", fps, width, height, true)
	require.NoError(t, err)

	img := solidFrame(color, width, height)
	defer img.Close()

	for i := 0; i < frames; i++ {
		require.NoError(t, writer.Write(img))
	}
	require.NoError(t, writer.Close())
	return path
}

package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/khaledhikmat/vs-analyzer/service/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestNewPersonDetectorFallsBackToHOG(t *testing.T) {
	s := config.DefaultSettings()
	s.Detector.ModelPath = filepath.Join(t.TempDir(), "missing.onnx")

	d, err := NewPersonDetector(config.NewStatic(s))
	require.NoError(t, err)
	defer d.Close()

	assert.Equal(t, hogName, d.Name())
}

func TestHOGDetectorOnBlankFrame(t *testing.T) {
	d, err := NewHOGPersonDetector()
	require.NoError(t, err)
	defer d.Close()

	img := solidFrame(green, 128, 256)
	defer img.Close()

	candidates, err := d.Detect(img)
	require.NoError(t, err)
	assert.Empty(t, candidates)

	empty := gocv.NewMat()
	defer empty.Close()
	_, err = d.Detect(empty)
	assert.ErrorIs(t, err, ErrEmptyFrame)
}

func TestYolo5DetectorRejectsMissingFiles(t *testing.T) {
	dir := t.TempDir()
	s := config.DefaultSettings()

	s.Detector.ModelPath = filepath.Join(dir, "missing.onnx")
	_, err := NewYolo5PersonDetector(config.NewStatic(s).GetDetectorParameters())
	assert.Error(t, err)

	modelPath := filepath.Join(dir, "model.onnx")
	require.NoError(t, os.WriteFile(modelPath, []byte("x"), 0o600))
	labels := filepath.Join(dir, "coco.names")
	require.NoError(t, os.WriteFile(labels, []byte("bicycle\ncar\n"), 0o600))

	s.Detector.ModelPath = modelPath
	s.Detector.CocoNamesPath = labels
	_, err = NewYolo5PersonDetector(config.NewStatic(s).GetDetectorParameters())
	assert.ErrorContains(t, err, "person")
}

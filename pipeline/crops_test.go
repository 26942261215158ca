package pipeline

import (
	"encoding/base64"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCropsStaysInsideFrame(t *testing.T) {
	img := solidFrame(red, 100, 80)
	defer img.Close()

	candidates := []Candidate{
		{Rect: image.Rect(10, 10, 40, 70), Confidence: 0.9},
		{Rect: image.Rect(80, 10, 120, 40), Confidence: 0.9}, // right edge overflows
		{Rect: image.Rect(-5, 0, 20, 20), Confidence: 0.9},
		{Rect: image.Rect(30, 30, 30, 60), Confidence: 0.9}, // zero width
		{Rect: image.Rect(0, 0, 100, 80), Confidence: 0.2},  // below floor
		{Rect: image.Rect(60, 60, 50, 50), Confidence: 0.5}, // inverted
	}

	crops := ExtractCrops(img, candidates, 0.3, 90)

	require.Len(t, crops, 2)
	for _, c := range crops {
		assert.GreaterOrEqual(t, c.Box.X, 0)
		assert.GreaterOrEqual(t, c.Box.Y, 0)
		assert.Greater(t, c.Box.Width, 0)
		assert.Greater(t, c.Box.Height, 0)
		assert.LessOrEqual(t, c.Box.X+c.Box.Width, 100)
		assert.LessOrEqual(t, c.Box.Y+c.Box.Height, 80)
	}

	first := crops[0]
	assert.Equal(t, 10, first.Box.X)
	assert.Equal(t, 30, first.Box.Width)
	assert.Equal(t, 60, first.Box.Height)
	assert.InDelta(t, 0.9, first.Confidence, 1e-6)

	raw, err := base64.StdEncoding.DecodeString(first.Image)
	require.NoError(t, err)
	decoded, err := DecodeImage(raw)
	require.NoError(t, err)
	defer decoded.Close()
	assert.Equal(t, 30, decoded.Cols())
	assert.Equal(t, 60, decoded.Rows())

	// inverted rect is canonicalized to (50,50)-(60,60)
	assert.Equal(t, 50, crops[1].Box.X)
	assert.Equal(t, 10, crops[1].Box.Width)
}

func TestExtractCropsNoCandidates(t *testing.T) {
	img := solidFrame(red, 10, 10)
	defer img.Close()

	crops := ExtractCrops(img, nil, 0.3, 90)
	assert.NotNil(t, crops)
	assert.Empty(t, crops)
}

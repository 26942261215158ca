package pipeline

import (
	"iter"
	"math"
	"time"

	"gocv.io/x/gocv"
)

const (
	DefaultFPS      = 30.0
	DefaultInterval = 5 * time.Second
)

// effectiveFPS substitutes DefaultFPS for rates that cannot drive a cadence.
func effectiveFPS(fps float64) float64 {
	if fps <= 0 || math.IsNaN(fps) || math.IsInf(fps, 0) {
		return DefaultFPS
	}
	return fps
}

// samplingStride is the number of decoded frames between two samples.
func samplingStride(fps float64, interval time.Duration) int {
	if interval <= 0 {
		interval = DefaultInterval
	}

	stride := int(math.Round(effectiveFPS(fps) * interval.Seconds()))
	if stride < 1 {
		return 1
	}
	return stride
}

func frameTimestamp(index int, fps float64) float64 {
	return math.Round(float64(index)/effectiveFPS(fps)*100) / 100
}

// Sample walks src once and yields every stride-th frame, where the stride is
// the frame rate times the interval. A single Mat is reused for all frames so
// memory stays flat regardless of the video length.
func Sample(src Source, interval time.Duration) iter.Seq[SampledFrame] {
	return func(yield func(SampledFrame) bool) {
		fps := effectiveFPS(src.FPS())
		stride := samplingStride(fps, interval)

		img := gocv.NewMat()
		defer img.Close() // Crucial to close the image to avoid memory leaks

		frames := 0
		for src.Read(&img) {
			frames++
			if frames%stride != 0 {
				continue
			}

			if !yield(SampledFrame{
				Index:     frames,
				Timestamp: frameTimestamp(frames, fps),
				Mat:       img,
			}) {
				return
			}
		}
	}
}

package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"

	"gocv.io/x/gocv"
	"golang.org/x/xerrors"
)

var ErrMediaOpen = xerrors.New("media could not be opened")

var imageExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"bmp":  true,
}

// IsImage reports whether the file extension selects the single-image path.
func IsImage(path string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	return imageExtensions[ext]
}

type videoSource struct {
	capture *gocv.VideoCapture
}

func OpenVideo(path string) (Source, error) {
	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		if capture != nil {
			capture.Close()
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrMediaOpen, filepath.Base(path), err)
	}

	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("%w: %s", ErrMediaOpen, filepath.Base(path))
	}

	return &videoSource{capture: capture}, nil
}

func (s *videoSource) FPS() float64 {
	return s.capture.Get(gocv.VideoCaptureFPS)
}

func (s *videoSource) Read(m *gocv.Mat) bool {
	return s.capture.Read(m) && !m.Empty()
}

func (s *videoSource) Close() error {
	return s.capture.Close()
}

// OpenImage decodes a still image. The caller owns the returned Mat.
func OpenImage(path string) (gocv.Mat, error) {
	img := gocv.IMRead(path, gocv.IMReadColor)
	if img.Empty() {
		img.Close()
		return gocv.Mat{}, fmt.Errorf("%w: %s", ErrMediaOpen, filepath.Base(path))
	}
	return img, nil
}

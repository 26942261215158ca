package pipeline

import (
	"image"
	"log/slog"
	"os"

	"github.com/khaledhikmat/vs-analyzer/service/config"
	"github.com/khaledhikmat/vs-analyzer/service/lgr"
	"gocv.io/x/gocv"
	"golang.org/x/xerrors"
)

const hogName = "hog"

// hogConfidence is reported for every HOG box: gocv does not expose the SVM
// weights of a detection.
const hogConfidence float32 = 1.0

type hogPersonDetector struct {
	hog gocv.HOGDescriptor
}

func NewHOGPersonDetector() (PersonDetector, error) {
	hog := gocv.NewHOGDescriptor()

	people := gocv.HOGDefaultPeopleDetector()
	defer people.Close()

	if err := hog.SetSVMDetector(people); err != nil {
		hog.Close()
		return nil, xerrors.Errorf("error setting hog people detector: %w", err)
	}

	return &hogPersonDetector{hog: hog}, nil
}

func (d *hogPersonDetector) Name() string {
	return hogName
}

func (d *hogPersonDetector) Detect(img gocv.Mat) ([]Candidate, error) {
	if img.Empty() {
		return nil, ErrEmptyFrame
	}

	rects := d.hog.DetectMultiScaleWithParams(img, 0, image.Pt(8, 8), image.Pt(8, 8), 1.05, 2, false)
	candidates := make([]Candidate, 0, len(rects))
	for _, r := range rects {
		candidates = append(candidates, Candidate{
			Rect:       r,
			Confidence: hogConfidence,
		})
	}
	return candidates, nil
}

func (d *hogPersonDetector) Close() error {
	return d.hog.Close()
}

// NewPersonDetector prefers the YOLOv5 model when its file is present and
// falls back to the HOG people detector otherwise.
func NewPersonDetector(cfgSvc config.IService) (PersonDetector, error) {
	params := cfgSvc.GetDetectorParameters()
	if _, err := os.Stat(params.ModelPath); err == nil {
		d, err := NewYolo5PersonDetector(params)
		if err == nil {
			return d, nil
		}
		lgr.Logger.Warn("yolo5 detector unavailable, using hog",
			slog.String("model", params.ModelPath),
			slog.Any("error", err),
		)
	}

	return NewHOGPersonDetector()
}

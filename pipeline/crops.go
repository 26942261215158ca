package pipeline

import (
	"image"
	"log/slog"

	"github.com/khaledhikmat/vs-analyzer/model"
	"github.com/khaledhikmat/vs-analyzer/service/lgr"
	"gocv.io/x/gocv"
)

// ExtractCrops cuts every candidate at or above floor out of img. Boxes that
// are empty or leave the frame are dropped, as is any candidate whose crop
// cannot be encoded.
func ExtractCrops(img gocv.Mat, candidates []Candidate, floor float64, quality int) []model.SubjectCrop {
	crops := []model.SubjectCrop{}
	if img.Empty() {
		return crops
	}

	bounds := image.Rect(0, 0, img.Cols(), img.Rows())
	for _, c := range candidates {
		if float64(c.Confidence) < floor {
			continue
		}

		crop, ok := extractCrop(img, bounds, c, quality)
		if !ok {
			continue
		}
		crops = append(crops, crop)
	}
	return crops
}

func extractCrop(img gocv.Mat, bounds image.Rectangle, c Candidate, quality int) (crop model.SubjectCrop, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			lgr.Logger.Warn("person crop failed",
				slog.Any("rect", c.Rect),
				slog.Any("panic", r),
			)
			ok = false
		}
	}()

	r := c.Rect.Canon()
	if r.Empty() || !r.In(bounds) {
		return crop, false
	}

	region := img.Region(r)
	defer region.Close()

	data, err := EncodeJPEG(region, quality)
	if err != nil {
		lgr.Logger.Warn("person crop encode failed",
			slog.Any("rect", r),
			slog.Any("error", err),
		)
		return crop, false
	}

	return model.SubjectCrop{
		Box: model.Box{
			X:      r.Min.X,
			Y:      r.Min.Y,
			Width:  r.Dx(),
			Height: r.Dy(),
		},
		Confidence: float64(c.Confidence),
		Image:      EncodeBase64(data),
	}, true
}

package pipeline

import (
	"image"
	"os"
	"strings"

	"github.com/khaledhikmat/vs-analyzer/service/config"
	"gocv.io/x/gocv"
	"golang.org/x/xerrors"
)

const (
	yolo5InputSize = 640
	yolo5Name      = "yolo5"
	personLabel    = "person"
)

// yolo5PersonDetector runs a YOLOv5 ONNX model and keeps person boxes only.
// A gocv Net is not thread-safe, so every request builds its own.
type yolo5PersonDetector struct {
	net       gocv.Net
	personIdx int
	labels    int
	params    config.DetectorParameters
}

func NewYolo5PersonDetector(params config.DetectorParameters) (PersonDetector, error) {
	if _, err := os.Stat(params.ModelPath); err != nil {
		return nil, xerrors.Errorf("yolo5 model %s: %w", params.ModelPath, err)
	}

	labels, err := loadLabels(params.CocoNamesPath)
	if err != nil {
		return nil, err
	}

	personIdx := -1
	for i, l := range labels {
		if strings.EqualFold(strings.TrimSpace(l), personLabel) {
			personIdx = i
			break
		}
	}
	if personIdx < 0 {
		return nil, xerrors.Errorf("labels file %s has no %q class", params.CocoNamesPath, personLabel)
	}

	net := gocv.ReadNet(params.ModelPath, "")
	if net.Empty() {
		net.Close()
		return nil, xerrors.Errorf("error reading yolo5 model %s", params.ModelPath)
	}

	if err := net.SetPreferableBackend(gocv.NetBackendDefault); err != nil {
		net.Close()
		return nil, xerrors.Errorf("error setting backend: %w", err)
	}

	if err := net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
		net.Close()
		return nil, xerrors.Errorf("error setting target: %w", err)
	}

	return &yolo5PersonDetector{
		net:       net,
		personIdx: personIdx,
		labels:    len(labels),
		params:    params,
	}, nil
}

func (d *yolo5PersonDetector) Name() string {
	return yolo5Name
}

func (d *yolo5PersonDetector) Detect(img gocv.Mat) ([]Candidate, error) {
	if img.Empty() {
		return nil, ErrEmptyFrame
	}

	blob := gocv.BlobFromImage(img, 1.0/255.0, image.Pt(yolo5InputSize, yolo5InputSize), gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")

	output := d.net.Forward("")
	defer output.Close()

	dims := output.Size()
	if len(dims) != 3 {
		return nil, xerrors.Errorf("unexpected yolo5 output dims: %v", dims)
	}

	reshaped := output.Reshape(1, dims[1])
	defer reshaped.Close()
	if reshaped.Empty() || reshaped.Rows() == 0 || reshaped.Cols() < 5+d.labels {
		return nil, xerrors.Errorf("unexpected yolo5 output shape: %v", dims)
	}

	// Raw boxes are in network input pixels.
	scaleX := float32(img.Cols()) / yolo5InputSize
	scaleY := float32(img.Rows()) / yolo5InputSize

	var boxes []image.Rectangle
	var scores []float32
	for i := 0; i < reshaped.Rows(); i++ {
		row := reshaped.RowRange(i, i+1)
		data, err := row.DataPtrFloat32()
		if err != nil || len(data) < 5+d.labels {
			row.Close()
			continue
		}

		objectConfidence := data[4]
		if objectConfidence < d.params.ObjectConfidenceThreshold {
			row.Close()
			continue
		}

		conf := objectConfidence * data[5+d.personIdx]
		if conf < d.params.ConfidenceThreshold {
			row.Close()
			continue
		}

		cx := data[0] * scaleX
		cy := data[1] * scaleY
		w := data[2] * scaleX
		h := data[3] * scaleY
		row.Close()

		x := int(cx - w/2)
		y := int(cy - h/2)
		boxes = append(boxes, image.Rect(x, y, x+int(w), y+int(h)))
		scores = append(scores, conf)
	}

	if len(boxes) == 0 {
		return []Candidate{}, nil
	}

	keep := gocv.NMSBoxes(boxes, scores, d.params.ConfidenceThreshold, d.params.NMSThreshold)
	candidates := make([]Candidate, 0, len(keep))
	for _, idx := range keep {
		candidates = append(candidates, Candidate{
			Rect:       boxes[idx],
			Confidence: scores[idx],
		})
	}
	return candidates, nil
}

func (d *yolo5PersonDetector) Close() error {
	return d.net.Close()
}

func loadLabels(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, xerrors.Errorf("read labels %s: %w", path, err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n"), nil
}

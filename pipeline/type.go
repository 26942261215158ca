package pipeline

import (
	"image"

	"github.com/khaledhikmat/vs-analyzer/service/config"
	"github.com/khaledhikmat/vs-analyzer/service/data"
	"github.com/khaledhikmat/vs-analyzer/service/inference"
	"github.com/khaledhikmat/vs-analyzer/service/storage"
	"github.com/khaledhikmat/vs-analyzer/service/webhook"
	"gocv.io/x/gocv"
)

// Source is an opened, decodable media stream. It is consumed once, front to
// back, by a single request.
type Source interface {
	// FPS is the nominal frame rate; zero or negative when unknown.
	FPS() float64
	// Read decodes the next frame into m and reports whether one was available.
	Read(m *gocv.Mat) bool
	Close() error
}

// SampledFrame is only valid until the sampler moves on to the next frame.
// Consumers that need the pixels longer must Clone the Mat.
type SampledFrame struct {
	Index     int
	Timestamp float64
	Mat       gocv.Mat
}

// Candidate is a raw person box reported by a detector, before any bounds checks.
type Candidate struct {
	Rect       image.Rectangle
	Confidence float32
}

type PersonDetector interface {
	Name() string
	Detect(img gocv.Mat) ([]Candidate, error)
	Close() error
}

// DetectorFactory builds a request-scoped detector.
type DetectorFactory func(cfgSvc config.IService) (PersonDetector, error)

type ServicesFactory struct {
	CfgSvc          config.IService
	DataSvc         data.IService
	StorageSvc      storage.IService
	InferenceSvc    inference.IService
	WebhookSvc      webhook.IService
	DetectorFactory DetectorFactory
}

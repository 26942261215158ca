package data

import "github.com/khaledhikmat/vs-analyzer/model"

// IService journals operational records. Nothing written here is read back by
// the analysis pipeline.
type IService interface {
	NewError(err interface{}) error
	NewAnalysisStats(stats model.AnalysisStats) error
	NewDetection(record model.DetectionRecord) error
	Close() error
}

package pipeline

import (
	"github.com/khaledhikmat/vs-analyzer/model"
)

// Assembler collects frame reports in sampling order.
type Assembler struct {
	includeSnapshots bool
	reports          []model.FrameReport
	flagged          int
	crops            int
}

func NewAssembler(includeSnapshots bool) *Assembler {
	return &Assembler{
		includeSnapshots: includeSnapshots,
	}
}

// Add records one frame. jpeg is the encoded frame; it becomes the snapshot
// when snapshots are enabled.
func (a *Assembler) Add(index int, timestamp float64, jpeg []byte, v model.Verdict, mode model.Mode, crops []model.SubjectCrop) {
	fr := model.FrameReport{
		Frame:        index,
		TimestampSec: timestamp,
		Analysis:     v,
		Persons:      crops,
	}
	if a.includeSnapshots {
		fr.Snapshot = EncodeBase64(jpeg)
	}

	if v.Flagged(mode) {
		a.flagged++
	}
	a.crops += len(crops)
	a.reports = append(a.reports, fr)
}

func (a *Assembler) Len() int {
	return len(a.reports)
}

func (a *Assembler) Flagged() int {
	return a.flagged
}

func (a *Assembler) Crops() int {
	return a.crops
}

// Result returns the normalized result, or the synthetic error result when
// no frame was added.
func (a *Assembler) Result() model.AnalysisResult {
	if len(a.reports) == 0 {
		return model.ErrorResult("no frames could be analyzed")
	}
	return model.AnalysisResult{Results: a.reports}.Normalize()
}

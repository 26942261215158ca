package model

import (
	"encoding/json"
	"math"
)

type Box struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// SubjectCrop is a person region cut from a flagged frame.
type SubjectCrop struct {
	Box        Box     `json:"bbox"`
	Confidence float64 `json:"confidence"`
	Image      string  `json:"image"` // base64 JPEG
}

type FrameReport struct {
	Frame        int           `json:"frame"`
	TimestampSec float64       `json:"timestamp_sec"`
	Analysis     Verdict       `json:"analysis"`
	Snapshot     string        `json:"snapshot,omitempty"` // base64 JPEG of the full frame
	Persons      []SubjectCrop `json:"persons"`
}

type AnalysisResult struct {
	Results []FrameReport `json:"results"`
}

// ErrorResult is returned whenever the pipeline produced no frame report at all.
func ErrorResult(summary string) AnalysisResult {
	return AnalysisResult{
		Results: []FrameReport{
			{
				Frame:        1,
				TimestampSec: 0.0,
				Analysis: Verdict{
					Status:  StatusError,
					Summary: summary,
					Weapons: []string{},
				},
				Persons: []SubjectCrop{},
			},
		},
	}
}

// Normalize returns a copy whose numeric fields are finite and whose slices
// are non-nil, so the result always encodes to well-formed JSON.
func (r AnalysisResult) Normalize() AnalysisResult {
	out := AnalysisResult{Results: make([]FrameReport, 0, len(r.Results))}
	for _, fr := range r.Results {
		out.Results = append(out.Results, fr.Normalize())
	}
	return out
}

func (fr FrameReport) Normalize() FrameReport {
	if fr.Frame < 1 {
		fr.Frame = 1
	}
	fr.TimestampSec = RoundSeconds(finite(fr.TimestampSec))

	weapons := make([]string, len(fr.Analysis.Weapons))
	copy(weapons, fr.Analysis.Weapons)
	fr.Analysis.Weapons = weapons

	persons := make([]SubjectCrop, 0, len(fr.Persons))
	for _, p := range fr.Persons {
		p.Confidence = finite(p.Confidence)
		p.Box = Box{
			X:      max(p.Box.X, 0),
			Y:      max(p.Box.Y, 0),
			Width:  max(p.Box.Width, 0),
			Height: max(p.Box.Height, 0),
		}
		persons = append(persons, p)
	}
	fr.Persons = persons
	return fr
}

// Stripped keeps primitive fields and the snapshot only.
func (r AnalysisResult) Stripped() AnalysisResult {
	out := AnalysisResult{Results: make([]FrameReport, 0, len(r.Results))}
	for _, fr := range r.Results {
		out.Results = append(out.Results, FrameReport{
			Frame:        fr.Frame,
			TimestampSec: RoundSeconds(finite(fr.TimestampSec)),
			Analysis: Verdict{
				Status:  fr.Analysis.Status,
				Summary: fr.Analysis.Summary,
				Weapons: append([]string{}, fr.Analysis.Weapons...),
			},
			Snapshot: fr.Snapshot,
			Persons:  []SubjectCrop{},
		})
	}
	if len(out.Results) == 0 {
		return ErrorResult("empty analysis result")
	}
	return out
}

// EnsureSerializable verifies the result encodes to JSON. When it does not, it
// returns the stripped result together with the encoding error.
func EnsureSerializable(r AnalysisResult) (AnalysisResult, error) {
	if len(r.Results) == 0 {
		return ErrorResult("empty analysis result"), nil
	}
	if _, err := json.Marshal(r); err != nil {
		return r.Stripped(), err
	}
	return r, nil
}

// RoundSeconds rounds to 2 decimal places.
func RoundSeconds(v float64) float64 {
	return math.Round(v*100) / 100
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

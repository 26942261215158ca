package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorResultShape(t *testing.T) {
	r := ErrorResult("could not open media")

	require.Len(t, r.Results, 1)
	fr := r.Results[0]
	assert.Equal(t, 1, fr.Frame)
	assert.Equal(t, 0.0, fr.TimestampSec)
	assert.Equal(t, StatusError, fr.Analysis.Status)
	assert.NotNil(t, fr.Analysis.Weapons)
	assert.Empty(t, fr.Analysis.Weapons)
	assert.Empty(t, fr.Persons)
}

func TestNormalizeScrubsNonFiniteNumbers(t *testing.T) {
	r := AnalysisResult{Results: []FrameReport{
		{
			Frame:        0,
			TimestampSec: math.NaN(),
			Analysis:     Verdict{Status: StatusDanger, Weapons: []string{"gun"}},
			Persons: []SubjectCrop{
				{Box: Box{X: -3, Y: 2, Width: 10, Height: 20}, Confidence: math.Inf(1)},
			},
		},
		{
			Frame:        150,
			TimestampSec: 5.004,
			Analysis:     Verdict{Status: StatusSafe},
		},
	}}

	n := r.Normalize()

	assert.Equal(t, 1, n.Results[0].Frame)
	assert.Equal(t, 0.0, n.Results[0].TimestampSec)
	assert.Equal(t, 0.0, n.Results[0].Persons[0].Confidence)
	assert.Equal(t, 0, n.Results[0].Persons[0].Box.X)
	assert.Equal(t, 5.0, n.Results[1].TimestampSec)
	assert.NotNil(t, n.Results[1].Analysis.Weapons)
	assert.NotNil(t, n.Results[1].Persons)

	_, err := json.Marshal(n)
	assert.NoError(t, err)
}

func TestEnsureSerializableStripsCrops(t *testing.T) {
	r := AnalysisResult{Results: []FrameReport{
		{
			Frame:        30,
			TimestampSec: 1,
			Analysis:     Verdict{Status: StatusDanger, Weapons: []string{"knife"}},
			Snapshot:     "c25hcHNob3Q=",
			Persons:      []SubjectCrop{{Confidence: math.NaN()}},
		},
	}}

	out, err := EnsureSerializable(r)

	require.Error(t, err)
	require.Len(t, out.Results, 1)
	assert.Empty(t, out.Results[0].Persons)
	assert.Equal(t, "c25hcHNob3Q=", out.Results[0].Snapshot)
	assert.Equal(t, StatusDanger, out.Results[0].Analysis.Status)

	_, err = json.Marshal(out)
	assert.NoError(t, err)
}

func TestEnsureSerializableNeverEmpty(t *testing.T) {
	out, err := EnsureSerializable(AnalysisResult{})

	require.NoError(t, err)
	require.Len(t, out.Results, 1)
	assert.Equal(t, StatusError, out.Results[0].Analysis.Status)
}

func TestEnsureSerializablePassThrough(t *testing.T) {
	r := ErrorResult("x")

	out, err := EnsureSerializable(r)

	require.NoError(t, err)
	assert.Equal(t, r, out)
}

func TestReportJSONFieldNames(t *testing.T) {
	data, err := json.Marshal(ErrorResult("boom"))
	require.NoError(t, err)

	var decoded map[string][]map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	fr := decoded["results"][0]
	assert.Contains(t, fr, "frame")
	assert.Contains(t, fr, "timestamp_sec")
	assert.Contains(t, fr, "analysis")
	assert.Contains(t, fr, "persons")
	assert.NotContains(t, fr, "snapshot")
}

func TestModeVocabulary(t *testing.T) {
	m, err := ParseMode(" Anomaly ")
	require.NoError(t, err)
	assert.Equal(t, ModeAnomaly, m)

	_, err = ParseMode("faces")
	assert.Error(t, err)

	assert.True(t, ModeWeapons.Allows(StatusDanger))
	assert.False(t, ModeWeapons.Allows(StatusCritical))
	assert.True(t, ModeAnomaly.Allows(StatusCritical))
	assert.Equal(t, StatusSafe, ModeWeapons.DefaultStatus())
	assert.Equal(t, StatusNormal, ModeAnomaly.DefaultStatus())

	assert.True(t, Verdict{Status: StatusDanger, Weapons: []string{"gun"}}.Flagged(ModeWeapons))
	assert.False(t, Verdict{Status: StatusDanger}.Flagged(ModeWeapons))
	assert.False(t, Verdict{Status: StatusAnomaly, Weapons: []string{"gun"}}.Flagged(ModeAnomaly))
	assert.True(t, Verdict{Status: StatusCritical, Weapons: []string{"gun"}}.Flagged(ModeAnomaly))
}

package mode

import (
	"bytes"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/khaledhikmat/vs-analyzer/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnalyzeArgs(t *testing.T) {
	_, _, err := parseAnalyzeArgs(nil)
	assert.Error(t, err)

	path, opts, err := parseAnalyzeArgs([]string{"clip.mp4"})
	require.NoError(t, err)
	assert.Equal(t, "clip.mp4", path)
	assert.Equal(t, model.Mode(""), opts.Mode)

	_, opts, err = parseAnalyzeArgs([]string{"clip.mp4", "ANOMALY", "2.5"})
	require.NoError(t, err)
	assert.Equal(t, model.ModeAnomaly, opts.Mode)
	assert.Equal(t, 2500*time.Millisecond, opts.Interval)

	_, _, err = parseAnalyzeArgs([]string{"clip.mp4", "faces"})
	assert.Error(t, err)

	_, _, err = parseAnalyzeArgs([]string{"clip.mp4", "weapons", "-1"})
	assert.Error(t, err)
}

func TestPrintSummary(t *testing.T) {
	color.NoColor = true

	result := model.AnalysisResult{Results: []model.FrameReport{
		{
			Frame:        150,
			TimestampSec: 5,
			Analysis:     model.Verdict{Status: model.StatusDanger, Summary: "Man with a knife", Weapons: []string{"knife"}},
			Persons:      []model.SubjectCrop{{}},
		},
	}}

	var buf bytes.Buffer
	printSummary(&buf, result)

	out := buf.String()
	assert.Contains(t, out, "150")
	assert.Contains(t, out, "5.00")
	assert.Contains(t, out, "danger")
	assert.Contains(t, out, "knife")
	assert.Contains(t, out, "Man with a knife")
}

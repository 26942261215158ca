package data

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/khaledhikmat/vs-analyzer/model"
	"github.com/khaledhikmat/vs-analyzer/service/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readLines(t *testing.T, path string) []map[string]interface{} {
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var out []map[string]interface{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &m))
		out = append(out, m)
	}
	require.NoError(t, scanner.Err())
	return out
}

func newTestJournal(t *testing.T) (IService, string) {
	dir := t.TempDir()
	s := config.DefaultSettings()
	s.JournalFolder = dir
	svc := NewJournal(config.NewStatic(s))
	t.Cleanup(func() { svc.Close() })
	return svc, dir
}

func TestJournalErrors(t *testing.T) {
	svc, dir := newTestJournal(t)

	require.NoError(t, svc.NewError(model.GenError("analyzer", errors.New("open failed"), map[string]interface{}{"file": "a.mp4"}, "could not open %s", "a.mp4")))
	require.NoError(t, svc.NewError(errors.New("plain")))
	require.NoError(t, svc.NewError("not an error"))

	lines := readLines(t, filepath.Join(dir, "errors.log"))
	require.Len(t, lines, 3)
	assert.Equal(t, "analyzer", lines[0]["processor"])
	assert.Equal(t, "open failed", lines[0]["innerError"])
	assert.Equal(t, "could not open a.mp4", lines[0]["message"])
	assert.Equal(t, "plain", lines[1]["message"])
	assert.Equal(t, "not an error", lines[2]["message"])
}

func TestJournalStatsAndDetections(t *testing.T) {
	svc, dir := newTestJournal(t)

	require.NoError(t, svc.NewAnalysisStats(model.AnalysisStats{ID: "req-1", Frames: 4, Flagged: 1}))
	require.NoError(t, svc.NewDetection(model.DetectionRecord{RequestID: "req-1", Frame: 150, Status: model.StatusDanger, Weapons: []string{"gun"}}))

	stats := readLines(t, filepath.Join(dir, "analysis-stats.log"))
	require.Len(t, stats, 1)
	assert.Equal(t, "req-1", stats[0]["id"])
	assert.NotZero(t, stats[0]["timestamp"])

	detections := readLines(t, filepath.Join(dir, "detections.log"))
	require.Len(t, detections, 1)
	assert.Equal(t, "danger", detections[0]["status"])
	assert.NotEmpty(t, detections[0]["time"])
}

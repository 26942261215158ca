package mode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/khaledhikmat/vs-analyzer/model"
	"github.com/khaledhikmat/vs-analyzer/pipeline"
	"golang.org/x/xerrors"
)

const analyzeUsage = "usage: analyze <file> [weapons|anomaly] [interval-seconds]"

// Analyze runs the pipeline once over a local file, prints a per-frame
// summary and then the JSON report.
func Analyze(canxCtx context.Context, svcs pipeline.ServicesFactory, args []string) error {
	path, opts, err := parseAnalyzeArgs(args)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err != nil {
		return xerrors.Errorf("analyze %s: %w", path, err)
	}

	result := pipeline.NewAnalyzer(svcs).Analyze(canxCtx, path, opts)

	printSummary(color.Output, result)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func parseAnalyzeArgs(args []string) (string, pipeline.Options, error) {
	opts := pipeline.Options{}
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return "", opts, xerrors.New(analyzeUsage)
	}

	if len(args) > 1 {
		m, err := model.ParseMode(args[1])
		if err != nil {
			return "", opts, err
		}
		opts.Mode = m
	}

	if len(args) > 2 {
		var secs float64
		if _, err := fmt.Sscanf(args[2], "%g", &secs); err != nil || secs <= 0 {
			return "", opts, xerrors.Errorf("invalid interval %q: %s", args[2], analyzeUsage)
		}
		opts.Interval = time.Duration(secs * float64(time.Second))
	}

	return args[0], opts, nil
}

func statusColor(s model.Status) *color.Color {
	switch s {
	case model.StatusDanger, model.StatusCritical:
		return color.New(color.FgRed, color.Bold)
	case model.StatusAnomaly:
		return color.New(color.FgYellow)
	case model.StatusError:
		return color.New(color.FgMagenta)
	default:
		return color.New(color.FgGreen)
	}
}

func printSummary(w io.Writer, result model.AnalysisResult) {
	header := color.New(color.Bold)
	header.Fprintf(w, "%-8s %-10s %-9s %-7s %s\n", "FRAME", "TIME(s)", "STATUS", "PERSONS", "WEAPONS")

	for _, fr := range result.Results {
		fmt.Fprintf(w, "%-8d %-10.2f ", fr.Frame, fr.TimestampSec)
		statusColor(fr.Analysis.Status).Fprintf(w, "%-9s", fr.Analysis.Status)
		fmt.Fprintf(w, " %-7d %s\n", len(fr.Persons), strings.Join(fr.Analysis.Weapons, ", "))
		if fr.Analysis.Summary != "" {
			fmt.Fprintf(w, "         %s\n", fr.Analysis.Summary)
		}
	}
}

package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/khaledhikmat/vs-analyzer/model"
	"github.com/khaledhikmat/vs-analyzer/service/lgr"
	"github.com/khaledhikmat/vs-analyzer/service/metrics"
	"github.com/khaledhikmat/vs-analyzer/service/tracing"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gocv.io/x/gocv"
)

const (
	mediaImage = "image"
	mediaVideo = "video"
)

// Options override the configured defaults for one request.
type Options struct {
	// Mode falls back to the configured detection mode when empty.
	Mode model.Mode
	// Interval falls back to the configured sampling interval when zero.
	Interval time.Duration
	// Name is the client-facing file name used in logs and alerts.
	Name string
}

// Analyzer holds no per-request state and may be shared by concurrent requests.
type Analyzer struct {
	svcs   ServicesFactory
	tracer trace.Tracer
}

func NewAnalyzer(svcs ServicesFactory) *Analyzer {
	if svcs.DetectorFactory == nil {
		svcs.DetectorFactory = NewPersonDetector
	}
	return &Analyzer{
		svcs:   svcs,
		tracer: otel.Tracer(tracing.ServiceName),
	}
}

// request is the state of one analysis. Nothing here outlives Analyze.
type request struct {
	id         string
	file       string
	mode       model.Mode
	classifier *Classifier
	assembler  *Assembler

	detector    PersonDetector
	detectorErr error

	frames     int
	degraded   int
	oracleTime time.Duration
}

// Analyze never fails: media and oracle problems degrade to error or default
// frame reports, so the result always holds at least one report.
func (a *Analyzer) Analyze(ctx context.Context, path string, opts Options) model.AnalysisResult {
	start := time.Now()
	cfgSvc := a.svcs.CfgSvc

	req := &request{
		id:   uuid.NewString(),
		file: opts.Name,
		mode: a.resolveMode(opts.Mode),
	}
	if req.file == "" {
		req.file = filepath.Base(path)
	}
	req.classifier = NewClassifier(a.svcs.InferenceSvc, req.mode, cfgSvc.GetJPEGQuality())
	req.assembler = NewAssembler(cfgSvc.GetIncludeSnapshots())
	defer req.closeDetector()

	media := mediaVideo
	if IsImage(path) {
		media = mediaImage
	}

	ctx, span := a.tracer.Start(ctx, "analyze", trace.WithAttributes(
		attribute.String("request.id", req.id),
		attribute.String("media", media),
		attribute.String("mode", string(req.mode)),
	))
	defer span.End()

	lgr.Logger.Info("analysis started",
		slog.String("request", req.id),
		slog.String("file", req.file),
		slog.String("media", media),
		slog.String("mode", string(req.mode)),
	)

	var openErr error
	if media == mediaImage {
		openErr = a.analyzeImage(ctx, req, path)
	} else {
		interval := opts.Interval
		if interval <= 0 {
			interval = cfgSvc.GetSamplingInterval()
		}
		openErr = a.analyzeVideo(ctx, req, path, interval)
	}

	outcome := "ok"
	var result model.AnalysisResult
	if openErr != nil {
		outcome = "open_error"
		span.RecordError(openErr)
		span.SetStatus(codes.Error, "media open failed")
		lgr.Logger.Warn("media could not be opened",
			slog.String("request", req.id),
			slog.String("file", req.file),
			slog.Any("error", openErr),
		)
		a.journalError(model.GenError("analyzer", openErr, map[string]interface{}{"request": req.id}, "error opening %s", req.file))
		result = model.ErrorResult("Could not open media file")
	} else {
		if req.assembler.Len() == 0 {
			outcome = "empty"
		}
		result = req.assembler.Result()
	}

	result, err := model.EnsureSerializable(result)
	stripped := err != nil
	if stripped {
		outcome = "stripped"
		lgr.Logger.Error("analysis result not serializable, stripping crops",
			slog.String("request", req.id),
			slog.Any("error", err),
		)
		a.journalError(model.GenError("analyzer", err, map[string]interface{}{"request": req.id}, "error serializing result"))
	}

	elapsed := time.Since(start)
	metrics.AnalysesTotal.WithLabelValues(media, outcome).Inc()
	metrics.AnalysisDuration.WithLabelValues(media).Observe(elapsed.Seconds())
	span.SetAttributes(
		attribute.Int("frames", req.frames),
		attribute.Int("flagged", req.assembler.Flagged()),
		attribute.String("outcome", outcome),
	)

	stats := model.AnalysisStats{
		ID:        req.id,
		File:      req.file,
		Mode:      req.mode,
		MediaType: media,
		Frames:    req.frames,
		Flagged:   req.assembler.Flagged(),
		Crops:     req.assembler.Crops(),
		Degraded:  req.degraded > 0,
		Stripped:  stripped,
		ProcTime:  elapsed.Seconds(),
	}
	if req.frames > 0 {
		stats.AvgOracleMs = float64(req.oracleTime.Milliseconds()) / float64(req.frames)
	}
	if a.svcs.DataSvc != nil {
		if err := a.svcs.DataSvc.NewAnalysisStats(stats); err != nil {
			lgr.Logger.Error("error journaling analysis stats", slog.Any("error", err))
		}
	}

	lgr.Logger.Info("analysis finished",
		slog.String("request", req.id),
		slog.String("outcome", outcome),
		slog.Int("frames", req.frames),
		slog.Int("flagged", stats.Flagged),
		slog.Duration("elapsed", elapsed),
	)

	return result
}

func (a *Analyzer) resolveMode(m model.Mode) model.Mode {
	if m.Valid() {
		return m
	}
	configured, err := model.ParseMode(a.svcs.CfgSvc.GetDetectionMode())
	if err != nil {
		return model.ModeWeapons
	}
	return configured
}

func (a *Analyzer) analyzeImage(ctx context.Context, req *request, path string) error {
	img, err := OpenImage(path)
	if err != nil {
		return err
	}
	defer img.Close()

	a.processFrame(ctx, req, img, 1, 0.0)
	return nil
}

func (a *Analyzer) analyzeVideo(ctx context.Context, req *request, path string, interval time.Duration) error {
	src, err := OpenVideo(path)
	if err != nil {
		return err
	}
	defer src.Close()

	for f := range Sample(src, interval) {
		a.processFrame(ctx, req, f.Mat, f.Index, f.Timestamp)
	}
	return nil
}

// processFrame classifies one frame, attaches person crops when the verdict
// is flagged and hands the report to the assembler.
func (a *Analyzer) processFrame(ctx context.Context, req *request, img gocv.Mat, index int, timestamp float64) {
	cl := req.classifier.Classify(ctx, img)
	req.frames++
	req.oracleTime += cl.Elapsed
	if cl.Degraded {
		req.degraded++
	}
	metrics.FramesAnalyzedTotal.WithLabelValues(string(req.mode), string(cl.Verdict.Status)).Inc()

	crops := []model.SubjectCrop{}
	if cl.Verdict.Flagged(req.mode) {
		crops = a.detectPersons(req, img)
		metrics.CropsExtractedTotal.Add(float64(len(crops)))

		SimpleAlerter(ctx, a.svcs, AlertData{
			RequestID:    req.id,
			File:         req.file,
			Mode:         req.mode,
			Frame:        index,
			TimestampSec: timestamp,
			Verdict:      cl.Verdict,
			Persons:      len(crops),
		})
	}

	req.assembler.Add(index, timestamp, cl.JPEG, cl.Verdict, req.mode, crops)
}

// detectPersons builds the request's detector on first use. Any detector
// failure yields no crops.
func (a *Analyzer) detectPersons(req *request, img gocv.Mat) (crops []model.SubjectCrop) {
	crops = []model.SubjectCrop{}

	defer func() {
		if r := recover(); r != nil {
			lgr.Logger.Warn("person detector panicked",
				slog.String("request", req.id),
				slog.Any("panic", r),
			)
			crops = []model.SubjectCrop{}
		}
	}()

	if req.detector == nil && req.detectorErr == nil {
		req.detector, req.detectorErr = a.svcs.DetectorFactory(a.svcs.CfgSvc)
		if req.detectorErr != nil {
			lgr.Logger.Warn("person detector unavailable",
				slog.String("request", req.id),
				slog.Any("error", req.detectorErr),
			)
			a.journalError(model.GenError("analyzer", req.detectorErr, nil, "error creating person detector"))
		}
	}
	if req.detector == nil {
		return crops
	}

	candidates, err := req.detector.Detect(img)
	if err != nil {
		lgr.Logger.Warn("person detection failed",
			slog.String("request", req.id),
			slog.String("detector", req.detector.Name()),
			slog.Any("error", err),
		)
		return crops
	}

	params := a.svcs.CfgSvc.GetDetectorParameters()
	return ExtractCrops(img, candidates, params.ConfidenceFloor, a.svcs.CfgSvc.GetJPEGQuality())
}

func (req *request) closeDetector() {
	if req.detector == nil {
		return
	}
	if err := req.detector.Close(); err != nil {
		lgr.Logger.Warn("error closing person detector", slog.Any("error", err))
	}
}

func (a *Analyzer) journalError(err model.CustomError) {
	if a.svcs.DataSvc == nil {
		return
	}
	if jerr := a.svcs.DataSvc.NewError(err); jerr != nil {
		lgr.Logger.Error("error journaling error", slog.Any("error", jerr))
	}
}

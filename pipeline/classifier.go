package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/khaledhikmat/vs-analyzer/model"
	"github.com/khaledhikmat/vs-analyzer/service/inference"
	"github.com/khaledhikmat/vs-analyzer/service/lgr"
	"github.com/khaledhikmat/vs-analyzer/service/metrics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gocv.io/x/gocv"
)

// Classification is the outcome of one oracle round trip for one frame.
type Classification struct {
	Verdict model.Verdict
	// JPEG is the encoded frame that was sent, reused for the snapshot.
	JPEG []byte
	// Degraded is set when the verdict is the mode default because the call,
	// the encoding or the reply failed.
	Degraded bool
	Elapsed  time.Duration
}

// Classifier turns frames into verdicts. It never returns an error: every
// failure collapses into the mode's default verdict.
type Classifier struct {
	svc     inference.IService
	mode    model.Mode
	quality int
}

func NewClassifier(svc inference.IService, mode model.Mode, quality int) *Classifier {
	return &Classifier{
		svc:     svc,
		mode:    mode,
		quality: quality,
	}
}

func (c *Classifier) Classify(ctx context.Context, img gocv.Mat) Classification {
	data, err := EncodeJPEG(img, c.quality)
	if err != nil {
		lgr.Logger.Warn("frame encode failed",
			slog.String("mode", string(c.mode)),
			slog.Any("error", err),
		)
		return Classification{
			Verdict:  model.DefaultVerdict(c.mode),
			Degraded: true,
		}
	}

	return c.ClassifyEncoded(ctx, data)
}

// ClassifyEncoded sends an already encoded JPEG frame to the oracle.
func (c *Classifier) ClassifyEncoded(ctx context.Context, data []byte) (cl Classification) {
	cl = Classification{
		Verdict:  model.DefaultVerdict(c.mode),
		JPEG:     data,
		Degraded: true,
	}

	provider := c.svc.Name()
	span := trace.SpanFromContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			lgr.Logger.Error("oracle call panicked",
				slog.String("provider", provider),
				slog.Any("panic", r),
			)
			metrics.OracleCallsTotal.WithLabelValues(provider, "panic").Inc()
			cl.Verdict = model.DefaultVerdict(c.mode)
			cl.Degraded = true
		}
	}()

	start := time.Now()
	reply, err := c.svc.Generate(ctx, inference.Request{
		Image:    data,
		MIMEType: JPEGMIMEType,
		Prompt:   PromptFor(c.mode),
	})
	cl.Elapsed = time.Since(start)
	metrics.OracleCallDuration.WithLabelValues(provider).Observe(cl.Elapsed.Seconds())

	if err != nil {
		metrics.OracleCallsTotal.WithLabelValues(provider, "error").Inc()
		span.AddEvent("oracle.error", trace.WithAttributes(attribute.String("error", err.Error())))
		lgr.Logger.Warn("oracle call failed",
			slog.String("provider", provider),
			slog.Any("error", err),
		)
		return cl
	}

	v, err := ParseVerdict(reply, c.mode)
	if err != nil {
		metrics.OracleCallsTotal.WithLabelValues(provider, "unparsed").Inc()
		span.AddEvent("oracle.unparsed", trace.WithAttributes(attribute.String("error", err.Error())))
		lgr.Logger.Warn("oracle reply rejected",
			slog.String("provider", provider),
			slog.String("reply", truncate(reply, 200)),
			slog.Any("error", err),
		)
		return cl
	}

	metrics.OracleCallsTotal.WithLabelValues(provider, "ok").Inc()
	span.AddEvent("oracle.verdict", trace.WithAttributes(
		attribute.String("status", string(v.Status)),
		attribute.Int("weapons", len(v.Weapons)),
	))

	cl.Verdict = v
	cl.Degraded = false
	return cl
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return fmt.Sprintf("%s...(%d bytes)", s[:n], len(s))
}

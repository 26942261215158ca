package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/khaledhikmat/vs-analyzer/model"
	"github.com/khaledhikmat/vs-analyzer/service/lgr"
)

// AlertData describes one flagged frame.
type AlertData struct {
	RequestID    string
	File         string
	Mode         model.Mode
	Frame        int
	TimestampSec float64
	Verdict      model.Verdict
	Persons      int
}

// SimpleAlerter logs a flagged frame, journals it and posts it to the webhook.
// Failures are journaled and never affect the analysis result.
func SimpleAlerter(ctx context.Context, svcs ServicesFactory, alert AlertData) {
	lgr.Logger.Info(
		"alert detected",
		slog.String("request", alert.RequestID),
		slog.String("file", alert.File),
		slog.String("status", string(alert.Verdict.Status)),
		slog.Any("weapons", alert.Verdict.Weapons),
		slog.Int("frame", alert.Frame),
		slog.Float64("timestamp", alert.TimestampSec),
		slog.Int("persons", alert.Persons),
	)

	now := time.Now().Format(time.RFC3339)

	if svcs.DataSvc != nil {
		err := svcs.DataSvc.NewDetection(model.DetectionRecord{
			RequestID:    alert.RequestID,
			File:         alert.File,
			Mode:         alert.Mode,
			Frame:        alert.Frame,
			TimestampSec: alert.TimestampSec,
			Status:       alert.Verdict.Status,
			Weapons:      alert.Verdict.Weapons,
			Summary:      alert.Verdict.Summary,
			Persons:      alert.Persons,
			Time:         now,
		})
		if err != nil {
			lgr.Logger.Error("error journaling detection", slog.Any("error", err))
		}
	}

	if svcs.WebhookSvc == nil {
		return
	}

	payload := map[string]interface{}{
		"source":       alert.File,
		"requestId":    alert.RequestID,
		"mode":         string(alert.Mode),
		"label":        string(alert.Verdict.Status),
		"weapons":      alert.Verdict.Weapons,
		"summary":      alert.Verdict.Summary,
		"frame":        alert.Frame,
		"timestampSec": alert.TimestampSec,
		"persons":      alert.Persons,
		"timestamp":    now,
	}

	if err := svcs.WebhookSvc.Post(ctx, payload); err != nil {
		lgr.Logger.Warn("alert webhook failed", slog.Any("error", err))
		if svcs.DataSvc != nil {
			_ = svcs.DataSvc.NewError(model.GenError("alerter",
				err,
				map[string]interface{}{"request": alert.RequestID, "frame": alert.Frame},
				"error posting alert webhook"))
		}
	}
}

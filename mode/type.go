package mode

import (
	"context"
	"log/slog"

	"github.com/khaledhikmat/vs-analyzer/pipeline"
	"github.com/khaledhikmat/vs-analyzer/service/data"
	"github.com/khaledhikmat/vs-analyzer/service/lgr"
)

// Processor runs one process mode until it finishes or canxCtx is cancelled.
// args are the command line arguments following the mode name.
type Processor func(canxCtx context.Context, svcs pipeline.ServicesFactory, args []string) error

func procError(datasvc data.IService, err interface{}) {
	if datasvc == nil {
		return
	}

	errTemp := datasvc.NewError(err)
	if errTemp != nil {
		lgr.Logger.Error(
			"failed to store error",
			slog.Any("error", errTemp),
		)
	}
}

package mode

import (
	"context"
	"time"

	"github.com/khaledhikmat/vs-analyzer/api"
	"github.com/khaledhikmat/vs-analyzer/model"
	"github.com/khaledhikmat/vs-analyzer/pipeline"
	"github.com/khaledhikmat/vs-analyzer/service/lgr"
)

// Server serves the analysis API until the context is cancelled.
func Server(canxCtx context.Context, svcs pipeline.ServicesFactory, _ []string) error {
	srv := api.NewServer(svcs.CfgSvc, pipeline.NewAnalyzer(svcs), svcs.StorageSvc)
	errs := srv.Start()

	var runErr error
	select {
	case <-canxCtx.Done():
		lgr.Logger.Info(
			"server mode context cancelled",
		)

	case err, ok := <-errs:
		if ok && err != nil {
			procError(svcs.DataSvc, model.GenError("server_mode",
				err,
				map[string]interface{}{},
				"http server stopped"))
			runErr = err
		}
	}

	// The shutdown must finish before main gives up waiting
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(svcs.CfgSvc.GetModeMaxShutdownTime())*time.Second)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

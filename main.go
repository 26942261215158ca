package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/xerrors"

	"github.com/khaledhikmat/vs-analyzer/mode"
	"github.com/khaledhikmat/vs-analyzer/pipeline"
	"github.com/khaledhikmat/vs-analyzer/service/config"
	"github.com/khaledhikmat/vs-analyzer/service/data"
	"github.com/khaledhikmat/vs-analyzer/service/inference"
	"github.com/khaledhikmat/vs-analyzer/service/lgr"
	"github.com/khaledhikmat/vs-analyzer/service/storage"
	"github.com/khaledhikmat/vs-analyzer/service/tracing"
	"github.com/khaledhikmat/vs-analyzer/service/webhook"
)

const (
	// WARNING: this has to be bigger that the mode processor shutdown time
	waitOnShutdown = 8 * time.Second
)

var modeProcessors = map[string]mode.Processor{
	"server":  mode.Server,
	"analyze": mode.Analyze,
}

func main() {
	rootCtx := context.Background()
	canxCtx, canxFn := context.WithCancel(rootCtx)

	// Hook up a signal handler to cancel the context
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		lgr.Logger.Info(
			"received kill signal",
			slog.Any("signal", sig),
		)
		canxFn()
	}()

	modeType := "server"
	args := os.Args[1:]
	if len(args) > 0 {
		modeType = args[0]
		args = args[1:]
	}

	modeProc, ok := modeProcessors[modeType]
	if !ok {
		lgr.Logger.Error("invalid mode", slog.String("mode", modeType))
		os.Exit(2)
	}

	// Config service
	cfgSvc, err := config.NewEnv(os.Getenv("CONFIG_FILE"))
	if err != nil {
		lgr.Logger.Error("error loading configuration", slog.Any("error", xerrors.New(err.Error())))
		os.Exit(1)
	}

	logParams := cfgSvc.GetLogParameters()
	lgr.Init(logParams.Level, logParams.Format, logParams.File)

	tp, err := tracing.InitTracer(canxCtx, cfgSvc.GetOTLPEndpoint())
	if err != nil {
		lgr.Logger.Error("error initializing tracing", slog.Any("error", xerrors.New(err.Error())))
		os.Exit(1)
	}

	// Data service
	dataSvc := data.NewJournal(cfgSvc)
	defer dataSvc.Close()

	// Inference service
	inferenceSvc, err := inference.New(canxCtx, cfgSvc)
	if err != nil {
		lgr.Logger.Error("error creating inference service", slog.Any("error", xerrors.New(err.Error())))
		os.Exit(1)
	}

	svcs := pipeline.ServicesFactory{
		CfgSvc:          cfgSvc,
		DataSvc:         dataSvc,
		StorageSvc:      storage.NewLocal(cfgSvc),
		InferenceSvc:    inferenceSvc,
		WebhookSvc:      webhook.New(cfgSvc),
		DetectorFactory: pipeline.NewPersonDetector,
	}

	// Run the mode processor
	modeProcResult := make(chan error, 1)
	go func() {
		modeProcResult <- modeProc(canxCtx, svcs, args)
	}()

	exitCode := 0

	// Wait for cancellation or the mode processor
	select {
	case <-canxCtx.Done():
		lgr.Logger.Info(
			"vs-analyzer context cancelled",
		)

		// Give the mode processor a chance to drain
		timer := time.NewTimer(waitOnShutdown)
		select {
		case err := <-modeProcResult:
			if err != nil {
				lgr.Logger.Info(
					"vs-analyzer mode processor exited",
					slog.Any("error", xerrors.New(err.Error())),
				)
			}
		case <-timer.C:
			lgr.Logger.Info(
				"vs-analyzer shutdown waiting period expired. Exiting now",
				slog.Duration("period", waitOnShutdown),
			)
		}
		timer.Stop()

	case err := <-modeProcResult:
		if err != nil {
			lgr.Logger.Error(
				"vs-analyzer mode processor exited",
				slog.Any("error", xerrors.New(err.Error())),
			)
			fmt.Fprintln(os.Stderr, err)
			exitCode = 1
		}
		canxFn()
	}

	if tp != nil {
		shutdownCtx, cancel := context.WithTimeout(rootCtx, 5*time.Second)
		if err := tp.Shutdown(shutdownCtx); err != nil {
			lgr.Logger.Warn("error shutting down tracer", slog.Any("error", err))
		}
		cancel()
	}

	if exitCode != 0 {
		dataSvc.Close()
		os.Exit(exitCode)
	}
}

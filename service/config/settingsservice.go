package config

import (
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"
)

type settingsService struct {
	settings Settings
}

// NewHardCoded returns the built-in defaults. Handy for local runs and tests.
func NewHardCoded() IService {
	return NewStatic(DefaultSettings())
}

func NewStatic(s Settings) IService {
	return &settingsService{
		settings: s,
	}
}

// NewEnv loads the .env file in dev mode, overlays the optional YAML file and
// then the environment.
func NewEnv(yamlFile string) (IService, error) {
	if os.Getenv("RUN_TIME_ENV") == "dev" || os.Getenv("RUN_TIME_ENV") == "" {
		// A missing .env is fine outside of a checkout
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return nil, xerrors.Errorf("loading .env file: %w", err)
		}
	}

	s := DefaultSettings()

	if yamlFile != "" {
		data, err := os.ReadFile(yamlFile)
		if err != nil {
			return nil, xerrors.Errorf("reading config file %s: %w", yamlFile, err)
		}
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, xerrors.Errorf("parsing config file %s: %w", yamlFile, err)
		}
	}

	if err := env.Parse(&s); err != nil {
		return nil, xerrors.Errorf("parsing environment: %w", err)
	}

	return NewStatic(s), nil
}

func (svc *settingsService) GetModeMaxShutdownTime() int {
	return svc.settings.ModeMaxShutdownTime
}

func (svc *settingsService) GetHTTPAddress() string {
	return svc.settings.HTTPAddress
}

func (svc *settingsService) GetMaxUploadBytes() int64 {
	return svc.settings.MaxUploadBytes
}

func (svc *settingsService) GetUploadFolder() string {
	return svc.settings.UploadFolder
}

func (svc *settingsService) GetJournalFolder() string {
	return svc.settings.JournalFolder
}

func (svc *settingsService) GetDetectionMode() string {
	return svc.settings.DetectionMode
}

func (svc *settingsService) GetSamplingInterval() time.Duration {
	if svc.settings.SamplingInterval <= 0 {
		return 5 * time.Second
	}
	return svc.settings.SamplingInterval
}

func (svc *settingsService) GetJPEGQuality() int {
	q := svc.settings.JPEGQuality
	if q <= 0 || q > 100 {
		return 90
	}
	return q
}

func (svc *settingsService) GetIncludeSnapshots() bool {
	return svc.settings.IncludeSnapshots
}

func (svc *settingsService) GetOracleParameters() OracleParameters {
	return OracleParameters{
		Provider: svc.settings.Oracle.Provider,
		APIKey:   svc.settings.Oracle.APIKey,
		Model:    svc.settings.Oracle.Model,
		BaseURL:  svc.settings.Oracle.BaseURL,
		Timeout:  svc.settings.Oracle.Timeout,
	}
}

func (svc *settingsService) GetDetectorParameters() DetectorParameters {
	return DetectorParameters{
		ModelPath:                 svc.settings.Detector.ModelPath,
		CocoNamesPath:             svc.settings.Detector.CocoNamesPath,
		ConfidenceFloor:           svc.settings.Detector.ConfidenceFloor,
		ConfidenceThreshold:       svc.settings.Detector.ConfidenceThreshold,
		ObjectConfidenceThreshold: svc.settings.Detector.ObjectConfidenceThreshold,
		NMSThreshold:              svc.settings.Detector.NMSThreshold,
	}
}

func (svc *settingsService) GetWebhookURL() string {
	return svc.settings.WebhookURL
}

func (svc *settingsService) GetWebhookTimeout() time.Duration {
	return svc.settings.WebhookTimeout
}

func (svc *settingsService) GetMetricsEnabled() bool {
	return svc.settings.MetricsEnabled
}

func (svc *settingsService) GetOTLPEndpoint() string {
	return svc.settings.OTLPEndpoint
}

func (svc *settingsService) GetLogParameters() LogParameters {
	return LogParameters{
		Level:  svc.settings.Log.Level,
		Format: svc.settings.Log.Format,
		File:   svc.settings.Log.File,
	}
}

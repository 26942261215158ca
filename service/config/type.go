package config

import "time"

const (
	GeminiProvider = "gemini"
	OpenAIProvider = "openai"
	FakeProvider   = "fake"
)

type IService interface {
	GetModeMaxShutdownTime() int
	GetHTTPAddress() string
	GetMaxUploadBytes() int64
	GetUploadFolder() string
	GetJournalFolder() string

	GetDetectionMode() string
	GetSamplingInterval() time.Duration
	GetJPEGQuality() int
	GetIncludeSnapshots() bool

	GetOracleParameters() OracleParameters
	GetDetectorParameters() DetectorParameters

	GetWebhookURL() string
	GetWebhookTimeout() time.Duration
	GetMetricsEnabled() bool
	GetOTLPEndpoint() string
	GetLogParameters() LogParameters
}

type OracleParameters struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration
}

type DetectorParameters struct {
	ModelPath                 string
	CocoNamesPath             string
	ConfidenceFloor           float64
	ConfidenceThreshold       float32
	ObjectConfidenceThreshold float32
	NMSThreshold              float32
}

type LogParameters struct {
	Level  string
	Format string
	File   string
}

package config

import "time"

// Settings is the configuration document. It starts from DefaultSettings, is
// overlaid by an optional YAML file and finally by environment variables.
type Settings struct {
	ModeMaxShutdownTime int    `yaml:"mode_max_shutdown_time" env:"MODE_MAX_SHUTDOWN_TIME"`
	HTTPAddress         string `yaml:"http_address" env:"HTTP_ADDRESS"`
	MaxUploadBytes      int64  `yaml:"max_upload_bytes" env:"MAX_UPLOAD_BYTES"`
	UploadFolder        string `yaml:"upload_folder" env:"UPLOAD_FOLDER"`
	JournalFolder       string `yaml:"journal_folder" env:"JOURNAL_FOLDER"`

	DetectionMode    string        `yaml:"detection_mode" env:"DETECTION_MODE"`
	SamplingInterval time.Duration `yaml:"sampling_interval" env:"SAMPLING_INTERVAL"`
	JPEGQuality      int           `yaml:"jpeg_quality" env:"JPEG_QUALITY"`
	IncludeSnapshots bool          `yaml:"include_snapshots" env:"INCLUDE_SNAPSHOTS"`

	Oracle struct {
		Provider string        `yaml:"provider" env:"ORACLE_PROVIDER"`
		APIKey   string        `yaml:"api_key" env:"ORACLE_API_KEY"`
		Model    string        `yaml:"model" env:"ORACLE_MODEL"`
		BaseURL  string        `yaml:"base_url" env:"ORACLE_BASE_URL"`
		Timeout  time.Duration `yaml:"timeout" env:"ORACLE_TIMEOUT"`
	} `yaml:"oracle"`

	Detector struct {
		ModelPath                 string  `yaml:"model_path" env:"DETECTOR_MODEL_PATH"`
		CocoNamesPath             string  `yaml:"coco_names_path" env:"DETECTOR_COCO_NAMES_PATH"`
		ConfidenceFloor           float64 `yaml:"confidence_floor" env:"DETECTOR_CONFIDENCE_FLOOR"`
		ConfidenceThreshold       float32 `yaml:"confidence_threshold" env:"DETECTOR_CONFIDENCE_THRESHOLD"`
		ObjectConfidenceThreshold float32 `yaml:"object_confidence_threshold" env:"DETECTOR_OBJECT_CONFIDENCE_THRESHOLD"`
		NMSThreshold              float32 `yaml:"nms_threshold" env:"DETECTOR_NMS_THRESHOLD"`
	} `yaml:"detector"`

	WebhookURL     string        `yaml:"webhook_url" env:"WEBHOOK_URL"`
	WebhookTimeout time.Duration `yaml:"webhook_timeout" env:"WEBHOOK_TIMEOUT"`
	MetricsEnabled bool          `yaml:"metrics_enabled" env:"METRICS_ENABLED"`
	OTLPEndpoint   string        `yaml:"otlp_endpoint" env:"OTLP_ENDPOINT"`

	Log struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
		File   string `yaml:"file" env:"LOG_FILE"`
	} `yaml:"log"`
}

// DefaultSettings holds the values used when neither the YAML file nor the
// environment sets a field.
func DefaultSettings() Settings {
	s := Settings{
		ModeMaxShutdownTime: 5,
		HTTPAddress:         "0.0.0.0:5002",
		MaxUploadBytes:      256 << 20,
		UploadFolder:        "./uploads",
		JournalFolder:       "./journal",
		DetectionMode:       "weapons",
		SamplingInterval:    5 * time.Second,
		JPEGQuality:         90,
		IncludeSnapshots:    true,
		WebhookTimeout:      5 * time.Second,
		MetricsEnabled:      true,
	}
	s.Oracle.Provider = GeminiProvider
	s.Oracle.Model = "gemini-1.5-flash"
	s.Oracle.Timeout = 30 * time.Second
	s.Detector.ModelPath = "./yolo5/yolov5s.onnx"
	s.Detector.CocoNamesPath = "./yolo5/coco.names"
	s.Detector.ConfidenceFloor = 0.3
	s.Detector.ConfidenceThreshold = 0.3
	s.Detector.ObjectConfidenceThreshold = 0.25
	s.Detector.NMSThreshold = 0.45
	s.Log.Level = "info"
	s.Log.Format = "text"
	return s
}

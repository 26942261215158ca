package data

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/khaledhikmat/vs-analyzer/model"
	"github.com/khaledhikmat/vs-analyzer/service/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

type journalService struct {
	CfgSvc config.IService

	mu      sync.Mutex
	writers map[string]io.WriteCloser
}

// NewJournal appends JSON lines to rotating files in the journal folder:
// errors.log, analysis-stats.log and detections.log.
func NewJournal(cfgsvc config.IService) IService {
	return &journalService{
		CfgSvc:  cfgsvc,
		writers: map[string]io.WriteCloser{},
	}
}

func (svc *journalService) NewError(err interface{}) error {
	// Determine if the error is custom
	var customErr model.CustomError
	if custom, ok := err.(model.CustomError); ok {
		customErr = custom
	} else if plain, ok := err.(error); ok {
		customErr.Processor = "N/A"
		customErr.Inner = plain
		customErr.Message = plain.Error()
		customErr.StackTrace = "N/A"
	} else {
		customErr.Processor = "N/A"
		customErr.Message = fmt.Sprintf("%v", err)
		customErr.StackTrace = "N/A"
	}

	inner := ""
	if customErr.Inner != nil {
		inner = customErr.Inner.Error()
	}

	// Create an error object to persist
	errorData := struct {
		Timestamp  int64                  `json:"timestamp"`
		Processor  string                 `json:"processor"`
		Inner      string                 `json:"innerError"`
		Message    string                 `json:"message"`
		StackTrace string                 `json:"stackTrace"`
		Misc       map[string]interface{} `json:"misc"`
	}{
		Timestamp:  time.Now().Unix(),
		Processor:  customErr.Processor,
		Inner:      inner,
		Message:    customErr.Message,
		StackTrace: customErr.StackTrace,
		Misc:       customErr.Misc,
	}
	return newEntity(svc, errorData, "errors")
}

func (svc *journalService) NewAnalysisStats(stats model.AnalysisStats) error {
	stats.Timestamp = time.Now().Unix()
	return newEntity(svc, stats, "analysis-stats")
}

func (svc *journalService) NewDetection(record model.DetectionRecord) error {
	if record.Time == "" {
		record.Time = time.Now().Format(time.RFC3339)
	}
	return newEntity(svc, record, "detections")
}

func (svc *journalService) Close() error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	var firstErr error
	for name, w := range svc.writers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(svc.writers, name)
	}
	return firstErr
}

func (svc *journalService) writer(name string) io.Writer {
	w, ok := svc.writers[name]
	if !ok {
		w = &lumberjack.Logger{
			Filename:   filepath.Join(svc.CfgSvc.GetJournalFolder(), name+".log"),
			MaxSize:    10, // MB
			MaxBackups: 5,
			MaxAge:     7,    // days
			Compress:   true, // compress old logs
		}
		svc.writers[name] = w
	}
	return w
}

func newEntity[T any](svc *journalService, entity T, name string) error {
	line, err := json.Marshal(entity)
	if err != nil {
		return err
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	_, err = svc.writer(name).Write(append(line, '\n'))
	return err
}

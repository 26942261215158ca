package model

import (
	"fmt"
	"runtime/debug"
)

type CustomError struct {
	Processor  string                 `json:"processor"`
	Inner      error                  `json:"innerError"`
	Message    string                 `json:"message"`
	StackTrace string                 `json:"stackTrace"`
	Misc       map[string]interface{} `json:"misc"`
}

func (e CustomError) Error() string {
	if e.Inner == nil {
		return fmt.Sprintf("%s: %s", e.Processor, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Processor, e.Message, e.Inner)
}

func (e CustomError) Unwrap() error {
	return e.Inner
}

func GenError(proc string, err error, misc map[string]interface{}, messagef string, args ...interface{}) CustomError {
	return CustomError{
		Processor:  proc,
		Inner:      err,
		Message:    fmt.Sprintf(messagef, args...),
		StackTrace: string(debug.Stack()),
		Misc:       misc,
	}
}

// AnalysisStats summarizes one analysis request. It is journaled, never
// returned to the caller.
type AnalysisStats struct {
	ID          string  `json:"id"`
	File        string  `json:"file"`
	Mode        Mode    `json:"mode"`
	MediaType   string  `json:"mediaType"`
	Frames      int     `json:"frames"`
	Flagged     int     `json:"flagged"`
	Crops       int     `json:"crops"`
	Degraded    bool    `json:"degraded"`
	Stripped    bool    `json:"stripped"`
	ProcTime    float64 `json:"procTime"`
	AvgOracleMs float64 `json:"avgOracleMs"`
	Timestamp   int64   `json:"timestamp"`
}

// DetectionRecord is written to the detections journal for every flagged frame.
type DetectionRecord struct {
	RequestID    string   `json:"requestId"`
	File         string   `json:"file"`
	Mode         Mode     `json:"mode"`
	Frame        int      `json:"frame"`
	TimestampSec float64  `json:"timestampSec"`
	Status       Status   `json:"status"`
	Weapons      []string `json:"weapons"`
	Summary      string   `json:"summary,omitempty"`
	Persons      int      `json:"persons"`
	Time         string   `json:"time"`
}

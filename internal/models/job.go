package models

import "time"

// Format identifies a document format by its canonical extension.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// Ext returns the filename extension including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// ContentType returns the media type used when streaming a converted
// document back to the client.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}

// Job statuses recorded for finished conversion requests.
const (
	JobStatusSuccess       = "success"
	JobStatusEngineFailure = "engine_failure"
	JobStatusTimeout       = "timeout"
	JobStatusInvalidInput  = "invalid_input"
)

// ConversionJob is the persisted record of one conversion request.
type ConversionJob struct {
	ID           string    `json:"id"`
	FileName     string    `json:"file_name"`
	SourceFormat string    `json:"source_format"`
	TargetFormat string    `json:"target_format"`
	Status       string    `json:"status"`
	Diagnostic   string    `json:"diagnostic"`
	SizeBytes    int64     `json:"size_bytes"`
	DurationMS   int64     `json:"duration_ms"`
	CreatedAt    time.Time `json:"created_at"`
}

package api

import "time"

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id        string            `json:"id" example:"job_cz109"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type JobOutput struct {
	DocumentId string   `json:"document_id,omitempty"`
	Summary    string   `json:"summary,omitempty"`
	Topics     []string `json:"topics,omitempty"`
}

type Result struct {
	Status string     `json:"status"`
	Output *JobOutput `json:"output,omitempty"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`
}

type DocumentResponse struct {
	Id          string    `json:"doc_id"`
	Name        string    `json:"doc_name"`
	ContentType string    `json:"content_type"`
	ChunkCount  int       `json:"chunk_count"`
	SourceURL   string    `json:"source_url,omitempty"`
	HasSummary  bool      `json:"has_summary"`
	CreatedTime time.Time `json:"created_time"`
}

type DocumentListResponse struct {
	Documents []DocumentResponse `json:"documents"`
}

// StreamEvent is one SSE payload on /chat: deltas while the model produces
// text, then a final event with Done set and the full answer.
type StreamEvent struct {
	Delta  string `json:"delta,omitempty"`
	Answer string `json:"answer,omitempty"`
	Done   bool   `json:"done,omitempty"`
	Error  string `json:"error,omitempty"`
}

// requests---------------------

type ChatRequest struct {
	DocumentID string `json:"document_id" validate:"required"`
	Message    string `json:"message" validate:"required"`
}

type IngestURLRequest struct {
	URL string `json:"url" validate:"required"`
}

type JobStatusRequest struct {
	JobId string `json:"job_id" validate:"required"`
}

type IngestDocumentRequest struct {
	DocumentName string `json:"document_name" validate:"required"`
}

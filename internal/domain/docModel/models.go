package docModel

import (
	"context"
	"time"
)

// Document is created once at ingestion and stays immutable afterwards,
// except for Summary which the summary job fills in lazily.
type Document struct {
	Id          string    `json:"doc_id"`
	Name        string    `json:"doc_name"`
	Content     string    `json:"content"`
	ContentType DocType   `json:"content_type"`
	Chunks      []string  `json:"chunks"`
	SourceURL   string    `json:"source_url,omitempty"`
	Summary     string    `json:"summary,omitempty"`
	CreatedTime time.Time `json:"created_time"`
}

type DocType string

var (
	PDF  DocType = "PDF"
	DOCX DocType = "DOCX"
	TXT  DocType = "TXT"
	HTML DocType = "HTML"
	ERR  DocType = "ERROR"
)

type DocumentStore interface {
	SaveDocument(ctx context.Context, doc Document) error
	GetDocument(ctx context.Context, docId string) (Document, bool)
	GetAllDocuments(ctx context.Context) ([]Document, error)
	DeleteDocument(ctx context.Context, docId string)
	Clear(ctx context.Context) error
}

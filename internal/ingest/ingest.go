package ingest

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/akolanti/docchat/internal/adapter/utils"
	"github.com/akolanti/docchat/internal/config"
	"github.com/akolanti/docchat/internal/domain/docModel"
	"github.com/akolanti/docchat/internal/domain/jobModel"
	"github.com/akolanti/docchat/internal/qa/retrieval"
	"github.com/akolanti/docchat/pkg/logger_i"
)

// ErrUnsupportedInput marks ingestion-boundary failures: unknown formats,
// invalid URLs and empty extracted content.
var ErrUnsupportedInput = errors.New("unsupported input")

var logger = logger_i.NewLogger("Document Ingestion")

// ProcessDocumentIngestion turns an uploaded file or a fetched page into a
// chunked Document and saves it. The temp upload is removed afterwards.
func ProcessDocumentIngestion(ctx context.Context, job jobModel.Job, documents docModel.DocumentStore) jobModel.Job {
	log := logger.With("traceId", job.TraceId)

	job.CurrentStep = jobModel.IngestExtracting

	var doc docModel.Document
	var err error
	if job.JobType == jobModel.JobTypeIngestURL {
		doc, err = BuildDocumentFromURL(ctx, job.JobPayload.IngestURL)
	} else {
		doc, err = BuildDocument(job.JobPayload.IngestFileName, job.JobPayload.IngestURL)
		if removeErr := os.Remove(job.JobPayload.IngestURL); removeErr != nil {
			log.Error("Error removing temp upload", "error", removeErr)
		}
	}
	if err != nil {
		log.Error("Error building document", "error", err)
		job.Status = jobModel.JobStatusError
		job.Error.Message = "Error extracting document content"
		return job
	}

	job.CurrentStep = jobModel.StoreCall
	if err := documents.SaveDocument(ctx, doc); err != nil {
		log.Error("Error saving document", "error", err)
		job.Status = jobModel.JobStatusError
		return job
	}

	log.Debug("Document ingested", "docId", doc.Id, "chunks", len(doc.Chunks))
	job.JobPayload.DocumentId = doc.Id
	job.Status = jobModel.JobStatusComplete
	job.CurrentStep = jobModel.Complete
	return job
}

// BuildDocument extracts a local file into a chunked, immutable Document.
func BuildDocument(displayName string, path string) (docModel.Document, error) {
	docType := getDocType(path)
	if docType == docModel.ERR {
		return docModel.Document{}, ErrUnsupportedInput
	}

	text, err := extractText(path, docType)
	if err != nil {
		return docModel.Document{}, err
	}
	return newDocument(displayName, text, docType, "")
}

func newDocument(name string, text string, docType docModel.DocType, sourceURL string) (docModel.Document, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return docModel.Document{}, ErrUnsupportedInput
	}

	return docModel.Document{
		Id:          utils.GetNewUUID(),
		Name:        name,
		Content:     text,
		ContentType: docType,
		Chunks:      retrieval.SplitIntoChunks(text, config.MaxChunkSize),
		SourceURL:   sourceURL,
		CreatedTime: time.Now(),
	}, nil
}

package qa

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/akolanti/docchat/internal/config"
	"github.com/akolanti/docchat/internal/domain/docModel"
	"github.com/akolanti/docchat/internal/domain/jobModel"
	"github.com/akolanti/docchat/internal/ingest"
	"github.com/akolanti/docchat/internal/metrics"
	"github.com/akolanti/docchat/internal/qa/generate"
	"github.com/akolanti/docchat/pkg/logger_i"
)

/*
ARCHITECTURE NOTE: OPAQUE INTERFACE PATTERN
---------------------------------------------------------

1. Service (Interface):
  - The PUBLIC contract handlers and workers call.
  - Callers never learn which generation backend sits behind it.

2. service (Private Struct):
  - The PRIVATE implementation holding the generator, the document
    store and the active-document binding.
  - Lowercase so external packages cannot reach the dependencies.

3. Pointer Receiver (*service):
  - Methods on (*service) satisfy Service implicitly.

4. Dependency Injection (NewService):
  - Lets tests swap the generator and the store for mocks.
*/

// ErrDocumentNotFound is returned when a caller names a document id the
// store has never seen.
var ErrDocumentNotFound = errors.New("document not found")

// Service is the only surface handlers and workers talk to.
type Service interface {
	ProcessQuery(ctx context.Context, documentId string, query string, onDelta func(delta string)) (string, error)
	IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job
	SummarizeDocument(ctx context.Context, job jobModel.Job) jobModel.Job
	ExtractKeyTopics(ctx context.Context, job jobModel.Job) jobModel.Job
	ReleaseDocument(documentId string)
}

type service struct {
	generator generate.Generator
	documents docModel.DocumentStore
	logger    *logger_i.Logger

	bindMu      sync.Mutex
	activeDocId string
}

// NewService constructor
func NewService(gen generate.Generator, documents docModel.DocumentStore) Service {
	return &service{
		generator: gen,
		documents: documents,
		logger:    logger_i.NewLogger("QA Service :"),
	}
}

// ProcessQuery answers a question against one document, streaming deltas to
// onDelta as the model produces them. Switching documents resets the
// conversation history; asking about the same document keeps it.
func (s *service) ProcessQuery(ctx context.Context, documentId string, query string, onDelta func(delta string)) (string, error) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "docId", documentId)

	if err := s.bindDocument(ctx, documentId); err != nil {
		return "", err
	}

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("generation", time.Since(start)) }()

	answer, err := s.generator.GenerateResponse(ctx, query, onDelta)
	if err != nil {
		log.Error("Generation failed", "error", err)
		return "", err
	}
	log.Debug("Query answered", "answerLen", len(answer))
	return answer, nil
}

func (s *service) IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_ingestion", time.Since(start)) }()

	j := ingest.ProcessDocumentIngestion(ctx, job, s.documents)
	if j.Status != jobModel.JobStatusComplete {
		return s.jobError(j, errors.New("ingest document failed"), "INGESTION_FAILURE", false)
	}
	metrics.DocumentsIngestedTotal.Inc()
	return j
}

// SummarizeDocument fills Document.Summary lazily: the first summary job for
// a document calls the model and writes the result back to the store, later
// jobs reuse the stored text.
func (s *service) SummarizeDocument(ctx context.Context, job jobModel.Job) jobModel.Job {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "JobId", job.Id)
	job.CurrentStep = jobModel.GenerateCall

	doc, found := s.documents.GetDocument(ctx, job.JobPayload.DocumentId)
	if !found {
		return s.jobError(job, ErrDocumentNotFound, "DOCUMENT_NOT_FOUND", false)
	}

	if doc.Summary != "" {
		log.Debug("Reusing stored summary")
		job.JobPayload.Summary = doc.Summary
		return completeJob(job)
	}

	summary, err := s.executeSummaryStep(ctx, log, &job)
	if err != nil {
		return s.jobError(job, err, "SUMMARY_FAILURE", true)
	}

	doc.Summary = summary
	job.CurrentStep = jobModel.StoreCall
	if err := s.documents.SaveDocument(ctx, doc); err != nil {
		log.Error("Failed to store summary", "error", err)
	}

	job.JobPayload.Summary = summary
	return completeJob(job)
}

func (s *service) ExtractKeyTopics(ctx context.Context, job jobModel.Job) jobModel.Job {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "JobId", job.Id)
	job.CurrentStep = jobModel.GenerateCall

	if err := s.bindDocument(ctx, job.JobPayload.DocumentId); err != nil {
		return s.jobError(job, err, "DOCUMENT_NOT_FOUND", false)
	}

	topics, err := s.executeTopicsStep(ctx, log, &job)
	if err != nil {
		return s.jobError(job, err, "TOPICS_FAILURE", true)
	}

	job.JobPayload.Topics = topics
	return completeJob(job)
}

// bindDocument points the generator at the requested document. Rebinding is
// skipped when the document is already active so conversation history
// survives follow-up questions.
func (s *service) bindDocument(ctx context.Context, documentId string) error {
	s.bindMu.Lock()
	defer s.bindMu.Unlock()

	if s.activeDocId == documentId {
		return nil
	}

	doc, found := s.documents.GetDocument(ctx, documentId)
	if !found {
		return ErrDocumentNotFound
	}

	s.generator.SetDocument(doc)
	s.activeDocId = documentId
	return nil
}

// ReleaseDocument drops the active binding when the named document is the
// bound one, forcing the next query to resolve it from the store again.
// Callers invoke this on deletion so the session cannot keep answering from
// a document the store no longer holds.
func (s *service) ReleaseDocument(documentId string) {
	s.bindMu.Lock()
	defer s.bindMu.Unlock()
	if s.activeDocId == documentId {
		s.activeDocId = ""
	}
}

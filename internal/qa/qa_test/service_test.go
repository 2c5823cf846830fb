package qa_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/akolanti/docchat/internal/config"
	"github.com/akolanti/docchat/internal/domain/jobModel"
	"github.com/akolanti/docchat/internal/qa"
)

func testContext() context.Context {
	return context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
}

func TestProcessQuery_UnknownDocument(t *testing.T) {
	gen := &MockGenerator{}
	service := qa.NewService(gen, NewMockDocumentStore())

	_, err := service.ProcessQuery(testContext(), "ghost-id", "what is this?", nil)
	if !errors.Is(err, qa.ErrDocumentNotFound) {
		t.Fatalf("Expected ErrDocumentNotFound, got %v", err)
	}
	if atomic.LoadInt32(&gen.GenerateCalls) != 0 {
		t.Error("Generator must not be called for an unknown document")
	}
}

func TestProcessQuery_DelegatesToGenerator(t *testing.T) {
	gen := &MockGenerator{
		OnGenerate: func(ctx context.Context, query string, onDelta func(string)) (string, error) {
			onDelta("Hel")
			onDelta("lo")
			return "Hello", nil
		},
	}
	service := qa.NewService(gen, NewMockDocumentStore(testDocument("doc-1")))

	var streamed string
	answer, err := service.ProcessQuery(testContext(), "doc-1", "say hello", func(delta string) {
		streamed += delta
	})
	if err != nil {
		t.Fatalf("ProcessQuery failed: %v", err)
	}
	if answer != "Hello" {
		t.Errorf("Expected answer %q, got %q", "Hello", answer)
	}
	if streamed != "Hello" {
		t.Errorf("Expected streamed deltas %q, got %q", "Hello", streamed)
	}
	if gen.LastDocument().Id != "doc-1" {
		t.Errorf("Generator bound to wrong document: %s", gen.LastDocument().Id)
	}
}

func TestProcessQuery_RebindOnlyOnDocumentChange(t *testing.T) {
	gen := &MockGenerator{}
	service := qa.NewService(gen, NewMockDocumentStore(testDocument("doc-1"), testDocument("doc-2")))

	ctx := testContext()
	if _, err := service.ProcessQuery(ctx, "doc-1", "q1", nil); err != nil {
		t.Fatalf("ProcessQuery failed: %v", err)
	}
	if _, err := service.ProcessQuery(ctx, "doc-1", "q2", nil); err != nil {
		t.Fatalf("ProcessQuery failed: %v", err)
	}
	if calls := atomic.LoadInt32(&gen.SetDocumentCalls); calls != 1 {
		t.Errorf("Follow-up on the same document must not rebind, SetDocument called %d times", calls)
	}

	if _, err := service.ProcessQuery(ctx, "doc-2", "q3", nil); err != nil {
		t.Fatalf("ProcessQuery failed: %v", err)
	}
	if calls := atomic.LoadInt32(&gen.SetDocumentCalls); calls != 2 {
		t.Errorf("Switching documents must rebind, SetDocument called %d times", calls)
	}
}

func TestProcessQuery_ReleasedDocumentRequiresStoreLookup(t *testing.T) {
	gen := &MockGenerator{}
	docs := NewMockDocumentStore(testDocument("doc-1"))
	service := qa.NewService(gen, docs)
	ctx := testContext()

	if _, err := service.ProcessQuery(ctx, "doc-1", "q1", nil); err != nil {
		t.Fatalf("ProcessQuery failed: %v", err)
	}

	// delete + release, the session must not keep answering from its copy
	docs.DeleteDocument(ctx, "doc-1")
	service.ReleaseDocument("doc-1")

	_, err := service.ProcessQuery(ctx, "doc-1", "q2", nil)
	if !errors.Is(err, qa.ErrDocumentNotFound) {
		t.Fatalf("Expected ErrDocumentNotFound after deletion, got %v", err)
	}
	if calls := atomic.LoadInt32(&gen.GenerateCalls); calls != 1 {
		t.Errorf("Generator must not run against a deleted document, got %d calls", calls)
	}
}

func TestReleaseDocument_IgnoresInactiveId(t *testing.T) {
	gen := &MockGenerator{}
	service := qa.NewService(gen, NewMockDocumentStore(testDocument("doc-1"), testDocument("doc-2")))
	ctx := testContext()

	if _, err := service.ProcessQuery(ctx, "doc-1", "q1", nil); err != nil {
		t.Fatalf("ProcessQuery failed: %v", err)
	}

	service.ReleaseDocument("doc-2")

	if _, err := service.ProcessQuery(ctx, "doc-1", "q2", nil); err != nil {
		t.Fatalf("ProcessQuery failed: %v", err)
	}
	if calls := atomic.LoadInt32(&gen.SetDocumentCalls); calls != 1 {
		t.Errorf("Releasing another document must keep the active binding, SetDocument called %d times", calls)
	}
}

func TestSummarizeDocument_StoresAndReusesSummary(t *testing.T) {
	gen := &MockGenerator{}
	docs := NewMockDocumentStore(testDocument("doc-1"))
	service := qa.NewService(gen, docs)

	ctx := testContext()
	job := jobModel.Job{Id: "job-1", JobType: jobModel.JobTypeSummary}
	job.JobPayload.DocumentId = "doc-1"

	result := service.SummarizeDocument(ctx, job)
	if result.Status != jobModel.JobStatusComplete {
		t.Fatalf("Expected status Complete, got %s", result.Status)
	}
	if result.JobPayload.Summary != "mock summary" {
		t.Errorf("Expected summary in payload, got %q", result.JobPayload.Summary)
	}

	stored, _ := docs.GetDocument(ctx, "doc-1")
	if stored.Summary != "mock summary" {
		t.Errorf("Summary not written back to store, got %q", stored.Summary)
	}

	// a second job reuses the stored text, no model call
	result = service.SummarizeDocument(ctx, job)
	if result.Status != jobModel.JobStatusComplete {
		t.Fatalf("Expected status Complete, got %s", result.Status)
	}
	if calls := atomic.LoadInt32(&gen.SummarizeCalls); calls != 1 {
		t.Errorf("Expected 1 summarize call total, got %d", calls)
	}
}

func TestSummarizeDocument_UnknownDocument(t *testing.T) {
	service := qa.NewService(&MockGenerator{}, NewMockDocumentStore())

	job := jobModel.Job{Id: "job-1", JobType: jobModel.JobTypeSummary}
	job.JobPayload.DocumentId = "ghost-id"

	result := service.SummarizeDocument(testContext(), job)
	if result.Status != jobModel.JobStatusError {
		t.Errorf("Expected status Error, got %s", result.Status)
	}
	if result.Error.Code == 0 {
		t.Error("Expected error details on the job")
	}
}

func TestExtractKeyTopics(t *testing.T) {
	gen := &MockGenerator{
		OnTopics: func(ctx context.Context) ([]string, error) {
			return []string{"chunking", "prompt assembly"}, nil
		},
	}
	service := qa.NewService(gen, NewMockDocumentStore(testDocument("doc-1")))

	job := jobModel.Job{Id: "job-1", JobType: jobModel.JobTypeTopics}
	job.JobPayload.DocumentId = "doc-1"

	result := service.ExtractKeyTopics(testContext(), job)
	if result.Status != jobModel.JobStatusComplete {
		t.Fatalf("Expected status Complete, got %s", result.Status)
	}
	if len(result.JobPayload.Topics) != 2 {
		t.Errorf("Expected 2 topics, got %v", result.JobPayload.Topics)
	}
}

func TestExtractKeyTopics_GenerationFailure(t *testing.T) {
	gen := &MockGenerator{
		OnTopics: func(ctx context.Context) ([]string, error) {
			return nil, errors.New("model unavailable")
		},
	}
	service := qa.NewService(gen, NewMockDocumentStore(testDocument("doc-1")))

	job := jobModel.Job{Id: "job-1", JobType: jobModel.JobTypeTopics}
	job.JobPayload.DocumentId = "doc-1"

	result := service.ExtractKeyTopics(testContext(), job)
	if result.Status != jobModel.JobStatusError {
		t.Fatalf("Expected status Error, got %s", result.Status)
	}
	if !result.Error.Retry {
		t.Error("Generation failures should be retryable")
	}
}

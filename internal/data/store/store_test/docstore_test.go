package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/akolanti/docchat/internal/config"
	"github.com/akolanti/docchat/internal/data/redisStore"
	"github.com/akolanti/docchat/internal/data/store"
	"github.com/akolanti/docchat/internal/domain/docModel"
	"github.com/akolanti/docchat/internal/domain/jobModel"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestDocumentStore(t *testing.T) (*miniredis.Miniredis, *store.RedisDocumentStore) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, store.TestDocumentStore(redisStore.NewTestStore(client))
}

func TestRedisDocumentStore_Lifecycle(t *testing.T) {
	mr, docStore := newTestDocumentStore(t)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
	doc := docModel.Document{
		Id:          "doc_abc_123",
		Name:        "handbook.pdf",
		Content:     "alpha\n\nbeta",
		ContentType: docModel.PDF,
		Chunks:      []string{"alpha", "beta"},
		CreatedTime: time.Now().UTC(),
	}

	t.Run("Save and Get Roundtrip", func(t *testing.T) {
		if err := docStore.SaveDocument(ctx, doc); err != nil {
			t.Fatalf("SaveDocument failed: %v", err)
		}

		retrieved, found := docStore.GetDocument(ctx, doc.Id)
		if !found {
			t.Fatal("Document was saved but not found in Redis")
		}
		if retrieved.Name != doc.Name {
			t.Errorf("Data mismatch! Got %s, want %s", retrieved.Name, doc.Name)
		}
		if len(retrieved.Chunks) != 2 {
			t.Errorf("Expected 2 chunks after roundtrip, got %d", len(retrieved.Chunks))
		}
	})

	t.Run("Get Non-Existent Document", func(t *testing.T) {
		_, found := docStore.GetDocument(ctx, "ghost-id")
		if found {
			t.Error("Expected found=false for non-existent key")
		}
	})

	t.Run("GetAll Reads Index", func(t *testing.T) {
		second := doc
		second.Id = "doc_def_456"
		second.CreatedTime = doc.CreatedTime.Add(time.Minute)
		if err := docStore.SaveDocument(ctx, second); err != nil {
			t.Fatalf("SaveDocument failed: %v", err)
		}

		docs, err := docStore.GetAllDocuments(ctx)
		if err != nil {
			t.Fatalf("GetAllDocuments failed: %v", err)
		}
		if len(docs) != 2 {
			t.Fatalf("Expected 2 documents, got %d", len(docs))
		}
		if docs[0].Id != doc.Id {
			t.Errorf("Expected oldest document first, got %s", docs[0].Id)
		}
	})

	t.Run("Delete Document", func(t *testing.T) {
		docStore.DeleteDocument(ctx, doc.Id)

		if mr.Exists(doc.Id) {
			t.Error("Document still exists in Redis after DeleteDocument call")
		}

		docs, err := docStore.GetAllDocuments(ctx)
		if err != nil {
			t.Fatalf("GetAllDocuments failed: %v", err)
		}
		if len(docs) != 1 {
			t.Errorf("Expected deleted document dropped from index, got %d docs", len(docs))
		}
	})

	t.Run("Clear Wipes Index", func(t *testing.T) {
		if err := docStore.Clear(ctx); err != nil {
			t.Fatalf("Clear failed: %v", err)
		}
		docs, err := docStore.GetAllDocuments(ctx)
		if err != nil {
			t.Fatalf("GetAllDocuments failed: %v", err)
		}
		if len(docs) != 0 {
			t.Errorf("Expected empty store after Clear, got %d docs", len(docs))
		}
	})
}

func TestRedisJobStore_Lifecycle(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	jobStore := store.TestJobStore(redisStore.NewTestStore(client))

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
	jobID := "job_abc_123"

	testJob := jobModel.Job{
		Id:      jobID,
		JobType: jobModel.JobTypeSummary,
		Status:  jobModel.JobStatusRunning,
		JobPayload: jobModel.JobPayload{
			DocumentId: "doc_abc_123",
		},
	}

	t.Run("Save and Get Roundtrip", func(t *testing.T) {
		if err := jobStore.SaveJob(ctx, testJob); err != nil {
			t.Fatalf("SaveJob failed: %v", err)
		}

		retrievedJob, found := jobStore.GetJob(ctx, jobID)
		if !found {
			t.Fatal("Job was saved but not found in Redis")
		}
		if retrievedJob.JobPayload.DocumentId != testJob.JobPayload.DocumentId {
			t.Errorf("Data mismatch! Got %s, want %s",
				retrievedJob.JobPayload.DocumentId, testJob.JobPayload.DocumentId)
		}
	})

	t.Run("Get Non-Existent Job", func(t *testing.T) {
		_, found := jobStore.GetJob(ctx, "ghost-id")
		if found {
			t.Error("Expected found=false for non-existent key")
		}
	})

	t.Run("Delete Job", func(t *testing.T) {
		jobStore.DeleteJob(ctx, jobID)

		if mr.Exists(jobID) {
			t.Error("Job still exists in Redis after DeleteJob call")
		}
	})
}

func TestRedisDocumentStore_Race(t *testing.T) {
	_, docStore := newTestDocumentStore(t)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "race-trace")
	doc := docModel.Document{Id: "race-doc"}

	const workers = 50
	for i := 0; i < workers; i++ {
		go func() {
			_ = docStore.SaveDocument(ctx, doc)
			_, _ = docStore.GetDocument(ctx, "race-doc")
		}()
	}
}

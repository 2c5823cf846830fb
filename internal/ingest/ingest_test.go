package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/akolanti/docchat/internal/domain/docModel"
	"github.com/akolanti/docchat/internal/domain/jobModel"
)

type mockDocumentStore struct {
	saved      []docModel.Document
	OnSave     func(ctx context.Context, doc docModel.Document) error
}

func (m *mockDocumentStore) SaveDocument(ctx context.Context, doc docModel.Document) error {
	if m.OnSave != nil {
		if err := m.OnSave(ctx, doc); err != nil {
			return err
		}
	}
	m.saved = append(m.saved, doc)
	return nil
}

func (m *mockDocumentStore) GetDocument(ctx context.Context, id string) (docModel.Document, bool) {
	return docModel.Document{}, false
}
func (m *mockDocumentStore) GetAllDocuments(ctx context.Context) ([]docModel.Document, error) {
	return m.saved, nil
}
func (m *mockDocumentStore) DeleteDocument(ctx context.Context, id string) {}
func (m *mockDocumentStore) Clear(ctx context.Context) error              { return nil }

func TestGetDocType(t *testing.T) {
	tests := []struct {
		path     string
		expected docModel.DocType
	}{
		{"test.pdf", docModel.PDF},
		{"DOC.DOCX", docModel.DOCX},
		{"notes.txt", docModel.TXT},
		{"page.html", docModel.HTML},
		{"image.png", docModel.ERR},
	}

	for _, tt := range tests {
		if got := getDocType(tt.path); got != tt.expected {
			t.Errorf("getDocType(%s) = %v; want %v", tt.path, got, tt.expected)
		}
	}
}

func TestBuildDocument_PlainText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	content := strings.Repeat("facts about turbines.\n\n", 80)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	doc, err := BuildDocument("notes.txt", path)
	if err != nil {
		t.Fatalf("BuildDocument failed: %v", err)
	}

	if doc.Id == "" {
		t.Error("Document must get an id at ingestion")
	}
	if doc.Name != "notes.txt" {
		t.Errorf("Name got %q", doc.Name)
	}
	if len(doc.Chunks) < 2 {
		t.Errorf("Expected chunked content, got %d chunks", len(doc.Chunks))
	}
	for i, c := range doc.Chunks {
		if c == "" {
			t.Errorf("Chunk %d is empty", i)
		}
	}
}

func TestBuildDocument_UnsupportedExtension(t *testing.T) {
	_, err := BuildDocument("image.png", "image.png")
	if !errors.Is(err, ErrUnsupportedInput) {
		t.Errorf("Error got %v, want %v", err, ErrUnsupportedInput)
	}
}

func TestNewDocument_EmptyContentRejected(t *testing.T) {
	_, err := newDocument("empty.txt", "   \n\n  ", docModel.TXT, "")
	if !errors.Is(err, ErrUnsupportedInput) {
		t.Errorf("Error got %v, want %v", err, ErrUnsupportedInput)
	}
}

func TestBuildDocumentFromURL_RejectsBadSchemes(t *testing.T) {
	for _, raw := range []string{"ftp://host/file", "not a url at all", "file:///etc/passwd"} {
		_, err := BuildDocumentFromURL(context.Background(), raw)
		if !errors.Is(err, ErrUnsupportedInput) {
			t.Errorf("URL %q error got %v, want %v", raw, err, ErrUnsupportedInput)
		}
	}
}

func TestProcessDocumentIngestion_Scenarios(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name           string
		makeJob        func(t *testing.T) jobModel.Job
		storeErr       error
		expectedStatus jobModel.JobStatus
	}{
		{
			name: "File_Ingestion_Success",
			makeJob: func(t *testing.T) jobModel.Job {
				path := filepath.Join(dir, "ok.txt")
				os.WriteFile(path, []byte("test content for ingestion"), 0644)
				return jobModel.Job{
					Id:      "ingest-1",
					JobType: jobModel.JobTypeIngest,
					JobPayload: jobModel.JobPayload{
						IngestFileName: "ok.txt",
						IngestURL:      path,
					},
				}
			},
			expectedStatus: jobModel.JobStatusComplete,
		},
		{
			name: "Missing_File_Fails",
			makeJob: func(t *testing.T) jobModel.Job {
				return jobModel.Job{
					Id:      "ingest-2",
					JobType: jobModel.JobTypeIngest,
					JobPayload: jobModel.JobPayload{
						IngestFileName: "ghost.txt",
						IngestURL:      filepath.Join(dir, "ghost.txt"),
					},
				}
			},
			expectedStatus: jobModel.JobStatusError,
		},
		{
			name: "Store_Failure",
			makeJob: func(t *testing.T) jobModel.Job {
				path := filepath.Join(dir, "store-fail.txt")
				os.WriteFile(path, []byte("content that will not be saved"), 0644)
				return jobModel.Job{
					Id:      "ingest-3",
					JobType: jobModel.JobTypeIngest,
					JobPayload: jobModel.JobPayload{
						IngestFileName: "store-fail.txt",
						IngestURL:      path,
					},
				}
			},
			storeErr:       errors.New("redis offline"),
			expectedStatus: jobModel.JobStatusError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockDocumentStore{}
			if tt.storeErr != nil {
				store.OnSave = func(ctx context.Context, doc docModel.Document) error {
					return tt.storeErr
				}
			}

			result := ProcessDocumentIngestion(context.Background(), tt.makeJob(t), store)

			if result.Status != tt.expectedStatus {
				t.Errorf("Status got %v, want %v", result.Status, tt.expectedStatus)
			}
			if tt.expectedStatus == jobModel.JobStatusComplete {
				if result.JobPayload.DocumentId == "" {
					t.Error("Completed ingestion must report the new document id")
				}
				if len(store.saved) != 1 {
					t.Errorf("Store holds %d documents, want 1", len(store.saved))
				}
			}
		})
	}
}

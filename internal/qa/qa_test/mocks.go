package qa_test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/akolanti/docchat/internal/domain/docModel"
)

// MockGenerator tracks calls and delegates to optional function fields.
type MockGenerator struct {
	SetDocumentCalls int32
	GenerateCalls    int32
	SummarizeCalls   int32
	TopicsCalls      int32

	OnGenerate  func(ctx context.Context, query string, onDelta func(string)) (string, error)
	OnSummarize func(ctx context.Context) (string, error)
	OnTopics    func(ctx context.Context) ([]string, error)

	mu      sync.Mutex
	lastDoc docModel.Document
}

func (m *MockGenerator) SetDocument(doc docModel.Document) {
	atomic.AddInt32(&m.SetDocumentCalls, 1)
	m.mu.Lock()
	m.lastDoc = doc
	m.mu.Unlock()
}

func (m *MockGenerator) GenerateResponse(ctx context.Context, query string, onDelta func(string)) (string, error) {
	atomic.AddInt32(&m.GenerateCalls, 1)
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, query, onDelta)
	}
	return "mock answer", nil
}

func (m *MockGenerator) SummarizeDocument(ctx context.Context) (string, error) {
	atomic.AddInt32(&m.SummarizeCalls, 1)
	if m.OnSummarize != nil {
		return m.OnSummarize(ctx)
	}
	return "mock summary", nil
}

func (m *MockGenerator) ExtractKeyTopics(ctx context.Context) ([]string, error) {
	atomic.AddInt32(&m.TopicsCalls, 1)
	if m.OnTopics != nil {
		return m.OnTopics(ctx)
	}
	return []string{"mock topic"}, nil
}

func (m *MockGenerator) LastDocument() docModel.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastDoc
}

// MockDocumentStore is a map-backed store for service tests.
type MockDocumentStore struct {
	mu   sync.RWMutex
	docs map[string]docModel.Document

	OnSaveDocument func(ctx context.Context, doc docModel.Document) error
}

func NewMockDocumentStore(seed ...docModel.Document) *MockDocumentStore {
	s := &MockDocumentStore{docs: make(map[string]docModel.Document)}
	for _, d := range seed {
		s.docs[d.Id] = d
	}
	return s
}

func (s *MockDocumentStore) SaveDocument(ctx context.Context, doc docModel.Document) error {
	if s.OnSaveDocument != nil {
		if err := s.OnSaveDocument(ctx, doc); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.Id] = doc
	return nil
}

func (s *MockDocumentStore) GetDocument(ctx context.Context, docId string) (docModel.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, found := s.docs[docId]
	return doc, found
}

func (s *MockDocumentStore) GetAllDocuments(ctx context.Context) ([]docModel.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]docModel.Document, 0, len(s.docs))
	for _, d := range s.docs {
		out = append(out, d)
	}
	return out, nil
}

func (s *MockDocumentStore) DeleteDocument(ctx context.Context, docId string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, docId)
}

func (s *MockDocumentStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = make(map[string]docModel.Document)
	return nil
}

func testDocument(id string) docModel.Document {
	return docModel.Document{
		Id:          id,
		Name:        "handbook.txt",
		Content:     "alpha\n\nbeta",
		ContentType: docModel.TXT,
		Chunks:      []string{"alpha", "beta"},
		CreatedTime: time.Now(),
	}
}

package store

import (
	"context"
	"sort"
	"sync"

	"github.com/akolanti/docchat/internal/domain/docModel"
	"github.com/akolanti/docchat/pkg/logger_i"
)

var inMemLogger = logger_i.NewLogger("InMem Store")

type InMemoryDocumentStore struct {
	docMutex *sync.RWMutex
	docMap   map[string]docModel.Document
}

func InitInMemoryDocumentStore() *InMemoryDocumentStore {
	return &InMemoryDocumentStore{
		docMutex: new(sync.RWMutex),
		docMap:   make(map[string]docModel.Document),
	}
}

func (store *InMemoryDocumentStore) SaveDocument(ctx context.Context, doc docModel.Document) error {
	store.docMutex.Lock()
	defer store.docMutex.Unlock()
	store.docMap[doc.Id] = doc
	inMemLogger.Debug("Saved document to store", "docId", doc.Id)
	return nil
}

func (store *InMemoryDocumentStore) GetDocument(ctx context.Context, docId string) (docModel.Document, bool) {
	store.docMutex.RLock()
	defer store.docMutex.RUnlock()
	result, found := store.docMap[docId]
	return result, found
}

func (store *InMemoryDocumentStore) GetAllDocuments(ctx context.Context) ([]docModel.Document, error) {
	store.docMutex.RLock()
	defer store.docMutex.RUnlock()

	docs := make([]docModel.Document, 0, len(store.docMap))
	for _, d := range store.docMap {
		docs = append(docs, d)
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].CreatedTime.Before(docs[j].CreatedTime)
	})
	return docs, nil
}

func (store *InMemoryDocumentStore) DeleteDocument(ctx context.Context, docId string) {
	store.docMutex.Lock()
	defer store.docMutex.Unlock()
	delete(store.docMap, docId)
}

func (store *InMemoryDocumentStore) Clear(ctx context.Context) error {
	store.docMutex.Lock()
	defer store.docMutex.Unlock()
	store.docMap = make(map[string]docModel.Document)
	return nil
}

package store

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/akolanti/docchat/internal/config"
	"github.com/akolanti/docchat/internal/data/redisStore"
	"github.com/akolanti/docchat/internal/domain/docModel"
	"github.com/akolanti/docchat/pkg/logger_i"
)

const documentIndexKey = "documents:index"

type RedisDocumentStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisDocumentStore(ctx context.Context) *RedisDocumentStore {
	inner := redisStore.GetRedisStore(ctx, config.RedisDocumentStore)
	if inner == nil {
		return nil
	}
	return &RedisDocumentStore{
		store:  inner,
		logger: logger_i.NewLogger("DocumentStore"),
	}
}

func (s *RedisDocumentStore) SaveDocument(ctx context.Context, doc docModel.Document) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "docId", doc.Id)
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	if err = s.store.Set(ctx, doc.Id, data, config.RedisDocumentStoreTTL); err != nil {
		return err
	}
	if err = s.store.SetAdd(ctx, documentIndexKey, doc.Id); err != nil {
		return err
	}
	log.Debug("Saved document to Redis")
	return nil
}

func (s *RedisDocumentStore) GetDocument(ctx context.Context, docId string) (docModel.Document, bool) {
	var doc docModel.Document
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "docId", docId)

	val, err := s.store.Get(ctx, docId)
	if s.store.IsNil(err) {
		return doc, false
	} else if err != nil {
		log.Error("Error reading document", "error", err)
		return doc, false
	}

	if err = json.Unmarshal([]byte(val), &doc); err != nil {
		log.Error("Error unmarshalling document", "error", err)
		return doc, false
	}
	return doc, true
}

func (s *RedisDocumentStore) GetAllDocuments(ctx context.Context) ([]docModel.Document, error) {
	ids, err := s.store.SetMembers(ctx, documentIndexKey)
	if err != nil {
		return nil, err
	}

	docs := make([]docModel.Document, 0, len(ids))
	for _, id := range ids {
		if doc, found := s.GetDocument(ctx, id); found {
			docs = append(docs, doc)
		}
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].CreatedTime.Before(docs[j].CreatedTime)
	})
	return docs, nil
}

func (s *RedisDocumentStore) DeleteDocument(ctx context.Context, docId string) {
	if err := s.store.Del(ctx, docId); err != nil {
		s.logger.Error("Error deleting document from Redis", "docId", docId, "error", err)
		return
	}
	if err := s.store.SetRemove(ctx, documentIndexKey, docId); err != nil {
		s.logger.Error("Error removing document from index", "docId", docId, "error", err)
	}
	s.logger.Debug("Document deleted from Redis", "docId", docId)
}

func (s *RedisDocumentStore) Clear(ctx context.Context) error {
	ids, err := s.store.SetMembers(ctx, documentIndexKey)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := s.store.Del(ctx, id); err != nil {
			return err
		}
	}
	return s.store.Del(ctx, documentIndexKey)
}

func TestDocumentStore(store *redisStore.Store) *RedisDocumentStore {
	return &RedisDocumentStore{
		store:  store,
		logger: logger_i.NewLogger("test redis"),
	}
}

package generate

import (
	"sync"
	"sync/atomic"

	"github.com/akolanti/docchat/internal/config"
	"github.com/akolanti/docchat/internal/domain/chatModel"
	"github.com/akolanti/docchat/internal/domain/docModel"
	"github.com/akolanti/docchat/internal/qa/prompt"
	"github.com/akolanti/docchat/internal/qa/retrieval"
)

// Session is the state every backend variant embeds: the bound document,
// the bounded history buffer and the in-flight guard. History is the only
// mutable state and is mutated exclusively here.
type Session struct {
	mu       sync.Mutex
	doc      *docModel.Document
	history  []chatModel.Message
	ranker   *retrieval.Ranker
	inFlight atomic.Bool
}

func NewSession() *Session {
	return &Session{
		ranker: retrieval.NewRanker(retrieval.DefaultExtractor()),
	}
}

// SetDocument rebinds the active document and clears history unconditionally,
// even when the new document has the same id as the old one.
func (s *Session) SetDocument(doc docModel.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = &doc
	s.history = nil
}

// Document returns a copy of the bound document, or ErrDocumentNotBound.
func (s *Session) Document() (docModel.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return docModel.Document{}, ErrDocumentNotBound
	}
	return *s.doc, nil
}

// BuildConversation ranks the bound document's chunks against the query and
// assembles the prompt with the bounded recent history.
func (s *Session) BuildConversation(query string) ([]chatModel.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil, ErrDocumentNotBound
	}

	contextChunks := s.ranker.Rank(s.doc.Chunks, query, config.TopChunkCount)
	return prompt.BuildConversation(s.doc.Name, contextChunks, s.history, query), nil
}

// RecordExchange appends the completed (query, answer) pair and evicts the
// oldest entries beyond the history cap. Called only after a generation
// finishes successfully, so aborted calls never leave partial entries.
func (s *Session) RecordExchange(query, answer string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history,
		chatModel.NewMessage(chatModel.RoleUser, query),
		chatModel.NewMessage(chatModel.RoleAssistant, answer),
	)
	if overflow := len(s.history) - config.HistoryLimit; overflow > 0 {
		s.history = s.history[overflow:]
	}
}

// History returns a copy of the retained history buffer.
func (s *Session) History() []chatModel.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]chatModel.Message(nil), s.history...)
}

// BeginGeneration claims the single generation slot for this session.
// History append-on-completion is not guarded against concurrent writers,
// so a second in-flight call is rejected outright.
func (s *Session) BeginGeneration() error {
	if !s.inFlight.CompareAndSwap(false, true) {
		return ErrGenerationInFlight
	}
	return nil
}

func (s *Session) EndGeneration() {
	s.inFlight.Store(false)
}

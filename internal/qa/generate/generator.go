package generate

import (
	"context"
	"errors"

	"github.com/akolanti/docchat/internal/domain/docModel"
)

/*
One capability, several providers. The worker and the chat handler only ever
see Generator; the variant behind it (remote OpenAI-style API, local model
runtime, Gemini) is picked once at startup from configuration.
*/

// Generator is the polymorphic generation capability. Implementations share
// Session for document binding, history and prompt assembly, and differ only
// in how the assembled conversation reaches a model.
type Generator interface {
	SetDocument(doc docModel.Document)
	GenerateResponse(ctx context.Context, query string, onDelta func(delta string)) (string, error)
	SummarizeDocument(ctx context.Context) (string, error)
	ExtractKeyTopics(ctx context.Context) ([]string, error)
}

var (
	ErrDocumentNotBound   = errors.New("document not set")
	ErrModelNotReady      = errors.New("model not loaded")
	ErrGenerationFailed   = errors.New("generation failed")
	ErrGenerationInFlight = errors.New("generation already in progress")
)

// Config carries the provider settings loaded by the caller. The core never
// reads ambient storage or environment directly.
type Config struct {
	Provider    string
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
}

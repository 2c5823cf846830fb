package local

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/akolanti/docchat/internal/config"
	"github.com/akolanti/docchat/internal/domain/chatModel"
	"github.com/akolanti/docchat/internal/qa/generate"
	"github.com/akolanti/docchat/internal/qa/prompt"
	"github.com/akolanti/docchat/pkg/logger_i"
)

// ModelRuntime is the opaque in-process engine behind the local backend.
// Load drives a 0-100 progress callback; completion calls are OpenAI-chat
// shaped so the runtime can sit in front of a llama.cpp style server.
type ModelRuntime interface {
	Load(ctx context.Context, onProgress func(percent int)) error
	Complete(ctx context.Context, conversation []chatModel.Message, temperature float64) (string, error)
	StreamComplete(ctx context.Context, conversation []chatModel.Message, temperature float64, onDelta func(string)) (string, error)
}

type State int32

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateFailed
)

// Backend wraps a ModelRuntime with the load-state machine. Ready is
// terminal for the session lifetime; a failed load keeps its error and can
// be retried.
type Backend struct {
	*generate.Session
	runtime     ModelRuntime
	temperature float64
	state       atomic.Int32

	errMu   sync.Mutex
	loadErr error

	logger *logger_i.Logger
}

func NewBackend(runtime ModelRuntime, temperature float64) *Backend {
	return &Backend{
		Session:     generate.NewSession(),
		runtime:     runtime,
		temperature: temperature,
		logger:      logger_i.NewLogger("llm_local"),
	}
}

func (b *Backend) State() State {
	return State(b.state.Load())
}

// LoadError returns the error held from a failed initialization.
func (b *Backend) LoadError() error {
	b.errMu.Lock()
	defer b.errMu.Unlock()
	return b.loadErr
}

// Initialize loads the model. A no-op when already ready; a failed load can
// be retried. The progress callback is forced monotonic regardless of what
// the runtime reports.
func (b *Backend) Initialize(ctx context.Context, onProgress func(percent int)) error {
	if b.State() == StateReady {
		return nil
	}
	if !b.state.CompareAndSwap(int32(StateUninitialized), int32(StateInitializing)) &&
		!b.state.CompareAndSwap(int32(StateFailed), int32(StateInitializing)) {
		// another caller is mid-load, or it just went ready
		if b.State() == StateReady {
			return nil
		}
		return generate.ErrModelNotReady
	}

	b.logger.Info("Loading local model")
	err := b.runtime.Load(ctx, monotonic(onProgress))
	if err != nil {
		b.logger.Error("Model load failed", "error", err)
		b.errMu.Lock()
		b.loadErr = err
		b.errMu.Unlock()
		b.state.Store(int32(StateFailed))
		return err
	}

	b.state.Store(int32(StateReady))
	b.logger.Info("Local model ready")
	return nil
}

func monotonic(onProgress func(int)) func(int) {
	last := -1
	return func(percent int) {
		if onProgress == nil {
			return
		}
		if percent < 0 {
			percent = 0
		}
		if percent > 100 {
			percent = 100
		}
		if percent <= last {
			return
		}
		last = percent
		onProgress(percent)
	}
}

func (b *Backend) GenerateResponse(ctx context.Context, query string, onDelta func(string)) (string, error) {
	if err := b.BeginGeneration(); err != nil {
		return "", err
	}
	defer b.EndGeneration()

	conversation, err := b.BuildConversation(query)
	if err != nil {
		return "", err
	}
	if b.State() != StateReady {
		return "", generate.ErrModelNotReady
	}

	answer, err := b.runtime.StreamComplete(ctx, conversation, b.temperature, onDelta)
	if err != nil {
		b.logger.Error("Local generation failed", "error", err)
		return "", generate.ErrGenerationFailed
	}

	b.RecordExchange(query, answer)
	return answer, nil
}

func (b *Backend) SummarizeDocument(ctx context.Context) (string, error) {
	doc, err := b.Document()
	if err != nil {
		return "", err
	}
	if b.State() != StateReady {
		return "", generate.ErrModelNotReady
	}
	if err := b.BeginGeneration(); err != nil {
		return "", err
	}
	defer b.EndGeneration()

	summary, err := b.runtime.Complete(ctx,
		prompt.SummaryConversation(doc.Content, config.LocalSummaryContentLimit), b.temperature)
	if err != nil {
		b.logger.Error("Local summary failed", "error", err)
		return "", generate.ErrGenerationFailed
	}
	return summary, nil
}

func (b *Backend) ExtractKeyTopics(ctx context.Context) ([]string, error) {
	doc, err := b.Document()
	if err != nil {
		return nil, err
	}
	if b.State() != StateReady {
		return nil, generate.ErrModelNotReady
	}
	if err := b.BeginGeneration(); err != nil {
		return nil, err
	}
	defer b.EndGeneration()

	raw, err := b.runtime.Complete(ctx,
		prompt.TopicsConversation(doc.Content, config.LocalTopicsContentLimit), b.temperature)
	if err != nil {
		b.logger.Error("Local topics failed", "error", err)
		return nil, generate.ErrGenerationFailed
	}
	return prompt.ParseTopics(raw), nil
}

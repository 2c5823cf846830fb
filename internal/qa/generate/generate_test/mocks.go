package generate_test

import (
	"context"
	"sync/atomic"

	"github.com/akolanti/docchat/internal/domain/chatModel"
	"github.com/akolanti/docchat/internal/domain/docModel"
)

// MockRuntime implements local.ModelRuntime
type MockRuntime struct {
	LoadCalls     int32
	CompleteCalls int32
	StreamCalls   int32

	OnLoad           func(ctx context.Context, onProgress func(int)) error
	OnComplete       func(ctx context.Context, conversation []chatModel.Message, temperature float64) (string, error)
	OnStreamComplete func(ctx context.Context, conversation []chatModel.Message, temperature float64, onDelta func(string)) (string, error)
}

func (m *MockRuntime) Load(ctx context.Context, onProgress func(int)) error {
	atomic.AddInt32(&m.LoadCalls, 1)
	if m.OnLoad != nil {
		return m.OnLoad(ctx, onProgress)
	}
	onProgress(100)
	return nil
}

func (m *MockRuntime) Complete(ctx context.Context, conversation []chatModel.Message, temperature float64) (string, error) {
	atomic.AddInt32(&m.CompleteCalls, 1)
	if m.OnComplete != nil {
		return m.OnComplete(ctx, conversation, temperature)
	}
	return "mocked completion", nil
}

func (m *MockRuntime) StreamComplete(ctx context.Context, conversation []chatModel.Message, temperature float64, onDelta func(string)) (string, error) {
	atomic.AddInt32(&m.StreamCalls, 1)
	if m.OnStreamComplete != nil {
		return m.OnStreamComplete(ctx, conversation, temperature, onDelta)
	}
	if onDelta != nil {
		onDelta("mocked ")
		onDelta("stream")
	}
	return "mocked stream", nil
}

func (m *MockRuntime) ModelCalls() int32 {
	return atomic.LoadInt32(&m.CompleteCalls) + atomic.LoadInt32(&m.StreamCalls)
}

func testDocument(id string) docModel.Document {
	return docModel.Document{
		Id:      id,
		Name:    "engines.txt",
		Content: "rocket engines burn propellant\n\nturbines drive the pumps",
		Chunks:  []string{"rocket engines burn propellant", "turbines drive the pumps"},
	}
}

package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/akolanti/docchat/internal/domain/docModel"
	"github.com/akolanti/docchat/internal/qa/generate"
)

func testDoc() docModel.Document {
	return docModel.Document{
		Id:      "doc-1",
		Name:    "pumps.txt",
		Content: "centrifugal pumps move fluid",
		Chunks:  []string{"centrifugal pumps move fluid"},
	}
}

func newTestBackend(serverURL string) *Backend {
	return NewBackend(generate.Config{
		BaseURL:     serverURL,
		APIKey:      "test-key",
		Model:       "test-model",
		Temperature: 0.7,
	})
}

func TestGenerateResponse_StreamsDeltas(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Bad request body: %v", err)
		}
		if !req.Stream {
			t.Error("GenerateResponse must request a streamed completion")
		}
		if req.Messages[0].Role != "system" {
			t.Errorf("First message role got %s, want system", req.Messages[0].Role)
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(`data: {"choices":[{"delta":{"content":"Hel"}}]}` + "\n\n"))
		w.Write([]byte("data: {not valid json\n\n")) //must be skipped, not fatal
		w.Write([]byte(`data: {"choices":[{"delta":{"content":"lo, "}}]}` + "\n\n"))
		w.Write([]byte(`data: {"choices":[{"delta":{"content":"world"}}]}` + "\n\n"))
		w.Write([]byte("data: [DONE]\n\n"))
	}))
	defer server.Close()

	b := newTestBackend(server.URL)
	b.SetDocument(testDoc())

	var deltas []string
	full, err := b.GenerateResponse(context.Background(), "what moves fluid?", func(d string) {
		deltas = append(deltas, d)
	})

	if err != nil {
		t.Fatalf("GenerateResponse failed: %v", err)
	}
	if full != "Hello, world" {
		t.Errorf("Full answer got %q, want %q", full, "Hello, world")
	}
	if len(deltas) != 3 {
		t.Errorf("Delta count got %d, want 3", len(deltas))
	}
	if atomic.LoadInt32(&requests) != 1 {
		t.Errorf("Request count got %d, want 1", requests)
	}
	if len(b.History()) != 2 {
		t.Errorf("Completed exchange not recorded, history has %d entries", len(b.History()))
	}
}

func TestGenerateResponse_NoDocumentNoRequest(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
	}))
	defer server.Close()

	b := newTestBackend(server.URL)

	_, err := b.GenerateResponse(context.Background(), "anything", nil)

	if !errors.Is(err, generate.ErrDocumentNotBound) {
		t.Errorf("Error got %v, want %v", err, generate.ErrDocumentNotBound)
	}
	if atomic.LoadInt32(&requests) != 0 {
		t.Errorf("Precondition failure reached the transport: %d requests", requests)
	}
}

func TestGenerateResponse_TransportFailureIsGeneric(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer server.Close()

	b := newTestBackend(server.URL)
	b.SetDocument(testDoc())

	_, err := b.GenerateResponse(context.Background(), "q", nil)

	if !errors.Is(err, generate.ErrGenerationFailed) {
		t.Errorf("Error got %v, want %v", err, generate.ErrGenerationFailed)
	}
	if len(b.History()) != 0 {
		t.Error("Failed generation must not append history")
	}
}

func TestSummarizeDocument_NonStreaming(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Stream {
			t.Error("SummarizeDocument must not request streaming")
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "a fine summary"}},
			},
		})
	}))
	defer server.Close()

	b := newTestBackend(server.URL)
	b.SetDocument(testDoc())

	summary, err := b.SummarizeDocument(context.Background())
	if err != nil {
		t.Fatalf("SummarizeDocument failed: %v", err)
	}
	if summary != "a fine summary" {
		t.Errorf("Summary got %q, want %q", summary, "a fine summary")
	}
}

func TestExtractKeyTopics_ParsesLines(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "- pumps\n- fluid dynamics\n\nimpellers"}},
			},
		})
	}))
	defer server.Close()

	b := newTestBackend(server.URL)
	b.SetDocument(testDoc())

	topics, err := b.ExtractKeyTopics(context.Background())
	if err != nil {
		t.Fatalf("ExtractKeyTopics failed: %v", err)
	}

	want := []string{"pumps", "fluid dynamics", "impellers"}
	if len(topics) != len(want) {
		t.Fatalf("Topics got %v, want %v", topics, want)
	}
	for i := range want {
		if topics[i] != want[i] {
			t.Errorf("Topic %d got %q, want %q", i, topics[i], want[i])
		}
	}
}

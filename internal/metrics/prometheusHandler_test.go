package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHttpStatusRecorder_ForwardsFlush(t *testing.T) {
	rec := httptest.NewRecorder()
	wrapped := &HttpStatusRecorder{ResponseWriter: rec, Status: 200}

	flusher, ok := interface{}(wrapped).(http.Flusher)
	if !ok {
		t.Fatal("HttpStatusRecorder must satisfy http.Flusher so streaming handlers can flush")
	}

	flusher.Flush()
	if !rec.Flushed {
		t.Error("Flush was not forwarded to the underlying writer")
	}
}

func TestHttpStatusRecorder_CapturesStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	wrapped := &HttpStatusRecorder{ResponseWriter: rec, Status: 200}

	wrapped.CaptureWriteHeaderMetrics(http.StatusAccepted)

	if wrapped.Status != http.StatusAccepted {
		t.Errorf("Expected recorded status %d, got %d", http.StatusAccepted, wrapped.Status)
	}
	if rec.Code != http.StatusAccepted {
		t.Errorf("Expected underlying status %d, got %d", http.StatusAccepted, rec.Code)
	}
}

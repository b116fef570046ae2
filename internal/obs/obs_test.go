package obs

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCorrelation_RoundTripsThroughContext(t *testing.T) {
	ctx := WithCorrelation(context.Background(), Correlation{RequestID: "req-abc"})
	if got := CorrelationFromContext(ctx).RequestID; got != "req-abc" {
		t.Fatalf("got %q, want req-abc", got)
	}

	// Empty updates must not clobber an existing id.
	ctx = WithCorrelation(ctx, Correlation{})
	if got := CorrelationFromContext(ctx).RequestID; got != "req-abc" {
		t.Fatalf("empty update clobbered id: %q", got)
	}

	if got := CorrelationFromContext(context.Background()).RequestID; got != "" {
		t.Fatalf("expected empty correlation for bare context, got %q", got)
	}
}

func TestRequestContextMiddleware_GeneratesAndEchoesRequestID(t *testing.T) {
	var seen string
	handler := RequestContextMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CorrelationFromContext(r.Context()).RequestID
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/notes", nil))

	if seen == "" {
		t.Fatal("handler should see a generated request id")
	}
	if !strings.HasPrefix(seen, "req-") {
		t.Fatalf("unexpected request id shape: %q", seen)
	}
	if rec.Header().Get("X-Request-Id") != seen {
		t.Fatalf("response header %q does not match context id %q", rec.Header().Get("X-Request-Id"), seen)
	}
}

func TestRequestContextMiddleware_HonorsIncomingRequestID(t *testing.T) {
	var seen string
	handler := RequestContextMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CorrelationFromContext(r.Context()).RequestID
	}))

	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.Header.Set("X-Request-Id", "  upstream-42  ")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen != "upstream-42" {
		t.Fatalf("got %q, want trimmed upstream id", seen)
	}
}

func TestAccessLogMiddleware_EmitsStructuredEvent(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutputForTests(&buf)
	defer restore()

	handler := RequestContextMiddleware(AccessLogMiddleware("test", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"ok":true}`))
	})))

	req := httptest.NewRequest(http.MethodPost, "/notes", strings.NewReader(`{"title":"t"}`))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var event map[string]any
	if err := json.Unmarshal(buf.Bytes(), &event); err != nil {
		t.Fatalf("access log is not one JSON event: %v (%q)", err, buf.String())
	}
	if event["msg"] != "http_access" {
		t.Fatalf("unexpected event name: %v", event["msg"])
	}
	if event["method"] != "POST" || event["path"] != "/notes" {
		t.Fatalf("unexpected method/path: %v %v", event["method"], event["path"])
	}
	if event["status"] != float64(http.StatusCreated) {
		t.Fatalf("unexpected status: %v", event["status"])
	}
	if event["request_id"] == "" || event["request_id"] == nil {
		t.Fatal("access event should carry the request id")
	}
	if event["resp_bytes"] != float64(len(`{"ok":true}`)) {
		t.Fatalf("unexpected resp_bytes: %v", event["resp_bytes"])
	}
}

func TestResponseRecorder_CapturesStatusAndBytes(t *testing.T) {
	base := httptest.NewRecorder()
	wrapped, recorder := NewResponseRecorder(base)

	wrapped.WriteHeader(http.StatusAccepted)
	wrapped.WriteHeader(http.StatusOK) // second call ignored
	wrapped.Write([]byte("hello"))

	if recorder.StatusCode() != http.StatusAccepted {
		t.Fatalf("got %d, want 202", recorder.StatusCode())
	}
	if recorder.RespBytes() != 5 {
		t.Fatalf("got %d bytes, want 5", recorder.RespBytes())
	}
	if base.Code != http.StatusAccepted {
		t.Fatalf("underlying writer got %d", base.Code)
	}
}

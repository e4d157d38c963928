package llm

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGuardrail_Disabled(t *testing.T) {
	g := NewGuardrail("", "", discardLogger())
	if g.Enabled() {
		t.Fatal("guardrail without URL should be disabled")
	}
	if v := g.Check(context.Background(), "anything"); !v.Allowed {
		t.Fatalf("disabled guardrail blocked input: %+v", v)
	}
}

func TestGuardrail_FlaggedInput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/moderations" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"flagged": true, "reason": "violence"}`))
	}))
	defer srv.Close()

	g := NewGuardrail(srv.URL, "key", discardLogger())
	v := g.Check(context.Background(), "bad input")
	if v.Allowed {
		t.Fatal("flagged input was allowed")
	}
	if v.Reason != "blocked: violence" {
		t.Errorf("Reason = %q", v.Reason)
	}
}

func TestGuardrail_CleanInput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"flagged": false}`))
	}))
	defer srv.Close()

	g := NewGuardrail(srv.URL, "key", discardLogger())
	if v := g.Check(context.Background(), "what is a cell?"); !v.Allowed {
		t.Fatalf("clean input blocked: %+v", v)
	}
}

func TestGuardrail_FailsOpen(t *testing.T) {
	// Unreachable endpoint.
	g := NewGuardrail("http://127.0.0.1:1", "key", discardLogger())
	if v := g.Check(context.Background(), "hello"); !v.Allowed {
		t.Fatalf("transport failure should allow input: %+v", v)
	}

	// Server errors and garbage responses also fail open.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	g = NewGuardrail(srv.URL, "key", discardLogger())
	if v := g.Check(context.Background(), "hello"); !v.Allowed {
		t.Fatalf("5xx response should allow input: %+v", v)
	}
}

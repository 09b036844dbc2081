package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Wyydra/callrelay/internal/core/domain"
)

var testSession = SessionConfig{Model: "gpt-realtime", Voice: "sage", Instructions: "greet"}

func TestAcceptPostsSessionConfig(t *testing.T) {
	var gotPath, gotAuth, gotType string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	a := NewAcceptor(srv.URL+"/v1/", "sk-test", testSession, time.Second)
	if err := a.Accept(context.Background(), "abc123"); err != nil {
		t.Fatalf("accept: %v", err)
	}

	if gotPath != "/v1/realtime/calls/abc123/accept" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if gotAuth != "Bearer sk-test" || gotType != "application/json" {
		t.Fatalf("unexpected headers %q %q", gotAuth, gotType)
	}
	if gotBody["type"] != "realtime" || gotBody["model"] != "gpt-realtime" || gotBody["instructions"] != "greet" {
		t.Fatalf("unexpected body %v", gotBody)
	}
	audio := gotBody["audio"].(map[string]any)
	input := audio["input"].(map[string]any)
	if input["turn_detection"].(map[string]any)["type"] != "semantic_vad" {
		t.Fatalf("unexpected turn detection %v", input)
	}
	format := input["format"].(map[string]any)
	if format["type"] != "audio/pcm" || format["rate"] != float64(24000) {
		t.Fatalf("unexpected input format %v", format)
	}
	output := audio["output"].(map[string]any)
	if output["voice"] != "sage" || output["format"].(map[string]any)["type"] != "audio/pcmu" {
		t.Fatalf("unexpected output %v", output)
	}
}

func TestAcceptNon2xx(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"message":"call not found","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	a := NewAcceptor(srv.URL, "sk-test", testSession, time.Second)
	err := a.Accept(context.Background(), "abc123")
	if !errors.Is(err, domain.ErrAcceptFailed) {
		t.Fatalf("expected ErrAcceptFailed, got %v", err)
	}
	var acceptErr *AcceptError
	if !errors.As(err, &acceptErr) || acceptErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected AcceptError with 404, got %v", err)
	}
	if hits != 1 {
		t.Fatalf("expected a single attempt, got %d", hits)
	}
}

func TestAcceptNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	a := NewAcceptor(url, "sk-test", testSession, time.Second)
	if err := a.Accept(context.Background(), "abc123"); !errors.Is(err, domain.ErrAcceptFailed) {
		t.Fatalf("expected ErrAcceptFailed, got %v", err)
	}
}

package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/haiminhdev/meeting-agent/pkg/config"
)

func TestComplete_Success(t *testing.T) {
	// Mock Ollama server
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST got %s", r.Method)
		}
		if r.URL.Path != "/api/generate" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var payload GenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		if payload.Stream {
			t.Fatal("expected stream to be false")
		}
		if payload.Model != "llama3.2" {
			t.Fatalf("unexpected model %s", payload.Model)
		}
		if payload.System != "be brief" {
			t.Fatalf("unexpected system prompt %q", payload.System)
		}
		if payload.Options.Temperature != 0.1 || payload.Options.TopP != 0.9 || payload.Options.MaxTokens != 4000 {
			t.Fatalf("unexpected options %+v", payload.Options)
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"response": `{"ok": true}`})
	}))
	defer ts.Close()

	client := NewOllamaClient(&config.OllamaConfig{BaseURL: ts.URL, Model: "llama3.2"})

	out, err := client.Complete(context.Background(), "hello", "be brief")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if out != `{"ok": true}` {
		t.Fatalf("unexpected response %q", out)
	}
}

func TestComplete_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer ts.Close()

	client := NewOllamaClient(&config.OllamaConfig{BaseURL: ts.URL, Model: "llama3.2"})

	_, err := client.Complete(context.Background(), "hello", "")
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if !strings.Contains(err.Error(), "status 404") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestComplete_ConnectionRefused(t *testing.T) {
	// Point at a server that is already closed
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close()

	client := NewOllamaClient(&config.OllamaConfig{BaseURL: ts.URL, Model: "llama3.2"})

	_, err := client.Complete(context.Background(), "hello", "")
	if err == nil {
		t.Fatal("expected error for refused connection")
	}
}

func TestListModels(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"models": []map[string]string{{"name": "llama3.2"}, {"name": "mistral"}},
		})
	}))
	defer ts.Close()

	client := NewOllamaClient(&config.OllamaConfig{BaseURL: ts.URL, Model: "llama3.2"})

	models, err := client.ListModels(context.Background())
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if len(models) != 2 || models[0] != "llama3.2" {
		t.Fatalf("unexpected models %v", models)
	}
}

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/haiminhdev/meeting-agent/pkg/config"
)

// Sentinel errors for completion failures
var (
	ErrServiceUnavailable = errors.New("ollama service unavailable")
	ErrTimeout            = errors.New("ollama request timed out")
)

// OllamaClient is a minimal client for the Ollama generate API
type OllamaClient struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllamaClient creates an Ollama client using values from the provided
// config. Pass a nil config to fall back to environment variables.
func NewOllamaClient(cfg *config.OllamaConfig) *OllamaClient {
	var base, model string
	if cfg != nil {
		base = cfg.BaseURL
		model = cfg.Model
	}
	if base == "" {
		base = os.Getenv("OLLAMA_BASE_URL")
		if base == "" {
			base = "http://localhost:11434"
		}
	}
	if model == "" {
		model = os.Getenv("OLLAMA_MODEL")
		if model == "" {
			model = "llama3.2"
		}
	}

	return &OllamaClient{
		baseURL: base,
		model:   model,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

// GenerateRequest is the shape for generate requests
type GenerateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	System  string          `json:"system,omitempty"`
	Stream  bool            `json:"stream"`
	Options GenerateOptions `json:"options"`
}

// GenerateOptions are the sampling options sent with every request
type GenerateOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	MaxTokens   int     `json:"max_tokens"`
}

// GenerateResponse is a minimal response shape
type GenerateResponse struct {
	Response string `json:"response"`
}

// tagsResponse is the shape of the model listing endpoint
type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// Complete sends a prompt to Ollama and returns the model output. One
// request, no retries: the caller decides whether a failure is fatal.
func (o *OllamaClient) Complete(ctx context.Context, prompt, systemPrompt string) (string, error) {
	reqBody := GenerateRequest{
		Model:  o.model,
		Prompt: prompt,
		System: systemPrompt,
		Stream: false,
		Options: GenerateOptions{
			Temperature: 0.1,
			TopP:        0.9,
			MaxTokens:   4000,
		},
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := o.baseURL + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return "", fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, string(body))
	}

	var gr GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", err
	}
	return gr.Response, nil
}

// ListModels returns the names of the models the Ollama instance has pulled.
// Used as a startup health probe.
func (o *OllamaClient) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", o.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, err
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// Model returns the configured model name
func (o *OllamaClient) Model() string {
	return o.model
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

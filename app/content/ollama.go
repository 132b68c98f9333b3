package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// OllamaBackend generates text through a locally hosted Ollama server.
type OllamaBackend struct {
	url        string
	model      string
	httpClient *http.Client
}

var _ Backend = (*OllamaBackend)(nil)

func NewOllamaBackend(url, model string) *OllamaBackend {
	if url == "" {
		url = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3.2"
	}

	return &OllamaBackend{
		url:   url,
		model: model,
		// Local models can be slow to answer on first load
		httpClient: &http.Client{Timeout: 2 * time.Minute},
	}
}

func (o *OllamaBackend) Name() string {
	return "ollama"
}

func (o *OllamaBackend) Generate(ctx context.Context, prompt string) (string, error) {
	payload := map[string]any{
		"model":  o.model,
		"prompt": prompt,
		"stream": false,
		"options": map[string]any{
			"temperature": 0.8,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", &BackendError{Backend: o.Name(), Detail: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.url+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", &BackendError{Backend: o.Name(), Detail: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return "", &BackendError{Backend: o.Name(), Detail: fmt.Sprintf("%s. Is Ollama running?", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &BackendError{Backend: o.Name(), Detail: fmt.Sprintf("%s. Is Ollama running?", resp.Status)}
	}

	var result struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", &BackendError{Backend: o.Name(), Detail: err.Error()}
	}

	return result.Response, nil
}

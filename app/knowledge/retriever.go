// Package knowledge retrieves context snippets from a Weaviate vector store
// to enrich generation prompts. Retrieval is an enhancement, never a
// dependency: every failure mode collapses to an empty result.
package knowledge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"
)

// contextCap bounds the combined context string to keep prompts small.
const contextCap = 1500

const className = "LegacyKnowledge"

type Retriever struct {
	weaviateURL string
	httpClient  *http.Client
}

func NewRetriever(weaviateURL string) *Retriever {
	return &Retriever{
		weaviateURL: strings.TrimSuffix(weaviateURL, "/"),
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Query runs a nearText similarity search and returns up to limit result
// bodies joined with blank lines, truncated to the context cap. It never
// returns an error: an unreachable store, a malformed response or zero
// results all yield "".
func (r *Retriever) Query(ctx context.Context, text string, limit int) string {
	if limit <= 0 {
		limit = 3
	}

	concepts, err := json.Marshal([]string{text})
	if err != nil {
		return ""
	}

	graphql := map[string]string{
		"query": fmt.Sprintf(`{
  Get {
    %s(
      nearText: { concepts: %s }
      limit: %d
    ) {
      title
      content
      category
    }
  }
}`, className, concepts, limit),
	}

	body, err := json.Marshal(graphql)
	if err != nil {
		return ""
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.weaviateURL+"/v1/graphql", bytes.NewReader(body))
	if err != nil {
		return ""
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		slog.Debug("Knowledge store unavailable, generating without context", "error", err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	var result struct {
		Data struct {
			Get map[string][]struct {
				Title    string `json:"title"`
				Content  string `json:"content"`
				Category string `json:"category"`
			} `json:"Get"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return ""
	}

	entries := result.Data.Get[className]
	if len(entries) == 0 {
		return ""
	}

	parts := make([]string, 0, len(entries))
	for _, entry := range entries {
		parts = append(parts, entry.Content)
	}

	combined := strings.Join(parts, "\n\n")
	if len(combined) > contextCap {
		// Back up to a rune boundary so the cut never splits a multi-byte
		// character
		n := contextCap
		for n > 0 && !utf8.RuneStart(combined[n]) {
			n--
		}
		combined = combined[:n]
	}

	return combined
}

package knowledge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"
)

func weaviateResponse(contents ...string) map[string]any {
	entries := make([]map[string]string, 0, len(contents))
	for _, c := range contents {
		entries = append(entries, map[string]string{
			"title":    "entry",
			"content":  c,
			"category": "general",
		})
	}
	return map[string]any{
		"data": map[string]any{
			"Get": map[string]any{
				"LegacyKnowledge": entries,
			},
		},
	}
}

func TestQueryJoinsResults(t *testing.T) {
	var gotQuery string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/graphql" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		gotQuery = body["query"]
		json.NewEncoder(w).Encode(weaviateResponse("first snippet", "second snippet"))
	}))
	defer server.Close()

	r := NewRetriever(server.URL)

	result := r.Query(context.Background(), "gardening", 3)
	if result != "first snippet\n\nsecond snippet" {
		t.Errorf("Expected blank-line joined snippets, got %q", result)
	}

	if !strings.Contains(gotQuery, "LegacyKnowledge") {
		t.Errorf("Expected class name in GraphQL query:\n%s", gotQuery)
	}
	if !strings.Contains(gotQuery, `"gardening"`) {
		t.Errorf("Expected concept in GraphQL query:\n%s", gotQuery)
	}
	if !strings.Contains(gotQuery, "limit: 3") {
		t.Errorf("Expected limit in GraphQL query:\n%s", gotQuery)
	}
}

func TestQueryTruncatesCombinedContext(t *testing.T) {
	long := strings.Repeat("a", 1200)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(weaviateResponse(long, long))
	}))
	defer server.Close()

	r := NewRetriever(server.URL)

	result := r.Query(context.Background(), "anything", 3)
	if len(result) != 1500 {
		t.Errorf("Expected context capped at 1500 chars, got %d", len(result))
	}
}

func TestQueryTruncatesOnRuneBoundary(t *testing.T) {
	// Position a multi-byte character across the cap so a byte-offset cut
	// would split it
	long := strings.Repeat("a", 1499) + strings.Repeat("日", 20)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(weaviateResponse(long))
	}))
	defer server.Close()

	result := NewRetriever(server.URL).Query(context.Background(), "anything", 3)
	if len(result) > 1500 {
		t.Errorf("Expected context capped at 1500 bytes, got %d", len(result))
	}
	if !utf8.ValidString(result) {
		t.Error("Expected truncation to preserve valid UTF-8")
	}
	if len(result) != 1499 {
		t.Errorf("Expected cut backed up to the rune boundary at 1499, got %d", len(result))
	}
}

func TestQueryNeverFails(t *testing.T) {
	// Store unreachable
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	down.Close()
	r := NewRetriever(down.URL)
	if got := r.Query(context.Background(), "anything", 3); got != "" {
		t.Errorf("Expected empty context for unreachable store, got %q", got)
	}

	// Non-200 response
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()
	if got := NewRetriever(bad.URL).Query(context.Background(), "anything", 3); got != "" {
		t.Errorf("Expected empty context for server error, got %q", got)
	}

	// Malformed body
	malformed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer malformed.Close()
	if got := NewRetriever(malformed.URL).Query(context.Background(), "anything", 3); got != "" {
		t.Errorf("Expected empty context for malformed response, got %q", got)
	}

	// Zero results
	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(weaviateResponse())
	}))
	defer empty.Close()
	if got := NewRetriever(empty.URL).Query(context.Background(), "anything", 3); got != "" {
		t.Errorf("Expected empty context for zero results, got %q", got)
	}
}

func TestQueryDefaultLimit(t *testing.T) {
	var gotQuery string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		gotQuery = body["query"]
		json.NewEncoder(w).Encode(weaviateResponse("x"))
	}))
	defer server.Close()

	NewRetriever(server.URL).Query(context.Background(), "anything", 0)
	if !strings.Contains(gotQuery, "limit: 3") {
		t.Errorf("Expected default limit of 3:\n%s", gotQuery)
	}
}

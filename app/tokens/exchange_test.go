package tokens

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewExchangerValidation(t *testing.T) {
	if _, err := NewExchanger("", "secret", "page123"); err == nil {
		t.Error("Expected error for missing app ID")
	}
	if _, err := NewExchanger("app", "", "page123"); err == nil {
		t.Error("Expected error for missing app secret")
	}
	if _, err := NewExchanger("app", "secret", ""); err == nil {
		t.Error("Expected error for missing page ID")
	}
}

func TestExchangeFullFlow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/oauth/access_token"):
			if !strings.Contains(r.URL.RawQuery, "fb_exchange_token=short-token") {
				t.Errorf("Expected short token in exchange request: %s", r.URL.RawQuery)
			}
			json.NewEncoder(w).Encode(map[string]any{
				"access_token": "long-lived-token",
				"expires_in":   5184000,
			})
		case strings.HasPrefix(r.URL.Path, "/me/accounts"):
			if !strings.Contains(r.URL.RawQuery, "access_token=long-lived-token") {
				t.Errorf("Expected long-lived token used for page lookup: %s", r.URL.RawQuery)
			}
			json.NewEncoder(w).Encode(map[string]any{
				"data": []map[string]string{
					{"id": "other", "name": "Other Page", "access_token": "nope"},
					{"id": "page123", "name": "My Page", "access_token": "permanent-token"},
				},
			})
		case strings.HasPrefix(r.URL.Path, "/debug_token"):
			json.NewEncoder(w).Encode(map[string]any{
				"data": map[string]any{
					"is_valid":   true,
					"expires_at": 0,
					"scopes":     []string{"pages_manage_posts"},
				},
			})
		default:
			t.Errorf("Unexpected request path: %s", r.URL.Path)
		}
	}))
	defer server.Close()

	e, err := NewExchanger("app", "secret", "page123")
	if err != nil {
		t.Fatal(err)
	}
	e.SetAPIBase(server.URL)

	page, err := e.Exchange(context.Background(), "short-token")
	if err != nil {
		t.Fatal(err)
	}

	if page.Token != "permanent-token" {
		t.Errorf("Expected permanent token, got '%s'", page.Token)
	}
	if page.PageName != "My Page" {
		t.Errorf("Expected page name 'My Page', got '%s'", page.PageName)
	}
	if page.Expires != "NEVER" {
		t.Errorf("Expected permanent token to report NEVER, got '%s'", page.Expires)
	}
	if len(page.Scopes) != 1 || page.Scopes[0] != "pages_manage_posts" {
		t.Errorf("Expected scopes reported, got %v", page.Scopes)
	}
}

func TestExchangePageNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/oauth/access_token"):
			json.NewEncoder(w).Encode(map[string]any{"access_token": "long", "expires_in": 100})
		case strings.HasPrefix(r.URL.Path, "/me/accounts"):
			json.NewEncoder(w).Encode(map[string]any{
				"data": []map[string]string{
					{"id": "other", "name": "Other Page", "access_token": "nope"},
				},
			})
		}
	}))
	defer server.Close()

	e, err := NewExchanger("app", "secret", "page123")
	if err != nil {
		t.Fatal(err)
	}
	e.SetAPIBase(server.URL)

	_, err = e.Exchange(context.Background(), "short-token")
	if err == nil {
		t.Fatal("Expected error for unknown page ID")
	}
	if !strings.Contains(err.Error(), "Other Page (other)") {
		t.Errorf("Expected available pages listed, got: %v", err)
	}
}

func TestExchangeUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "Invalid app secret"},
		})
	}))
	defer server.Close()

	e, err := NewExchanger("app", "secret", "page123")
	if err != nil {
		t.Fatal(err)
	}
	e.SetAPIBase(server.URL)

	_, err = e.Exchange(context.Background(), "short-token")
	if err == nil {
		t.Fatal("Expected error")
	}
	if !strings.Contains(err.Error(), "Invalid app secret") {
		t.Errorf("Expected upstream message, got: %v", err)
	}
}

// Package tokens exchanges a short-lived Facebook user token for a
// permanent page access token:
//
//	short-lived user token (~1 hour)
//	→ long-lived user token (~60 days)
//	→ page access token (never expires)
package tokens

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultGraphAPIBase = "https://graph.facebook.com/v21.0"

type Exchanger struct {
	appID      string
	appSecret  string
	pageID     string
	apiBase    string
	httpClient *http.Client
}

func NewExchanger(appID, appSecret, pageID string) (*Exchanger, error) {
	if appID == "" || appSecret == "" {
		return nil, fmt.Errorf("missing FACEBOOK_APP_ID or FACEBOOK_APP_SECRET in configuration")
	}
	if pageID == "" {
		return nil, fmt.Errorf("missing FACEBOOK_PAGE_ID in configuration")
	}

	return &Exchanger{
		appID:      appID,
		appSecret:  appSecret,
		pageID:     pageID,
		apiBase:    DefaultGraphAPIBase,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// PageToken holds the exchange result.
type PageToken struct {
	Token    string
	PageName string
	PageID   string
	// Expires is "NEVER" for permanent tokens, an RFC 3339 timestamp otherwise.
	Expires string
	Scopes  []string
}

// Exchange runs the full three-step flow and returns the page token.
func (e *Exchanger) Exchange(ctx context.Context, shortToken string) (*PageToken, error) {
	longLived, expiresIn, err := e.longLivedUserToken(ctx, shortToken)
	if err != nil {
		return nil, err
	}

	days := expiresIn / 86400
	fmt.Printf("Long-lived user token obtained (expires in %d days)\n", days)

	token, err := e.pageAccessToken(ctx, longLived)
	if err != nil {
		return nil, err
	}

	expires, scopes, err := e.debugToken(ctx, token.Token)
	if err != nil {
		// The token was still issued, it may work fine
		fmt.Printf("Warning: token verification failed: %v\n", err)
	} else {
		token.Expires = expires
		token.Scopes = scopes
	}

	return token, nil
}

func (e *Exchanger) longLivedUserToken(ctx context.Context, shortToken string) (string, int64, error) {
	url := fmt.Sprintf("%s/oauth/access_token?grant_type=fb_exchange_token&client_id=%s&client_secret=%s&fb_exchange_token=%s",
		e.apiBase, e.appID, e.appSecret, shortToken)

	var result struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := e.get(ctx, url, &result); err != nil {
		return "", 0, fmt.Errorf("token exchange failed: %w", err)
	}

	return result.AccessToken, result.ExpiresIn, nil
}

func (e *Exchanger) pageAccessToken(ctx context.Context, longLivedToken string) (*PageToken, error) {
	url := fmt.Sprintf("%s/me/accounts?access_token=%s", e.apiBase, longLivedToken)

	var result struct {
		Data []struct {
			ID          string `json:"id"`
			Name        string `json:"name"`
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	if err := e.get(ctx, url, &result); err != nil {
		return nil, fmt.Errorf("page token request failed: %w", err)
	}

	for _, page := range result.Data {
		if page.ID == e.pageID {
			return &PageToken{Token: page.AccessToken, PageName: page.Name, PageID: page.ID}, nil
		}
	}

	available := "none"
	if len(result.Data) > 0 {
		available = ""
		for i, page := range result.Data {
			if i > 0 {
				available += ", "
			}
			available += fmt.Sprintf("%s (%s)", page.Name, page.ID)
		}
	}

	return nil, fmt.Errorf("page ID %s not found; available pages: %s (update FACEBOOK_PAGE_ID if needed)", e.pageID, available)
}

func (e *Exchanger) debugToken(ctx context.Context, token string) (expires string, scopes []string, err error) {
	url := fmt.Sprintf("%s/debug_token?input_token=%s&access_token=%s|%s", e.apiBase, token, e.appID, e.appSecret)

	var result struct {
		Data struct {
			IsValid   bool     `json:"is_valid"`
			ExpiresAt int64    `json:"expires_at"`
			Scopes    []string `json:"scopes"`
		} `json:"data"`
	}
	if err := e.get(ctx, url, &result); err != nil {
		return "", nil, err
	}

	if !result.Data.IsValid {
		return "", nil, fmt.Errorf("token reported invalid")
	}

	if result.Data.ExpiresAt == 0 {
		expires = "NEVER"
	} else {
		expires = time.Unix(result.Data.ExpiresAt, 0).UTC().Format(time.RFC3339)
	}

	return expires, result.Data.Scopes, nil
}

func (e *Exchanger) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var envelope struct {
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if envelope.Error != nil {
		return fmt.Errorf("%s", envelope.Error.Message)
	}

	return json.Unmarshal(data, out)
}

// SetAPIBase points the exchanger at a different Graph API endpoint. Test hook.
func (e *Exchanger) SetAPIBase(base string) {
	e.apiBase = base
}

package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const LinkedInMaxLength = 3000

// DefaultLinkedInAPIBase is the production LinkedIn REST endpoint.
const DefaultLinkedInAPIBase = "https://api.linkedin.com/v2"

// LinkedIn publishes via the REST Posts API with bearer-token auth.
// Access tokens expire after 60 days and are refreshed manually.
type LinkedIn struct {
	accessToken string
	personURN   string
	apiBase     string
	httpClient  *http.Client
	limiter     *rate.Limiter
}

var _ Platform = (*LinkedIn)(nil)

func NewLinkedIn(accessToken, personURN string) (*LinkedIn, error) {
	if accessToken == "" {
		return nil, &ConfigError{Key: "LINKEDIN_ACCESS_TOKEN"}
	}
	if personURN == "" {
		return nil, &ConfigError{Key: "LINKEDIN_PERSON_URN", Detail: "format: urn:li:person:YOUR_ID"}
	}

	return &LinkedIn{
		accessToken: accessToken,
		personURN:   personURN,
		apiBase:     DefaultLinkedInAPIBase,
		httpClient:  newHTTPClient(),
		limiter:     rate.NewLimiter(rate.Every(1*time.Second), 1),
	}, nil
}

func (l *LinkedIn) Name() string {
	return "linkedin"
}

func (l *LinkedIn) MaxLength() int {
	return LinkedInMaxLength
}

func (l *LinkedIn) Post(ctx context.Context, message string) (*PostResult, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, &PublishError{Platform: l.Name(), Message: err.Error()}
	}

	payload := map[string]any{
		"author":     l.personURN,
		"commentary": message,
		"visibility": "PUBLIC",
		"distribution": map[string]any{
			"feedDistribution":               "MAIN_FEED",
			"targetEntities":                 []any{},
			"thirdPartyDistributionChannels": []any{},
		},
		"lifecycleState":            "PUBLISHED",
		"isReshareDisabledByAuthor": false,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &PublishError{Platform: l.Name(), Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.apiBase+"/posts", bytes.NewReader(body))
	if err != nil {
		return nil, &PublishError{Platform: l.Name(), Message: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+l.accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")
	req.Header.Set("LinkedIn-Version", "202401")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, &PublishError{Platform: l.Name(), Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := resp.Status
		var errBody struct {
			Message string `json:"message"`
		}
		if data, readErr := io.ReadAll(resp.Body); readErr == nil {
			if json.Unmarshal(data, &errBody) == nil && errBody.Message != "" {
				msg = errBody.Message
			}
		}
		return nil, &PublishError{Platform: l.Name(), Message: fmt.Sprintf("(%d): %s", resp.StatusCode, msg)}
	}

	// LinkedIn returns the post URN in the x-restli-id header, not the body.
	// The publish succeeded either way, so a missing header gets a sentinel.
	postID := resp.Header.Get("x-restli-id")
	if postID == "" {
		postID = "posted"
	}

	return &PostResult{PostID: postID, Message: message}, nil
}

func (l *LinkedIn) VerifyCredentials(ctx context.Context) Verification {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.apiBase+"/me", nil)
	if err != nil {
		return Verification{Valid: false, Error: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+l.accessToken)

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return Verification{Valid: false, Error: err.Error()}
	}
	defer resp.Body.Close()

	var result struct {
		ID                 string `json:"id"`
		LocalizedFirstName string `json:"localizedFirstName"`
		LocalizedLastName  string `json:"localizedLastName"`
		Message            string `json:"message"`
		Status             int    `json:"status"`
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Verification{Valid: false, Error: err.Error()}
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return Verification{Valid: false, Error: err.Error()}
	}

	if resp.StatusCode != http.StatusOK || result.Status == http.StatusUnauthorized {
		msg := result.Message
		if msg == "" {
			msg = "Invalid or expired token"
		}
		return Verification{Valid: false, Error: msg}
	}

	identity := result.LocalizedFirstName
	if result.LocalizedLastName != "" {
		if identity != "" {
			identity += " "
		}
		identity += result.LocalizedLastName
	}
	if identity == "" {
		identity = result.ID
	}

	return Verification{Valid: true, Identity: identity}
}

// SetAPIBase points the adapter at a different REST endpoint. Test hook.
func (l *LinkedIn) SetAPIBase(base string) {
	l.apiBase = base
}

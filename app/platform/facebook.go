package platform

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const FacebookMaxLength = 63206

// Facebook publishes text posts to a page feed via the Meta Graph API.
type Facebook struct {
	pageID      string
	accessToken string
	apiBase     string
	httpClient  *http.Client
	limiter     *rate.Limiter
}

var _ Platform = (*Facebook)(nil)

func NewFacebook(pageID, accessToken string) (*Facebook, error) {
	if pageID == "" {
		return nil, &ConfigError{Key: "FACEBOOK_PAGE_ID"}
	}
	if accessToken == "" {
		return nil, &ConfigError{Key: "FACEBOOK_ACCESS_TOKEN"}
	}

	return &Facebook{
		pageID:      pageID,
		accessToken: accessToken,
		apiBase:     DefaultGraphAPIBase,
		httpClient:  newHTTPClient(),
		// Graph API allows ~200 calls/hour per user; one per second is a safe buffer
		limiter: rate.NewLimiter(rate.Every(1*time.Second), 1),
	}, nil
}

func (f *Facebook) Name() string {
	return "facebook"
}

func (f *Facebook) MaxLength() int {
	return FacebookMaxLength
}

func (f *Facebook) Post(ctx context.Context, message string) (*PostResult, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, &PublishError{Platform: f.Name(), Message: err.Error()}
	}

	url := fmt.Sprintf("%s/%s/feed", f.apiBase, f.pageID)
	payload := map[string]string{
		"message":      message,
		"access_token": f.accessToken,
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := doGraphPost(ctx, f.httpClient, url, payload, &result); err != nil {
		return nil, &PublishError{Platform: f.Name(), Message: err.Error()}
	}

	return &PostResult{PostID: result.ID, Message: message}, nil
}

// RecentPost is a feed entry returned by GetRecentPosts. CreatedTime stays
// a string: Graph timestamps use a +0000 offset the stdlib layout for JSON
// time does not accept.
type RecentPost struct {
	ID          string `json:"id"`
	Message     string `json:"message"`
	CreatedTime string `json:"created_time"`
}

// Engagement holds per-post interaction counts.
type Engagement struct {
	Likes    int
	Comments int
	Shares   int
}

// GetRecentPosts returns up to limit recent posts from the page feed.
// Not used by the posting loop, part of the same capability surface.
func (f *Facebook) GetRecentPosts(ctx context.Context, limit int) ([]RecentPost, error) {
	url := fmt.Sprintf("%s/%s/posts?limit=%d&access_token=%s", f.apiBase, f.pageID, limit, f.accessToken)

	var result struct {
		Data []RecentPost `json:"data"`
	}
	if err := doGraphGet(ctx, f.httpClient, url, &result); err != nil {
		return nil, fmt.Errorf("facebook: %w", err)
	}

	return result.Data, nil
}

// GetPostEngagement returns like/comment/share counts for a post.
func (f *Facebook) GetPostEngagement(ctx context.Context, postID string) (*Engagement, error) {
	url := fmt.Sprintf("%s/%s?fields=likes.summary(true),comments.summary(true),shares&access_token=%s",
		f.apiBase, postID, f.accessToken)

	var result struct {
		Likes *struct {
			Summary struct {
				TotalCount int `json:"total_count"`
			} `json:"summary"`
		} `json:"likes"`
		Comments *struct {
			Summary struct {
				TotalCount int `json:"total_count"`
			} `json:"summary"`
		} `json:"comments"`
		Shares *struct {
			Count int `json:"count"`
		} `json:"shares"`
	}
	if err := doGraphGet(ctx, f.httpClient, url, &result); err != nil {
		return nil, fmt.Errorf("facebook: %w", err)
	}

	engagement := &Engagement{}
	if result.Likes != nil {
		engagement.Likes = result.Likes.Summary.TotalCount
	}
	if result.Comments != nil {
		engagement.Comments = result.Comments.Summary.TotalCount
	}
	if result.Shares != nil {
		engagement.Shares = result.Shares.Count
	}

	return engagement, nil
}

func (f *Facebook) VerifyCredentials(ctx context.Context) Verification {
	url := fmt.Sprintf("%s/me?access_token=%s", f.apiBase, f.accessToken)

	var result struct {
		Name string `json:"name"`
		ID   string `json:"id"`
	}
	if err := doGraphGet(ctx, f.httpClient, url, &result); err != nil {
		return Verification{Valid: false, Error: err.Error()}
	}

	return Verification{Valid: true, Identity: result.Name}
}

// SetAPIBase points the adapter at a different Graph API endpoint. Test hook.
func (f *Facebook) SetAPIBase(base string) {
	f.apiBase = base
}

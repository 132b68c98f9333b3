package platform

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const InstagramMaxLength = 2200

// Instagram publishes via the Meta Graph API two-phase flow: create a media
// container binding an image URL and caption, then publish the container.
// Instagram has no text-only post type, so a default image URL is required
// at construction and substituted when the caller supplies none.
type Instagram struct {
	userID          string
	accessToken     string
	defaultImageURL string
	apiBase         string
	httpClient      *http.Client
	limiter         *rate.Limiter
}

var _ Platform = (*Instagram)(nil)

func NewInstagram(userID, accessToken, defaultImageURL string) (*Instagram, error) {
	if userID == "" {
		return nil, &ConfigError{Key: "INSTAGRAM_USER_ID"}
	}
	if accessToken == "" {
		return nil, &ConfigError{Key: "INSTAGRAM_ACCESS_TOKEN", Detail: "set it or FACEBOOK_ACCESS_TOKEN"}
	}
	if defaultImageURL == "" {
		return nil, &ConfigError{Key: "INSTAGRAM_DEFAULT_IMAGE_URL", Detail: "Instagram requires an image for every post"}
	}

	return &Instagram{
		userID:          userID,
		accessToken:     accessToken,
		defaultImageURL: defaultImageURL,
		apiBase:         DefaultGraphAPIBase,
		httpClient:      newHTTPClient(),
		limiter:         rate.NewLimiter(rate.Every(1*time.Second), 1),
	}, nil
}

func (i *Instagram) Name() string {
	return "instagram"
}

func (i *Instagram) MaxLength() int {
	return InstagramMaxLength
}

func (i *Instagram) Post(ctx context.Context, message string) (*PostResult, error) {
	return i.PostWithImage(ctx, message, "")
}

// PostWithImage publishes a caption with the given image URL, falling back
// to the configured default image when imageURL is empty. Phase 1 creates
// the media container; phase 2 publishes it. A phase 1 failure never
// attempts phase 2. The container ID is ephemeral, only chained into the
// publish call.
func (i *Instagram) PostWithImage(ctx context.Context, message, imageURL string) (*PostResult, error) {
	if imageURL == "" {
		imageURL = i.defaultImageURL
	}

	if err := i.limiter.Wait(ctx); err != nil {
		return nil, &PublishError{Platform: i.Name(), Message: err.Error()}
	}

	containerURL := fmt.Sprintf("%s/%s/media", i.apiBase, i.userID)
	containerPayload := map[string]string{
		"image_url":    imageURL,
		"caption":      message,
		"access_token": i.accessToken,
	}

	var container struct {
		ID string `json:"id"`
	}
	if err := doGraphPost(ctx, i.httpClient, containerURL, containerPayload, &container); err != nil {
		return nil, &PublishError{Platform: i.Name(), Message: fmt.Sprintf("container: %s", err)}
	}

	publishURL := fmt.Sprintf("%s/%s/media_publish", i.apiBase, i.userID)
	publishPayload := map[string]string{
		"creation_id":  container.ID,
		"access_token": i.accessToken,
	}

	var published struct {
		ID string `json:"id"`
	}
	if err := doGraphPost(ctx, i.httpClient, publishURL, publishPayload, &published); err != nil {
		return nil, &PublishError{Platform: i.Name(), Message: fmt.Sprintf("publish: %s", err)}
	}

	return &PostResult{PostID: published.ID, Message: message}, nil
}

func (i *Instagram) VerifyCredentials(ctx context.Context) Verification {
	url := fmt.Sprintf("%s/%s?fields=id,username&access_token=%s", i.apiBase, i.userID, i.accessToken)

	var result struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}
	if err := doGraphGet(ctx, i.httpClient, url, &result); err != nil {
		return Verification{Valid: false, Error: err.Error()}
	}

	identity := result.Username
	if identity == "" {
		identity = result.ID
	}

	return Verification{Valid: true, Identity: identity}
}

// SetAPIBase points the adapter at a different Graph API endpoint. Test hook.
func (i *Instagram) SetAPIBase(base string) {
	i.apiBase = base
}

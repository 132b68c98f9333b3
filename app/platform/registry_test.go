package platform

import (
	"strings"
	"testing"

	"github.com/shanebrain/postbot/app/cfg"
)

func TestLoadFacebookOnly(t *testing.T) {
	c := &cfg.Cfg{
		PostToFacebook:      true,
		FacebookPageID:      "page123",
		FacebookAccessToken: "token",
	}

	platforms, err := Load(c)
	if err != nil {
		t.Fatal(err)
	}

	if len(platforms) != 1 {
		t.Fatalf("Expected exactly 1 platform, got %d", len(platforms))
	}
	if platforms[0].Name() != "facebook" {
		t.Errorf("Expected platform 'facebook', got '%s'", platforms[0].Name())
	}
	if platforms[0].MaxLength() != 63206 {
		t.Errorf("Expected max length 63206, got %d", platforms[0].MaxLength())
	}
}

func TestLoadFixedOrder(t *testing.T) {
	c := &cfg.Cfg{
		PostToFacebook:           true,
		PostToInstagram:          true,
		PostToLinkedIn:           true,
		FacebookPageID:           "page123",
		FacebookAccessToken:      "token",
		InstagramUserID:          "user123",
		InstagramAccessToken:     "token",
		InstagramDefaultImageURL: "https://example.com/img.jpg",
		LinkedInAccessToken:      "token",
		LinkedInPersonURN:        "urn:li:person:abc",
	}

	platforms, err := Load(c)
	if err != nil {
		t.Fatal(err)
	}

	if len(platforms) != 3 {
		t.Fatalf("Expected 3 platforms, got %d", len(platforms))
	}

	// Declaration order, not configuration order
	expected := []string{"facebook", "instagram", "linkedin"}
	for i, name := range expected {
		if platforms[i].Name() != name {
			t.Errorf("Expected platform %d to be '%s', got '%s'", i, name, platforms[i].Name())
		}
	}
}

func TestLoadMisconfiguredEnabledPlatformFails(t *testing.T) {
	c := &cfg.Cfg{
		PostToFacebook:      true,
		FacebookPageID:      "page123",
		FacebookAccessToken: "token",
		PostToInstagram:     true,
		InstagramUserID:     "user123",
		// No Instagram access token or default image
	}

	_, err := Load(c)
	if err == nil {
		t.Fatal("Expected registry loading to fail for misconfigured enabled platform")
	}
	if !strings.Contains(err.Error(), "instagram") {
		t.Errorf("Expected error to identify the platform, got: %s", err)
	}
}

func TestLoadNothingEnabled(t *testing.T) {
	c := &cfg.Cfg{}

	// An empty registry is a condition, not an error; the caller decides
	platforms, err := Load(c)
	if err != nil {
		t.Fatal(err)
	}
	if len(platforms) != 0 {
		t.Errorf("Expected no platforms, got %d", len(platforms))
	}
}

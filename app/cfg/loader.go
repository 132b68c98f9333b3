package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Platform toggles. POST_TO_FACEBOOK defaults to enabled for backward
	// compatibility with single-platform setups.
	PostToFacebook  string `long:"post-to-facebook" env:"POST_TO_FACEBOOK" default:"true" description:"Enable posting to Facebook"`
	PostToInstagram string `long:"post-to-instagram" env:"POST_TO_INSTAGRAM" default:"false" description:"Enable posting to Instagram"`
	PostToLinkedIn  string `long:"post-to-linkedin" env:"POST_TO_LINKEDIN" default:"false" description:"Enable posting to LinkedIn"`

	// Facebook credentials
	FacebookPageID      string `long:"facebook-page-id" env:"FACEBOOK_PAGE_ID" description:"Facebook page ID"`
	FacebookAccessToken string `long:"facebook-access-token" env:"FACEBOOK_ACCESS_TOKEN" description:"Facebook page access token"`
	FacebookAppID       string `long:"facebook-app-id" env:"FACEBOOK_APP_ID" description:"Facebook app ID (token exchange only)"`
	FacebookAppSecret   string `long:"facebook-app-secret" env:"FACEBOOK_APP_SECRET" description:"Facebook app secret (token exchange only)"`

	// Instagram credentials
	InstagramUserID          string `long:"instagram-user-id" env:"INSTAGRAM_USER_ID" description:"Instagram business account ID"`
	InstagramAccessToken     string `long:"instagram-access-token" env:"INSTAGRAM_ACCESS_TOKEN" description:"Instagram access token (falls back to FACEBOOK_ACCESS_TOKEN)"`
	InstagramDefaultImageURL string `long:"instagram-default-image-url" env:"INSTAGRAM_DEFAULT_IMAGE_URL" description:"Public image URL used when a post supplies none"`

	// LinkedIn credentials
	LinkedInAccessToken string `long:"linkedin-access-token" env:"LINKEDIN_ACCESS_TOKEN" description:"LinkedIn access token"`
	LinkedInPersonURN   string `long:"linkedin-person-urn" env:"LINKEDIN_PERSON_URN" description:"LinkedIn author URN (urn:li:person:ID)"`

	// Content generation
	UseOllama    string `long:"use-ollama" env:"USE_OLLAMA" default:"false" description:"Generate with a local Ollama server instead of the Gemini API"`
	OllamaURL    string `long:"ollama-url" env:"OLLAMA_URL" default:"http://localhost:11434" description:"Ollama server URL"`
	OllamaModel  string `long:"ollama-model" env:"OLLAMA_MODEL" default:"llama3.2" description:"Ollama model name"`
	GeminiAPIKey string `long:"gemini-api-key" env:"GEMINI_API_KEY" description:"Gemini API key"`
	GeminiModel  string `long:"gemini-model" env:"GEMINI_MODEL" default:"gemini-2.5-flash" description:"Gemini model name"`
	Persona      string `long:"persona" env:"PAGE_PERSONALITY" default:"a friendly person sharing thoughts" description:"Persona the generated posts are written as"`
	StylesFile   string `long:"styles-file" env:"STYLES_FILE" description:"Optional YAML file overriding per-platform style rules"`

	// Knowledge retrieval
	WeaviateURL string `long:"weaviate-url" env:"WEAVIATE_URL" default:"http://localhost:8080" description:"Weaviate URL for retrieval-augmented generation"`

	// Scheduling
	Schedule string `long:"schedule" env:"POST_SCHEDULE" default:"0 9,14,19 * * *" description:"Cron expression for scheduled posting"`

	// Application configuration
	LogsDir string `long:"logs-dir" env:"LOGS_DIR" default:"./logs" description:"Directory for the post audit log"`
	Port    string `long:"port" env:"PORT" default:"8085" description:"Status HTTP server port (schedule mode)"`

	// Application metadata
	Timezone string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

// Load parses configuration from .env, environment variables and
// command-line flags. Returns (nil, nil) when help was requested.
// Remaining positional arguments (the command word) are returned as-is.
func Load() (*Cfg, []string, error) {
	// Best effort: a missing .env is fine, the environment may carry everything
	godotenv.Load()

	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	args, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil, nil
			}
		}
		return nil, nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		PostToFacebook:           raw.PostToFacebook != "false",
		PostToInstagram:          raw.PostToInstagram == "true",
		PostToLinkedIn:           raw.PostToLinkedIn == "true",
		FacebookPageID:           raw.FacebookPageID,
		FacebookAccessToken:      raw.FacebookAccessToken,
		FacebookAppID:            raw.FacebookAppID,
		FacebookAppSecret:        raw.FacebookAppSecret,
		InstagramUserID:          raw.InstagramUserID,
		InstagramAccessToken:     cmp.Or(raw.InstagramAccessToken, raw.FacebookAccessToken),
		InstagramDefaultImageURL: raw.InstagramDefaultImageURL,
		LinkedInAccessToken:      raw.LinkedInAccessToken,
		LinkedInPersonURN:        raw.LinkedInPersonURN,
		UseOllama:                raw.UseOllama == "true",
		OllamaURL:                raw.OllamaURL,
		OllamaModel:              raw.OllamaModel,
		GeminiAPIKey:             raw.GeminiAPIKey,
		GeminiModel:              raw.GeminiModel,
		Persona:                  raw.Persona,
		StylesFile:               raw.StylesFile,
		WeaviateURL:              raw.WeaviateURL,
		Schedule:                 raw.Schedule,
		LogsDir:                  raw.LogsDir,
		Port:                     raw.Port,
		Timezone:                 raw.Timezone,
		Debug:                    raw.Debug,
		Version:                  GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, args, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}

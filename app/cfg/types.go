package cfg

type Cfg struct {
	// Platform toggles
	PostToFacebook  bool
	PostToInstagram bool
	PostToLinkedIn  bool

	// Facebook credentials
	FacebookPageID      string
	FacebookAccessToken string
	FacebookAppID       string
	FacebookAppSecret   string

	// Instagram credentials
	InstagramUserID          string
	InstagramAccessToken     string
	InstagramDefaultImageURL string

	// LinkedIn credentials
	LinkedInAccessToken string
	LinkedInPersonURN   string

	// Content generation
	UseOllama    bool
	OllamaURL    string
	OllamaModel  string
	GeminiAPIKey string
	GeminiModel  string
	Persona      string
	StylesFile   string

	// Knowledge retrieval
	WeaviateURL string

	// Scheduling
	Schedule string

	// Application configuration
	LogsDir string
	Port    string

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}

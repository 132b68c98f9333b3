package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrEmptyGeneration reports a reachable backend that returned no usable
// text. Never silently passed through as a successful empty post.
var ErrEmptyGeneration = errors.New("generation backend returned empty text")

// BackendError reports a transport or HTTP failure talking to the
// generation backend, with the upstream detail embedded.
type BackendError struct {
	Backend string
	Detail  string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s backend unavailable: %s", e.Backend, e.Detail)
}

// Backend produces raw text for a prompt. Selected once at construction
// and fixed for the generator's lifetime.
type Backend interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

// Retriever supplies best-effort context for a query. Implementations never
// fail: any problem degrades to an empty string.
type Retriever interface {
	Query(ctx context.Context, text string, limit int) string
}

// Request carries the parameters for one post generation. Ephemeral,
// constructed fresh per attempt.
type Request struct {
	Topic     string
	Mood      string
	MaxLength int
	Platform  string
}

// Generator builds platform-aware prompts, optionally blended with
// retrieved context, and delegates text production to its backend.
type Generator struct {
	backend   Backend
	retriever Retriever // nil disables retrieval augmentation
	persona   string
	styles    *StyleSet
}

func NewGenerator(backend Backend, retriever Retriever, persona string, styles *StyleSet) *Generator {
	if styles == nil {
		styles = NewStyleSet()
	}
	return &Generator{
		backend:   backend,
		retriever: retriever,
		persona:   persona,
		styles:    styles,
	}
}

// GeneratePost generates post text for one platform. The MaxLength in the
// request only informs the prompt; the returned text is not truncated or
// rejected when longer.
func (g *Generator) GeneratePost(ctx context.Context, req Request) (string, error) {
	prompt := g.buildPrompt(ctx, req)

	text, err := g.backend.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyGeneration
	}

	return text, nil
}

// GenerateIdeas generates count distinct post ideas as a numbered text
// block, the backend's raw output.
func (g *Generator) GenerateIdeas(ctx context.Context, count int) (string, error) {
	prompt := fmt.Sprintf(`You are %s. Generate %d distinct social media post ideas.

Each idea should be:
- A brief 1-line description of what the post would be about
- Varied in topic and tone
- Authentic to the personality

Format: One idea per line, numbered 1-%d. Just the ideas, no extra text.`, g.persona, count, count)

	text, err := g.backend.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyGeneration
	}

	return text, nil
}

func (g *Generator) buildPrompt(ctx context.Context, req Request) string {
	var b strings.Builder

	platform := req.Platform
	if platform == "" {
		platform = "social media"
	}

	fmt.Fprintf(&b, "You are %s. Write a single %s post.\n\nRules:\n", g.persona, platform)
	fmt.Fprintf(&b, "- Keep it under %d characters\n", req.MaxLength)
	b.WriteString("- Be authentic and conversational\n")
	for _, rule := range g.styles.Rules(req.Platform) {
		fmt.Fprintf(&b, "- %s\n", rule)
	}
	b.WriteString("- Don't start with \"Hey everyone\" or similar generic openers\n")
	b.WriteString("- Make it feel like a real person wrote it\n")

	if req.Topic != "" {
		fmt.Fprintf(&b, "- Topic: %s\n", req.Topic)
	}
	if req.Mood != "" {
		fmt.Fprintf(&b, "- Mood/tone: %s\n", req.Mood)
	}

	if g.retriever != nil {
		query := req.Topic
		if query == "" {
			query = g.persona
		}
		if retrieved := g.retriever.Query(ctx, query, 3); retrieved != "" {
			slog.Debug("Retrieved context for prompt", "platform", req.Platform, "chars", len(retrieved))
			fmt.Fprintf(&b, "\nBackground to draw from (don't quote it verbatim):\n%s\n", retrieved)
		}
	}

	b.WriteString("\nWrite only the post text, nothing else.")

	return b.String()
}

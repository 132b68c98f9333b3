package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shanebrain/postbot/app/audit"
	"github.com/shanebrain/postbot/app/content"
	"github.com/shanebrain/postbot/app/platform"
)

// ContentSource is the slice of the content generator the posting loop
// needs: text for a platform, or an error.
type ContentSource interface {
	GeneratePost(ctx context.Context, req content.Request) (string, error)
}

// Mode selects whether a pass publishes or only previews.
type Mode int

const (
	// ModePreview generates and records, never publishes.
	ModePreview Mode = iota
	// ModePublish generates, publishes and records.
	ModePublish
)

// Runner executes a single pass over the active platforms: generate, then
// (in publish mode) post, recording each attempt. One platform's failure
// never prevents attempts on the rest; every failure is counted and
// audited, then the pass moves on.
type Runner struct {
	platforms []platform.Platform
	generator ContentSource
	auditLog  *audit.Logger
	stats     *Stats
}

func NewRunner(platforms []platform.Platform, generator ContentSource, auditLog *audit.Logger, stats *Stats) *Runner {
	return &Runner{
		platforms: platforms,
		generator: generator,
		auditLog:  auditLog,
		stats:     stats,
	}
}

// Run processes every platform once, in registry order, sequentially.
func (r *Runner) Run(ctx context.Context, mode Mode) {
	for _, p := range r.platforms {
		r.runPlatform(ctx, p, mode)
	}
}

func (r *Runner) runPlatform(ctx context.Context, p platform.Platform, mode Mode) {
	slog.Info("Generating content", "platform", p.Name())

	text, err := r.generator.GeneratePost(ctx, content.Request{
		Platform:  p.Name(),
		MaxLength: p.MaxLength(),
	})
	if err != nil {
		r.stats.AddError()
		slog.Error("Generation failed", "platform", p.Name(), "error", err)
		r.auditLog.Record(p.Name(), audit.StatusFailed, "Failed to generate post", err.Error())
		return
	}

	slog.Info("Generated post", "platform", p.Name(), "preview", preview(text), "chars", len(text))

	if mode == ModePreview {
		fmt.Printf("\n[%s] Generated post:\n%s\n%s\n%s\nCharacters: %d\n\n",
			p.Name(), ruler(), text, ruler(), len(text))
		slog.Warn("Dry run, post was NOT published", "platform", p.Name())
		r.auditLog.Record(p.Name(), audit.StatusDryRun, text, "")
		return
	}

	result, err := p.Post(ctx, text)
	if err != nil {
		r.stats.AddError()
		slog.Error("Publish failed", "platform", p.Name(), "error", err)
		r.auditLog.Record(p.Name(), audit.StatusFailed, text, err.Error())
		return
	}

	r.stats.AddPost()
	slog.Info("Post published", "platform", p.Name(), "post_id", result.PostID)
	r.auditLog.Record(p.Name(), audit.StatusPosted, text, "")
}

func preview(text string) string {
	const max = 50
	text = strings.ReplaceAll(text, "\n", " ")
	if runes := []rune(text); len(runes) > max {
		return string(runes[:max]) + "..."
	}
	return text
}

func ruler() string {
	return strings.Repeat("─", 50)
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shanebrain/postbot/app/api"
	"github.com/shanebrain/postbot/app/audit"
	"github.com/shanebrain/postbot/app/cfg"
	"github.com/shanebrain/postbot/app/content"
	"github.com/shanebrain/postbot/app/knowledge"
	"github.com/shanebrain/postbot/app/platform"
	"github.com/shanebrain/postbot/app/scheduler"
	"github.com/shanebrain/postbot/app/tokens"
)

func main() {
	c, args, err := cfg.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if c == nil {
		// Help was shown, exit gracefully
		return
	}

	level := slog.LevelInfo
	if c.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	command := ""
	if len(args) > 0 {
		command = args[0]
	}

	switch command {
	case "dry-run":
		runOnce(c, scheduler.ModePreview)
	case "post":
		runOnce(c, scheduler.ModePublish)
	case "schedule":
		runSchedule(c)
	case "verify":
		runVerify(c)
	case "platforms":
		runPlatforms(c)
	case "ideas":
		runIdeas(c)
	case "token-setup":
		runTokenSetup(c, args[1:])
	default:
		printUsage()
	}
}

func printUsage() {
	fmt.Println("Usage: postbot <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  dry-run      Preview posts without publishing")
	fmt.Println("  post         Generate and publish to all platforms")
	fmt.Println("  schedule     Run continuously on schedule")
	fmt.Println("  verify       Check all platform tokens")
	fmt.Println("  platforms    Show enabled platforms")
	fmt.Println("  ideas        Generate post ideas")
	fmt.Println("  token-setup  Exchange a short-lived Facebook token for a permanent page token")
}

func loadPlatforms(c *cfg.Cfg) []platform.Platform {
	platforms, err := platform.Load(c)
	if err != nil {
		slog.Error("Failed to load platforms", "error", err)
		os.Exit(1)
	}
	if len(platforms) == 0 {
		slog.Error("No platforms enabled! Check POST_TO_* settings in .env")
		os.Exit(1)
	}
	return platforms
}

func buildGenerator(c *cfg.Cfg) *content.Generator {
	styles := content.NewStyleSet()
	if c.StylesFile != "" {
		loaded, err := content.LoadStyleSet(c.StylesFile)
		if err != nil {
			slog.Error("Failed to load styles file", "path", c.StylesFile, "error", err)
			os.Exit(1)
		}
		styles = loaded
	}

	var backend content.Backend
	if c.UseOllama {
		backend = content.NewOllamaBackend(c.OllamaURL, c.OllamaModel)
	} else {
		gemini, err := content.NewGeminiBackend(c.GeminiAPIKey, c.GeminiModel)
		if err != nil {
			slog.Error("Failed to initialize generation backend", "error", err)
			os.Exit(1)
		}
		backend = gemini
	}
	slog.Debug("Generation backend selected", "backend", backend.Name())

	retriever := knowledge.NewRetriever(c.WeaviateURL)

	return content.NewGenerator(backend, retriever, c.Persona, styles)
}

func runOnce(c *cfg.Cfg, mode scheduler.Mode) {
	platforms := loadPlatforms(c)
	generator := buildGenerator(c)
	auditLog := audit.NewLogger(c.LogsDir)

	runner := scheduler.NewRunner(platforms, generator, auditLog, &scheduler.Stats{})
	runner.Run(context.Background(), mode)
}

func runSchedule(c *cfg.Cfg) {
	platforms := loadPlatforms(c)
	generator := buildGenerator(c)
	auditLog := audit.NewLogger(c.LogsDir)

	sched, err := scheduler.New(platforms, generator, auditLog, c.Schedule)
	if err != nil {
		slog.Error("Failed to build scheduler", "error", err)
		os.Exit(1)
	}

	if err := sched.Start(); err != nil {
		slog.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	handler := api.NewHandler(platforms, sched)
	server := &http.Server{
		Addr:         ":" + c.Port,
		Handler:      api.NewServer(handler),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Status server listening", "port", c.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	slog.Info("Bot running continuously. Press Ctrl+C to stop.")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Status server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Status server shutdown error", "error", err)
	}

	// Scheduler is stopped via defer, logging final stats
}

func runVerify(c *cfg.Cfg) {
	platforms := loadPlatforms(c)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, p := range platforms {
		slog.Info("Verifying token", "platform", p.Name())
		result := p.VerifyCredentials(ctx)
		if result.Valid {
			slog.Info("Token valid", "platform", p.Name(), "connected_as", result.Identity)
		} else {
			slog.Error("Token invalid", "platform", p.Name(), "error", result.Error)
		}
	}
}

func runPlatforms(c *cfg.Cfg) {
	platforms := loadPlatforms(c)

	fmt.Println("Enabled platforms:")
	for _, p := range platforms {
		fmt.Printf("  - %s (max %d chars)\n", p.Name(), p.MaxLength())
	}
	fmt.Printf("\nTotal: %d platform(s)\n", len(platforms))
}

func runIdeas(c *cfg.Cfg) {
	generator := buildGenerator(c)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	slog.Info("Generating post ideas...")
	ideas, err := generator.GenerateIdeas(ctx, 5)
	if err != nil {
		slog.Error("Idea generation failed", "error", err)
		os.Exit(1)
	}

	fmt.Println("\nPost Ideas:")
	fmt.Println(ideas)
	fmt.Println()
}

func runTokenSetup(c *cfg.Cfg, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: postbot token-setup YOUR_SHORT_LIVED_TOKEN")
		fmt.Println()
		fmt.Println("Steps:")
		fmt.Println("  1. Go to https://developers.facebook.com/tools/explorer/")
		fmt.Println("  2. Select your app from the dropdown")
		fmt.Println("  3. Add permissions: pages_manage_posts, pages_read_engagement")
		fmt.Println("  4. Click \"Generate Access Token\" and authorize")
		fmt.Println("  5. Copy the token and re-run this command with it")
		return
	}

	exchanger, err := tokens.NewExchanger(c.FacebookAppID, c.FacebookAppSecret, c.FacebookPageID)
	if err != nil {
		slog.Error("Token setup failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	page, err := exchanger.Exchange(ctx, args[0])
	if err != nil {
		slog.Error("Token exchange failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Page token obtained", "page", page.PageName, "expires", page.Expires)
	fmt.Println()
	fmt.Println("Set this in your .env:")
	fmt.Printf("  FACEBOOK_ACCESS_TOKEN=%s\n", page.Token)
	fmt.Println()
	fmt.Println("Then test it: postbot verify")
}

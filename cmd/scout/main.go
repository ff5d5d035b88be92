// Package main runs the scout client-research agent: a web UI driving an
// LLM-guided browser session that researches a client in a marketing portal
// and streams a live report back to the operator.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	appconfig "github.com/entrhq/scout/pkg/config"
	"github.com/entrhq/scout/pkg/engine/browser"
	"github.com/entrhq/scout/pkg/llm/openai"
	"github.com/entrhq/scout/pkg/orchestrator"
	"github.com/entrhq/scout/pkg/registry"
	"github.com/entrhq/scout/pkg/webui"
)

const version = "0.1.0"

// Config holds the command line configuration.
type Config struct {
	APIKey       string
	SettingsPath string
	ConfigPath   string
	Listen       string
	ShowVersion  bool
}

func main() {
	config := parseFlags()

	if config.ShowVersion {
		fmt.Printf("Scout v%s\n", version)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nShutting down gracefully...")
		cancel()
	}()

	if err := run(ctx, config); err != nil {
		cancel()
		log.Fatalf("Application error: %v", err)
	}
}

// parseFlags parses command line flags and environment variables.
func parseFlags() *Config {
	config := &Config{}

	flag.StringVar(&config.APIKey, "api-key", os.Getenv("OPENAI_API_KEY"), "OpenAI API key (or set OPENAI_API_KEY env var)")
	flag.StringVar(&config.SettingsPath, "settings", "", "Path to run settings file (YAML, optional)")
	flag.StringVar(&config.ConfigPath, "config", "", "Path to saved slot values (JSON, default ~/.scout/config.json)")
	flag.StringVar(&config.Listen, "listen", "", "Listen address, overrides the settings file")
	flag.BoolVar(&config.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Scout - live client-research agent\n\n")
		fmt.Fprintf(os.Stderr, "Usage: scout [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  OPENAI_API_KEY           OpenAI API key\n")
		fmt.Fprintf(os.Stderr, "  OPENAI_BASE_URL          OpenAI API base URL (for compatible APIs)\n")
		fmt.Fprintf(os.Stderr, "  SCOUT_PORTAL_URL         Research portal URL\n")
		fmt.Fprintf(os.Stderr, "  SCOUT_PORTAL_USERNAME    Portal login username\n")
		fmt.Fprintf(os.Stderr, "  SCOUT_PORTAL_PASSWORD    Portal login password\n")
	}

	flag.Parse()
	return config
}

func run(ctx context.Context, config *Config) error {
	settings, err := appconfig.LoadRunSettings(config.SettingsPath)
	if err != nil {
		return err
	}
	if config.Listen != "" {
		settings.Listen = config.Listen
	}

	provider, err := openai.NewProvider(config.APIKey,
		openai.WithModel(settings.LLM.Model),
		openai.WithBaseURL(settings.LLM.BaseURL),
	)
	if err != nil {
		return err
	}

	eng := browser.New(provider, browser.Options{
		Headless:       settings.Browser.Headless,
		ViewportWidth:  settings.Browser.ViewportWidth,
		ViewportHeight: settings.Browser.ViewportHeight,
		MaxSteps:       settings.Browser.MaxSteps,
		ActionTimeout:  settings.Browser.ActionTimeout,
		PageTextLimit:  settings.Browser.PageTextLimit,
		RecordingDir:   settings.Browser.RecordingDir,
	})
	if err := eng.Initialize(); err != nil {
		return err
	}
	defer eng.Shutdown()

	reg := registry.New()
	if err := webui.RegisterComponents(reg); err != nil {
		return err
	}

	store, err := appconfig.NewFileStore(config.ConfigPath)
	if err != nil {
		return err
	}

	hub := webui.NewHub()
	orch := orchestrator.New(eng, reg, store, hub.Broadcast, orchestrator.Options{
		PollInterval:   settings.Orchestrator.PollInterval.Std(),
		CancelWait:     settings.Orchestrator.CancelWait.Std(),
		ClearWait:      settings.Orchestrator.ClearWait.Std(),
		PortalURL:      os.Getenv("SCOUT_PORTAL_URL"),
		PortalUsername: os.Getenv("SCOUT_PORTAL_USERNAME"),
		PortalPassword: os.Getenv("SCOUT_PORTAL_PASSWORD"),
	})

	server := webui.New(orch, reg, hub, settings.Listen)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case <-ctx.Done():
		orch.Clear()
		return server.Stop()
	case err := <-errCh:
		return err
	}
}

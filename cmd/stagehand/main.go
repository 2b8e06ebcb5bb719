// Package main provides the stagehand CLI, which materializes LLM-generated
// project bundles: it scans a workspace, synthesizes run scripts, patches the
// HTML entry point for module scripts, and serves a live local preview.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"

	appconfig "github.com/entrhq/stagehand/pkg/config"
	"github.com/entrhq/stagehand/pkg/llm"
	"github.com/entrhq/stagehand/pkg/pipeline"
	"github.com/entrhq/stagehand/pkg/preview"
	"github.com/entrhq/stagehand/pkg/types"
)

const (
	version      = "0.1.0"   // Version of the stagehand CLI
	defaultModel = "gpt-4.1" // Default model for run-script synthesis
)

var (
	milestoneStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("36"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	urlStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("36")).Bold(true).Underline(true)
)

// Config holds the application configuration
type Config struct {
	APIKey       string
	BaseURL      string
	Model        string
	WorkspaceDir string
	Description  string
	ProfilePath  string
	Session      string
	Port         int
	OpenBrowser  bool
	ShowVersion  bool
}

func main() {
	config := parseFlags()

	if config.ShowVersion {
		fmt.Printf("stagehand v%s\n", version)
		return
	}

	if err := config.validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n\nShutting down gracefully...")
		preview.StopAll()
		cancel()
	}()

	if runErr := run(ctx, config); runErr != nil {
		cancel()
		log.Fatalf("Application error: %v", runErr)
	}
}

// parseFlags parses command line flags and environment variables
func parseFlags() *Config {
	config := &Config{}

	flag.StringVar(&config.APIKey, "api-key", "", "OpenAI API key (or set OPENAI_API_KEY env var)")
	flag.StringVar(&config.BaseURL, "base-url", "", "OpenAI API base URL (or set OPENAI_BASE_URL env var)")
	flag.StringVar(&config.Model, "model", defaultModel, "LLM model to use for run-script synthesis")
	flag.StringVar(&config.WorkspaceDir, "workspace", ".", "Project directory to materialize (default: current directory)")
	flag.StringVar(&config.Description, "description", "", "Natural-language description of the project (enables synthesis)")
	flag.StringVar(&config.ProfilePath, "profile", "", "Path to a run profile file (YAML)")
	flag.StringVar(&config.Session, "session", "", "Preview session name (default: shared session)")
	flag.IntVar(&config.Port, "port", 0, "Preview server port (default: from config, falls back to 9000)")
	flag.BoolVar(&config.OpenBrowser, "open", true, "Open the preview in a browser once it is live")
	flag.BoolVar(&config.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Stagehand - materialize and preview generated projects\n\n")
		fmt.Fprintf(os.Stderr, "Usage: stagehand [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  OPENAI_API_KEY     OpenAI API key\n")
		fmt.Fprintf(os.Stderr, "  OPENAI_BASE_URL    OpenAI API base URL (for compatible APIs)\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  stagehand -workspace ./myapp                       # Preview only\n")
		fmt.Fprintf(os.Stderr, "  stagehand -workspace ./myapp -description \"a snake game\"\n")
		fmt.Fprintf(os.Stderr, "  stagehand -profile run.yaml\n")
		fmt.Fprintf(os.Stderr, "  stagehand -workspace ./myapp -port 9000 -open=false\n")
	}

	flag.Parse()
	return config
}

// validate checks that the configuration is valid
func (c *Config) validate() error {
	if c.ProfilePath != "" {
		return nil
	}

	info, err := os.Stat(c.WorkspaceDir)
	if err != nil {
		return fmt.Errorf("workspace directory error: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("workspace path '%s' is not a directory", c.WorkspaceDir)
	}

	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d is out of range", c.Port)
	}

	return nil
}

// run executes the main application logic
func run(ctx context.Context, config *Config) error {
	if err := appconfig.Initialize(""); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	profile, err := resolveProfile(config)
	if err != nil {
		return err
	}

	var provider llm.Provider
	if profile.Synthesize {
		provider, err = appconfig.BuildProvider(config.Model, config.BaseURL, config.APIKey, defaultModel)
		if err != nil {
			return err
		}
	}

	materializer := pipeline.New(provider, nil)
	defer materializer.Shutdown()

	result, err := materializer.Run(ctx, pipeline.Request{
		WorkspaceDir: profile.WorkspaceDir,
		Description:  profile.Description,
		Session:      profile.Session,
		Port:         profile.Port,
		Synthesize:   profile.Synthesize,
	})
	for _, event := range result.Events {
		printEvent(event)
	}
	if err != nil {
		return err
	}

	if result.PreviewURL == "" {
		return nil
	}

	fmt.Printf("\nPreview: %s\n", urlStyle.Render(result.PreviewURL))

	if profile.OpenBrowser {
		if openErr := pipeline.OpenBrowser(result.PreviewURL); openErr != nil {
			fmt.Println(errorStyle.Render(fmt.Sprintf("could not open browser: %v", openErr)))
		}
	}

	fmt.Println("Press Ctrl+C to stop the preview server.")
	<-ctx.Done()
	return nil
}

// resolveProfile builds the effective run profile from the profile file,
// flags, and persisted configuration, in that order of precedence.
func resolveProfile(config *Config) (*pipeline.Profile, error) {
	var profile *pipeline.Profile

	if config.ProfilePath != "" {
		loaded, err := pipeline.LoadProfile(config.ProfilePath)
		if err != nil {
			return nil, err
		}
		profile = loaded

		// CLI workspace overrides the profile when explicitly set
		if config.WorkspaceDir != "." {
			profile.WorkspaceDir = config.WorkspaceDir
		}
	} else {
		profile = pipeline.DefaultProfile()
		profile.WorkspaceDir = config.WorkspaceDir
		profile.Description = config.Description
		profile.Synthesize = config.Description != ""
		profile.Port = config.Port
		profile.Session = config.Session
		profile.OpenBrowser = config.OpenBrowser
	}

	if profile.Port == 0 {
		if previewConfig := appconfig.GetPreview(); previewConfig != nil {
			profile.Port = previewConfig.GetPort()
		} else {
			profile.Port = appconfig.DefaultPreviewPort
		}
	}

	if err := profile.Validate(); err != nil {
		return nil, err
	}

	return profile, nil
}

// printEvent renders a pipeline milestone to the terminal.
func printEvent(event *types.PipelineEvent) {
	if event.IsError() {
		msg := event.Message
		if event.Error != nil {
			msg = fmt.Sprintf("%s (%v)", msg, event.Error)
		}
		fmt.Println(errorStyle.Render("✗ " + msg))
		return
	}
	fmt.Println(milestoneStyle.Render("• " + event.Message))
}

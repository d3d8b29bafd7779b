// Package main provides the webscout command: it opens web pages in a real
// browser and answers questions about them with an LLM.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	appconfig "github.com/entrhq/webscout/pkg/config"
	"github.com/entrhq/webscout/pkg/llm/openai"
	"github.com/entrhq/webscout/pkg/llm/tokenizer"
	"github.com/entrhq/webscout/pkg/logging"
	"github.com/entrhq/webscout/pkg/memory"
	"github.com/entrhq/webscout/pkg/processing/text"
	"github.com/entrhq/webscout/pkg/tools/browser"
)

const (
	version      = "0.1.0"
	defaultModel = openai.DefaultModel
)

// Config holds the command line configuration.
type Config struct {
	URL         string
	Question    string
	Browser     string
	Backend     string
	Headless    bool
	ConfigPath  string
	JobsFile    string
	Only        string
	Output      string
	ToolCall    bool
	Model       string
	BaseURL     string
	APIKey      string
	ShowVersion bool

	// set records which flags were given explicitly.
	set map[string]bool
}

func main() {
	config := parseFlags(os.Args[1:])

	if config.ShowVersion {
		fmt.Printf("webscout v%s\n", version)
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
		fmt.Fprintln(os.Stderr, "\nShutting down...")
		cancel()
	}()

	if err := run(ctx, config, os.Stdin, os.Stdout); err != nil {
		cancel()
		log.Printf("webscout: %v", err)
		os.Exit(1)
	}
	cancel()
}

// parseFlags parses args into a Config.
func parseFlags(args []string) *Config {
	config := &Config{set: make(map[string]bool)}
	fs := flag.NewFlagSet("webscout", flag.ExitOnError)

	fs.StringVar(&config.URL, "url", "", "Page to browse")
	fs.StringVar(&config.Question, "question", "", "Question to answer from the page")
	fs.StringVar(&config.Browser, "browser", "", "Browser: chrome, firefox or safari (or set USE_WEB_BROWSER)")
	fs.StringVar(&config.Backend, "backend", "", "Automation backend: playwright or chromedp")
	fs.BoolVar(&config.Headless, "headless", true, "Run the browser without a window (or set HEADLESS_BROWSER)")
	fs.StringVar(&config.ConfigPath, "config", "", "Path to config file (default ~/.webscout/config.json)")
	fs.StringVar(&config.JobsFile, "jobs", "", "Path to a YAML file of pages and questions to process")
	fs.StringVar(&config.Only, "only", "", "Glob selecting job names to run from -jobs (e.g. 'docs-*')")
	fs.StringVar(&config.Output, "output", "", "Directory for job reports (report.json, report.md)")
	fs.BoolVar(&config.ToolCall, "tool-call", false, "Read <tool> XML blocks from stdin and run each; sessions last until stdin closes")
	fs.StringVar(&config.Model, "model", defaultModel, "LLM model to use")
	fs.StringVar(&config.BaseURL, "base-url", "", "OpenAI API base URL (or set OPENAI_BASE_URL)")
	fs.StringVar(&config.APIKey, "api-key", "", "OpenAI API key (or set OPENAI_API_KEY)")
	fs.BoolVar(&config.ShowVersion, "version", false, "Show version and exit")

	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintf(out, "webscout - answer questions from web pages\n\n")
		fmt.Fprintf(out, "Usage: webscout [options]\n\n")
		fmt.Fprintf(out, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(out, "\nEnvironment Variables:\n")
		fmt.Fprintf(out, "  OPENAI_API_KEY      OpenAI API key\n")
		fmt.Fprintf(out, "  OPENAI_BASE_URL     OpenAI API base URL (for compatible APIs)\n")
		fmt.Fprintf(out, "  USE_WEB_BROWSER     chrome, firefox or safari\n")
		fmt.Fprintf(out, "  HEADLESS_BROWSER    true or false\n")
		fmt.Fprintf(out, "  %s  debug, info, warn or error\n", logging.LevelEnvVar)
		fmt.Fprintf(out, "\nExamples:\n")
		fmt.Fprintf(out, "  webscout -url https://go.dev -question \"What is Go?\"\n")
		fmt.Fprintf(out, "  webscout -jobs pages.yaml -output reports/\n")
		fmt.Fprintf(out, "  echo '<tool>...</tool>' | webscout -tool-call\n")
	}

	_ = fs.Parse(args)
	fs.Visit(func(f *flag.Flag) { config.set[f.Name] = true })
	return config
}

// validate checks that exactly one mode is selected.
func (c *Config) validate() error {
	modes := 0
	if c.URL != "" {
		modes++
	}
	if c.JobsFile != "" {
		modes++
	}
	if c.ToolCall {
		modes++
	}
	switch {
	case modes == 0:
		return fmt.Errorf("nothing to do: use -url, -jobs or -tool-call")
	case modes > 1:
		return fmt.Errorf("-url, -jobs and -tool-call are mutually exclusive")
	}
	if c.Only != "" && c.JobsFile == "" {
		return fmt.Errorf("-only requires -jobs")
	}
	return nil
}

// browserOverrides returns the browser settings given as flags.
func (c *Config) browserOverrides() map[string]interface{} {
	overrides := make(map[string]interface{})
	if c.set["browser"] {
		overrides["web_browser"] = c.Browser
	}
	if c.set["backend"] {
		overrides["backend"] = c.Backend
	}
	if c.set["headless"] {
		overrides["headless"] = c.Headless
	}
	return overrides
}

// app is everything a run needs, built once from configuration.
type app struct {
	service  *browser.Service
	sessions *browser.SessionManager
	memory   *memory.Store
	logger   *logging.Logger
	shutdown func()
}

func run(ctx context.Context, config *Config, stdin io.Reader, stdout io.Writer) error {
	a, err := setup(config)
	if err != nil {
		return err
	}
	defer a.shutdown()

	switch {
	case config.JobsFile != "":
		return runJobs(ctx, a, config, stdout)
	case config.ToolCall:
		return runToolCall(ctx, a, stdin, stdout)
	default:
		answer, _, err := a.service.BrowseWebsite(ctx, config.URL, config.Question)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, answer)
		return nil
	}
}

// setup loads configuration and wires the browser service. Settings come
// from flags, then environment, then the config file, then defaults.
func setup(config *Config) (*app, error) {
	if err := appconfig.Initialize(config.ConfigPath); err != nil {
		return nil, fmt.Errorf("failed to initialize configuration: %w", err)
	}

	settings, opts, backend, err := resolveBrowser(appconfig.GetBrowser(), config.browserOverrides(), os.Getenv)
	if err != nil {
		return nil, err
	}

	// Falls back to stderr when the log directory is unavailable.
	logger := logging.MustNewLogger("webscout")

	provider, err := appconfig.BuildProvider(config.Model, config.BaseURL, config.APIKey, defaultModel,
		openai.WithMaxTokens(settings.SummaryMaxTokens))
	if err != nil {
		logger.Close()
		return nil, err
	}

	measure := text.RuneMeasure
	if settings.Tokenizer != "" {
		tok, terr := tokenizer.NewWithEncoding(settings.Tokenizer)
		if terr != nil {
			logger.Warnf("tokenizer %q unavailable, counting characters: %v", settings.Tokenizer, terr)
		} else {
			measure = text.TokenMeasure(tok)
		}
	}

	store := memory.NewStore()
	summarizer := text.NewSummarizer(provider,
		text.WithMemory(store),
		text.WithLogger(logger.With("text")),
		text.WithMeasure(measure),
		text.WithChunkLength(settings.ChunkLength),
		text.WithModel(appconfig.GetLLM().GetSummarizationModel()),
	)

	launcher, err := browser.NewLauncher(backend, logger.With("browser"))
	if err != nil {
		logger.Close()
		return nil, err
	}

	service := browser.NewService(launcher, summarizer, opts, logger.With("browser"))
	sessions := browser.NewSessionManager(service, logger.With("sessions"))

	logger.Infof("webscout %s: %s via %s (headless=%t), model %s",
		version, opts.Family, backend, opts.Headless, provider.GetModel())

	return &app{
		service:  service,
		sessions: sessions,
		memory:   store,
		logger:   logger,
		shutdown: func() {
			if err := sessions.CloseAll(); err != nil {
				logger.Warnf("closing sessions: %v", err)
			}
			if pw, ok := launcher.(*browser.PlaywrightLauncher); ok {
				if err := pw.Shutdown(); err != nil {
					logger.Warnf("stopping playwright: %v", err)
				}
			}
			logger.Close()
		},
	}, nil
}

// resolveBrowser layers environment and flag overrides onto section and
// returns the resulting settings with their launch options. Family and
// backend names are checked first so lookup failures keep their browser
// package error.
func resolveBrowser(section *appconfig.BrowserSection, overrides map[string]interface{}, getenv func(string) string) (appconfig.BrowserSettings, browser.Options, browser.Backend, error) {
	section.ApplyEnv(getenv)
	if err := section.SetData(overrides); err != nil {
		return appconfig.BrowserSettings{}, browser.Options{}, "", err
	}

	settings := section.Snapshot()
	opts, backend, err := browserOptions(settings)
	if err != nil {
		return appconfig.BrowserSettings{}, browser.Options{}, "", err
	}
	if err := section.Validate(); err != nil {
		return appconfig.BrowserSettings{}, browser.Options{}, "", fmt.Errorf("invalid browser settings: %w", err)
	}
	return settings, opts, backend, nil
}

// browserOptions converts configured settings to launch options.
func browserOptions(settings appconfig.BrowserSettings) (browser.Options, browser.Backend, error) {
	family, err := browser.ParseFamily(settings.WebBrowser)
	if err != nil {
		return browser.Options{}, "", err
	}
	backend, err := browser.ParseBackend(settings.Backend)
	if err != nil {
		return browser.Options{}, "", err
	}
	if backend == browser.BackendChromedp && family != browser.FamilyChrome {
		return browser.Options{}, "", fmt.Errorf("%w: chromedp backend only drives chrome, not %q", browser.ErrUnsupportedBrowser, family)
	}

	opts := browser.DefaultOptions()
	opts.Family = family
	opts.Headless = settings.Headless
	opts.WaitTimeout = settings.WaitTimeout
	if settings.UserAgent != "" {
		opts.UserAgent = settings.UserAgent
	}
	return opts, backend, nil
}

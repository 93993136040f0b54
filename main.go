// h5pkit — translate H5P learning-content packages with AI providers.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/h5p-tools/h5pkit/config"
	"github.com/h5p-tools/h5pkit/engine"
	"github.com/h5p-tools/h5pkit/h5pfile"
	"github.com/h5p-tools/h5pkit/i18n"
	"github.com/h5p-tools/h5pkit/langmeta"
	"github.com/h5p-tools/h5pkit/pipeline"
	"github.com/h5p-tools/h5pkit/settings"
	"github.com/h5p-tools/h5pkit/tmcache"
	"github.com/h5p-tools/h5pkit/walker"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorBlue+"[INFO]"+colorReset+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[OK]"+colorReset+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"[WARN]"+colorReset+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+format+"\n", args...)
}

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "h5pkit",
		Short: "Translate H5P content packages with AI providers",
		Long: `h5pkit — translate H5P learning-content packages with AI providers.

An .h5p package is unpacked, its content document is walked and every
human-readable field is translated (HTML markup preserved), and the
result is repacked as a new package.

Commands:
  translate   Translate packages into one or more languages
  inspect     Show package metadata and translatable fields
  languages   List supported target languages
  auth        Manage provider API keys

AI Providers:
  openai         OpenAI — API key required
  google         Google AI (Gemini) — API key required
  ollama         Ollama local server, no auth needed
  custom-openai  Custom OpenAI-compatible endpoint`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newTranslateCmd(),
		newInspectCmd(),
		newLanguagesCmd(),
		newAuthCmd(),
		newVersionCmd(),
	)
	return root
}

func main() {
	i18n.Init("")
	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("h5pkit version %s\n", version)
			fmt.Printf("  commit: %s\n", commit)
			fmt.Printf("  built:  %s\n", date)
		},
	}
}

// ---------------------------------------------------------------------------
// translate
// ---------------------------------------------------------------------------

type translateFlags struct {
	langs       []string
	sourceLang  string
	provider    string
	model       string
	apiKey      string
	baseURL     string
	prompt      string
	budget      int
	jobs        int
	output      string
	keepWorkdir bool
	noCache     bool
	verbose     bool
}

func newTranslateCmd() *cobra.Command {
	var flags translateFlags

	cmd := &cobra.Command{
		Use:   "translate FILE...",
		Short: "Translate packages into one or more languages",
		Long: `Translate one or more .h5p packages.

Each package is translated into every requested language. With a single
input and a single language, --output names the result; otherwise
outputs are derived from the input name (course.h5p → course_de.h5p).

Defaults come from .h5pkit.yaml when present in the current directory
or a parent.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd.Context(), args, flags)
		},
	}

	cmd.Flags().StringSliceVarP(&flags.langs, "lang", "l", nil, "Target language(s), e.g. de,fr")
	cmd.Flags().StringVar(&flags.sourceLang, "source-lang", "", "Source language (default en)")
	cmd.Flags().StringVarP(&flags.provider, "provider", "p", "", "AI provider (openai, google, ollama, custom-openai)")
	cmd.Flags().StringVarP(&flags.model, "model", "m", "", "Model name override")
	cmd.Flags().StringVar(&flags.apiKey, "api-key", "", "Provider API key (overrides store and env)")
	cmd.Flags().StringVar(&flags.baseURL, "base-url", "", "API base URL (custom-openai, ollama)")
	cmd.Flags().StringVar(&flags.prompt, "prompt", "", "Custom system prompt")
	cmd.Flags().IntVar(&flags.budget, "budget", 0, "Per-call character budget for chunking")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0, "Parallel jobs for batch runs")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (single input and language only)")
	cmd.Flags().BoolVar(&flags.keepWorkdir, "keep-workdir", false, "Keep the unpacked working directory")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "Disable the translation memory")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "Verbose request logging")

	return cmd
}

func runTranslate(ctx context.Context, inputs []string, flags translateFlags) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := loadConfig()
	langs := flags.langs
	if len(langs) == 0 {
		langs = cfg.Languages
	}
	if len(langs) == 0 {
		return fmt.Errorf("no target language: use --lang or set languages in %s", config.FileName)
	}
	for _, lang := range langs {
		if !langmeta.Known(lang) {
			logWarning("unrecognized language code %q, passing it to the provider as-is", lang)
		}
	}

	provider, err := resolveProvider(cfg, flags)
	if err != nil {
		return err
	}

	sourceLang := flags.sourceLang
	if sourceLang == "" {
		sourceLang = cfg.SourceLang
	}
	prompt := flags.prompt
	if prompt == "" {
		prompt = cfg.SystemPrompt
	}
	budget := flags.budget
	if budget == 0 {
		budget = cfg.ChunkBudget
	}
	jobs := flags.jobs
	if jobs == 0 {
		jobs = cfg.Jobs
	}

	var cache *tmcache.Cache
	if cfg.CacheEnabled() && !flags.noCache {
		path, err := tmcache.DefaultPath()
		if err == nil {
			cache, err = tmcache.Load(path)
		}
		if err != nil {
			logWarning("translation memory unavailable: %v", err)
			cache = nil
		}
	}

	runner := &pipeline.Runner{
		Translator: func(lang string) (engine.TranslateFunc, error) {
			tr, err := engine.New(engine.Options{
				Provider:     provider,
				SourceLang:   sourceLang,
				TargetLang:   lang,
				SystemPrompt: prompt,
				OnLog:        logInfo,
				Verbose:      flags.verbose,
			})
			if err != nil {
				return nil, err
			}
			return tmcache.WithMemory(tr, cache, lang), nil
		},
		Walker: walker.Options{
			Policy:      cfg.Policy(),
			ChunkBudget: budget,
			OnLog:       logInfo,
		},
		KeepWorkdir: flags.keepWorkdir,
		OnLog:       logInfo,
	}

	jobsList, err := buildJobs(inputs, langs, flags.output)
	if err != nil {
		return err
	}

	runErr := runner.RunAll(ctx, jobsList, jobs)

	if cache != nil {
		if err := cache.Save(); err != nil {
			logWarning("saving translation memory: %v", err)
		}
	}
	if runErr != nil {
		return runErr
	}
	logSuccess(i18n.N("%d package translated", "%d packages translated", len(jobsList)), len(jobsList))
	return nil
}

func buildJobs(inputs, langs []string, output string) ([]pipeline.Job, error) {
	if output != "" && (len(inputs) > 1 || len(langs) > 1) {
		return nil, fmt.Errorf("--output needs exactly one input and one language")
	}
	var jobs []pipeline.Job
	for _, input := range inputs {
		if _, err := os.Stat(input); err != nil {
			return nil, fmt.Errorf("input %s: %w", input, err)
		}
		for _, lang := range langs {
			job := pipeline.Job{Input: input, Lang: lang}
			switch {
			case output != "":
				job.Output = output
			case len(langs) > 1:
				job.Output = pipeline.LangOutput(input, lang)
			}
			jobs = append(jobs, job)
		}
	}
	return jobs, nil
}

func loadConfig() *config.File {
	path, ok := config.Find(".")
	if !ok {
		return config.Default()
	}
	cfg, err := config.Load(path)
	if err != nil {
		logWarning("ignoring %s: %v", path, err)
		return config.Default()
	}
	logInfo("using configuration from %s", path)
	return cfg
}

func resolveProvider(cfg *config.File, flags translateFlags) (engine.Provider, error) {
	id := flags.provider
	if id == "" {
		id = cfg.Provider
	}
	provider, ok := engine.DefaultProviders()[id]
	if !ok {
		return engine.Provider{}, fmt.Errorf("unknown provider %q", id)
	}

	if flags.model != "" {
		provider.Model = flags.model
	} else if cfg.Model != "" {
		provider.Model = cfg.Model
	}

	baseURL := flags.baseURL
	if baseURL == "" {
		baseURL = cfg.BaseURL
	}
	if baseURL == "" {
		baseURL = settings.ResolveBaseURL("", id)
	}
	if baseURL != "" {
		provider.BaseURL = baseURL
	}

	provider.APIKey = settings.ResolveKey(flags.apiKey, id)
	if provider.APIKey == "" && id != engine.ProviderOllama {
		return engine.Provider{}, fmt.Errorf("no API key for provider %s: use --api-key, %s, or 'h5pkit auth set %s'",
			id, settings.EnvAPIKey, id)
	}
	return provider, nil
}

// ---------------------------------------------------------------------------
// inspect
// ---------------------------------------------------------------------------

func newInspectCmd() *cobra.Command {
	var showPaths bool

	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Show package metadata and translatable fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.Context(), args[0], showPaths)
		},
	}
	cmd.Flags().BoolVar(&showPaths, "paths", false, "List every translatable field path")
	return cmd
}

func runInspect(ctx context.Context, archive string, showPaths bool) error {
	meta, err := h5pfile.ReadMeta(archive)
	if err != nil {
		return err
	}
	doc, err := h5pfile.ReadContent(archive)
	if err != nil {
		return err
	}

	// identity walk: counts and records fields without changing them
	w := walker.New(func(ctx context.Context, text string) (string, error) {
		return text, nil
	}, walker.Options{Policy: loadConfig().Policy()})
	stats, err := w.Run(ctx, doc)
	if err != nil {
		return err
	}

	fmt.Printf("%sPackage%s %s\n", colorBlue, colorReset, filepath.Base(archive))
	fmt.Printf("  title:        %s\n", h5pfile.Title(meta))
	fmt.Printf("  main library: %s\n", h5pfile.MainLibrary(meta))
	fmt.Printf("  language:     %s\n", h5pfile.Language(meta))
	fmt.Printf("  translatable: %d fields (%s)\n", w.Visited().Len(), stats.Summary())

	if showPaths {
		for _, p := range w.Visited().Paths() {
			fmt.Printf("    %s\n", p)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// languages
// ---------------------------------------------------------------------------

func newLanguagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List supported target languages",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(i18n.T("Supported languages:"))
			for _, code := range langmeta.Codes() {
				meta := langmeta.Registry[code]
				fmt.Printf("  %-8s %s (%s)\n", code, meta.Name, meta.Native)
			}
		},
	}
}

// ---------------------------------------------------------------------------
// auth
// ---------------------------------------------------------------------------

func newAuthCmd() *cobra.Command {
	auth := &cobra.Command{
		Use:   "auth",
		Short: "Manage provider API keys",
		Long: `Manage API keys for AI providers.

Keys are stored in ` + settings.FilePath() + ` with 0600 permissions.

Examples:
  h5pkit auth set openai sk-...          Store an OpenAI key
  h5pkit auth set custom-openai KEY --base-url http://host:8080/v1
  h5pkit auth remove openai              Delete the stored key
  h5pkit auth list                       Show stored providers`,
	}
	auth.AddCommand(newAuthSetCmd(), newAuthRemoveCmd(), newAuthListCmd())
	return auth
}

func newAuthSetCmd() *cobra.Command {
	var baseURL string

	cmd := &cobra.Command{
		Use:   "set PROVIDER KEY",
		Short: "Store an API key for a provider",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if _, ok := engine.DefaultProviders()[id]; !ok {
				return fmt.Errorf("unknown provider %q", id)
			}
			if err := settings.Set(id, &settings.Info{Key: args[1], BaseURL: baseURL}); err != nil {
				return err
			}
			logSuccess(i18n.T("API key stored for %s"), id)
			return nil
		},
	}
	cmd.Flags().StringVar(&baseURL, "base-url", "", "API base URL to store with the key")
	return cmd
}

func newAuthRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove PROVIDER",
		Short: "Delete a stored API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := settings.Remove(args[0]); err != nil {
				return err
			}
			logSuccess(i18n.T("API key removed for %s"), args[0])
			return nil
		},
	}
}

func newAuthListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show stored providers",
		Run: func(cmd *cobra.Command, args []string) {
			store := settings.Load()
			if len(store) == 0 {
				logInfo(i18n.T("No credentials stored"))
				return
			}
			for id, info := range store {
				masked := maskKey(info.Key)
				if info.BaseURL != "" {
					fmt.Printf("  %-15s %s (%s)\n", id, masked, info.BaseURL)
					continue
				}
				fmt.Printf("  %-15s %s\n", id, masked)
			}
		},
	}
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", 4) + key[len(key)-4:]
}

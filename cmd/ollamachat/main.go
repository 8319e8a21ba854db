package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"ollamachat/internal/app"
	"ollamachat/internal/config"
	"ollamachat/internal/httpapi"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var cfgPath, envFile string
	root := &cobra.Command{
		Use:           "ollamachat",
		Short:         "HTTP chat relay in front of a local Ollama runtime",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to config file (.yaml/.yml/.json/.toml)")
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Dotenv file loaded before OLLAMACHAT_* overrides")
	bindFlags(root.PersistentFlags())

	load := func(cmd *cobra.Command) (config.Config, error) {
		return loadConfig(cmd.Flags(), cfgPath, envFile)
	}

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}
	models := &cobra.Command{
		Use:   "models",
		Short: "Print the permitted models and the default one",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			for _, m := range cfg.Models {
				marker := " "
				if m == cfg.DefaultModel {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, m)
			}
			return nil
		},
	}
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "ollamachat %s\n", version)
			return nil
		},
	}
	root.AddCommand(serve, models, versionCmd)
	root.RunE = serve.RunE
	return root
}

func bindFlags(fs *pflag.FlagSet) {
	d := config.Defaults()
	fs.String("addr", d.Addr, "HTTP listen address")
	fs.String("backend", d.Backend, "Backend kind: ollama|openai")
	fs.String("backend-url", d.BackendURL, "Base URL of the inference runtime")
	fs.String("api-key", "", "Bearer token for the openai backend")
	fs.String("default-model", d.DefaultModel, "Model bound at startup and used when a request names none")
	fs.StringSlice("models", d.Models, "Comma separated permitted models")
	fs.Float64("temperature", d.Temperature, "Sampling temperature")
	fs.Int("chat-timeout", 0, "Per-chat backend timeout in seconds (0 disables)")
	fs.Bool("strict-errors", false, "Answer 502 instead of 200 on chat failures")
	fs.Bool("verify-models", d.VerifyModels, "Check a model exists in the runtime before switching to it")
	fs.String("prompt-template-file", "", "File holding the prompt template; must contain {query}")
	fs.String("log-level", d.LogLevel, "Log level: debug|info|warn|error")
	fs.String("log-format", "", "Log format: console|json (default: console on a terminal)")
}

// loadConfig applies, in order: defaults, config file, dotenv and
// OLLAMACHAT_* variables, then explicitly set flags.
func loadConfig(fs *pflag.FlagSet, path, envFile string) (config.Config, error) {
	cfg := config.Defaults()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}
	if envFile != "" {
		if err := config.LoadDotEnv(envFile); err != nil {
			return cfg, err
		}
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		return cfg, err
	}

	var errs []error
	fs.Visit(func(f *pflag.Flag) {
		var err error
		switch f.Name {
		case "addr":
			cfg.Addr = f.Value.String()
		case "backend":
			cfg.Backend = f.Value.String()
		case "backend-url":
			cfg.BackendURL = f.Value.String()
		case "api-key":
			cfg.APIKey = f.Value.String()
		case "default-model":
			cfg.DefaultModel = f.Value.String()
		case "models":
			cfg.Models, err = fs.GetStringSlice("models")
		case "temperature":
			cfg.Temperature, err = fs.GetFloat64("temperature")
		case "chat-timeout":
			cfg.ChatTimeoutSeconds, err = fs.GetInt("chat-timeout")
		case "strict-errors":
			cfg.StrictErrors, err = fs.GetBool("strict-errors")
		case "verify-models":
			cfg.VerifyModels, err = fs.GetBool("verify-models")
		case "prompt-template-file":
			cfg.PromptTemplateFile = f.Value.String()
			cfg.PromptTemplate = ""
		case "log-level":
			cfg.LogLevel = f.Value.String()
		case "log-format":
			cfg.LogFormat = f.Value.String()
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("--%s: %w", f.Name, err))
		}
	})
	return cfg, errors.Join(errs...)
}

func runServe(parent context.Context, cfg config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	log, err := app.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	startCtx, cancelStart := context.WithTimeout(ctx, 30*time.Second)
	a, err := app.New(startCtx, cfg, log)
	cancelStart()
	if err != nil {
		return err
	}

	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           a.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("backend", cfg.Backend).Str("backend_url", cfg.BackendURL).
			Str("model", a.Relay.CurrentModel()).Bool("ready", a.Relay.Ready()).Str("version", version).
			Msg("ollamachat listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err, ok := <-errc:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	cancelBase()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
		return err
	}
	return nil
}

package cli

import (
	"fmt"

	"interviewprep/internal/config"
	"interviewprep/internal/server"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web form and JSON API",
	Long: `Start an HTTP server with the question form and a JSON API.

Available endpoints:
- GET  /: Question form
- POST /generate: Form submission, renders the questions
- POST /api/v1/questions: Generate questions (JSON, API key when configured)
- GET  /api/v1/options: Round types, experience levels and form defaults
- GET  /health: Provider, credential presence and circuit breaker state
- GET  /stats: Server, circuit breaker and prompt template statistics

TLS Configuration:
- Use --tls-mode to set TLS mode: disabled, server
- Use --cert-file and --key-file for TLS certificates`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveFlags struct {
	port     string
	host     string
	tlsMode  string
	certFile string
	keyFile  string
	prompt   string
	watch    bool
}

func init() {
	f := serveCmd.Flags()
	f.StringVarP(&serveFlags.port, "port", "p", "", "Port to listen on (default from config)")
	f.StringVar(&serveFlags.host, "host", "", "Host to bind to (default from config)")
	f.StringVar(&serveFlags.tlsMode, "tls-mode", "", "TLS mode: disabled, server (overrides config)")
	f.StringVar(&serveFlags.certFile, "cert-file", "", "Server certificate file (PEM, overrides config)")
	f.StringVar(&serveFlags.keyFile, "key-file", "", "Server private key file (PEM, overrides config)")
	f.StringVar(&serveFlags.prompt, "prompt-file", "", "Question prompt template file (overrides config)")
	f.BoolVar(&serveFlags.watch, "watch-prompt", false, "Reload the prompt template file when it changes")
}

// applyServeFlags copies explicitly set flags over the loaded configuration
func applyServeFlags(cmd *cobra.Command, cfg *config.Config) error {
	changed := cmd.Flags().Changed
	if changed("port") {
		cfg.Server.Port = serveFlags.port
	}
	if changed("host") {
		cfg.Server.Host = serveFlags.host
	}
	if changed("tls-mode") {
		cfg.Server.TLS.Mode = serveFlags.tlsMode
	}
	if changed("cert-file") {
		cfg.Server.TLS.CertFile = serveFlags.certFile
	}
	if changed("key-file") {
		cfg.Server.TLS.KeyFile = serveFlags.keyFile
	}
	if changed("prompt-file") {
		if err := cfg.UsePromptFile(serveFlags.prompt); err != nil {
			return fmt.Errorf("failed to load prompt template: %w", err)
		}
	}
	if changed("watch-prompt") {
		cfg.AI.Prompt.Watch = serveFlags.watch
		if cfg.AI.Prompt.Watch && cfg.AI.Prompt.TemplateFile == "" {
			return fmt.Errorf("--watch-prompt requires a prompt template file")
		}
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	if err := applyServeFlags(cmd, cfg); err != nil {
		return err
	}

	if err := config.ApplyVaultSecrets(cmd.Context(), cfg, logger); err != nil {
		return fmt.Errorf("failed to load secrets from vault: %w", err)
	}

	// Validate TLS configuration after applying overrides
	if err := cfg.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("invalid TLS configuration: %w", err)
	}

	service := newService(cfg, logger)

	srv, err := server.NewServer(cfg, server.ServerConfigFrom(cfg, Version), service, logger)
	if err != nil {
		closeService(service, logger)
		return fmt.Errorf("failed to create server: %w", err)
	}
	return srv.Start(cmd.Context())
}

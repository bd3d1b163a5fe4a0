package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goliatone/go-backoffice/internal/server"
	"github.com/goliatone/go-backoffice/pkg/openapi"
	"github.com/goliatone/go-backoffice/pkg/uischema"
)

func newServeCmd() *cobra.Command {
	var (
		host       string
		port       int
		apiURL     string
		baseDomain string
		devTenant  string
		locale     string
		schemaDir  string
		specPath   string
		dev        bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the back-office web server",
		Long:  "Start the HTTP server that renders the dynamic CRUD pages and report viewers for every tenant.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), host, port, apiURL, baseDomain, devTenant, locale, schemaDir, specPath, dev)
		},
	}

	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "HTTP listen host")
	cmd.Flags().IntVarP(&port, "port", "p", 3000, "HTTP listen port")
	cmd.Flags().StringVar(&apiURL, "api-url", "http://localhost:8080", "base URL of the back-office REST API")
	cmd.Flags().StringVar(&baseDomain, "base-domain", "", "domain whose subdomains select the tenant")
	cmd.Flags().StringVar(&devTenant, "tenant", "dev", "fallback tenant for hosts outside the base domain")
	cmd.Flags().StringVar(&locale, "locale", "en", "display locale (en, pt-BR)")
	cmd.Flags().StringVar(&schemaDir, "ui-schema-dir", "", "directory of per-entity UI override documents")
	cmd.Flags().StringVar(&specPath, "openapi-spec", "", "OpenAPI document serving entity metadata instead of the upstream metadata endpoints")
	cmd.Flags().BoolVar(&dev, "dev", false, "enable development mode (verbose logging)")

	viper.BindPFlag("server.host", cmd.Flags().Lookup("host"))
	viper.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	viper.BindPFlag("api.url", cmd.Flags().Lookup("api-url"))
	viper.BindPFlag("tenant.base_domain", cmd.Flags().Lookup("base-domain"))
	viper.BindPFlag("tenant.fallback", cmd.Flags().Lookup("tenant"))

	return cmd
}

func runServe(ctx context.Context, host string, port int, apiURL, baseDomain, devTenant, locale, schemaDir, specPath string, dev bool) error {
	logLevel := slog.LevelInfo
	if dev {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	cfg := server.DefaultConfig()
	cfg.Host = host
	cfg.Port = port
	cfg.APIBaseURL = apiURL
	cfg.BaseDomain = baseDomain
	cfg.DevTenant = devTenant
	cfg.Locale = locale
	if dev {
		cfg.RateLimit = 0
	}

	var options []server.Option
	if schemaDir != "" {
		store, err := uischema.LoadFS(os.DirFS(schemaDir))
		if err != nil {
			return fmt.Errorf("load ui schema: %w", err)
		}
		options = append(options, server.WithUISchema(store))
		logger.Info("ui schema overrides loaded", "dir", schemaDir)
	}
	if specPath != "" {
		raw, err := os.ReadFile(specPath)
		if err != nil {
			return fmt.Errorf("read openapi spec: %w", err)
		}
		source, err := openapi.Load(ctx, raw)
		if err != nil {
			return fmt.Errorf("load openapi spec: %w", err)
		}
		options = append(options, server.WithOpenAPISource(source))
		logger.Info("entity metadata served from openapi document", "path", specPath)
	}

	srv, err := server.New(cfg, logger, options...)
	if err != nil {
		return err
	}
	return srv.ListenAndServe()
}

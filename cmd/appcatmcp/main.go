package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"appcatmcp/internal/domain"
	"appcatmcp/internal/infra/catalog"
	"appcatmcp/internal/infra/gateway"
	"appcatmcp/internal/infra/telemetry"
	"appcatmcp/internal/infra/tools"
)

type serveOptions struct {
	transport  string
	addr       string
	catalogURL string
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	root := newRootCmd(logger)
	if err := root.Execute(); err != nil {
		logger.Fatal("command failed", zap.Error(err))
	}
}

func newRootCmd(logger *zap.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "appcatmcp",
		Short: "MCP tool server for app-catalog trust queries",
	}
	root.AddCommand(newServeCmd(logger))
	return root
}

func newServeCmd(logger *zap.Logger) *cobra.Command {
	opts := serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the tool server over stdio or HTTP/SSE",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resolveServeOptions(cmd.Flags(), &opts); err != nil {
				return err
			}

			ctx, cancel := signalAwareContext(cmd.Context())
			defer cancel()

			return serve(ctx, logger, opts)
		},
	}

	cmd.Flags().StringVar(&opts.transport, "transport", domain.DefaultTransport, "transport to serve (stdio or sse)")
	cmd.Flags().StringVar(&opts.addr, "addr", domain.DefaultHTTPListenAddress, "listen address for the sse transport")
	cmd.Flags().StringVar(&opts.catalogURL, "catalog-url", domain.DefaultCatalogURL, "remote trust catalog document URL")

	return cmd
}

// resolveServeOptions layers APPCATMCP_* environment overrides under explicit
// flags: flags win, then environment, then defaults.
func resolveServeOptions(flags *pflag.FlagSet, opts *serveOptions) error {
	v := viper.New()
	v.SetEnvPrefix("APPCATMCP")
	v.AutomaticEnv()
	v.SetDefault("transport", domain.DefaultTransport)
	v.SetDefault("addr", domain.DefaultHTTPListenAddress)
	v.SetDefault("catalog_url", domain.DefaultCatalogURL)

	if !flags.Changed("transport") {
		opts.transport = v.GetString("transport")
	}
	if !flags.Changed("addr") {
		opts.addr = v.GetString("addr")
	}
	if !flags.Changed("catalog-url") {
		opts.catalogURL = v.GetString("catalog_url")
	}

	switch opts.transport {
	case "stdio", "sse":
		return nil
	default:
		return fmt.Errorf("unsupported transport: %s", opts.transport)
	}
}

func serve(ctx context.Context, logger *zap.Logger, opts serveOptions) error {
	metrics := telemetry.NewMetrics(nil)

	httpClient := &http.Client{Timeout: domain.DefaultCatalogTimeoutSecs * time.Second}
	client := catalog.NewClient(opts.catalogURL, httpClient, logger)
	cache := catalog.NewCache(client, logger, metrics)

	registry := tools.NewRegistry(logger, metrics)
	for _, descriptor := range []tools.Descriptor{
		tools.AddTool(),
		tools.CalculateTool(),
		tools.AppsWithTrustFilterTool(cache),
	} {
		if err := registry.Register(descriptor); err != nil {
			return err
		}
	}

	gw := gateway.New(registry, logger)

	var err error
	switch opts.transport {
	case "stdio":
		err = gw.Run(ctx)
	case "sse":
		err = gw.RunHTTP(ctx, opts.addr, metrics)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

func signalAwareContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

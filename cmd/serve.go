package cmd

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/bimmerbailey/clarifier/internal/api"
	"github.com/bimmerbailey/clarifier/internal/gate"
	"github.com/bimmerbailey/clarifier/internal/recommend"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the recommendation HTTP service",
	Long: `Resolve configuration, build the inference provider and serve the HTTP API.

Startup fails, and nothing is served, when a key required by the selected
credential strategy is missing or the federated login fails.

Routes:
  POST /recommendation          gated by the X-API-Key header
  POST /<env>/recommendation    when --env-prefix is set
  GET  /health

Examples:
  clarifier serve
  clarifier serve --addr 127.0.0.1:9000 --env-prefix`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address")
	serveCmd.Flags().Bool("env-prefix", false, "also mount the recommendation route under /<env>/")

	_ = viper.BindPFlag("server.address", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("server.env_prefix", serveCmd.Flags().Lookup("env-prefix"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger := newLogger(cmd.ErrOrStderr())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := startup(ctx, logger, startupOptions{})
	if err != nil {
		logger.Error("startup failed", "error", err)
		return err
	}

	server, err := newServer(a)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Serve(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutdown requested")
		return nil
	})
	return g.Wait()
}

// newServer wires the gate, recommendation service and HTTP server.
func newServer(a *app) (*api.Server, error) {
	g := gate.New(a.cfg.APIKey)
	if g.Open() {
		a.logger.Warn("API_KEY is not configured, recommendation requests are not authenticated")
	}

	svc, err := recommend.NewService(a.provider, a.logger, viper.GetDuration("inference_timeout"))
	if err != nil {
		return nil, err
	}

	var prefix string
	if viper.GetBool("server.env_prefix") {
		prefix = strings.ToLower(strings.TrimSpace(a.cfg.Env))
	}

	return api.NewServer(api.Options{
		Address:         viper.GetString("server.address"),
		Gate:            g,
		Recommender:     svc,
		ModelID:         a.cfg.BedrockModelID,
		EnvPrefix:       prefix,
		Strategy:        string(a.strategy),
		ProviderName:    a.provider.Name(),
		ConfigSource:    string(a.cfg.Source),
		RequestTimeout:  viper.GetDuration("server.request_timeout"),
		ShutdownTimeout: viper.GetDuration("server.shutdown_timeout"),
	}, a.logger)
}

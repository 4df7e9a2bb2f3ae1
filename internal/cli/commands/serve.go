package commands

import (
	"fmt"
	"net/http"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/schemadoc-dev/schemadoc/internal/cli/config"
	"github.com/schemadoc-dev/schemadoc/internal/diag"
	"github.com/schemadoc-dev/schemadoc/internal/docs"
	"github.com/schemadoc-dev/schemadoc/internal/typegraph"
	"github.com/schemadoc-dev/schemadoc/internal/web/cache"
	"github.com/schemadoc-dev/schemadoc/internal/web/docserver"
)

var (
	serveInput     string
	servePort      int
	serveHost      string
	serveCache     string
	serveRedisAddr string
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve generated documents over HTTP",
		Long: `Generate documents in memory and serve them with HTTP cache validation.

Every response carries the document's weak ETag (W/"sha256:<prefix>") and
conditional If-None-Match requests answer 304 Not Modified, so clients and
proxies revalidate cheaply. An optional Redis-backed response cache lets
multiple replicas share rendered bytes.

Examples:
  schemadoc serve
  schemadoc serve --port 8080
  schemadoc serve --cache redis --redis-addr localhost:6379`,
		RunE: runServe,
	}

	cmd.Flags().StringVarP(&serveInput, "input", "i", "", "Type graph descriptor file (defaults to config)")
	cmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to serve on (defaults to config)")
	cmd.Flags().StringVar(&serveHost, "host", "", "Host to bind (defaults to config)")
	cmd.Flags().StringVar(&serveCache, "cache", "", "Response cache backend: memory, redis, none")
	cmd.Flags().StringVar(&serveRedisAddr, "redis-addr", "", "Redis address for the redis cache backend")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	successColor := color.New(color.FgGreen, color.Bold)
	infoColor := color.New(color.FgCyan)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyServeOverrides(cfg)

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	descriptor := cfg.Generate.Descriptor
	if serveInput != "" {
		descriptor = serveInput
	}
	graph, err := typegraph.Load(descriptor)
	if err != nil {
		return err
	}

	docsConfig := &docs.Config{
		Title:       cfg.Project.Name,
		Version:     cfg.Project.Version,
		Description: cfg.Project.Description,
		Formats:     []docs.Format{docs.FormatJSON, docs.FormatYAML},
		MaxDepth:    cfg.Generate.MaxDepth,
	}
	generator, err := docs.NewGenerator(docsConfig, docs.WithReporter(diag.NewReporter(logger)))
	if err != nil {
		return err
	}
	result, err := generator.Build(graph)
	if err != nil {
		return err
	}

	options := []docserver.Option{docserver.WithLogger(logger)}
	store, err := cacheBackend(cfg)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
		options = append(options, docserver.WithCache(store))
	}

	server := docserver.New(result, options...)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	successColor.Printf("✓ Document server running at http://%s\n", addr)
	for _, output := range result.Outputs {
		infoColor.Printf("  /%s  %s\n", output.Format.Filename(), output.Record.ETag)
	}
	infoColor.Println("Press Ctrl+C to stop")

	return http.ListenAndServe(addr, server.Router())
}

func applyServeOverrides(cfg *config.Config) {
	if servePort != 0 {
		cfg.Server.Port = servePort
	}
	if serveHost != "" {
		cfg.Server.Host = serveHost
	}
	if serveCache != "" {
		cfg.Server.Cache.Backend = serveCache
	}
	if serveRedisAddr != "" {
		cfg.Server.Cache.RedisAddr = serveRedisAddr
	}
}

func cacheBackend(cfg *config.Config) (cache.Cache, error) {
	switch cfg.Server.Cache.Backend {
	case "redis":
		redisConfig := cache.DefaultRedisConfig()
		redisConfig.Addr = cfg.Server.Cache.RedisAddr
		store, err := cache.NewRedisCache(redisConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return store, nil
	case "none":
		return nil, nil
	default:
		return cache.NewMemoryCache(), nil
	}
}

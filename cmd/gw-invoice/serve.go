package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zeptools/gw-invoice/api"
	"github.com/zeptools/gw-invoice/auth"
	"github.com/zeptools/gw-invoice/conf"
	"github.com/zeptools/gw-invoice/documents"
	"github.com/zeptools/gw-invoice/metrics"
	"github.com/zeptools/gw-invoice/sec"
	"github.com/zeptools/gw-invoice/servers"
	"github.com/zeptools/gw-invoice/store"
	"github.com/zeptools/gw-invoice/store/memstore"
	"github.com/zeptools/gw-invoice/store/sqlstore"
)

const metricsNamespace = "gw_invoice"

func newServeCmd() *cobra.Command {
	var (
		root     string
		inMemory bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API until SIGINT or SIGTERM.

Configuration is read from <root>/config/.core.json, .sql-databases.json and
.kv-databases.json. JWT_SECRET (and optionally DATABASE_DSN) come from the
environment or <root>/.env.`,
		Example: `  gw-invoice serve --root /srv/gw-invoice
  gw-invoice serve --root . --in-memory`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), root, inMemory)
		},
	}
	cmd.Flags().StringVar(&root, "root", ".", "app root holding config/ and .env")
	cmd.Flags().BoolVar(&inMemory, "in-memory", false, "keep records and cache in process instead of SQL and redis")
	return cmd
}

func serve(parent context.Context, root string, inMemory bool) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	c := &conf.Core[string]{}
	if err := c.BaseInit(root, ctx, cancel); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := c.LoadEnv(); err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := c.PrepareLogger(); err != nil {
		return err
	}
	log := c.Logger
	defer c.ResourceCleanUp()

	st, err := openStore(ctx, c, inMemory)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	renderMetrics := metrics.NewRender(reg, metrics.Config{Namespace: metricsNamespace})

	fonts, err := c.PrepareFonts()
	if err != nil {
		return err
	}
	tokens, err := sec.NewTokenIssuer(c.JWTSecret, c.JWTTTL.Std())
	if err != nil {
		return err
	}
	c.PrepareThrottleBucketStore(api.DefaultThrottleBuckets, time.Minute, 10*time.Minute)

	srv := &api.Server{
		Conf:        api.Config{AppName: c.AppName, Env: c.Env, UploadsDir: c.UploadsPath()},
		Store:       st,
		Auth:        auth.NewService(st.Users, c.BackendKVDBClient, tokens, c.AppName, log),
		Tokens:      tokens,
		Renderer:    documents.NewRenderer(log.Named("render"), renderMetrics, fonts),
		Cache:       api.NewPDFCache(c.BackendKVDBClient, c.AppName, c.PDF.CacheTTL.Std(), renderMetrics, log),
		Throttle:    c.ThrottleBucketStore,
		Locks:       c.ActionLocks,
		HTTPMetrics: metrics.NewHTTP(reg, metrics.Config{Namespace: metricsNamespace}),
		Gatherer:    reg,
		Log:         log.Named("api"),
	}

	if err := c.StartServices(); err != nil {
		return err
	}
	c.StartShutdownSignalListener()

	httpServer := &http.Server{
		Addr:              c.Listen,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Info("starting", zap.String("env", c.Env), zap.Bool("in_memory", inMemory), zap.Int("fonts", fonts.Len()))
	runErr := servers.RunWithGracefulShutdown(ctx, httpServer, log, c.StopServices, c.ShutdownTimeoutOrDefault())
	cancel()
	if err := c.WaitServicesDone(); err != nil {
		log.Error("service stopped with error", zap.Error(err))
	}
	return runErr
}

func openStore(ctx context.Context, c *conf.Core[string], inMemory bool) (*store.Store, error) {
	if inMemory {
		c.UseMemoryKVDatabase()
		return memstore.New().Store(), nil
	}
	if err := c.PrepareKVDatabase(); err != nil {
		return nil, fmt.Errorf("kv database: %w", err)
	}
	if err := c.PrepareSQLDatabases(); err != nil {
		return nil, fmt.Errorf("sql database: %w", err)
	}
	client, err := c.MainSQLDBClient()
	if err != nil {
		return nil, err
	}
	db, err := sqlstore.Open(client, c.Logger.Named("sqlstore"))
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db.Store(), nil
}

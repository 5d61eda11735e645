package conf

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/zeptools/gw-invoice/db/kvdb"
	"github.com/zeptools/gw-invoice/db/kvdb/impls/redis"
	"github.com/zeptools/gw-invoice/db/kvdb/memkv"
	"github.com/zeptools/gw-invoice/db/sqldb"
	"github.com/zeptools/gw-invoice/db/sqldb/impls/mysql"
	"github.com/zeptools/gw-invoice/db/sqldb/impls/pgsql"
	"github.com/zeptools/gw-invoice/locks/keyonlylocks"
	"github.com/zeptools/gw-invoice/logging"
	"github.com/zeptools/gw-invoice/pdfs"
	"github.com/zeptools/gw-invoice/svc"
	"github.com/zeptools/gw-invoice/throttle"
)

const (
	MainSQLDB = "main"

	EnvJWTSecret   = "JWT_SECRET"
	EnvDatabaseDSN = "DATABASE_DSN"
)

type PDFConf struct {
	CacheTTL Duration   `json:"cache_ttl"` // 0 disables the rendered PDF cache
	Fonts    []FontConf `json:"fonts"`     // UTF-8 TrueType fonts replacing the core family
}

type FontConf struct {
	Family string `json:"family"`
	Style  string `json:"style"` // "", B, I, BI
	Path   string `json:"path"`  // relative to AppRoot unless absolute
}

type BucketConf struct {
	Burst     int      `json:"burst"`
	Increment int      `json:"increment"`
	Period    Duration `json:"period"`
}

// Core - common config
// B = Throttle BucketID Type _ e.g. string, int64, etc
type Core[B comparable] struct {
	AppName         string                `json:"app_name"`
	Listen          string                `json:"listen"` // HTTP Server Listen IP:PORT Address
	Host            string                `json:"host"`   // HTTP Host. Can be used to generate public url endpoints
	Env             string                `json:"env"`    // development, production, test
	Log             logging.Conf          `json:"log"`
	PDF             PDFConf               `json:"pdf"`
	UploadsDir      string                `json:"uploads_dir"` // relative to AppRoot unless absolute
	JWTTTL          Duration              `json:"jwt_ttl"`     // 0 = tokens never expire
	ShutdownTimeout Duration              `json:"shutdown_timeout"`
	ThrottleBuckets map[string]BucketConf `json:"throttle_buckets"` // overrides per group

	AppRoot             string                   `json:"-"` // Filled from the --root flag
	RootCtx             context.Context          `json:"-"` // Global Context with RootCancel
	RootCancel          context.CancelFunc       `json:"-"` // CancelFunc for RootCtx
	Logger              *zap.Logger              `json:"-"` // PrepareLogger
	JWTSecret           string                   `json:"-"` // LoadEnv
	ThrottleBucketStore *throttle.BucketStore[B] `json:"-"` // PrepareThrottleBucketStore
	ActionLocks         *keyonlylocks.Store      `json:"-"`
	KVDBConf            kvdb.Conf                `json:"-"` // loadKVDBConf
	BackendKVDBClient   kvdb.Client              `json:"-"` // PrepareKVDatabase
	SQLDBConfs          map[string]*sqldb.Conf   `json:"-"` // loadSQLDBConfs
	BackendSQLDBClients map[string]sqldb.Client  `json:"-"` // PrepareSQLDatabases

	services []svc.Service // Services to Manage
	done     chan error
}

// BaseInit - 1st step for initialization
// 1. set AppRoot
// 2. load config/.core.json file
// 3. prepare base fields
func (c *Core[B]) BaseInit(appRoot string, rootCtx context.Context, rootCancel context.CancelFunc) error {
	c.AppRoot = appRoot
	if err := readJSONFile(filepath.Join(appRoot, "config", ".core.json"), c); err != nil {
		return err
	}
	c.RootCtx = rootCtx
	c.RootCancel = rootCancel
	c.ActionLocks = &keyonlylocks.Store{}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return nil
}

func readJSONFile(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err = json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return nil
}

// PrepareLogger replaces the nop logger with one built from the log section
func (c *Core[B]) PrepareLogger() error {
	logger, err := logging.New(c.AppName, c.Log)
	if err != nil {
		return err
	}
	c.Logger = logger
	return nil
}

// LoadEnv reads <AppRoot>/.env when present, then picks the secrets up from
// the environment. Variables already set win over the file.
func (c *Core[B]) LoadEnv() error {
	envPath := filepath.Join(c.AppRoot, ".env")
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", envPath, err)
	}
	c.JWTSecret = os.Getenv(EnvJWTSecret)
	return nil
}

func (c *Core[B]) Validate() error {
	switch {
	case c.AppName == "":
		return errors.New("app_name is required")
	case c.Listen == "":
		return errors.New("listen is required")
	case c.JWTSecret == "":
		return fmt.Errorf("%s is required", EnvJWTSecret)
	case c.PDF.CacheTTL < 0 || c.JWTTTL < 0:
		return errors.New("durations must not be negative")
	}
	regular := make(map[string]bool)
	for _, f := range c.PDF.Fonts {
		if f.Style == "" {
			regular[f.Family] = true
		}
	}
	for _, f := range c.PDF.Fonts {
		if !regular[f.Family] {
			return fmt.Errorf("font family %q has no regular face", f.Family)
		}
	}
	for group, b := range c.ThrottleBuckets {
		if b.Burst <= 0 || b.Increment <= 0 || b.Period <= 0 {
			return fmt.Errorf("throttle bucket %q: burst, increment and period must be positive", group)
		}
	}
	return nil
}

// AppPath resolves p against AppRoot
func (c *Core[B]) AppPath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.AppRoot, p)
}

func (c *Core[B]) UploadsPath() string {
	if c.UploadsDir == "" {
		return c.AppPath("uploads")
	}
	return c.AppPath(c.UploadsDir)
}

func (c *Core[B]) ShutdownTimeoutOrDefault() time.Duration {
	if c.ShutdownTimeout <= 0 {
		return 10 * time.Second
	}
	return c.ShutdownTimeout.Std()
}

func (c *Core[B]) AddService(s svc.Service) {
	c.Logger.Info("adding service", zap.String("service", s.Name()))
	c.services = append(c.services, s)
	c.Logger.Info("total services", zap.Int("count", len(c.services)))
}

func (c *Core[B]) StartServices() error {
	c.done = make(chan error, len(c.services))
	for _, s := range c.services {
		err := s.Start()
		if err != nil {
			return err
		}
		go func() {
			c.done <- <-s.Done()
		}()
	}
	return nil
}

func (c *Core[B]) WaitServicesDone() error {
	for range c.services {
		if err := <-c.done; err != nil {
			return err
		}
	}
	return nil
}

func (c *Core[B]) StopServices() {
	for _, s := range c.services {
		s.Stop()
	}
}

var once sync.Once

// StartShutdownSignalListener cancels RootCtx on SIGINT/SIGTERM
func (c *Core[B]) StartShutdownSignalListener() {
	once.Do(func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			sig := <-sigs
			c.Logger.Info("got signal, shutting down", zap.String("signal", sig.String()))
			c.RootCancel() // broadcast to all child services via Context.Done()
		}()
	})
	c.Logger.Info("shutdown signal listener started")
}

// PrepareThrottleBucketStore sets every default group, then the configured
// overrides. Groups left unset would deny every request.
func (c *Core[B]) PrepareThrottleBucketStore(defaults map[string]throttle.BucketConf, cleanupCycle time.Duration, cleanupOlderThan time.Duration) {
	c.ThrottleBucketStore = throttle.NewBucketStore[B](c.RootCtx, c.Logger, cleanupCycle, cleanupOlderThan)
	for group, bc := range defaults {
		c.ThrottleBucketStore.SetBucketGroup(group, &bc)
	}
	for group, bc := range c.ThrottleBuckets {
		c.ThrottleBucketStore.SetBucketGroup(group, &throttle.BucketConf{
			Burst:     bc.Burst,
			Increment: bc.Increment,
			Period:    bc.Period.Std(),
		})
	}
	c.AddService(c.ThrottleBucketStore)
}

// PrepareFonts loads the configured UTF-8 fonts. An empty list keeps the
// core PDF fonts.
func (c *Core[B]) PrepareFonts() (*pdfs.FontStore, error) {
	fonts := pdfs.NewFontStore()
	for _, f := range c.PDF.Fonts {
		if err := fonts.StoreFile(f.Family, f.Style, c.AppPath(f.Path)); err != nil {
			return nil, fmt.Errorf("font %s %q: %w", f.Family, f.Style, err)
		}
	}
	return fonts, nil
}

func (c *Core[B]) PrepareKVDatabase() error {
	// Load KV Database Config File
	err := c.loadKVDBConf()
	if err != nil {
		return err
	}
	if err = c.prepareKVDBClient(); err != nil {
		return err
	}
	return nil
}

// UseMemoryKVDatabase skips the config file and keeps everything in process
func (c *Core[B]) UseMemoryKVDatabase() {
	c.KVDBConf = kvdb.Conf{Type: "memory"}
	c.BackendKVDBClient = memkv.New()
}

func (c *Core[B]) loadKVDBConf() error {
	return readJSONFile(filepath.Join(c.AppRoot, "config", ".kv-databases.json"), &c.KVDBConf)
}

func (c *Core[B]) prepareKVDBClient() error {
	switch c.KVDBConf.Type {
	case "redis":
		client := redis.New(&c.KVDBConf, c.Logger)
		if err := client.Init(c.RootCtx); err != nil {
			return err
		}
		c.BackendKVDBClient = client
	case "memory":
		c.BackendKVDBClient = memkv.New()
	default:
		return fmt.Errorf("unsupported key-value database type %q", c.KVDBConf.Type)
	}
	c.Logger.Info("kv database ready", zap.String("db_type", c.KVDBConf.Type))
	return nil
}

func (c *Core[B]) loadSQLDBConfs() error {
	c.SQLDBConfs = make(map[string]*sqldb.Conf)
	if err := readJSONFile(filepath.Join(c.AppRoot, "config", ".sql-databases.json"), &c.SQLDBConfs); err != nil {
		return err
	}
	if _, ok := c.SQLDBConfs[MainSQLDB]; !ok {
		return fmt.Errorf("sql database %q is not configured", MainSQLDB)
	}
	// DATABASE_DSN overrides the main connection string
	if dsn := os.Getenv(EnvDatabaseDSN); dsn != "" {
		c.SQLDBConfs[MainSQLDB].DSN = dsn
	}
	return nil
}

// prepareSQLDBClients - Build & Init SQL DB Clients
// Use after loadSQLDBConfs
func (c *Core[B]) prepareSQLDBClients() error {
	c.BackendSQLDBClients = make(map[string]sqldb.Client)

	// Registering Supported Implementations
	pgsql.Register()
	mysql.Register()

	for dbName, sqlDBConf := range c.SQLDBConfs {
		dbClient, err := sqldb.New(sqlDBConf, c.Logger)
		if err != nil {
			return err
		}
		if err = dbClient.Init(c.RootCtx); err != nil {
			return fmt.Errorf("sql database %q: %w", dbName, err)
		}
		c.BackendSQLDBClients[dbName] = dbClient
		c.Logger.Info("sql database ready", zap.String("name", dbName), zap.String("db_type", sqlDBConf.Type))
	}
	return nil
}

// PrepareSQLDatabases loads config/.sql-databases.json and connects every entry
func (c *Core[B]) PrepareSQLDatabases() error {
	if err := c.loadSQLDBConfs(); err != nil {
		return err
	}
	return c.prepareSQLDBClients()
}

func (c *Core[B]) MainSQLDBClient() (sqldb.Client, error) {
	client, ok := c.BackendSQLDBClients[MainSQLDB]
	if !ok {
		return nil, fmt.Errorf("sql database %q is not ready", MainSQLDB)
	}
	return client, nil
}

func (c *Core[B]) ResourceCleanUp() {
	c.Logger.Info("app resource cleaning up")
	if c.BackendKVDBClient != nil {
		if err := c.BackendKVDBClient.Close(); err != nil {
			c.Logger.Error("failed to close kv database client", zap.Error(err))
		}
	}
	for name, sqlDBClient := range c.BackendSQLDBClients {
		log := c.Logger.With(zap.String("name", name), zap.String("db_type", sqlDBClient.Conf().Type))
		if err := sqlDBClient.Close(); err != nil {
			log.Error("failed to close sql database client", zap.Error(err))
		} else {
			log.Info("sql database client closed")
		}
	}
	_ = c.Logger.Sync()
}

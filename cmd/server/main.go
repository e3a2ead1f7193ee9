package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/bunkerhq/bunker/internal/api"
	"github.com/bunkerhq/bunker/internal/factory"
	"github.com/bunkerhq/bunker/internal/services/auth"
	redisstorage "github.com/bunkerhq/bunker/internal/storage/redis"
	"github.com/bunkerhq/bunker/internal/web"
)

type config struct {
	bind            string
	port            int
	storage         string
	sqlitePath      string
	redisURL        string
	sessionDuration time.Duration
	staticDir       string
	verbose         bool
}

func (c *config) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	switch c.storage {
	case factory.StorageTypeMemory, factory.StorageTypeSQLite, factory.StorageTypeRedis:
	default:
		return fmt.Errorf("invalid storage type: %q", c.storage)
	}
	if c.storage == factory.StorageTypeSQLite && c.sqlitePath == "" {
		return fmt.Errorf("--sqlite-path required when --storage=sqlite")
	}
	if c.storage == factory.StorageTypeRedis && c.redisURL == "" {
		return fmt.Errorf("--redis-url required when --storage=redis")
	}
	return nil
}

func newCmd(cfg *config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("BUNKER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:          "bunker-server",
		Short:        "Party-game lobby server with random role assignment.",
		Args:         cobra.ExactArgs(0),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: BUNKER_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: BUNKER_PORT)")
	fs.StringVar(&cfg.storage, "storage", factory.StorageTypeMemory, "storage backend: memory, sqlite or redis (env: BUNKER_STORAGE)")
	fs.StringVar(&cfg.sqlitePath, "sqlite-path", "", "sqlite database file path (env: BUNKER_SQLITE_PATH)")
	fs.StringVar(&cfg.redisURL, "redis-url", "", "redis connection URL (env: BUNKER_REDIS_URL)")
	fs.DurationVar(&cfg.sessionDuration, "session-duration", 24*time.Hour, "login session lifetime (env: BUNKER_SESSION_DURATION)")
	fs.StringVar(&cfg.staticDir, "static-dir", "", "path to static files directory (env: BUNKER_STATIC_DIR)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "debug logging (env: BUNKER_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	return cmd
}

func run(ctx context.Context, cfg *config) error {
	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	factoryCfg := factory.Config{
		StorageType: cfg.storage,
		SQLitePath:  cfg.sqlitePath,
		AuthConfig: auth.Config{
			SessionDuration: cfg.sessionDuration,
		},
	}
	if cfg.storage == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.redisURL
		factoryCfg.RedisConfig = &redisCfg
	}

	app, err := factory.New(factoryCfg)
	if err != nil {
		return fmt.Errorf("creating application: %w", err)
	}

	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		AuthService:    app.AuthService,
		RoomController: app.RoomController,
		Storage:        app.Storage,
		Clock:          app.Clock,
	})

	webRouter := web.NewRouter(web.RouterConfig{
		Logger:         logger,
		AuthService:    app.AuthService,
		RoomController: app.RoomController,
		StaticDir:      cfg.staticDir,
	})

	// Combine routers
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/", webRouter)

	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.bind
	serverConfig.Port = cfg.port
	server := api.NewServer(mux, serverConfig, logger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.storage))

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
	}

	logger.Info("server stopped")
	return nil
}

func main() {
	cfg := &config{}
	cobra.CheckErr(newCmd(cfg).Execute())
}

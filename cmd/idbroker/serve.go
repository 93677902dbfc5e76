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

	rdb "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/yoocash/idbroker/internal/broker"
	"github.com/yoocash/idbroker/internal/cache"
	"github.com/yoocash/idbroker/internal/config"
	"github.com/yoocash/idbroker/internal/email"
	httpserver "github.com/yoocash/idbroker/internal/http"
	authctrl "github.com/yoocash/idbroker/internal/http/controllers/auth"
	healthctrl "github.com/yoocash/idbroker/internal/http/controllers/health"
	"github.com/yoocash/idbroker/internal/http/router"
	"github.com/yoocash/idbroker/internal/metrics"
	"github.com/yoocash/idbroker/internal/observability/logger"
	"github.com/yoocash/idbroker/internal/providers"
	"github.com/yoocash/idbroker/internal/providers/apple"
	"github.com/yoocash/idbroker/internal/providers/discord"
	"github.com/yoocash/idbroker/internal/providers/facebook"
	"github.com/yoocash/idbroker/internal/providers/github"
	"github.com/yoocash/idbroker/internal/providers/google"
	"github.com/yoocash/idbroker/internal/providers/instagram"
	"github.com/yoocash/idbroker/internal/providers/microsoft"
	"github.com/yoocash/idbroker/internal/providers/twitch"
	"github.com/yoocash/idbroker/internal/providers/twitter"
	"github.com/yoocash/idbroker/internal/providers/vk"
	"github.com/yoocash/idbroker/internal/providers/weixin"
	"github.com/yoocash/idbroker/internal/rate"
	"github.com/yoocash/idbroker/internal/settings"
	"github.com/yoocash/idbroker/internal/store"
	"github.com/yoocash/idbroker/internal/store/memory"
	"github.com/yoocash/idbroker/internal/store/pg"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "configs/config.yaml", "Path to YAML config")
	return cmd
}

func serve(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.Log.Level,
		ServiceName: "idbroker",
	})
	defer func() { _ = logger.Sync() }()
	log := logger.Named("serve")

	if err := metrics.RegisterBroker(nil); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	userStore, pinger, closeStore, err := buildStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	var settingsStore settings.Store = settings.NewFSStore(cfg.Settings.Root)
	if ttl := cfg.SettingsCacheTTL(); ttl > 0 {
		cc, err := cache.New(cache.Config{
			Driver: cfg.Settings.CacheKind,
			Addr:   cfg.Rate.Redis.Addr,
			DB:     cfg.Rate.Redis.DB,
			Prefix: "idbroker",
		})
		if err != nil {
			return fmt.Errorf("settings cache: %w", err)
		}
		defer func() { _ = cc.Close() }()
		settingsStore = settings.NewCached(settingsStore, cc, ttl)
	}

	registry := buildRegistry()

	var hooks []broker.RegistrationHook
	if cfg.Email.WelcomeEnabled && cfg.SMTP.Host != "" {
		sender := email.FromConfig(email.SMTPConfig{
			Host:      cfg.SMTP.Host,
			Port:      cfg.SMTP.Port,
			Username:  cfg.SMTP.Username,
			Password:  cfg.SMTP.Password,
			FromEmail: cfg.SMTP.From,
			TLSMode:   cfg.SMTP.TLS,
		})
		sender.InsecureSkipVerify = cfg.SMTP.InsecureSkipVerify
		hooks = append(hooks, email.NewWelcomeMailer(sender))
	}

	b := broker.New(registry, settingsStore, userStore, hooks...)

	var limiter rate.Limiter
	if cfg.Rate.Enabled {
		switch cfg.Rate.Kind {
		case "redis":
			client := rdb.NewClient(&rdb.Options{
				Addr: cfg.Rate.Redis.Addr,
				DB:   cfg.Rate.Redis.DB,
			})
			limiter = rate.NewRedisLimiter(client, cfg.Rate.Redis.Prefix, cfg.Rate.MaxRequests, cfg.RateWindow())
		default:
			limiter = rate.NewMemoryLimiter(cfg.Rate.MaxRequests, cfg.RateWindow())
		}
	}

	deps := map[string]healthctrl.Pinger{}
	if pinger != nil {
		deps["store"] = pinger
	}

	handler := router.New(router.Deps{
		Auth:    authctrl.NewControllers(b),
		Health:  healthctrl.NewHealthController(deps),
		Limiter: limiter,
	})

	srv := httpserver.NewServer(cfg.Server.Addr, handler)

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening",
			logger.String("addr", cfg.Server.Addr),
			logger.Count(len(registry.Names())),
		)
		errCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// buildRegistry registers every supported provider adapter.
func buildRegistry() *providers.Registry {
	hc := providers.DefaultHTTPClient()
	return providers.NewRegistry(
		google.New(hc),
		github.New(hc),
		facebook.New(hc),
		microsoft.New(hc),
		discord.New(hc),
		instagram.New(hc),
		vk.New(hc),
		twitch.New(hc),
		weixin.New(hc),
		twitter.New(hc),
		apple.New(hc),
	)
}

func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); err != nil {
		// Run from env + defaults when there is no config file.
		return config.Default(), nil
	}
	return config.Load(path)
}

func buildStore(ctx context.Context, cfg *config.Config) (store.UserStore, healthctrl.Pinger, func(), error) {
	switch cfg.Storage.Driver {
	case "postgres":
		st, err := pg.Connect(ctx, cfg.Storage.DSN)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		return st, st, st.Close, nil
	case "memory", "":
		return memory.New(), nil, func() {}, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

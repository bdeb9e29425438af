package main

import (
	"context"
	"os"
	"strings"

	"github.com/fekuna/omnipos-register/config"
	"github.com/fekuna/omnipos-register/internal/checkout"
	"github.com/fekuna/omnipos-register/internal/events"
	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/reconcile"
	reconRepo "github.com/fekuna/omnipos-register/internal/reconcile/repository"
	"github.com/fekuna/omnipos-register/internal/register"
	"github.com/fekuna/omnipos-register/internal/snapshot"
	snapRepo "github.com/fekuna/omnipos-register/internal/snapshot/repository"
	"github.com/fekuna/omnipos-register/internal/telemetry"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app is everything one command invocation needs, built from the
// environment and torn down when the command returns.
type app struct {
	cfg     *config.Config
	log     logger.ZapLogger
	reg     *register.Register
	remote  *reconRepo.PGRepository // Nil when sync is not configured
	closers []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func newApp(ctx context.Context) (*app, error) {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg, err := config.LoadEnv()
	if err != nil {
		return nil, &exitErr{code: 1, err: err}
	}
	a := &app{cfg: cfg}

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "development" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = "console"
		logConfig.Level = "debug"
	}
	a.log = logger.NewZapLogger(logConfig)
	a.closers = append(a.closers, func() { _ = a.log.Sync() })

	// 3. Initialize Tracing
	shutdown, err := telemetry.Setup(telemetry.Config{
		Enabled:     cfg.Telemetry.Enabled,
		ServiceName: "omnipos-register",
		Writer:      os.Stderr,
	})
	if err != nil {
		a.close()
		return nil, err
	}
	a.closers = append(a.closers, func() { _ = shutdown(context.Background()) })

	// 4. Initialize Redis (snapshot store and/or variant lock)
	var redisClient *redis.Client
	if cfg.Snapshot.Driver == "redis" || cfg.Lock.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			redisClient.Close()
			a.close()
			return nil, err
		}
		a.closers = append(a.closers, func() { redisClient.Close() })
		a.log.Debug("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	}

	// 5. Initialize Snapshot Repository
	var repo snapshot.Repository
	switch cfg.Snapshot.Driver {
	case "redis":
		repo = snapRepo.NewRedisRepository(redisClient, cfg.Snapshot.RedisKey)
	default:
		repo = snapRepo.NewFileRepository(cfg.Snapshot.Path)
	}

	// 6. Connect to Remote Store
	var remoteRepo reconcile.Repository
	if cfg.Remote.Enabled() {
		db, err := reconRepo.NewPostgres(&reconRepo.Config{
			DatabaseURL:  cfg.Remote.DatabaseURL,
			Password:     cfg.Remote.Password,
			MaxOpenConns: cfg.Remote.MaxOpenConns,
			MaxIdleConns: cfg.Remote.MaxIdleConns,
			PingTimeout:  cfg.Remote.Timeout,
		})
		if err != nil {
			a.log.Warn("Could not connect to remote store (sync disabled)", zap.Error(err))
		} else {
			a.closers = append(a.closers, func() { db.Close() })
			a.remote = reconRepo.NewPGRepository(db, cfg.Remote.Timeout)
			remoteRepo = a.remote
			a.log.Debug("Connected to remote store")
		}
	}

	// 7. Initialize Sale Event Publisher
	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kp := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		a.closers = append(a.closers, func() { _ = kp.Close() })
		publisher = kp
		a.log.Debug("Kafka publisher ready", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	// 8. Initialize Variant Lock
	var locker checkout.Locker
	if cfg.Lock.Enabled {
		locker = checkout.NewRedisLocker(redisClient, cfg.Lock.TTL, cfg.Lock.Retries)
	}

	// 9. Open Register
	seed := model.Settings{
		StoreName:         cfg.Register.StoreName,
		Currency:          cfg.Register.Currency,
		TaxRate:           cfg.Register.TaxRate,
		LowStockThreshold: cfg.Register.LowStockThreshold,
		PaymentProfile:    cfg.Register.PaymentProfile,
	}
	var remoteSvc reconcile.UseCase
	if remoteRepo != nil {
		remoteSvc = reconcile.NewService(remoteRepo, a.log)
	}
	a.reg, err = register.Open(ctx, repo, a.log, register.Options{
		Seed:      &seed,
		Remote:    remoteSvc,
		Locker:    locker,
		Publisher: publisher,
	})
	if err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

// run builds the app, runs fn and, when save is set and fn succeeded,
// persists the snapshot.
func run(save bool, fn func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		a, err := newApp(ctx)
		if err != nil {
			return classify(err)
		}
		defer a.close()

		if err := fn(ctx, cmd, a, args); err != nil {
			return classify(err)
		}
		if save {
			return classify(a.reg.Save(ctx))
		}
		return nil
	}
}

// formatFor picks the explicit format, else infers one from path.
func formatFor(flag, path string) (snapshot.Format, error) {
	if flag == "" {
		lower := strings.ToLower(path)
		if strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") {
			return snapshot.FormatYAML, nil
		}
	}
	return snapshot.ParseFormat(flag)
}

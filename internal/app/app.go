package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/oblipix/viagemimpacta/internal/config"
	"github.com/oblipix/viagemimpacta/internal/hotel"
	"github.com/oblipix/viagemimpacta/internal/idgen/uuidgen"
	"github.com/oblipix/viagemimpacta/internal/inventory"
	"github.com/oblipix/viagemimpacta/internal/logger"
	"github.com/oblipix/viagemimpacta/internal/migration"
	"github.com/oblipix/viagemimpacta/internal/promo"
	"github.com/oblipix/viagemimpacta/internal/search"
	"github.com/oblipix/viagemimpacta/internal/storage/memory"
	"github.com/oblipix/viagemimpacta/internal/storage/mysql"
	"github.com/oblipix/viagemimpacta/internal/storage/postgres"
	redisstore "github.com/oblipix/viagemimpacta/internal/storage/redis"
	"github.com/oblipix/viagemimpacta/internal/transport/web"
)

func openStore(ctx context.Context, l *logger.Logger, cfg config.Config) (inventory.Store, func(), error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		return memory.New(memory.Config{L: l}), func() {}, nil

	case config.DriverMySQL:
		adapter, err := mysql.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open mysql store: %w", err)
		}

		if err := adapter.EnsureSchema(ctx); err != nil {
			return nil, nil, fmt.Errorf("ensure mysql schema: %w", err)
		}

		return adapter, func() {
			if err := adapter.Close(); err != nil {
				l.LogErrorf("Failed to close mysql store: %v", err.Error())
			}
		}, nil

	case config.DriverPostgres:
		adapter, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres store: %w", err)
		}

		if err := adapter.EnsureSchema(ctx); err != nil {
			adapter.Close()

			return nil, nil, fmt.Errorf("ensure postgres schema: %w", err)
		}

		return adapter, adapter.Close, nil

	case config.DriverRedis:
		client := goredis.NewClient(&goredis.Options{ //nolint:exhaustruct
			Addr: cfg.RedisAddr,
		})

		if err := client.Ping(ctx).Err(); err != nil {
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}

		return redisstore.New(client), func() {
			if err := client.Close(); err != nil {
				l.LogErrorf("Failed to close redis client: %v", err.Error())
			}
		}, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// Seed applies the demo data to the configured store and exits. Catalog
// and promo codes live in process memory, so serving processes re-seed
// them at startup via SEED_DEMO; this command persists the ledger rows.
func Seed(ctx context.Context, l *logger.Logger) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store, closeStore, err := openStore(ctx, l, cfg)
	if err != nil {
		return fmt.Errorf("open %v store: %w", cfg.StorageDriver, err)
	}
	defer closeStore()

	catalog := hotel.NewCatalog()
	ledger := inventory.NewLedger(catalog, store)

	if err := migration.Up(ctx, l, catalog, ledger, promo.New()); err != nil {
		return fmt.Errorf("up demo seed: %w", err)
	}

	l.LogInfo("Demo seed has been applied")

	return nil
}

//nolint:funlen // linear wiring
func Run(l *logger.Logger) error {
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGHUP,
	)
	defer cancel()

	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store, closeStore, err := openStore(ctx, l, cfg)
	if err != nil {
		return fmt.Errorf("open %v store: %w", cfg.StorageDriver, err)
	}
	defer closeStore()

	catalog := hotel.NewCatalog()
	ledger := inventory.NewLedger(catalog, store)
	simulator := inventory.NewSimulator(l, catalog, ledger, uuidgen.New())
	query := inventory.NewQueryService(catalog, ledger)
	engine := search.NewEngine(catalog)
	promos := promo.New()

	if cfg.SeedDemo {
		if err := migration.Up(ctx, l, catalog, ledger, promos); err != nil {
			return fmt.Errorf("up demo seed: %w", err)
		}

		l.LogInfo("Demo seed has been applied")
	}

	webConf := web.Conf{
		L:                 l,
		ServerLogger:      log.Default(),
		Host:              cfg.HTTPHost,
		Port:              cfg.HTTPPort,
		ReadHeaderTimeout: 20, //nolint:gomnd
		LivenessEndpoint:  "/liveness",
	}

	srv, err := web.New(ctx, webConf, web.Deps{
		Catalog:   catalog,
		Ledger:    ledger,
		Simulator: simulator,
		Query:     query,
		Engine:    engine,
		Promos:    promos,
	})
	if err != nil {
		return fmt.Errorf("init http server: %w", err)
	}

	//nolint:contextcheck
	go func() {
		<-ctx.Done()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second*4) //nolint:gomnd
		defer cancel()

		if err := srv.Srv().Shutdown(ctx); err != nil {
			l.LogErrorf("Failed to stop http server: %v", err.Error())
		}
	}()

	l.LogInfo("Application is running on %v:%v...", webConf.Host, webConf.Port)

	if err := srv.Srv().ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		l.LogErrorf("Failed to run http server: %v", err.Error())

		cancel()
	}

	l.LogInfo("Application stopped gracefully")

	return nil
}

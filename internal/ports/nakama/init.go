package nakama

import (
	"context"
	"database/sql"
	"fmt"

	"memorygarden/internal/app/garden"
	"memorygarden/internal/app/onboarding"
	"memorygarden/internal/app/stats"
	"memorygarden/internal/config"
	"memorygarden/internal/ports"
	"memorygarden/internal/ports/sqlitekv"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule wires RPCs, the match handler and auth hooks for Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	if err := config.Load(env); err != nil {
		logger.Error("InitModule: Invalid configuration: %v", err)
		return err
	}
	cfg := config.Get()

	store, seeder, err := openStore(cfg, nk)
	if err != nil {
		logger.Error("InitModule: %v", err)
		return err
	}
	statsSvc := stats.NewService(store)
	gardens := garden.NewService(store)
	if seeder == nil {
		seeder = gardens
	}

	if err := RegisterRPCs(initializer, statsSvc, gardens, cfg.RecentLimit); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameMemory, func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
		return newMatchHandler(statsSvc, gardens, cfg.TickRate), nil
	}); err != nil {
		return err
	}

	if err := initializer.RegisterAfterAuthenticateDevice(afterAuthenticateDevice(seeder)); err != nil {
		return err
	}

	logger.Info("Memory garden Go module loaded (store=%s, tick_rate=%d).", cfg.StoreBackend, cfg.TickRate)
	return nil
}

// openStore picks the persistence backend. The Nakama backend also returns its
// create-only garden seeder; other backends seed through garden.Service.
func openStore(cfg config.Config, nk runtime.NakamaModule) (ports.KeyValueStore, onboarding.GardenSeeder, error) {
	switch cfg.StoreBackend {
	case config.BackendSQLite:
		store, err := sqlitekv.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return store, nil, nil
	default:
		return NewNakamaStorageAdapter(nk), NewNakamaGardenSeeder(nk), nil
	}
}

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/skorlabs/skorstaking/internal/auth"
	"github.com/skorlabs/skorstaking/internal/clock"
	"github.com/skorlabs/skorstaking/internal/config"
	"github.com/skorlabs/skorstaking/internal/db"
	"github.com/skorlabs/skorstaking/internal/db/memdb"
	dbmodel "github.com/skorlabs/skorstaking/internal/db/model"
	"github.com/skorlabs/skorstaking/internal/queue"
	"github.com/skorlabs/skorstaking/internal/services"
)

// runtime holds everything a command needs to run service operations.
type runtime struct {
	cfg     *config.Config
	db      db.DbInterface
	clock   clock.Clock
	ntp     *clock.NTPClock
	queue   *queue.QueueManager
	service *services.Service
	mongo   *db.Database
}

func loadConfig() (*config.Config, error) {
	cfgPath := GetConfigPath()
	cfg, err := config.New(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("error while loading config file %s: %w", cfgPath, err)
	}
	if cfg.LogLevel != "" {
		level, _ := zerolog.ParseLevel(cfg.LogLevel)
		zerolog.SetGlobalLevel(level)
	}
	return cfg, nil
}

func newRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	rt := &runtime{cfg: cfg}

	switch cfg.Db.Backend {
	case config.MemoryBackend:
		log.Ctx(ctx).Warn().Msg("using the in-memory store, state is lost on exit")
		rt.db = memdb.New()
	default:
		if err := dbmodel.Setup(ctx, &cfg.Db); err != nil {
			return nil, fmt.Errorf("error while setting up staking db model: %w", err)
		}
		dbClient, err := db.New(ctx, cfg.Db)
		if err != nil {
			return nil, fmt.Errorf("error while creating db client: %w", err)
		}
		rt.mongo = dbClient
		rt.db = dbClient
	}
	rt.db = db.NewDbWithMetrics(rt.db)

	if cfg.Clock.NTPServer != "" {
		rt.ntp = clock.NewNTPClock(cfg.Clock.NTPServer, cfg.Clock.Timeout)
		rt.clock = clock.NewMonotonic(rt.ntp)
	} else {
		rt.clock = clock.NewMonotonic(clock.SystemClock{})
	}

	rt.queue, err = queue.NewQueueManager(&cfg.Queue)
	if err != nil {
		return nil, fmt.Errorf("error while creating queue manager: %w", err)
	}

	rt.service = services.NewService(cfg, rt.db, rt.clock, rt.queue)
	return rt, nil
}

func (rt *runtime) Close() {
	rt.queue.Shutdown()
	if rt.mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := rt.mongo.Close(ctx); err != nil {
			log.Error().Err(err).Msg("failed to disconnect from mongo")
		}
	}
}

// signingKeypair loads the --keypair flag or the configured admin keypair.
func (rt *runtime) signingKeypair(cmd *cobra.Command) (*auth.Keypair, error) {
	path, _ := cmd.Flags().GetString("keypair")
	if path == "" {
		path = rt.cfg.Staking.AdminKeypair
	}
	if path == "" {
		return nil, errors.New("no keypair: set --keypair or staking.admin-keypair")
	}
	return auth.LoadKeypair(path)
}

// syncClock takes one NTP sample so one-shot commands use corrected time.
func (rt *runtime) syncClock(ctx context.Context) {
	if rt.ntp == nil {
		return
	}
	if err := rt.ntp.Sync(ctx); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("clock sync failed, using system time")
	}
}

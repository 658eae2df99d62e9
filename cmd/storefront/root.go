package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yashrajoria/storefront-session/clients"
	"github.com/yashrajoria/storefront-session/common/logger"
	"github.com/yashrajoria/storefront-session/config"
	"github.com/yashrajoria/storefront-session/database"
	"github.com/yashrajoria/storefront-session/services"
	"go.uber.org/zap"
)

// app is what every subcommand runs against.
type app struct {
	configDir string
	cfg       config.Config
	log       *zap.Logger
	kv        database.KeyValueStore
	api       *clients.APIClient
	store     *services.SessionCartStore
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Session, cart and favorites for the storefront API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&a.configDir, "config", ".", "directory holding storefront.yaml")

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newRegisterCmd(a),
		newWhoamiCmd(a),
		newStoreCmd(a),
		newCartCmd(a),
		newFavoriteCmd(a),
	)
	return root
}

func (a *app) open(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(a.configDir)
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.log, err = logger.New(cfg.Env)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}

	opts := []database.StoreOption{database.WithSQLitePath(cfg.SQLitePath)}
	if cfg.RedisURL != "" {
		opts = append(opts, database.WithRedisURL(cfg.RedisURL))
	}
	a.kv, err = database.NewStore(ctx, database.StoreType(cfg.StoreDriver), opts...)
	if err != nil {
		return fmt.Errorf("opening %s store: %w", cfg.StoreDriver, err)
	}

	a.api = clients.NewAPIClient(cfg.APIBaseURL, cfg.RequestTimeout, a.log)
	a.store = services.NewSessionCartStore(a.api, a.kv,
		services.WithLogger(a.log),
		services.WithKeyPrefix(cfg.KeyPrefix),
		services.WithRequestTimeout(cfg.RequestTimeout),
	)
	a.store.Initialize(ctx)
	return nil
}

// close releases what open acquired. It is safe to call when open never ran.
func (a *app) close() error {
	if a.log != nil {
		_ = a.log.Sync()
	}
	if a.kv == nil {
		return nil
	}
	return a.kv.Close()
}

// authed returns an API client carrying the session token.
func (a *app) authed() *clients.APIClient {
	return a.api.WithToken(a.store.Token())
}

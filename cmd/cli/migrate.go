package cli

import (
	"context"
	"fmt"

	"vendor-booking/internal/handler/middleware"
	"vendor-booking/internal/infra/db"
	"vendor-booking/internal/migrate"
	"vendor-booking/internal/pkg/config"
	"vendor-booking/migrations"

	"github.com/spf13/cobra"
)

const (
	engineBuiltin = "builtin"
	engineAtlas   = "atlas"
)

func newMigrateCmd() *cobra.Command {
	var (
		engine   string
		atlasDir string
		atlasBin string
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if cfg.Store.Driver != config.StoreDriverPostgres {
				return fmt.Errorf("migrate needs STORE_DRIVER=%s, got %q", config.StoreDriverPostgres, cfg.Store.Driver)
			}

			switch engine {
			case engineBuiltin:
				return runBuiltinMigrations(cmd.Context(), cfg)
			case engineAtlas:
				logger := middleware.NewLogger(cfg.Log)
				applied, err := migrate.UpWithAtlas(cmd.Context(), migrate.AtlasOptions{
					Binary: atlasBin,
					DirURL: atlasDir,
					URL:    cfg.DB.BuildDSN(),
				}, logger)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", len(applied))
				return nil
			default:
				return fmt.Errorf("unknown migration engine %q (want %s or %s)", engine, engineBuiltin, engineAtlas)
			}
		},
	}

	cmd.Flags().StringVar(&engine, "engine", engineBuiltin, "migration engine: builtin or atlas")
	cmd.Flags().StringVar(&atlasDir, "atlas-dir", "file://migrations", "atlas migration directory URL")
	cmd.Flags().StringVar(&atlasBin, "atlas-bin", "atlas", "path to the atlas binary")
	return cmd
}

func runBuiltinMigrations(ctx context.Context, cfg config.Config) error {
	logger := middleware.NewLogger(cfg.Log)

	pool, cleanup, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer cleanup()

	applied, err := migrate.Up(ctx, pool, migrations.FS, logger)
	if err != nil {
		return err
	}
	logger.Info("migrations applied", "count", len(applied))
	return nil
}

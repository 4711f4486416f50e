package cli

import (
	"context"
	"fmt"
	"log/slog"

	"vendor-booking/cmd/bootstrap"
	"vendor-booking/internal/pkg/config"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func newServeCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the notification relay",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}

			if migrate && cfg.Store.Driver == config.StoreDriverPostgres {
				if err := runBuiltinMigrations(cmd.Context(), cfg); err != nil {
					return err
				}
			}

			app := fx.New(bootstrap.Module(cfg))
			if err := app.Start(cmd.Context()); err != nil {
				return fmt.Errorf("failed to start application: %w", err)
			}

			sig := <-app.Wait()

			stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
			defer cancel()
			if err := app.Stop(stopCtx); err != nil {
				slog.Error("failed to stop application cleanly", "error", err)
			}

			if sig.ExitCode != 0 {
				return fmt.Errorf("application exited with code %d", sig.ExitCode)
			}
			slog.Info("application stopped")
			return nil
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before serving")
	return cmd
}

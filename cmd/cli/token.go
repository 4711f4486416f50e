package cli

import (
	"fmt"
	"time"

	"vendor-booking/internal/domain/actor"
	"vendor-booking/internal/pkg/config"
	"vendor-booking/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	var (
		subject string
		role    string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token signed with AUTH_JWT_SECRET for local testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}

			r, err := actor.NewRole(role)
			if err != nil {
				return err
			}
			id := uuid.New()
			if subject != "" {
				if id, err = uuid.Parse(subject); err != nil {
					return fmt.Errorf("invalid --subject: %w", err)
				}
			}

			token, err := jwt.NewService(cfg.Auth.Secret, cfg.Auth.Issuer).GenerateToken(id, r, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "subject=%s role=%s\n%s\n", id, r, token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "user or vendor id (random when empty)")
	cmd.Flags().StringVar(&role, "role", "couple", "couple, vendor or admin")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}

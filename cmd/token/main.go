package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gdugdh24/dejavu-backend/internal/usecase/auth"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCommand mints access tokens for local testing against the API.
func newRootCommand() *cobra.Command {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()
	v.SetDefault("JWT_ACCESS_EXPIRY_MIN", 24*60)

	cmd := &cobra.Command{
		Use:          "token --user-id ID",
		Short:        "Issue a bearer token for a user",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = v.ReadInConfig()

			userID, _ := cmd.Flags().GetInt("user-id")
			if userID <= 0 {
				return fmt.Errorf("--user-id must be positive")
			}
			secret := v.GetString("JWT_ACCESS_SECRET")
			if len(secret) < 32 {
				return fmt.Errorf("JWT_ACCESS_SECRET must be at least 32 characters")
			}

			ttl := time.Duration(v.GetInt("JWT_ACCESS_EXPIRY_MIN")) * time.Minute
			token, expiresAt, err := auth.NewTokenService(secret, ttl).Issue(userID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", expiresAt.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().Int("user-id", 0, "user the token identifies")
	cmd.Flags().Int("expiry-min", 0, "token lifetime in minutes (default JWT_ACCESS_EXPIRY_MIN)")
	_ = v.BindPFlag("JWT_ACCESS_EXPIRY_MIN", cmd.Flags().Lookup("expiry-min"))
	return cmd
}

package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/JackVitick/Socialync/internal/identity"
)

// newSessionCmd emite cookies de sesión para desarrollo local.
func newSessionCmd(opts *rootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Utilidades de sesión",
	}

	var user string
	var ttl time.Duration
	issue := &cobra.Command{
		Use:   "issue",
		Short: "Firma una cookie de sesión HS256 con SESSION_SIGNING_KEY",
		RunE: func(cmd *cobra.Command, args []string) error {
			if user == "" {
				return errors.New("--user is required")
			}
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if cfg.Identity.SessionKey == "" {
				return errors.New("SESSION_SIGNING_KEY is not set")
			}
			raw, err := identity.SignSession([]byte(cfg.Identity.SessionKey), user, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", cfg.Identity.SessionCookie, raw)
			return nil
		},
	}
	issue.Flags().StringVar(&user, "user", "", "User id a firmar como sub")
	issue.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Vida de la sesión")

	cmd.AddCommand(issue)
	return cmd
}

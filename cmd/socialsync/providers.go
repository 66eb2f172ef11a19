package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JackVitick/Socialync/internal/providers"
)

func newProvidersCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "Lista las plataformas configuradas y si tienen credenciales",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			reg, err := providers.Load(cfg.App.BaseURL, nil)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "PLATFORM\tCREDENTIALS\tAUTHORIZE\tREDIRECT_URI")
			for _, c := range reg.List() {
				creds := "missing (" + c.ClientIDEnv + ", " + c.ClientSecretEnv + ")"
				if c.HasCredentials() {
					creds = "ok"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Platform, creds, c.AuthURL, c.RedirectURI)
			}
			return tw.Flush()
		},
	}
}

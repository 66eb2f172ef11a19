package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/JackVitick/Socialync/internal/http/server"
	svc "github.com/JackVitick/Socialync/internal/http/services/connections"
)

func newConnectionsCmd(opts *rootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "connections",
		Short: "Consulta y baja de conexiones guardadas",
	}

	var listUser string
	list := &cobra.Command{
		Use:   "list",
		Short: "Lista las conexiones de un usuario (sin tokens)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if listUser == "" {
				return errors.New("--user is required")
			}
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			store, closeStore, err := server.OpenConnections(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() { _ = closeStore() }()

			conns, err := svc.NewService(store).List(cmd.Context(), listUser)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "PLATFORM\tPROFILE_ID\tPROFILE_NAME\tEXPIRES\tREFRESH\tUPDATED")
			for _, c := range conns {
				expires := "-"
				if c.ExpiresAt != nil {
					expires = time.UnixMilli(*c.ExpiresAt).UTC().Format(time.RFC3339)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\t%s\n",
					c.Platform, c.ProfileID, c.ProfileName, expires, c.RefreshToken != "",
					c.UpdatedAt.UTC().Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}
	list.Flags().StringVar(&listUser, "user", "", "User id de la aplicación")

	var delUser, delPlatform string
	del := &cobra.Command{
		Use:   "delete",
		Short: "Desconecta una plataforma de un usuario",
		RunE: func(cmd *cobra.Command, args []string) error {
			if delUser == "" || delPlatform == "" {
				return errors.New("--user and --platform are required")
			}
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			store, closeStore, err := server.OpenConnections(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() { _ = closeStore() }()

			if err := svc.NewService(store).Disconnect(cmd.Context(), delUser, delPlatform); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s disconnected for %s\n", delPlatform, delUser)
			return nil
		},
	}
	del.Flags().StringVar(&delUser, "user", "", "User id de la aplicación")
	del.Flags().StringVar(&delPlatform, "platform", "", "facebook|instagram|twitter|tiktok|youtube")

	cmd.AddCommand(list, del)
	return cmd
}

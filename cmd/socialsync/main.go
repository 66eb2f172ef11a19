// Command socialsync sirve el flujo de conexión de cuentas sociales y expone
// comandos operativos sobre el connection store.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JackVitick/Socialync/internal/config"
	"github.com/JackVitick/Socialync/internal/observability/logger"
)

// version se setea con -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type rootOpts struct {
	configPath string
	envFile    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOpts{configPath: os.Getenv("CONFIG_PATH")}

	root := &cobra.Command{
		Use:           "socialsync",
		Short:         "Conexión OAuth de cuentas sociales (facebook, instagram, twitter, tiktok, youtube)",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env es opcional: el entorno del proceso siempre gana.
			if err := godotenv.Load(opts.envFile); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("load %s: %w", opts.envFile, err)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", opts.configPath, "Archivo YAML de configuración (env CONFIG_PATH)")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Archivo .env a cargar si existe")

	root.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newProvidersCmd(opts),
		newConnectionsCmd(opts),
		newSessionCmd(opts),
	)
	return root
}

// load lee la configuración e inicializa el logger global.
func (o *rootOpts) load() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.Log.Level,
		ServiceName: "socialsync",
		Version:     version,
	})
	return cfg, nil
}

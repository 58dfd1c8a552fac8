// Package cli implementa fincactl: migraciones, activación de fincas,
// limpieza de datos y reportes desde la terminal.
package cli

import (
	"context"
	"errors"
	"strings"

	"finca-digital/internal/adapters/storage/sqldb"
	"finca-digital/internal/platform/config"

	"github.com/spf13/cobra"
)

var (
	configPath string
	dbDriver   string
	dbDSN      string
)

// RootCmd es el comando raíz de fincactl.
var RootCmd = &cobra.Command{
	Use:           "fincactl",
	Short:         "Mantenimiento de Finca Digital",
	Long:          "Herramientas de operación: esquema de base de datos, suscripciones de fincas, limpieza y reportes.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Archivo YAML (default: $FINCA_CONFIG)")
	RootCmd.PersistentFlags().StringVar(&dbDriver, "db-driver", "", "postgres | sqlite (default: config/DB_DRIVER)")
	RootCmd.PersistentFlags().StringVar(&dbDSN, "db-dsn", "", "DSN o ruta del archivo sqlite (default: config/DB_DSN)")
}

func loadConfig() (config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	return config.LoadFromEnv()
}

// openStore abre y migra la base indicada por flags o config.
func openStore(ctx context.Context) (*sqldb.Store, config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, cfg, err
	}
	if dbDriver != "" {
		cfg.DB.Driver = dbDriver
	}
	if dbDSN != "" {
		cfg.DB.DSN = dbDSN
	}
	if strings.TrimSpace(cfg.DB.DSN) == "" {
		return nil, cfg, errors.New("no database configured: set --db-dsn or DB_DSN")
	}
	d, err := sqldb.ParseDialect(cfg.DB.Driver)
	if err != nil {
		return nil, cfg, err
	}
	s, err := sqldb.OpenStore(ctx, d, cfg.DB.DSN)
	return s, cfg, err
}

package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/garyjia/erp-gateway/internal/config"
	httpapi "github.com/garyjia/erp-gateway/internal/interfaces/http"
	"github.com/garyjia/erp-gateway/pkg/utils"
)

var version = "1.0.0"

// app holds what every subcommand needs after flags are parsed
type app struct {
	configPath string
	envFile    string

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "erpgateway",
		Short: "HTTP gateway for ERPNext accounting, asset, CRM, stock and POS records",
		Long: `erpgateway exposes CRUD and reporting endpoints backed by a Frappe/ERPNext
server. Credentials come from the config file or the ERP_BASE_URL,
ERP_API_KEY and ERP_API_SECRET environment variables (a .env file is
loaded first when present).`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "configs/config.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "Path to a dotenv file loaded before the config")

	rootCmd.AddCommand(
		newServeCmd(a),
		newReportCmd(a),
		newMigrateCmd(a),
	)
	return rootCmd
}

// setup loads the env file, configuration and logger
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if a.envFile != "" {
		if err := gotenv.Load(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load env file: %w", err)
		}
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: logOutput(cmd, cfg.Logger.OutputPath),
		Format:     cfg.Logger.Format,
		Service:    "erp-gateway",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	httpapi.Version = version
	a.cfg = cfg
	a.logger = logger
	return nil
}

// logOutput keeps stdout free for commands that print their result there
func logOutput(cmd *cobra.Command, path string) string {
	if cmd.Name() == "report" && (path == "" || path == "stdout") {
		return "stderr"
	}
	return path
}

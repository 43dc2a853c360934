package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/nfrund/stucruum/internal/config"
	"github.com/nfrund/stucruum/internal/logging"
	"github.com/nfrund/stucruum/internal/server"
	"github.com/spf13/cobra"
)

type serveFlags struct {
	envFile   string
	addr      string
	logFormat string
	logLevel  string
}

var flags serveFlags

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server. Settings come from the environment (and a .env
file when present); flags override them.

Required environment:
  SIGNUP_API_URL   base URL of the sign-up API
  SESSION_SECRET   at least 32 characters, signs the cookie sessions`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, flags)
		if err != nil {
			return err
		}
		logging.New(cfg.LogFormat, cfg.LogLevel)

		s, err := server.New(cfg)
		if err != nil {
			return fmt.Errorf("configure server: %w", err)
		}
		s.RegisterRoutes()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return s.Start(ctx)
	},
}

// loadConfig reads the environment and applies the flags the user set.
func loadConfig(cmd *cobra.Command, f serveFlags) (*config.Config, error) {
	var envFiles []string
	if f.envFile != "" {
		envFiles = append(envFiles, f.envFile)
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("addr") {
		cfg.Addr = f.addr
	}
	if cmd.Flags().Changed("log-format") {
		cfg.LogFormat = f.logFormat
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	return cfg, nil
}

func init() {
	serveCmd.Flags().StringVar(&flags.envFile, "env-file", "", "load environment from this file instead of .env")
	serveCmd.Flags().StringVar(&flags.addr, "addr", config.DefaultAddr, "listen address (overrides APP_ADDR)")
	serveCmd.Flags().StringVar(&flags.logFormat, "log-format", config.DefaultLogFormat, "text or json (overrides LOG_FORMAT)")
	serveCmd.Flags().StringVar(&flags.logLevel, "log-level", config.DefaultLogLevel, "debug, info, warn or error (overrides LOG_LEVEL)")

	rootCmd.AddCommand(serveCmd)
}

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alexasparks/6-traits-annotations/internal/config"
	"github.com/alexasparks/6-traits-annotations/internal/logging"
	"github.com/alexasparks/6-traits-annotations/internal/server"
	"github.com/alexasparks/6-traits-annotations/internal/util"
)

type serveOptions struct {
	port    int
	dev     bool
	backend string
	dataDir string
	open    bool
}

func newServeCommand(root *options) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, info, err := config.LoadConfigWithInfo(root.configPath)
			if err != nil {
				return err
			}
			applyServeFlags(cmd, cfg, opts)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			logger, err := logging.New(cfg.Log.Level, cfg.Server.DevMode)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			logger.Info("configuration loaded",
				zap.String("path", info.Path),
				zap.Bool("env_file", info.EnvFileLoaded),
				zap.String("backend", cfg.Sheets.Backend),
				zap.Strings("raters", cfg.RaterCodes()),
			)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, err := server.NewServer(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := srv.Close(); err != nil {
					logger.Warn("close server", zap.Error(err))
				}
			}()

			addr := fmt.Sprintf(":%d", cfg.Server.Port)
			logger.Info("listening", zap.String("addr", addr))

			if opts.open && cfg.Server.FrontendURL != "" {
				if err := util.OpenBrowser(cfg.Server.FrontendURL); err != nil {
					logger.Warn("open browser failed", zap.String("url", cfg.Server.FrontendURL), zap.Error(err))
				}
			}

			return srv.Run(ctx, addr)
		},
	}

	cmd.Flags().IntVarP(&opts.port, "port", "p", 0, "listen port (overrides config and PORT)")
	cmd.Flags().BoolVar(&opts.dev, "dev", false, "development mode (console logs, gin debug)")
	cmd.Flags().StringVar(&opts.backend, "backend", "", "sheets backend: google, xlsx or memory")
	cmd.Flags().StringVar(&opts.dataDir, "data-dir", "", "data directory for the submission log")
	cmd.Flags().BoolVar(&opts.open, "open", false, "open the annotation UI in a browser")
	return cmd
}

// applyServeFlags 显式传入的命令行参数覆盖配置
func applyServeFlags(cmd *cobra.Command, cfg *config.AppConfig, opts *serveOptions) {
	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Server.Port = opts.port
	}
	if flags.Changed("dev") {
		cfg.Server.DevMode = opts.dev
	}
	if flags.Changed("backend") {
		cfg.Sheets.Backend = opts.backend
	}
	if flags.Changed("data-dir") {
		cfg.Data.DataDir = opts.dataDir
	}
}

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"linker/internal/app"
	"linker/internal/config"
	"linker/internal/shortener/domain"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "go.uber.org/automaxprocs"
)

// go build -ldflags "-X main.Version=x.y.z"
var Version = "dev"

var envFile string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "linker",
		Short:        "URL shortener service",
		Version:      Version,
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP server",
			Args:  cobra.NoArgs,
			RunE:  runServe,
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply database migrations and exit",
			Args:  cobra.NoArgs,
			RunE:  runMigrate,
		},
		newSetActiveCmd("activate", "Re-enable redirection for an alias", true),
		newSetActiveCmd("deactivate", "Disable redirection for an alias", false),
	)
	return root
}

// setup loads configuration and builds the process logger.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, err
	}

	var logger *zap.Logger
	if cfg.Mode.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, logger.With(zap.String("version", Version)), nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	application, cleanup, err := initApp(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize application", zap.Error(err))
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		logger.Error("server failed", zap.Error(err))
		return err
	}
	return nil
}

func runMigrate(_ *cobra.Command, _ []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	_, cleanup, err := app.NewDB(cfg, logger)
	if err != nil {
		logger.Error("failed to run migrations", zap.Error(err))
		return err
	}
	cleanup()

	logger.Info("migrations applied")
	return nil
}

func newSetActiveCmd(use, short string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <alias>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			application, cleanup, err := initApp(cfg, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := application.Service.SetActive(cmd.Context(), args[0], active); err != nil {
				if code := domain.ErrorCode(err); code == domain.CodeNotFound {
					return fmt.Errorf("alias %q not found", args[0])
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: active=%t\n", args[0], active)
			return nil
		},
	}
}

// Command stagewatch polls the Splatoon 3 schedule feeds and raises a desktop
// notification whenever the active stages of a category change.
//
// Usage:
//
//	stagewatch run
//	stagewatch run --interval 90s --icon ./icon.ico --status
//	stagewatch once
//	stagewatch categories --categories ./categories.yaml

// @title stagewatch status API
// @version 1.0.0
// @description Read-only view of the schedules stagewatch is tracking and the notifications it has sent.
// @host localhost:8089
// @BasePath /
// @schemes http
// @contact.name stagewatch
// @license.name MIT
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/albapepper/stagewatch/internal/api"
	"github.com/albapepper/stagewatch/internal/cache"
	"github.com/albapepper/stagewatch/internal/config"
	"github.com/albapepper/stagewatch/internal/maintenance"
	"github.com/albapepper/stagewatch/internal/notifications"
	"github.com/albapepper/stagewatch/internal/poller"
	"github.com/albapepper/stagewatch/internal/provider/spla3"
	"github.com/albapepper/stagewatch/internal/schedule"

	_ "github.com/albapepper/stagewatch/docs" // swagger docs
)

var (
	logLevel = new(slog.LevelVar)
	logger   = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	fsys     = afero.NewOsFs()
)

// flags shared by every subcommand
type rootFlags struct {
	interval   string
	icon       string
	categories string
}

func main() {
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	var flags rootFlags
	root := &cobra.Command{
		Use:           "stagewatch",
		Short:         "Desktop notifications for Splatoon 3 schedule changes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.interval, "interval", "", "Poll interval override (e.g. 60s, 2m)")
	root.PersistentFlags().StringVar(&flags.icon, "icon", "", "Path to the notification icon")
	root.PersistentFlags().StringVar(&flags.categories, "categories", "", "YAML file with the categories to poll")

	root.AddCommand(runCmd(&flags))
	root.AddCommand(onceCmd(&flags))
	root.AddCommand(categoriesCmd(&flags))

	if err := root.Execute(); err != nil {
		logger.Error("stagewatch failed", "error", err)
		os.Exit(1)
	}
}

// loadConfig merges environment configuration with command line overrides.
func loadConfig(flags *rootFlags) (*config.Config, []config.Category, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	if cfg.Debug {
		logLevel.Set(slog.LevelDebug)
	}

	if flags.interval != "" {
		d, err := config.ParseDuration(flags.interval)
		if err != nil {
			return nil, nil, fmt.Errorf("--interval: %w", err)
		}
		cfg.PollInterval = d
	}
	if flags.icon != "" {
		cfg.IconPath = flags.icon
	}
	if flags.categories != "" {
		cfg.CategoriesFile = flags.categories
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	cats, err := config.LoadCategories(fsys, cfg.CategoriesFile)
	if err != nil {
		return nil, nil, err
	}
	return cfg, cats, nil
}

func categoryNames(cats []config.Category) []string {
	names := make([]string, 0, len(cats))
	for _, c := range cats {
		names = append(names, c.Name)
	}
	return names
}

// --------------------------------------------------------------------------
// run command
// --------------------------------------------------------------------------

func runCmd(flags *rootFlags) *cobra.Command {
	var (
		status     bool
		statusAddr string
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Poll every category until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cats, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("status") {
				cfg.StatusEnabled = status
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			board := schedule.NewBoard(categoryNames(cats), cfg.RecentNotifications)

			var sender notifications.Sender
			if cfg.DesktopNotifications {
				sender = notifications.NewDesktopSender(fsys, cfg.IconPath, cfg.NotifyTimeout, logger)
			} else {
				sender = notifications.NewLogSender(logger)
			}
			dispatcher := notifications.NewDispatcher(sender, cfg.Location, board, logger)
			client := spla3.NewClient(cfg.HTTPTimeout, cfg.RequestsPerMinute, logger)

			p := poller.New(cats, client, dispatcher, board, poller.Config{
				Interval: cfg.PollInterval,
				LeadTime: cfg.LeadTime,
			}, logger)

			var srv *http.Server
			if cfg.StatusEnabled {
				addr := cfg.StatusAddr()
				if statusAddr != "" {
					addr = statusAddr
				}
				appCache := cache.New(true)
				go maintenance.Start(ctx, appCache, board, maintenance.DefaultConfig(cfg.PollInterval), logger)

				srv = &http.Server{
					Addr:         addr,
					Handler:      api.NewRouter(board, appCache, cats, cfg),
					ReadTimeout:  10 * time.Second,
					WriteTimeout: 30 * time.Second,
					IdleTimeout:  60 * time.Second,
				}
				go func() {
					logger.Info("Starting status server", "addr", addr,
						"docs", fmt.Sprintf("http://%s/docs/index.html", addr))
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						logger.Error("Status server failed", "error", err)
					}
				}()
			}

			p.Run(ctx)

			if srv != nil {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer shutdownCancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					logger.Error("Shutdown error", "error", err)
				}
			}
			logger.Info("stagewatch stopped")
			return nil
		},
	}
	cmd.Flags().BoolVar(&status, "status", false, "Serve the read-only status API")
	cmd.Flags().StringVar(&statusAddr, "status-addr", "", "Status API listen address (default STATUS_HOST:STATUS_PORT)")
	return cmd
}

// --------------------------------------------------------------------------
// once command
// --------------------------------------------------------------------------

func onceCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "once",
		Short: "Fetch every category once and print the current schedules",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cats, err := loadConfig(flags)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer cancel()

			dispatcher := notifications.NewDispatcher(
				notifications.NewWriterSender(cmd.OutOrStdout()), cfg.Location, nil, logger)
			client := spla3.NewClient(cfg.HTTPTimeout, cfg.RequestsPerMinute, logger)
			p := poller.New(cats, client, dispatcher, nil, poller.Config{
				Interval: cfg.PollInterval,
				LeadTime: cfg.LeadTime,
			}, logger)

			result := p.Cycle(ctx)
			logger.Info("Cycle complete", "duration", result.Duration.Round(time.Millisecond), "summary", result.Summary())
			if result.Failed == len(cats) {
				return fmt.Errorf("every category failed to fetch")
			}
			return nil
		},
	}
}

// --------------------------------------------------------------------------
// categories command
// --------------------------------------------------------------------------

func categoriesCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the configured categories in polling order",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cats, err := loadConfig(flags)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, c := range cats {
				windowed := ""
				if c.Windowed {
					windowed = " (only while active)"
				}
				fmt.Fprintf(out, "%d. %s\t%s%s\n", i+1, c.Name, c.URL, windowed)
			}
			return nil
		},
	}
}

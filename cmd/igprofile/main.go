package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/ig-profile-api/internal/config"
	collyfetcher "github.com/JakeFAU/ig-profile-api/internal/fetcher/colly"
	"github.com/JakeFAU/ig-profile-api/internal/logging"
	"github.com/JakeFAU/ig-profile-api/internal/profile"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd creates the root command and its subcommands.
func newRootCmd() *cobra.Command {
	var cfgFile string
	cmd := &cobra.Command{
		Use:   "igprofile",
		Short: "Proxy for public Instagram profile metadata.",
		Long: `igprofile looks up public Instagram profiles, first through the structured
web profile endpoint and then, if that is unavailable, by scraping the public
profile page. Results are normalized into a fixed JSON shape.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML); env vars use the IGPROFILE_ prefix")

	cmd.AddCommand(newServeCmd(&cfgFile))
	cmd.AddCommand(newFetchCmd(&cfgFile))
	return cmd
}

// bootstrap loads config and builds the logger shared by every subcommand.
func bootstrap(cfgFile string) (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("init logger: %w", err)
	}
	zap.ReplaceGlobals(logger)
	return cfg, logger, nil
}

func newProfileService(cfg config.Config, logger *zap.Logger) *profile.Service {
	fetcher := collyfetcher.New(collyfetcher.Config{
		UserAgent: cfg.Upstream.UserAgent,
		Timeout:   cfg.UpstreamTimeout(),
	})
	return profile.NewService(fetcher, cfg.Profile(), logger.Named("profile"))
}

func syncLogger(logger *zap.Logger) {
	if err := logger.Sync(); err != nil {
		fmt.Fprintf(os.Stderr, "logger sync failed: %v\n", err)
	}
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"bpdash/internal/config"
	"bpdash/internal/logging"
	"bpdash/internal/reading"
	"bpdash/internal/source"
	"bpdash/internal/store"
	"bpdash/internal/web"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose     bool
	openBrowser bool
	cfg         *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "bpdash",
	Short: "bpdash serves a blood pressure dashboard over a raw reading feed",
	Long: `bpdash fetches raw blood pressure readings, normalizes them into validated
records with derived vitals (pulse pressure, MAP, clinical categories), and
serves the dashboard's JSON analytics API.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("bpdash starting")
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

// Execute runs the CLI.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.Flags().BoolVar(&openBrowser, "open", false, "open the dashboard in a browser after startup")
}

// loadReadings pulls the raw payload from the configured source and
// normalizes it. A local file takes precedence over the remote feed.
func loadReadings(ctx context.Context) (reading.Result, error) {
	var (
		raw []reading.RawReading
		err error
	)
	switch {
	case cfg.DataFile != "":
		raw, err = source.ReadFile(cfg.DataFile)
	case cfg.DataURL != "":
		raw, err = source.NewLoader(cfg.DataURL, cfg.FetchTimeout).Fetch(ctx)
	default:
		err = errors.New("no data source configured, set BP_DATA_URL or BP_DATA_FILE")
	}
	if err != nil {
		return reading.Result{}, err
	}
	return reading.Normalize(raw), nil
}

func runServe(ctx context.Context) error {
	res, err := loadReadings(ctx)
	if err != nil {
		return fmt.Errorf("initial load failed: %w", err)
	}

	s := store.New()
	s.Replace(res)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return web.Serve(ctx, cfg.ListenAddr, s)
	})

	if openBrowser || cfg.OpenBrowser {
		g.Go(func() error {
			// Give the listener a beat before pointing a browser at it.
			select {
			case <-time.After(300 * time.Millisecond):
			case <-ctx.Done():
				return nil
			}
			url := dashboardURL(cfg.ListenAddr)
			if err := browser.OpenURL(url); err != nil {
				log.Warn().Err(err).Str("url", url).Msg("Could not open browser")
			}
			return nil
		})
	}

	return g.Wait()
}

func dashboardURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/albertkuo/nba-comeback/config"
	"github.com/albertkuo/nba-comeback/db"
	"github.com/albertkuo/nba-comeback/marker"
	"github.com/albertkuo/nba-comeback/nba"
	"github.com/albertkuo/nba-comeback/scrape"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nba-comeback",
		Short: "Download NBA play-by-play score events from stats.nba.com",
		Long: `nba-comeback finds every regular season and playoff game played since the
season recorded in the marker file, downloads the play-by-play of each one and
stores the scoring events (period, clock and both scores) in a sqlite database.

Calls to stats.nba.com are spaced by --delay. The marker file only advances
when the whole run succeeds, so a failed run can simply be started again.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         run,
	}
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	logger := cfg.Logger()
	log.Logger = logger

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := db.Open(cfg.DatabaseFile)
	if err != nil {
		logger.Error().Err(err).Str("db", cfg.DatabaseFile).Msg("opening database")
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error().Err(err).Msg("closing database")
		}
	}()

	client := nba.NewClient(cfg.Timeout)
	pacer := scrape.NewPacer(cfg.Delay)
	runner := &scrape.Runner{
		Enumerator: &scrape.Enumerator{
			Finder:     client,
			Franchises: nba.FranchiseIDs(),
			Pacer:      pacer,
			Logger:     logger,
		},
		Fetcher: &scrape.Fetcher{
			Source: client,
			Pacer:  pacer,
		},
		Marker:      marker.NewStore(cfg.MarkerFile),
		Sink:        store,
		WriteMarker: cfg.WriteMarker,
		Logger:      logger,
	}

	summary, err := runner.Run(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("scrape failed")
		return err
	}
	logger.Info().
		Int("seasons", summary.Seasons).
		Int("regular_games", summary.RegularGames).
		Int("playoff_games", summary.PlayoffGames).
		Int("tables", summary.Tables).
		Int("events", summary.Events).
		Int("marker", summary.Marker).
		Msg("done")
	return nil
}

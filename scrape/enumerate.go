package scrape

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/albertkuo/nba-comeback/nba"
	"github.com/albertkuo/nba-comeback/utils"

	"github.com/rs/zerolog"
)

type GameFinder interface {
	LeagueGameFinder(ctx context.Context, season string, seasonType nba.SeasonType, teamID *int) ([]nba.LeagueGameFinderGame, error)
}

// Enumeration holds the deduplicated game ids found for each season type and
// the marker advanced to the latest regular season year seen.
type Enumeration struct {
	Seasons  []string
	Regular  []string
	Playoffs []string
	Marker   int
}

type Enumerator struct {
	Finder     GameFinder
	Franchises map[int]bool
	Pacer      *Pacer
	Logger     zerolog.Logger
}

// SeasonRange returns one season descriptor ("2019-20") per year in
// [minYear, maxYear).
func SeasonRange(minYear, maxYear int) []string {
	seasons := []string{}
	for y := minYear; y < maxYear; y++ {
		seasons = append(seasons, fmt.Sprintf("%d-%02d", y, (y+1)%100))
	}
	return seasons
}

// Enumerate queries the finder once per season and season type for the
// seasons starting in [minYear, currentYear). marker only seeds the latest
// year seen.
func (e *Enumerator) Enumerate(ctx context.Context, minYear, marker, currentYear int) (*Enumeration, error) {
	seasons := SeasonRange(minYear, currentYear)
	hash := map[nba.SeasonType]map[string]struct{}{}
	latest := marker

	for _, s := range seasons {
		for _, t := range nba.SeasonTypes {
			if err := e.Pacer.Wait(ctx); err != nil {
				return nil, utils.ErrorWithTrace(err)
			}
			games, err := e.Finder.LeagueGameFinder(ctx, s, t, nil)
			e.Pacer.Done()
			if err != nil {
				e.Logger.Error().Err(err).Str("season", s).Str("season_type", string(t)).Msg("finding games")
				return nil, utils.ErrorWithTrace(err)
			}

			if _, exists := hash[t]; !exists {
				hash[t] = map[string]struct{}{}
			}
			kept := 0
			for _, g := range games {
				if t == nba.RegularSeason && g.GameDate != nil {
					year, err := gameYear(*g.GameDate)
					if err != nil {
						return nil, utils.ErrorWithTrace(err)
					}
					latest = max(latest, year)
				}
				if g.TeamID == nil || g.GameID == nil {
					continue
				}
				if !e.Franchises[int(*g.TeamID)] {
					continue
				}
				hash[t][*g.GameID] = struct{}{}
				kept++
			}
			e.Logger.Debug().
				Str("season", s).
				Str("season_type", string(t)).
				Int("rows", len(games)).
				Int("kept", kept).
				Msg("found games")
		}
	}

	return &Enumeration{
		Seasons:  seasons,
		Regular:  slices.Sorted(maps.Keys(hash[nba.RegularSeason])),
		Playoffs: slices.Sorted(maps.Keys(hash[nba.Playoffs])),
		Marker:   latest,
	}, nil
}

func gameYear(gameDate string) (int, error) {
	d, err := time.Parse("2006-01-02", gameDate)
	if err != nil {
		return 0, fmt.Errorf("parsing game date %q: %w", gameDate, err)
	}
	return d.Year(), nil
}

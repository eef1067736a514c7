package scrape

import (
	"context"
	"sync"
	"time"

	"github.com/albertkuo/nba-comeback/nba"
	"github.com/albertkuo/nba-comeback/utils"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// DefaultDelay is the spacing between stats.nba.com calls. Going much faster
// gets requests throttled into timeouts and empty result sets.
const DefaultDelay = time.Second

// Pacer spaces remote calls: the next call may only start once delay has
// passed since the previous one returned, however long that call took.
type Pacer struct {
	mu      sync.Mutex
	delay   time.Duration
	limiter *rate.Limiter
}

// NewPacer returns a pacer for delay. A non-positive delay falls back to
// DefaultDelay so the spacing can never be switched off.
func NewPacer(delay time.Duration) *Pacer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Pacer{
		delay:   delay,
		limiter: rate.NewLimiter(rate.Every(delay), 1),
	}
}

// Wait blocks until the previous call has been followed by a full delay.
func (p *Pacer) Wait(ctx context.Context) error {
	p.mu.Lock()
	limiter := p.limiter
	p.mu.Unlock()
	return limiter.Wait(ctx)
}

// Done marks the end of a call. The limiter refills while a slow call is in
// flight, so it is restarted empty here to charge the delay from now.
func (p *Pacer) Done() {
	limiter := rate.NewLimiter(rate.Every(p.delay), 1)
	limiter.Allow()
	p.mu.Lock()
	p.limiter = limiter
	p.mu.Unlock()
}

// MarkerStore loads the last scraped year; found is false when nothing has
// been saved yet and year is the default starting year.
type MarkerStore interface {
	Load() (year int, found bool, err error)
	Save(year int) error
}

type TableSink interface {
	InsertScoreTable(seasonType nba.SeasonType, table *ScoreTable) error
}

type Summary struct {
	Seasons      int
	RegularGames int
	PlayoffGames int
	Tables       int
	NoData       int
	Events       int
	Marker       int
}

type Runner struct {
	Enumerator  *Enumerator
	Fetcher     *Fetcher
	Marker      MarkerStore
	Sink        TableSink
	WriteMarker bool
	Now         func() time.Time
	Logger      zerolog.Logger
}

// Run enumerates every game since the stored marker, fetches and stores the
// score events of each one, then advances the marker. Nothing is written to
// the marker unless every step succeeded.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}

	marker, found, err := r.Marker.Load()
	if err != nil {
		return nil, utils.ErrorWithTrace(err)
	}
	// a saved year may have been scraped mid-season, so start one season back
	minYear := marker
	if found {
		minYear = marker - 1
	}
	r.Logger.Info().Int("marker", marker).Int("min_year", minYear).Msg("scraping all games")

	enum, err := r.Enumerator.Enumerate(ctx, minYear, marker, now().Year())
	if err != nil {
		return nil, utils.ErrorWithTrace(err)
	}
	summary := &Summary{
		Seasons:      len(enum.Seasons),
		RegularGames: len(enum.Regular),
		PlayoffGames: len(enum.Playoffs),
		Marker:       enum.Marker,
	}
	r.Logger.Info().
		Int("seasons", summary.Seasons).
		Int("regular", summary.RegularGames).
		Int("playoffs", summary.PlayoffGames).
		Msg("scraping play-by-play")

	batches := []struct {
		seasonType nba.SeasonType
		ids        []string
	}{
		{nba.RegularSeason, enum.Regular},
		{nba.Playoffs, enum.Playoffs},
	}
	for _, b := range batches {
		for _, id := range b.ids {
			table, err := r.Fetcher.Fetch(ctx, id)
			if err != nil {
				return nil, utils.ErrorWithTrace(err)
			}
			if table == nil {
				r.Logger.Warn().Str("game_id", id).Msg("no play-by-play data")
				summary.NoData++
				continue
			}
			if err := r.Sink.InsertScoreTable(b.seasonType, table); err != nil {
				return nil, utils.ErrorWithTrace(err)
			}
			summary.Tables++
			summary.Events += len(table.Rows)
			r.Logger.Debug().Str("game_id", id).Int("events", len(table.Rows)).Msg("stored play-by-play")
		}
	}

	if r.WriteMarker && enum.Marker != marker {
		if err := r.Marker.Save(enum.Marker); err != nil {
			return nil, utils.ErrorWithTrace(err)
		}
		r.Logger.Info().Int("marker", enum.Marker).Msg("advanced marker")
	}
	r.Logger.Info().Int("tables", summary.Tables).Int("no_data", summary.NoData).Msg("finished scraping")
	return summary, nil
}

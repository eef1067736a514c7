package scrape

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/albertkuo/nba-comeback/nba"
	"github.com/albertkuo/nba-comeback/utils"
)

var ErrMalformedRow = errors.New("malformed play-by-play row")

var ScoreColumns = []string{"period", "minute", "second", "left_score", "right_score"}

type PlayByPlaySource interface {
	PlayByPlay(ctx context.Context, gameID string) ([]nba.PlayByPlayRow, error)
}

type ScoreEvent struct {
	Period     int
	Minute     int
	Second     int
	LeftScore  int
	RightScore int
}

// ScoreTable is the reduced play-by-play of one game: only the events that
// changed the score, in the order they happened.
type ScoreTable struct {
	GameID  string
	Columns []string
	Rows    []ScoreEvent
}

type Fetcher struct {
	Source PlayByPlaySource
	Pacer  *Pacer
}

// Fetch returns the score events of a game. A nil table with a nil error
// means the source had no play-by-play for the game at all.
func (f *Fetcher) Fetch(ctx context.Context, gameID string) (*ScoreTable, error) {
	if err := f.Pacer.Wait(ctx); err != nil {
		return nil, utils.ErrorWithTrace(err)
	}
	rows, err := f.Source.PlayByPlay(ctx, gameID)
	f.Pacer.Done()
	if err != nil {
		return nil, utils.ErrorWithTrace(err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	table := &ScoreTable{
		GameID:  gameID,
		Columns: slices.Clone(ScoreColumns),
		Rows:    []ScoreEvent{},
	}
	for i, r := range rows {
		if r.Score == nil {
			continue
		}
		event, err := parseScoreEvent(r)
		if err != nil {
			return nil, utils.ErrorWithTrace(fmt.Errorf("game %s row %d: %w", gameID, i, err))
		}
		table.Rows = append(table.Rows, event)
	}
	return table, nil
}

func parseScoreEvent(r nba.PlayByPlayRow) (ScoreEvent, error) {
	if r.Period == nil {
		return ScoreEvent{}, fmt.Errorf("%w: missing period", ErrMalformedRow)
	}
	if r.PCTimeString == nil {
		return ScoreEvent{}, fmt.Errorf("%w: missing clock", ErrMalformedRow)
	}
	minute, second, err := splitInts(*r.PCTimeString, ":")
	if err != nil {
		return ScoreEvent{}, fmt.Errorf("%w: clock %q: %v", ErrMalformedRow, *r.PCTimeString, err)
	}
	left, right, err := splitInts(*r.Score, " - ")
	if err != nil {
		return ScoreEvent{}, fmt.Errorf("%w: score %q: %v", ErrMalformedRow, *r.Score, err)
	}
	return ScoreEvent{
		Period:     int(*r.Period),
		Minute:     minute,
		Second:     second,
		LeftScore:  left,
		RightScore: right,
	}, nil
}

func splitInts(s, sep string) (int, int, error) {
	parts := strings.Split(s, sep)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected 2 fields separated by %q, found %d", sep, len(parts))
	}
	a, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, err
	}
	b, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

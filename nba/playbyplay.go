package nba

import (
	"context"
	"fmt"
	"net/url"

	"github.com/albertkuo/nba-comeback/utils"
)

type PlayByPlayRow struct {
	GameID       *string
	EventNum     *float64
	Period       *float64
	PCTimeString *string
	Score        *string
	ScoreMargin  *string
}

var playByPlayHeaders = []string{
	"GAME_ID",
	"EVENTNUM",
	"PERIOD",
	"PCTIMESTRING",
	"SCORE",
	"SCOREMARGIN",
}

// PlayByPlay returns every event of a game in the order stats.nba.com
// reports them. SCORE is only populated on rows where the score changed.
func (c *Client) PlayByPlay(ctx context.Context, gameID string) ([]PlayByPlayRow, error) {
	if gameID == "" {
		return nil, utils.ErrorWithTrace(fmt.Errorf("empty game id"))
	}
	q := url.Values{}
	q.Set("GameID", gameID)
	q.Set("StartPeriod", "0")
	q.Set("EndPeriod", "14")

	rs, err := c.getResultSet(ctx, fmt.Sprintf("%s/playbyplayv2?%s", c.BaseURL, q.Encode()))
	if err != nil {
		return nil, utils.ErrorWithTrace(err)
	}
	cols, err := rs.columns(playByPlayHeaders...)
	if err != nil {
		return nil, utils.ErrorWithTrace(err)
	}

	rows := make([]PlayByPlayRow, len(rs.RowSet))
	for i, raw := range rs.RowSet {
		rows[i] = PlayByPlayRow{
			GameID:       maybe[string](cell(raw, cols["GAME_ID"])),
			EventNum:     maybe[float64](cell(raw, cols["EVENTNUM"])),
			Period:       maybe[float64](cell(raw, cols["PERIOD"])),
			PCTimeString: maybe[string](cell(raw, cols["PCTIMESTRING"])),
			Score:        maybe[string](cell(raw, cols["SCORE"])),
			ScoreMargin:  maybe[string](cell(raw, cols["SCOREMARGIN"])),
		}
	}
	return rows, nil
}

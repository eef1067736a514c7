package nba

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/albertkuo/nba-comeback/utils"
)

type SeasonType string

const (
	RegularSeason SeasonType = "Regular Season"
	Playoffs      SeasonType = "Playoffs"
)

var SeasonTypes = []SeasonType{
	RegularSeason,
	// "Pre Season",
	Playoffs,
	// "All Star",
}

type LeagueGameFinderGame struct {
	SeasonID         *string
	TeamID           *float64
	TeamAbbreviation *string
	TeamName         *string
	GameID           *string
	GameDate         *string
	Matchup          *string
	WL               *string
	PTS              *float64
}

var leagueGameFinderHeaders = []string{
	"SEASON_ID",
	"TEAM_ID",
	"TEAM_ABBREVIATION",
	"TEAM_NAME",
	"GAME_ID",
	"GAME_DATE",
	"MATCHUP",
	"WL",
	"PTS",
}

// LeagueGameFinder lists one row per team per game for a season and season
// type. A nil teamID asks for every team.
func (c *Client) LeagueGameFinder(ctx context.Context, season string, seasonType SeasonType, teamID *int) ([]LeagueGameFinderGame, error) {
	if utils.IsInvalidSeason(season) {
		return nil, utils.ErrorWithTrace(fmt.Errorf("invalid season provided: %s", season))
	}
	q := url.Values{}
	q.Set("PlayerOrTeam", "T")
	q.Set("LeagueID", "00")
	q.Set("Season", season)
	q.Set("SeasonType", string(seasonType))
	if teamID != nil {
		q.Set("TeamID", strconv.Itoa(*teamID))
	}

	rs, err := c.getResultSet(ctx, fmt.Sprintf("%s/leaguegamefinder?%s", c.BaseURL, q.Encode()))
	if err != nil {
		return nil, utils.ErrorWithTrace(err)
	}
	cols, err := rs.columns(leagueGameFinderHeaders...)
	if err != nil {
		return nil, utils.ErrorWithTrace(err)
	}

	games := make([]LeagueGameFinderGame, len(rs.RowSet))
	for i, raw := range rs.RowSet {
		games[i] = LeagueGameFinderGame{
			SeasonID:         maybe[string](cell(raw, cols["SEASON_ID"])),
			TeamID:           maybe[float64](cell(raw, cols["TEAM_ID"])),
			TeamAbbreviation: maybe[string](cell(raw, cols["TEAM_ABBREVIATION"])),
			TeamName:         maybe[string](cell(raw, cols["TEAM_NAME"])),
			GameID:           maybe[string](cell(raw, cols["GAME_ID"])),
			GameDate:         maybe[string](cell(raw, cols["GAME_DATE"])),
			Matchup:          maybe[string](cell(raw, cols["MATCHUP"])),
			WL:               maybe[string](cell(raw, cols["WL"])),
			PTS:              maybe[float64](cell(raw, cols["PTS"])),
		}
	}
	return games, nil
}

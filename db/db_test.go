package db

import (
	"path/filepath"
	"testing"

	"github.com/albertkuo/nba-comeback/nba"
	"github.com/albertkuo/nba-comeback/scrape"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := Open(filepath.Join(t.TempDir(), "playbyplay.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func (d *DB) selectScoreEvents(t *testing.T, gameID string) []ScoreEventRow {
	t.Helper()
	rows := []ScoreEventRow{}
	err := d.db.Select(&rows, `SELECT * FROM score_events WHERE game_id = ? ORDER BY event_index`, gameID)
	require.NoError(t, err)
	return rows
}

func (d *DB) countScoreEvents(t *testing.T, gameID string) int {
	t.Helper()
	var count int
	require.NoError(t, d.db.Get(&count, `SELECT COUNT(*) FROM score_events WHERE game_id = ?`, gameID))
	return count
}

func TestInsertScoreTable(t *testing.T) {
	d := openTestDB(t)
	table := &scrape.ScoreTable{
		GameID:  "0021900001",
		Columns: scrape.ScoreColumns,
		Rows: []scrape.ScoreEvent{
			{Period: 1, Minute: 11, Second: 34, LeftScore: 2, RightScore: 0},
			{Period: 1, Minute: 10, Second: 58, LeftScore: 2, RightScore: 3},
		},
	}
	require.NoError(t, d.InsertScoreTable(nba.RegularSeason, table))

	assert.Equal(t, []ScoreEventRow{
		{GameID: "0021900001", SeasonType: "Regular Season", EventIndex: 0, Period: 1, Minute: 11, Second: 34, LeftScore: 2, RightScore: 0},
		{GameID: "0021900001", SeasonType: "Regular Season", EventIndex: 1, Period: 1, Minute: 10, Second: 58, LeftScore: 2, RightScore: 3},
	}, d.selectScoreEvents(t, "0021900001"))
}

func TestInsertScoreTableReplacesGame(t *testing.T) {
	d := openTestDB(t)
	first := &scrape.ScoreTable{
		GameID: "G",
		Rows: []scrape.ScoreEvent{
			{Period: 1, Minute: 11, Second: 34, LeftScore: 2, RightScore: 0},
			{Period: 1, Minute: 10, Second: 58, LeftScore: 2, RightScore: 3},
		},
	}
	second := &scrape.ScoreTable{
		GameID: "G",
		Rows: []scrape.ScoreEvent{
			{Period: 1, Minute: 11, Second: 34, LeftScore: 2, RightScore: 0},
		},
	}
	require.NoError(t, d.InsertScoreTable(nba.Playoffs, first))
	require.NoError(t, d.InsertScoreTable(nba.Playoffs, second))

	assert.Equal(t, []ScoreEventRow{
		{GameID: "G", SeasonType: "Playoffs", EventIndex: 0, Period: 1, Minute: 11, Second: 34, LeftScore: 2, RightScore: 0},
	}, d.selectScoreEvents(t, "G"))
	assert.Equal(t, 0, d.countScoreEvents(t, "other"))
}

func TestInsertScoreTableLeavesOtherGames(t *testing.T) {
	d := openTestDB(t)
	require.NoError(t, d.InsertScoreTable(nba.RegularSeason, &scrape.ScoreTable{
		GameID: "A",
		Rows:   []scrape.ScoreEvent{{Period: 1, LeftScore: 2}, {Period: 1, LeftScore: 4}},
	}))
	require.NoError(t, d.InsertScoreTable(nba.RegularSeason, &scrape.ScoreTable{
		GameID: "B",
		Rows:   []scrape.ScoreEvent{{Period: 1, RightScore: 3}},
	}))
	require.NoError(t, d.InsertScoreTable(nba.RegularSeason, &scrape.ScoreTable{
		GameID: "B",
		Rows:   []scrape.ScoreEvent{{Period: 2, RightScore: 5}},
	}))

	assert.Equal(t, 2, d.countScoreEvents(t, "A"))
	assert.Equal(t, 1, d.countScoreEvents(t, "B"))
}

func TestInsertScoreTableAfterClose(t *testing.T) {
	d, err := Open(filepath.Join(t.TempDir(), "playbyplay.db"))
	require.NoError(t, err)
	require.NoError(t, d.Close())

	err = d.InsertScoreTable(nba.RegularSeason, &scrape.ScoreTable{GameID: "G"})
	assert.Error(t, err)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playbyplay.db")
	d, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, d.InsertScoreTable(nba.RegularSeason, &scrape.ScoreTable{
		GameID: "G",
		Rows:   []scrape.ScoreEvent{{Period: 1}},
	}))
	require.NoError(t, d.Close())

	d, err = Open(path)
	require.NoError(t, err)
	defer d.Close()
	assert.Equal(t, 1, d.countScoreEvents(t, "G"))
}

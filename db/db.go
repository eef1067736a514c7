package db

import (
	"fmt"
	"os"

	"github.com/albertkuo/nba-comeback/nba"
	"github.com/albertkuo/nba-comeback/scrape"
	"github.com/albertkuo/nba-comeback/utils"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

const schema = `
	CREATE TABLE IF NOT EXISTS score_events (
		game_id     TEXT    NOT NULL,
		season_type TEXT    NOT NULL,
		event_index INTEGER NOT NULL,
		period      INTEGER NOT NULL,
		minute      INTEGER NOT NULL,
		second      INTEGER NOT NULL,
		left_score  INTEGER NOT NULL,
		right_score INTEGER NOT NULL,
		PRIMARY KEY (game_id, event_index)
	);
`

type ScoreEventRow struct {
	GameID     string `db:"game_id"`
	SeasonType string `db:"season_type"`
	EventIndex int    `db:"event_index"`
	Period     int    `db:"period"`
	Minute     int    `db:"minute"`
	Second     int    `db:"second"`
	LeftScore  int    `db:"left_score"`
	RightScore int    `db:"right_score"`
}

type DB struct {
	db *sqlx.DB
}

func SetupDatabase(path string) error {
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		log.Info().Str("path", path).Msg("database file not found, creating a new database")
		file, err := os.Create(path)
		if err != nil {
			return utils.ErrorWithTrace(err)
		}
		file.Close()
	} else if err != nil {
		return utils.ErrorWithTrace(err)
	}
	return nil
}

// Open creates the database file and score_events table if needed.
func Open(path string) (*DB, error) {
	if err := SetupDatabase(path); err != nil {
		return nil, utils.ErrorWithTrace(err)
	}
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, utils.ErrorWithTrace(err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, utils.ErrorWithTrace(err)
	}
	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

// InsertScoreTable replaces every stored event of the table's game.
func (d *DB) InsertScoreTable(seasonType nba.SeasonType, table *scrape.ScoreTable) error {
	tx, err := d.db.Beginx()
	if err != nil {
		return utils.ErrorWithTrace(err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM score_events WHERE game_id = ?`, table.GameID); err != nil {
		return utils.ErrorWithTrace(err)
	}

	query := `
		INSERT INTO score_events (
			game_id, season_type, event_index, period, minute, second,
			left_score, right_score
		) VALUES (
			:game_id, :season_type, :event_index, :period, :minute, :second,
			:left_score, :right_score
		)
	`
	for i, e := range table.Rows {
		row := ScoreEventRow{
			GameID:     table.GameID,
			SeasonType: string(seasonType),
			EventIndex: i,
			Period:     e.Period,
			Minute:     e.Minute,
			Second:     e.Second,
			LeftScore:  e.LeftScore,
			RightScore: e.RightScore,
		}
		if _, err := tx.NamedExec(query, row); err != nil {
			return utils.ErrorWithTrace(fmt.Errorf("game %s event %d: %w", table.GameID, i, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return utils.ErrorWithTrace(err)
	}
	return nil
}

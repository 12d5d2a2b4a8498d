package database

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"skat-game/internal/game"
	"skat-game/internal/shared"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// Supported database/sql driver names.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

type Service struct {
	db         *sql.DB
	m          *sync.Mutex
	table_name string
	driver     string
}

var tableName = "deals"

// timeLayout sorts lexically in time order.
const timeLayout = "2006-01-02 15:04:05.000000"

const columns = "id, created_at, table_id, player1, player2, player3, first_to_act, playing_player, bid_value, game_type, skat"

// New opens the database and makes sure the deals table exists.
func New(driver, dsn string) (*Service, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	if driver == DriverSQLite {
		// Every sqlite connection to ":memory:" is its own database.
		db.SetMaxOpenConns(1)
	}

	sqlStmt := `
	create table if not exists ` + tableName + ` (
		id text not null primary key,
		created_at text,
		table_id text,
		player1 text,
		player2 text,
		player3 text,
		first_to_act integer,
		playing_player text,
		bid_value integer,
		game_type text,
		skat text
	);
	`
	if _, err = db.Exec(sqlStmt); err != nil {
		db.Close()
		return nil, fmt.Errorf("create %s table: %w", tableName, err)
	}

	return &Service{
		db:         db,
		table_name: tableName,
		driver:     driver,
		m:          &sync.Mutex{},
	}, nil
}

func (s *Service) Close() error {
	return s.db.Close()
}

func (s *Service) TableName() string {
	return s.table_name
}

// rebind turns "?" placeholders into "$1, $2, ..." for postgres.
func (s *Service) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteString("$" + strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func scanResults(rows *sql.Rows) ([]DealResult, error) {
	var results []DealResult
	for rows.Next() {
		var result DealResult
		if err := rows.Scan(
			&result.ID,
			&result.CreatedAt,
			&result.TableID,
			&result.Player1,
			&result.Player2,
			&result.Player3,
			&result.FirstToAct,
			&result.PlayingPlayer,
			&result.BidValue,
			&result.GameType,
			&result.Skat); err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

func (s *Service) GetAll() ([]DealResult, error) {
	s.m.Lock()
	defer s.m.Unlock()
	rows, err := s.db.Query("SELECT " + columns + " FROM " + s.table_name + " ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanResults(rows)
}

func (s *Service) GetByID(id string) (DealResult, error) {
	s.m.Lock()
	defer s.m.Unlock()
	var result DealResult
	err := s.db.QueryRow(s.rebind("SELECT "+columns+" FROM "+s.table_name+" WHERE id = ?"), id).Scan(
		&result.ID,
		&result.CreatedAt,
		&result.TableID,
		&result.Player1,
		&result.Player2,
		&result.Player3,
		&result.FirstToAct,
		&result.PlayingPlayer,
		&result.BidValue,
		&result.GameType,
		&result.Skat)
	if err != nil {
		return DealResult{}, err
	}
	return result, nil
}

func (s *Service) Insert(result DealResult) error {
	s.m.Lock()
	defer s.m.Unlock()
	_, err := s.db.Exec(s.rebind("INSERT INTO "+s.table_name+
		" ("+columns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"),
		result.ID,
		result.CreatedAt,
		result.TableID,
		result.Player1,
		result.Player2,
		result.Player3,
		result.FirstToAct,
		result.PlayingPlayer,
		result.BidValue,
		result.GameType,
		result.Skat)

	return err
}

func (s *Service) GetByPlayer(player_name string) ([]DealResult, error) {
	s.m.Lock()
	defer s.m.Unlock()
	rows, err := s.db.Query(s.rebind("SELECT "+columns+" FROM "+s.table_name+
		" WHERE player1 = ? OR player2 = ? OR player3 = ? ORDER BY created_at"),
		player_name,
		player_name,
		player_name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results, err := scanResults(rows)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, sql.ErrNoRows // No results found
	}

	return results, nil
}

// RecordDeal stores a finished deal; it makes Service a game.Recorder.
func (s *Service) RecordDeal(r game.DealRecord) error {
	return s.Insert(DealResult{
		ID:            r.DealID,
		CreatedAt:     r.CreatedAt.UTC().Format(timeLayout),
		TableID:       r.TableID,
		Player1:       r.Players[0],
		Player2:       r.Players[1],
		Player3:       r.Players[2],
		FirstToAct:    r.FirstToAct,
		PlayingPlayer: r.PlayingPlayer,
		BidValue:      r.BidValue,
		GameType:      r.GameType.String(),
		Skat:          shared.CardsString(r.Skat),
	})
}

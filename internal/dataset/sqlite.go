package dataset

import (
	"database/sql"
	"fmt"
	"log"

	_ "modernc.org/sqlite"

	"github.com/abhi24703/dynamicpricing/internal/model"
)

// SQLiteSource stores and loads historical price records in a SQLite table,
// for operators who keep their history in the same database the recorder
// writes to.
type SQLiteSource struct {
	db *sql.DB
}

// NewSQLiteSource opens (or creates) the SQLite database and ensures the
// records table exists.
func NewSQLiteSource(dbPath string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	s := &SQLiteSource{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.Printf("[INFO] sqlite dataset opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteSource) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS records (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		day_of_week      TEXT NOT NULL,
		is_weekend       INTEGER NOT NULL,
		is_holiday       INTEGER NOT NULL,
		occupancy_rate   REAL NOT NULL,
		competitor_price REAL NOT NULL,
		room_price       REAL NOT NULL
	)`)
	return err
}

func (s *SQLiteSource) Name() string { return "sqlite" }

func (s *SQLiteSource) Load() ([]model.PriceRecord, error) {
	rows, err := s.db.Query(`SELECT day_of_week, is_weekend, is_holiday,
		occupancy_rate, competitor_price, room_price FROM records ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []model.PriceRecord
	for rows.Next() {
		var rec model.PriceRecord
		var weekend, holiday int
		if err := rows.Scan(&rec.Context.DayOfWeek, &weekend, &holiday,
			&rec.Context.OccupancyRate, &rec.Context.CompetitorPrice, &rec.RoomPrice); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.Context.IsWeekend = weekend != 0
		rec.Context.IsHoliday = holiday != 0
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Insert appends records, used by the import command to seed the table from a
// CSV file.
func (s *SQLiteSource) Insert(records []model.PriceRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO records
		(day_of_week, is_weekend, is_holiday, occupancy_rate, competitor_price, room_price)
		VALUES (?,?,?,?,?,?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.Exec(rec.Context.DayOfWeek, boolToInt(rec.Context.IsWeekend),
			boolToInt(rec.Context.IsHoliday), rec.Context.OccupancyRate,
			rec.Context.CompetitorPrice, rec.RoomPrice); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert record: %w", err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteSource) Close() error { return s.db.Close() }

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

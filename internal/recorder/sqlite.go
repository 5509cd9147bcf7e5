package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/abhi24703/dynamicpricing/internal/model"
)

// SQLiteRecorder persists quotes and training runs to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so review queries can run while the daemon writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS quotes (
			id                    INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp             INTEGER NOT NULL,
			model_id              TEXT,
			day_of_week           TEXT,
			is_weekend            INTEGER,
			is_holiday            INTEGER,
			occupancy_rate        REAL,
			competitor_price      REAL,
			base_price            REAL,
			competitor_multiplier REAL,
			occupancy_multiplier  REAL,
			final_price           REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_quotes_ts ON quotes(timestamp)`,

		`CREATE TABLE IF NOT EXISTS training_runs (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			model_id   TEXT,
			algorithm  TEXT,
			records    INTEGER,
			train_size INTEGER,
			test_size  INTEGER,
			rmse       REAL,
			r_squared  REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_training_ts ON training_runs(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordQuote(q *model.PriceQuote) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Extract the two multipliers in application order.
	multipliers := make([]float64, 2)
	for i := 0; i < len(q.Adjustments) && i < 2; i++ {
		multipliers[i] = q.Adjustments[i].Multiplier
	}

	_, err := r.db.Exec(`INSERT INTO quotes
		(timestamp, model_id, day_of_week, is_weekend, is_holiday,
		 occupancy_rate, competitor_price, base_price,
		 competitor_multiplier, occupancy_multiplier, final_price)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), q.ModelID, q.Context.DayOfWeek,
		boolToInt(q.Context.IsWeekend), boolToInt(q.Context.IsHoliday),
		q.Context.OccupancyRate, q.Context.CompetitorPrice, q.BasePrice,
		multipliers[0], multipliers[1], q.FinalPrice,
	)
	return err
}

func (r *SQLiteRecorder) RecordTraining(run *TrainingRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO training_runs
		(timestamp, model_id, algorithm, records, train_size, test_size, rmse, r_squared)
		VALUES (?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), run.ModelID, run.Algorithm,
		run.Records, run.TrainSize, run.TestSize, run.RMSE, run.RSquared,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

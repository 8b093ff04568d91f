// Package history persists run and per-round statistics so repeated cleanings
// of the same data can be compared over time. Tracking is optional: the none
// backend is a no-op.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // sqlite driver

	"github.com/fencelab/iqrfence/internal/contract"
	"github.com/fencelab/iqrfence/schema"
)

// Table names for run-history tracking.
const (
	runsTable   = "iqrfence_runs"
	roundsTable = "iqrfence_rounds"
)

// Store records analysis runs in a local SQLite database.
type Store struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

// NewStore opens the history store for the given backend. The none backend
// yields a store whose every operation is a no-op.
func NewStore(backend schema.DatabaseBackend, connStr string) (*Store, error) {
	switch backend {
	case schema.NoneBackend:
		return &Store{backend: backend}, nil

	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetHistoryDBFilePath()
		}
		db, err := sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

		if err := db.Ping(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to connect to history database: %w", err)
		}
		if err := createHistoryTables(db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to create history tables: %w", err)
		}
		return &Store{db: db, backend: backend}, nil

	default:
		return nil, fmt.Errorf("unsupported history backend: %s", backend)
	}
}

// createHistoryTables creates the run-history tables.
func createHistoryTables(db *sql.DB) error {
	queries := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				rounds INTEGER,
				converged INTEGER,
				config_params TEXT
			);
		`, runsTable),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				round INTEGER NOT NULL,
				orientation TEXT NOT NULL,
				q1 REAL NOT NULL,
				q3 REAL NOT NULL,
				iqr REAL NOT NULL,
				outlier_ids TEXT,
				dataset_size INTEGER NOT NULL,
				PRIMARY KEY (run_id, round, orientation)
			);
		`, roundsTable),
	}
	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// BeginRun creates a new run row and returns its unique ID.
func (s *Store) BeginRun(startTime time.Time, configParams map[string]any) (int64, error) {
	if s.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES (?, ?)`, runsTable)
	result, err := s.db.Exec(query, startTime.Format(time.RFC3339Nano), string(configJSON))
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return result.LastInsertId()
}

// RecordRound stores one per-round summary row.
func (s *Store) RecordRound(runID int64, rep schema.RoundReport) error {
	if s.db == nil {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (run_id, round, orientation, q1, q3, iqr, outlier_ids, dataset_size)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, roundsTable)
	_, err := s.db.Exec(query, runID, rep.Round, string(rep.Orientation),
		rep.Stats.Q1, rep.Stats.Q3, rep.Stats.IQR,
		strings.Join(rep.OutlierIDs, "|"), rep.DatasetSize)
	if err != nil {
		return fmt.Errorf("failed to insert round summary: %w", err)
	}
	return nil
}

// EndRun updates the run row with completion data.
func (s *Store) EndRun(runID int64, endTime time.Time, rounds int, converged bool) error {
	if s.db == nil {
		return nil
	}

	var startTimeStr string
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = ?`, runsTable)
	if err := s.db.QueryRow(query, runID).Scan(&startTimeStr); err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}
	startTime, err := time.Parse(time.RFC3339Nano, startTimeStr)
	if err != nil {
		return fmt.Errorf("failed to parse start_time: %w", err)
	}

	durationMs := endTime.Sub(startTime).Milliseconds()
	convergedInt := 0
	if converged {
		convergedInt = 1
	}

	update := fmt.Sprintf(`UPDATE %s SET end_time = ?, run_duration_ms = ?, rounds = ?, converged = ? WHERE run_id = ?`, runsTable)
	if _, err := s.db.Exec(update, endTime.Format(time.RFC3339Nano), durationMs, rounds, convergedInt, runID); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// GetStatus returns status information about the history store.
func (s *Store) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(s.backend),
		Connected:  s.db != nil,
		TableSizes: make(map[string]int64),
	}
	if s.db == nil {
		return status, nil
	}

	runsQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", runsTable)
	if err := s.db.QueryRow(runsQuery).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		lastRunQuery := fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", runsTable)
		var lastRunTimeStr string
		if err := s.db.QueryRow(lastRunQuery).Scan(&status.LastRunID, &lastRunTimeStr); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		lastRunTime, err := time.Parse(time.RFC3339Nano, lastRunTimeStr)
		if err != nil {
			return status, fmt.Errorf("failed to parse last run time: %w", err)
		}
		status.LastRunTime = lastRunTime
	}

	for _, table := range []string{runsTable, roundsTable} {
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
		var count int64
		if err := s.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetAllRuns retrieves all stored runs.
func (s *Store) GetAllRuns() ([]schema.RunRecord, error) {
	if s.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, start_time, end_time, run_duration_ms, rounds, converged, config_params
		FROM %s ORDER BY run_id`, runsTable)
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord
		var startTimeStr string
		var endTimeStr *string
		var rounds, converged sql.NullInt64
		if err := rows.Scan(&record.RunID, &startTimeStr, &endTimeStr, &record.RunDurationMs,
			&rounds, &converged, &record.ConfigParams); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		startTime, err := time.Parse(time.RFC3339Nano, startTimeStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse start_time: %w", err)
		}
		record.StartTime = startTime
		if endTimeStr != nil {
			endTime, err := time.Parse(time.RFC3339Nano, *endTimeStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse end_time: %w", err)
			}
			record.EndTime = &endTime
		}
		record.Rounds = int32(rounds.Int64)
		record.Converged = converged.Int64 != 0
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// GetAllRounds retrieves all stored round summaries.
func (s *Store) GetAllRounds() ([]schema.RoundRecord, error) {
	if s.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, round, orientation, q1, q3, iqr, outlier_ids, dataset_size
		FROM %s ORDER BY run_id, round, orientation`, roundsTable)
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query rounds: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RoundRecord
	for rows.Next() {
		var record schema.RoundRecord
		var outlierIDs sql.NullString
		if err := rows.Scan(&record.RunID, &record.Round, &record.Orientation,
			&record.Q1, &record.Q3, &record.IQR, &outlierIDs, &record.DatasetSize); err != nil {
			return nil, fmt.Errorf("failed to scan round: %w", err)
		}
		record.OutlierIDs = outlierIDs.String
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rounds: %w", err)
	}
	return results, nil
}

// Clear removes all stored runs and round summaries.
func (s *Store) Clear() error {
	if s.db == nil {
		return nil
	}
	for _, table := range []string{roundsTable, runsTable} {
		if _, err := s.db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
	}
	return nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// ImportMetric records one LLM-backed recipe import attempt.
type ImportMetric struct {
	Provider  string
	Model     string
	SourceURL string
	LatencyMS int64
	Succeeded bool
	Timestamp time.Time
}

// Store persists import metrics to SQLite.
type Store struct {
	db *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record saves a metric. A zero Timestamp means now.
func (s *Store) Record(ctx context.Context, m ImportMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO import_metrics (provider, model, source_url, latency_ms, succeeded, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		m.Provider, m.Model, m.SourceURL, m.LatencyMS, m.Succeeded, ts.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to record import metric: %w", err)
	}
	return nil
}

// DailyUsage represents import totals for a single day.
type DailyUsage struct {
	Date         string `json:"date"`
	Imports      int    `json:"imports"`
	Failures     int    `json:"failures"`
	AvgLatencyMS int64  `json:"avgLatencyMs"`
}

// Daily retrieves per-day usage for the last N days, newest first.
func (s *Store) Daily(ctx context.Context, days int) ([]DailyUsage, error) {
	since := time.Now().UTC().AddDate(0, 0, -days).Format(time.RFC3339)

	rows, err := s.db.QueryContext(ctx, `
		SELECT date(created_at),
		       COUNT(*),
		       SUM(CASE WHEN succeeded THEN 0 ELSE 1 END),
		       CAST(COALESCE(AVG(latency_ms), 0) AS INTEGER)
		FROM import_metrics
		WHERE created_at >= ?
		GROUP BY date(created_at)
		ORDER BY date(created_at) DESC`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily usage: %w", err)
	}
	defer rows.Close()

	results := []DailyUsage{}
	for rows.Next() {
		var u DailyUsage
		if err := rows.Scan(&u.Date, &u.Imports, &u.Failures, &u.AvgLatencyMS); err != nil {
			return nil, fmt.Errorf("failed to scan daily usage row: %w", err)
		}
		results = append(results, u)
	}
	return results, rows.Err()
}

// Cleanup removes records older than the specified number of days and
// reports how many were deleted.
func (s *Store) Cleanup(ctx context.Context, olderThanDays int) (int64, error) {
	threshold := time.Now().UTC().AddDate(0, 0, -olderThanDays).Format(time.RFC3339)

	res, err := s.db.ExecContext(ctx, `DELETE FROM import_metrics WHERE created_at < ?`, threshold)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up import metrics: %w", err)
	}
	return res.RowsAffected()
}

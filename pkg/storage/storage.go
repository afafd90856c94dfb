package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/tidwall/gjson"
	_ "modernc.org/sqlite"
)

var ErrNotAReport = errors.New("body is not a metric report")

type DB struct {
	sql *sql.DB
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS reports (
  id          INTEGER PRIMARY KEY,
  received_at TEXT NOT NULL,
  session_id  TEXT NOT NULL,
  name        TEXT NOT NULL,
  pathname    TEXT,
  body        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reports_session ON reports(session_id, id);
CREATE INDEX IF NOT EXISTS idx_reports_name ON reports(name);
    `); err != nil {
		db.Close()
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// ParseEnvelope extracts the indexed fields from a delivery body of the
// form {"metric": {...}}. Reports without a name are rejected.
func ParseEnvelope(body []byte) (Report, error) {
	if !gjson.Valid(string(body)) {
		return Report{}, ErrNotAReport
	}
	metric := gjson.GetBytes(body, "metric")
	if !metric.IsObject() || metric.Get("name").String() == "" {
		return Report{}, ErrNotAReport
	}
	return Report{
		SessionID: metric.Get("sessionID").String(),
		Name:      metric.Get("name").String(),
		Pathname:  metric.Get("pathname").String(),
		Body:      metric.Raw,
	}, nil
}

// InsertReport stores one received report and returns its id.
func (d *DB) InsertReport(ctx context.Context, r Report) (int64, error) {
	if r.ReceivedAt.IsZero() {
		r.ReceivedAt = time.Now()
	}
	res, err := d.sql.ExecContext(ctx,
		`INSERT INTO reports(received_at, session_id, name, pathname, body) VALUES(?,?,?,?,?)`,
		r.ReceivedAt.UTC().Format(time.RFC3339Nano), r.SessionID, r.Name, nullIfEmpty(r.Pathname), r.Body)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListSessionReports returns every report of a session in arrival order.
func (d *DB) ListSessionReports(ctx context.Context, sessionID string) ([]Report, error) {
	q := "SELECT id, received_at, session_id, name, pathname, body FROM reports WHERE session_id = ? ORDER BY id"
	return d.queryReports(ctx, q, sessionID)
}

// ListRecentReports returns the most recent N reports across all sessions.
func (d *DB) ListRecentReports(ctx context.Context, limit int) ([]Report, error) {
	if limit <= 0 {
		limit = 50
	}
	q := "SELECT id, received_at, session_id, name, pathname, body FROM reports ORDER BY id DESC LIMIT ?"
	return d.queryReports(ctx, q, limit)
}

func (d *DB) queryReports(ctx context.Context, q string, args ...interface{}) ([]Report, error) {
	rows, err := d.sql.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := []Report{}
	for rows.Next() {
		var r Report
		var receivedAt string
		var pathname sql.NullString
		if err := rows.Scan(&r.ID, &receivedAt, &r.SessionID, &r.Name, &pathname, &r.Body); err != nil {
			return nil, err
		}
		if t, perr := time.Parse(time.RFC3339Nano, receivedAt); perr == nil {
			r.ReceivedAt = t
		}
		r.Pathname = pathname.String
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reports, nil
}

// GetStats returns report and session counts per metric name.
func (d *DB) GetStats(ctx context.Context) ([]MetricStats, error) {
	query := `
		SELECT
			name,
			COUNT(*),
			COUNT(DISTINCT session_id)
		FROM
			reports
		GROUP BY
			name
		ORDER BY
			name;
	`
	rows, err := d.sql.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []MetricStats
	for rows.Next() {
		var s MetricStats
		if err := rows.Scan(&s.Name, &s.ReportCount, &s.SessionCount); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// Package store persists imported canonical messages and daily analysis
// results in sqlite.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/maumlog/couplechart/analysis"
	"github.com/maumlog/couplechart/chatlog"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA busy_timeout = 5000;

CREATE TABLE IF NOT EXISTS messages (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    couple_id     TEXT NOT NULL,
    ts            TEXT NOT NULL,
    sender        TEXT NOT NULL,
    content       TEXT NOT NULL,
    source_format TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_messages_couple_ts ON messages (couple_id, ts);

CREATE TABLE IF NOT EXISTS daily_analysis (
    couple_id          TEXT NOT NULL,
    analysis_date      TEXT NOT NULL,
    positive           REAL NOT NULL,
    neutral            REAL NOT NULL,
    negative           REAL NOT NULL,
    dominant_emotion   TEXT NOT NULL DEFAULT '',
    lsm_score          REAL NOT NULL,
    lsm_details        TEXT NOT NULL DEFAULT '{}',
    balance_score      REAL NOT NULL,
    turn_ratio         REAL NOT NULL,
    avg_response_time  REAL NOT NULL,
    interruption_rate  REAL NOT NULL,
    health_score       REAL NOT NULL,
    conflict_detected  INTEGER NOT NULL DEFAULT 0,
    conflict_intensity REAL,
    created_at         TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (couple_id, analysis_date)
);
`

// Timestamps are stored as RFC3339 UTC so lexical comparison matches
// chronological order.
const tsLayout = time.RFC3339

const dateLayout = "2006-01-02"

type DB struct {
	db *sql.DB
}

// Open creates the database file (and its directory) if needed and applies
// the schema.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &DB{db: db}, nil
}

func (d *DB) Close() error { return d.db.Close() }

// InsertMessages appends parsed messages for a couple in one transaction.
func (d *DB) InsertMessages(coupleID string, format chatlog.SourceFormat, msgs []chatlog.Message) error {
	if coupleID == "" {
		return errors.New("InsertMessages: coupleID is empty")
	}
	if len(msgs) == 0 {
		return nil
	}

	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT INTO messages (couple_id, ts, sender, content, source_format) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, m := range msgs {
		if _, err := stmt.Exec(coupleID, m.Timestamp.UTC().Format(tsLayout), m.Sender, m.Text, string(format)); err != nil {
			return fmt.Errorf("InsertMessages: %w", err)
		}
	}
	return tx.Commit()
}

// MessagesForDay returns a couple's messages timestamped on the given UTC
// civil date, ordered by timestamp.
func (d *DB) MessagesForDay(coupleID string, day time.Time) ([]chatlog.Message, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	rows, err := d.db.Query(
		"SELECT ts, sender, content FROM messages WHERE couple_id = ? AND ts >= ? AND ts < ? ORDER BY ts",
		coupleID, start.Format(tsLayout), end.Format(tsLayout),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []chatlog.Message
	for rows.Next() {
		var ts, sender, content string
		if err := rows.Scan(&ts, &sender, &content); err != nil {
			return nil, err
		}
		t, err := time.Parse(tsLayout, ts)
		if err != nil {
			return nil, fmt.Errorf("MessagesForDay: bad stored timestamp %q: %w", ts, err)
		}
		msgs = append(msgs, chatlog.Message{Timestamp: t, Sender: sender, Text: content})
	}
	return msgs, rows.Err()
}

// Couples lists the distinct couple ids with stored messages, sorted.
func (d *DB) Couples() ([]string, error) {
	rows, err := d.db.Query("SELECT DISTINCT couple_id FROM messages ORDER BY couple_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// SaveDailyAnalysis upserts one analysis row keyed by couple and date.
// Re-running a day replaces the previous result.
func (d *DB) SaveDailyAnalysis(coupleID string, date time.Time, report analysis.ConversationReport) error {
	if coupleID == "" {
		return errors.New("SaveDailyAnalysis: coupleID is empty")
	}

	details, err := json.Marshal(report.LSM.Categories)
	if err != nil {
		return fmt.Errorf("SaveDailyAnalysis: marshal lsm details: %w", err)
	}

	_, err = d.db.Exec(`
INSERT INTO daily_analysis (
    couple_id, analysis_date,
    positive, neutral, negative, dominant_emotion,
    lsm_score, lsm_details,
    balance_score, turn_ratio, avg_response_time, interruption_rate,
    health_score, conflict_detected, conflict_intensity, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (couple_id, analysis_date) DO UPDATE SET
    positive = excluded.positive,
    neutral = excluded.neutral,
    negative = excluded.negative,
    dominant_emotion = excluded.dominant_emotion,
    lsm_score = excluded.lsm_score,
    lsm_details = excluded.lsm_details,
    balance_score = excluded.balance_score,
    turn_ratio = excluded.turn_ratio,
    avg_response_time = excluded.avg_response_time,
    interruption_rate = excluded.interruption_rate,
    health_score = excluded.health_score,
    conflict_detected = excluded.conflict_detected,
    conflict_intensity = excluded.conflict_intensity,
    created_at = excluded.created_at`,
		coupleID, date.UTC().Format(dateLayout),
		report.Emotion.Positive, report.Emotion.Neutral, report.Emotion.Negative, report.DominantBucket,
		report.LSM.Score, string(details),
		report.TurnTaking.BalanceScore, report.TurnTaking.TurnRatio,
		report.TurnTaking.AvgResponseSeconds, report.TurnTaking.InterruptionRate,
		report.Health.HealthScore, report.Health.ConflictDetected, report.Health.ConflictIntensity,
		time.Now().UTC().Format(tsLayout),
	)
	if err != nil {
		return fmt.Errorf("SaveDailyAnalysis: %w", err)
	}
	return nil
}

// DailyAnalysisRow is one persisted daily result.
type DailyAnalysisRow struct {
	CoupleID          string
	AnalysisDate      string
	Positive          float64
	Neutral           float64
	Negative          float64
	DominantEmotion   string
	LSMScore          float64
	LSMDetails        map[string]float64
	BalanceScore      float64
	TurnRatio         float64
	AvgResponseTime   float64
	InterruptionRate  float64
	HealthScore       float64
	ConflictDetected  bool
	ConflictIntensity *float64
}

// GetDailyAnalysis returns the stored row for a couple and date, or nil when
// no analysis has run.
func (d *DB) GetDailyAnalysis(coupleID string, date time.Time) (*DailyAnalysisRow, error) {
	var row DailyAnalysisRow
	var details string
	err := d.db.QueryRow(`
SELECT couple_id, analysis_date, positive, neutral, negative, dominant_emotion,
       lsm_score, lsm_details, balance_score, turn_ratio, avg_response_time,
       interruption_rate, health_score, conflict_detected, conflict_intensity
FROM daily_analysis WHERE couple_id = ? AND analysis_date = ?`,
		coupleID, date.UTC().Format(dateLayout),
	).Scan(
		&row.CoupleID, &row.AnalysisDate, &row.Positive, &row.Neutral, &row.Negative,
		&row.DominantEmotion, &row.LSMScore, &details, &row.BalanceScore, &row.TurnRatio,
		&row.AvgResponseTime, &row.InterruptionRate, &row.HealthScore,
		&row.ConflictDetected, &row.ConflictIntensity,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(details), &row.LSMDetails); err != nil {
		return nil, fmt.Errorf("GetDailyAnalysis: bad lsm_details: %w", err)
	}
	return &row, nil
}

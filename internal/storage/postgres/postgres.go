// Package postgres stores the diagnostic journal. It never holds puzzle
// progress; sessions are not resumable.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

const connectTimeout = 5 * time.Second

// JournalRow is one stored journal event.
type JournalRow struct {
	ID        int64                  `json:"id"`
	Timestamp time.Time              `json:"ts"`
	Level     string                 `json:"level"`
	Event     string                 `json:"event"`
	Message   *string                `json:"msg,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
	RoomID    string                 `json:"room_id"`
	SessionID *string                `json:"session_id,omitempty"`
}

// Filter narrows Query. Zero values match everything.
type Filter struct {
	Limit     int
	Event     string
	SessionID string
}

// Client is the journal sink. It satisfies events.Appender.
type Client struct {
	db     *sql.DB
	roomID string
}

// DSNFromEnv builds a lib/pq connection string from the PG* variables.
func DSNFromEnv() string {
	parts := []string{
		"host=" + getEnv("PGHOST", "127.0.0.1"),
		"port=" + getEnv("PGPORT", "5432"),
		"user=" + getEnv("PGUSER", "puzzlemaster"),
		"dbname=" + getEnv("PGDATABASE", "puzzlemaster"),
		"sslmode=" + getEnv("PGSSLMODE", "disable"),
	}
	if pw := os.Getenv("PGPASSWORD"); pw != "" {
		parts = append(parts, "password="+pw)
	}
	return strings.Join(parts, " ")
}

// New connects using the environment and prepares the journal table.
// Callers treat an error as "run without persistence".
func New(ctx context.Context, roomID string) (*Client, error) {
	db, err := sql.Open("postgres", DSNFromEnv())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	c := &Client{db: db, roomID: roomID}
	if err := c.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create journal table: %w", err)
	}
	return c, nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func (c *Client) migrate(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS journal (
			id         BIGSERIAL PRIMARY KEY,
			ts         TIMESTAMPTZ NOT NULL,
			level      TEXT NOT NULL,
			event      TEXT NOT NULL,
			msg        TEXT,
			fields     JSONB,
			room_id    TEXT NOT NULL,
			session_id TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_journal_room_ts ON journal(room_id, ts DESC);
		CREATE INDEX IF NOT EXISTS idx_journal_session ON journal(session_id);
	`)
	return err
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Append inserts one journal event.
func (c *Client) Append(ts time.Time, level, event, msg string, fields map[string]interface{}, sessionID string) error {
	var fieldsJSON []byte
	if fields != nil {
		b, err := json.Marshal(fields)
		if err != nil {
			return fmt.Errorf("failed to marshal fields: %w", err)
		}
		fieldsJSON = b
	}

	_, err := c.db.Exec(
		`INSERT INTO journal (ts, level, event, msg, fields, room_id, session_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		ts, level, event, nullable(msg), fieldsJSON, c.roomID, nullable(sessionID),
	)
	return err
}

// Query returns the newest matching rows for this room, newest first.
func (c *Client) Query(ctx context.Context, f Filter) ([]JournalRow, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 200
	}
	if limit > 10000 {
		limit = 10000
	}

	rows, err := c.db.QueryContext(ctx, `
		SELECT id, ts, level, event, msg, fields, room_id, session_id
		FROM journal
		WHERE room_id = $1
		  AND ($2 = '' OR event = $2)
		  AND ($3 = '' OR session_id = $3)
		ORDER BY ts DESC
		LIMIT $4`,
		c.roomID, f.Event, f.SessionID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []JournalRow
	for rows.Next() {
		var r JournalRow
		var fieldsJSON []byte
		var msg, session sql.NullString

		if err := rows.Scan(&r.ID, &r.Timestamp, &r.Level, &r.Event, &msg, &fieldsJSON, &r.RoomID, &session); err != nil {
			return nil, err
		}
		if msg.Valid {
			r.Message = &msg.String
		}
		if session.Valid {
			r.SessionID = &session.String
		}
		if len(fieldsJSON) > 0 {
			if err := json.Unmarshal(fieldsJSON, &r.Fields); err != nil {
				return nil, fmt.Errorf("failed to unmarshal fields: %w", err)
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close closes the database connection.
func (c *Client) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

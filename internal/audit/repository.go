package audit

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Entry represents a single recorded music command.
type Entry struct {
	ID        string    `json:"id"`
	Zone      string    `json:"zone"`
	Action    string    `json:"action"`
	Track     string    `json:"track,omitempty"`
	Volume    *float64  `json:"volume,omitempty"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// Filter controls which command entries to return.
type Filter struct {
	Zone   string // optional: filter by zone
	Action string // optional: filter by action (play, stop)
	Limit  int    // default 50, max 200
	Offset int    // pagination offset
}

// ListResult contains the paginated command history results.
type ListResult struct {
	Commands []Entry `json:"commands"`
	Total    int     `json:"total"`
	Limit    int     `json:"limit"`
	Offset   int     `json:"offset"`
}

// Default and maximum page sizes for history queries.
const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Repository defines the interface for command audit operations.
type Repository interface {
	Record(ctx context.Context, entry *Entry) error
	List(ctx context.Context, filter Filter) (*ListResult, error)
}

// SQLiteRepository persists command entries in SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new command audit repository and ensures
// the schema exists.
func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	r := &SQLiteRepository{db: db}
	if err := r.init(); err != nil {
		return nil, err
	}
	return r, nil
}

// init creates the music_commands table and indexes if missing.
func (r *SQLiteRepository) init() error {
	const schema = `
CREATE TABLE IF NOT EXISTS music_commands (
    id         TEXT PRIMARY KEY,
    zone       TEXT NOT NULL,
    action     TEXT NOT NULL,
    track      TEXT,
    volume     REAL,
    source     TEXT NOT NULL,
    created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_music_commands_created_at ON music_commands(created_at);
CREATE INDEX IF NOT EXISTS idx_music_commands_zone ON music_commands(zone);
`
	if _, err := r.db.Exec(schema); err != nil {
		return fmt.Errorf("creating music_commands schema: %w", err)
	}
	return nil
}

// Record inserts a new command entry. The ID and CreatedAt are generated if empty.
func (r *SQLiteRepository) Record(ctx context.Context, entry *Entry) error {
	if entry.ID == "" {
		entry.ID = "cmd-" + uuid.NewString()[:8]
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO music_commands (id, zone, action, track, volume, source, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Zone, entry.Action,
		nullableString(entry.Track), entry.Volume,
		entry.Source,
		entry.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting command entry: %w", err)
	}

	return nil
}

// nullableString returns nil for empty strings, or the string otherwise.
// Used for nullable TEXT columns in SQLite.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// List returns command entries matching the filter, most recent first.
func (r *SQLiteRepository) List(ctx context.Context, filter Filter) (*ListResult, error) {
	// Clamp limit.
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	// Build WHERE clause dynamically.
	var conditions []string
	var args []any

	if filter.Zone != "" {
		conditions = append(conditions, "zone = ?")
		args = append(args, filter.Zone)
	}
	if filter.Action != "" {
		conditions = append(conditions, "action = ?")
		args = append(args, filter.Action)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	// WHERE clause is built from parameterised conditions (? placeholders).
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM music_commands %s", where) //nolint:gosec // WHERE built from parameterised conditions, not user input
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting command entries: %w", err)
	}

	query := fmt.Sprintf( //nolint:gosec // WHERE built from parameterised conditions, not user input
		"SELECT id, zone, action, track, volume, source, created_at FROM music_commands %s ORDER BY created_at DESC LIMIT ? OFFSET ?",
		where,
	)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying command entries: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only cursor

	result := &ListResult{
		Commands: []Entry{},
		Total:    total,
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	}

	for rows.Next() {
		var (
			e         Entry
			track     sql.NullString
			volume    sql.NullFloat64
			createdAt string
		)
		if err := rows.Scan(&e.ID, &e.Zone, &e.Action, &track, &volume, &e.Source, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning command entry: %w", err)
		}
		if track.Valid {
			e.Track = track.String
		}
		if volume.Valid {
			v := volume.Float64
			e.Volume = &v
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			e.CreatedAt = t
		}
		result.Commands = append(result.Commands, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating command entries: %w", err)
	}

	return result, nil
}

package artifact

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/textclass/pkg/textclass/internalerr"
)

// Artifact kinds stored in the artifacts table.
const (
	kindVectorizer = "vectorizer"
	kindModel      = "model"
)

// SQLite keeps every saved pair in one database file and marks the most
// recent Save as active.
type SQLite struct {
	db *sql.DB
}

// Entry summarises one stored pair.
type Entry struct {
	PairID     string
	CreatedAt  time.Time
	Classifier string
	Accuracy   float64
	Active     bool
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

// Close closes the database connection
func (s *SQLite) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS artifacts (
	pair_id TEXT NOT NULL,
	kind TEXT NOT NULL,
	body BLOB NOT NULL,
	created_at TEXT NOT NULL,
	PRIMARY KEY(pair_id, kind)
);

CREATE TABLE IF NOT EXISTS pairs (
	pair_id TEXT PRIMARY KEY,
	classifier TEXT,
	accuracy REAL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS active_pair (
	slot INTEGER PRIMARY KEY CHECK (slot = 1),
	pair_id TEXT NOT NULL
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Save stores both halves and moves the active pointer in one transaction.
func (s *SQLite) Save(ctx context.Context, b Bundle) error {
	b.Stamp()
	vec, model, err := encode(b)
	if err != nil {
		return err
	}
	created := b.CreatedAt.UTC().Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, row := range []struct {
		kind string
		body []byte
	}{{kindVectorizer, vec}, {kindModel, model}} {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO artifacts(pair_id, kind, body, created_at) VALUES(?, ?, ?, ?)`,
			b.ID, row.kind, row.body, created); err != nil {
			return fmt.Errorf("store %s: %w", row.kind, err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO pairs(pair_id, classifier, accuracy, created_at) VALUES(?, ?, ?, ?)`,
		b.ID, b.Training.Classifier, b.Training.Accuracy, created); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO active_pair(slot, pair_id) VALUES(1, ?)
		 ON CONFLICT(slot) DO UPDATE SET pair_id = excluded.pair_id`, b.ID); err != nil {
		return err
	}
	return tx.Commit()
}

// Load returns the active pair.
func (s *SQLite) Load(ctx context.Context) (Bundle, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT pair_id FROM active_pair WHERE slot = 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return Bundle{}, fmt.Errorf("%w: no active artifact pair", internalerr.ErrNotFound)
	}
	if err != nil {
		return Bundle{}, err
	}
	return s.LoadPair(ctx, id)
}

// LoadPair returns a specific stored pair.
func (s *SQLite) LoadPair(ctx context.Context, id string) (Bundle, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT kind, body FROM artifacts WHERE pair_id = ?`, id)
	if err != nil {
		return Bundle{}, err
	}
	defer rows.Close()

	bodies := make(map[string][]byte, 2)
	for rows.Next() {
		var kind string
		var body []byte
		if err := rows.Scan(&kind, &body); err != nil {
			return Bundle{}, err
		}
		bodies[kind] = body
	}
	if err := rows.Err(); err != nil {
		return Bundle{}, err
	}

	vec, hasVec := bodies[kindVectorizer]
	model, hasModel := bodies[kindModel]
	switch {
	case !hasVec && !hasModel:
		return Bundle{}, fmt.Errorf("%w: pair %s", internalerr.ErrNotFound, id)
	case !hasVec:
		return Bundle{}, corrupt("pair %s has no vectorizer", id)
	case !hasModel:
		return Bundle{}, corrupt("pair %s has no model", id)
	}
	return decode(vec, model)
}

// List returns stored pairs, newest first.
func (s *SQLite) List(ctx context.Context) ([]Entry, error) {
	var active string
	err := s.db.QueryRowContext(ctx, `SELECT pair_id FROM active_pair WHERE slot = 1`).Scan(&active)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT pair_id, classifier, accuracy, created_at FROM pairs ORDER BY created_at DESC, pair_id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var classifier sql.NullString
		var accuracy sql.NullFloat64
		var created string
		if err := rows.Scan(&e.PairID, &classifier, &accuracy, &created); err != nil {
			return nil, err
		}
		e.Classifier = classifier.String
		e.Accuracy = accuracy.Float64
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		e.Active = e.PairID == active
		out = append(out, e)
	}
	return out, rows.Err()
}

// Activate points Load at a previously saved pair.
func (s *SQLite) Activate(ctx context.Context, id string) error {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM artifacts WHERE pair_id = ?`, id).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: pair %s", internalerr.ErrNotFound, id)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO active_pair(slot, pair_id) VALUES(1, ?)
		 ON CONFLICT(slot) DO UPDATE SET pair_id = excluded.pair_id`, id)
	return err
}

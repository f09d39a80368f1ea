package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteBackend persists nodes in SQLite. Every change set runs in one
// transaction.
type SQLiteBackend struct {
	db *sql.DB
}

// NewSQLiteBackend opens (or creates) the database at dbPath.
// Use ":memory:" for a throwaway database.
func NewSQLiteBackend(dbPath string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	b := &SQLiteBackend{db: db}
	if err := b.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return b, nil
}

func (b *SQLiteBackend) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS nodes (
		path TEXT PRIMARY KEY
	);
	CREATE TABLE IF NOT EXISTS properties (
		path  TEXT NOT NULL,
		name  TEXT NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (path, name)
	);
	INSERT OR IGNORE INTO nodes (path) VALUES ('/');
	`
	_, err := b.db.Exec(schema)
	return err
}

// Ping implements Pinger.
func (b *SQLiteBackend) Ping(ctx context.Context) error {
	return b.db.PingContext(ctx)
}

// Load implements Backend.
func (b *SQLiteBackend) Load(ctx context.Context, path string) (Node, bool, error) {
	var found string
	err := b.db.QueryRowContext(ctx, "SELECT path FROM nodes WHERE path = ?", path).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return Node{}, false, nil
	}
	if err != nil {
		return Node{}, false, fmt.Errorf("query node: %w", err)
	}

	rows, err := b.db.QueryContext(ctx, "SELECT name, value FROM properties WHERE path = ?", path)
	if err != nil {
		return Node{}, false, fmt.Errorf("query properties: %w", err)
	}
	defer func() { _ = rows.Close() }()

	n := Node{Path: path, Properties: map[string]string{}}
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return Node{}, false, fmt.Errorf("scan property: %w", err)
		}
		n.Properties[name] = value
	}
	if err := rows.Err(); err != nil {
		return Node{}, false, fmt.Errorf("iterate properties: %w", err)
	}
	return n, true, nil
}

// Apply implements Backend.
func (b *SQLiteBackend) Apply(ctx context.Context, cs ChangeSet) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, op := range cs.Ops {
		if err := applySQLiteOp(ctx, tx, op); err != nil {
			return fmt.Errorf("%s %s: %w", op.Kind, op.Path, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func applySQLiteOp(ctx context.Context, tx *sql.Tx, op Op) error {
	switch op.Kind {
	case OpCreate:
		_, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO nodes (path) VALUES (?)", op.Path)
		return err
	case OpSetProperties:
		var found string
		err := tx.QueryRowContext(ctx, "SELECT path FROM nodes WHERE path = ?", op.Path).Scan(&found)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound.Wrap(nil, "path", op.Path)
		}
		if err != nil {
			return err
		}
		if op.Replace {
			if _, err := tx.ExecContext(ctx, "DELETE FROM properties WHERE path = ?", op.Path); err != nil {
				return err
			}
		}
		for name, value := range op.Properties {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO properties (path, name, value) VALUES (?, ?, ?) "+
					"ON CONFLICT(path, name) DO UPDATE SET value = excluded.value",
				op.Path, name, value,
			); err != nil {
				return err
			}
		}
		return nil
	case OpDelete:
		if op.Path == RootPath {
			return ErrInvalidPath.Wrap(nil, "path", op.Path)
		}
		// Descendants sort between "<path>/" and "<path>0" ('0' follows '/').
		lo, hi := op.Path+"/", op.Path+"0"
		for _, table := range []string{"properties", "nodes"} {
			// #nosec G202 - table names are constants
			if _, err := tx.ExecContext(ctx,
				"DELETE FROM "+table+" WHERE path = ? OR (path >= ? AND path < ?)",
				op.Path, lo, hi,
			); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("unknown operation %q", op.Kind)
}

// Close implements Backend.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

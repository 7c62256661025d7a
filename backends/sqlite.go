package backends

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/TykTechnologies/asana-mock/asana"
)

var sqliteLogger = log.WithField("prefix", "SQLITE STORE")

type SQLiteConfig struct {
	Path string `json:"path"`
}

// SQLiteBackend implements asana.Store on a single documents table
type SQLiteBackend struct {
	db *sql.DB
}

const createDocumentsTable = `
CREATE TABLE IF NOT EXISTS documents (
	kind TEXT NOT NULL,
	key TEXT NOT NULL,
	value TEXT NOT NULL,
	PRIMARY KEY (kind, key)
);`

// SetDB uses an already opened database; the documents table is created if missing
func (s *SQLiteBackend) SetDB(db *sql.DB) error {
	s.db = db
	return s.migrate()
}

func (s *SQLiteBackend) migrate() error {
	_, err := s.db.ExecContext(context.Background(), createDocumentsTable)
	return err
}

// Init opens the database file named in the SQLiteConfig
func (s *SQLiteBackend) Init(config interface{}) error {
	asJ, err := json.Marshal(config)
	if err != nil {
		return err
	}
	conf := SQLiteConfig{}
	if err := json.Unmarshal(asJ, &conf); err != nil {
		return err
	}
	if conf.Path == "" {
		return errors.New("sqlite backend needs a path")
	}

	db, err := sql.Open("sqlite", conf.Path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", conf.Path, err)
	}
	// one writer at a time
	db.SetMaxOpenConns(1)
	if err := s.SetDB(db); err != nil {
		sqliteLogger.WithError(err).Error("Could not create documents table")
		return err
	}
	sqliteLogger.Info("Initialised ", conf.Path)
	return nil
}

func (s *SQLiteBackend) SetKey(kind, key string, val interface{}) error {
	asByte, err := json.Marshal(val)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(context.Background(),
		`INSERT INTO documents (kind, key, value) VALUES (?, ?, ?)
		ON CONFLICT (kind, key) DO UPDATE SET value = excluded.value`,
		kind, key, string(asByte))
	if err != nil {
		sqliteLogger.WithError(err).Error("Error trying to set value")
	}
	return err
}

func (s *SQLiteBackend) GetKey(kind, key string, target interface{}) error {
	var value string
	err := s.db.QueryRowContext(context.Background(),
		`SELECT value FROM documents WHERE kind = ? AND key = ?`, kind, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return asana.ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(value), target)
}

func (s *SQLiteBackend) GetAll(kind string, target interface{}) error {
	rows, err := s.db.QueryContext(context.Background(),
		`SELECT value FROM documents WHERE kind = ? ORDER BY key`, kind)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	var docs [][]byte
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return err
		}
		docs = append(docs, []byte(value))
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return decodeAll(docs, target)
}

func (s *SQLiteBackend) DeleteKey(kind, key string) error {
	res, err := s.db.ExecContext(context.Background(),
		`DELETE FROM documents WHERE kind = ? AND key = ?`, kind, key)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return asana.ErrNotFound
	}
	return nil
}

// Close releases the database handle
func (s *SQLiteBackend) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

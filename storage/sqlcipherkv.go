package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "github.com/mutecomm/go-sqlcipher/v4"
)

// SQLCipherKV keeps values in an encrypted SQLite database.
type SQLCipherKV struct {
	db *sql.DB
}

// sqlcipherDSN builds a file: URI. The path is percent-encoded so '?', '#'
// and '%' in it cannot end the path early.
func sqlcipherDSN(path, passphrase string) string {
	u := url.URL{Path: path}
	return fmt.Sprintf(
		"file:%s?_pragma_key=%s&_pragma_cipher_page_size=4096&_busy_timeout=5000",
		u.EscapedPath(),
		url.QueryEscape(passphrase),
	)
}

func OpenSQLCipherKV(path, passphrase string) (*SQLCipherKV, error) {
	if passphrase == "" {
		return nil, errors.New("sqlcipher backend requires a passphrase")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", sqlcipherDSN(path, passphrase))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	// A wrong key only surfaces on the first real read.
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (
        key TEXT PRIMARY KEY,
        value TEXT NOT NULL
    )`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create kv table: %w", err)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set file permissions: %w", err)
	}
	return &SQLCipherKV{db: db}, nil
}

func (s *SQLCipherKV) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLCipherKV) Set(key, value string) error {
	_, err := s.db.Exec(`
        INSERT INTO kv (key, value) VALUES (?, ?)
        ON CONFLICT(key) DO UPDATE SET value = excluded.value
    `, key, value)
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

func (s *SQLCipherKV) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Package settings persists speech-to-text configuration in a small
// sqlite key-value table.
package settings

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const (
	DefaultProvider = "mistral"
	DefaultModel    = "voxtral-mini-latest"

	keyProvider = "stt_provider"
	keyAPIKey   = "stt_api_key"
	keyModel    = "stt_model"
	keyLanguage = "stt_language"
)

// Settings is the user-facing configuration. APIKey and Language are
// optional; empty means unset.
type Settings struct {
	Provider string `json:"provider"`
	APIKey   string `json:"apiKey,omitempty"`
	Model    string `json:"model"`
	Language string `json:"language,omitempty"`
}

// Store is a key-value settings store over sqlite.
type Store struct {
	db *sql.DB
}

// DefaultDBPath returns the default database location under the user
// config dir.
func DefaultDBPath() string {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "voxtap.sqlite")
	}
	return filepath.Join(cfg, "voxtap", "voxtap.sqlite")
}

// Open opens (creating if needed) the settings database.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create settings dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS app_settings (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create app_settings: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Value reads one settings row. The second return is false when the key
// has never been written.
func (s *Store) Value(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(
		`SELECT value FROM app_settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read setting %s: %w", key, err)
	}
	return value, true, nil
}

// SetValue writes one settings row, replacing any previous value.
func (s *Store) SetValue(key, value string) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO app_settings (key, value) VALUES (?, ?)`,
		key, value)
	if err != nil {
		return fmt.Errorf("write setting %s: %w", key, err)
	}
	return nil
}

// Get returns the stored settings with defaults applied: provider and
// model fall back to the Mistral defaults, api key and language stay
// empty until set.
func (s *Store) Get() (Settings, error) {
	st := Settings{}
	var err error

	if st.Provider, _, err = s.valueOr(keyProvider, DefaultProvider); err != nil {
		return Settings{}, err
	}
	if st.Model, _, err = s.valueOr(keyModel, DefaultModel); err != nil {
		return Settings{}, err
	}
	if st.APIKey, _, err = s.valueOr(keyAPIKey, ""); err != nil {
		return Settings{}, err
	}
	if st.Language, _, err = s.valueOr(keyLanguage, ""); err != nil {
		return Settings{}, err
	}
	return st, nil
}

func (s *Store) valueOr(key, fallback string) (string, bool, error) {
	value, ok, err := s.Value(key)
	if err != nil {
		return "", false, err
	}
	if !ok {
		return fallback, false, nil
	}
	return value, true, nil
}

// Save persists the settings. Provider and model are always written;
// api key and language are written only when supplied, so saving with
// an empty key does not wipe a previously stored one.
func (s *Store) Save(st Settings) error {
	if err := s.SetValue(keyProvider, st.Provider); err != nil {
		return err
	}
	if err := s.SetValue(keyModel, st.Model); err != nil {
		return err
	}
	if st.APIKey != "" {
		if err := s.SetValue(keyAPIKey, st.APIKey); err != nil {
			return err
		}
	}
	if st.Language != "" {
		if err := s.SetValue(keyLanguage, st.Language); err != nil {
			return err
		}
	}
	return nil
}

// internal/store/store.go
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/podsni/symposium/internal/council"
	"github.com/podsni/symposium/internal/debate"
)

// Kind distinguishes the two session families in one table.
type Kind string

const (
	KindDebate  Kind = "debate"
	KindCouncil Kind = "council"
)

// Store persists sessions as JSON payloads in sqlite. The engines treat
// sessions as plain data, so the whole aggregate round-trips through one
// column.
type Store struct {
	db *sql.DB
}

// SessionInfo is a listing row: enough to render history without
// unmarshalling payloads.
type SessionInfo struct {
	ID        string
	Kind      Kind
	Question  string
	Status    string
	CreatedAt int64
	UpdatedAt int64
}

// Open creates or opens the database under XDG_DATA_HOME (or
// ~/.local/share) in WAL mode.
func Open() (*Store, error) {
	dir, err := DataDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "sessions.db")
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// DataDir returns the application data directory. Exports land here too.
func DataDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "symposium"), nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		question TEXT NOT NULL,
		status TEXT NOT NULL,
		payload TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_kind ON sessions(kind, updated_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) upsert(id string, kind Kind, question, status string, payload []byte, createdAt, updatedAt int64) error {
	_, err := s.db.Exec(
		`INSERT INTO sessions (id, kind, question, status, payload, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			question = excluded.question,
			status = excluded.status,
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		id, string(kind), question, status, string(payload), createdAt, updatedAt,
	)
	return err
}

func (s *Store) load(id string, kind Kind) ([]byte, error) {
	row := s.db.QueryRow(`SELECT payload FROM sessions WHERE id = ? AND kind = ?`, id, string(kind))
	var payload string
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return []byte(payload), nil
}

// SaveDebate upserts a debate session.
func (s *Store) SaveDebate(sess *debate.Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal debate session: %w", err)
	}
	return s.upsert(sess.ID, KindDebate, sess.Question, string(sess.Status), payload, sess.CreatedAt, sess.UpdatedAt)
}

// LoadDebate returns the debate session with the given id, or nil when
// it does not exist.
func (s *Store) LoadDebate(id string) (*debate.Session, error) {
	payload, err := s.load(id, KindDebate)
	if err != nil || payload == nil {
		return nil, err
	}
	var sess debate.Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal debate session %s: %w", id, err)
	}
	return &sess, nil
}

// SaveCouncil upserts a council session.
func (s *Store) SaveCouncil(sess *council.Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal council session: %w", err)
	}
	return s.upsert(sess.ID, KindCouncil, sess.Question, string(sess.State), payload, sess.CreatedAt, sess.UpdatedAt)
}

// LoadCouncil returns the council session with the given id, or nil when
// it does not exist.
func (s *Store) LoadCouncil(id string) (*council.Session, error) {
	payload, err := s.load(id, KindCouncil)
	if err != nil || payload == nil {
		return nil, err
	}
	var sess council.Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal council session %s: %w", id, err)
	}
	return &sess, nil
}

// List returns session infos, newest first. kind "" lists everything.
func (s *Store) List(kind Kind) ([]SessionInfo, error) {
	query := `SELECT id, kind, question, status, created_at, updated_at FROM sessions`
	args := []any{}
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, string(kind))
	}
	query += ` ORDER BY updated_at DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infos []SessionInfo
	for rows.Next() {
		var info SessionInfo
		var k string
		if err := rows.Scan(&info.ID, &k, &info.Question, &info.Status, &info.CreatedAt, &info.UpdatedAt); err != nil {
			return nil, err
		}
		info.Kind = Kind(k)
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// Delete removes a session by id.
func (s *Store) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	return err
}

// Councils returns a view satisfying the council engine's persistence
// contract.
func (s *Store) Councils() *CouncilStore {
	return &CouncilStore{s: s}
}

// CouncilStore adapts Store to the council engine's Save/Load interface.
type CouncilStore struct {
	s *Store
}

func (c *CouncilStore) Save(sess *council.Session) error {
	return c.s.SaveCouncil(sess)
}

func (c *CouncilStore) Load(id string) (*council.Session, error) {
	return c.s.LoadCouncil(id)
}

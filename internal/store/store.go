// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/typermonkey/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNotFound is returned when a looked-up row does not exist.
var ErrNotFound = errors.New("store: not found")

// Store wraps SQLite access for session history and accounts.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			lang TEXT NOT NULL,
			chars INTEGER NOT NULL,
			target_ms INTEGER NOT NULL,
			elapsed_ms INTEGER NOT NULL,
			leading_word TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS session_words (
			session_id INTEGER NOT NULL,
			word TEXT NOT NULL,
			start_pos INTEGER NOT NULL,
			end_pos INTEGER NOT NULL,
			PRIMARY KEY (session_id, word)
		);`,
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash BLOB NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY,
			nickname TEXT NOT NULL,
			avatar_url TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_session_words_word ON session_words(word);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertSession stores a finished run and the words it collected.
func (s *Store) InsertSession(ctx context.Context, rec model.SessionRecord) (id int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (started_at, ended_at, lang, chars, target_ms, elapsed_ms, leading_word)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.StartedAt.Format(time.RFC3339Nano),
		rec.EndedAt.Format(time.RFC3339Nano),
		rec.Lang,
		rec.Chars,
		rec.TargetMs,
		rec.ElapsedMs,
		rec.LeadingWord,
	)
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(rec.Words) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO session_words (session_id, word, start_pos, end_pos) VALUES (?, ?, ?, ?)`)
		if perr != nil {
			return 0, perr
		}
		defer func() { _ = stmt.Close() }()
		for _, w := range rec.Words {
			if _, err = stmt.ExecContext(ctx, id, w.Word, w.Start, w.End); err != nil {
				return 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

func historyFilter(cfg model.HistoryConfig) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Lang != "" {
		clauses = append(clauses, "lang = ?")
		args = append(args, cfg.Lang)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	return strings.Join(clauses, " AND "), args
}

// ListSessions returns session aggregates matching cfg, oldest first. When
// cfg.Last is positive only the most recent Last sessions are returned.
func (s *Store) ListSessions(ctx context.Context, cfg model.HistoryConfig) ([]model.SessionAggregate, error) {
	where, args := historyFilter(cfg)
	limit := -1
	if cfg.Last > 0 {
		limit = cfg.Last
	}
	args = append(args, limit)
	query := fmt.Sprintf(`SELECT id, ended_at, chars, words, elapsed_ms, leading_word FROM (
			SELECT s.id, s.ended_at, s.chars, s.elapsed_ms, s.leading_word,
				(SELECT COUNT(*) FROM session_words w WHERE w.session_id = s.id) AS words
			FROM sessions s
			WHERE %s
			ORDER BY s.ended_at DESC, s.id DESC
			LIMIT ?
		)
		ORDER BY ended_at ASC, id ASC`, where)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var sessions []model.SessionAggregate
	for rows.Next() {
		var agg model.SessionAggregate
		var endedAt string
		if err := rows.Scan(&agg.SessionID, &endedAt, &agg.Chars, &agg.Words, &agg.ElapsedMs, &agg.LeadingWord); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// SessionWords returns the words collected in one session in detection order.
func (s *Store) SessionWords(ctx context.Context, sessionID int64) ([]model.FoundWord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT word, start_pos, end_pos FROM session_words WHERE session_id = ? ORDER BY end_pos ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var words []model.FoundWord
	for rows.Next() {
		var w model.FoundWord
		if err := rows.Scan(&w.Word, &w.Start, &w.End); err != nil {
			return nil, err
		}
		words = append(words, w)
	}
	return words, rows.Err()
}

// TopWords returns the words discovered in the most sessions matching cfg,
// longest first among equal counts.
func (s *Store) TopWords(ctx context.Context, cfg model.HistoryConfig, limit int) ([]model.WordAggregate, error) {
	if limit <= 0 {
		return nil, nil
	}
	where, args := historyFilter(cfg)
	last := -1
	if cfg.Last > 0 {
		last = cfg.Last
	}
	args = append(args, last, limit)
	query := fmt.Sprintf(`WITH picked AS (
			SELECT id FROM sessions
			WHERE %s
			ORDER BY ended_at DESC, id DESC
			LIMIT ?
		)
		SELECT w.word, COUNT(*) AS sessions
		FROM session_words w
		JOIN picked p ON p.id = w.session_id
		GROUP BY w.word
		ORDER BY sessions DESC, LENGTH(w.word) DESC, w.word ASC
		LIMIT ?`, where)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var result []model.WordAggregate
	for rows.Next() {
		var agg model.WordAggregate
		if err := rows.Scan(&agg.Word, &agg.Sessions); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	return result, rows.Err()
}

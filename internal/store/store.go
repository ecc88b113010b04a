// Package store archives saved feedback attachments in DuckDB.
package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"tdmenu/internal/model"
)

// Store wraps a DuckDB connection and exposes the feedback archive.
type Store struct {
	db *sql.DB
}

// SaveRecord is one successful attachment write.
type SaveRecord struct {
	ID        int64
	SessionID string
	Path      string
	Sentiment model.Sentiment
	Entries   int
	Tokens    int
	// Source names the transcript the attachment was built from, if any.
	Source  string
	SavedAt time.Time
}

// SessionSummary is the latest state of one menu session.
type SessionSummary struct {
	SessionID   string
	Path        string
	Sentiment   model.Sentiment
	Saves       int
	CreatedAt   time.Time
	LastSavedAt time.Time
}

// Open creates a new Store connected to the given DuckDB file.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open duckdb %s: %w", dbPath, err)
	}
	return &Store{db: db}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// InitSchema creates the archive tables and indexes if they don't exist.
func (s *Store) InitSchema() error {
	if _, err := s.db.Exec(coreSchema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// --- Save operations ---

// RecordSave appends r to the save log and moves its session forward.
func (s *Store) RecordSave(r SaveRecord) error {
	if r.SavedAt.IsZero() {
		r.SavedAt = time.Now()
	}
	savedAt := r.SavedAt.UTC()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO feedback_saves (session_id, path, sentiment, entry_count, token_count, source, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, r.SessionID, r.Path, r.Sentiment.String(), r.Entries, r.Tokens, nullStr(r.Source), savedAt); err != nil {
		return fmt.Errorf("insert save %s: %w", r.SessionID, err)
	}

	if _, err := tx.Exec(`
		INSERT INTO sessions (session_id, feedback_path, last_sentiment, created_at, last_saved_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (session_id) DO UPDATE
		SET last_sentiment = excluded.last_sentiment, last_saved_at = excluded.last_saved_at
	`, r.SessionID, r.Path, r.Sentiment.String(), savedAt, savedAt); err != nil {
		return fmt.Errorf("upsert session %s: %w", r.SessionID, err)
	}

	return tx.Commit()
}

// History returns saves newest first, optionally bounded by w.
func (s *Store) History(limit int, w *model.Window) ([]SaveRecord, error) {
	params := []interface{}{}
	timeClause, params := appendTimeClauses(w, "saved_at", false, params)

	query := fmt.Sprintf(`
		SELECT id, session_id, path, sentiment, entry_count, token_count, source, saved_at
		FROM feedback_saves
		%s
		ORDER BY saved_at DESC, id DESC
		LIMIT ?
	`, timeClause)

	params = append(params, limit)
	rows, err := s.db.Query(query, params...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []SaveRecord
	for rows.Next() {
		var r SaveRecord
		var sentiment string
		var source sql.NullString
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Path, &sentiment, &r.Entries, &r.Tokens, &source, &r.SavedAt); err != nil {
			return nil, err
		}
		r.Sentiment = parseStoredSentiment(sentiment)
		if source.Valid {
			r.Source = source.String
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SessionSaves returns the saves of one session in the order they happened.
func (s *Store) SessionSaves(sessionID string) ([]SaveRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, session_id, path, sentiment, entry_count, token_count, source, saved_at
		FROM feedback_saves
		WHERE session_id = ?
		ORDER BY saved_at ASC, id ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query session %s: %w", sessionID, err)
	}
	defer rows.Close()

	var out []SaveRecord
	for rows.Next() {
		var r SaveRecord
		var sentiment string
		var source sql.NullString
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Path, &sentiment, &r.Entries, &r.Tokens, &source, &r.SavedAt); err != nil {
			return nil, err
		}
		r.Sentiment = parseStoredSentiment(sentiment)
		if source.Valid {
			r.Source = source.String
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// --- Session operations ---

// Sessions returns the latest state of each session, most recently saved first.
func (s *Store) Sessions(limit int, w *model.Window) ([]SessionSummary, error) {
	params := []interface{}{}
	timeClause, params := appendTimeClauses(w, "s.last_saved_at", false, params)

	query := fmt.Sprintf(`
		SELECT s.session_id, s.feedback_path, s.last_sentiment, s.created_at, s.last_saved_at,
		       (SELECT COUNT(*) FROM feedback_saves f WHERE f.session_id = s.session_id)
		FROM sessions s
		%s
		ORDER BY s.last_saved_at DESC
		LIMIT ?
	`, timeClause)

	params = append(params, limit)
	rows, err := s.db.Query(query, params...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionSummary
	for rows.Next() {
		var r SessionSummary
		var sentiment string
		if err := rows.Scan(&r.SessionID, &r.Path, &sentiment, &r.CreatedAt, &r.LastSavedAt, &r.Saves); err != nil {
			return nil, err
		}
		r.Sentiment = parseStoredSentiment(sentiment)
		out = append(out, r)
	}
	return out, rows.Err()
}

// SentimentCounts tallies sessions by their latest sentiment.
func (s *Store) SentimentCounts(w *model.Window) (map[model.Sentiment]int, error) {
	params := []interface{}{}
	timeClause, params := appendTimeClauses(w, "last_saved_at", false, params)

	query := fmt.Sprintf(`
		SELECT last_sentiment, COUNT(*)
		FROM sessions
		%s
		GROUP BY last_sentiment
	`, timeClause)

	rows, err := s.db.Query(query, params...)
	if err != nil {
		return nil, fmt.Errorf("count sentiments: %w", err)
	}
	defer rows.Close()

	out := map[model.Sentiment]int{}
	for rows.Next() {
		var sentiment string
		var n int
		if err := rows.Scan(&sentiment, &n); err != nil {
			return nil, err
		}
		out[parseStoredSentiment(sentiment)] += n
	}
	return out, rows.Err()
}

// --- Offset operations ---

// GetOffset returns the last read offset for a transcript file.
func (s *Store) GetOffset(path string) (int64, error) {
	var offset int64
	err := s.db.QueryRow(
		`SELECT last_offset FROM transcript_offsets WHERE transcript_path = ?`, path,
	).Scan(&offset)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return offset, err
}

// SetOffset remembers how far a transcript file has been read.
func (s *Store) SetOffset(path string, offset int64) error {
	_, err := s.db.Exec(`
		INSERT INTO transcript_offsets (transcript_path, last_offset)
		VALUES (?, ?)
		ON CONFLICT (transcript_path) DO UPDATE SET last_offset = excluded.last_offset
	`, path, offset)
	if err != nil {
		return fmt.Errorf("update offset: %w", err)
	}
	return nil
}

// --- helpers ---

// appendTimeClauses builds SQL fragments for time filtering.
// If hasWhere is true, clauses use "AND"; otherwise the first clause uses "WHERE".
func appendTimeClauses(w *model.Window, tsCol string, hasWhere bool, params []interface{}) (string, []interface{}) {
	if w == nil {
		return "", params
	}

	var clauses []string
	if w.Since != nil {
		clauses = append(clauses, fmt.Sprintf("%s >= ?", tsCol))
		params = append(params, w.Since.UTC())
	}
	if w.Until != nil {
		clauses = append(clauses, fmt.Sprintf("%s <= ?", tsCol))
		params = append(params, w.Until.UTC())
	}

	if len(clauses) == 0 {
		return "", params
	}

	var sb strings.Builder
	for i, c := range clauses {
		if i == 0 && !hasWhere {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		sb.WriteString(c)
	}
	return sb.String(), params
}

// parseStoredSentiment reads the sentiment column. Values written by an
// unknown version fall back to none.
func parseStoredSentiment(s string) model.Sentiment {
	parsed, err := model.ParseSentiment(s)
	if err != nil {
		return model.SentimentNone
	}
	return parsed
}

func nullStr(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

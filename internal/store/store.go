// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/terview/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for session history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
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
			date TEXT NOT NULL,
			company TEXT NOT NULL,
			job_title TEXT NOT NULL,
			pct INTEGER NOT NULL,
			grade TEXT NOT NULL,
			answered INTEGER NOT NULL,
			total INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS session_questions (
			session_id INTEGER NOT NULL,
			position INTEGER NOT NULL,
			question TEXT NOT NULL,
			answer TEXT NOT NULL,
			pct INTEGER NOT NULL,
			grade TEXT NOT NULL,
			hits TEXT NOT NULL,
			total INTEGER NOT NULL,
			time_used_s INTEGER NOT NULL,
			word_count INTEGER NOT NULL,
			PRIMARY KEY (session_id, position)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_date ON sessions(date);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_company ON sessions(company);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertSession stores a completed session and its per-question results.
func (s *Store) InsertSession(ctx context.Context, rec model.SessionRecord) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (date, company, job_title, pct, grade, answered, total)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Date.Format(time.RFC3339Nano),
		rec.Company,
		rec.JobTitle,
		rec.Pct,
		rec.Grade,
		rec.Answered,
		rec.Total,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(rec.Questions) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO session_questions (session_id, position, question, answer, pct, grade, hits, total, time_used_s, word_count)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for i, q := range rec.Questions {
			hits, err := encodeHits(q.Hits)
			if err != nil {
				return 0, err
			}
			if _, err := stmt.ExecContext(ctx, id, i, q.Question, q.Answer, q.Pct, q.Grade, hits, q.Total, q.TimeUsedSec, q.WordCount); err != nil {
				return 0, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListSessions returns session records filtered by stats config, in
// chronological order. Per-question results are not loaded; use
// ListQuestionResults for a single session or ExportSessions for all.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Company != "" {
		clauses = append(clauses, "company = ?")
		args = append(args, cfg.Company)
	}
	if len(cfg.Grades) > 0 {
		placeholders := make([]string, len(cfg.Grades))
		for i, g := range cfg.Grades {
			placeholders[i] = "?"
			args = append(args, g)
		}
		clauses = append(clauses, fmt.Sprintf("grade IN (%s)", strings.Join(placeholders, ",")))
	}
	if cfg.Since != nil {
		clauses = append(clauses, "date >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, date, company, job_title, pct, grade, answered, total
		FROM sessions
		WHERE %s
		ORDER BY date ASC, id ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionRecord
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListQuestionResults returns the graded questions of one session in order.
func (s *Store) ListQuestionResults(ctx context.Context, sessionID int64) ([]model.QuestionResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT question, answer, pct, grade, hits, total, time_used_s, word_count
		 FROM session_questions
		 WHERE session_id = ?
		 ORDER BY position ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var results []model.QuestionResult
	for rows.Next() {
		var q model.QuestionResult
		var hits string
		if err := rows.Scan(&q.Question, &q.Answer, &q.Pct, &q.Grade, &hits, &q.Total, &q.TimeUsedSec, &q.WordCount); err != nil {
			return nil, err
		}
		q.Hits, err = decodeHits(hits)
		if err != nil {
			return nil, err
		}
		results = append(results, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// Companies returns the distinct company names in history, sorted.
func (s *Store) Companies(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT company FROM sessions ORDER BY company ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var companies []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return companies, nil
}

func scanSession(rows *sql.Rows) (model.SessionRecord, error) {
	var rec model.SessionRecord
	var date string
	if err := rows.Scan(&rec.SessionID, &date, &rec.Company, &rec.JobTitle, &rec.Pct, &rec.Grade, &rec.Answered, &rec.Total); err != nil {
		return model.SessionRecord{}, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, date)
	if err != nil {
		return model.SessionRecord{}, err
	}
	rec.Date = parsed
	return rec, nil
}

func encodeHits(hits []string) (string, error) {
	if hits == nil {
		hits = []string{}
	}
	data, err := json.Marshal(hits)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeHits(raw string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}
	var hits []string
	if err := json.Unmarshal([]byte(raw), &hits); err != nil {
		return nil, err
	}
	return hits, nil
}

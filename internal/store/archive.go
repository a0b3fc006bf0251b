package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/verte-zerg/terview/internal/model"
)

// archivedQuestion mirrors model.QuestionResult with stable JSON keys.
type archivedQuestion struct {
	Question    string   `json:"question"`
	Answer      string   `json:"answer"`
	Pct         int      `json:"pct"`
	Grade       string   `json:"grade"`
	Hits        []string `json:"hits"`
	Total       int      `json:"total"`
	TimeUsedSec int      `json:"timeUsed"`
	WordCount   int      `json:"wordCount"`
}

// archivedSession mirrors model.SessionRecord with stable JSON keys.
type archivedSession struct {
	Date      time.Time          `json:"date"`
	Company   string             `json:"company"`
	JobTitle  string             `json:"jobTitle"`
	Pct       int                `json:"pct"`
	Grade     string             `json:"grade"`
	Answered  int                `json:"count"`
	Total     int                `json:"total"`
	Questions []archivedQuestion `json:"questions"`
}

// ExportSessions writes the full history, including per-question
// results, as a JSON array.
func (s *Store) ExportSessions(ctx context.Context, w io.Writer) (int, error) {
	sessions, err := s.ListSessions(ctx, model.StatsConfig{})
	if err != nil {
		return 0, err
	}
	out := make([]archivedSession, 0, len(sessions))
	for _, rec := range sessions {
		questions, err := s.ListQuestionResults(ctx, rec.SessionID)
		if err != nil {
			return 0, err
		}
		archived := archivedSession{
			Date:     rec.Date,
			Company:  rec.Company,
			JobTitle: rec.JobTitle,
			Pct:      rec.Pct,
			Grade:    rec.Grade,
			Answered: rec.Answered,
			Total:    rec.Total,
		}
		for _, q := range questions {
			archived.Questions = append(archived.Questions, archivedQuestion(q))
		}
		out = append(out, archived)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return 0, fmt.Errorf("failed to encode history: %w", err)
	}
	return len(out), nil
}

// ImportSessions merges a JSON history export into the store. Sessions
// whose (date, company, pct) triple already exists are skipped, so
// re-importing the same file is idempotent. Returns inserted and
// skipped counts.
func (s *Store) ImportSessions(ctx context.Context, r io.Reader) (inserted, skipped int, err error) {
	var archived []archivedSession
	if err := json.NewDecoder(r).Decode(&archived); err != nil {
		return 0, 0, fmt.Errorf("failed to decode history: %w", err)
	}
	for _, a := range archived {
		exists, err := s.sessionExists(ctx, a.Date, a.Company, a.Pct)
		if err != nil {
			return inserted, skipped, err
		}
		if exists {
			skipped++
			continue
		}
		rec := model.SessionRecord{
			Date:     a.Date,
			Company:  a.Company,
			JobTitle: a.JobTitle,
			Pct:      a.Pct,
			Grade:    a.Grade,
			Answered: a.Answered,
			Total:    a.Total,
		}
		for _, q := range a.Questions {
			rec.Questions = append(rec.Questions, model.QuestionResult(q))
		}
		if _, err := s.InsertSession(ctx, rec); err != nil {
			return inserted, skipped, err
		}
		inserted++
	}
	return inserted, skipped, nil
}

func (s *Store) sessionExists(ctx context.Context, date time.Time, company string, pct int) (bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM sessions WHERE date = ? AND company = ? AND pct = ?`,
		date.Format(time.RFC3339Nano), company, pct)
	var count int
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

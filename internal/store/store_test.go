package store

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/terview/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	st, err := Open(filepath.Join(dir, "terview.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func sampleSession(offsetMinutes int, company string, pct int) model.SessionRecord {
	date := time.Unix(0, 0).UTC().Add(time.Duration(offsetMinutes) * time.Minute)
	return model.SessionRecord{
		Date:     date,
		Company:  company,
		JobTitle: "Backend Engineer",
		Pct:      pct,
		Grade:    gradeForTest(pct),
		Answered: 2,
		Total:    2,
		Questions: []model.QuestionResult{
			{
				Question:    "How would you design a rate limiter?",
				Answer:      "token bucket with redis",
				Pct:         pct,
				Grade:       gradeForTest(pct),
				Hits:        []string{"token bucket", "redis"},
				Total:       3,
				TimeUsedSec: 45,
				WordCount:   4,
			},
			{
				Question:    "Explain indexes.",
				Answer:      "b-tree lookups avoid full scans",
				Pct:         pct,
				Grade:       gradeForTest(pct),
				Hits:        []string{"b-tree"},
				Total:       2,
				TimeUsedSec: 60,
				WordCount:   5,
			},
		},
	}
}

func gradeForTest(pct int) string {
	if pct >= 80 {
		return "B"
	}
	return "C"
}

func TestInsertAndListSessions(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	for i, pct := range []int{70, 85, 90} {
		if _, err := st.InsertSession(ctx, sampleSession(i, "Acme", pct)); err != nil {
			t.Fatalf("insert session: %v", err)
		}
	}

	sessions, err := st.ListSessions(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(sessions))
	}
	if sessions[0].Pct != 70 || sessions[2].Pct != 90 {
		t.Fatalf("sessions not in chronological order: %+v", sessions)
	}
	if sessions[0].Company != "Acme" || sessions[0].JobTitle != "Backend Engineer" {
		t.Fatalf("unexpected session fields: %+v", sessions[0])
	}
}

func TestListSessionsFilters(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if _, err := st.InsertSession(ctx, sampleSession(0, "Acme", 70)); err != nil {
		t.Fatalf("insert session: %v", err)
	}
	if _, err := st.InsertSession(ctx, sampleSession(1, "Globex", 85)); err != nil {
		t.Fatalf("insert session: %v", err)
	}
	if _, err := st.InsertSession(ctx, sampleSession(2, "Acme", 90)); err != nil {
		t.Fatalf("insert session: %v", err)
	}

	byCompany, err := st.ListSessions(ctx, model.StatsConfig{Company: "Acme"})
	if err != nil {
		t.Fatalf("list by company: %v", err)
	}
	if len(byCompany) != 2 {
		t.Fatalf("expected 2 Acme sessions, got %d", len(byCompany))
	}

	byGrade, err := st.ListSessions(ctx, model.StatsConfig{Grades: []string{"B"}})
	if err != nil {
		t.Fatalf("list by grade: %v", err)
	}
	if len(byGrade) != 2 {
		t.Fatalf("expected 2 B sessions, got %d", len(byGrade))
	}

	since := time.Unix(0, 0).UTC().Add(90 * time.Second)
	bySince, err := st.ListSessions(ctx, model.StatsConfig{Since: &since})
	if err != nil {
		t.Fatalf("list by since: %v", err)
	}
	if len(bySince) != 1 || bySince[0].Pct != 90 {
		t.Fatalf("unexpected since filter result: %+v", bySince)
	}
}

func TestListQuestionResults(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	id, err := st.InsertSession(ctx, sampleSession(0, "Acme", 85))
	if err != nil {
		t.Fatalf("insert session: %v", err)
	}
	questions, err := st.ListQuestionResults(ctx, id)
	if err != nil {
		t.Fatalf("list question results: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
	if questions[0].Question != "How would you design a rate limiter?" {
		t.Fatalf("questions out of order: %+v", questions[0])
	}
	if len(questions[0].Hits) != 2 || questions[0].Hits[0] != "token bucket" {
		t.Fatalf("hits did not round-trip: %v", questions[0].Hits)
	}
}

func TestCompanies(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	for i, company := range []string{"Globex", "Acme", "Acme"} {
		if _, err := st.InsertSession(ctx, sampleSession(i, company, 80)); err != nil {
			t.Fatalf("insert session: %v", err)
		}
	}
	companies, err := st.Companies(ctx)
	if err != nil {
		t.Fatalf("companies: %v", err)
	}
	if len(companies) != 2 || companies[0] != "Acme" || companies[1] != "Globex" {
		t.Fatalf("unexpected companies: %v", companies)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	src := openTestStore(t)
	dst := openTestStore(t)
	ctx := context.Background()

	for i, pct := range []int{70, 85} {
		if _, err := src.InsertSession(ctx, sampleSession(i, "Acme", pct)); err != nil {
			t.Fatalf("insert session: %v", err)
		}
	}

	var buf bytes.Buffer
	count, err := src.ExportSessions(ctx, &buf)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 exported sessions, got %d", count)
	}

	inserted, skipped, err := dst.ImportSessions(ctx, bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if inserted != 2 || skipped != 0 {
		t.Fatalf("expected 2 inserted, got inserted=%d skipped=%d", inserted, skipped)
	}

	// Importing the same file again is a no-op.
	inserted, skipped, err = dst.ImportSessions(ctx, bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("re-import: %v", err)
	}
	if inserted != 0 || skipped != 2 {
		t.Fatalf("expected idempotent re-import, got inserted=%d skipped=%d", inserted, skipped)
	}

	sessions, err := dst.ListSessions(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list after import: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions after import, got %d", len(sessions))
	}
	questions, err := dst.ListQuestionResults(ctx, sessions[0].SessionID)
	if err != nil {
		t.Fatalf("questions after import: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected questions to survive import, got %d", len(questions))
	}
}

package tui

import (
	"strings"
	"testing"

	"github.com/verte-zerg/terview/internal/deck"
	"github.com/verte-zerg/terview/internal/model"
)

func TestRenderFooterFormats(t *testing.T) {
	questions := []deck.Question{
		{Text: "first", Keywords: []string{"k"}},
		{Text: "second", Keywords: []string{"k"}},
	}
	m := NewModel(model.Config{AnswerSeconds: 120}, nil, questions)
	m.phase = phaseAnswering
	m.secondsLeft = 83
	m.answer.SetValue("one two three")

	out := m.renderFooter()
	if out == "" {
		t.Fatalf("expected footer output")
	}
	if !containsAll(out, []string{"Question 1/2", "Words 3", "Time 01:23"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func TestRenderFooterOnlyWhileAnswering(t *testing.T) {
	m := NewModel(model.Config{AnswerSeconds: 120}, nil, []deck.Question{{Text: "q", Keywords: []string{"k"}}})
	if out := m.renderFooter(); out != "" {
		t.Fatalf("expected no footer during briefing, got %q", out)
	}
}

func TestFormatClock(t *testing.T) {
	if got := formatClock(83); got != "01:23" {
		t.Fatalf("expected 01:23, got %s", got)
	}
	if got := formatClock(0); got != "00:00" {
		t.Fatalf("expected 00:00, got %s", got)
	}
	if got := formatClock(-5); got != "00:00" {
		t.Fatalf("expected clamp to 00:00, got %s", got)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}

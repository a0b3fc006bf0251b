// Package grade scores free-text answers against expected keywords.
package grade

import (
	"math"
	"strings"
)

// Letter is a letter grade.
type Letter = string

// Letter grades in display order, best first.
const (
	GradeA     Letter = "A"
	GradeBPlus Letter = "B+"
	GradeB     Letter = "B"
	GradeCPlus Letter = "C+"
	GradeC     Letter = "C"
	GradeD     Letter = "D"
	GradeF     Letter = "F"
)

// Order lists all letter grades, best first.
var Order = []Letter{GradeA, GradeBPlus, GradeB, GradeCPlus, GradeC, GradeD, GradeF}

// Result is the outcome of grading one answer.
type Result struct {
	Pct   int
	Grade Letter
	Hits  []string
	Total int
}

// Fallback is the zero-value result callers use when Grade returns nil.
func Fallback(keywords []string) Result {
	return Result{Pct: 0, Grade: GradeF, Hits: []string{}, Total: len(keywords)}
}

// Grade scores a transcript against expected keywords and elapsed time.
// Returns nil when the transcript or the keyword list is empty; grading
// is only meaningful when both an answer and a target set exist.
func Grade(transcript string, keywords []string, timeUsedSec int) *Result {
	if transcript == "" || len(keywords) == 0 {
		return nil
	}

	lower := strings.ToLower(transcript)
	wordCount := WordCount(transcript)

	hits := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if strings.Contains(lower, strings.ToLower(k)) {
			hits = append(hits, k)
		}
	}

	// Keyword coverage dominates: up to 80 of 100 points.
	score := float64(len(hits)) / float64(len(keywords)) * 80

	// Engagement bonus by word count.
	switch {
	case wordCount >= 150:
		score += 10
	case wordCount >= 80:
		score += 6
	case wordCount >= 40:
		score += 3
	}

	// Brevity bonus: concise but substantive answers.
	if timeUsedSec < 90 && wordCount >= 30 {
		score += 5
	}

	// Near-empty answers cannot score above 25 no matter how many
	// keywords they stuff in.
	if wordCount < 15 {
		score = math.Min(score, 25)
	}

	pct := int(math.Round(math.Max(0, math.Min(100, score))))

	return &Result{
		Pct:   pct,
		Grade: LetterFor(pct),
		Hits:  hits,
		Total: len(keywords),
	}
}

// LetterFor maps a percentage to a letter grade. This is the one
// canonical threshold table; session-level and per-question grades
// both go through it.
func LetterFor(pct int) Letter {
	switch {
	case pct >= 93:
		return GradeA
	case pct >= 87:
		return GradeBPlus
	case pct >= 80:
		return GradeB
	case pct >= 73:
		return GradeCPlus
	case pct >= 65:
		return GradeC
	case pct >= 55:
		return GradeD
	default:
		return GradeF
	}
}

// WordCount counts whitespace-delimited tokens, discarding empties.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

var gradeColors = map[Letter]string{
	GradeA:     "#3ee8b5",
	GradeBPlus: "#3ee8b5",
	GradeB:     "#5eaaff",
	GradeCPlus: "#f0c654",
	GradeC:     "#f0c654",
	GradeD:     "#ff7e6b",
	GradeF:     "#ff5252",
}

// Color returns the hex color for a letter grade.
func Color(letter Letter) string {
	if c, ok := gradeColors[letter]; ok {
		return c
	}
	return "#666666"
}

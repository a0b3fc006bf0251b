// Package model defines shared data structures.
package model

import "time"

// Config defines practice session settings.
type Config struct {
	Deck          string
	Questions     int
	Company       string
	JobTitle      string
	AnswerSeconds int
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Company string
	Grades  []string
	Since   *time.Time
	Last    int
	Window  int
}

// QuestionResult captures one graded answer within a session.
type QuestionResult struct {
	Question    string
	Answer      string
	Pct         int
	Grade       string
	Hits        []string
	Total       int
	TimeUsedSec int
	WordCount   int
}

// SessionRecord is one completed interview session. History is
// append-only: records are read after insert, never mutated.
type SessionRecord struct {
	SessionID int64
	Date      time.Time
	Company   string
	JobTitle  string
	Pct       int
	Grade     string
	Answered  int
	Total     int
	Questions []QuestionResult
}

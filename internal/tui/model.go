// Package tui provides the Bubble Tea interview interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/terview/internal/deck"
	"github.com/verte-zerg/terview/internal/grade"
	"github.com/verte-zerg/terview/internal/model"
	"github.com/verte-zerg/terview/internal/store"
)

type phase int

const (
	phaseBriefing phase = iota
	phaseAnswering
	phaseFeedback
	phaseReview
)

type tickMsg struct {
	seq int
}

// Model implements the Bubble Tea interview UI.
type Model struct {
	config    model.Config
	store     *store.Store
	questions []deck.Question

	width  int
	height int

	phase       phase
	idx         int
	answer      textarea.Model
	secondsLeft int
	tickSeq     int

	results []model.QuestionResult
	pending *model.QuestionResult

	saved   bool
	saveErr error
	record  *model.SessionRecord
}

var (
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	questionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	answerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	hitStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#3ee8b5"))
	missStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5252"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs an interview TUI model.
func NewModel(cfg model.Config, store *store.Store, questions []deck.Question) *Model {
	ta := textarea.New()
	ta.Placeholder = "Type your answer..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	return &Model{
		config:    cfg,
		store:     store,
		questions: questions,
		answer:    ta,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.answer.SetWidth(m.contentWidth())
		m.answer.SetHeight(answerHeightFor(m.height))
		return m, nil
	case tickMsg:
		if m.phase != phaseAnswering || msg.seq != m.tickSeq {
			return m, nil
		}
		m.secondsLeft--
		if m.secondsLeft <= 0 {
			m.secondsLeft = 0
			m.submitAnswer()
			return m, nil
		}
		return m, tickCmd(m.tickSeq)
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	switch m.phase {
	case phaseBriefing:
		switch msg.String() {
		case "enter":
			return m, m.startAnswering()
		case "q":
			return m, tea.Quit
		}
		return m, nil
	case phaseAnswering:
		if msg.Type == tea.KeyCtrlD {
			m.submitAnswer()
			return m, nil
		}
		var cmd tea.Cmd
		m.answer, cmd = m.answer.Update(msg)
		return m, cmd
	case phaseFeedback:
		switch msg.String() {
		case "n", "enter":
			m.acceptAnswer()
			return m, nil
		case "r":
			// Discard the attempt and ask the same question again.
			m.pending = nil
			m.phase = phaseBriefing
			return m, nil
		case "q":
			return m, tea.Quit
		}
		return m, nil
	default:
		switch msg.String() {
		case "q", "enter", "esc":
			return m, tea.Quit
		}
		return m, nil
	}
}

func (m *Model) startAnswering() tea.Cmd {
	m.phase = phaseAnswering
	m.secondsLeft = m.config.AnswerSeconds
	m.answer.Reset()
	m.tickSeq++
	return tea.Batch(m.answer.Focus(), tickCmd(m.tickSeq))
}

func tickCmd(seq int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{seq: seq}
	})
}

func (m *Model) submitAnswer() {
	m.answer.Blur()
	transcript := strings.TrimSpace(m.answer.Value())
	timeUsed := m.config.AnswerSeconds - m.secondsLeft
	question := m.questions[m.idx]
	result := grade.Grade(transcript, question.Keywords, timeUsed)
	if result == nil {
		fallback := grade.Fallback(question.Keywords)
		result = &fallback
	}
	m.pending = &model.QuestionResult{
		Question:    question.Text,
		Answer:      transcript,
		Pct:         result.Pct,
		Grade:       result.Grade,
		Hits:        result.Hits,
		Total:       result.Total,
		TimeUsedSec: timeUsed,
		WordCount:   grade.WordCount(transcript),
	}
	m.phase = phaseFeedback
}

func (m *Model) acceptAnswer() {
	if m.pending != nil {
		m.results = append(m.results, *m.pending)
		m.pending = nil
	}
	if m.idx+1 < len(m.questions) {
		m.idx++
		m.phase = phaseBriefing
		return
	}
	m.finishSession()
}

func (m *Model) finishSession() {
	m.phase = phaseReview
	if m.saved {
		return
	}
	m.saved = true

	pct := sessionPct(m.results)
	rec := model.SessionRecord{
		Date:      time.Now(),
		Company:   m.config.Company,
		JobTitle:  m.config.JobTitle,
		Pct:       pct,
		Grade:     grade.LetterFor(pct),
		Answered:  answeredCount(m.results),
		Total:     len(m.questions),
		Questions: m.results,
	}
	id, err := m.store.InsertSession(context.Background(), rec)
	if err != nil {
		m.saveErr = err
		logErrf("failed to save session: %v\n", err)
	} else {
		rec.SessionID = id
	}
	m.record = &rec
}

func sessionPct(results []model.QuestionResult) int {
	if len(results) == 0 {
		return 0
	}
	sum := 0
	for _, r := range results {
		sum += r.Pct
	}
	return int(float64(sum)/float64(len(results)) + 0.5)
}

func answeredCount(results []model.QuestionResult) int {
	count := 0
	for _, r := range results {
		if r.Answer != "" {
			count++
		}
	}
	return count
}

// View implements tea.Model.
func (m *Model) View() string {
	if len(m.questions) == 0 {
		return ""
	}
	var content string
	switch m.phase {
	case phaseBriefing:
		content = m.viewBriefing()
	case phaseAnswering:
		content = m.viewAnswering()
	case phaseFeedback:
		content = m.viewFeedback()
	default:
		content = m.viewReview()
	}
	if m.width == 0 || m.height == 0 {
		return content
	}
	width := m.contentWidth()
	body := lipgloss.NewStyle().Width(width).Render(content)
	footer := m.renderFooter()
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
	}
	bodyHeight := m.height - 1
	placed := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, body)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return placed + "\n" + footerLine
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 72
	}
	width := int(float64(m.width) * 0.70)
	if width < 20 {
		width = 20
	}
	return width
}

func answerHeightFor(height int) int {
	h := height / 3
	if h < 3 {
		h = 3
	}
	if h > 10 {
		h = 10
	}
	return h
}

func (m *Model) header() string {
	parts := []string{fmt.Sprintf("Question %d/%d", m.idx+1, len(m.questions))}
	if m.config.Company != "" {
		parts = append(parts, m.config.Company)
	}
	if m.config.JobTitle != "" {
		parts = append(parts, m.config.JobTitle)
	}
	return headerStyle.Render(strings.Join(parts, " · "))
}

func (m *Model) viewBriefing() string {
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")
	b.WriteString(questionStyle.Render(m.questions[m.idx].Text))
	b.WriteString("\n\n")
	b.WriteString(footerStyle.Render(fmt.Sprintf("You have %s to answer.", formatClock(m.config.AnswerSeconds))))
	b.WriteString("\n")
	b.WriteString(footerStyle.Render("enter start · q quit"))
	return b.String()
}

func (m *Model) viewAnswering() string {
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")
	b.WriteString(questionStyle.Render(m.questions[m.idx].Text))
	b.WriteString("\n\n")
	b.WriteString(m.answer.View())
	b.WriteString("\n")
	b.WriteString(footerStyle.Render("ctrl+d submit"))
	return b.String()
}

func (m *Model) viewFeedback() string {
	if m.pending == nil {
		return ""
	}
	result := m.pending
	question := m.questions[m.idx]
	scoreStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(grade.Color(result.Grade))).Bold(true)

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")
	b.WriteString(scoreStyle.Render(fmt.Sprintf("Score %d%% (%s)", result.Pct, result.Grade)))
	b.WriteString("\n\n")
	b.WriteString(hitStyle.Render(fmt.Sprintf("Matched (%d/%d): %s", len(result.Hits), result.Total, joinOrDash(result.Hits))))
	b.WriteString("\n")
	missed := missedKeywords(question.Keywords, result.Hits)
	b.WriteString(missStyle.Render("Missed: " + joinOrDash(missed)))
	b.WriteString("\n\n")
	if result.Answer != "" {
		b.WriteString(highlightAnswer(result.Answer, question.Keywords, m.contentWidth()))
	} else {
		b.WriteString(answerStyle.Render("(no answer)"))
	}
	b.WriteString("\n\n")
	next := "n next"
	if m.idx+1 == len(m.questions) {
		next = "n finish"
	}
	b.WriteString(footerStyle.Render(next + " · r retry · q quit"))
	return b.String()
}

func (m *Model) viewReview() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Session Review"))
	b.WriteString("\n\n")
	for i, r := range m.results {
		line := fmt.Sprintf("%2d. %3d%% %-2s %s", i+1, r.Pct, r.Grade, clip(r.Question, 50))
		b.WriteString(questionStyle.Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if m.record != nil {
		scoreStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(grade.Color(m.record.Grade))).Bold(true)
		b.WriteString(scoreStyle.Render(fmt.Sprintf("Session %d%% (%s)", m.record.Pct, m.record.Grade)))
		b.WriteString("\n")
		if m.saveErr != nil {
			b.WriteString(missStyle.Render(fmt.Sprintf("Not saved: %v", m.saveErr)))
		} else {
			b.WriteString(footerStyle.Render("Saved. Run `terview stats` to see your progress."))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(footerStyle.Render("q quit"))
	return b.String()
}

func (m *Model) renderFooter() string {
	if m.phase != phaseAnswering {
		return ""
	}
	segments := []string{
		fmt.Sprintf("Question %d/%d", m.idx+1, len(m.questions)),
		fmt.Sprintf("Words %d", grade.WordCount(m.answer.Value())),
		fmt.Sprintf("Time %s", formatClock(m.secondsLeft)),
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func missedKeywords(keywords, hits []string) []string {
	hitSet := make(map[string]struct{}, len(hits))
	for _, h := range hits {
		hitSet[h] = struct{}{}
	}
	missed := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if _, ok := hitSet[k]; !ok {
			missed = append(missed, k)
		}
	}
	return missed
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "—"
	}
	return strings.Join(items, ", ")
}

func formatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

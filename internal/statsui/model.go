// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/terview/internal/grade"
	"github.com/verte-zerg/terview/internal/model"
	"github.com/verte-zerg/terview/internal/stats"
	"github.com/verte-zerg/terview/internal/store"
)

const (
	tabOverview = iota
	tabHistory
	tabCompanies
)

const (
	plotHeight    = 10
	gradeBarWidth = 24
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	store *store.Store
	cfg   model.StatsConfig

	report stats.Report
	errMsg string

	tabs          []string
	activeTab     int
	viewports     []viewport.Model
	historyTable  table.Model
	historyLayout tableLayout

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

type tableLayout struct {
	width    int
	height   int
	rowCount int
	colCount int
}

// NewModel constructs a stats UI model.
func NewModel(st *store.Store, cfg model.StatsConfig) *Model {
	m := &Model{
		store: st,
		cfg:   cfg,
		tabs:  []string{"Overview", "History", "Companies"},
	}
	if m.cfg.Window < 1 {
		m.cfg.Window = 1
	}
	m.initInputs()
	m.initHistoryTable()
	m.initViewports()
	m.refreshReport()
	return m
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
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || (!m.filterMode && msg.String() == "q") {
			return m, tea.Quit
		}
		if m.activeTab == tabHistory {
			m.historyTable.Focus()
		} else {
			m.historyTable.Blur()
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.cfg.Window = nextWindow(m.cfg.Window)
			m.renderTabContents()
			return m, nil
		case "-":
			m.cfg.Window = prevWindow(m.cfg.Window)
			m.renderTabContents()
			return m, nil
		case "/":
			return m.startFilter()
		case "g", "home":
			if m.activeTab == tabHistory {
				m.historyTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabHistory {
				m.historyTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabHistory {
				var cmd tea.Cmd
				m.historyTable, cmd = m.historyTable.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Company: "),
		newFilterInput("Grades (comma list): "),
		newFilterInput("Since (YYYY-MM-DD): "),
		newFilterInput("Last: "),
	}
	m.setInputsFromConfig()
}

func (m *Model) initHistoryTable() {
	cols, rows := buildHistoryTableData(nil)
	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithHeight(1),
	)
	t.SetStyles(historyTableStyles())
	m.historyTable = t
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromConfig() {
	if len(m.filterInputs) == 0 {
		return
	}
	m.filterInputs[0].SetValue(strings.TrimSpace(m.cfg.Company))
	m.filterInputs[1].SetValue(strings.Join(m.cfg.Grades, ","))
	if m.cfg.Since != nil {
		m.filterInputs[2].SetValue(m.cfg.Since.Format("2006-01-02"))
	} else {
		m.filterInputs[2].SetValue("")
	}
	if m.cfg.Last > 0 {
		m.filterInputs[3].SetValue(strconv.Itoa(m.cfg.Last))
	} else {
		m.filterInputs[3].SetValue("")
	}
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.setHistoryTableSize(m.width, vpHeight)
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = maxInt(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabHistory {
		m.historyTable.Focus()
	} else {
		m.historyTable.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	filters := padLines(m.renderFilterSummary(), m.width)
	return tabs + "\n" + filters
}

func (m *Model) renderFilterSummary() string {
	company := m.cfg.Company
	if company == "" {
		company = "any"
	}
	grades := "any"
	if len(m.cfg.Grades) > 0 {
		grades = strings.Join(m.cfg.Grades, ",")
	}
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	summary := fmt.Sprintf("Filters: company=%s  grades=%s  since=%s  last=%s  window=%d", company, grades, since, last, m.cfg.Window)
	summary = truncateLine(summary, m.width)
	return headerStyle.Render(summary)
}

func (m *Model) renderHelp() string {
	return headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Filters: /  Quit: q")
}

func (m *Model) renderFilterHelp() string {
	return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return m.renderFilterHelp()
	}
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(m.errMsg)
	}
	return m.renderHelp()
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Filters (enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		return fitLines(m.renderFilterForm(), m.width, height)
	}
	if m.activeTab == tabHistory {
		if len(m.report.History) == 0 {
			return fitLines("No sessions found.", m.width, height)
		}
		view := tableMutedStyle.Render(m.historyTable.View())
		return fitLines(view, m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.store, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load stats.")
		}
		return
	}
	m.errMsg = ""
	m.report = report
	if len(report.Companies) > 0 && len(m.filterInputs) > 0 {
		m.filterInputs[0].Placeholder = truncateLine(strings.Join(report.Companies, ", "), 60)
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.applyHistoryTable(width, bodyHeight)
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	if m.errMsg != "" {
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load stats.")
		}
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report, m.cfg.Window, width))
	m.viewports[tabCompanies].SetContent(renderCompanies(m.report.Snapshot))
}

func renderOverview(report stats.Report, window, width int) string {
	snap := report.Snapshot
	if snap == nil {
		return "No sessions found. Run `terview` to practice."
	}
	span := stats.SpanLabel(snap.Dates)
	spark := stats.Sparkline(stats.ScoreSeries(report.History))
	sections := []string{
		renderSummaryCards(snap, width),
		headerStyle.Render(fmt.Sprintf("Span %s  %s", span, spark)),
		renderGradeDist(snap),
		renderTimeline(report.History, window, width),
	}
	return strings.TrimRight(strings.Join(sections, "\n\n"), "\n")
}

func renderSummaryCards(snap *stats.Snapshot, width int) string {
	gradeStyleFor := func(letter string) lipgloss.Style {
		return cardValueStyle.Foreground(lipgloss.Color(grade.Color(letter)))
	}
	avgLetter := grade.LetterFor(snap.AvgScore)
	cards := []string{
		metricCard("Sessions", fmt.Sprintf("%d", snap.TotalSessions)),
		metricCardStyled("Avg Score", fmt.Sprintf("%d%% (%s)", snap.AvgScore, avgLetter), gradeStyleFor(avgLetter)),
		metricCard("Questions", fmt.Sprintf("%d", snap.TotalQuestions)),
		metricCard("Trend", trendCardValue(snap.Trend)),
		metricCard("Streak", fmt.Sprintf("%d (best %d)", snap.CurrentStreak, snap.BestStreak)),
	}
	if snap.TotalSessions >= 3 {
		cards = append(cards, metricCard("Improvement", fmt.Sprintf("%+.2f/session", snap.ImprovementRate)))
	}
	if snap.Best != nil {
		cards = append(cards, metricCardStyled("Best Session", fmt.Sprintf("%d%% %s", snap.Best.Pct, snap.Best.Company), gradeStyleFor(snap.Best.Grade)))
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	half := (len(cards) + 1) / 2
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[:half]...)
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[half:]...)
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func trendCardValue(trend stats.Trend) string {
	switch trend.Direction {
	case stats.TrendUp:
		return fmt.Sprintf("↑ %+d%%", trend.Delta)
	case stats.TrendDown:
		return fmt.Sprintf("↓ %+d%%", trend.Delta)
	default:
		return "steady"
	}
}

func metricCard(label, value string) string {
	return metricCardStyled(label, value, cardValueStyle)
}

func metricCardStyled(label, value string, style lipgloss.Style) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), style.Render(value))
	return cardStyle.Render(content)
}

func renderGradeDist(snap *stats.Snapshot) string {
	lines := []string{cardTitleStyle.Render("Grade Distribution")}
	for i, line := range stats.GradeDistLines(snap, gradeBarWidth) {
		letter := grade.Order[i]
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(grade.Color(letter)))
		lines = append(lines, style.Render(line))
	}
	return strings.Join(lines, "\n")
}

func renderTimeline(history []model.SessionRecord, window, width int) string {
	var buf bytes.Buffer
	if err := stats.RenderTimelineWithSize(&buf, history, window, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render timeline: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func renderCompanies(snap *stats.Snapshot) string {
	var buf bytes.Buffer
	if err := stats.RenderCompanies(&buf, snap); err != nil {
		return fmt.Sprintf("Failed to render companies: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func buildHistoryTableData(history []model.SessionRecord) ([]table.Column, []table.Row) {
	columns := []table.Column{
		{Title: "Date", Width: 16},
		{Title: "Company", Width: 18},
		{Title: "Role", Width: 20},
		{Title: "Score", Width: 6},
		{Title: "Grade", Width: 5},
		{Title: "Questions", Width: 9},
	}
	rows := make([]table.Row, 0, len(history))
	for _, rec := range history {
		rows = append(rows, table.Row{
			rec.Date.Local().Format("2006-01-02 15:04"),
			rec.Company,
			rec.JobTitle,
			fmt.Sprintf("%d%%", rec.Pct),
			rec.Grade,
			fmt.Sprintf("%d/%d", rec.Answered, rec.Total),
		})
	}
	return columns, rows
}

func (m *Model) applyHistoryTable(width, height int) {
	cols, rows := buildHistoryTableData(m.report.History)
	viewportHeight := maxInt(1, height-1)
	if m.historyLayout.width == width &&
		m.historyLayout.height == viewportHeight &&
		m.historyLayout.rowCount == len(rows) &&
		m.historyLayout.colCount == len(cols) {
		m.historyTable.SetRows(rows)
		return
	}
	m.historyTable.SetColumns(cols)
	m.historyTable.SetRows(rows)
	m.historyLayout.rowCount = len(rows)
	m.historyLayout.colCount = len(cols)
	m.setHistoryTableSize(width, height)
}

func (m *Model) setHistoryTableSize(width, height int) {
	viewportHeight := maxInt(1, height-1)
	m.historyLayout.width = width
	m.historyLayout.height = viewportHeight
	m.historyTable.SetWidth(width)
	m.historyTable.SetHeight(viewportHeight)
	viewportHeight = m.adjustHistoryTableHeight(height)
	if m.historyLayout.height != viewportHeight {
		m.historyLayout.height = viewportHeight
		m.historyTable.SetHeight(viewportHeight)
	}
}

func historyTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func (m *Model) adjustHistoryTableHeight(bodyHeight int) int {
	target := maxInt(1, bodyHeight)
	height := m.historyTable.Height()
	viewHeight := lipgloss.Height(m.historyTable.View())
	if viewHeight == target {
		return height
	}
	height += target - viewHeight
	if height < 1 {
		height = 1
	}
	m.historyTable.SetHeight(height)
	viewHeight = lipgloss.Height(m.historyTable.View())
	if viewHeight == target {
		return height
	}
	height += target - viewHeight
	if height < 1 {
		height = 1
	}
	return height
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromConfig()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyFilter(); err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filterMode = false
		m.filterError = ""
		m.refreshReport()
		m.updateLayout()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	if count == 0 {
		return nil
	}
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.filterIndex = idx
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyFilter() error {
	company := strings.TrimSpace(m.filterInputs[0].Value())

	grades, err := ParseGrades(m.filterInputs[1].Value())
	if err != nil {
		return err
	}

	sinceInput := strings.TrimSpace(m.filterInputs[2].Value())
	var since *time.Time
	if sinceInput != "" {
		parsed, err := time.ParseInLocation("2006-01-02", sinceInput, time.Local)
		if err != nil {
			return fmt.Errorf("invalid since date (expected YYYY-MM-DD)")
		}
		since = &parsed
	}

	lastInput := strings.TrimSpace(m.filterInputs[3].Value())
	last := 0
	if lastInput != "" {
		parsed, err := strconv.Atoi(lastInput)
		if err != nil || parsed < 0 {
			return fmt.Errorf("invalid last value (use 0 or positive integer)")
		}
		last = parsed
	}

	m.cfg = model.StatsConfig{
		Company: company,
		Grades:  grades,
		Since:   since,
		Last:    last,
		Window:  m.cfg.Window,
	}
	return nil
}

// ParseGrades parses a comma-separated letter grade list, validating
// each entry against the known grades.
func ParseGrades(input string) ([]string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}
	known := make(map[string]struct{}, len(grade.Order))
	for _, letter := range grade.Order {
		known[letter] = struct{}{}
	}
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		letter := strings.ToUpper(strings.TrimSpace(part))
		if letter == "" {
			continue
		}
		if _, ok := known[letter]; !ok {
			return nil, fmt.Errorf("unknown grade %q (use %s)", part, strings.Join(grade.Order, ", "))
		}
		out = append(out, letter)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func nextWindow(n int) int {
	if n < 5 {
		return 5
	}
	if n%5 == 0 {
		return n + 5
	}
	return ((n / 5) + 1) * 5
}

func prevWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

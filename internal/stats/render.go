package stats

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/verte-zerg/terview/internal/grade"
	"github.com/verte-zerg/terview/internal/model"
)

const gradeBarWidth = 24

// RenderSummary prints the headline numbers for a snapshot.
func RenderSummary(w io.Writer, snap *Snapshot) error {
	if snap == nil {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", snap.TotalSessions),
		fmt.Sprintf("Questions: %d", snap.TotalQuestions),
		fmt.Sprintf("Avg Score: %d%% (%s)", snap.AvgScore, grade.LetterFor(snap.AvgScore)),
		fmt.Sprintf("Trend: %s (%+d%%)", trendLabel(snap.Trend.Direction), snap.Trend.Delta),
		fmt.Sprintf("Best Streak: %d  Current Streak: %d", snap.BestStreak, snap.CurrentStreak),
	}
	if snap.TotalSessions >= 3 {
		lines = append(lines, fmt.Sprintf("Improvement: %+.2f pts/session", snap.ImprovementRate))
	}
	if snap.Best != nil {
		lines = append(lines, fmt.Sprintf("Best Session: %d%% — %s", snap.Best.Pct, snap.Best.Company))
	}
	if snap.Worst != nil {
		lines = append(lines, fmt.Sprintf("Worst Session: %d%% — %s", snap.Worst.Pct, snap.Worst.Company))
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func trendLabel(direction TrendDirection) string {
	switch direction {
	case TrendUp:
		return "Improving"
	case TrendDown:
		return "Declining"
	default:
		return "Steady"
	}
}

// RenderGradeDist prints the letter grade distribution as text bars.
func RenderGradeDist(w io.Writer, snap *Snapshot) error {
	if snap == nil {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Grade Distribution"); err != nil {
		return err
	}
	for _, line := range GradeDistLines(snap, gradeBarWidth) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// GradeDistLines builds one bar line per letter grade, best grade first.
func GradeDistLines(snap *Snapshot, barWidth int) []string {
	if snap == nil || barWidth <= 0 {
		return nil
	}
	lines := make([]string, 0, len(grade.Order))
	for _, letter := range grade.Order {
		count := snap.GradeDist[letter]
		filled := 0
		if count > 0 {
			filled = count * barWidth / snap.MaxGradeCount
			if filled == 0 {
				filled = 1
			}
		}
		bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
		lines = append(lines, fmt.Sprintf("%-2s %s %d", letter, bar, count))
	}
	return lines
}

// RenderCompanies prints the per-company breakdown table.
func RenderCompanies(w io.Writer, snap *Snapshot) error {
	if snap == nil || len(snap.Companies) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "By Company"); err != nil {
		return err
	}
	headers := []string{"Company", "Sessions", "Avg Score", "Questions"}
	rows := make([][]string, 0, len(snap.Companies))
	for _, c := range snap.Companies {
		rows = append(rows, []string{
			c.Name,
			fmt.Sprintf("%d", c.Sessions),
			fmt.Sprintf("%d%%", c.AvgScore),
			fmt.Sprintf("%d", c.TotalQuestions),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderHistory prints one table row per session, oldest first.
func RenderHistory(w io.Writer, history []model.SessionRecord) error {
	if len(history) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "History"); err != nil {
		return err
	}
	headers := []string{"Date", "Company", "Role", "Score", "Grade", "Questions"}
	rows := make([][]string, 0, len(history))
	for _, rec := range history {
		rows = append(rows, []string{
			rec.Date.Local().Format("2006-01-02 15:04"),
			rec.Company,
			rec.JobTitle,
			fmt.Sprintf("%d%%", rec.Pct),
			rec.Grade,
			fmt.Sprintf("%d/%d", rec.Answered, rec.Total),
		})
	}
	rightAlign := map[int]bool{3: true, 5: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderTimeline prints the score timeline plot with a smoothed series.
func RenderTimeline(w io.Writer, history []model.SessionRecord, window int) error {
	return RenderTimelineWithSize(w, history, window, 0, defaultPlotHeight, false)
}

// RenderTimelineWithSize prints the score timeline sized to a given total width.
func RenderTimelineWithSize(w io.Writer, history []model.SessionRecord, window, totalWidth, height int, useColor bool) error {
	if len(history) == 0 {
		return nil
	}
	scores := ScoreSeries(history)
	smoothed := MovingAverage(scores, window)
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	series := []Series{
		{Name: "Score", Values: scores},
	}
	if window > 1 && len(history) > 1 {
		series = append(series, Series{Name: fmt.Sprintf("Avg (%d)", window), Values: smoothed})
	}
	return PlotSeriesWithColor(w, "Score Timeline", series, width, height, useColor)
}

// SpanLabel formats the date range a history slice covers.
func SpanLabel(dates []time.Time) string {
	if len(dates) == 0 {
		return ""
	}
	first := dates[0].Local().Format("2006-01-02")
	last := dates[len(dates)-1].Local().Format("2006-01-02")
	if first == last {
		return first
	}
	return first + " — " + last
}

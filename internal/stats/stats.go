// Package stats contains analytics calculations and reporting.
package stats

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/verte-zerg/terview/internal/grade"
	"github.com/verte-zerg/terview/internal/model"
)

const sparkChars = " .:-=+*#%@"

// streakThreshold is the session percentage that counts toward a streak.
const streakThreshold = 80

// TrendDirection describes where the score trend is heading.
type TrendDirection string

// Trend directions.
const (
	TrendUp   TrendDirection = "up"
	TrendDown TrendDirection = "down"
	TrendFlat TrendDirection = "flat"
)

// Trend compares the second half of history to the first half.
type Trend struct {
	Direction TrendDirection
	Delta     int
}

// CompanyStats summarizes sessions for one company.
type CompanyStats struct {
	Name           string
	Sessions       int
	AvgScore       int
	TotalQuestions int
}

// Snapshot holds the derived statistics for a history slice. It is
// recomputed from scratch on every Compute call; nothing is cached
// between invocations.
type Snapshot struct {
	TotalSessions   int
	TotalQuestions  int
	AvgScore        int
	GradeDist       map[string]int
	MaxGradeCount   int
	Trend           Trend
	Companies       []CompanyStats
	Best            *model.SessionRecord
	Worst           *model.SessionRecord
	ImprovementRate float64
	CurrentStreak   int
	BestStreak      int
	Scores          []int
	Dates           []time.Time
}

// Compute derives a Snapshot from the provided history slice. Returns
// nil when history is empty so callers can render an empty state
// instead of a zeroed dashboard. The input is never mutated; filtering
// by company, grade, or date belongs to the caller.
func Compute(history []model.SessionRecord) *Snapshot {
	if len(history) == 0 {
		return nil
	}
	n := len(history)

	snap := &Snapshot{
		TotalSessions: n,
		GradeDist:     map[string]int{},
		Scores:        make([]int, n),
		Dates:         make([]time.Time, n),
	}

	sum := 0
	for i, rec := range history {
		sum += rec.Pct
		snap.TotalQuestions += rec.Answered
		snap.Scores[i] = rec.Pct
		snap.Dates[i] = rec.Date
	}
	snap.AvgScore = int(math.Round(float64(sum) / float64(n)))

	// Grade distribution: all seven letters always present, unknown
	// grade values are ignored rather than erroring.
	for _, letter := range grade.Order {
		snap.GradeDist[letter] = 0
	}
	for _, rec := range history {
		if _, ok := snap.GradeDist[rec.Grade]; ok {
			snap.GradeDist[rec.Grade]++
		}
	}
	snap.MaxGradeCount = 1
	for _, count := range snap.GradeDist {
		if count > snap.MaxGradeCount {
			snap.MaxGradeCount = count
		}
	}

	snap.Trend = computeTrend(history)
	snap.Companies = computeCompanies(history)
	snap.Best, snap.Worst = bestWorst(history)
	snap.ImprovementRate = improvementRate(snap.Scores)
	snap.CurrentStreak, snap.BestStreak = streaks(history)
	return snap
}

func computeTrend(history []model.SessionRecord) Trend {
	mid := len(history) / 2
	firstEnd := mid
	if firstEnd == 0 {
		// Single session: compare it to itself so the trend is flat.
		firstEnd = 1
	}
	first := history[:firstEnd]
	second := history[mid:]
	delta := int(math.Round(meanPct(second) - meanPct(first)))
	direction := TrendFlat
	// A two-point deadzone keeps the direction from flip-flopping on noise.
	if delta > 2 {
		direction = TrendUp
	} else if delta < -2 {
		direction = TrendDown
	}
	return Trend{Direction: direction, Delta: delta}
}

func meanPct(recs []model.SessionRecord) float64 {
	if len(recs) == 0 {
		return 0
	}
	sum := 0
	for _, rec := range recs {
		sum += rec.Pct
	}
	return float64(sum) / float64(len(recs))
}

func computeCompanies(history []model.SessionRecord) []CompanyStats {
	type companyAcc struct {
		sessions  int
		totalPct  int
		questions int
	}
	// Grouping is exact-string; callers are responsible for naming
	// companies consistently.
	byName := map[string]*companyAcc{}
	order := []string{}
	for _, rec := range history {
		acc, ok := byName[rec.Company]
		if !ok {
			acc = &companyAcc{}
			byName[rec.Company] = acc
			order = append(order, rec.Company)
		}
		acc.sessions++
		acc.totalPct += rec.Pct
		acc.questions += rec.Answered
	}
	out := make([]CompanyStats, 0, len(order))
	for _, name := range order {
		acc := byName[name]
		out = append(out, CompanyStats{
			Name:           name,
			Sessions:       acc.sessions,
			AvgScore:       int(math.Round(float64(acc.totalPct) / float64(acc.sessions))),
			TotalQuestions: acc.questions,
		})
	}
	// Stable sort keeps encounter order between equal session counts.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Sessions > out[j].Sessions
	})
	return out
}

func bestWorst(history []model.SessionRecord) (*model.SessionRecord, *model.SessionRecord) {
	sorted := append([]model.SessionRecord(nil), history...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Pct > sorted[j].Pct
	})
	best := sorted[0]
	worst := sorted[len(sorted)-1]
	return &best, &worst
}

// improvementRate is the ordinary least-squares slope of score over
// session index. Below three sessions it is 0 and should be read as
// "not yet meaningful" rather than a flat trend.
func improvementRate(scores []int) float64 {
	n := len(scores)
	if n < 3 {
		return 0
	}
	fn := float64(n)
	sumX := fn * (fn - 1) / 2
	sumXX := fn * (fn - 1) * (2*fn - 1) / 6
	var sumY, sumXY float64
	for i, y := range scores {
		sumY += float64(y)
		sumXY += float64(i) * float64(y)
	}
	slope := (fn*sumXY - sumX*sumY) / (fn*sumXX - sumX*sumX)
	return math.Round(slope*100) / 100
}

func streaks(history []model.SessionRecord) (current, best int) {
	for _, rec := range history {
		if rec.Pct >= streakThreshold {
			current++
			if current > best {
				best = current
			}
		} else {
			current = 0
		}
	}
	return current, best
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// ScoreSeries converts session scores to float values for plotting.
func ScoreSeries(history []model.SessionRecord) []float64 {
	out := make([]float64, len(history))
	for i, rec := range history {
		out[i] = float64(rec.Pct)
	}
	return out
}

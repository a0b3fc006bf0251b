package stats

import (
	"reflect"
	"testing"
	"time"

	"github.com/verte-zerg/terview/internal/model"
)

func historyFromScores(scores ...int) []model.SessionRecord {
	history := make([]model.SessionRecord, len(scores))
	for i, pct := range scores {
		history[i] = model.SessionRecord{
			Date:     time.Unix(0, 0).UTC().Add(time.Duration(i) * time.Hour),
			Company:  "Acme",
			JobTitle: "Backend Engineer",
			Pct:      pct,
			Grade:    letterForTest(pct),
			Answered: 3,
			Total:    3,
		}
	}
	return history
}

func letterForTest(pct int) string {
	switch {
	case pct >= 93:
		return "A"
	case pct >= 87:
		return "B+"
	case pct >= 80:
		return "B"
	case pct >= 73:
		return "C+"
	case pct >= 65:
		return "C"
	case pct >= 55:
		return "D"
	default:
		return "F"
	}
}

func TestComputeEmptyHistory(t *testing.T) {
	if snap := Compute(nil); snap != nil {
		t.Fatalf("expected nil snapshot for empty history, got %+v", snap)
	}
	if snap := Compute([]model.SessionRecord{}); snap != nil {
		t.Fatalf("expected nil snapshot for empty slice, got %+v", snap)
	}
}

func TestComputeRisingHistory(t *testing.T) {
	history := historyFromScores(60, 70, 80, 90, 95)
	snap := Compute(history)
	if snap == nil {
		t.Fatalf("expected a snapshot")
	}
	if snap.AvgScore != 79 {
		t.Fatalf("expected avg 79, got %d", snap.AvgScore)
	}
	// First half [60 70] vs second half [80 90 95]: +23, up.
	if snap.Trend.Direction != TrendUp {
		t.Fatalf("expected up trend, got %s", snap.Trend.Direction)
	}
	if snap.Trend.Delta != 23 {
		t.Fatalf("expected delta 23, got %d", snap.Trend.Delta)
	}
	if snap.BestStreak != 3 || snap.CurrentStreak != 3 {
		t.Fatalf("expected streaks 3/3, got best=%d current=%d", snap.BestStreak, snap.CurrentStreak)
	}
	if snap.Best.Pct != 95 || snap.Worst.Pct != 60 {
		t.Fatalf("unexpected best/worst: %d/%d", snap.Best.Pct, snap.Worst.Pct)
	}
	if snap.TotalQuestions != 15 {
		t.Fatalf("expected 15 questions, got %d", snap.TotalQuestions)
	}
}

func TestComputeDoesNotMutateInput(t *testing.T) {
	history := historyFromScores(90, 50, 70)
	before := append([]model.SessionRecord(nil), history...)
	_ = Compute(history)
	if !reflect.DeepEqual(history, before) {
		t.Fatalf("Compute mutated its input")
	}
}

func TestGradeDistribution(t *testing.T) {
	history := historyFromScores(95, 95, 82, 60, 40)
	history = append(history, model.SessionRecord{Pct: 80, Grade: "??", Answered: 1})
	snap := Compute(history)
	if snap == nil {
		t.Fatalf("expected a snapshot")
	}
	if len(snap.GradeDist) != 7 {
		t.Fatalf("expected all 7 grades present, got %d", len(snap.GradeDist))
	}
	if snap.GradeDist["A"] != 2 || snap.GradeDist["B"] != 1 || snap.GradeDist["D"] != 1 || snap.GradeDist["F"] != 1 {
		t.Fatalf("unexpected distribution: %v", snap.GradeDist)
	}
	total := 0
	for _, count := range snap.GradeDist {
		total += count
	}
	// The unknown grade is ignored, not counted.
	if total != len(history)-1 {
		t.Fatalf("expected tally %d, got %d", len(history)-1, total)
	}
	if snap.MaxGradeCount != 2 {
		t.Fatalf("expected max grade count 2, got %d", snap.MaxGradeCount)
	}
}

func TestTrendSingleSessionIsFlat(t *testing.T) {
	snap := Compute(historyFromScores(90))
	if snap.Trend.Direction != TrendFlat || snap.Trend.Delta != 0 {
		t.Fatalf("expected flat trend for single session, got %+v", snap.Trend)
	}
	if snap.Best.Pct != snap.Worst.Pct {
		t.Fatalf("expected best == worst for single session")
	}
}

func TestTrendDeadzone(t *testing.T) {
	// Delta of exactly +2 stays flat.
	snap := Compute(historyFromScores(78, 78, 80, 80))
	if snap.Trend.Direction != TrendFlat {
		t.Fatalf("expected flat trend inside deadzone, got %s", snap.Trend.Direction)
	}
	snap = Compute(historyFromScores(80, 80, 70, 70))
	if snap.Trend.Direction != TrendDown {
		t.Fatalf("expected down trend, got %s", snap.Trend.Direction)
	}
}

func TestCompanyBreakdown(t *testing.T) {
	history := historyFromScores(80, 90)
	history[0].Company = "Globex"
	history[1].Company = "Globex"
	history = append(history,
		model.SessionRecord{Company: "Acme", Pct: 70, Grade: "C", Answered: 2},
		model.SessionRecord{Company: "initech", Pct: 60, Grade: "D", Answered: 4},
		model.SessionRecord{Company: "Initech", Pct: 100, Grade: "A", Answered: 1},
	)
	snap := Compute(history)
	if len(snap.Companies) != 4 {
		t.Fatalf("expected 4 companies (grouping is case-sensitive), got %d", len(snap.Companies))
	}
	if snap.Companies[0].Name != "Globex" || snap.Companies[0].Sessions != 2 {
		t.Fatalf("expected Globex first, got %+v", snap.Companies[0])
	}
	if snap.Companies[0].AvgScore != 85 || snap.Companies[0].TotalQuestions != 6 {
		t.Fatalf("unexpected Globex stats: %+v", snap.Companies[0])
	}
	// Ties on session count keep encounter order.
	if snap.Companies[1].Name != "Acme" || snap.Companies[2].Name != "initech" || snap.Companies[3].Name != "Initech" {
		t.Fatalf("unexpected tie order: %+v", snap.Companies)
	}
}

func TestImprovementRate(t *testing.T) {
	// Fewer than 3 sessions: not meaningful, reported as 0.
	if snap := Compute(historyFromScores(50, 90)); snap.ImprovementRate != 0 {
		t.Fatalf("expected rate 0 below 3 sessions, got %f", snap.ImprovementRate)
	}
	// Perfect +5 per session line.
	if snap := Compute(historyFromScores(60, 65, 70, 75)); snap.ImprovementRate != 5 {
		t.Fatalf("expected slope 5, got %f", snap.ImprovementRate)
	}
	// Slope is rounded to two decimals.
	snap := Compute(historyFromScores(60, 62, 65))
	if snap.ImprovementRate != 2.5 {
		t.Fatalf("expected slope 2.5, got %f", snap.ImprovementRate)
	}
}

func TestStreaks(t *testing.T) {
	snap := Compute(historyFromScores(85, 90, 70, 80, 80, 80, 60))
	if snap.BestStreak != 3 {
		t.Fatalf("expected best streak 3, got %d", snap.BestStreak)
	}
	if snap.CurrentStreak != 0 {
		t.Fatalf("expected current streak 0 after a low finish, got %d", snap.CurrentStreak)
	}
	if snap.BestStreak < snap.CurrentStreak {
		t.Fatalf("best streak below current streak")
	}
	snap = Compute(historyFromScores(70, 85, 90))
	if snap.CurrentStreak != 2 || snap.BestStreak != 2 {
		t.Fatalf("expected streaks 2/2, got current=%d best=%d", snap.CurrentStreak, snap.BestStreak)
	}
}

func TestBestWorstTieBreaking(t *testing.T) {
	history := historyFromScores(80, 80, 80)
	history[0].Company = "First"
	history[2].Company = "Last"
	snap := Compute(history)
	if snap.Best.Company != "First" {
		t.Fatalf("expected first occurrence as best, got %s", snap.Best.Company)
	}
	if snap.Worst.Company != "Last" {
		t.Fatalf("expected last occurrence as worst, got %s", snap.Worst.Company)
	}
}

func TestMovingAverage(t *testing.T) {
	values := []float64{10, 20, 30, 40}
	out := MovingAverage(values, 2)
	want := []float64{10, 15, 25, 35}
	if !reflect.DeepEqual(out, want) {
		t.Fatalf("unexpected moving average: %v", out)
	}
	same := MovingAverage(values, 1)
	if !reflect.DeepEqual(same, values) {
		t.Fatalf("window 1 should copy input, got %v", same)
	}
	same[0] = 99
	if values[0] != 10 {
		t.Fatalf("MovingAverage must not alias its input")
	}
}

func TestSparkline(t *testing.T) {
	if s := Sparkline(nil); s != "" {
		t.Fatalf("expected empty sparkline, got %q", s)
	}
	s := Sparkline([]float64{0, 50, 100})
	if len(s) != 3 {
		t.Fatalf("expected 3 chars, got %q", s)
	}
	if s[0] != ' ' || s[2] != '@' {
		t.Fatalf("expected full-range sparkline, got %q", s)
	}
	flat := Sparkline([]float64{5, 5, 5})
	if flat != "+++" {
		t.Fatalf("expected flat sparkline, got %q", flat)
	}
}

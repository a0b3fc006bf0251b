package grade

import (
	"strings"
	"testing"
)

func TestGradeEmptyInputs(t *testing.T) {
	if r := Grade("", []string{"hash map"}, 60); r != nil {
		t.Fatalf("expected nil for empty transcript, got %+v", r)
	}
	if r := Grade("some answer", nil, 60); r != nil {
		t.Fatalf("expected nil for empty keywords, got %+v", r)
	}
	if r := Grade("", nil, 60); r != nil {
		t.Fatalf("expected nil for empty everything, got %+v", r)
	}
}

func TestGradeFullCoverage(t *testing.T) {
	transcript := "I used a hash map and two pointers to solve it in O(n) linear time overall"
	keys := []string{"hash map", "two pointers", "O(n)"}
	r := Grade(transcript, keys, 75)
	if r == nil {
		t.Fatalf("expected a result")
	}
	if len(r.Hits) != 3 {
		t.Fatalf("expected 3 hits, got %v", r.Hits)
	}
	// 16 words: no engagement bonus, no brevity bonus, no word floor.
	if r.Pct != 80 {
		t.Fatalf("expected pct 80, got %d", r.Pct)
	}
	if r.Grade != GradeB {
		t.Fatalf("expected grade B, got %s", r.Grade)
	}
	if r.Total != 3 {
		t.Fatalf("expected total 3, got %d", r.Total)
	}
}

func TestGradeFloorBeatsFullCoverage(t *testing.T) {
	// Same keywords all hit, but 14 words: the <15-word cap wins over
	// full coverage.
	transcript := "I used a hash map and two pointers to solve it in O(n) time"
	r := Grade(transcript, []string{"hash map", "two pointers", "O(n)"}, 75)
	if r == nil {
		t.Fatalf("expected a result")
	}
	if len(r.Hits) != 3 {
		t.Fatalf("expected 3 hits, got %v", r.Hits)
	}
	if r.Pct != 25 {
		t.Fatalf("expected pct capped at 25, got %d", r.Pct)
	}
	if r.Grade != GradeF {
		t.Fatalf("expected grade F, got %s", r.Grade)
	}
}

func TestGradeNearEmptyAnswer(t *testing.T) {
	r := Grade("idk", []string{"hash map"}, 100)
	if r == nil {
		t.Fatalf("expected a result")
	}
	if r.Pct != 0 {
		t.Fatalf("expected pct 0, got %d", r.Pct)
	}
	if r.Grade != GradeF {
		t.Fatalf("expected grade F, got %s", r.Grade)
	}
	if len(r.Hits) != 0 {
		t.Fatalf("expected no hits, got %v", r.Hits)
	}
}

func TestGradeWordCountFloor(t *testing.T) {
	// All keywords hit, but under 15 words: score is capped at 25.
	r := Grade("hash map two pointers", []string{"hash map", "two pointers"}, 30)
	if r == nil {
		t.Fatalf("expected a result")
	}
	if r.Pct > 25 {
		t.Fatalf("expected pct <= 25 under the word floor, got %d", r.Pct)
	}
}

func TestGradeBonuses(t *testing.T) {
	keys := []string{"scaling"}
	base := "scaling " + strings.Repeat("word ", 39) // 40 words
	r := Grade(base, keys, 100)
	if r == nil {
		t.Fatalf("expected a result")
	}
	// 80 coverage + 3 engagement, no brevity at 100s.
	if r.Pct != 83 {
		t.Fatalf("expected pct 83, got %d", r.Pct)
	}
	fast := Grade(base, keys, 75)
	// Same answer under 90s adds the +5 brevity bonus.
	if fast.Pct != 88 {
		t.Fatalf("expected pct 88, got %d", fast.Pct)
	}
	long := Grade("scaling "+strings.Repeat("word ", 150), keys, 100)
	if long.Pct != 90 {
		t.Fatalf("expected pct 90, got %d", long.Pct)
	}
}

func TestGradeCaseInsensitiveSubstring(t *testing.T) {
	transcript := strings.Repeat("filler ", 20) + "we used a HASHMAP here"
	r := Grade(transcript, []string{"HashMap"}, 60)
	if r == nil || len(r.Hits) != 1 {
		t.Fatalf("expected case-insensitive substring hit, got %+v", r)
	}
}

func TestGradeMonotonicInHits(t *testing.T) {
	keys := []string{"alpha", "beta", "gamma", "delta"}
	filler := strings.Repeat("word ", 20)
	prev := -1
	answer := filler
	for _, k := range keys {
		answer += k + " "
		r := Grade(answer, keys, 100)
		if r == nil {
			t.Fatalf("expected a result")
		}
		if r.Pct < prev {
			t.Fatalf("pct decreased from %d to %d as hits grew", prev, r.Pct)
		}
		prev = r.Pct
	}
}

func TestLetterFor(t *testing.T) {
	cases := []struct {
		pct  int
		want Letter
	}{
		{100, GradeA}, {93, GradeA}, {92, GradeBPlus}, {87, GradeBPlus},
		{86, GradeB}, {80, GradeB}, {79, GradeCPlus}, {73, GradeCPlus},
		{72, GradeC}, {65, GradeC}, {64, GradeD}, {55, GradeD},
		{54, GradeF}, {0, GradeF},
	}
	for _, tc := range cases {
		if got := LetterFor(tc.pct); got != tc.want {
			t.Fatalf("LetterFor(%d) = %s, want %s", tc.pct, got, tc.want)
		}
	}
}

func TestGradeRange(t *testing.T) {
	transcripts := []string{
		"short",
		strings.Repeat("alpha beta gamma ", 60),
		"alpha " + strings.Repeat("x ", 35),
	}
	for _, tr := range transcripts {
		for _, secs := range []int{0, 60, 120} {
			r := Grade(tr, []string{"alpha", "beta"}, secs)
			if r == nil {
				t.Fatalf("expected a result for %q", tr)
			}
			if r.Pct < 0 || r.Pct > 100 {
				t.Fatalf("pct out of range: %d", r.Pct)
			}
			if r.Grade != LetterFor(r.Pct) {
				t.Fatalf("grade %s inconsistent with pct %d", r.Grade, r.Pct)
			}
		}
	}
}

func TestFallback(t *testing.T) {
	fb := Fallback([]string{"a", "b"})
	if fb.Pct != 0 || fb.Grade != GradeF || fb.Total != 2 || len(fb.Hits) != 0 {
		t.Fatalf("unexpected fallback: %+v", fb)
	}
}

func TestColorKnownAndUnknown(t *testing.T) {
	if Color(GradeA) != "#3ee8b5" {
		t.Fatalf("unexpected color for A: %s", Color(GradeA))
	}
	if Color("??") != "#666666" {
		t.Fatalf("expected neutral color for unknown grade")
	}
}

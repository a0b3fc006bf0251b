package tui

import "testing"

func TestKeywordSpansCaseInsensitive(t *testing.T) {
	answer := []rune("I use Redis and redis caching")
	spans := keywordSpans(answer, []string{"redis"})
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d: %v", len(spans), spans)
	}
	if spans[0].start != 6 || spans[0].end != 11 {
		t.Fatalf("unexpected first span: %v", spans[0])
	}
	if spans[1].start != 16 || spans[1].end != 21 {
		t.Fatalf("unexpected second span: %v", spans[1])
	}
}

func TestKeywordSpansMergeOverlaps(t *testing.T) {
	answer := []rune("database")
	spans := keywordSpans(answer, []string{"data", "database"})
	if len(spans) != 1 {
		t.Fatalf("expected 1 merged span, got %d: %v", len(spans), spans)
	}
	if spans[0].start != 0 || spans[0].end != 8 {
		t.Fatalf("unexpected merged span: %v", spans[0])
	}
}

func TestBuildAnswerRunesStyles(t *testing.T) {
	answer := []rune("a redis b")
	spans := keywordSpans(answer, []string{"redis"})
	runes := buildAnswerRunes(answer, spans)
	if len(runes) != len(answer) {
		t.Fatalf("expected %d runes, got %d", len(answer), len(runes))
	}
	if runes[0].s != answerStyle.Render("a") {
		t.Fatalf("expected plain style outside a hit")
	}
	if runes[2].s != hitStyle.Render("r") {
		t.Fatalf("expected hit style inside a keyword")
	}
	if runes[6].s != hitStyle.Render("s") {
		t.Fatalf("expected hit style at keyword end")
	}
	if runes[8].s != answerStyle.Render("b") {
		t.Fatalf("expected plain style after a hit")
	}
}

func plainRunes(s string) []styledRune {
	out := make([]styledRune, 0, len(s))
	for _, r := range s {
		out = append(out, styledRune{s: string(r), width: 1, isSpace: r == ' '})
	}
	return out
}

func TestWrapStyledRunesBreaksAtSpaces(t *testing.T) {
	out := wrapStyledRunes(plainRunes("one two three"), 7)
	if out != "one\ntwo\nthree" {
		t.Fatalf("unexpected wrap: %q", out)
	}
}

func TestWrapStyledRunesHardBreak(t *testing.T) {
	out := wrapStyledRunes(plainRunes("abcdef"), 3)
	if out != "abc\ndef" {
		t.Fatalf("unexpected wrap: %q", out)
	}
}

func TestWrapStyledRunesNoWidth(t *testing.T) {
	out := wrapStyledRunes(plainRunes("abc"), 0)
	if out != "abc" {
		t.Fatalf("expected unwrapped output, got %q", out)
	}
}

package tui

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

type keywordSpan struct {
	start int
	end   int
}

// keywordSpans finds every case-insensitive keyword occurrence in the
// answer, as rune index ranges with overlaps merged.
func keywordSpans(answer []rune, keywords []string) []keywordSpan {
	lowered := lowerRunes(answer)
	spans := []keywordSpan{}
	for _, keyword := range keywords {
		target := lowerRunes([]rune(keyword))
		if len(target) == 0 {
			continue
		}
		for i := 0; i+len(target) <= len(lowered); i++ {
			if runesEqual(lowered[i:i+len(target)], target) {
				spans = append(spans, keywordSpan{start: i, end: i + len(target)})
			}
		}
	}
	return mergeSpans(spans)
}

func lowerRunes(runes []rune) []rune {
	out := make([]rune, len(runes))
	for i, r := range runes {
		out[i] = unicode.ToLower(r)
	}
	return out
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func mergeSpans(spans []keywordSpan) []keywordSpan {
	if len(spans) == 0 {
		return spans
	}
	for i := 1; i < len(spans); i++ {
		for j := i; j > 0 && spans[j].start < spans[j-1].start; j-- {
			spans[j], spans[j-1] = spans[j-1], spans[j]
		}
	}
	merged := spans[:1]
	for _, span := range spans[1:] {
		last := &merged[len(merged)-1]
		if span.start <= last.end {
			if span.end > last.end {
				last.end = span.end
			}
			continue
		}
		merged = append(merged, span)
	}
	return merged
}

func buildAnswerRunes(answerRunes []rune, spans []keywordSpan) []styledRune {
	out := make([]styledRune, 0, len(answerRunes))
	spanIdx := 0
	for i, r := range answerRunes {
		for spanIdx < len(spans) && i >= spans[spanIdx].end {
			spanIdx++
		}
		style := answerStyle
		if spanIdx < len(spans) && i >= spans[spanIdx].start {
			style = hitStyle
		}
		out = append(out, styledRune{
			s:       style.Render(string(r)),
			width:   runewidth.RuneWidth(r),
			isSpace: r == ' ' || r == '\n',
		})
	}
	return out
}

// highlightAnswer renders the answer with keyword hits highlighted,
// wrapped to the given width.
func highlightAnswer(answer string, keywords []string, width int) string {
	answerRunes := []rune(answer)
	spans := keywordSpans(answerRunes, keywords)
	return wrapStyledRunes(buildAnswerRunes(answerRunes, spans), width)
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}

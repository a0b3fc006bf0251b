package deck

import (
	"math/rand"
	"time"
)

// Picker selects randomized question subsets from a deck.
type Picker struct {
	rnd *rand.Rand
}

// NewPicker returns a Picker seeded with the current time.
func NewPicker() *Picker {
	return &Picker{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Pick returns up to count distinct questions in random order.
// When count is zero or exceeds the deck size, all questions are returned.
func (p *Picker) Pick(d Deck, count int) []Question {
	n := len(d.Questions)
	if count <= 0 || count > n {
		count = n
	}
	perm := p.rnd.Perm(n)
	out := make([]Question, 0, count)
	for _, idx := range perm[:count] {
		out = append(out, d.Questions[idx])
	}
	return out
}

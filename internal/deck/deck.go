// Package deck loads question decks from TOML files.
package deck

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Question is one interview question with its expected keywords.
type Question struct {
	Text     string   `toml:"text"`
	Keywords []string `toml:"keywords"`
}

// Deck is a named set of interview questions.
type Deck struct {
	Name      string     `toml:"name"`
	Questions []Question `toml:"questions"`
}

// Load reads a deck from the provided TOML file path.
func Load(path string) (Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Deck{}, err
	}
	return Parse(data)
}

// Parse decodes and validates a TOML deck.
func Parse(data []byte) (Deck, error) {
	var d Deck
	if err := toml.Unmarshal(data, &d); err != nil {
		return Deck{}, fmt.Errorf("failed to decode deck: %w", err)
	}
	if len(d.Questions) == 0 {
		return Deck{}, fmt.Errorf("deck has no questions")
	}
	for i, q := range d.Questions {
		if strings.TrimSpace(q.Text) == "" {
			return Deck{}, fmt.Errorf("question %d has no text", i+1)
		}
		if len(q.Keywords) == 0 {
			return Deck{}, fmt.Errorf("question %d (%q) has no keywords", i+1, truncate(q.Text, 40))
		}
		for j, k := range q.Keywords {
			if strings.TrimSpace(k) == "" {
				return Deck{}, fmt.Errorf("question %d has an empty keyword at position %d", i+1, j+1)
			}
		}
	}
	return d, nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

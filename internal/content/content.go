// Package content loads the static quote and question lists the reminder
// loop draws from.
package content

import (
	"fmt"
	"io/fs"
	"math/rand/v2"

	"gopkg.in/yaml.v3"
)

// Entry is one quote or question. Author is optional.
type Entry struct {
	Text   string `yaml:"text"`
	Author string `yaml:"author,omitempty"`
}

// Library holds the loaded lists. Read-only after Load.
type Library struct {
	quotes    []Entry
	questions []Entry
}

// Load reads quotes.yaml and questions.yaml from fsys. Both lists must be
// non-empty.
func Load(fsys fs.FS) (*Library, error) {
	quotes, err := loadList(fsys, "quotes.yaml")
	if err != nil {
		return nil, err
	}
	questions, err := loadList(fsys, "questions.yaml")
	if err != nil {
		return nil, err
	}
	return &Library{quotes: quotes, questions: questions}, nil
}

func loadList(fsys fs.FS, name string) ([]Entry, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%s: empty list", name)
	}
	return entries, nil
}

// RandomQuote picks a quote uniformly at random.
func (l *Library) RandomQuote() Entry {
	return l.quotes[rand.IntN(len(l.quotes))]
}

// RandomQuestion picks a question uniformly at random.
func (l *Library) RandomQuestion() Entry {
	return l.questions[rand.IntN(len(l.questions))]
}

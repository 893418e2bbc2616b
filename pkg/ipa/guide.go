package ipa

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

//go:embed guide.yaml
var guideYAML []byte

// GuideRow is one symbol of the pronunciation guide.
type GuideRow struct {
	Key     string `yaml:"key" json:"key"`
	Display string `yaml:"display" json:"display"`
	Hint    string `yaml:"hint" json:"hint"`
	Example string `yaml:"example" json:"example"`
}

// Guide is an ordered symbol inventory.
type Guide struct {
	rows []GuideRow
	// keys holds the distinct row keys, longest first, so "tʃ" is found
	// before "ʃ" can claim its second half.
	keys []string
}

// ParseGuide builds a guide from YAML rows.
func ParseGuide(data []byte) (*Guide, error) {
	var rows []GuideRow
	if err := yaml.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse guide: %w", err)
	}
	return NewGuide(rows), nil
}

// NewGuide builds a guide from rows, keeping their order for display.
func NewGuide(rows []GuideRow) *Guide {
	g := &Guide{rows: rows}
	seen := make(map[string]bool, len(rows))
	for _, r := range rows {
		if r.Key == "" || seen[r.Key] {
			continue
		}
		seen[r.Key] = true
		g.keys = append(g.keys, r.Key)
	}
	sort.SliceStable(g.keys, func(i, j int) bool {
		return utf8.RuneCountInString(g.keys[i]) > utf8.RuneCountInString(g.keys[j])
	})
	return g
}

// DefaultGuide returns the built-in 22-row guide.
var DefaultGuide = sync.OnceValue(func() *Guide {
	g, err := ParseGuide(guideYAML)
	if err != nil {
		panic(err)
	}
	return g
})

// Rows returns the guide rows in display order.
func (g *Guide) Rows() []GuideRow {
	return append([]GuideRow(nil), g.rows...)
}

// Extract returns the guide symbols present in ipa. Each symbol found is
// blanked out of a working copy before shorter symbols are tested.
func (g *Guide) Extract(ipa string) SymbolSet {
	found := SymbolSet{}
	working := strings.TrimSpace(ipa)
	if working == "" {
		return found
	}
	for _, k := range g.keys {
		if !strings.Contains(working, k) {
			continue
		}
		found[k] = struct{}{}
		working = strings.ReplaceAll(working, k, " ")
	}
	return found
}

// SymbolSet is a set of guide keys.
type SymbolSet map[string]struct{}

// Has reports whether key is in the set.
func (s SymbolSet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Sorted returns the keys in lexical order.
func (s SymbolSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

package lexicon

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed lexicon.yaml
var defaultTables []byte

// Set is a list of lowercase terms matched by substring.
type Set []string

// Contains reports whether any term occurs in text.
func (s Set) Contains(text string) bool {
	lowered := strings.ToLower(text)
	for _, term := range s {
		if strings.Contains(lowered, term) {
			return true
		}
	}
	return false
}

// Count returns how many distinct terms occur in text. A term that appears
// several times counts once.
func (s Set) Count(text string) int {
	lowered := strings.ToLower(text)
	n := 0
	for _, term := range s {
		if strings.Contains(lowered, term) {
			n++
		}
	}
	return n
}

type Tables struct {
	Human       Set `yaml:"human"`
	Frustration Set `yaml:"frustration"`
	Order       Set `yaml:"order"`
	Hedge       Set `yaml:"hedge"`
	Apology     Set `yaml:"apology"`
	Currency    Set `yaml:"currency"`
}

// Default returns the embedded tables.
func Default() Tables {
	t, err := parse(defaultTables)
	if err != nil {
		panic(fmt.Sprintf("lexicon: embedded tables: %v", err))
	}
	return t
}

// Load reads tables from a YAML file. Keys missing from the file keep the
// embedded defaults. An empty path returns the defaults.
func Load(path string) (Tables, error) {
	base := Default()
	if strings.TrimSpace(path) == "" {
		return base, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("read lexicon: %w", err)
	}
	override, err := parse(b)
	if err != nil {
		return Tables{}, err
	}
	return merge(base, override), nil
}

func parse(b []byte) (Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(b, &t); err != nil {
		return Tables{}, fmt.Errorf("parse lexicon: %w", err)
	}
	t.Human = normalize(t.Human)
	t.Frustration = normalize(t.Frustration)
	t.Order = normalize(t.Order)
	t.Hedge = normalize(t.Hedge)
	t.Apology = normalize(t.Apology)
	t.Currency = normalize(t.Currency)
	return t, nil
}

func merge(base, override Tables) Tables {
	pick := func(b, o Set) Set {
		if len(o) > 0 {
			return o
		}
		return b
	}
	return Tables{
		Human:       pick(base.Human, override.Human),
		Frustration: pick(base.Frustration, override.Frustration),
		Order:       pick(base.Order, override.Order),
		Hedge:       pick(base.Hedge, override.Hedge),
		Apology:     pick(base.Apology, override.Apology),
		Currency:    pick(base.Currency, override.Currency),
	}
}

func normalize(s Set) Set {
	out := make(Set, 0, len(s))
	seen := map[string]struct{}{}
	for _, term := range s {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		out = append(out, term)
	}
	return out
}

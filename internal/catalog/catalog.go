// Package catalog holds the localized messages sent back after each logged
// habit, and picks one at random per reply.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/chris/sambo/internal/habit"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// LanguageCount is the number of languages every entry must carry.
const LanguageCount = 3

// Text is one entry rendered in one language.
type Text struct {
	Lang string
	Text string
}

// Entry is one motivational unit for a category.
type Entry struct {
	Category habit.Category
	Seq      int
	Texts    []Text // in catalog language order
	Image    string // optional file name
}

// Catalog is immutable after loading.
type Catalog struct {
	languages  []string
	byCategory map[habit.Category][]Entry
}

// ConfigError reports every problem found while loading a catalog.
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) Error() string {
	return "invalid catalog: " + strings.Join(e.Problems, "; ")
}

type fileFormat struct {
	Languages []string    `yaml:"languages"`
	Entries   []fileEntry `yaml:"entries"`
}

type fileEntry struct {
	Category string            `yaml:"category"`
	Seq      int               `yaml:"seq"`
	Image    string            `yaml:"image"`
	Texts    map[string]string `yaml:"texts"`
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog file, or the built-in one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a catalog. A catalog that leaves any known
// category without entries is rejected.
func Parse(data []byte) (*Catalog, error) {
	var f fileFormat
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, &ConfigError{Problems: []string{"decoding yaml: " + err.Error()}}
	}

	var problems []string
	if len(f.Languages) != LanguageCount {
		problems = append(problems, fmt.Sprintf("expected %d languages, got %d", LanguageCount, len(f.Languages)))
	}
	langSeen := map[string]bool{}
	for _, l := range f.Languages {
		if langSeen[l] {
			problems = append(problems, fmt.Sprintf("language %q listed twice", l))
		}
		langSeen[l] = true
	}

	c := &Catalog{
		languages:  append([]string(nil), f.Languages...),
		byCategory: make(map[habit.Category][]Entry),
	}
	type key struct {
		cat habit.Category
		seq int
	}
	seen := map[key]bool{}

	for i, fe := range f.Entries {
		where := fmt.Sprintf("entry %d (%s/%d)", i+1, fe.Category, fe.Seq)
		cat, err := habit.ParseCategory(fe.Category)
		if err != nil {
			problems = append(problems, where+": "+err.Error())
			continue
		}
		k := key{cat, fe.Seq}
		if seen[k] {
			problems = append(problems, where+": duplicate sequence id")
			continue
		}
		seen[k] = true

		e := Entry{Category: cat, Seq: fe.Seq, Image: strings.TrimSpace(fe.Image)}
		for _, lang := range f.Languages {
			text := strings.TrimSpace(fe.Texts[lang])
			if text == "" {
				problems = append(problems, fmt.Sprintf("%s: missing %s text", where, lang))
				continue
			}
			e.Texts = append(e.Texts, Text{Lang: lang, Text: text})
		}
		for lang := range fe.Texts {
			if !langSeen[lang] {
				problems = append(problems, fmt.Sprintf("%s: unknown language %q", where, lang))
			}
		}
		c.byCategory[cat] = append(c.byCategory[cat], e)
	}

	for _, cat := range habit.Categories() {
		if len(c.byCategory[cat]) == 0 {
			problems = append(problems, fmt.Sprintf("no entries for %s", cat))
		}
	}
	if len(problems) > 0 {
		sort.Strings(problems)
		return nil, &ConfigError{Problems: problems}
	}
	return c, nil
}

// Languages returns the catalog languages in render order.
func (c *Catalog) Languages() []string {
	return append([]string(nil), c.languages...)
}

// Entries returns the entries of one category.
func (c *Catalog) Entries(cat habit.Category) []Entry {
	return append([]Entry(nil), c.byCategory[cat]...)
}

// Images lists every image file the catalog refers to.
func (c *Catalog) Images() []string {
	var out []string
	for _, cat := range habit.Categories() {
		for _, e := range c.byCategory[cat] {
			if e.Image != "" {
				out = append(out, e.Image)
			}
		}
	}
	return out
}

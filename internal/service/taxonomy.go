package service

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/neupaneprasanna/prasannarent-sub002/internal/utils"
)

//go:embed taxonomy.yaml
var defaultTaxonomyYAML []byte

// CategoryEntry is one category and the labels that mean it
type CategoryEntry struct {
	Name     string   `yaml:"name"`
	Synonyms []string `yaml:"synonyms"`
}

// NeedRule maps need-based phrasing to concrete item keywords
type NeedRule struct {
	Need     string   `yaml:"need"`
	Triggers []string `yaml:"triggers"`
	Keywords []string `yaml:"keywords"`
}

// Taxonomy holds category synonyms and need rules used to prompt and sanitize intents
type Taxonomy struct {
	Categories []CategoryEntry `yaml:"categories"`
	Needs      []NeedRule      `yaml:"needs"`

	synonyms map[string][]string
}

// ParseTaxonomy decodes a taxonomy document
func ParseTaxonomy(data []byte) (*Taxonomy, error) {
	var t Taxonomy
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse taxonomy: %w", err)
	}

	t.synonyms = make(map[string][]string, len(t.Categories))
	for _, c := range t.Categories {
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("parse taxonomy: category with empty name")
		}
		t.synonyms[c.Name] = c.Synonyms
	}
	for _, n := range t.Needs {
		if len(n.Keywords) == 0 {
			return nil, fmt.Errorf("parse taxonomy: need %q has no keywords", n.Need)
		}
	}
	return &t, nil
}

// DefaultTaxonomy returns the embedded taxonomy
func DefaultTaxonomy() *Taxonomy {
	t, err := ParseTaxonomy(defaultTaxonomyYAML)
	if err != nil {
		panic(err)
	}
	return t
}

// Synonyms returns category name -> synonym labels
func (t *Taxonomy) Synonyms() map[string][]string {
	return t.synonyms
}

// ResolveCategory maps a free-text label to one of categories, or nil.
func (t *Taxonomy) ResolveCategory(label string, categories []string) *string {
	name, ok := utils.MatchCategory(label, categories, t.synonyms)
	if !ok {
		return nil
	}
	return &name
}

// NeedKeywords returns the keywords of every need rule whose trigger
// appears as a word in query, in rule order without duplicates.
func (t *Taxonomy) NeedKeywords(query string) []string {
	words := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(query)) {
		words[strings.Trim(w, ".,!?;:")] = true
	}

	var out []string
	seen := make(map[string]bool)
	for _, n := range t.Needs {
		if !n.matches(words) {
			continue
		}
		for _, k := range n.Keywords {
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	return out
}

func (n NeedRule) matches(words map[string]bool) bool {
	for _, trig := range n.Triggers {
		if words[strings.ToLower(trig)] {
			return true
		}
	}
	return false
}

// IntentPrompt renders the system instruction for intent extraction.
func (t *Taxonomy) IntentPrompt(categories []string) string {
	var b strings.Builder

	b.WriteString("You are the search assistant of a peer-to-peer rental marketplace. ")
	b.WriteString("Turn the user's query into a JSON object with exactly these fields:\n")
	b.WriteString(`{"category": string|null, "minPrice": number|null, "maxPrice": number|null, "keywords": [string], "semanticQuery": string, "explanation": string}`)
	b.WriteString("\n\nRules:\n")
	fmt.Fprintf(&b, "1. category must be exactly one of %s, or null when none fits. Pick the single most specific category.\n", quoteList(categories))
	b.WriteString("2. minPrice and maxPrice are per-day prices stated or implied by the query (\"under 50\" means maxPrice 50). Use null when absent.\n")
	b.WriteString("3. keywords are concrete item words to match against listing titles, descriptions and tags. Drop filler words such as \"I need\", \"looking for\", \"something\" or \"for rent\".\n")
	b.WriteString("4. When the user describes a need instead of an item, list the items that satisfy it:\n")
	for _, n := range t.Needs {
		fmt.Fprintf(&b, "   - %s -> %s\n", n.Need, strings.Join(n.Keywords, ", "))
	}
	b.WriteString("5. semanticQuery is the query rewritten as a short item description.\n")
	b.WriteString("6. explanation is one short sentence telling the user what you are searching for.\n")

	var synonymLines []string
	for _, c := range t.Categories {
		if len(c.Synonyms) > 0 && contains(categories, c.Name) {
			synonymLines = append(synonymLines, fmt.Sprintf("   - %s: %s", c.Name, strings.Join(c.Synonyms, ", ")))
		}
	}
	if len(synonymLines) > 0 {
		b.WriteString("\nCategory hints:\n")
		b.WriteString(strings.Join(synonymLines, "\n"))
		b.WriteString("\n")
	}

	b.WriteString("\nRespond with the JSON object only.")
	return b.String()
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

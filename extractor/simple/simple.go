// Package simple provides a regex-based EntityExtractor reference
// implementation: good enough for local development and tests, and a
// drop-in point for a production NLP/LLM-backed extractor.
package simple

import (
	"context"
	"fmt"
	"regexp"
	"sort"

	"github.com/coreason-ai/archive/extractor"
)

// pattern pairs a compiled regex with the entity Type it produces a label
// for. Capture group 1 is the entity Name.
type pattern struct {
	entityType string
	re         *regexp.Regexp
}

// Extractor recognizes a configurable set of "Type:Name" patterns in text
// via capitalized-phrase heuristics per registered type.
type Extractor struct {
	patterns []pattern
}

// New builds an Extractor. typeNames maps an entity Type to the regex used
// to find candidate Names for it; the regex must have exactly one capture
// group. A sensible default set (Project, Department, Drug, Client) is used
// when typeNames is empty.
func New(typeNames map[string]string) (*Extractor, error) {
	if len(typeNames) == 0 {
		typeNames = defaultPatterns()
	}
	e := &Extractor{}
	// Deterministic iteration order for reproducible extraction results.
	keys := make([]string, 0, len(typeNames))
	for k := range typeNames {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, t := range keys {
		re, err := regexp.Compile(typeNames[t])
		if err != nil {
			return nil, fmt.Errorf("extractor/simple: compile pattern for %s: %w", t, err)
		}
		e.patterns = append(e.patterns, pattern{entityType: t, re: re})
	}
	return e, nil
}

func defaultPatterns() map[string]string {
	return map[string]string{
		"Project":    `\bProject\s+([A-Z][A-Za-z0-9]+)\b`,
		"Department": `\b(?:dept|department)\s+([A-Za-z0-9_-]+)\b`,
		"Drug":       `\bDrug\s+([A-Z][A-Za-z0-9-]*)\b`,
		"Client":     `\bClient\s+([A-Z][A-Za-z0-9]+)\b`,
	}
}

// Extract implements extractor.EntityExtractor.
func (e *Extractor) Extract(_ context.Context, text string) ([]string, error) {
	seen := make(map[string]bool)
	var labels []string
	for _, p := range e.patterns {
		for _, m := range p.re.FindAllStringSubmatch(text, -1) {
			if len(m) < 2 {
				continue
			}
			label := fmt.Sprintf("%s:%s", p.entityType, m[1])
			if !seen[label] {
				seen[label] = true
				labels = append(labels, label)
			}
		}
	}
	return labels, nil
}

var _ extractor.EntityExtractor = (*Extractor)(nil)

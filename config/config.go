// Package config holds the process-wide tunables that stay out of code:
// decay defaults, classification thresholds, graph boost factor, candidate
// fan-out K, and the sanitization predicate's pattern set. Constructed once
// at startup by the composition root and handed to every component — there
// is no ambient singleton.
package config

import "regexp"

// DecayConvention documents the chosen half-life semantics for λ:
// λ = ln(2) / ttl_seconds, i.e. relevance halves every ttl_seconds. The
// alternative (λ = 1/ttl_seconds, "relevance ≈ 0 at t = ttl_seconds") is a
// one-line change to temporal.Ranker, not a redesign.
const DecayConvention = "half-life"

// Matchmaker holds the Matchmaker's scoring thresholds and fan-out.
type Matchmaker struct {
	// CandidateK is the number of candidates pulled from the Vector Index.
	// Default 20.
	CandidateK int

	// ExactHitThreshold is the score at or above which a lookup is an
	// EXACT_HIT. Default 0.99.
	ExactHitThreshold float64

	// SemanticHintThreshold is the score at or above which (but below
	// ExactHitThreshold) a lookup is a SEMANTIC_HINT. Default 0.85.
	SemanticHintThreshold float64

	// GraphBoostFactor is β in `boost = 1 + β · 1[linked]`. Default 0.15.
	GraphBoostFactor float64

	// GraphBoostMaxHops bounds the Graph.linked reachability check. Default 2.
	GraphBoostMaxHops int
}

// DefaultMatchmaker returns the stated defaults.
func DefaultMatchmaker() Matchmaker {
	return Matchmaker{
		CandidateK:            20,
		ExactHitThreshold:     0.99,
		SemanticHintThreshold: 0.85,
		GraphBoostFactor:      0.15,
		GraphBoostMaxHops:     2,
	}
}

// ScopeTTLDefaults gives the per-scope default ttl_seconds a caller may omit
// at ingest time. Scratchpad-like scopes decay fast; GLOBAL facts are
// long-lived.
type ScopeTTLDefaults map[string]int64

// DefaultScopeTTLs returns sensible per-scope half-lives, in seconds.
func DefaultScopeTTLs() ScopeTTLDefaults {
	return ScopeTTLDefaults{
		"USER":       1 * 3600,       // 1 hour: personal scratch context
		"PROJECT":    7 * 24 * 3600,  // 1 week
		"DEPARTMENT": 30 * 24 * 3600, // 30 days
		"CLIENT":     30 * 24 * 3600, // 30 days
		"GLOBAL":     365 * 24 * 3600,
	}
}

// SanitizationRules configures the Relocation Manager's contains_sensitive
// predicate.
type SanitizationRules struct {
	// PIIPatterns are compiled regexes checked against prompt, reasoning
	// trace, and final response text.
	PIIPatterns []*regexp.Regexp

	// SensitiveRolePrefixes flags a thought sensitive if any of its
	// access_roles starts with one of these prefixes (e.g. "secret:").
	SensitiveRolePrefixes []string

	// DeniedEntityLabels flags a thought sensitive if any of its extracted
	// entities exactly matches one of these labels.
	DeniedEntityLabels []string
}

// DefaultSanitizationRules returns a conservative default pattern set: a
// handful of common PII/secret shapes plus the "secret:*" role convention.
func DefaultSanitizationRules() SanitizationRules {
	return SanitizationRules{
		PIIPatterns: []*regexp.Regexp{
			regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),                 // SSN
			regexp.MustCompile(`(?i)\bsecret\s+r&d\s+formula\b`),         // internal trade secret marker
			regexp.MustCompile(`(?i)\b(api[_-]?key|password|token)\s*[:=]\s*\S+`),
		},
		SensitiveRolePrefixes: []string{"secret:"},
	}
}

// ContainsSensitive evaluates the rule set against the given text fields.
func (r SanitizationRules) ContainsSensitive(texts ...string) bool {
	for _, t := range texts {
		for _, re := range r.PIIPatterns {
			if re.MatchString(t) {
				return true
			}
		}
	}
	return false
}

// RolesSensitive reports whether any role matches a sensitive prefix.
func (r SanitizationRules) RolesSensitive(roles []string) bool {
	for _, role := range roles {
		for _, prefix := range r.SensitiveRolePrefixes {
			if len(role) >= len(prefix) && role[:len(prefix)] == prefix {
				return true
			}
		}
	}
	return false
}

// EntitiesSensitive reports whether any entity label is on the deny list.
func (r SanitizationRules) EntitiesSensitive(entities []string) bool {
	for _, e := range entities {
		for _, denied := range r.DeniedEntityLabels {
			if e == denied {
				return true
			}
		}
	}
	return false
}

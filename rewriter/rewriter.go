// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

/*
Package rewriter implements query expansion over a static domain synonym
table (spec component G).
*/
package rewriter

import "strings"

// synonyms maps a case-folded domain term to its equivalents. Both keys
// and entries are stored lowercased; lookups fold the input to match.
var synonyms = map[string][]string{
	"auth":         {"authentication", "login"},
	"authentication": {"auth", "login"},
	"login":        {"auth", "authentication"},
	"db":           {"database", "storage"},
	"database":     {"db", "storage"},
	"storage":      {"db", "database"},
	"python":       {"py"},
	"py":           {"python"},
	"k8s":          {"kubernetes"},
	"kubernetes":   {"k8s"},
	"js":           {"javascript"},
	"javascript":   {"js"},
	"config":       {"configuration", "settings"},
	"configuration": {"config", "settings"},
	"repo":         {"repository"},
	"repository":   {"repo"},
	"api":          {"endpoint", "interface"},
	"llm":          {"language model", "model"},
}

// Rewriter expands query terms against the synonym table.
type Rewriter struct{}

// New creates a Rewriter.
func New() *Rewriter {
	return &Rewriter{}
}

// Expand returns term (case-folded) plus its known synonyms, in table
// order with the original term first. A term with no known synonyms
// returns a single-element slice.
func (r *Rewriter) Expand(term string) []string {
	folded := strings.ToLower(strings.TrimSpace(term))
	if folded == "" {
		return nil
	}
	out := []string{folded}
	if syns, ok := synonyms[folded]; ok {
		out = append(out, syns...)
	}
	return out
}

// ExpandQuery tokenizes q on whitespace and unions each token's
// expansion, de-duplicating while preserving first-seen order.
func (r *Rewriter) ExpandQuery(q string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, tok := range strings.Fields(q) {
		for _, exp := range r.Expand(tok) {
			if seen[exp] {
				continue
			}
			seen[exp] = true
			out = append(out, exp)
		}
	}
	return out
}

// Rewrite returns the space-joined expansion of q.
func (r *Rewriter) Rewrite(q string) string {
	return strings.Join(r.ExpandQuery(q), " ")
}

// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package eval

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// jsonCategoryStats mirrors CategoryStats with JSON field names.
type jsonCategoryStats struct {
	Total     int     `json:"total"`
	Correct   int     `json:"correct"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Accuracy  float64 `json:"accuracy"`
}

// jsonReport mirrors Report with JSON field names.
type jsonReport struct {
	Overall    jsonCategoryStats            `json:"overall"`
	ByCategory map[string]jsonCategoryStats `json:"by_category"`
	Questions  []jsonQuestionResult         `json:"questions"`
}

type jsonQuestionResult struct {
	ID        string  `json:"id"`
	Category  string  `json:"category"`
	Correct   bool    `json:"correct"`
	LatencyMS float64 `json:"latency_ms"`
	Error     string  `json:"error,omitempty"`
}

// ToJSON renders the report as indented JSON.
func (r Report) ToJSON() ([]byte, error) {
	jr := jsonReport{
		Overall:    toJSONStats(r.Overall),
		ByCategory: make(map[string]jsonCategoryStats, len(r.ByCategory)),
		Questions:  make([]jsonQuestionResult, len(r.Results)),
	}
	for cat, stats := range r.ByCategory {
		jr.ByCategory[cat] = toJSONStats(stats)
	}
	for i, qr := range r.Results {
		jq := jsonQuestionResult{
			ID:        qr.Question.ID,
			Category:  qr.Question.Category,
			Correct:   qr.Correct,
			LatencyMS: qr.LatencyMS,
		}
		if qr.Err != nil {
			jq.Error = qr.Err.Error()
		}
		jr.Questions[i] = jq
	}
	return json.MarshalIndent(jr, "", "  ")
}

func toJSONStats(s CategoryStats) jsonCategoryStats {
	return jsonCategoryStats{
		Total:     s.Total,
		Correct:   s.Correct,
		Precision: s.Precision,
		Recall:    s.Recall,
		F1:        s.F1,
		Accuracy:  s.Accuracy,
	}
}

// ToMarkdown renders the report as a human-readable Markdown summary:
// an overall stats table followed by one row per category, sorted by
// category name for stable output.
func (r Report) ToMarkdown() string {
	var b strings.Builder

	b.WriteString("# Evaluation Report\n\n")
	b.WriteString("## Overall\n\n")
	writeStatsTable(&b, map[string]CategoryStats{"overall": r.Overall})

	if len(r.ByCategory) > 0 {
		b.WriteString("\n## By Category\n\n")
		writeStatsTable(&b, r.ByCategory)
	}

	return b.String()
}

func writeStatsTable(b *strings.Builder, rows map[string]CategoryStats) {
	b.WriteString("| Category | Total | Correct | Precision | Recall | F1 | Accuracy |\n")
	b.WriteString("|---|---|---|---|---|---|---|\n")

	names := make([]string, 0, len(rows))
	for name := range rows {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		s := rows[name]
		fmt.Fprintf(b, "| %s | %d | %d | %.3f | %.3f | %.3f | %.3f |\n",
			name, s.Total, s.Correct, s.Precision, s.Recall, s.F1, s.Accuracy)
	}
}

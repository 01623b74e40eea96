// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

/*
Package eval implements the golden-set evaluation harness (spec
component T): load a question set, run each question through a
retrieval and evaluation function, and aggregate precision, recall, F1,
and accuracy overall and per category.
*/
package eval

import (
	"context"
	"encoding/json"
	"time"
)

// Question is one golden-set evaluation case.
type Question struct {
	ID                  string `json:"id"`
	Category            string `json:"category"`
	Question            string `json:"question"`
	ExpectedMemoryType  string `json:"expected_memory_type"`
	ExpectedScope       string `json:"expected_scope"`
	ExpectedSource      string `json:"expected_source"`
}

// GoldenSet is a versioned collection of evaluation questions.
type GoldenSet struct {
	Version   string     `json:"version"`
	Questions []Question `json:"questions"`
}

// LoadGoldenSet parses a golden-set JSON document.
func LoadGoldenSet(data []byte) (GoldenSet, error) {
	var gs GoldenSet
	if err := json.Unmarshal(data, &gs); err != nil {
		return GoldenSet{}, err
	}
	return gs, nil
}

// RetrieveFunc runs a question's query through the system under test.
type RetrieveFunc func(ctx context.Context, q Question) (interface{}, error)

// EvaluateFunc judges whether result correctly answers q. A nil
// EvaluateFunc means every question is considered wrong.
type EvaluateFunc func(q Question, result interface{}) bool

// QuestionResult is the per-question outcome of a Run.
type QuestionResult struct {
	Question  Question
	Correct   bool
	LatencyMS float64
	Err       error
}

// CategoryStats aggregates precision/recall/F1/accuracy for one
// category (or the whole run, under the empty-string category).
type CategoryStats struct {
	Total     int
	Correct   int
	Precision float64
	Recall    float64
	F1        float64
	Accuracy  float64
}

// Report is the full outcome of an evaluation Run.
type Report struct {
	Overall    CategoryStats
	ByCategory map[string]CategoryStats
	Results    []QuestionResult
}

// Run executes every question in gs through retrieve and evaluate,
// recording per-question latency and correctness, then aggregates
// overall and per-category statistics. A nil evaluate always yields an
// incorrect result.
func Run(ctx context.Context, gs GoldenSet, retrieve RetrieveFunc, evaluate EvaluateFunc) Report {
	results := make([]QuestionResult, 0, len(gs.Questions))

	for _, q := range gs.Questions {
		start := time.Now()
		result, err := retrieve(ctx, q)
		latency := float64(time.Since(start).Microseconds()) / 1000.0

		correct := false
		if err == nil && evaluate != nil {
			correct = evaluate(q, result)
		}

		results = append(results, QuestionResult{
			Question:  q,
			Correct:   correct,
			LatencyMS: latency,
			Err:       err,
		})
	}

	byCategory := make(map[string]CategoryStats)
	categoryResults := make(map[string][]QuestionResult)
	for _, r := range results {
		categoryResults[r.Question.Category] = append(categoryResults[r.Question.Category], r)
	}
	for cat, rs := range categoryResults {
		byCategory[cat] = aggregate(rs)
	}

	return Report{
		Overall:    aggregate(results),
		ByCategory: byCategory,
		Results:    results,
	}
}

// aggregate computes precision/recall/F1/accuracy treating a "correct"
// result as a true positive and an "incorrect" one as a false negative
// (there is exactly one expected answer per question, so TP+FN = total).
// No false positives are counted, so precision is 1 whenever at least
// one answer is correct and 0 otherwise.
func aggregate(results []QuestionResult) CategoryStats {
	stats := CategoryStats{Total: len(results)}
	if stats.Total == 0 {
		return stats
	}

	var tp, fp int
	for _, r := range results {
		if r.Correct {
			tp++
		}
	}
	stats.Correct = tp

	fn := stats.Total - tp
	if tp+fp > 0 {
		stats.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		stats.Recall = float64(tp) / float64(tp+fn)
	}
	if stats.Precision+stats.Recall > 0 {
		stats.F1 = 2 * stats.Precision * stats.Recall / (stats.Precision + stats.Recall)
	}
	stats.Accuracy = float64(tp) / float64(stats.Total)
	return stats
}

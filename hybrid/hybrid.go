// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

/*
Package hybrid implements the primary retrieval orchestration (spec
component H): per-user BM25 plus vector search fanned out concurrently,
optionally joined by graph search, fused with Reciprocal Rank Fusion,
and reranked.
*/
package hybrid

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sage-x-project/memory-engine/bm25"
	"github.com/sage-x-project/memory-engine/config"
	"github.com/sage-x-project/memory-engine/fusion"
	"github.com/sage-x-project/memory-engine/graph"
	"github.com/sage-x-project/memory-engine/observability/metrics"
	memerrors "github.com/sage-x-project/memory-engine/pkg/errors"
	"github.com/sage-x-project/memory-engine/pkg/types"
	"github.com/sage-x-project/memory-engine/rerank"
	"github.com/sage-x-project/memory-engine/rewriter"
	"github.com/sage-x-project/memory-engine/vectorindex"
)

// Result is one fused, reranked retrieval hit.
type Result struct {
	Memory       *types.Memory
	Score        float64
	SourceScores map[string]float64
	SourceRanks  map[string]int
}

// Metrics reports the performance and composition of one retrieve call.
type Metrics struct {
	TotalTimeMS      float64
	Stage1TimeMS     float64
	Stage2TimeMS     float64
	BM25Candidates   int
	VectorCandidates int
	GraphCandidates  int
	FinalResults     int
	QueryExpanded    bool
	RerankerUsed     bool
}

// userIndex bundles the per-user lexical and vector indexes.
type userIndex struct {
	bm25   *bm25.Index
	vector *vectorindex.Index
	memory map[string]*types.Memory
}

// Config tunes the fusion weights and defaults applied by a Retriever.
type Config struct {
	BM25Weight  float64
	VectorWeight float64
	GraphWeight float64
	RRFK        int
}

// DefaultConfig returns the spec default weights and RRF constant.
func DefaultConfig() Config {
	return Config{
		BM25Weight:   1.0,
		VectorWeight: 1.0,
		GraphWeight:  0.5,
		RRFK:         fusion.DefaultK,
	}
}

// Retriever is the primary hybrid retrieval orchestrator.
type Retriever struct {
	cfg           Config
	encoder       vectorindex.Encoder
	graphSearch   *graph.Search
	rrf           *fusion.RRF
	reranker      rerank.Reranker
	queryRewriter *rewriter.Rewriter
	indexes       map[string]*userIndex
	collector     metrics.Collector
}

// SetMetricsCollector attaches a metrics collector; every Retrieve call
// records its stage timings and candidate counts through it. Nil
// disables metrics.
func (r *Retriever) SetMetricsCollector(collector metrics.Collector) {
	r.collector = collector
}

// NewFromConfig builds a Retriever the way New does, but takes its fusion
// weights and RRF k from cfg instead of a hybrid.Config literal.
func NewFromConfig(cfg config.HybridConfig, rrfCfg config.RRFConfig, encoder vectorindex.Encoder, graphSearch *graph.Search, reranker rerank.Reranker, queryRewriter *rewriter.Rewriter) *Retriever {
	return New(Config{
		BM25Weight:   cfg.BM25Weight,
		VectorWeight: cfg.VectorWeight,
		GraphWeight:  cfg.GraphWeight,
		RRFK:         rrfCfg.K,
	}, encoder, graphSearch, reranker, queryRewriter)
}

// New creates a Retriever. encoder is required for vector search;
// graphSearch, reranker, and queryRewriter are optional (nil disables
// the corresponding stage).
func New(cfg Config, encoder vectorindex.Encoder, graphSearch *graph.Search, reranker rerank.Reranker, queryRewriter *rewriter.Rewriter) *Retriever {
	rrf, _ := fusion.New(cfg.RRFK) // falls back below if cfg.RRFK is negative
	if rrf == nil {
		rrf, _ = fusion.New(fusion.DefaultK)
	}
	return &Retriever{
		cfg:           cfg,
		encoder:       encoder,
		graphSearch:   graphSearch,
		rrf:           rrf,
		reranker:      reranker,
		queryRewriter: queryRewriter,
		indexes:       make(map[string]*userIndex),
	}
}

// CreateHybridRetriever configures the default pipeline per the spec
// factory contract.
func CreateHybridRetriever(encoder vectorindex.Encoder, useCrossEncoder bool, useQueryRewriter bool, crossEncoder rerank.CrossEncoder, bm25Weight, vectorWeight float64) *Retriever {
	cfg := DefaultConfig()
	cfg.BM25Weight = bm25Weight
	cfg.VectorWeight = vectorWeight

	var rr rerank.Reranker
	if useCrossEncoder && crossEncoder != nil {
		rr = rerank.NewCrossEncoderReranker(crossEncoder)
	} else {
		rr = rerank.NewFallbackReranker()
	}

	var qr *rewriter.Rewriter
	if useQueryRewriter {
		qr = rewriter.New()
	}

	return New(cfg, encoder, graph.NewSearch(), rr, qr)
}

func (r *Retriever) userIndexFor(userID string) (*userIndex, bool) {
	idx, ok := r.indexes[userID]
	return idx, ok
}

// HasIndex reports whether userID has an index.
func (r *Retriever) HasIndex(userID string) bool {
	_, ok := r.indexes[userID]
	return ok
}

// IndexMemories builds (or replaces) the index for userID from memories,
// using ids[i] as the id for memories[i] when provided, else the
// memory's own ID.
func (r *Retriever) IndexMemories(ctx context.Context, userID string, memories []*types.Memory, ids []string) error {
	idx := &userIndex{
		bm25:   bm25.NewIndex(bm25.DefaultConfig()),
		vector: vectorindex.NewIndex(r.encoder),
		memory: make(map[string]*types.Memory, len(memories)),
	}
	for i, m := range memories {
		id := m.ID
		if ids != nil && i < len(ids) && ids[i] != "" {
			id = ids[i]
		}
		idx.bm25.Add(id, m.Content)
		if err := idx.vector.Add(ctx, id, m.Content); err != nil {
			return err
		}
		idx.memory[id] = m.Clone()
	}
	r.indexes[userID] = idx
	return nil
}

// AddMemory incrementally indexes a single memory for userID, creating
// the index if absent.
func (r *Retriever) AddMemory(ctx context.Context, userID string, id string, mem *types.Memory) error {
	idx, ok := r.userIndexFor(userID)
	if !ok {
		idx = &userIndex{
			bm25:   bm25.NewIndex(bm25.DefaultConfig()),
			vector: vectorindex.NewIndex(r.encoder),
			memory: make(map[string]*types.Memory),
		}
		r.indexes[userID] = idx
	}
	idx.bm25.Add(id, mem.Content)
	if err := idx.vector.Add(ctx, id, mem.Content); err != nil {
		return err
	}
	idx.memory[id] = mem.Clone()
	return nil
}

// RemoveMemory removes id from userID's index.
func (r *Retriever) RemoveMemory(userID, id string) {
	idx, ok := r.userIndexFor(userID)
	if !ok {
		return
	}
	idx.bm25.Remove(id)
	idx.vector.Remove(id)
	delete(idx.memory, id)
}

// ClearIndex removes userID's entire index.
func (r *Retriever) ClearIndex(userID string) {
	delete(r.indexes, userID)
}

// IndexStats reports the document count for userID's index, or 0 if
// absent.
func (r *Retriever) IndexStats(userID string) int {
	idx, ok := r.userIndexFor(userID)
	if !ok {
		return 0
	}
	return idx.bm25.DocCount()
}

// Retrieve runs the two-stage hybrid pipeline and returns the fused,
// reranked top_k results along with retrieval metrics.
func (r *Retriever) Retrieve(ctx context.Context, query, userID string, topK int, expandQuery, useReranker bool) ([]Result, Metrics, error) {
	start := time.Now()
	m := Metrics{}
	defer func() { r.recordMetrics(m) }()

	idx, ok := r.userIndexFor(userID)
	if !ok {
		m.TotalTimeMS = msSince(start)
		return nil, m, nil
	}

	effectiveQuery := query
	if expandQuery && r.queryRewriter != nil {
		effectiveQuery = r.queryRewriter.Rewrite(query)
		if effectiveQuery == "" {
			effectiveQuery = query
		}
		m.QueryExpanded = true
	}

	stage1Start := time.Now()
	candidateCount := 2 * topK

	var bm25Hits []bm25.Scored
	var vectorHits []vectorindex.Scored
	var graphHits []graph.Hit

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		bm25Hits = idx.bm25.Search(effectiveQuery)
		if len(bm25Hits) > candidateCount {
			bm25Hits = bm25Hits[:candidateCount]
		}
		return nil
	})
	g.Go(func() error {
		hits, err := idx.vector.Search(gctx, effectiveQuery, candidateCount)
		if err != nil {
			return err
		}
		vectorHits = hits
		return nil
	})
	if r.graphSearch != nil {
		g.Go(func() error {
			graphHits = r.graphSearch.Search(userID, effectiveQuery, candidateCount)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, m, memerrors.Wrap(err, "hybrid stage 1")
	}
	m.Stage1TimeMS = msSince(stage1Start)
	m.BM25Candidates = len(bm25Hits)
	m.VectorCandidates = len(vectorHits)
	m.GraphCandidates = len(graphHits)

	stage2Start := time.Now()

	lists := map[string]fusion.RankedList{
		"bm25":   scoredToRanked(bm25Hits),
		"vector": vectorScoredToRanked(vectorHits),
	}
	weights := map[string]float64{"bm25": r.cfg.BM25Weight, "vector": r.cfg.VectorWeight}
	if r.graphSearch != nil && len(graphHits) > 0 {
		lists["graph"] = graphScoredToRanked(graphHits)
		weights["graph"] = r.cfg.GraphWeight
	}

	detailed := r.rrf.WeightedFuseWithDetails(weights, lists)

	documents := make([]string, len(detailed))
	for i, d := range detailed {
		documents[i] = d.Item
	}

	var reranked []rerank.Result
	rerankerUsed := false
	if useReranker && r.reranker != nil {
		var err error
		reranked, err = r.reranker.Rerank(ctx, effectiveQuery, documentContents(idx, documents), topK)
		if err != nil {
			return nil, m, memerrors.Wrap(err, "hybrid stage 2 rerank")
		}
		rerankerUsed = true
	} else {
		fb := rerank.NewFallbackReranker()
		reranked, _ = fb.Rerank(ctx, effectiveQuery, documents, topK)
	}
	m.RerankerUsed = rerankerUsed

	results := make([]Result, 0, len(reranked))
	for _, rr := range reranked {
		var id string
		if rerankerUsed {
			// the reranker scored document *content*; map back via original index
			if rr.OriginalIndex < 0 || rr.OriginalIndex >= len(documents) {
				continue
			}
			id = documents[rr.OriginalIndex]
		} else {
			id = rr.Document
		}
		mem, ok := idx.memory[id]
		if !ok || !mem.IsValid() {
			continue
		}
		d := findDetailed(detailed, id)
		results = append(results, Result{
			Memory:       mem.Clone(),
			Score:        rr.Score,
			SourceScores: d.SourceScores,
			SourceRanks:  d.SourceRanks,
		})
	}
	m.Stage2TimeMS = msSince(stage2Start)
	m.FinalResults = len(results)
	m.TotalTimeMS = msSince(start)

	return results, m, nil
}

// RetrieveSimple is Retrieve without metrics or rerank control, returning
// (memory, score) pairs using the fallback reranker.
func (r *Retriever) RetrieveSimple(ctx context.Context, query, userID string, topK int) ([]Result, error) {
	results, _, err := r.Retrieve(ctx, query, userID, topK, false, false)
	return results, err
}

// recordMetrics reports one Retrieve call's outcome to the attached
// collector. A nil collector makes this a no-op.
func (r *Retriever) recordMetrics(m Metrics) {
	if r.collector == nil {
		return
	}
	r.collector.ObserveHistogram("hybrid_retrieve_total_ms", m.TotalTimeMS, metrics.NoLabels())
	r.collector.ObserveHistogram("hybrid_retrieve_stage1_ms", m.Stage1TimeMS, metrics.NoLabels())
	r.collector.ObserveHistogram("hybrid_retrieve_stage2_ms", m.Stage2TimeMS, metrics.NoLabels())
	r.collector.SetGauge("hybrid_retrieve_final_results", float64(m.FinalResults), metrics.NoLabels())
}

func msSince(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}

func scoredToRanked(hits []bm25.Scored) fusion.RankedList {
	out := make(fusion.RankedList, len(hits))
	for i, h := range hits {
		out[i] = h.MemoryID
	}
	return out
}

func vectorScoredToRanked(hits []vectorindex.Scored) fusion.RankedList {
	out := make(fusion.RankedList, len(hits))
	for i, h := range hits {
		out[i] = h.MemoryID
	}
	return out
}

func graphScoredToRanked(hits []graph.Hit) fusion.RankedList {
	sorted := append([]graph.Hit(nil), hits...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })
	out := make(fusion.RankedList, len(sorted))
	for i, h := range sorted {
		out[i] = h.MemoryID
	}
	return out
}

func documentContents(idx *userIndex, ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		if m, ok := idx.memory[id]; ok {
			out[i] = m.Content
		}
	}
	return out
}

func findDetailed(details []fusion.DetailedResult, item string) fusion.DetailedResult {
	for _, d := range details {
		if d.Item == item {
			return d
		}
	}
	return fusion.DetailedResult{}
}

// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

/*
Package graph implements the per-user knowledge graph (spec component I):
a typed multi-edge directed graph built incrementally from memory
entity metadata, plus keyword and multi-hop search over it.
*/
package graph

import (
	"sync"

	"github.com/sage-x-project/memory-engine/pkg/types"
)

// KnowledgeGraph is a typed multi-edge directed graph scoped to a single
// user.
type KnowledgeGraph struct {
	mu    sync.RWMutex
	nodes map[string]*types.GraphNode
	edges map[string][]*types.GraphEdge // keyed by source node id
}

// New creates an empty KnowledgeGraph.
func New() *KnowledgeGraph {
	return &KnowledgeGraph{
		nodes: make(map[string]*types.GraphNode),
		edges: make(map[string][]*types.GraphEdge),
	}
}

// AddNode inserts node, or merges memoryIDs into an existing node with
// the same (lowercased) id.
func (g *KnowledgeGraph) AddNode(node *types.GraphNode) {
	g.mu.Lock()
	defer g.mu.Unlock()

	existing, ok := g.nodes[node.ID]
	if !ok {
		cp := *node
		cp.MemoryIDs = append([]string(nil), node.MemoryIDs...)
		g.nodes[node.ID] = &cp
		return
	}
	for _, id := range node.MemoryIDs {
		if !contains(existing.MemoryIDs, id) {
			existing.MemoryIDs = append(existing.MemoryIDs, id)
		}
	}
}

// AddEdge appends edge to the graph.
func (g *KnowledgeGraph) AddEdge(edge *types.GraphEdge) {
	g.mu.Lock()
	defer g.mu.Unlock()
	cp := *edge
	g.edges[edge.SourceID] = append(g.edges[edge.SourceID], &cp)
}

// GetNode returns a copy of the node with the given id, if present.
func (g *KnowledgeGraph) GetNode(id string) (*types.GraphNode, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.nodes[id]
	if !ok {
		return nil, false
	}
	cp := *n
	cp.MemoryIDs = append([]string(nil), n.MemoryIDs...)
	return &cp, true
}

// GetEdge returns the canonical (highest-confidence, first-added on tie)
// edge between source and target, if any exists.
func (g *KnowledgeGraph) GetEdge(source, target string) (*types.GraphEdge, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var best *types.GraphEdge
	for _, e := range g.edges[source] {
		if e.TargetID != target {
			continue
		}
		if best == nil || e.Confidence > best.Confidence {
			best = e
		}
	}
	if best == nil {
		return nil, false
	}
	cp := *best
	return &cp, true
}

// Neighbors returns the ids of nodes directly reachable from id.
func (g *KnowledgeGraph) Neighbors(id string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	seen := make(map[string]bool)
	var out []string
	for _, e := range g.edges[id] {
		if seen[e.TargetID] {
			continue
		}
		seen[e.TargetID] = true
		out = append(out, e.TargetID)
	}
	return out
}

// HasNode reports whether id is present.
func (g *KnowledgeGraph) HasNode(id string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.nodes[id]
	return ok
}

// HasEdge reports whether any edge connects source to target.
func (g *KnowledgeGraph) HasEdge(source, target string) bool {
	_, ok := g.GetEdge(source, target)
	return ok
}

// NodeCount returns the number of nodes.
func (g *KnowledgeGraph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// EdgeCount returns the total number of edges.
func (g *KnowledgeGraph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n := 0
	for _, es := range g.edges {
		n += len(es)
	}
	return n
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

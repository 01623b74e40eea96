// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package graph

import (
	"strings"

	"github.com/sage-x-project/memory-engine/pkg/types"
)

// entityTypeFramework and friends classify the "type" field of a memory's
// metadata.entities list, driving the relationship inference heuristics.
const (
	entityTypeFramework     = "framework"
	entityTypeAPI           = "api"
	entityTypeDependency    = "dependency"
	entityTypeConfiguration = "configuration"
)

// entity mirrors one element of a memory's metadata.entities list.
type entity struct {
	Name       string
	Type       string
	Confidence float64
}

// Builder incrementally consumes memories for a single user into a
// KnowledgeGraph.
type Builder struct {
	userID string
	graph  *KnowledgeGraph
}

// NewBuilder creates a Builder for userID, building into graph.
func NewBuilder(userID string, graph *KnowledgeGraph) *Builder {
	if graph == nil {
		graph = New()
	}
	return &Builder{userID: userID, graph: graph}
}

// Graph returns the graph under construction.
func (b *Builder) Graph() *KnowledgeGraph {
	return b.graph
}

// Ingest consumes one memory, adding any entities listed in its
// metadata's "entities" key as nodes, and inferring edges between them
// from the memory's content.
func (b *Builder) Ingest(mem *types.Memory) {
	if mem == nil {
		return
	}
	entities := extractEntities(mem.Metadata)
	if len(entities) == 0 {
		return
	}

	nodeIDs := make([]string, 0, len(entities))
	for _, e := range entities {
		id := strings.ToLower(e.Name)
		nodeIDs = append(nodeIDs, id)
		b.graph.AddNode(&types.GraphNode{
			ID:         id,
			EntityType: e.Type,
			Name:       e.Name,
			MemoryIDs:  []string{mem.ID},
		})
	}

	contentLower := strings.ToLower(mem.Content)
	for i := 0; i < len(entities); i++ {
		for j := 0; j < len(entities); j++ {
			if i == j {
				continue
			}
			rel, ok := inferRelationship(contentLower, entities[i], entities[j])
			if !ok {
				continue
			}
			b.graph.AddEdge(&types.GraphEdge{
				SourceID:     nodeIDs[i],
				TargetID:     nodeIDs[j],
				Relationship: rel,
				MemoryID:     mem.ID,
				Confidence:   entities[j].Confidence,
			})
		}
	}
}

// inferRelationship applies the fixed heuristic order from source entity
// to target entity, based on the verbs present in content and the
// target's declared type.
func inferRelationship(content string, source, target entity) (types.Relationship, bool) {
	hasSource := strings.Contains(content, strings.ToLower(source.Name))
	hasTarget := strings.Contains(content, strings.ToLower(target.Name))
	if !hasSource || !hasTarget {
		return "", false
	}

	switch {
	case strings.Contains(content, "depends on"):
		return types.RelationshipDependsOn, true
	case strings.Contains(content, "uses") && target.Type == entityTypeDependency:
		return types.RelationshipDependsOn, true
	case target.Type == entityTypeFramework:
		return types.RelationshipUses, true
	case target.Type == entityTypeAPI && strings.Contains(content, "calls"):
		return types.RelationshipCalls, true
	case target.Type == entityTypeConfiguration:
		return types.RelationshipConfigures, true
	default:
		return "", false
	}
}

// extractEntities reads metadata["entities"], tolerating the shapes that
// arrive both from native Go callers ([]entity-like maps) and from
// JSON-decoded metadata ([]interface{} of map[string]interface{}).
func extractEntities(metadata map[string]interface{}) []entity {
	raw, ok := metadata["entities"]
	if !ok {
		return nil
	}
	list, ok := raw.([]interface{})
	if !ok {
		maps, isMaps := raw.([]map[string]interface{})
		if !isMaps {
			return nil
		}
		list = make([]interface{}, len(maps))
		for i, m := range maps {
			list[i] = m
		}
	}

	out := make([]entity, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		name, _ := m["name"].(string)
		if name == "" {
			continue
		}
		typ, _ := m["type"].(string)
		confidence := 1.0
		if c, ok := m["confidence"].(float64); ok {
			confidence = c
		}
		out = append(out, entity{Name: name, Type: typ, Confidence: confidence})
	}
	return out
}

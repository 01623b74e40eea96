// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

/*
Package provenance implements the bounded provenance store, retrieval
history, and DoS-hardened metadata validation (spec component K).
*/
package provenance

import (
	memerrors "github.com/sage-x-project/memory-engine/pkg/errors"
	"github.com/sage-x-project/memory-engine/pkg/types"
)

const (
	// MaxIdentifierLength bounds every string identifier accepted at an
	// API boundary.
	MaxIdentifierLength = 256

	// MaxMetadataDepth bounds nested map/slice depth.
	MaxMetadataDepth = 5
	// MaxMetadataElements bounds the total element count across all
	// nesting levels.
	MaxMetadataElements = 500
	// MaxMetadataKeys bounds the key count of any single map.
	MaxMetadataKeys = 100
	// MaxMetadataKeyLength bounds each map key's length.
	MaxMetadataKeyLength = 256
	// MaxMetadataValueLength bounds each string value's length.
	MaxMetadataValueLength = 10000
	// MaxMetadataSerializedBytes bounds the approximate serialized size.
	MaxMetadataSerializedBytes = 10000

	// RetrievalHistoryLimit bounds the per-memory retrieval-history ring.
	RetrievalHistoryLimit = 100
)

// ValidateIdentifier rejects identifiers over MaxIdentifierLength.
func ValidateIdentifier(name, value string) error {
	if len(value) > MaxIdentifierLength {
		return memerrors.ErrValidationFailed.WithDetail("field", name).WithDetail("max_length", MaxIdentifierLength)
	}
	return nil
}

// ValidateMetadata enforces the DoS-hardened shape and size bounds on a
// metadata map before it is accepted into a Provenance record.
func ValidateMetadata(metadata map[string]interface{}) error {
	if metadata == nil {
		return nil
	}
	elements := 0
	size := 0
	if err := validateValue(metadata, 0, &elements, &size); err != nil {
		return err
	}
	if size > MaxMetadataSerializedBytes {
		return memerrors.ErrValidationFailed.WithDetail("reason", "metadata exceeds serialized size bound")
	}
	return nil
}

func validateValue(v interface{}, depth int, elements, size *int) error {
	if depth > MaxMetadataDepth {
		return memerrors.ErrValidationFailed.WithDetail("reason", "metadata nesting exceeds max depth")
	}
	*elements++
	if *elements > MaxMetadataElements {
		return memerrors.ErrValidationFailed.WithDetail("reason", "metadata exceeds max element count")
	}

	switch val := v.(type) {
	case nil, bool, int, int64, float64:
		*size += 8
		return nil
	case string:
		if len(val) > MaxMetadataValueLength {
			return memerrors.ErrValidationFailed.WithDetail("reason", "metadata value exceeds max length")
		}
		*size += len(val)
		return nil
	case map[string]interface{}:
		if len(val) > MaxMetadataKeys {
			return memerrors.ErrValidationFailed.WithDetail("reason", "metadata map exceeds max key count")
		}
		for k, sub := range val {
			if len(k) > MaxMetadataKeyLength {
				return memerrors.ErrValidationFailed.WithDetail("reason", "metadata key exceeds max length")
			}
			*size += len(k)
			if err := validateValue(sub, depth+1, elements, size); err != nil {
				return err
			}
		}
		return nil
	case []interface{}:
		for _, sub := range val {
			if err := validateValue(sub, depth+1, elements, size); err != nil {
				return err
			}
		}
		return nil
	default:
		return memerrors.ErrValidationFailed.WithDetail("reason", "metadata contains an unsupported type")
	}
}

// ValidateProvenance re-validates every field of p, including against
// direct-construction bypass of the store's own write path.
func ValidateProvenance(p *types.Provenance) error {
	if p == nil {
		return memerrors.ErrValidationFailed.WithDetail("reason", "provenance is nil")
	}
	if err := ValidateIdentifier("source_id", p.SourceID); err != nil {
		return err
	}
	if err := ValidateIdentifier("source_type", p.SourceType); err != nil {
		return err
	}
	return ValidateMetadata(p.Metadata)
}

// Copyright (C) 2025 sage-x-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

package errors

// Memory engine errors
var (
	// ErrCapacityExceeded indicates a fixed capacity limit was reached
	// (MaaS pool/handoff caps, brute-force corpus size).
	ErrCapacityExceeded = &Error{
		Category: CategoryCapacity,
		Code:     "CAPACITY_EXCEEDED",
		Message:  "capacity limit exceeded",
	}

	// ErrDuplicateID indicates an agent or pool was registered under an
	// ID that already exists.
	ErrDuplicateID = &Error{
		Category: CategoryValidation,
		Code:     "DUPLICATE_ID",
		Message:  "identifier already registered",
	}

	// ErrPathSafety indicates a symlink, traversal, or out-of-root path
	// was rejected before any I/O.
	ErrPathSafety = &Error{
		Category: CategoryPathSafety,
		Code:     "PATH_SAFETY_VIOLATION",
		Message:  "path escapes storage root or traverses a symlink",
	}

	// ErrModelUnavailable indicates the embedding or cross-encoder model
	// failed to load on first use.
	ErrModelUnavailable = &Error{
		Category: CategoryLLM,
		Code:     "MODEL_UNAVAILABLE",
		Message:  "embedding or cross-encoder model unavailable",
	}

	// ErrValidationFailed indicates a provenance/metadata bound, sanitizer
	// rejection, or parameter constraint (k < 1, negative RRF k) failed.
	ErrValidationFailed = &Error{
		Category: CategoryValidation,
		Code:     "VALIDATION_FAILED",
		Message:  "validation failed",
	}

	// ErrPermissionDenied indicates a missing capability, wrong target
	// agent, insufficient pool permission, or scope violation.
	ErrPermissionDenied = &Error{
		Category: CategoryUnauthorized,
		Code:     "PERMISSION_DENIED",
		Message:  "permission denied",
	}

	// ErrIntegrationFailure indicates an extension callback raised.
	ErrIntegrationFailure = &Error{
		Category: CategoryIntegration,
		Code:     "INTEGRATION_FAILURE",
		Message:  "extension callback failed",
	}
)

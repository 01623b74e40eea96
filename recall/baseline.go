// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package recall

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	memerrors "github.com/sage-x-project/memory-engine/pkg/errors"
	"github.com/sage-x-project/memory-engine/pkg/types"
)

// MaxHistoryFiles bounds how many archived baselines BaselineStore keeps
// per filter under history/.
const MaxHistoryFiles = 100

// BaselineStore persists recall baselines as JSON files under a root
// directory, one file per filter name. Filter names are never stored
// verbatim: they are sanitized to a SHA-256-derived 16-char token before
// touching the filesystem, to avoid leaking potentially sensitive filter
// values (e.g. a user id) into file names.
type BaselineStore struct {
	root string
}

// NewBaselineStore creates a BaselineStore rooted at storagePath, creating
// storagePath and its history/ subdirectory if they do not exist.
func NewBaselineStore(storagePath string) (*BaselineStore, error) {
	abs, err := filepath.Abs(storagePath)
	if err != nil {
		return nil, memerrors.Wrap(err, "resolve baseline storage path")
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, memerrors.Wrap(err, "create baseline storage dir")
	}
	if err := os.MkdirAll(filepath.Join(abs, "history"), 0o755); err != nil {
		return nil, memerrors.Wrap(err, "create baseline history dir")
	}
	return &BaselineStore{root: abs}, nil
}

// sanitizeFilterName derives a 16-character hex token from name so that
// the raw filter value never appears in a file name.
func sanitizeFilterName(name string) string {
	sum := sha256.Sum256([]byte(name))
	return hex.EncodeToString(sum[:])[:16]
}

// resolvePath joins root with name and rejects any result that escapes
// root (containment check) or whose final path element is a symlink;
// symlinked parent directories are not checked.
func (s *BaselineStore) resolvePath(name string) (string, error) {
	path := filepath.Join(s.root, name)
	resolved, err := filepath.Abs(path)
	if err != nil {
		return "", memerrors.Wrap(err, "resolve baseline path")
	}
	if !strings.HasPrefix(resolved, s.root+string(os.PathSeparator)) && resolved != s.root {
		return "", memerrors.ErrValidationFailed.WithDetail("reason", "path escapes storage root")
	}
	if info, err := os.Lstat(resolved); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return "", memerrors.ErrValidationFailed.WithDetail("reason", "refusing to follow symlink")
	}
	return resolved, nil
}

func (s *BaselineStore) baselineFileName(filterName string) string {
	return sanitizeFilterName(filterName) + ".json"
}

// Save persists baseline for filterName, archiving any previous baseline
// into history/ (pruned to MaxHistoryFiles) before the atomic overwrite.
func (s *BaselineStore) Save(filterName string, baseline types.RecallBaseline) error {
	target, err := s.resolvePath(s.baselineFileName(filterName))
	if err != nil {
		return err
	}

	if _, err := os.Stat(target); err == nil {
		if err := s.archive(filterName, target); err != nil {
			return err
		}
	}

	return atomicWriteJSON(target, baseline)
}

// Load reads the current baseline for filterName. It returns
// (RecallBaseline{}, false, nil) when no baseline has been saved yet.
func (s *BaselineStore) Load(filterName string) (types.RecallBaseline, bool, error) {
	target, err := s.resolvePath(s.baselineFileName(filterName))
	if err != nil {
		return types.RecallBaseline{}, false, err
	}
	data, err := os.ReadFile(target)
	if os.IsNotExist(err) {
		return types.RecallBaseline{}, false, nil
	}
	if err != nil {
		return types.RecallBaseline{}, false, memerrors.Wrap(err, "read baseline")
	}
	var b types.RecallBaseline
	if err := json.Unmarshal(data, &b); err != nil {
		return types.RecallBaseline{}, false, memerrors.Wrap(err, "parse baseline")
	}
	return b, true, nil
}

// archive copies the existing baseline file at target into history/ with
// a timestamped name, then prunes history/ down to MaxHistoryFiles.
func (s *BaselineStore) archive(filterName, target string) error {
	data, err := os.ReadFile(target)
	if err != nil {
		return memerrors.Wrap(err, "read baseline for archive")
	}
	histDir := filepath.Join(s.root, "history")
	histName := fmt.Sprintf("%s-%d.json", sanitizeFilterName(filterName), time.Now().UnixNano())
	histPath := filepath.Join(histDir, histName)
	if err := atomicWriteBytes(histPath, data); err != nil {
		return err
	}
	return s.pruneHistory(filterName)
}

// pruneHistory keeps only the MaxHistoryFiles most recent archived
// baselines for filterName.
func (s *BaselineStore) pruneHistory(filterName string) error {
	histDir := filepath.Join(s.root, "history")
	prefix := sanitizeFilterName(filterName) + "-"
	entries, err := os.ReadDir(histDir)
	if err != nil {
		return memerrors.Wrap(err, "list baseline history")
	}

	var matching []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), prefix) {
			matching = append(matching, e.Name())
		}
	}
	sort.Strings(matching)
	if len(matching) <= MaxHistoryFiles {
		return nil
	}
	toRemove := matching[:len(matching)-MaxHistoryFiles]
	for _, name := range toRemove {
		if err := os.Remove(filepath.Join(histDir, name)); err != nil && !os.IsNotExist(err) {
			return memerrors.Wrap(err, "prune baseline history")
		}
	}
	return nil
}

// atomicWriteJSON marshals v and writes it atomically to target.
func atomicWriteJSON(target string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return memerrors.Wrap(err, "marshal baseline")
	}
	return atomicWriteBytes(target, data)
}

// atomicWriteBytes writes data to target by creating an exclusive temp
// file in the same directory and renaming it into place, so a reader
// never observes a partially written file.
func atomicWriteBytes(target string, data []byte) error {
	dir := filepath.Dir(target)
	tmp, err := os.CreateTemp(dir, ".tmp-baseline-*")
	if err != nil {
		return memerrors.Wrap(err, "create temp baseline file")
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return memerrors.Wrap(err, "write temp baseline file")
	}
	if err := tmp.Close(); err != nil {
		return memerrors.Wrap(err, "close temp baseline file")
	}
	if err := os.Rename(tmpPath, target); err != nil {
		return memerrors.Wrap(err, "rename baseline into place")
	}
	return nil
}

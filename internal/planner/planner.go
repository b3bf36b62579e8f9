// Package planner decides, for each matched file, which transfer operation
// to invoke. It maps source paths onto destination keys (or the reverse) and
// applies the skip-if-present rule against the remote inventory or the local
// filesystem.
package planner

import (
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/netdev-io/ferry/ferrytypes"
	"github.com/netdev-io/ferry/location"
)

// OperationType defines the type of planned transfer operation.
type OperationType string

const (
	// OperationUpload transfers a local file into the bucket
	OperationUpload OperationType = "upload"

	// OperationDownload transfers a bucket object onto the local filesystem
	OperationDownload OperationType = "download"

	// OperationSkip leaves the file alone because the destination exists
	OperationSkip OperationType = "skip"
)

// Operation is a single planned transfer.
type Operation struct {
	// Type of operation
	Type OperationType

	// LocalPath is the local file path: the source for uploads, the
	// destination for downloads
	LocalPath string

	// Key is the object key: the destination for uploads, the source for
	// downloads
	Key string

	// Size is the file or object size in bytes
	Size int64

	// RemoveSource marks move semantics: delete the source after a
	// successful transfer
	RemoveSource bool

	// Reason describes why this operation was planned
	Reason string
}

// Source returns the source side of the operation: the local path for
// uploads, the object key for downloads.
func (op *Operation) Source() string {
	if op.Type == OperationDownload {
		return op.Key
	}
	return op.LocalPath
}

// Destination returns the destination side of the operation.
func (op *Operation) Destination() string {
	if op.Type == OperationDownload {
		return op.LocalPath
	}
	return op.Key
}

// Planner builds transfer plans.
type Planner struct {
	fs afero.Fs
}

// New creates a planner that consults the given filesystem for local
// existence checks.
func New(fsys afero.Fs) *Planner {
	return &Planner{fs: fsys}
}

// PlanUpload plans one operation per matched local file. Files whose
// destination key is already present in the bucket inventory are skipped
// unless overwrite is set.
func (p *Planner) PlanUpload(
	srcRoot, dstPrefix string,
	files []*ferrytypes.LocalFile,
	inventory map[string]*ferrytypes.RemoteObject,
	move, overwrite bool,
) []*Operation {
	operations := make([]*Operation, 0, len(files))

	for _, file := range files {
		key := destKey(file.Path, srcRoot, dstPrefix)

		if _, exists := inventory[key]; exists && !overwrite {
			operations = append(operations, &Operation{
				Type:      OperationSkip,
				LocalPath: file.Path,
				Key:       key,
				Size:      file.Size,
				Reason:    "already in bucket",
			})
			continue
		}

		operations = append(operations, &Operation{
			Type:         OperationUpload,
			LocalPath:    file.Path,
			Key:          key,
			Size:         file.Size,
			RemoveSource: move,
			Reason:       "new file",
		})
	}

	return sortOps(operations)
}

// PlanDownload plans one operation per matched remote object. Objects whose
// destination file already exists locally are skipped unless overwrite is
// set. Keys relative to srcPrefix keep their layout below dstDir.
func (p *Planner) PlanDownload(
	srcPrefix, dstDir string,
	objects []*ferrytypes.RemoteObject,
	move, overwrite bool,
) []*Operation {
	operations := make([]*Operation, 0, len(objects))

	for _, obj := range objects {
		rel := strings.TrimPrefix(strings.TrimPrefix(obj.Key, srcPrefix), "/")
		if rel == "" {
			rel = path.Base(obj.Key)
		}
		localPath := filepath.Join(dstDir, filepath.FromSlash(rel))

		if exists, _ := afero.Exists(p.fs, localPath); exists && !overwrite {
			operations = append(operations, &Operation{
				Type:      OperationSkip,
				LocalPath: localPath,
				Key:       obj.Key,
				Size:      obj.Size,
				Reason:    "already exists locally",
			})
			continue
		}

		operations = append(operations, &Operation{
			Type:         OperationDownload,
			LocalPath:    localPath,
			Key:          obj.Key,
			Size:         obj.Size,
			RemoveSource: move,
			Reason:       "new object",
		})
	}

	return sortOps(operations)
}

// destKey maps a local file path onto its destination key. A file matched
// directly (path == root) lands under the prefix by base name; anything
// below the root keeps its relative layout. A "." root keeps the whole
// walk-relative path, so distinct sources never collide on one key.
func destKey(filePath, srcRoot, dstPrefix string) string {
	slashPath := filepath.ToSlash(filePath)
	slashRoot := filepath.ToSlash(srcRoot)

	rel := slashPath
	if slashRoot != "." && slashRoot != "" {
		rel = strings.TrimPrefix(rel, slashRoot)
	}
	rel = strings.TrimPrefix(rel, "./")
	rel = strings.TrimPrefix(rel, "/")
	if rel == "" {
		rel = path.Base(slashPath)
	}
	return location.Join(dstPrefix, rel)
}

// sortOps orders transfers before skips, smaller files first, so a parallel
// run reports failures early and skips never occupy workers.
func sortOps(operations []*Operation) []*Operation {
	sort.SliceStable(operations, func(i, j int) bool {
		if (operations[i].Type == OperationSkip) != (operations[j].Type == OperationSkip) {
			return operations[j].Type == OperationSkip
		}
		return operations[i].Size < operations[j].Size
	})
	return operations
}

// Stats summarizes a plan.
type Stats struct {
	// Transfers is the number of upload or download operations
	Transfers int

	// Skips is the number of skipped files
	Skips int

	// BytesToTransfer is the total bytes the plan will move
	BytesToTransfer int64
}

// GetStats returns statistics about the planned operations.
func GetStats(operations []*Operation) Stats {
	var stats Stats
	for _, op := range operations {
		switch op.Type {
		case OperationUpload, OperationDownload:
			stats.Transfers++
			stats.BytesToTransfer += op.Size
		case OperationSkip:
			stats.Skips++
		}
	}
	return stats
}

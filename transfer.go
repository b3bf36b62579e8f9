package ferry

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/netdev-io/ferry/errors"
	"github.com/netdev-io/ferry/ferrytypes"
	"github.com/netdev-io/ferry/internal/executor"
	"github.com/netdev-io/ferry/internal/planner"
	"github.com/netdev-io/ferry/internal/scanner"
	"github.com/netdev-io/ferry/location"
)

// transfer runs the shared copy/move pipeline: parse the location pair,
// match the source side, plan the per-file operations against the
// destination inventory, then execute the plan across the worker pool.
func (c *Client) transfer(
	ctx context.Context,
	src, dst string,
	move bool,
	opts ...ferrytypes.TransferOption,
) (*ferrytypes.TransferResult, error) {
	op := "copy"
	if move {
		op = "move"
	}

	cfg := &ferrytypes.TransferConfig{}
	for _, o := range opts {
		o(cfg)
	}

	srcLoc, dstLoc, direction, err := location.ParsePair(src, dst)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	fsys := c.fs
	c.mu.RUnlock()

	sc := scanner.New(c.s3Client, fsys)
	pl := planner.New(fsys)

	startTime := time.Now()

	var operations []*planner.Operation
	var bucket string

	switch direction {
	case location.DirectionUp:
		bucket = dstLoc.Bucket
		operations, err = c.planUpload(ctx, sc, pl, srcLoc, dstLoc, move, cfg)
	case location.DirectionDown:
		bucket = srcLoc.Bucket
		operations, err = c.planDownload(ctx, sc, pl, srcLoc, dstLoc, move, cfg)
	}
	if err != nil {
		return nil, err
	}

	stats := planner.GetStats(operations)
	result := &ferrytypes.TransferResult{
		FilesSkipped: stats.Skips,
	}

	if cfg.DryRun {
		result.DryRun = true
		result.FilesTransferred = stats.Transfers
		result.BytesTransferred = stats.BytesToTransfer
		result.Duration = time.Since(startTime)
		return result, nil
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = c.clientCfg.Workers
	}

	exec := executor.New(c.s3Client, fsys, workers, c.clientCfg.PartSize)
	if cfg.ProgressTracker != nil {
		exec = exec.WithProgressTracker(cfg.ProgressTracker)
	}

	execResult, execErr := exec.Execute(ctx, bucket, operations)
	result.FilesTransferred = execResult.FilesTransferred()
	result.BytesTransferred = execResult.BytesTransferred()
	result.FilesFailed = len(execResult.Errors)
	result.Errors = execResult.Errors
	result.Duration = time.Since(startTime)

	if execErr != nil {
		return result, errors.NewError(op, execErr).WithBucket(bucket)
	}
	return result, nil
}

// planUpload matches local files and plans them against the bucket
// inventory under the destination prefix.
func (c *Client) planUpload(
	ctx context.Context,
	sc *scanner.Scanner,
	pl *planner.Planner,
	srcLoc, dstLoc location.Location,
	move bool,
	cfg *ferrytypes.TransferConfig,
) ([]*planner.Operation, error) {
	op := "copy"
	if move {
		op = "move"
	}

	srcRoot := scanner.Root(srcLoc.Path)

	var files []*ferrytypes.LocalFile
	var err error
	if len(cfg.Files) > 0 {
		files, err = sc.StatFiles(cfg.Files)
	} else {
		files, err = sc.ScanLocal(ctx, srcLoc.Path, cfg.IncludePatterns, cfg.ExcludePatterns)
	}
	if err != nil {
		return nil, errors.NewError(op, err).WithKey(srcLoc.Path)
	}
	if len(files) == 0 {
		return nil, errors.NewError(op, errors.ErrNoMatches).WithKey(srcLoc.Path)
	}

	if cfg.MatchCallback != nil {
		matches := make([]string, len(files))
		for i, f := range files {
			matches[i] = f.Path
		}
		cfg.MatchCallback(matches)
	}

	dstPrefix := dstLoc.Path
	if dstPrefix == "" {
		dstPrefix = defaultPrefix(srcRoot)
	}

	remote, err := sc.ScanRemote(ctx, dstLoc.Bucket, dstPrefix, nil, nil)
	if err != nil {
		return nil, errors.NewObjectError(op, dstLoc.Bucket, dstPrefix, err)
	}

	return pl.PlanUpload(srcRoot, dstPrefix, files, scanner.Inventory(remote), move, cfg.Overwrite), nil
}

// planDownload matches bucket objects under the source prefix and plans them
// against the local destination directory.
func (c *Client) planDownload(
	ctx context.Context,
	sc *scanner.Scanner,
	pl *planner.Planner,
	srcLoc, dstLoc location.Location,
	move bool,
	cfg *ferrytypes.TransferConfig,
) ([]*planner.Operation, error) {
	op := "copy"
	if move {
		op = "move"
	}

	objects, err := sc.ScanRemote(ctx, srcLoc.Bucket, srcLoc.Path, cfg.IncludePatterns, cfg.ExcludePatterns)
	if err != nil {
		return nil, errors.NewObjectError(op, srcLoc.Bucket, srcLoc.Path, err)
	}

	if len(cfg.Files) > 0 {
		objects = filterObjects(objects, srcLoc.Path, cfg.Files)
	}
	if len(objects) == 0 {
		return nil, errors.NewObjectError(op, srcLoc.Bucket, srcLoc.Path, errors.ErrNoMatches)
	}

	if cfg.MatchCallback != nil {
		matches := make([]string, len(objects))
		for i, obj := range objects {
			matches[i] = obj.Key
		}
		cfg.MatchCallback(matches)
	}

	dstDir := dstLoc.Path
	if dstDir == "" {
		dstDir = "."
	}

	return pl.PlanDownload(srcLoc.Path, dstDir, objects, move, cfg.Overwrite), nil
}

// filterObjects keeps only the objects named by the explicit file list.
// Entries may be full keys or keys relative to the source prefix.
func filterObjects(objects []*ferrytypes.RemoteObject, prefix string, files []string) []*ferrytypes.RemoteObject {
	wanted := make(map[string]struct{}, len(files)*2)
	for _, f := range files {
		wanted[f] = struct{}{}
		wanted[location.Join(prefix, f)] = struct{}{}
	}

	var kept []*ferrytypes.RemoteObject
	for _, obj := range objects {
		if _, ok := wanted[obj.Key]; ok {
			kept = append(kept, obj)
		}
	}
	return kept
}

// defaultPrefix is the destination key prefix used when none is given: the
// base name of the source root directory.
func defaultPrefix(srcRoot string) string {
	if srcRoot == "." || srcRoot == "" {
		if wd, err := os.Getwd(); err == nil {
			return filepath.Base(wd)
		}
		return ""
	}
	return filepath.Base(srcRoot)
}

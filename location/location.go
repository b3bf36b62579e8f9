// Package location parses "bucket:path"-style transfer locations and infers
// the direction of a transfer from a source/destination pair.
//
// A location string either names a path on the local filesystem or, when it
// contains a colon, a path inside a bucket. The split happens at the first
// colon only, so keys containing colons survive parsing.
package location

import (
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"

	"github.com/netdev-io/ferry/errors"
)

// Direction indicates which way a transfer flows.
type Direction int

const (
	// DirectionUp transfers local files into a bucket.
	DirectionUp Direction = iota

	// DirectionDown transfers bucket objects onto the local filesystem.
	DirectionDown
)

// String returns a human readable direction name.
func (d Direction) String() string {
	if d == DirectionUp {
		return "up"
	}
	return "down"
}

// Location is a parsed transfer endpoint. A remote location carries the
// bucket name; a local one has an empty Bucket and an expanded filesystem
// path.
type Location struct {
	// Bucket is the bucket name, empty for local locations
	Bucket string

	// Path is the key prefix (remote) or filesystem path (local)
	Path string
}

// IsRemote reports whether the location points into a bucket.
func (l Location) IsRemote() bool {
	return l.Bucket != ""
}

// String renders the location back into its "bucket:path" form.
func (l Location) String() string {
	if l.IsRemote() {
		return l.Bucket + ":" + l.Path
	}
	return l.Path
}

// Parse parses a single location string. "bkt:a/b" becomes a remote location
// in bucket bkt; a string without a colon is a local path with "~" and
// environment variables expanded. "bkt:" addresses the bucket root.
func Parse(s string) (Location, error) {
	if s == "" {
		return Location{}, errors.NewError("parse", errors.ErrInvalidLocation).
			WithMessage("location cannot be empty")
	}

	if i := strings.Index(s, ":"); i >= 0 {
		bucket := s[:i]
		if bucket == "" {
			return Location{}, errors.NewError("parse", errors.ErrInvalidLocation).
				WithMessage("bucket name cannot be empty")
		}
		return Location{
			Bucket: bucket,
			Path:   strings.TrimPrefix(s[i+1:], "/"),
		}, nil
	}

	expanded, err := homedir.Expand(s)
	if err != nil {
		return Location{}, errors.NewError("parse", err).WithKey(s)
	}
	return Location{Path: os.ExpandEnv(expanded)}, nil
}

// ParsePair parses a source and destination location and infers the transfer
// direction: a remote source means a download, a remote destination an
// upload. Exactly one side must name a bucket.
func ParsePair(src, dst string) (Location, Location, Direction, error) {
	srcLoc, err := Parse(src)
	if err != nil {
		return Location{}, Location{}, 0, err
	}
	dstLoc, err := Parse(dst)
	if err != nil {
		return Location{}, Location{}, 0, err
	}

	switch {
	case srcLoc.IsRemote() && dstLoc.IsRemote():
		return Location{}, Location{}, 0, errors.NewError("parse", errors.ErrCrossBucket)
	case srcLoc.IsRemote():
		return srcLoc, dstLoc, DirectionDown, nil
	case dstLoc.IsRemote():
		return srcLoc, dstLoc, DirectionUp, nil
	default:
		return Location{}, Location{}, 0, errors.NewError("parse", errors.ErrNoBucket)
	}
}

// Join joins path elements with single slashes. Unlike path.Join it never
// cleans "." or ".." elements, matching how object keys are assembled from
// user-provided prefixes. Empty elements are dropped.
func Join(elems ...string) string {
	var parts []string
	for _, e := range elems {
		e = strings.Trim(e, "/")
		if e != "" {
			parts = append(parts, e)
		}
	}
	return strings.Join(parts, "/")
}

// Rebase maps a source file path onto a destination directory, preserving the
// layout below srcRoot: Rebase("/data/a/b.txt", "/data", "backup") returns
// "backup/a/b.txt". Paths are normalized to forward slashes.
func Rebase(srcPath, srcRoot, dstDir string) string {
	rel := strings.TrimPrefix(toSlash(srcPath), toSlash(srcRoot))
	rel = strings.TrimPrefix(rel, "/")
	return Join(dstDir, rel)
}

func toSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// Package scanner discovers the files a transfer will operate on.
// The local side expands a glob and walks any matched directories; the remote
// side lists bucket objects under a prefix, building the inventory used for
// skip-if-present decisions.
package scanner

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/afero"

	"github.com/netdev-io/ferry/ferrytypes"
	"github.com/netdev-io/ferry/internal/s3api"
)

// Scanner handles source matching for both the local filesystem and the
// remote bucket.
type Scanner struct {
	s3Client       s3api.S3API
	fs             afero.Fs
	patternMatcher *PatternMatcher
}

// New creates a scanner over the provided S3 client and filesystem.
func New(s3Client s3api.S3API, fsys afero.Fs) *Scanner {
	return &Scanner{
		s3Client:       s3Client,
		fs:             fsys,
		patternMatcher: NewPatternMatcher(),
	}
}

// Root returns the static directory prefix of a glob pattern: the part of
// the path before the first meta character. For a plain path it returns the
// path itself (for files, the containing directory is what callers usually
// rebase against; directories are returned as-is).
func Root(pattern string) string {
	if i := strings.IndexAny(pattern, "*?["); i >= 0 {
		pattern = pattern[:i]
		if j := strings.LastIndex(pattern, "/"); j >= 0 {
			return pattern[:j]
		}
		return "."
	}
	return strings.TrimSuffix(pattern, "/")
}

// ScanLocal expands the source pattern and collects every regular file under
// the matches. Matched directories are walked recursively. Include and
// exclude patterns apply to paths relative to the pattern's static root.
func (s *Scanner) ScanLocal(
	ctx context.Context,
	pattern string,
	includePatterns []string,
	excludePatterns []string,
) ([]*ferrytypes.LocalFile, error) {
	matches, err := afero.Glob(s.fs, pattern)
	if err != nil {
		return nil, fmt.Errorf("bad source pattern %q: %w", pattern, err)
	}

	root := Root(pattern)

	var files []*ferrytypes.LocalFile
	for _, match := range matches {
		info, err := s.fs.Stat(match)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", match, err)
		}

		if !info.IsDir() {
			if s.includes(match, root, includePatterns, excludePatterns) {
				files = append(files, &ferrytypes.LocalFile{
					Path:    match,
					Size:    info.Size(),
					ModTime: info.ModTime(),
				})
			}
			continue
		}

		err = afero.Walk(s.fs, match, func(path string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if fi.IsDir() {
				return nil
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if s.includes(path, root, includePatterns, excludePatterns) {
				files = append(files, &ferrytypes.LocalFile{
					Path:    path,
					Size:    fi.Size(),
					ModTime: fi.ModTime(),
				})
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk directory %s: %w", match, err)
		}
	}

	return files, nil
}

// StatFiles resolves an explicit file list, bypassing glob matching.
func (s *Scanner) StatFiles(paths []string) ([]*ferrytypes.LocalFile, error) {
	files := make([]*ferrytypes.LocalFile, 0, len(paths))
	for _, p := range paths {
		info, err := s.fs.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%s is a directory, not a file", p)
		}
		files = append(files, &ferrytypes.LocalFile{
			Path:    p,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return files, nil
}

// ScanRemote lists the bucket objects under the given prefix, following
// pagination. Include and exclude patterns apply to keys relative to the
// prefix.
func (s *Scanner) ScanRemote(
	ctx context.Context,
	bucket string,
	prefix string,
	includePatterns []string,
	excludePatterns []string,
) ([]*ferrytypes.RemoteObject, error) {
	var objects []*ferrytypes.RemoteObject
	var continuationToken *string

	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during bucket listing: %w", ctx.Err())
		default:
		}

		input := &s3.ListObjectsV2Input{
			Bucket:            &bucket,
			Prefix:            &prefix,
			ContinuationToken: continuationToken,
			MaxKeys:           aws.Int32(1000),
		}

		result, err := s.s3Client.ListObjectsV2(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects in bucket %s: %w", bucket, err)
		}

		for _, obj := range result.Contents {
			key := aws.ToString(obj.Key)
			if !strings.HasPrefix(key, prefix) {
				continue
			}

			rel := strings.TrimPrefix(strings.TrimPrefix(key, prefix), "/")
			if !s.patternMatcher.ShouldIncludeFile(rel, includePatterns, excludePatterns) {
				continue
			}

			remote := &ferrytypes.RemoteObject{
				Key:  key,
				Size: aws.ToInt64(obj.Size),
			}
			if obj.LastModified != nil {
				remote.LastModified = *obj.LastModified
			}
			if obj.ETag != nil {
				remote.ETag = strings.Trim(*obj.ETag, `"`)
			}
			objects = append(objects, remote)
		}

		if result.IsTruncated == nil || !*result.IsTruncated {
			break
		}
		continuationToken = result.NextContinuationToken
	}

	return objects, nil
}

// Inventory builds a key lookup table from a remote scan, consulted before
// uploading to decide which files are already in the bucket.
func Inventory(objects []*ferrytypes.RemoteObject) map[string]*ferrytypes.RemoteObject {
	inv := make(map[string]*ferrytypes.RemoteObject, len(objects))
	for _, obj := range objects {
		inv[obj.Key] = obj
	}
	return inv
}

func (s *Scanner) includes(path, root string, includePatterns, excludePatterns []string) bool {
	rel := strings.TrimPrefix(path, root)
	rel = strings.TrimPrefix(rel, "/")
	return s.patternMatcher.ShouldIncludeFile(rel, includePatterns, excludePatterns)
}

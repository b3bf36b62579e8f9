// Package ferrytypes provides shared type definitions for the ferry module.
package ferrytypes

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/spf13/afero"
)

// LocalFile represents a file on the local filesystem that matched the
// source location.
type LocalFile struct {
	// Path is the local file path
	Path string

	// Size is the file size in bytes
	Size int64

	// ModTime is the file modification time
	ModTime time.Time
}

// RemoteObject represents a bucket object that matched the source location.
type RemoteObject struct {
	// Key is the object key
	Key string

	// Size is the object size in bytes
	Size int64

	// LastModified is when the object was last modified
	LastModified time.Time

	// ETag is the entity tag reported by the bucket store
	ETag string
}

// ProgressTracker defines the interface for tracking transfer progress.
// Implementations can provide real-time progress updates during transfers.
type ProgressTracker interface {
	// Update is called as bytes complete, with cumulative progress
	Update(bytesTransferred, totalBytes int64)

	// Complete is called when the whole transfer finishes
	Complete()

	// Error is called when a file transfer fails
	Error(err error)
}

// TransferError records a single file that failed to transfer.
type TransferError struct {
	// Source is the local path or object key that failed
	Source string

	// Destination is the intended destination key or path
	Destination string

	// Err is the underlying error
	Err error
}

// TransferResult contains the outcome of a Copy or Move call.
type TransferResult struct {
	// FilesTransferred is the number of files successfully copied
	FilesTransferred int

	// FilesSkipped is the number of files skipped because the destination
	// already existed
	FilesSkipped int

	// FilesFailed is the number of files that failed to transfer
	FilesFailed int

	// BytesTransferred is the total bytes moved
	BytesTransferred int64

	// DryRun indicates the result describes a plan that was not executed
	DryRun bool

	// Errors contains the per-file failures
	Errors []TransferError

	// Duration is how long the transfer took
	Duration time.Duration
}

// ClientConfig holds configuration for the ferry client.
type ClientConfig struct {
	Region          string
	Endpoint        string
	MaxRetries      int
	Timeout         time.Duration
	Workers         int
	PartSize        int64
	ForcePathStyle  bool
	CustomAWSConfig *aws.Config
	Filesystem      afero.Fs
}

// TransferConfig holds per-call configuration for Copy and Move via
// functional options.
type TransferConfig struct {
	// Files restricts the transfer to these explicit source files or keys
	Files []string

	// IncludePatterns and ExcludePatterns filter matched relative paths
	IncludePatterns []string
	ExcludePatterns []string

	// Overwrite forces transfers even when the destination already exists
	Overwrite bool

	// DryRun plans the transfer without executing it
	DryRun bool

	// Workers overrides the client-level worker count for this call
	Workers int

	// ProgressTracker receives transfer progress updates
	ProgressTracker ProgressTracker

	// MatchCallback is invoked with the matched source paths before any
	// transfer starts
	MatchCallback func(matches []string)
}

// Option is a functional option for configuring the ferry client.
type Option func(*ClientConfig)

// TransferOption is a functional option for configuring a single Copy or
// Move call.
type TransferOption func(*TransferConfig)

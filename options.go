package ferry

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/spf13/afero"

	"github.com/netdev-io/ferry/ferrytypes"
)

// WithRegion sets the AWS region for the client.
func WithRegion(region string) ferrytypes.Option {
	return func(c *ferrytypes.ClientConfig) {
		c.Region = region
	}
}

// WithEndpoint sets a custom endpoint URL, typically for S3-compatible
// services or local testing.
func WithEndpoint(endpoint string) ferrytypes.Option {
	return func(c *ferrytypes.ClientConfig) {
		c.Endpoint = endpoint
	}
}

// WithForcePathStyle forces path-style bucket addressing. Required by most
// S3-compatible services.
func WithForcePathStyle(force bool) ferrytypes.Option {
	return func(c *ferrytypes.ClientConfig) {
		c.ForcePathStyle = force
	}
}

// WithMaxRetries sets the maximum retry attempts for SDK operations.
func WithMaxRetries(retries int) ferrytypes.Option {
	return func(c *ferrytypes.ClientConfig) {
		c.MaxRetries = retries
	}
}

// WithTimeout sets the HTTP timeout for SDK operations.
func WithTimeout(timeout time.Duration) ferrytypes.Option {
	return func(c *ferrytypes.ClientConfig) {
		c.Timeout = timeout
	}
}

// WithWorkers sets the default number of concurrent transfer workers.
func WithWorkers(workers int) ferrytypes.Option {
	return func(c *ferrytypes.ClientConfig) {
		c.Workers = workers
	}
}

// WithPartSize sets the multipart part size in bytes for uploads.
func WithPartSize(partSize int64) ferrytypes.Option {
	return func(c *ferrytypes.ClientConfig) {
		c.PartSize = partSize
	}
}

// WithAWSConfig supplies a fully constructed AWS configuration, bypassing
// the default credential chain.
func WithAWSConfig(cfg *aws.Config) ferrytypes.Option {
	return func(c *ferrytypes.ClientConfig) {
		c.CustomAWSConfig = cfg
	}
}

// WithFilesystem sets the filesystem implementation used for local file
// operations. Defaults to the OS filesystem.
func WithFilesystem(fsys afero.Fs) ferrytypes.Option {
	return func(c *ferrytypes.ClientConfig) {
		c.Filesystem = fsys
	}
}

// WithFiles restricts a transfer to an explicit list of source files (when
// uploading) or object keys (when downloading), bypassing glob matching.
func WithFiles(files []string) ferrytypes.TransferOption {
	return func(c *ferrytypes.TransferConfig) {
		c.Files = files
	}
}

// WithIncludePattern adds an include pattern. When any include patterns are
// present a file must match at least one of them to transfer.
func WithIncludePattern(pattern string) ferrytypes.TransferOption {
	return func(c *ferrytypes.TransferConfig) {
		c.IncludePatterns = append(c.IncludePatterns, pattern)
	}
}

// WithExcludePattern adds an exclude pattern. Excludes take precedence over
// includes.
func WithExcludePattern(pattern string) ferrytypes.TransferOption {
	return func(c *ferrytypes.TransferConfig) {
		c.ExcludePatterns = append(c.ExcludePatterns, pattern)
	}
}

// WithOverwrite transfers files even when the destination already exists.
// Without it, files already present at the destination are skipped.
func WithOverwrite(overwrite bool) ferrytypes.TransferOption {
	return func(c *ferrytypes.TransferConfig) {
		c.Overwrite = overwrite
	}
}

// WithDryRun plans the transfer and reports what would happen without moving
// any bytes.
func WithDryRun(dryRun bool) ferrytypes.TransferOption {
	return func(c *ferrytypes.TransferConfig) {
		c.DryRun = dryRun
	}
}

// WithTransferWorkers overrides the client-level worker count for a single
// call.
func WithTransferWorkers(workers int) ferrytypes.TransferOption {
	return func(c *ferrytypes.TransferConfig) {
		c.Workers = workers
	}
}

// WithProgressTracker attaches a progress tracker to the transfer.
func WithProgressTracker(tracker ferrytypes.ProgressTracker) ferrytypes.TransferOption {
	return func(c *ferrytypes.TransferConfig) {
		c.ProgressTracker = tracker
	}
}

// WithMatchCallback registers a callback invoked with the matched source
// paths before any transfer starts. Useful for previewing what a pattern
// matched.
func WithMatchCallback(fn func(matches []string)) ferrytypes.TransferOption {
	return func(c *ferrytypes.TransferConfig) {
		c.MatchCallback = fn
	}
}

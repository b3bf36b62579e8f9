// Package executor runs planned transfer operations across a bounded worker
// pool. Concurrency is controlled with a semaphore channel; the actual bytes
// are moved by the AWS SDK transfer manager.
package executor

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"

	"github.com/netdev-io/ferry/ferrytypes"
	"github.com/netdev-io/ferry/internal/planner"
	"github.com/netdev-io/ferry/internal/s3api"
)

const (
	// DefaultWorkers is the worker count used when none is configured.
	DefaultWorkers = 4

	// DefaultPartSize is the multipart threshold handed to the transfer
	// manager (8MB, the SDK default).
	DefaultPartSize = 8 * 1024 * 1024

	defaultContentType = "application/octet-stream"
)

// Executor fans transfer operations out across a worker pool.
type Executor struct {
	s3Client s3api.S3API
	fs       afero.Fs
	uploader *manager.Uploader

	workers   int
	semaphore chan struct{}

	progressTracker ferrytypes.ProgressTracker
}

// New creates an executor with the specified worker count and multipart
// part size.
func New(s3Client s3api.S3API, fsys afero.Fs, workers int, partSize int64) *Executor {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if partSize <= 0 {
		partSize = DefaultPartSize
	}

	uploader := manager.NewUploader(s3Client, func(u *manager.Uploader) {
		u.PartSize = partSize
	})

	return &Executor{
		s3Client:  s3Client,
		fs:        fsys,
		uploader:  uploader,
		workers:   workers,
		semaphore: make(chan struct{}, workers),
	}
}

// WithProgressTracker sets the progress tracker for the executor.
func (e *Executor) WithProgressTracker(tracker ferrytypes.ProgressTracker) *Executor {
	e.progressTracker = tracker
	return e
}

// Result contains the outcome of executing a plan.
type Result struct {
	// filesTransferred counts successfully transferred files (atomic)
	filesTransferred int64

	// bytesTransferred counts transferred bytes (atomic)
	bytesTransferred int64

	// totalBytes is the planned byte total, for progress reporting
	totalBytes int64

	// Errors contains the per-file failures
	Errors []ferrytypes.TransferError

	// Duration is how long execution took
	Duration time.Duration
}

// FilesTransferred returns the number of files transferred (safe for
// concurrent access).
func (r *Result) FilesTransferred() int {
	return int(atomic.LoadInt64(&r.filesTransferred))
}

// BytesTransferred returns the number of bytes transferred.
func (r *Result) BytesTransferred() int64 {
	return atomic.LoadInt64(&r.bytesTransferred)
}

// Execute runs every upload and download operation in the plan against the
// given bucket, at most `workers` at a time. Skip operations are ignored.
// Per-file failures do not abort the remaining transfers; they are collected
// on the result and aggregated into the returned error.
func (e *Executor) Execute(
	ctx context.Context,
	bucket string,
	operations []*planner.Operation,
) (*Result, error) {
	startTime := time.Now()

	var transferOps []*planner.Operation
	result := &Result{}
	for _, op := range operations {
		switch op.Type {
		case planner.OperationUpload, planner.OperationDownload:
			transferOps = append(transferOps, op)
			result.totalBytes += op.Size
		}
	}

	if len(transferOps) == 0 {
		result.Duration = time.Since(startTime)
		return result, nil
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var merr *multierror.Error

	for _, op := range transferOps {
		select {
		case e.semaphore <- struct{}{}:
		case <-ctx.Done():
			wg.Wait()
			result.Duration = time.Since(startTime)
			return result, fmt.Errorf("context cancelled while dispatching transfers: %w", ctx.Err())
		}

		wg.Add(1)
		go func(op *planner.Operation) {
			defer func() {
				<-e.semaphore
				wg.Done()
			}()

			select {
			case <-ctx.Done():
				// Admitted but never started. Record it so a cancelled run
				// cannot report success for work it skipped.
				mu.Lock()
				result.Errors = append(result.Errors, ferrytypes.TransferError{
					Source:      op.Source(),
					Destination: op.Destination(),
					Err:         ctx.Err(),
				})
				merr = multierror.Append(merr,
					fmt.Errorf("transfer of %s not started: %w", op.Source(), ctx.Err()))
				mu.Unlock()
				return
			default:
			}

			var err error
			switch op.Type {
			case planner.OperationUpload:
				err = e.uploadFile(ctx, bucket, op)
			case planner.OperationDownload:
				err = e.downloadFile(ctx, bucket, op)
			}

			if err != nil {
				if e.progressTracker != nil {
					e.progressTracker.Error(err)
				}
				mu.Lock()
				result.Errors = append(result.Errors, ferrytypes.TransferError{
					Source:      op.Source(),
					Destination: op.Destination(),
					Err:         err,
				})
				merr = multierror.Append(merr, err)
				mu.Unlock()
				return
			}

			atomic.AddInt64(&result.filesTransferred, 1)
			done := atomic.AddInt64(&result.bytesTransferred, op.Size)
			if e.progressTracker != nil {
				e.progressTracker.Update(done, result.totalBytes)
			}
		}(op)
	}

	wg.Wait()

	if e.progressTracker != nil && merr.ErrorOrNil() == nil {
		e.progressTracker.Complete()
	}

	result.Duration = time.Since(startTime)
	return result, merr.ErrorOrNil()
}

// uploadFile sends one local file to the bucket, removing the source
// afterwards when the operation carries move semantics.
func (e *Executor) uploadFile(ctx context.Context, bucket string, op *planner.Operation) error {
	file, err := e.fs.Open(op.LocalPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", op.LocalPath, err)
	}
	defer file.Close()

	input := &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(op.Key),
		Body:        file,
		ContentType: aws.String(e.detectContentType(op.LocalPath)),
	}

	if _, err := e.uploader.Upload(ctx, input); err != nil {
		return fmt.Errorf("failed to upload %s to %s: %w", op.LocalPath, op.Key, err)
	}

	if op.RemoveSource {
		if err := e.fs.Remove(op.LocalPath); err != nil {
			return fmt.Errorf("uploaded %s but failed to remove source: %w", op.LocalPath, err)
		}
	}
	return nil
}

// downloadFile fetches one object into its local destination, creating
// parent directories as needed. A partially written file is removed on
// failure.
func (e *Executor) downloadFile(ctx context.Context, bucket string, op *planner.Operation) error {
	output, err := e.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(op.Key),
	})
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", op.Key, err)
	}
	defer output.Body.Close()

	if dir := filepath.Dir(op.LocalPath); dir != "." {
		if err := e.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	file, err := e.fs.Create(op.LocalPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", op.LocalPath, err)
	}

	if _, err := io.Copy(file, output.Body); err != nil {
		file.Close()
		_ = e.fs.Remove(op.LocalPath)
		return fmt.Errorf("failed to write %s: %w", op.LocalPath, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", op.LocalPath, err)
	}

	if op.RemoveSource {
		_, err := e.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(op.Key),
		})
		if err != nil {
			return fmt.Errorf("downloaded %s but failed to delete source object: %w", op.Key, err)
		}
	}
	return nil
}

// detectContentType sniffs the first bytes of a local file, falling back to
// extension-based detection.
func (e *Executor) detectContentType(path string) string {
	file, err := e.fs.Open(path)
	if err != nil {
		return detectContentTypeFromExtension(path)
	}
	defer file.Close()

	buf := make([]byte, 512)
	n, _ := file.Read(buf)
	if n > 0 {
		if mt := mimetype.Detect(buf[:n]); mt != nil {
			return mt.String()
		}
	}
	return detectContentTypeFromExtension(path)
}

func detectContentTypeFromExtension(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != "" {
		if byExt := mime.TypeByExtension(ext); byExt != "" {
			return byExt
		}
	}
	return defaultContentType
}

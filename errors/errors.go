// Package errors provides error types and handling for ferry transfer operations.
package errors

import (
	"errors"
	"fmt"
)

// Error represents a transfer operation error with context about what failed.
// It wraps the underlying AWS SDK or filesystem error with additional context
// for better debugging.
type Error struct {
	// Op is the operation that failed (e.g., "copy", "move", "scan")
	Op string

	// Bucket is the S3 bucket name (if applicable)
	Bucket string

	// Key is the S3 object key or local path (if applicable)
	Key string

	// Err is the underlying error from the AWS SDK or other source
	Err error
}

// Error implements the error interface by providing a formatted error message.
func (e *Error) Error() string {
	if e.Bucket != "" && e.Key != "" {
		return fmt.Sprintf("ferry.%s %s:%s: %v", e.Op, e.Bucket, e.Key, e.Err)
	}
	if e.Bucket != "" {
		return fmt.Sprintf("ferry.%s bucket %s: %v", e.Op, e.Bucket, e.Err)
	}
	if e.Key != "" {
		return fmt.Sprintf("ferry.%s %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("ferry.%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithBucket adds bucket context to an existing error.
func (e *Error) WithBucket(bucket string) *Error {
	e.Bucket = bucket
	return e
}

// WithKey adds object key or path context to an existing error.
func (e *Error) WithKey(key string) *Error {
	e.Key = key
	return e
}

// WithMessage wraps the underlying error with a custom message.
func (e *Error) WithMessage(message string) *Error {
	e.Err = fmt.Errorf("%s: %w", message, e.Err)
	return e
}

// NewError creates a new Error with the given operation and underlying error.
func NewError(op string, err error) *Error {
	return &Error{
		Op:  op,
		Err: err,
	}
}

// NewObjectError creates a new Error with bucket and key context.
func NewObjectError(op, bucket, key string, err error) *Error {
	return &Error{
		Op:     op,
		Bucket: bucket,
		Key:    key,
		Err:    err,
	}
}

// Sentinel errors for common transfer failures.
// These can be used with errors.Is() for error checking.
var (
	// ErrNoBucket indicates that neither the source nor the destination
	// location named a bucket
	ErrNoBucket = errors.New("ferry: either src or dst must specify a bucket")

	// ErrCrossBucket indicates that both locations named a bucket; bucket to
	// bucket transfers are not supported
	ErrCrossBucket = errors.New("ferry: cross-bucket transfers are not supported")

	// ErrNoMatches indicates that the source location matched no files or objects
	ErrNoMatches = errors.New("ferry: no files matched the source location")

	// ErrObjectNotFound indicates that the requested object does not exist
	ErrObjectNotFound = errors.New("ferry: object not found")

	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("ferry: invalid input")

	// ErrInvalidLocation indicates that a location string could not be parsed
	ErrInvalidLocation = errors.New("ferry: invalid location")
)

// IsNoMatches checks if an error indicates that nothing matched the source.
func IsNoMatches(err error) bool {
	return errors.Is(err, ErrNoMatches)
}

// IsCrossBucket checks if an error indicates an unsupported bucket to bucket
// transfer.
func IsCrossBucket(err error) bool {
	return errors.Is(err, ErrCrossBucket)
}

// IsObjectNotFound checks if an error indicates that an object was not found.
func IsObjectNotFound(err error) bool {
	return errors.Is(err, ErrObjectNotFound)
}

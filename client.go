// Package ferry copies and moves files between a local filesystem and an S3
// bucket, fanning the per-file transfers out across a bounded worker pool.
//
// Locations are given as "bucket:path" strings; the side that names a bucket
// determines the transfer direction. The actual network I/O is delegated to
// the AWS SDK transfer tooling behind an internal interface.
package ferry

import (
	"context"
	"net/http"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/afero"

	"github.com/netdev-io/ferry/errors"
	"github.com/netdev-io/ferry/ferrytypes"
	"github.com/netdev-io/ferry/internal/executor"
	"github.com/netdev-io/ferry/internal/s3api"
)

// Client performs transfers against a single bucket store. It is safe for
// concurrent use.
type Client struct {
	// s3Client is the underlying AWS SDK S3 client
	s3Client s3api.S3API

	// config holds the AWS configuration
	config aws.Config

	// clientCfg holds the resolved client options
	clientCfg ferrytypes.ClientConfig

	// mu protects concurrent access to client configuration
	mu sync.RWMutex

	// fs is the filesystem abstraction for local file operations
	fs afero.Fs
}

// New creates a new ferry client with the provided options. It loads AWS
// credentials using the default credential chain and applies the specified
// configuration options.
//
// Example:
//
//	client, err := ferry.New(
//	    ferry.WithRegion("us-west-2"),
//	    ferry.WithWorkers(8),
//	)
func New(opts ...ferrytypes.Option) (*Client, error) {
	clientCfg := &ferrytypes.ClientConfig{
		MaxRetries: 3,
		Workers:    executor.DefaultWorkers,
		PartSize:   executor.DefaultPartSize,
	}
	for _, opt := range opts {
		opt(clientCfg)
	}

	var cfg aws.Config
	var err error

	if clientCfg.CustomAWSConfig != nil {
		cfg = *clientCfg.CustomAWSConfig
	} else {
		cfg, err = config.LoadDefaultConfig(context.Background())
		if err != nil {
			return nil, errors.NewError("client initialization", err)
		}
	}

	if clientCfg.Region != "" {
		cfg.Region = clientCfg.Region
	} else if cfg.Region == "" {
		cfg.Region = "us-east-1" // AWS default region
	}

	if clientCfg.MaxRetries > 0 {
		cfg.RetryMaxAttempts = clientCfg.MaxRetries
	}

	var s3Opts []func(*s3.Options)

	if clientCfg.Endpoint != "" {
		endpoint := clientCfg.Endpoint
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
	}

	if clientCfg.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	if clientCfg.Timeout > 0 {
		httpClient := &http.Client{
			Timeout: clientCfg.Timeout,
		}
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.HTTPClient = httpClient
		})
	}

	s3Client := s3.NewFromConfig(cfg, s3Opts...)

	var filesystem afero.Fs
	if clientCfg.Filesystem != nil {
		filesystem = clientCfg.Filesystem
	} else {
		filesystem = afero.NewOsFs()
	}

	return &Client{
		s3Client:  s3Client,
		config:    cfg,
		clientCfg: *clientCfg,
		fs:        filesystem,
	}, nil
}

// NewWithClient creates a ferry client around a custom S3API implementation.
// This is primarily used for testing with mocked clients.
func NewWithClient(s3Client s3api.S3API, opts ...ferrytypes.Option) *Client {
	clientCfg := &ferrytypes.ClientConfig{
		Workers:  executor.DefaultWorkers,
		PartSize: executor.DefaultPartSize,
	}
	for _, opt := range opts {
		opt(clientCfg)
	}

	var filesystem afero.Fs
	if clientCfg.Filesystem != nil {
		filesystem = clientCfg.Filesystem
	} else {
		filesystem = afero.NewOsFs()
	}

	return &Client{
		s3Client:  s3Client,
		config:    aws.Config{},
		clientCfg: *clientCfg,
		fs:        filesystem,
	}
}

// SetFilesystem sets the filesystem implementation for the client.
// This is useful for testing or when the filesystem needs to be changed
// after creation.
func (c *Client) SetFilesystem(filesystem afero.Fs) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fs = filesystem
}

// Close releases any resources held by the client.
// Currently a no-op but included for future extensibility.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return nil
}

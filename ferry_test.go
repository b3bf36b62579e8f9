package ferry

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netdev-io/ferry/errors"
	"github.com/netdev-io/ferry/internal/testutil"
)

// uploadRecorder is a mock that lists an existing inventory and records
// uploaded keys.
type uploadRecorder struct {
	mu       sync.Mutex
	uploaded []string
}

func (r *uploadRecorder) client(existing []types.Object) *testutil.MockS3Client {
	return &testutil.MockS3Client{
		ListObjectsV2Func: func(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
			return &s3.ListObjectsV2Output{Contents: existing}, nil
		},
		PutObjectFunc: func(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
			r.mu.Lock()
			r.uploaded = append(r.uploaded, aws.ToString(params.Key))
			r.mu.Unlock()
			return &s3.PutObjectOutput{}, nil
		},
	}
}

func (r *uploadRecorder) keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.uploaded...)
}

func newTestFs(t *testing.T) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	require.NoError(t, testutil.WriteTree(fsys, map[string]string{
		"data/a.txt":     "aaa",
		"data/b.txt":     "bbbbb",
		"data/sub/c.txt": "cc",
	}))
	return fsys
}

func TestCopyUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("uploads a directory recursively", func(t *testing.T) {
		rec := &uploadRecorder{}
		client := NewWithClient(rec.client(nil), WithFilesystem(newTestFs(t)))

		result, err := client.Copy(ctx, "data", "test-bucket:backup")
		require.NoError(t, err)
		assert.Equal(t, 3, result.FilesTransferred)
		assert.Equal(t, int64(10), result.BytesTransferred)
		assert.Equal(t, 0, result.FilesSkipped)
		assert.ElementsMatch(t,
			[]string{"backup/a.txt", "backup/b.txt", "backup/sub/c.txt"},
			rec.keys())
	})

	t.Run("skips files already in the bucket", func(t *testing.T) {
		rec := &uploadRecorder{}
		existing := []types.Object{
			{Key: aws.String("backup/a.txt"), Size: aws.Int64(3)},
		}
		client := NewWithClient(rec.client(existing), WithFilesystem(newTestFs(t)))

		result, err := client.Copy(ctx, "data", "test-bucket:backup")
		require.NoError(t, err)
		assert.Equal(t, 2, result.FilesTransferred)
		assert.Equal(t, 1, result.FilesSkipped)
		assert.NotContains(t, rec.keys(), "backup/a.txt")
	})

	t.Run("overwrite uploads everything", func(t *testing.T) {
		rec := &uploadRecorder{}
		existing := []types.Object{
			{Key: aws.String("backup/a.txt"), Size: aws.Int64(3)},
		}
		client := NewWithClient(rec.client(existing), WithFilesystem(newTestFs(t)))

		result, err := client.Copy(ctx, "data", "test-bucket:backup", WithOverwrite(true))
		require.NoError(t, err)
		assert.Equal(t, 3, result.FilesTransferred)
		assert.Equal(t, 0, result.FilesSkipped)
	})

	t.Run("empty destination path defaults to the source base name", func(t *testing.T) {
		rec := &uploadRecorder{}
		client := NewWithClient(rec.client(nil), WithFilesystem(newTestFs(t)))

		_, err := client.Copy(ctx, "data", "test-bucket:")
		require.NoError(t, err)
		assert.Contains(t, rec.keys(), "data/a.txt")
	})

	t.Run("glob source", func(t *testing.T) {
		rec := &uploadRecorder{}
		client := NewWithClient(rec.client(nil), WithFilesystem(newTestFs(t)))

		result, err := client.Copy(ctx, "data/*.txt", "test-bucket:backup")
		require.NoError(t, err)
		assert.Equal(t, 2, result.FilesTransferred)
		assert.ElementsMatch(t, []string{"backup/a.txt", "backup/b.txt"}, rec.keys())
	})

	t.Run("explicit file list bypasses matching", func(t *testing.T) {
		rec := &uploadRecorder{}
		client := NewWithClient(rec.client(nil), WithFilesystem(newTestFs(t)))

		result, err := client.Copy(ctx, "data", "test-bucket:backup",
			WithFiles([]string{"data/a.txt"}))
		require.NoError(t, err)
		assert.Equal(t, 1, result.FilesTransferred)
		assert.Equal(t, []string{"backup/a.txt"}, rec.keys())
	})

	t.Run("exclude patterns", func(t *testing.T) {
		rec := &uploadRecorder{}
		client := NewWithClient(rec.client(nil), WithFilesystem(newTestFs(t)))

		result, err := client.Copy(ctx, "data", "test-bucket:backup",
			WithExcludePattern("sub/"))
		require.NoError(t, err)
		assert.Equal(t, 2, result.FilesTransferred)
		assert.NotContains(t, rec.keys(), "backup/sub/c.txt")
	})

	t.Run("match callback sees the matched files", func(t *testing.T) {
		rec := &uploadRecorder{}
		client := NewWithClient(rec.client(nil), WithFilesystem(newTestFs(t)))

		var matched []string
		_, err := client.Copy(ctx, "data", "test-bucket:backup",
			WithMatchCallback(func(matches []string) { matched = matches }))
		require.NoError(t, err)
		assert.Len(t, matched, 3)
	})

	t.Run("dry run moves no bytes", func(t *testing.T) {
		rec := &uploadRecorder{}
		client := NewWithClient(rec.client(nil), WithFilesystem(newTestFs(t)))

		result, err := client.Copy(ctx, "data", "test-bucket:backup", WithDryRun(true))
		require.NoError(t, err)
		assert.True(t, result.DryRun)
		assert.Equal(t, 3, result.FilesTransferred)
		assert.Empty(t, rec.keys())
	})

	t.Run("no matches is an error", func(t *testing.T) {
		rec := &uploadRecorder{}
		client := NewWithClient(rec.client(nil), WithFilesystem(newTestFs(t)))

		_, err := client.Copy(ctx, "data/*.nope", "test-bucket:backup")
		require.Error(t, err)
		assert.True(t, errors.IsNoMatches(err))
	})
}

func TestCopyDownload(t *testing.T) {
	ctx := context.Background()

	downloadClient := func(objects []types.Object) *testutil.MockS3Client {
		return &testutil.MockS3Client{
			ListObjectsV2Func: func(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
				return &s3.ListObjectsV2Output{Contents: objects}, nil
			},
			GetObjectFunc: func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
				return &s3.GetObjectOutput{
					Body: io.NopCloser(strings.NewReader("remote:" + aws.ToString(params.Key))),
				}, nil
			},
		}
	}

	t.Run("downloads objects under a prefix", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		objects := []types.Object{
			{Key: aws.String("backup/a.txt"), Size: aws.Int64(16)},
			{Key: aws.String("backup/sub/c.txt"), Size: aws.Int64(20)},
		}
		client := NewWithClient(downloadClient(objects), WithFilesystem(fsys))

		result, err := client.Copy(ctx, "test-bucket:backup", "restore")
		require.NoError(t, err)
		assert.Equal(t, 2, result.FilesTransferred)

		content, err := afero.ReadFile(fsys, "restore/a.txt")
		require.NoError(t, err)
		assert.Equal(t, "remote:backup/a.txt", string(content))

		exists, err := afero.Exists(fsys, "restore/sub/c.txt")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("skips files that already exist locally", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fsys, "restore/a.txt", []byte("old"), 0o644))

		objects := []types.Object{
			{Key: aws.String("backup/a.txt"), Size: aws.Int64(16)},
		}
		client := NewWithClient(downloadClient(objects), WithFilesystem(fsys))

		result, err := client.Copy(ctx, "test-bucket:backup", "restore")
		require.NoError(t, err)
		assert.Equal(t, 0, result.FilesTransferred)
		assert.Equal(t, 1, result.FilesSkipped)

		content, err := afero.ReadFile(fsys, "restore/a.txt")
		require.NoError(t, err)
		assert.Equal(t, "old", string(content))
	})

	t.Run("explicit keys relative to the prefix", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		objects := []types.Object{
			{Key: aws.String("backup/a.txt"), Size: aws.Int64(16)},
			{Key: aws.String("backup/b.txt"), Size: aws.Int64(16)},
		}
		client := NewWithClient(downloadClient(objects), WithFilesystem(fsys))

		result, err := client.Copy(ctx, "test-bucket:backup", "restore",
			WithFiles([]string{"a.txt"}))
		require.NoError(t, err)
		assert.Equal(t, 1, result.FilesTransferred)
	})

	t.Run("empty listing is an error", func(t *testing.T) {
		client := NewWithClient(downloadClient(nil), WithFilesystem(afero.NewMemMapFs()))

		_, err := client.Copy(ctx, "test-bucket:backup", "restore")
		require.Error(t, err)
		assert.True(t, errors.IsNoMatches(err))
	})
}

func TestMove(t *testing.T) {
	ctx := context.Background()

	t.Run("upload removes sources after success", func(t *testing.T) {
		fsys := newTestFs(t)
		rec := &uploadRecorder{}
		client := NewWithClient(rec.client(nil), WithFilesystem(fsys))

		result, err := client.Move(ctx, "data", "test-bucket:backup")
		require.NoError(t, err)
		assert.Equal(t, 3, result.FilesTransferred)

		for _, path := range []string{"data/a.txt", "data/b.txt", "data/sub/c.txt"} {
			exists, err := afero.Exists(fsys, path)
			require.NoError(t, err)
			assert.False(t, exists, path)
		}
	})

	t.Run("skipped sources stay in place", func(t *testing.T) {
		fsys := newTestFs(t)
		rec := &uploadRecorder{}
		existing := []types.Object{
			{Key: aws.String("backup/a.txt"), Size: aws.Int64(3)},
		}
		client := NewWithClient(rec.client(existing), WithFilesystem(fsys))

		result, err := client.Move(ctx, "data", "test-bucket:backup")
		require.NoError(t, err)
		assert.Equal(t, 1, result.FilesSkipped)

		exists, err := afero.Exists(fsys, "data/a.txt")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("download deletes source objects", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		var mu sync.Mutex
		var deleted []string
		mock := &testutil.MockS3Client{
			ListObjectsV2Func: func(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
				return &s3.ListObjectsV2Output{Contents: []types.Object{
					{Key: aws.String("inbox/a.txt"), Size: aws.Int64(1)},
				}}, nil
			},
			GetObjectFunc: func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
				return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader("x"))}, nil
			},
			DeleteObjectFunc: func(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
				mu.Lock()
				deleted = append(deleted, aws.ToString(params.Key))
				mu.Unlock()
				return &s3.DeleteObjectOutput{}, nil
			},
		}
		client := NewWithClient(mock, WithFilesystem(fsys))

		result, err := client.Move(ctx, "test-bucket:inbox", "local")
		require.NoError(t, err)
		assert.Equal(t, 1, result.FilesTransferred)
		assert.Equal(t, []string{"inbox/a.txt"}, deleted)
	})
}

func TestTransferErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("both locations remote", func(t *testing.T) {
		client := NewWithClient(&testutil.MockS3Client{}, WithFilesystem(afero.NewMemMapFs()))

		_, err := client.Copy(ctx, "bkt-a:x", "bkt-b:y")
		require.Error(t, err)
		assert.True(t, errors.IsCrossBucket(err))
	})

	t.Run("neither location remote", func(t *testing.T) {
		client := NewWithClient(&testutil.MockS3Client{}, WithFilesystem(afero.NewMemMapFs()))

		_, err := client.Copy(ctx, "a", "b")
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrNoBucket)
	})

	t.Run("per-file failures surface on the result", func(t *testing.T) {
		fsys := newTestFs(t)
		mock := &testutil.MockS3Client{
			ListObjectsV2Func: func(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
				return &s3.ListObjectsV2Output{}, nil
			},
			PutObjectFunc: func(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
				if aws.ToString(params.Key) == "backup/b.txt" {
					return nil, assert.AnError
				}
				return &s3.PutObjectOutput{}, nil
			},
		}
		client := NewWithClient(mock, WithFilesystem(fsys))

		result, err := client.Copy(ctx, "data", "test-bucket:backup")
		require.Error(t, err)
		require.NotNil(t, result)
		assert.Equal(t, 2, result.FilesTransferred)
		assert.Equal(t, 1, result.FilesFailed)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "data/b.txt", result.Errors[0].Source)
	})
}

package scanner

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netdev-io/ferry/internal/testutil"
)

func TestRoot(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"data", "data"},
		{"data/", "data"},
		{"data/*.txt", "data"},
		{"data/sub/*.txt", "data/sub"},
		{"*.txt", "."},
		{"data/file?.txt", "data"},
		{"data/[ab]/x", "data"},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.want, Root(tt.pattern))
		})
	}
}

func TestScanLocal(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, testutil.WriteTree(fsys, map[string]string{
		"data/a.txt":       "aaa",
		"data/b.txt":       "bb",
		"data/c.bin":       "c",
		"data/sub/d.txt":   "dddd",
		"data/sub/e.log":   "e",
		"other/ignore.txt": "x",
	}))

	sc := New(&testutil.MockS3Client{}, fsys)
	ctx := context.Background()

	t.Run("glob matches files only", func(t *testing.T) {
		files, err := sc.ScanLocal(ctx, "data/*.txt", nil, nil)
		require.NoError(t, err)
		assert.Len(t, files, 2)
	})

	t.Run("directory is walked recursively", func(t *testing.T) {
		files, err := sc.ScanLocal(ctx, "data", nil, nil)
		require.NoError(t, err)
		assert.Len(t, files, 5)
	})

	t.Run("include patterns filter the walk", func(t *testing.T) {
		files, err := sc.ScanLocal(ctx, "data", []string{"*.txt"}, nil)
		require.NoError(t, err)
		assert.Len(t, files, 3)
	})

	t.Run("exclude patterns take precedence", func(t *testing.T) {
		files, err := sc.ScanLocal(ctx, "data", []string{"*.txt"}, []string{"sub/"})
		require.NoError(t, err)
		assert.Len(t, files, 2)
	})

	t.Run("no matches yields empty result", func(t *testing.T) {
		files, err := sc.ScanLocal(ctx, "data/*.nope", nil, nil)
		require.NoError(t, err)
		assert.Empty(t, files)
	})

	t.Run("sizes come from the filesystem", func(t *testing.T) {
		files, err := sc.ScanLocal(ctx, "data/a.txt", nil, nil)
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, "data/a.txt", files[0].Path)
		assert.Equal(t, int64(3), files[0].Size)
	})
}

func TestStatFiles(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, testutil.WriteTree(fsys, map[string]string{
		"data/a.txt": "aaa",
	}))

	sc := New(&testutil.MockS3Client{}, fsys)

	t.Run("resolves explicit files", func(t *testing.T) {
		files, err := sc.StatFiles([]string{"data/a.txt"})
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, int64(3), files[0].Size)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := sc.StatFiles([]string{"data/missing.txt"})
		require.Error(t, err)
	})

	t.Run("directory is an error", func(t *testing.T) {
		_, err := sc.StatFiles([]string{"data"})
		require.Error(t, err)
	})
}

func TestScanRemote(t *testing.T) {
	ctx := context.Background()
	fsys := afero.NewMemMapFs()

	t.Run("follows pagination", func(t *testing.T) {
		calls := 0
		mock := &testutil.MockS3Client{
			ListObjectsV2Func: func(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
				calls++
				if calls == 1 {
					return &s3.ListObjectsV2Output{
						Contents: []types.Object{
							{Key: aws.String("pre/a.txt"), Size: aws.Int64(10)},
							{Key: aws.String("pre/b.txt"), Size: aws.Int64(20)},
						},
						IsTruncated:           aws.Bool(true),
						NextContinuationToken: aws.String("token-1"),
					}, nil
				}
				assert.Equal(t, "token-1", aws.ToString(params.ContinuationToken))
				return &s3.ListObjectsV2Output{
					Contents: []types.Object{
						{Key: aws.String("pre/c.txt"), Size: aws.Int64(30), ETag: aws.String(`"abc123"`)},
					},
					IsTruncated: aws.Bool(false),
				}, nil
			},
		}

		sc := New(mock, fsys)
		objects, err := sc.ScanRemote(ctx, "test-bucket", "pre", nil, nil)
		require.NoError(t, err)
		require.Len(t, objects, 3)
		assert.Equal(t, 2, calls)
		assert.Equal(t, "pre/c.txt", objects[2].Key)
		assert.Equal(t, "abc123", objects[2].ETag)
	})

	t.Run("include patterns apply to relative keys", func(t *testing.T) {
		mock := &testutil.MockS3Client{
			ListObjectsV2Func: func(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
				return &s3.ListObjectsV2Output{
					Contents: []types.Object{
						{Key: aws.String("pre/a.txt"), Size: aws.Int64(10)},
						{Key: aws.String("pre/b.log"), Size: aws.Int64(20)},
					},
				}, nil
			},
		}

		sc := New(mock, fsys)
		objects, err := sc.ScanRemote(ctx, "test-bucket", "pre", []string{"*.txt"}, nil)
		require.NoError(t, err)
		require.Len(t, objects, 1)
		assert.Equal(t, "pre/a.txt", objects[0].Key)
	})

	t.Run("listing failure is reported", func(t *testing.T) {
		mock := &testutil.MockS3Client{
			ListObjectsV2Func: func(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
				return nil, assert.AnError
			},
		}

		sc := New(mock, fsys)
		_, err := sc.ScanRemote(ctx, "test-bucket", "pre", nil, nil)
		require.Error(t, err)
	})
}

func TestInventory(t *testing.T) {
	objects, err := New(&testutil.MockS3Client{
		ListObjectsV2Func: func(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
			return &s3.ListObjectsV2Output{
				Contents: []types.Object{
					{Key: aws.String("pre/a.txt"), Size: aws.Int64(10)},
					{Key: aws.String("pre/b.txt"), Size: aws.Int64(20)},
				},
			}, nil
		},
	}, afero.NewMemMapFs()).ScanRemote(context.Background(), "test-bucket", "pre", nil, nil)
	require.NoError(t, err)

	inv := Inventory(objects)
	assert.Len(t, inv, 2)
	assert.Contains(t, inv, "pre/a.txt")
	assert.Equal(t, int64(20), inv["pre/b.txt"].Size)
}

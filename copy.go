package ferry

import (
	"context"

	"github.com/netdev-io/ferry/ferrytypes"
)

// Copy transfers files between a local path and a bucket location. Exactly
// one of src and dst must be a "bucket:path" location; a remote source means
// a download, a remote destination an upload.
//
// Files already present at the destination are skipped unless
// WithOverwrite(true) is given. The source pattern may be a file, a
// directory (walked recursively), or a glob.
//
// Example:
//
//	result, err := client.Copy(ctx, "data/*.csv", "my-bucket:reports")
func (c *Client) Copy(
	ctx context.Context,
	src, dst string,
	opts ...ferrytypes.TransferOption,
) (*ferrytypes.TransferResult, error) {
	return c.transfer(ctx, src, dst, false, opts...)
}

package ferry

import (
	"context"

	"github.com/netdev-io/ferry/ferrytypes"
)

// Move transfers files like Copy and then removes each source once its
// transfer has succeeded. Sources of skipped or failed files are left in
// place.
//
// Example:
//
//	result, err := client.Move(ctx, "staging/batch-7", "my-bucket:archive")
func (c *Client) Move(
	ctx context.Context,
	src, dst string,
	opts ...ferrytypes.TransferOption,
) (*ferrytypes.TransferResult, error) {
	return c.transfer(ctx, src, dst, true, opts...)
}

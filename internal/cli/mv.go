package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	addTransferFlags(mvCmd)
}

var mvCmd = &cobra.Command{
	Use:   "mv [src] [dst]",
	Short: "Move files to or from a bucket",
	Long: `Move files to or from a bucket.

Works like cp, then removes each source once its transfer has succeeded.
Sources of skipped or failed files are left in place.

Examples:

  ferry mv staging/batch-7 my-bucket:archive
  ferry mv my-bucket:inbox ./inbox`,
	Args: cobra.ExactArgs(2),
	Run: func(c *cobra.Command, args []string) {
		runTransfer(c, args, true)
	},
}

package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	addTransferFlags(cpCmd)
}

var cpCmd = &cobra.Command{
	Use:   "cp [src] [dst]",
	Short: "Copy files to or from a bucket",
	Long: `Copy files to or from a bucket.

Exactly one of src and dst must be a "bucket:path" location. Files already
present at the destination are skipped unless --overwrite is given.

Examples:

  ferry cp data my-bucket:backups/data
  ferry cp 'logs/*.gz' my-bucket:
  ferry cp my-bucket:reports/2026 ./reports`,
	Args: cobra.ExactArgs(2),
	Run: func(c *cobra.Command, args []string) {
		runTransfer(c, args, false)
	},
}

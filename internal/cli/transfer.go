package cli

import (
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	ferry "github.com/netdev-io/ferry"
	"github.com/netdev-io/ferry/ferrytypes"
)

// previewLines is how many matches to show from each end of the match list.
const previewLines = 5

func addTransferFlags(c *cobra.Command) {
	c.Flags().StringSlice("include", nil, "Only transfer files matching these patterns")
	c.Flags().StringSlice("exclude", nil, "Skip files matching these patterns")
	c.Flags().StringSlice("files", nil, "Transfer exactly these files, bypassing glob matching")
	c.Flags().Bool("overwrite", false, "Transfer files even when the destination already exists")
	c.Flags().Bool("dry-run", false, "Plan the transfer without moving any bytes")
}

func runTransfer(c *cobra.Command, args []string, move bool) {
	verb := "Copied"
	prefix := "cp"
	if move {
		verb = "Moved"
		prefix = "mv"
	}

	var opts []ferrytypes.Option
	opts = append(opts, ferry.WithWorkers(vip.GetInt("workers")))
	if region := vip.GetString("region"); region != "" {
		opts = append(opts, ferry.WithRegion(region))
	}
	if endpoint := vip.GetString("endpoint"); endpoint != "" {
		opts = append(opts, ferry.WithEndpoint(endpoint))
	}
	if vip.GetBool("path-style") {
		opts = append(opts, ferry.WithForcePathStyle(true))
	}

	client, err := ferry.New(opts...)
	ErrCheck(err)
	defer func() {
		_ = client.Close()
	}()

	var topts []ferrytypes.TransferOption
	includes, err := c.Flags().GetStringSlice("include")
	ErrCheck(err)
	for _, p := range includes {
		topts = append(topts, ferry.WithIncludePattern(p))
	}
	excludes, err := c.Flags().GetStringSlice("exclude")
	ErrCheck(err)
	for _, p := range excludes {
		topts = append(topts, ferry.WithExcludePattern(p))
	}
	files, err := c.Flags().GetStringSlice("files")
	ErrCheck(err)
	if len(files) > 0 {
		topts = append(topts, ferry.WithFiles(files))
	}
	overwrite, err := c.Flags().GetBool("overwrite")
	ErrCheck(err)
	topts = append(topts, ferry.WithOverwrite(overwrite))
	dryRun, err := c.Flags().GetBool("dry-run")
	ErrCheck(err)
	topts = append(topts, ferry.WithDryRun(dryRun))

	quiet := vip.GetBool("quiet")
	if !quiet {
		topts = append(topts, ferry.WithMatchCallback(printMatches))
		if !dryRun {
			topts = append(topts, ferry.WithProgressTracker(newProgressBar(prefix)))
		}
	}

	var result *ferrytypes.TransferResult
	if move {
		result, err = client.Move(c.Context(), args[0], args[1], topts...)
	} else {
		result, err = client.Copy(c.Context(), args[0], args[1], topts...)
	}
	if err != nil {
		if result != nil {
			for _, te := range result.Errors {
				Warn("%s -> %s: %s", te.Source, te.Destination, te.Err)
			}
		}
		Fatal(err)
	}

	if result.DryRun {
		Message("dry run: would transfer %d files (%s), skip %d",
			result.FilesTransferred,
			humanize.Bytes(uint64(result.BytesTransferred)),
			result.FilesSkipped)
		return
	}

	Success("%s %d files (%s) in %s, skipped %d",
		verb,
		result.FilesTransferred,
		humanize.Bytes(uint64(result.BytesTransferred)),
		result.Duration.Round(time.Millisecond),
		result.FilesSkipped)
}

// printMatches previews what the source pattern matched: the first and last
// few entries with a gap marker in between.
func printMatches(matches []string) {
	Message("matched %d files", len(matches))
	if len(matches) <= previewLines*2 {
		for _, m := range matches {
			Message("  %s", m)
		}
		return
	}
	for _, m := range matches[:previewLines] {
		Message("  %s", m)
	}
	Message("  ... %d more ...", len(matches)-previewLines*2)
	for _, m := range matches[len(matches)-previewLines:] {
		Message("  %s", m)
	}
}

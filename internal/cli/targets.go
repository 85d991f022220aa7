package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"diskmosaic/internal/services"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var targetsJSON bool

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List mounted filesystems that can be scanned",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		targets, err := services.GetTargets(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if targetsJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(targets)
		}

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "MOUNT\tFILESYSTEM\tUSED\tTOTAL\tFREE\tUSE%")
		for _, t := range targets {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.0f%%\n",
				t.MountPoint, t.Filesystem,
				humanize.Bytes(t.UsedBytes), humanize.Bytes(t.TotalBytes), humanize.Bytes(t.AvailableBytes),
				t.UsagePercent)
		}
		return tw.Flush()
	},
}

func init() {
	targetsCmd.Flags().BoolVar(&targetsJSON, "json", false, "print as JSON")
}

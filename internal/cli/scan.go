package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"text/tabwriter"
	"time"

	"diskmosaic/internal/models"
	"diskmosaic/internal/services"

	"github.com/spf13/cobra"
)

var (
	scanTop      int
	scanJSON     bool
	scanQuiet    bool
	scanIgnore   []string
	scanInterval time.Duration
)

var scanCmd = &cobra.Command{
	Use:   "scan <path>",
	Short: "Scan a directory and print its largest children",
	Long: `Scans a directory tree in the terminal, printing progress while it
runs and the largest children of the root at the end. Ctrl-C stops the
scan and prints what was found so far.

Examples:
  disk-mosaic scan /home
  disk-mosaic scan . --top 25
  disk-mosaic scan / --ignore /mnt/backup --json`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVarP(&scanTop, "top", "n", 10, "number of children to print")
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "print the final view as JSON")
	scanCmd.Flags().BoolVarP(&scanQuiet, "quiet", "q", false, "do not print progress")
	scanCmd.Flags().StringSliceVar(&scanIgnore, "ignore", nil, "absolute paths to skip (repeatable)")
	scanCmd.Flags().DurationVar(&scanInterval, "progress-interval", time.Second, "how often progress is printed")
}

func runScan(cmd *cobra.Command, args []string) error {
	root, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve %q: %w", args[0], err)
	}

	settings := services.GetSettings()
	for _, p := range scanIgnore {
		if err := settings.AddIgnoredPath(p); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	analyzer, err := services.StartScan(ctx, root)
	if err != nil {
		return err
	}
	defer analyzer.Close()

	out := cmd.OutOrStdout()
	progress := cmd.ErrOrStderr()
	if err := driveScan(ctx, analyzer, cfg.TickInterval, func(st models.ScanStatus) {
		if !scanQuiet {
			fmt.Fprintf(progress, "%s  %s\n", st.StatusLine, st.Scanning)
		}
	}); err != nil {
		return err
	}

	st := analyzer.Status()
	if !scanQuiet {
		fmt.Fprintf(progress, "%s  done in %s\n", st.StatusLine, st.Elapsed.Round(time.Millisecond))
	}

	view := analyzer.View()
	if scanJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}
	return printView(out, view, scanTop)
}

// driveScan ticks the analyzer until the Finished message arrives,
// reporting progress every scanInterval. Cancelling ctx stops the scan
// and keeps ticking so the partial tree is complete.
func driveScan(ctx context.Context, a *services.Analyzer, tick time.Duration, report func(models.ScanStatus)) error {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	lastReport := time.Now()

	done := ctx.Done()
	for {
		select {
		case <-done:
			a.Stop()
			done = nil
		case <-ticker.C:
			if a.Tick() {
				return nil
			}
			if time.Since(lastReport) >= scanInterval {
				report(a.Status())
				lastReport = time.Now()
			}
		}
	}
}

// printView writes the view's largest children as a table.
func printView(w io.Writer, view models.View, top int) error {
	children := append([]models.ChildView(nil), view.Children...)
	sort.Slice(children, func(i, j int) bool {
		return children[i].SizeBytes > children[j].SizeBytes
	})
	if top > 0 && len(children) > top {
		children = children[:top]
	}

	fmt.Fprintf(w, "%s  %s\n", view.FullPath, view.Size)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	for _, child := range children {
		pct := 0.0
		if view.SizeBytes > 0 {
			pct = float64(child.SizeBytes) / float64(view.SizeBytes) * 100
		}
		fmt.Fprintf(tw, "%s\t%.1f%%\t%s\t\n", child.Size, pct, displayChild(child))
	}
	return tw.Flush()
}

func displayChild(c models.ChildView) string {
	if c.Kind == models.KindDirectory {
		return c.Name + string(filepath.Separator)
	}
	return c.Name
}

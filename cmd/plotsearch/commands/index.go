// ABOUTME: CLI command to compute or verify cached plot embeddings
// ABOUTME: Useful to pay the embedding cost before the first search
package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// indexReport summarizes one cache warm-up
type indexReport struct {
	Dataset     string        `json:"dataset" yaml:"dataset"`
	Cache       string        `json:"cache" yaml:"cache"`
	Hit         bool          `json:"hit" yaml:"hit"`
	Rows        int           `json:"rows" yaml:"rows"`
	Dimension   int           `json:"dimension" yaml:"dimension"`
	Fingerprint string        `json:"fingerprint" yaml:"fingerprint"`
	BuildID     string        `json:"build_id" yaml:"build_id"`
	Elapsed     time.Duration `json:"elapsed" yaml:"elapsed"`
}

// NewIndexCmd creates the index command
func NewIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Compute or reuse dataset embeddings",
		Long: `Load the embedding cache for the dataset, computing and storing
embeddings if the cache is missing or stale.

Examples:
  plotsearch index
  plotsearch index --dataset data/movies.csv --cache-dir /tmp/plots`,
		Args: cobra.NoArgs,
		RunE: runIndex,
	}

	return cmd
}

func runIndex(cmd *cobra.Command, args []string) error {
	format, err := resolveFormat(outputFormat, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	start := time.Now()
	snap, err := a.manager.Load(cmd.Context(), a.cfg.Dataset)
	if err != nil {
		return fmt.Errorf("indexing dataset: %w", err)
	}

	report := indexReport{
		Dataset:     a.cfg.Dataset,
		Cache:       a.cfg.CacheDir,
		Hit:         snap.Hit,
		Rows:        len(snap.Movies),
		Dimension:   snap.Matrix.Dim(),
		Fingerprint: snap.Fingerprint.String(),
		BuildID:     snap.BuildID,
		Elapsed:     time.Since(start),
	}

	if format != formatTable {
		return writeStructured(cmd.OutOrStdout(), format, report)
	}

	if quiet {
		return nil
	}

	state := "computed"
	if report.Hit {
		state = "reused"
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Embeddings %s for %d movie(s)\n", state, report.Rows)
	fmt.Fprintf(out, "  Dataset:     %s\n", report.Dataset)
	fmt.Fprintf(out, "  Cache:       %s\n", report.Cache)
	fmt.Fprintf(out, "  Dimension:   %d\n", report.Dimension)
	fmt.Fprintf(out, "  Fingerprint: %s\n", report.Fingerprint)
	fmt.Fprintf(out, "  Build:       %s\n", report.BuildID)
	fmt.Fprintf(out, "  Elapsed:     %s\n", report.Elapsed.Round(time.Millisecond))
	return nil
}

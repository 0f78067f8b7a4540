// ABOUTME: CLI command to derive a title,plot dataset from a raw movie CSV
// ABOUTME: Keeps only the title and plot columns in source order
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/plotsearch/internal/dataset"
)

// NewPrepareCmd creates the prepare command
func NewPrepareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prepare <source.csv> [dest.csv]",
		Short: "Project a raw movie CSV to title and plot",
		Long: `Read a movie CSV with Title and Plot columns (for example the
Wikipedia movie plots dump) and write a dataset with only title and plot.

The destination defaults to the configured dataset path.

Examples:
  plotsearch prepare wiki_movie_plots_deduped.csv
  plotsearch prepare wiki_movie_plots_deduped.csv data/movies.csv`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runPrepare,
	}

	return cmd
}

func runPrepare(cmd *cobra.Command, args []string) error {
	src := args[0]

	dst := datasetFlag
	if len(args) == 2 {
		dst = args[1]
	}
	if dst == "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		dst = cfg.Dataset
	}

	n, err := dataset.Project(src, dst)
	if err != nil {
		return fmt.Errorf("preparing dataset: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d movie(s) to %s\n", n, dst)
	}
	return nil
}

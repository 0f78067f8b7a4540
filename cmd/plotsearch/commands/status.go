// ABOUTME: CLI command to show whether cached embeddings are current
// ABOUTME: Never computes embeddings
package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewStatusCmd creates the status command
func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show embedding cache status",
		Long: `Compare the stored embedding cache with the current dataset and
embedding model without computing anything.

Examples:
  plotsearch status
  plotsearch status --format yaml`,
		Args: cobra.NoArgs,
		RunE: runStatus,
	}

	return cmd
}

func runStatus(cmd *cobra.Command, args []string) error {
	format, err := resolveFormat(outputFormat, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	st, err := a.manager.Status(cmd.Context(), a.cfg.Dataset)
	if err != nil {
		return fmt.Errorf("reading cache status: %w", err)
	}

	if format != formatTable {
		return writeStructured(cmd.OutOrStdout(), format, st)
	}

	state := "stale"
	if st.Fresh {
		state = "fresh"
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Cache:    %s (%s)\n", st.Location, state)
	if st.Reason != "" {
		fmt.Fprintf(out, "Reason:   %s\n", st.Reason)
	}
	fmt.Fprintf(out, "Dataset:  %s (%d rows)\n", a.cfg.Dataset, st.Rows)
	fmt.Fprintf(out, "Current:  %s\n", st.Current.String())
	if !st.Stored.IsZero() {
		fmt.Fprintf(out, "Stored:   %s\n", st.Stored.String())
		fmt.Fprintf(out, "Cached:   %d rows x %d dims\n", st.CachedRows, st.Dimension)
		fmt.Fprintf(out, "Build:    %s\n", st.BuildID)
		if st.CreatedAt != nil {
			fmt.Fprintf(out, "Created:  %s\n", st.CreatedAt.Local().Format(time.DateTime))
		}
	}
	return nil
}

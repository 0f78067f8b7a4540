// ABOUTME: CLI command to search movie plots by meaning
// ABOUTME: Ranks dataset rows by cosine similarity to the query
package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/plotsearch/internal/models"
)

var (
	searchLimit int
)

// NewSearchCmd creates search command
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search movie plots",
		Long: `Search movie plots using semantic similarity.

The query is embedded with the same model as the dataset and compared
against every plot by cosine similarity. Dataset embeddings are computed
on first use and reused until the dataset file or the model changes.

Without OPENAI_API_KEY (or with PLOTSEARCH_EMBEDDER=hash) the local hash
embedder is used. It ranks by word overlap, not meaning: "spy" will not
match "secret agent".

Examples:
  plotsearch search "spy thriller in Paris"
  plotsearch search --limit 10 "heist gone wrong"
  plotsearch search --format json "robot learns to love"`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().IntVarP(&searchLimit, "limit", "n", 5, "Maximum results to return")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(searchLimit, "limit"); err != nil {
		return err
	}

	format, err := resolveFormat(outputFormat, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	limit := searchLimit
	if !cmd.Flags().Changed("limit") {
		limit = a.cfg.TopN
	}

	query := args[0]
	results, err := a.engine.Search(cmd.Context(), query, limit)
	if err != nil {
		return fmt.Errorf("searching plots: %w", err)
	}

	if format != formatTable {
		return writeStructured(cmd.OutOrStdout(), format, results)
	}

	if len(results) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No movies found for query: %s\n", query)
		}
		return nil
	}

	printResults(cmd.OutOrStdout(), results)

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nFound %d result(s)\n", len(results))
	}
	return nil
}

func printResults(out io.Writer, results []models.SearchResult) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "#\tSCORE\tTITLE\tPLOT\n")
	fmt.Fprintf(w, "-\t-----\t-----\t----\n")

	for _, result := range results {
		fmt.Fprintf(w, "%d\t%.3f\t%s\t%s\n",
			result.Rank,
			result.Similarity,
			truncate(oneLine(result.Title), 30),
			truncate(oneLine(result.Plot), 70))
	}
	_ = w.Flush()
}

// ABOUTME: Root command and global flags for the plotsearch CLI
// ABOUTME: Wires config, logging and output format shared by all subcommands
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
	datasetFlag  string
	cacheDirFlag string
)

const banner = `
 ██████╗ ██╗      ██████╗ ████████╗███████╗███████╗ █████╗ ██████╗  ██████╗██╗  ██╗
 ██╔══██╗██║     ██╔═══██╗╚══██╔══╝██╔════╝██╔════╝██╔══██╗██╔══██╗██╔════╝██║  ██║
 ██████╔╝██║     ██║   ██║   ██║   ███████╗█████╗  ███████║██████╔╝██║     ███████║
 ██╔═══╝ ██║     ██║   ██║   ██║   ╚════██║██╔══╝  ██╔══██║██╔══██╗██║     ██╔══██║
 ██║     ███████╗╚██████╔╝   ██║   ███████║███████╗██║  ██║██║  ██║╚██████╗██║  ██║
 ╚═╝     ╚══════╝ ╚═════╝    ╚═╝   ╚══════╝╚══════╝╚═╝  ╚═╝╚═╝  ╚═╝ ╚═════╝╚═╝  ╚═╝
`

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plotsearch",
		Short: "Semantic search over movie plots",
		Long: banner + `
Find movies by describing their plot in plain language.

Plot embeddings are computed once per dataset and embedding model and
cached on disk; later searches only embed the query.

Configuration comes from environment variables (or a .env file) and an
optional YAML file named by PLOTSEARCH_CONFIG.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only log errors and suppress summaries")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, table, json, yaml")
	cmd.PersistentFlags().StringVar(&datasetFlag, "dataset", "", "Path to the movies CSV (overrides PLOTSEARCH_DATASET)")
	cmd.PersistentFlags().StringVar(&cacheDirFlag, "cache-dir", "", "Embedding cache directory (overrides PLOTSEARCH_CACHE_DIR)")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(
		NewSearchCmd(),
		NewIndexCmd(),
		NewStatusCmd(),
		NewPrepareCmd(),
		NewMCPCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

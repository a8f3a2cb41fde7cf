package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hornet/internal/config"
	"hornet/internal/logging"
	"hornet/internal/store"
)

var (
	// Global flags
	verbose     bool
	configPath  string
	archivePath string

	cfg    config.Config
	logger *zap.Logger
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "hornet",
	Short: "hornet - CHC reachability oracle with counterexample reconstruction",
	Long: `hornet decides whether a designated error relation is derivable from a
set of constrained Horn clauses describing a program's transition semantics
and, if so, reconstructs the refutation proof as an inspectable derivation
graph.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Logging.Verbose = true
		}
		if archivePath != "" {
			cfg.Archive.Path = archivePath
		}

		logger, err = logging.New(cfg.Logging.Verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// recentCmd lists archived query results.
var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently archived query results",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Archive.Path == "" {
			return fmt.Errorf("no archive configured; set --archive or archive.path in the config file")
		}
		archive, err := store.Open(cfg.Archive.Path)
		if err != nil {
			return err
		}
		defer archive.Close()

		records, err := archive.Recent(cmd.Context(), recentLimit)
		if err != nil {
			return err
		}
		for _, rec := range records {
			fmt.Printf("%s  %-13s %-10v %s\n",
				rec.Created.Format(time.RFC3339), rec.Result, rec.Duration.Round(time.Microsecond), rec.Goal)
		}
		return nil
	},
}

var recentLimit int

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a hornet config file")
	rootCmd.PersistentFlags().StringVar(&archivePath, "archive", "", "SQLite database to archive query results into")
	recentCmd.Flags().IntVarP(&recentLimit, "limit", "n", 20, "number of records to list")

	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(recentCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

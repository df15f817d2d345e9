package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/acf-tools/startrack/internal/config"
	"github.com/acf-tools/startrack/internal/logging"
)

var (
	cfg    = config.DefaultConfig()
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "startrack",
	Short: "Cadet star progression tracker",
	Long: `startrack classifies cadets into star qualification tiers from their
recorded subject achievements and lists what each still needs for the next
tier. Rosters are read from CSV unit returns; results are printed as tables
or written to xlsx workbooks, or served over HTTP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cfg = loaded

		logger, err = logging.New(cfg.Logging)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (overrides STARTRACK_CONFIG env var)")
	rootCmd.PersistentFlags().String("syllabus", "", "Syllabus document or directory of documents to load")
	rootCmd.PersistentFlags().String("syllabus-version", "", "Syllabus version to evaluate against (default: latest)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(syllabusCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file chosen by --config (highest priority) or
// the STARTRACK_CONFIG env var, then applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	c, err := config.Load(config.ResolvePath(path))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if p, _ := cmd.Flags().GetString("syllabus"); p != "" {
		c.Syllabus.Path = p
	}
	if v, _ := cmd.Flags().GetString("syllabus-version"); v != "" {
		c.Syllabus.Version = v
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		c.Logging.Debug = true
	}
	return c, nil
}

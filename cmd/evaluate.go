package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/acf-tools/startrack/internal/report"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <roster.csv>",
	Short: "Evaluate a roster and print each cadet's star level",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, _ := cmd.Flags().GetBool("paths")
		xlsx, _ := cmd.Flags().GetString("xlsx")
		asJSON, _ := cmd.Flags().GetBool("json")

		rep, err := evaluateRoster(cmd, args[0])
		if err != nil {
			return err
		}

		if xlsx != "" {
			if err := writeWorkbookFile(xlsx, rep); err != nil {
				return err
			}
			logger.Info("workbook written", zap.String("path", xlsx), zap.String("run_id", rep.RunID))
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		}
		return report.RenderTable(out, rep, report.TableOptions{Paths: paths})
	},
}

func init() {
	evaluateCmd.Flags().Bool("paths", false, "Include next level and required items")
	evaluateCmd.Flags().String("xlsx", "", "Also write the report as an xlsx workbook to this path")
	evaluateCmd.Flags().Bool("json", false, "Print the report as JSON")
}

// evaluateRoster loads the engine and roster and runs the batch.
func evaluateRoster(cmd *cobra.Command, path string) (*report.Report, error) {
	engine, err := newEngine()
	if err != nil {
		return nil, err
	}
	records, err := readRoster(path, engine.Syllabus())
	if err != nil {
		return nil, err
	}
	rep, err := report.NewProcessor(engine, cfg.Batch.Workers, logger).Run(cmd.Context(), records)
	if err != nil {
		return nil, fmt.Errorf("evaluate %s: %w", path, err)
	}
	return rep, nil
}

func writeWorkbookFile(path string, rep *report.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create workbook: %w", err)
	}
	if err := report.WriteWorkbook(f, rep); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

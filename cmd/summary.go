package cmd

import (
	"github.com/spf13/cobra"

	"github.com/acf-tools/startrack/internal/report"
)

var summaryCmd = &cobra.Command{
	Use:   "summary <roster.csv>",
	Short: "Show how many cadets hold each star level",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		width, _ := cmd.Flags().GetInt("width")

		rep, err := evaluateRoster(cmd, args[0])
		if err != nil {
			return err
		}
		return report.RenderSummary(cmd.OutOrStdout(), rep, width)
	},
}

func init() {
	summaryCmd.Flags().Int("width", 30, "Width of the percentage bars")
}

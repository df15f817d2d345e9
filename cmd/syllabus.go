package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/acf-tools/startrack/internal/progression"
	"github.com/acf-tools/startrack/internal/syllabus"
)

var syllabusCmd = &cobra.Command{
	Use:   "syllabus",
	Short: "Inspect and validate syllabus documents",
}

var syllabusListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available syllabus versions",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		latest, err := reg.Latest()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-12s  %-30s  %5s\n", "Version", "Name", "Tiers")
		fmt.Fprintln(out, strings.Repeat("─", 51))
		for _, v := range reg.Versions() {
			s, err := reg.Get(v)
			if err != nil {
				return err
			}
			marker := ""
			if s == latest {
				marker = "  (latest)"
			}
			fmt.Fprintf(out, "%-12s  %-30s  %5d%s\n", v, s.Name(), len(s.Tiers()), marker)
		}
		return nil
	},
}

var syllabusShowCmd = &cobra.Command{
	Use:   "show [version]",
	Short: "Print a syllabus as YAML",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			cfg.Syllabus.Version = args[0]
		}
		s, err := selectSyllabus()
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(s.Document()); err != nil {
			return fmt.Errorf("encode syllabus: %w", err)
		}
		return enc.Close()
	},
}

var syllabusValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a syllabus document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := syllabus.LoadFile(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: syllabus %s is valid (%d tiers, %d subjects)\n",
			args[0], s.Version(), len(s.Tiers()), len(s.RecordSubjects()))

		engine, err := progression.New(s)
		if err != nil {
			return err
		}
		for _, name := range engine.UnknownPredicates() {
			fmt.Fprintf(out, "warning: predicate %q has no implementation and will never hold\n", name)
		}
		return nil
	},
}

func init() {
	syllabusCmd.AddCommand(syllabusListCmd)
	syllabusCmd.AddCommand(syllabusShowCmd)
	syllabusCmd.AddCommand(syllabusValidateCmd)
}

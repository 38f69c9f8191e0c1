package cmd

import (
	"github.com/bimmerbailey/bleep/internal/output"
	"github.com/bimmerbailey/bleep/internal/stats"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var statsCmd = &cobra.Command{
	Use:   "stats [flags] [files...]",
	Short: "Show profanity statistics",
	Long: `Display a summary of the profanity found in text: how many lines
were scanned and redacted, how many matches were let through by
exceptions or length limits, and the most frequent terms.

Examples:
  bleep stats chat.log
  bleep stats --top 5 'logs/**/*.log'
  cat chat.log | bleep stats --format json`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().Int("top", 10, "number of top terms to show (0 for all)")

	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	top, _ := cmd.Flags().GetInt("top")

	e, err := newEngine(commandContext(cmd))
	if err != nil {
		return err
	}

	collector := stats.NewCollector()
	err = forEachLine(cmd.InOrStdin(), args, func(_ string, _ int, line, _ string) error {
		collector.Add(e.inspect(line))
		return nil
	})
	if err != nil {
		return err
	}

	format := output.ParseFormat(viper.GetString("format"))
	return output.New(cmd.OutOrStdout(), format).WriteSummary(collector.Summary(top))
}

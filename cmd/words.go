package cmd

import (
	"fmt"

	"github.com/bimmerbailey/bleep/internal/filter"
	"github.com/bimmerbailey/bleep/internal/match"
	"github.com/bimmerbailey/bleep/internal/output"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var wordsCmd = &cobra.Command{
	Use:   "words",
	Short: "Print the effective dictionary",
	Long: `Words prints the dictionary in matching order: the built-in list
(or --dictionary) followed by any --word additions.

With --pattern the compiled regular expression is printed instead,
including the case and word-boundary settings in effect.

Examples:
  bleep words
  bleep words --word 'frak*' --pattern
  bleep words --dictionary words.yaml --format json`,
	Args: cobra.NoArgs,
	RunE: runWords,
}

func init() {
	wordsCmd.Flags().Bool("pattern", false, "print the compiled regular expression")

	rootCmd.AddCommand(wordsCmd)
}

func runWords(cmd *cobra.Command, args []string) error {
	showPattern, _ := cmd.Flags().GetBool("pattern")

	e, err := newEngine(commandContext(cmd))
	if err != nil {
		return err
	}

	opts := filter.Resolve(e.opts...)
	out := cmd.OutOrStdout()

	if showPattern {
		re := match.Build(e.filter.Pattern(e.opts...), filter.ScanMode(opts))
		_, err := fmt.Fprintln(out, re.String())
		return err
	}

	words := append(e.filter.Words(), opts.CustomBadWords...)

	if output.ParseFormat(viper.GetString("format")) == output.FormatJSON {
		return output.New(out, output.FormatJSON).WriteJSON(words)
	}

	for _, w := range words {
		if _, err := fmt.Fprintln(out, w); err != nil {
			return err
		}
	}
	return nil
}

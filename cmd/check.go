package cmd

import (
	"errors"
	"fmt"

	"github.com/bimmerbailey/bleep/internal/output"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ErrProfane is returned by check when any input contains profanity.
var ErrProfane = errors.New("profanity found")

var checkCmd = &cobra.Command{
	Use:   "check [flags] [files...]",
	Short: "Report lines that contain profanity",
	Long: `Check scans text and prints every line that would be redacted,
as "source:line: redacted text". It exits with status 1 when anything
is found, so it can gate commits or CI jobs.

Examples:
  bleep check README.md 'docs/**/*.md'
  git log --format=%s | bleep check
  bleep check --quiet --exception hell notes.txt`,
	SilenceUsage: true,
	RunE:         runCheck,
}

func init() {
	checkCmd.Flags().BoolP("quiet", "q", false, "print nothing; only set the exit status")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	quiet, _ := cmd.Flags().GetBool("quiet")

	e, err := newEngine(commandContext(cmd))
	if err != nil {
		return err
	}

	var records []output.Record
	err = forEachLine(cmd.InOrStdin(), args, func(source string, n int, line, _ string) error {
		r := e.inspect(line)
		if r.Profane() {
			records = append(records, output.Record{Source: source, Line: n, Result: r})
		}
		return nil
	})
	if err != nil {
		return err
	}

	if !quiet {
		format := output.ParseFormat(viper.GetString("format"))
		if err := output.New(cmd.OutOrStdout(), format).WriteRecords(records); err != nil {
			return err
		}
	}

	if len(records) > 0 {
		return fmt.Errorf("%w: %d lines", ErrProfane, len(records))
	}
	return nil
}

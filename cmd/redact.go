package cmd

import (
	"fmt"
	"os"

	"github.com/bimmerbailey/bleep/internal/config"
	"github.com/bimmerbailey/bleep/internal/output"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var redactCmd = &cobra.Command{
	Use:   "redact [flags] [files...]",
	Short: "Mask profanity in text",
	Long: `Redact reads text from files or standard input and writes it back
with every profane word masked.

With no files, or with "-", standard input is read. Glob patterns,
including "**", are expanded. Line endings, including CRLF, are written
back as they were read.

Examples:
  echo "what the hell" | bleep redact
  bleep redact --placeholder '#' --keep-ends chat.txt
  bleep redact --in-place 'comments/**/*.txt'
  bleep redact --format json --word 'frak*' log.txt`,
	RunE: runRedact,
}

func init() {
	redactCmd.Flags().BoolP("in-place", "i", false, "rewrite files that contain profanity")
	redactCmd.Flags().Bool("highlight", false, "colour replacements when writing to a terminal")

	rootCmd.AddCommand(redactCmd)
}

func runRedact(cmd *cobra.Command, args []string) error {
	inPlace, _ := cmd.Flags().GetBool("in-place")
	highlight, _ := cmd.Flags().GetBool("highlight")

	e, err := newEngine(commandContext(cmd))
	if err != nil {
		return err
	}

	if inPlace {
		return redactInPlace(cmd, e, args)
	}

	format := output.ParseFormat(viper.GetString("format"))
	out := cmd.OutOrStdout()

	if format == output.FormatText {
		mode := output.ColorNever
		if highlight {
			mode = output.ColorAuto
		}
		colorize := output.ShouldColorize(mode, out)

		return forEachLine(cmd.InOrStdin(), args, func(_ string, _ int, line, eol string) error {
			_, err := fmt.Fprint(out, output.FormatResult(e.inspect(line), colorize), eol)
			return err
		})
	}

	var records []output.Record
	err = forEachLine(cmd.InOrStdin(), args, func(source string, n int, line, _ string) error {
		records = append(records, output.Record{Source: source, Line: n, Result: e.inspect(line)})
		return nil
	})
	if err != nil {
		return err
	}
	return output.New(out, format).WriteRecords(records)
}

// redactInPlace rewrites each file whose content changes. The whole file
// is redacted at once so line endings survive untouched.
func redactInPlace(cmd *cobra.Command, e *engine, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("--in-place requires at least one file")
	}

	files, err := config.ExpandGlobs(args)
	if err != nil {
		return err
	}

	for _, path := range files {
		if path == config.Stdin {
			return fmt.Errorf("--in-place cannot rewrite standard input")
		}

		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		r := e.inspect(string(data))
		if !r.Profane() {
			e.logger.Debug("file clean", "file", path)
			continue
		}

		if err := os.WriteFile(path, []byte(r.Output), info.Mode().Perm()); err != nil {
			return fmt.Errorf("rewrite %s: %w", path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d redacted\n", path, len(r.Redacted()))
	}

	return nil
}

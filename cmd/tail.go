package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bimmerbailey/bleep/internal/output"
	"github.com/bimmerbailey/bleep/internal/tail"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var tailCmd = &cobra.Command{
	Use:   "tail [flags] <file>",
	Short: "Live-tail a file with redaction",
	Long: `Watch a file in real-time, similar to 'tail -f', printing every
new line with profanity masked.

Examples:
  bleep tail /var/log/chat.log
  bleep tail --only-profane /var/log/chat.log
  bleep tail --lines 50 --no-follow chat.log
  bleep tail --follow-rotate /var/log/chat.log`,
	Args: cobra.ExactArgs(1),
	RunE: runTail,
}

func init() {
	tailCmd.Flags().IntP("lines", "n", 10, "number of initial lines to show")
	tailCmd.Flags().Bool("no-follow", false, "print last N lines and exit (don't follow)")
	tailCmd.Flags().Bool("follow-rotate", false, "follow through log rotations (continue when file is renamed/removed)")
	tailCmd.Flags().Bool("only-profane", false, "only show lines that were redacted")
	tailCmd.Flags().Bool("no-color", false, "disable colored output")

	rootCmd.AddCommand(tailCmd)
}

func runTail(cmd *cobra.Command, args []string) error {
	filePath := args[0]
	lines, _ := cmd.Flags().GetInt("lines")
	noFollow, _ := cmd.Flags().GetBool("no-follow")
	followRotate, _ := cmd.Flags().GetBool("follow-rotate")
	onlyProfane, _ := cmd.Flags().GetBool("only-profane")
	noColor, _ := cmd.Flags().GetBool("no-color")

	if _, err := os.Stat(filePath); err != nil {
		return fmt.Errorf("file does not exist: %s", filePath)
	}

	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	e, err := newEngine(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	format := output.ParseFormat(viper.GetString("format"))
	writer := output.New(out, format)

	colorMode := output.ColorAuto
	if noColor {
		colorMode = output.ColorNever
	}
	colorize := output.ShouldColorize(colorMode, out)

	outputFunc := func(l tail.Line) error {
		switch format {
		case output.FormatJSON:
			return writer.WriteJSON(output.Record{Source: filePath, Line: l.Number, Result: l.Result})
		case output.FormatTable:
			return writer.WriteRecords([]output.Record{{Source: filePath, Line: l.Number, Result: l.Result}})
		default:
			_, err := fmt.Fprintln(out, output.FormatResult(l.Result, colorize))
			return err
		}
	}

	tailer := tail.New(tail.Options{
		FilePath:     filePath,
		Lines:        lines,
		Follow:       !noFollow,
		FollowRotate: followRotate,
		OnlyProfane:  onlyProfane,
		Inspect:      e.inspect,
		OutputFunc:   outputFunc,
		Logger:       e.logger,
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- tailer.Run(ctx)
	}()

	select {
	case <-sigChan:
		cancel()
		<-errChan
		return nil
	case err := <-errChan:
		if err != nil && !errors.Is(err, tail.ErrRotated) {
			return err
		}
		return nil
	}
}

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/bimmerbailey/bleep/internal/config"
	"github.com/bimmerbailey/bleep/internal/filter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "bleep",
	Short: "A profanity detection and redaction tool",
	Long: `Bleep finds profane words in text and masks them.

It matches a configurable dictionary with wildcard terms, honours
exceptions and minimum lengths, and can ask a local LLM whether a hit
is really offensive before masking it.

Examples:
  echo "what the hell" | bleep redact
  bleep redact --keep-ends --placeholder '#' comments.txt
  bleep check --exception hell 'docs/**/*.md'
  bleep tail --only-profane /var/log/chat.log
  bleep stats --top 5 chat.log`,
}

// Execute is called by main.main(). It runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	defaults := filter.DefaultOptions()
	flags := rootCmd.PersistentFlags()

	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.bleep.yaml)")
	flags.StringP("format", "f", "text", "output format (text, json, table)")
	flags.BoolP("verbose", "v", false, "enable verbose output")

	flags.String("placeholder", defaults.Placeholder, "string repeated to build masks")
	flags.Bool("case-sensitive", defaults.CaseSensitive, "match dictionary terms case-sensitively")
	flags.Bool("whole-words", defaults.WholeWordsOnly, "only match whole words")
	flags.Bool("partial", defaults.ReplacePartialWords, "match terms inside longer words")
	flags.Bool("keep-ends", defaults.KeepFirstAndLastChar, "keep the first and last character of each match")
	flags.Bool("punctuation", defaults.IncludePunctuation, "keep leading or trailing punctuation visible in masks")
	flags.Int("min-length", defaults.MinimumWordLength, "leave matches shorter than this untouched")
	flags.StringSlice("exception", nil, "word that is never redacted (repeatable)")
	flags.StringSlice("word", nil, "extra bad word for this run (repeatable, '*' is a wildcard)")
	flags.String("dictionary", "", "word list file replacing the built-in dictionary (.txt, .json, .yaml)")
	flags.Bool("judge", false, "ask the configured LLM before redacting each match")

	bind := map[string]string{
		"format":                          "format",
		"verbose":                         "verbose",
		"dictionary":                      "dictionary",
		"llm.enabled":                     "judge",
		"filter.placeholder":              "placeholder",
		"filter.case_sensitive":           "case-sensitive",
		"filter.whole_words_only":         "whole-words",
		"filter.replace_partial_words":    "partial",
		"filter.keep_first_and_last_char": "keep-ends",
		"filter.include_punctuation":      "punctuation",
		"filter.minimum_word_length":      "min-length",
		"filter.exceptions":               "exception",
		"filter.custom_bad_words":         "word",
	}
	for key, name := range bind {
		_ = viper.BindPFlag(key, flags.Lookup(name))
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding home directory:", err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".bleep")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("BLEEP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	config.SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

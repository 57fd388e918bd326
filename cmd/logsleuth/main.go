// Copyright: This file is part of logsleuth, released under https://github.com/korrel8r/logsleuth/blob/main/LICENSE

// Command logsleuth analyzes JSONL log files with an unknown schema.
package main

import (
	"fmt"
	"os"

	"github.com/korrel8r/logsleuth/internal/pkg/build"
	"github.com/korrel8r/logsleuth/internal/pkg/logging"
	"github.com/korrel8r/logsleuth/internal/pkg/must"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "logsleuth",
		Short: "Infer schemas, correlate and summarize JSONL logs",
		Long: `Analyze JSONL log files with an unknown schema.

Source files are found under the --root directory, and named by their path relative to it.
Files ending in .gz or .zst are decompressed.`,
		Version: build.Version,
	}
	log = logging.Log()

	// Global Flags
	configFlag *string
	outputFlag *string
	verbose    *int
	rootFlag   *string
	panicOnErr *bool
)

func init() {
	panicOnErr = rootCmd.PersistentFlags().Bool("panic", false, "panic on error instead of exit code 1")
	outputFlag = rootCmd.PersistentFlags().StringP("output", "o", "yaml", "Output format: json, json-pretty or yaml")
	verbose = rootCmd.PersistentFlags().IntP("verbose", "v", 0, "Verbosity for logging")
	configFlag = rootCmd.PersistentFlags().StringP("config", "c", os.Getenv("LOGSLEUTH_CONFIG"), "Configuration file or URL, default from env LOGSLEUTH_CONFIG")
	rootFlag = rootCmd.PersistentFlags().String("root", "", "Directory containing source files, overrides the configuration")

	cobra.OnInitialize(func() { logging.Init(*verbose) }) // After flags are parsed
}

func main() {
	// Code in this package panics with an error to exit.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintln(os.Stderr, r)
			if *panicOnErr {
				panic(r)
			}
			os.Exit(1)
		}
		os.Exit(0)
	}()
	must.Must(rootCmd.Execute())
}

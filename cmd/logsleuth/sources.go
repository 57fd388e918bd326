// Copyright: This file is part of logsleuth, released under https://github.com/korrel8r/logsleuth/blob/main/LICENSE

package main

import (
	"context"
	"fmt"

	"github.com/korrel8r/logsleuth/internal/pkg/must"
	"github.com/korrel8r/logsleuth/pkg/analyzer"
	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources [PATTERN]",
	Short: "List source files matching PATTERN, or the configured pattern.",
	Long: `List source files matching PATTERN, or the configured pattern.
A PATTERN starting with "**/" matches files at any depth under the root.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		req := analyzer.SourcesRequest{}
		if len(args) > 0 {
			req.Pattern = args[0]
		}
		r := must.Must1(newAnalyzer().Sources(context.Background(), req))
		if *namesOnly {
			for _, s := range r.Sources {
				fmt.Println(s.Name)
			}
			return
		}
		printResult(r)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats [PATTERN]",
	Short: "Count records and show the time range of each source matching PATTERN.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		req := analyzer.StatsRequest{}
		if len(args) > 0 {
			req.Pattern = args[0]
		}
		r, err := newAnalyzer().Stats(context.Background(), req)
		if r != nil {
			printResult(r)
		}
		must.Must(err)
	},
}

var namesOnly *bool

func init() {
	rootCmd.AddCommand(sourcesCmd, statsCmd)
	namesOnly = sourcesCmd.Flags().Bool("names", false, "Print only source names, one per line")
}

// Copyright: This file is part of logsleuth, released under https://github.com/korrel8r/logsleuth/blob/main/LICENSE

package main

import (
	"context"

	"github.com/korrel8r/logsleuth/internal/pkg/must"
	"github.com/korrel8r/logsleuth/pkg/analyzer"
	"github.com/spf13/cobra"
)

var patternsCmd = &cobra.Command{
	Use:   "patterns SOURCE",
	Short: "Summarize the fields of a source, with optional grouping, hourly timeline and error analysis.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		req := analyzer.PatternRequest{
			Source:          args[0],
			GroupBy:         *groupBy,
			IncludeTimeline: *timeline,
			AnalyzeErrors:   *analyzeErrors,
			ErrorFields:     *errorFields,
			TimestampField:  *patternsTimestamp,
		}
		printResult(must.Must1(newAnalyzer().AnalyzePatterns(context.Background(), req)))
	},
}

var (
	groupBy           *string
	timeline          *bool
	analyzeErrors     *bool
	errorFields       *[]string
	patternsTimestamp *string
)

func init() {
	rootCmd.AddCommand(patternsCmd)
	f := patternsCmd.Flags()
	groupBy = f.StringP("group-by", "g", "", "Count records by the value of this field path")
	timeline = f.Bool("timeline", false, "Include an hourly timeline")
	analyzeErrors = f.Bool("errors", false, "Include error analysis")
	errorFields = f.StringSlice("error-field", nil, "Error field paths, tested in order")
	patternsTimestamp = f.String("timestamp-field", "", "Field path of record timestamps")
}

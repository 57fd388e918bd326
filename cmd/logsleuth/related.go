// Copyright: This file is part of logsleuth, released under https://github.com/korrel8r/logsleuth/blob/main/LICENSE

package main

import (
	"context"
	"time"

	"github.com/korrel8r/logsleuth/internal/pkg/must"
	"github.com/korrel8r/logsleuth/pkg/analyzer"
	"github.com/spf13/cobra"
)

var relatedCmd = &cobra.Command{
	Use:   "related SOURCE ID",
	Short: "Find records related to ID: direct matches, records nearby and records close in time.",
	Long: `Find records related to ID.

Records with a correlation field containing ID are direct matches.
Records within --context records of a direct match are context.
Records with a timestamp within --time-window of a direct match are time related.
Flags that are not set use the configuration.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		req := analyzer.RelatedRequest{
			Source:            args[0],
			ID:                args[1],
			CorrelationFields: *relatedFields,
			TimestampField:    *relatedTimestamp,
			MaxResults:        *maxResults,
			Fields:            *selectFields,
		}
		if cmd.Flags().Changed("context") {
			req.ContextWindow = contextWindow
		}
		if cmd.Flags().Changed("time-window") {
			minutes := timeWindow.Minutes()
			req.TimeWindowMinutes = &minutes
		}
		printResult(must.Must1(newAnalyzer().FindRelated(context.Background(), req)))
	},
}

var (
	relatedFields    *[]string
	relatedTimestamp *string
	contextWindow    *int
	timeWindow       *time.Duration
	maxResults       *int
	selectFields     *[]string
)

func init() {
	rootCmd.AddCommand(relatedCmd)
	f := relatedCmd.Flags()
	relatedFields = f.StringSliceP("field", "f", nil, "Correlation field paths to search for ID")
	relatedTimestamp = f.String("timestamp-field", "", "Field path of record timestamps")
	contextWindow = f.IntP("context", "C", 0, "Number of records before and after a match to include")
	timeWindow = f.DurationP("time-window", "t", 0, "Include records with timestamps within this duration of a match")
	maxResults = f.Int("max", 0, "Maximum number of records to return, 0 for the configured limit")
	selectFields = f.StringSlice("select", nil, "Only include these field paths in returned records")
}

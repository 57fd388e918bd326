// Copyright: This file is part of logsleuth, released under https://github.com/korrel8r/logsleuth/blob/main/LICENSE

package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/korrel8r/logsleuth/internal/pkg/must"
	"github.com/korrel8r/logsleuth/pkg/analyzer"
	"github.com/spf13/cobra"
)

var fieldCmd = &cobra.Command{
	Use:   "field SOURCE LINE PATH",
	Short: "Print the value of a field path in the record on LINE of SOURCE.",
	Long: `Print the value of a field path in the record on LINE of SOURCE.
PATH is dot-separated, for example http.status or items.0.id.
PATH may also be one of @timestamp, @level, @message or @event to use the configured field.`,
	Args: cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		line, err := strconv.Atoi(args[1])
		must.Must(err, "invalid line number %q", args[1])
		r := must.Must1(newAnalyzer().ResolveField(context.Background(), analyzer.FieldRequest{Source: args[0], Line: line, Path: args[2]}))
		if !r.Present {
			must.Must(fmt.Errorf("field %v not present on line %v", r.Field, r.Line))
		}
		printResult(r.Value)
	},
}

func init() {
	rootCmd.AddCommand(fieldCmd)
}

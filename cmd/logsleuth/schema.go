// Copyright: This file is part of logsleuth, released under https://github.com/korrel8r/logsleuth/blob/main/LICENSE

package main

import (
	"context"

	"github.com/korrel8r/logsleuth/internal/pkg/must"
	"github.com/korrel8r/logsleuth/pkg/analyzer"
	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema SOURCE",
	Short: "Infer the schema of a source from a sample of its lines.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		r := must.Must1(newAnalyzer().InferSchema(context.Background(), analyzer.SchemaRequest{Source: args[0], SampleSize: *sampleSize}))
		if *suggestOnly {
			printResult(r.Schema)
			return
		}
		printResult(r)
	},
}

var (
	sampleSize  *int
	suggestOnly *bool
)

func init() {
	rootCmd.AddCommand(schemaCmd)
	sampleSize = schemaCmd.Flags().IntP("sample", "n", 0, "Number of lines to sample, 0 for the configured sample size")
	suggestOnly = schemaCmd.Flags().Bool("suggest", false, "Print only the suggested schema, usable as the schema section of a configuration file")
}

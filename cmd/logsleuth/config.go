// Copyright: This file is part of logsleuth, released under https://github.com/korrel8r/logsleuth/blob/main/LICENSE

package main

import (
	"os"

	"github.com/korrel8r/logsleuth/internal/pkg/must"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML, after defaults and includes are applied.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		must.Must(loadConfig().Save(os.Stdout))
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

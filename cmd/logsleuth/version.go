// Copyright: This file is part of logsleuth, released under https://github.com/korrel8r/logsleuth/blob/main/LICENSE

package main

import (
	"fmt"

	"github.com/korrel8r/logsleuth/internal/pkg/build"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of this command.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(build.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

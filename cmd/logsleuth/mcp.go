// Copyright: This file is part of logsleuth, released under https://github.com/korrel8r/logsleuth/blob/main/LICENSE

package main

import (
	"context"

	"github.com/korrel8r/logsleuth/internal/pkg/must"
	"github.com/korrel8r/logsleuth/pkg/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP stdio server",
	Long: `Run logsleuth as an MCP server communicating via stdin/stdout.
Allows logsleuth to be run as a sub-process by an MCP tool.
For a HTTP streaming server use the 'web' command with the '--mcp' flag.
`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		server := mcp.NewServer(newAnalyzer())
		log.Info("MCP server starting on stdio.")
		must.Must(server.ServeStdio(context.Background()))
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

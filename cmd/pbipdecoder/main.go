// Package main provides the entry point for the pbipdecoder CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/SanjuDataRepository/PBIP-Decoder/cmd/pbipdecoder/commands"
	"github.com/SanjuDataRepository/PBIP-Decoder/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	rootCmd := &cobra.Command{
		Use:   "pbipdecoder",
		Short: "Decode Power BI PBIP reports into page and bookmark tables",
		Long: `pbipdecoder reads the JSON definition of a Power BI report saved in
PBIP format and lists every visual and every bookmark with the columns,
filters, actions, and slicer selections they carry.

Commands:
  extract   Write the Pages and Bookmarks tables once
  watch     Rewrite the tables whenever the report changes
  mcp       Serve the decoder as MCP tools on stdio`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	commands.RegisterGlobalFlags(rootCmd)

	rootCmd.AddCommand(commands.NewExtractCommand())
	rootCmd.AddCommand(commands.NewWatchCommand())
	rootCmd.AddCommand(commands.NewMCPCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pbipdecoder %s\n", version.String())
		},
	}
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/raglab/docqa/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long: `Starts a Model Context Protocol (MCP) server on stdio, exposing document
Q&A tools for AI agents like Claude Code. Directories passed via --docs
are indexed before the server starts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		logger := newLogger(cfg)
		eng := newEngine(cfg, logger)

		docs, _ := cmd.Flags().GetStringSlice("docs")
		if len(docs) > 0 {
			if err := preloadDocs(cmd.Context(), eng, cfg, docs); err != nil {
				return err
			}
		}

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		st := eng.Status()
		fmt.Fprintf(os.Stderr, "docqa MCP server started on stdio (documents=%d, chunks=%d)\n",
			st.DocumentsLoaded, st.ChunksIndexed)

		srv := mcpserver.NewServer(eng, cfg)
		return srv.Serve()
	},
}

func init() {
	mcpCmd.Flags().StringSlice("docs", nil, "directories to index before serving")
	rootCmd.AddCommand(mcpCmd)
}

package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/raglab/docqa/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "docqa",
	Short: "Ask questions about your documents using retrieval-augmented generation",
	Long: `Docqa indexes PDF, HTML and Markdown documents into a semantic vector
store and answers natural language questions about them, citing the
passages each answer is grounded in. It runs as a web app, a one-shot
CLI, or an MCP server for AI agents.`,
}

func Execute() error {
	// Load .env file if it exists (for API keys).
	_ = godotenv.Load()

	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultConfigFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

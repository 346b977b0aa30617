package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/raglab/docqa/internal/chunker"
	"github.com/raglab/docqa/internal/llm"
	"github.com/raglab/docqa/internal/parse"
	"github.com/raglab/docqa/internal/walker"
)

var costCmd = &cobra.Command{
	Use:   "cost [dir]",
	Short: "Estimate API costs for indexing a document directory",
	Long: `Performs a dry run that parses and chunks every supported document under
the directory, then estimates the embedding and per-query API costs
without making any calls.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCost,
}

func init() {
	rootCmd.AddCommand(costCmd)
}

// embeddingPricePerM maps embedding models to USD per 1M tokens. Ollama
// models run locally and are absent on purpose.
var embeddingPricePerM = map[string]float64{
	"text-embedding-3-small": 0.02,
	"text-embedding-3-large": 0.13,
	"text-embedding-ada-002": 0.10,
}

func runCost(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	rootDir := "."
	if len(args) == 1 {
		rootDir = args[0]
	}

	files, err := walker.Walk(walker.WalkerConfig{
		RootDir:     rootDir,
		Include:     cfg.Include,
		Exclude:     cfg.Exclude,
		MaxFileSize: int64(cfg.MaxFileSizeMB) << 20,
	})
	if err != nil {
		return fmt.Errorf("walking %s: %w", rootDir, err)
	}
	if len(files) == 0 {
		fmt.Println("No supported documents found.")
		return nil
	}

	// Parse and chunk locally, exactly as ingestion would.
	var parsed, failed, chunks, tokens int
	for _, f := range files {
		data, err := os.ReadFile(f.Path)
		if err != nil {
			failed++
			continue
		}
		sections, err := parse.File(f.RelPath, data)
		if err != nil {
			failed++
			continue
		}
		parsed++
		for _, sec := range sections {
			text := chunker.Normalize(sec.Text)
			if text == "" {
				continue
			}
			for _, piece := range chunker.Split(text, cfg.ChunkTokens, cfg.OverlapTokens) {
				chunks++
				tokens += llm.EstimateTokens(piece)
			}
		}
	}

	fmt.Println("Cost Estimate")
	fmt.Println("=============")
	fmt.Printf("  Documents found:     %d\n", len(files))
	fmt.Printf("  Parsed:              %d (%d failed)\n", parsed, failed)
	fmt.Printf("  Chunks:              %d\n", chunks)
	fmt.Printf("  Estimated tokens:    %d\n", tokens)
	fmt.Println()

	fmt.Println("  Embedding cost (one-time indexing):")
	models := make([]string, 0, len(embeddingPricePerM))
	for model := range embeddingPricePerM {
		models = append(models, model)
	}
	sort.Strings(models)
	for _, model := range models {
		marker := " "
		if model == cfg.EmbeddingModel {
			marker = "*"
		}
		fmt.Printf("  %s %-24s ~$%.4f\n", marker, model, float64(tokens)/1_000_000*embeddingPricePerM[model])
	}
	marker := " "
	if _, priced := embeddingPricePerM[cfg.EmbeddingModel]; !priced {
		marker = "*"
	}
	fmt.Printf("  %s %-24s free (local)\n", marker, "ollama/*")
	fmt.Println()

	// A query embeds the question, then sends the retrieved context plus
	// the question to the chat model.
	queryInput := cfg.MaxContextChars/4 + 100
	queryCost := llm.EstimateCost(cfg.LLMModel, queryInput, cfg.MaxAnswerTokens)
	fmt.Printf("  Per-query estimate (%s):\n", cfg.LLMModel)
	if queryCost > 0 {
		fmt.Printf("    ~%d input + %d output tokens  ~$%.4f\n", queryInput, cfg.MaxAnswerTokens, queryCost)
	} else {
		fmt.Printf("    %s is not in the price table; likely free (local)\n", cfg.LLMModel)
	}
	fmt.Println()
	fmt.Println("  * = current configuration")

	return nil
}

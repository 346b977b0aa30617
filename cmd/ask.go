package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/raglab/docqa/internal/engine"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a one-shot question about your documents",
	Long: `Indexes the directories given via --docs, asks a single question and
prints the answer with the passages it is grounded in.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringSlice("docs", nil, "directories to index before asking")
	askCmd.Flags().String("mode", "documents", "answer mode: documents, chatgpt, compare")
	askCmd.Flags().Int("k", 0, "number of passages to retrieve (0 = config default)")
	askCmd.Flags().Bool("json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]

	docs, _ := cmd.Flags().GetStringSlice("docs")
	modeStr, _ := cmd.Flags().GetString("mode")
	topK, _ := cmd.Flags().GetInt("k")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	mode := engine.Mode(modeStr)
	switch mode {
	case engine.ModeDocuments, engine.ModeChatGPT, engine.ModeCompare:
	default:
		return fmt.Errorf("unknown mode %q: must be documents, chatgpt or compare", modeStr)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	eng := newEngine(cfg, logger)

	if len(docs) > 0 {
		if err := preloadDocs(cmd.Context(), eng, cfg, docs); err != nil {
			return err
		}
	}

	ans, err := eng.Query(cmd.Context(), question, mode, topK)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printAnswerJSON(ans)
	}

	printAnswer(ans)
	return nil
}

type askSourceJSON struct {
	Rank      int     `json:"rank"`
	Relevance float64 `json:"relevance"`
	Citation  string  `json:"citation"`
	Preview   string  `json:"preview"`
}

type askAnswerJSON struct {
	Question        string          `json:"question"`
	Mode            string          `json:"mode"`
	DocumentsAnswer string          `json:"documents_answer,omitempty"`
	ChatGPTAnswer   string          `json:"chatgpt_answer,omitempty"`
	Sources         []askSourceJSON `json:"sources,omitempty"`
}

func printAnswerJSON(ans *engine.Answer) error {
	out := askAnswerJSON{
		Question:        ans.Question,
		Mode:            string(ans.Mode),
		DocumentsAnswer: ans.DocumentsAnswer,
		ChatGPTAnswer:   ans.ChatGPTAnswer,
	}
	for i, src := range ans.Sources {
		out.Sources = append(out.Sources, askSourceJSON{
			Rank:      i + 1,
			Relevance: float64(src.Relevance),
			Citation:  src.Meta.Citation(),
			Preview:   src.Preview,
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printAnswer(ans *engine.Answer) {
	if ans.DocumentsAnswer != "" {
		if ans.Mode == engine.ModeCompare {
			fmt.Println("From your documents:")
		}
		fmt.Println(ans.DocumentsAnswer)
	}
	if ans.ChatGPTAnswer != "" {
		if ans.Mode == engine.ModeCompare {
			fmt.Println("\nChatGPT (no documents):")
		}
		fmt.Println(ans.ChatGPTAnswer)
	}

	if len(ans.Sources) == 0 {
		return
	}
	fmt.Println("\nSources:")
	for i, src := range ans.Sources {
		fmt.Printf("  %d. [%.1f%%] %s\n", i+1, src.Relevance*100, src.Meta.Citation())
	}
}

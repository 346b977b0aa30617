package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// DefaultConfigFile is where the wizard saves its output and where the
// CLI looks first.
const DefaultConfigFile = "docqa.yaml"

// embeddingChoices lists the selectable embedding models per provider
// family. Ollama users get the local models first.
func embeddingChoices(provider ProviderType) []string {
	openai := []string{
		"text-embedding-3-small",
		"text-embedding-3-large",
		"text-embedding-ada-002",
	}
	ollama := []string{
		"ollama/nomic-embed-text",
		"ollama/mxbai-embed-large",
		"ollama/all-minilm",
	}
	if provider == ProviderOllama {
		return append(ollama, openai...)
	}
	return append(openai, ollama...)
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to docqa.yaml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to docqa! Let's configure your document assistant.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. LLM provider.
	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{"openai", "anthropic", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.LLMProvider = ProviderType(providerStr)

	// 2. Chat model.
	modelPrompt := promptui.Prompt{
		Label:   "Chat model",
		Default: DefaultModelFor(cfg.LLMProvider),
	}
	cfg.LLMModel, err = modelPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}

	// 3. Embedding model.
	embeddingPrompt := promptui.Select{
		Label: "Select embedding model",
		Items: embeddingChoices(cfg.LLMProvider),
	}
	_, cfg.EmbeddingModel, err = embeddingPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("embedding selection: %w", err)
	}

	// 4. Vector store backend.
	storePrompt := promptui.Select{
		Label: "Select vector store",
		Items: []string{
			"memory  — built-in in-process index",
			"chromem — embedded chromem-go database",
		},
	}
	storeIdx, _, err := storePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("store selection: %w", err)
	}
	cfg.StoreBackend = []StoreType{StoreMemory, StoreChromem}[storeIdx]

	// 5. Chunk size.
	chunkPrompt := promptui.Prompt{
		Label:   "Chunk size in tokens (50-1000)",
		Default: strconv.Itoa(cfg.ChunkTokens),
		Validate: func(s string) error {
			_, err := strconv.Atoi(s)
			return err
		},
	}
	chunkStr, err := chunkPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("chunk size: %w", err)
	}
	cfg.ChunkTokens, _ = strconv.Atoi(chunkStr)

	// 6. Include patterns.
	includePrompt := promptui.Prompt{
		Label:   "Include patterns (comma-separated globs)",
		Default: strings.Join(DefaultIncludes, ","),
	}
	includeStr, err := includePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("include patterns: %w", err)
	}
	cfg.Include = splitAndTrim(includeStr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Check for API key. Embeddings may need OpenAI even when the chat
	// provider does not.
	notify := map[string]bool{}
	if envVar := APIKeyEnvVar(cfg.LLMProvider); envVar != "" {
		notify[envVar] = true
	}
	if !strings.HasPrefix(cfg.EmbeddingModel, "ollama/") {
		notify["OPENAI_API_KEY"] = true
	}
	for envVar := range notify {
		if os.Getenv(envVar) == "" {
			fmt.Printf("\nNote: Set %s in your environment before running docqa.\n", envVar)
		}
	}

	if err := cfg.Save(DefaultConfigFile); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", DefaultConfigFile)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace,
// dropping empty tokens.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}

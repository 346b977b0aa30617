package llm

// price is USD per 1M tokens.
type price struct {
	in, out float64
}

// pricing covers the hosted models docqa is commonly configured with.
// Local Ollama models cost nothing and are deliberately absent.
var pricing = map[string]price{
	"gpt-4o":        {in: 2.50, out: 10.00},
	"gpt-4o-mini":   {in: 0.15, out: 0.60},
	"gpt-3.5-turbo": {in: 0.50, out: 1.50},

	"claude-sonnet-4-5-20250929": {in: 3.00, out: 15.00},
	"claude-haiku-4-5-20251001":  {in: 0.80, out: 4.00},
}

// EstimateCost returns the estimated USD cost of one call, or 0 for
// models without a price entry.
func EstimateCost(model string, inputTokens, outputTokens int) float64 {
	p, ok := pricing[model]
	if !ok {
		return 0
	}
	const million = 1_000_000
	return float64(inputTokens)*p.in/million + float64(outputTokens)*p.out/million
}

// EstimateTokens approximates the token count of text at four bytes
// per token, counting non-empty text as at least one token.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	if n := len(text) / 4; n > 0 {
		return n
	}
	return 1
}

package embeddings

import (
	"context"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

// openaiBatch is the most texts sent per embeddings API call.
const openaiBatch = 100

// OpenAIEmbedder calls OpenAI's embeddings API. The API key is read
// from OPENAI_API_KEY on every request, so a runtime key update takes
// effect without rebuilding the embedder or the index bound to it.
type OpenAIEmbedder struct {
	model string
	dims  int
}

func NewOpenAIEmbedder(model string, dims int) *OpenAIEmbedder {
	return &OpenAIEmbedder{model: model, dims: dims}
}

func (e *OpenAIEmbedder) Name() string    { return e.model }
func (e *OpenAIEmbedder) Dimensions() int { return e.dims }

func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	client := openai.NewClient(os.Getenv("OPENAI_API_KEY"))
	vecs := make([][]float32, 0, len(texts))

	for start := 0; start < len(texts); start += openaiBatch {
		end := min(start+openaiBatch, len(texts))
		batch := texts[start:end]

		resp, err := client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: batch,
			Model: openai.EmbeddingModel(e.model),
		})
		if err != nil {
			return nil, fmt.Errorf("openai embedding request failed: %w", err)
		}
		if len(resp.Data) != len(batch) {
			return nil, fmt.Errorf("openai returned %d embeddings, expected %d", len(resp.Data), len(batch))
		}
		for _, d := range resp.Data {
			vecs = append(vecs, d.Embedding)
		}
	}
	return vecs, nil
}

package interfaces

import "context"

// Embedder converts text into a fixed-dimension vector
// (model.EmbeddingDimension). No retry happens inside implementations;
// retry policy belongs to the caller.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Generator produces a reply from the user message and retrieved context.
// The system instruction is fixed at construction time, never per request.
type Generator interface {
	Generate(ctx context.Context, message, contextText string) (string, error)
}

// Package llm adapts a gollem LLM client to the narrow embedding and
// generation capabilities the chat pipeline consumes. Implementations do not
// retry; transient failures surface to the orchestrator as-is.
package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"

	"github.com/celokit/celokit-assist/pkg/domain/interfaces"
	"github.com/celokit/celokit-assist/pkg/domain/model"
)

// Embedder generates fixed-dimension embedding vectors via the LLM client
type Embedder struct {
	client gollem.LLMClient
}

var _ interfaces.Embedder = &Embedder{}

// NewEmbedder creates an Embedder. A nil client is a configuration error,
// caught at startup rather than on the first request.
func NewEmbedder(client gollem.LLMClient) (*Embedder, error) {
	if client == nil {
		return nil, goerr.Wrap(model.ErrConfiguration, "LLM client is required for embedding")
	}
	return &Embedder{client: client}, nil
}

// Embed converts text to a model.EmbeddingDimension vector
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, goerr.Wrap(model.ErrInvalidInput, "cannot embed empty text")
	}

	embeddings, err := e.client.GenerateEmbedding(ctx, model.EmbeddingDimension, []string{text})
	if err != nil {
		return nil, classify(err, "failed to generate embedding")
	}
	if len(embeddings) == 0 || len(embeddings[0]) == 0 {
		return nil, goerr.Wrap(model.ErrInvalidInput, "no embedding returned")
	}

	result := make([]float32, len(embeddings[0]))
	for i, v := range embeddings[0] {
		result[i] = float32(v)
	}

	return result, nil
}

// Generator produces chat replies via the LLM client. The system instruction
// is fixed at construction time and establishes the assistant persona; it is
// never user-controllable per request.
type Generator struct {
	client       gollem.LLMClient
	systemPrompt string
}

var _ interfaces.Generator = &Generator{}

// GeneratorOption is a functional option for Generator configuration
type GeneratorOption func(*Generator)

// WithSystemPrompt overrides the default system instruction
func WithSystemPrompt(prompt string) GeneratorOption {
	return func(g *Generator) {
		g.systemPrompt = prompt
	}
}

// NewGenerator creates a Generator with the default CeloKit persona
func NewGenerator(client gollem.LLMClient, opts ...GeneratorOption) (*Generator, error) {
	if client == nil {
		return nil, goerr.Wrap(model.ErrConfiguration, "LLM client is required for generation")
	}

	g := &Generator{
		client:       client,
		systemPrompt: chatSystemPrompt,
	}
	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

// Generate answers the user message, grounding the model with the given
// context text when it is non-empty
func (g *Generator) Generate(ctx context.Context, message, contextText string) (string, error) {
	session, err := g.client.NewSession(ctx,
		gollem.WithSessionSystemPrompt(g.systemPrompt),
	)
	if err != nil {
		return "", classify(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(buildPrompt(message, contextText)))
	if err != nil {
		return "", classify(err, "failed to generate content")
	}
	if len(resp.Texts) == 0 || resp.Texts[0] == "" {
		return "", goerr.Wrap(model.ErrContentFiltered, "model returned no answer")
	}

	return resp.Texts[0], nil
}

// buildPrompt prepends retrieved context to the user message. The prompt
// shape follows the reference deployment: context block first, question last.
func buildPrompt(message, contextText string) string {
	if contextText == "" {
		return message
	}

	var sb strings.Builder
	sb.WriteString("Use the following Celo documentation excerpts to answer. ")
	sb.WriteString("If they do not cover the question, say so and answer from general Celo knowledge.\n\n")
	sb.WriteString("## Context\n\n")
	sb.WriteString(contextText)
	sb.WriteString("\n\n## Question\n\n")
	sb.WriteString(message)
	return sb.String()
}

// classify maps provider errors onto the pipeline failure taxonomy. The
// original error text is preserved as a value for diagnosis.
func classify(err error, msg string) error {
	sentinel := model.ErrUpstreamUnavailable

	lower := strings.ToLower(err.Error())
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		sentinel = model.ErrUpstreamUnavailable
	case strings.Contains(lower, "429"),
		strings.Contains(lower, "rate limit"),
		strings.Contains(lower, "quota"),
		strings.Contains(lower, "resource exhausted"):
		sentinel = model.ErrRateLimited
	case strings.Contains(lower, "safety"),
		strings.Contains(lower, "blocked"):
		sentinel = model.ErrContentFiltered
	}

	return goerr.Wrap(sentinel, msg, goerr.V("cause", err.Error()))
}

package usecase

import (
	"context"
	_ "embed"
	"encoding/json"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/celokit/celokit-assist/pkg/domain/model"
	"github.com/celokit/celokit-assist/pkg/utils/logging"
)

//go:embed data/celo_knowledge.json
var builtinCorpusJSON []byte

const (
	// seedChunkSize and seedChunkOverlap control how seed document content is
	// split before embedding, in runes
	seedChunkSize    = 512
	seedChunkOverlap = 100
)

// SeedDocument is one source document of the knowledge corpus before
// chunking and embedding
type SeedDocument struct {
	Topic   string `json:"topic"`
	Content string `json:"content"`
	Source  string `json:"source,omitempty"`
	DocType string `json:"type,omitempty"`
}

// BuiltinCorpus returns the embedded Celo knowledge base
func BuiltinCorpus() ([]SeedDocument, error) {
	var docs []SeedDocument
	if err := json.Unmarshal(builtinCorpusJSON, &docs); err != nil {
		return nil, goerr.Wrap(err, "failed to parse builtin corpus")
	}
	return docs, nil
}

// ParseCorpus parses a user-supplied corpus file
func ParseCorpus(data []byte) ([]SeedDocument, error) {
	var docs []SeedDocument
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, goerr.Wrap(err, "failed to parse corpus file")
	}
	return docs, nil
}

// SeedUseCase loads documents into the knowledge collection
type SeedUseCase struct {
	uc *UseCases
}

func newSeedUseCase(uc *UseCases) *SeedUseCase {
	return &SeedUseCase{uc: uc}
}

// Seed splits each document into overlapping chunks, embeds every chunk, and
// inserts the resulting knowledge documents. Returns the number of chunks
// inserted.
func (s *SeedUseCase) Seed(ctx context.Context, docs []SeedDocument) (int, error) {
	logger := logging.From(ctx)

	inserted := 0
	for _, doc := range docs {
		source := doc.Source
		if source == "" {
			source = "builtin"
		}
		docType := doc.DocType
		if docType == "" {
			docType = "knowledge"
		}

		chunks := splitText(doc.Content, seedChunkSize, seedChunkOverlap)
		for _, chunk := range chunks {
			embedCtx, cancel := context.WithTimeout(ctx, s.uc.callTimeout)
			vector, err := s.uc.embedder.Embed(embedCtx, chunk)
			cancel()
			if err != nil {
				return inserted, goerr.Wrap(err, "failed to embed chunk",
					goerr.V("topic", doc.Topic),
				)
			}

			insertCtx, cancel := context.WithTimeout(ctx, s.uc.callTimeout)
			_, err = s.uc.repo.Knowledge().Insert(insertCtx, &model.KnowledgeDocument{
				Text:      chunk,
				Topic:     doc.Topic,
				Source:    source,
				DocType:   docType,
				Embedding: vector,
			})
			cancel()
			if err != nil {
				return inserted, goerr.Wrap(err, "failed to insert chunk",
					goerr.V("topic", doc.Topic),
				)
			}

			inserted++
		}

		logger.Info("seeded document", "topic", doc.Topic, "chunks", len(chunks))
	}

	return inserted, nil
}

// splitText cuts text into rune windows of at most size runes, each window
// overlapping the previous by overlap runes. Whitespace-only chunks are
// dropped.
func splitText(text string, size, overlap int) []string {
	if size <= 0 {
		return nil
	}
	if overlap >= size {
		overlap = size - 1
	}

	runes := []rune(strings.TrimSpace(text))
	if len(runes) == 0 {
		return nil
	}

	step := size - overlap
	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}

		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end == len(runes) {
			break
		}
	}

	return chunks
}

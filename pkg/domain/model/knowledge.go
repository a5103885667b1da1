package model

import (
	"time"

	"github.com/google/uuid"
)

// EmbeddingDimension is the dimension of the embedding vector
// Gemini text-embedding-004 uses 768 dimensions
const EmbeddingDimension = 768

// KnowledgeID is a UUID-based identifier for KnowledgeDocument
type KnowledgeID string

// NewKnowledgeID generates a new UUID v4 KnowledgeID
func NewKnowledgeID() KnowledgeID {
	return KnowledgeID(uuid.New().String())
}

// KnowledgeDocument is one chunk of the Celo knowledge collection: a text
// payload plus its embedding and free-form provenance metadata. The chat
// pipeline only reads these; the seed command writes them.
type KnowledgeDocument struct {
	ID        KnowledgeID
	Text      string // chunk content as shown to the model
	Topic     string // e.g. "Celo Network Overview"
	Source    string // e.g. "builtin", a URL, or a file path
	DocType   string // e.g. "knowledge", "code_example", "documentation"
	Embedding []float32
	CreatedAt time.Time
}

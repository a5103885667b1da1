package interfaces

import (
	"context"

	"github.com/celokit/celokit-assist/pkg/domain/model"
)

// Repository provides access to the two logical collections of the system
type Repository interface {
	Chat() ChatRepository
	Knowledge() KnowledgeRepository
	Close() error
}

// ChatRepository defines persistence for chat history records. The collection
// is append-only from this service's perspective.
type ChatRepository interface {
	// Insert persists a chat message. The stored payload must already be
	// codec-encoded by the caller; repositories store it verbatim.
	Insert(ctx context.Context, msg *model.ChatMessage) error

	// List retrieves stored messages ordered by CreatedAt descending, up to
	// limit records. An empty chatID lists across all conversations.
	List(ctx context.Context, chatID model.ChatID, limit int) ([]*model.ChatMessage, error)
}

// KnowledgeRepository defines the vector store capability over the knowledge
// collection: generic document insert plus nearest-neighbor search.
type KnowledgeRepository interface {
	// Insert stores a knowledge document and returns its ID
	Insert(ctx context.Context, doc *model.KnowledgeDocument) (model.KnowledgeID, error)

	// FindByEmbedding returns up to limit documents ranked by similarity to
	// the query vector. An empty store yields an empty slice, not an error.
	// Tie order among equally ranked documents is backend-defined.
	FindByEmbedding(ctx context.Context, embedding []float32, limit int) ([]*model.KnowledgeDocument, error)
}

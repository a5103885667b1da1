package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/celokit/celokit-assist/pkg/domain/interfaces"
	"github.com/celokit/celokit-assist/pkg/domain/model"
)

func runKnowledgeRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Insert assigns ID and CreatedAt", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		doc := &model.KnowledgeDocument{
			Text:      "Celo Mainnet uses chain ID 42220",
			Topic:     "Celo Network Overview",
			Source:    "builtin",
			DocType:   "knowledge",
			Embedding: []float32{0.1, 0.2, 0.3},
		}

		id, err := repo.Knowledge().Insert(ctx, doc)
		if err != nil {
			t.Fatalf("failed to insert knowledge document: %v", err)
		}
		if id == "" {
			t.Error("expected non-empty ID")
		}
		if doc.CreatedAt.IsZero() {
			t.Error("expected non-zero CreatedAt")
		}
	})

	t.Run("Insert preserves provided ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		customID := model.KnowledgeID(fmt.Sprintf("custom-%d", time.Now().UnixNano()))
		doc := &model.KnowledgeDocument{
			ID:        customID,
			Text:      "cUSD mainnet address",
			Topic:     "Celo Token Economics",
			Source:    "builtin",
			Embedding: []float32{0.5, 0.5, 0.5},
		}

		id, err := repo.Knowledge().Insert(ctx, doc)
		if err != nil {
			t.Fatalf("failed to insert knowledge document: %v", err)
		}
		if id != customID {
			t.Errorf("expected ID %s, got %s", customID, id)
		}
	})

	t.Run("FindByEmbedding on empty store returns empty slice", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		docs, err := repo.Knowledge().FindByEmbedding(ctx, []float32{1, 0, 0}, 5)
		if err != nil {
			t.Fatalf("failed to search empty store: %v", err)
		}
		if len(docs) != 0 {
			t.Errorf("expected empty result, got %d documents", len(docs))
		}
	})

	t.Run("FindByEmbedding ranks by similarity", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		seeds := []struct {
			text      string
			embedding []float32
		}{
			{"exact direction", []float32{1, 0, 0}},
			{"close direction", []float32{0.9, 0.1, 0}},
			{"orthogonal", []float32{0, 1, 0}},
		}
		for _, s := range seeds {
			if _, err := repo.Knowledge().Insert(ctx, &model.KnowledgeDocument{
				Text:      s.text,
				Topic:     "test",
				Source:    "test",
				Embedding: s.embedding,
			}); err != nil {
				t.Fatalf("failed to insert knowledge document: %v", err)
			}
		}

		docs, err := repo.Knowledge().FindByEmbedding(ctx, []float32{1, 0, 0}, 2)
		if err != nil {
			t.Fatalf("failed to search knowledge: %v", err)
		}
		if len(docs) != 2 {
			t.Fatalf("expected 2 documents, got %d", len(docs))
		}
		// The top two must be the aligned vectors; exact order between them
		// is asserted because their scores differ
		if docs[0].Text != "exact direction" {
			t.Errorf("expected best match 'exact direction', got %q", docs[0].Text)
		}
		if docs[1].Text != "close direction" {
			t.Errorf("expected second match 'close direction', got %q", docs[1].Text)
		}
	})

	t.Run("FindByEmbedding rejects non-positive limit", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		if _, err := repo.Knowledge().FindByEmbedding(ctx, []float32{1, 0, 0}, 0); err == nil {
			t.Error("expected error for limit 0")
		}
	})

	t.Run("FindByEmbedding skips documents without embedding", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		if _, err := repo.Knowledge().Insert(ctx, &model.KnowledgeDocument{
			Text:   "no embedding yet",
			Topic:  "test",
			Source: "test",
		}); err != nil {
			t.Fatalf("failed to insert knowledge document: %v", err)
		}

		docs, err := repo.Knowledge().FindByEmbedding(ctx, []float32{1, 0, 0}, 5)
		if err != nil {
			t.Fatalf("failed to search knowledge: %v", err)
		}
		for _, d := range docs {
			if len(d.Embedding) == 0 {
				t.Error("documents without embedding must not be returned")
			}
		}
	})
}

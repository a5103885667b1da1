package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/celokit/celokit-assist/pkg/domain/model"
)

type knowledgeRepository struct {
	mu   sync.RWMutex
	docs map[model.KnowledgeID]*model.KnowledgeDocument
}

func newKnowledgeRepository() *knowledgeRepository {
	return &knowledgeRepository{
		docs: make(map[model.KnowledgeID]*model.KnowledgeDocument),
	}
}

// copyKnowledgeDocument creates a deep copy of a knowledge document
func copyKnowledgeDocument(k *model.KnowledgeDocument) *model.KnowledgeDocument {
	copied := *k
	if k.Embedding != nil {
		copied.Embedding = make([]float32, len(k.Embedding))
		copy(copied.Embedding, k.Embedding)
	}
	return &copied
}

func (r *knowledgeRepository) Insert(ctx context.Context, doc *model.KnowledgeDocument) (model.KnowledgeID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if doc.ID == "" {
		doc.ID = model.NewKnowledgeID()
	}
	doc.CreatedAt = time.Now().UTC()

	r.docs[doc.ID] = copyKnowledgeDocument(doc)
	return doc.ID, nil
}

// FindByEmbedding ranks documents by dot product against the query vector,
// the same metric the Firestore backend's index uses. Documents without an
// embedding are skipped.
func (r *knowledgeRepository) FindByEmbedding(ctx context.Context, embedding []float32, limit int) ([]*model.KnowledgeDocument, error) {
	if limit <= 0 {
		return nil, goerr.New("limit must be positive", goerr.V("limit", limit))
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	type scored struct {
		doc   *model.KnowledgeDocument
		score float64
	}

	candidates := make([]scored, 0, len(r.docs))
	for _, d := range r.docs {
		if len(d.Embedding) == 0 {
			continue
		}
		candidates = append(candidates, scored{
			doc:   copyKnowledgeDocument(d),
			score: dotProduct(embedding, d.Embedding),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if limit > len(candidates) {
		limit = len(candidates)
	}

	result := make([]*model.KnowledgeDocument, limit)
	for i := 0; i < limit; i++ {
		result[i] = candidates[i].doc
	}

	return result, nil
}

func dotProduct(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

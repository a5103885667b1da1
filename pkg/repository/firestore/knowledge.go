package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"

	"github.com/celokit/celokit-assist/pkg/domain/model"
)

// knowledgeDoc is the Firestore document representation of
// model.KnowledgeDocument. Embedding is stored as firestore.Vector32 so that
// FindNearest vector search works.
type knowledgeDoc struct {
	ID        string             `firestore:"ID"`
	Text      string             `firestore:"Text"`
	Topic     string             `firestore:"Topic"`
	Source    string             `firestore:"Source"`
	DocType   string             `firestore:"DocType"`
	Embedding firestore.Vector32 `firestore:"Embedding,omitempty"`
	CreatedAt time.Time          `firestore:"CreatedAt"`
}

func toKnowledgeDoc(k *model.KnowledgeDocument) *knowledgeDoc {
	doc := &knowledgeDoc{
		ID:        string(k.ID),
		Text:      k.Text,
		Topic:     k.Topic,
		Source:    k.Source,
		DocType:   k.DocType,
		CreatedAt: k.CreatedAt,
	}
	if len(k.Embedding) > 0 {
		doc.Embedding = firestore.Vector32(k.Embedding)
	}
	return doc
}

func fromKnowledgeDoc(d *knowledgeDoc) *model.KnowledgeDocument {
	k := &model.KnowledgeDocument{
		ID:        model.KnowledgeID(d.ID),
		Text:      d.Text,
		Topic:     d.Topic,
		Source:    d.Source,
		DocType:   d.DocType,
		CreatedAt: d.CreatedAt,
	}
	if len(d.Embedding) > 0 {
		k.Embedding = []float32(d.Embedding)
	}
	return k
}

type knowledgeRepository struct {
	client     *firestore.Client
	collection string
}

func newKnowledgeRepository(client *firestore.Client, collection string) *knowledgeRepository {
	return &knowledgeRepository{
		client:     client,
		collection: collection,
	}
}

func (r *knowledgeRepository) documents() *firestore.CollectionRef {
	return r.client.Collection(r.collection)
}

func (r *knowledgeRepository) Insert(ctx context.Context, doc *model.KnowledgeDocument) (model.KnowledgeID, error) {
	if doc.ID == "" {
		doc.ID = model.NewKnowledgeID()
	}
	doc.CreatedAt = time.Now().UTC()

	docRef := r.documents().Doc(string(doc.ID))
	if _, err := docRef.Set(ctx, toKnowledgeDoc(doc)); err != nil {
		return "", mapStoreError(err, "failed to insert knowledge document")
	}

	return doc.ID, nil
}

// FindByEmbedding runs nearest-neighbor search with the dot-product metric,
// matching the metric the knowledge collection is indexed with.
func (r *knowledgeRepository) FindByEmbedding(ctx context.Context, embedding []float32, limit int) ([]*model.KnowledgeDocument, error) {
	if limit <= 0 {
		return nil, goerr.New("limit must be positive", goerr.V("limit", limit))
	}

	vq := r.documents().FindNearest("Embedding",
		firestore.Vector32(embedding), limit, firestore.DistanceMeasureDotProduct, nil)

	iter := vq.Documents(ctx)
	defer iter.Stop()

	docs := make([]*model.KnowledgeDocument, 0, limit)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, mapStoreError(err, "failed to iterate vector search results")
		}

		var d knowledgeDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal knowledge document")
		}

		docs = append(docs, fromKnowledgeDoc(&d))
	}

	return docs, nil
}

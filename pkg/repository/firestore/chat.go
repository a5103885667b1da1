package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"

	"github.com/celokit/celokit-assist/pkg/domain/model"
	"github.com/celokit/celokit-assist/pkg/domain/types"
)

// chatDoc is the Firestore document representation of model.ChatMessage
type chatDoc struct {
	Message      string    `firestore:"Message"`
	ChatID       string    `firestore:"ChatID"`
	Type         string    `firestore:"Type"`
	IsCompressed bool      `firestore:"IsCompressed"`
	WasTruncated bool      `firestore:"WasTruncated"`
	Context      string    `firestore:"Context,omitempty"`
	CreatedAt    time.Time `firestore:"CreatedAt"`
}

func toChatDoc(m *model.ChatMessage) *chatDoc {
	return &chatDoc{
		Message:      m.Message,
		ChatID:       m.ChatID.String(),
		Type:         m.Type.String(),
		IsCompressed: m.IsCompressed,
		WasTruncated: m.WasTruncated,
		Context:      m.Context.String(),
		CreatedAt:    m.CreatedAt,
	}
}

func fromChatDoc(d *chatDoc) (*model.ChatMessage, error) {
	msgType, err := types.ParseMessageType(d.Type)
	if err != nil {
		return nil, goerr.Wrap(err, "chat record has unknown type", goerr.V("chat_id", d.ChatID))
	}

	return &model.ChatMessage{
		Message:      d.Message,
		ChatID:       model.ChatID(d.ChatID),
		Type:         msgType,
		IsCompressed: d.IsCompressed,
		WasTruncated: d.WasTruncated,
		Context:      types.ContextFlag(d.Context),
		CreatedAt:    d.CreatedAt,
	}, nil
}

type chatRepository struct {
	client     *firestore.Client
	collection string
}

func newChatRepository(client *firestore.Client, collection string) *chatRepository {
	return &chatRepository{
		client:     client,
		collection: collection,
	}
}

func (r *chatRepository) messages() *firestore.CollectionRef {
	return r.client.Collection(r.collection)
}

func (r *chatRepository) Insert(ctx context.Context, msg *model.ChatMessage) error {
	msg.CreatedAt = time.Now().UTC()

	docRef := r.messages().NewDoc()
	if _, err := docRef.Set(ctx, toChatDoc(msg)); err != nil {
		return mapStoreError(err, "failed to insert chat message")
	}

	return nil
}

func (r *chatRepository) List(ctx context.Context, chatID model.ChatID, limit int) ([]*model.ChatMessage, error) {
	if limit <= 0 {
		return nil, goerr.New("limit must be positive", goerr.V("limit", limit))
	}

	query := r.messages().Query
	if chatID != "" {
		query = query.Where("ChatID", "==", chatID.String())
	}
	query = query.OrderBy("CreatedAt", firestore.Desc).Limit(limit)

	iter := query.Documents(ctx)
	defer iter.Stop()

	messages := make([]*model.ChatMessage, 0, limit)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, mapStoreError(err, "failed to iterate chat messages")
		}

		var d chatDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal chat message")
		}

		msg, err := fromChatDoc(&d)
		if err != nil {
			return nil, err
		}

		messages = append(messages, msg)
	}

	return messages, nil
}

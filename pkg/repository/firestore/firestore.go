package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"

	"github.com/celokit/celokit-assist/pkg/domain/interfaces"
)

const (
	// DefaultChatCollection and DefaultKnowledgeCollection are the collection
	// names used when no override flag is given. Index migration must target
	// the same names.
	DefaultChatCollection      = "celokit_chats"
	DefaultKnowledgeCollection = "celo_knowledge"
)

type Firestore struct {
	client    *firestore.Client
	chat      *chatRepository
	knowledge *knowledgeRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithChatCollection overrides the chat history collection name
func WithChatCollection(name string) Option {
	return func(f *Firestore) {
		f.chat.collection = name
	}
}

// WithKnowledgeCollection overrides the knowledge collection name
func WithKnowledgeCollection(name string) Option {
	return func(f *Firestore) {
		f.knowledge.collection = name
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID == "" {
		client, err = firestore.NewClient(ctx, projectID)
	} else {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID),
		)
	}

	f := &Firestore{
		client:    client,
		chat:      newChatRepository(client, DefaultChatCollection),
		knowledge: newKnowledgeRepository(client, DefaultKnowledgeCollection),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Chat() interfaces.ChatRepository {
	return f.chat
}

func (f *Firestore) Knowledge() interfaces.KnowledgeRepository {
	return f.knowledge
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

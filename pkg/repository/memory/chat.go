package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/celokit/celokit-assist/pkg/domain/model"
)

// storedChat pairs a record with its insertion sequence so listings stay
// deterministic when two records share a timestamp
type storedChat struct {
	seq int64
	msg *model.ChatMessage
}

type chatRepository struct {
	mu       sync.RWMutex
	nextSeq  int64
	messages []storedChat
}

func newChatRepository() *chatRepository {
	return &chatRepository{}
}

// copyChatMessage creates a copy so callers never share storage pointers
func copyChatMessage(m *model.ChatMessage) *model.ChatMessage {
	copied := *m
	return &copied
}

func (r *chatRepository) Insert(ctx context.Context, msg *model.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg.CreatedAt = time.Now().UTC()
	r.messages = append(r.messages, storedChat{seq: r.nextSeq, msg: copyChatMessage(msg)})
	r.nextSeq++
	return nil
}

func (r *chatRepository) List(ctx context.Context, chatID model.ChatID, limit int) ([]*model.ChatMessage, error) {
	if limit <= 0 {
		return nil, goerr.New("limit must be positive", goerr.V("limit", limit))
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]storedChat, 0, limit)
	for _, s := range r.messages {
		if chatID != "" && s.msg.ChatID != chatID {
			continue
		}
		matched = append(matched, s)
	}

	// Newest first; insertion order breaks same-timestamp ties
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].msg.CreatedAt.Equal(matched[j].msg.CreatedAt) {
			return matched[i].seq > matched[j].seq
		}
		return matched[i].msg.CreatedAt.After(matched[j].msg.CreatedAt)
	})

	if len(matched) > limit {
		matched = matched[:limit]
	}

	result := make([]*model.ChatMessage, len(matched))
	for i, s := range matched {
		result[i] = copyChatMessage(s.msg)
	}

	return result, nil
}

// Package memory is an in-process repository backend for development and
// tests. It mirrors the Firestore backend's contract, including ranked
// vector search, without external dependencies.
package memory

import (
	"github.com/celokit/celokit-assist/pkg/domain/interfaces"
)

type Memory struct {
	chat      *chatRepository
	knowledge *knowledgeRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		chat:      newChatRepository(),
		knowledge: newKnowledgeRepository(),
	}
}

func (m *Memory) Chat() interfaces.ChatRepository {
	return m.chat
}

func (m *Memory) Knowledge() interfaces.KnowledgeRepository {
	return m.knowledge
}

func (m *Memory) Close() error {
	return nil
}

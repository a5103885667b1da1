package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/celokit/celokit-assist/pkg/domain/interfaces"
	"github.com/celokit/celokit-assist/pkg/domain/model"
	"github.com/celokit/celokit-assist/pkg/domain/types"
)

func runChatRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Insert sets CreatedAt", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		msg := &model.ChatMessage{
			Message: "how do I connect a wallet?",
			ChatID:  model.ChatID(fmt.Sprintf("chat-%d", time.Now().UnixNano())),
			Type:    types.MessageTypeUser,
		}

		if err := repo.Chat().Insert(ctx, msg); err != nil {
			t.Fatalf("failed to insert chat message: %v", err)
		}
		if msg.CreatedAt.IsZero() {
			t.Error("expected non-zero CreatedAt after insert")
		}
	})

	t.Run("List filters by chatID and orders newest first", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		chatID := model.ChatID(fmt.Sprintf("chat-%d", time.Now().UnixNano()))
		otherID := model.ChatID(fmt.Sprintf("chat-other-%d", time.Now().UnixNano()))

		for i := 0; i < 3; i++ {
			msg := &model.ChatMessage{
				Message: fmt.Sprintf("message %d", i),
				ChatID:  chatID,
				Type:    types.MessageTypeUser,
			}
			if err := repo.Chat().Insert(ctx, msg); err != nil {
				t.Fatalf("failed to insert chat message: %v", err)
			}
			time.Sleep(5 * time.Millisecond)
		}
		if err := repo.Chat().Insert(ctx, &model.ChatMessage{
			Message: "unrelated",
			ChatID:  otherID,
			Type:    types.MessageTypeUser,
		}); err != nil {
			t.Fatalf("failed to insert chat message: %v", err)
		}

		listed, err := repo.Chat().List(ctx, chatID, 10)
		if err != nil {
			t.Fatalf("failed to list chat messages: %v", err)
		}
		if len(listed) != 3 {
			t.Fatalf("expected 3 messages, got %d", len(listed))
		}
		for _, m := range listed {
			if m.ChatID != chatID {
				t.Errorf("expected chatID %s, got %s", chatID, m.ChatID)
			}
		}
		for i := 1; i < len(listed); i++ {
			if listed[i].CreatedAt.After(listed[i-1].CreatedAt) {
				t.Error("expected newest-first ordering")
			}
		}
	})

	t.Run("List respects limit", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		chatID := model.ChatID(fmt.Sprintf("chat-%d", time.Now().UnixNano()))
		for i := 0; i < 5; i++ {
			if err := repo.Chat().Insert(ctx, &model.ChatMessage{
				Message: fmt.Sprintf("message %d", i),
				ChatID:  chatID,
				Type:    types.MessageTypeUser,
			}); err != nil {
				t.Fatalf("failed to insert chat message: %v", err)
			}
		}

		listed, err := repo.Chat().List(ctx, chatID, 2)
		if err != nil {
			t.Fatalf("failed to list chat messages: %v", err)
		}
		if len(listed) != 2 {
			t.Errorf("expected 2 messages, got %d", len(listed))
		}
	})

	t.Run("List rejects non-positive limit", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		if _, err := repo.Chat().List(ctx, "", 0); err == nil {
			t.Error("expected error for limit 0")
		}
	})

	t.Run("Insert preserves compression and context flags", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		chatID := model.ChatID(fmt.Sprintf("chat-%d", time.Now().UnixNano()))
		msg := &model.ChatMessage{
			Message:      "H4sIAAAAAAAA/w==",
			ChatID:       chatID,
			Type:         types.MessageTypeAI,
			IsCompressed: true,
			Context:      types.ContextAvailable,
		}
		if err := repo.Chat().Insert(ctx, msg); err != nil {
			t.Fatalf("failed to insert chat message: %v", err)
		}

		listed, err := repo.Chat().List(ctx, chatID, 1)
		if err != nil {
			t.Fatalf("failed to list chat messages: %v", err)
		}
		if len(listed) != 1 {
			t.Fatalf("expected 1 message, got %d", len(listed))
		}
		if !listed[0].IsCompressed {
			t.Error("expected IsCompressed to survive round-trip")
		}
		if listed[0].Context != types.ContextAvailable {
			t.Errorf("expected context flag %s, got %s", types.ContextAvailable, listed[0].Context)
		}
		if listed[0].Type != types.MessageTypeAI {
			t.Errorf("expected type %s, got %s", types.MessageTypeAI, listed[0].Type)
		}
	})
}

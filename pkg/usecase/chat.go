package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/celokit/celokit-assist/pkg/domain/model"
	"github.com/celokit/celokit-assist/pkg/domain/types"
	"github.com/celokit/celokit-assist/pkg/service/codec"
	"github.com/celokit/celokit-assist/pkg/utils/logging"
)

// TruncationWarning is returned to the client whenever the persisted copy of
// their message was shortened. Truncation is never silent.
const TruncationWarning = "Your message was truncated due to length limits"

// ChatRequest is one inbound user turn. The caller owns it; Send never
// mutates it.
type ChatRequest struct {
	Message string
	ChatID  model.ChatID
}

// ChatResponse is the structured result of one chat turn
type ChatResponse struct {
	Message    string
	ChatID     model.ChatID
	HasContext bool
	Warning    string
}

// HistoryEntry is one decoded chat history record. Error is set instead of
// Message when the stored payload could not be decoded.
type HistoryEntry struct {
	Message   string
	ChatID    model.ChatID
	Type      types.MessageType
	Context   types.ContextFlag
	CreatedAt time.Time
	Error     string
}

// ChatUseCase runs the retrieval-augmented chat pipeline
type ChatUseCase struct {
	uc *UseCases
}

func newChatUseCase(uc *UseCases) *ChatUseCase {
	return &ChatUseCase{uc: uc}
}

// Send runs one full chat turn: validate, truncate, persist the user message,
// embed, search, assemble context, generate, persist the reply. Steps are
// strictly sequential; any failure aborts the remainder without rolling back
// records already persisted.
//
// Two different copies of the message flow through the pipeline on purpose:
// the truncated copy is what gets persisted and embedded, the original
// untruncated text is what the model answers.
func (c *ChatUseCase) Send(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	logger := logging.From(ctx)

	if req == nil || req.Message == "" {
		return nil, goerr.Wrap(model.ErrNoMessage, "chat request without message")
	}

	chatID := req.ChatID
	if chatID == "" {
		chatID = model.NewChatID()
	}

	stored, wasTruncated := model.Truncate(req.Message)
	if wasTruncated {
		logger.Info("truncated oversized message",
			"chat_id", chatID,
			"original_len", len(req.Message),
		)
	}

	if err := c.persistMessage(ctx, &model.ChatMessage{
		ChatID:       chatID,
		Type:         types.MessageTypeUser,
		WasTruncated: wasTruncated,
	}, stored); err != nil {
		return nil, goerr.Wrap(err, "failed to persist user message", goerr.V("chat_id", chatID))
	}

	// Embedding input is the persisted copy so stored and searched text agree
	vector, err := c.embed(ctx, stored)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed message", goerr.V("chat_id", chatID))
	}

	docs, err := c.search(ctx, vector)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search knowledge", goerr.V("chat_id", chatID))
	}

	contextText := assembleContext(docs)
	logger.Info("retrieved context",
		"chat_id", chatID,
		"documents", len(docs),
		"has_context", contextText != "",
	)

	// Generation gets the original untruncated message
	answer, err := c.generate(ctx, req.Message, contextText)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate response", goerr.V("chat_id", chatID))
	}

	if err := c.persistMessage(ctx, &model.ChatMessage{
		ChatID:  chatID,
		Type:    types.MessageTypeAI,
		Context: types.ContextFlagOf(contextText),
	}, answer); err != nil {
		return nil, goerr.Wrap(err, "failed to persist AI response", goerr.V("chat_id", chatID))
	}

	resp := &ChatResponse{
		Message:    answer,
		ChatID:     chatID,
		HasContext: contextText != "",
	}
	if wasTruncated {
		resp.Warning = TruncationWarning
	}

	return resp, nil
}

// History lists decoded chat records, newest first. A record whose payload
// fails to decode becomes an entry with Error set; one corrupt record never
// fails the listing. A user message without a paired AI reply (generation
// failed after the persist) is returned as-is with no synthetic status.
func (c *ChatUseCase) History(ctx context.Context, chatID model.ChatID, limit int) ([]*HistoryEntry, error) {
	logger := logging.From(ctx)

	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	callCtx, cancel := context.WithTimeout(ctx, c.uc.callTimeout)
	defer cancel()

	records, err := c.uc.repo.Chat().List(callCtx, chatID, limit)
	if err != nil {
		return nil, goerr.Wrap(upstreamTimeout(err), "failed to list chat history", goerr.V("chat_id", chatID))
	}

	entries := make([]*HistoryEntry, 0, len(records))
	for _, rec := range records {
		entry := &HistoryEntry{
			ChatID:    rec.ChatID,
			Type:      rec.Type,
			Context:   rec.Context,
			CreatedAt: rec.CreatedAt,
		}

		text, err := codec.Decode(rec.Message, rec.IsCompressed)
		if err != nil {
			logger.Error("failed to decode chat record",
				"chat_id", rec.ChatID,
				"created_at", rec.CreatedAt,
				"error", err.Error(),
			)
			entry.Error = model.ErrCodec.Error()
		} else {
			entry.Message = text
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// persistMessage encodes the text through the codec and inserts the record
func (c *ChatUseCase) persistMessage(ctx context.Context, msg *model.ChatMessage, text string) error {
	payload, compressed, err := codec.Encode(text)
	if err != nil {
		return err
	}
	msg.Message = payload
	msg.IsCompressed = compressed

	callCtx, cancel := context.WithTimeout(ctx, c.uc.callTimeout)
	defer cancel()

	if err := c.uc.repo.Chat().Insert(callCtx, msg); err != nil {
		return upstreamTimeout(err)
	}
	return nil
}

func (c *ChatUseCase) embed(ctx context.Context, text string) ([]float32, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.uc.callTimeout)
	defer cancel()

	vector, err := c.uc.embedder.Embed(callCtx, text)
	if err != nil {
		return nil, upstreamTimeout(err)
	}
	return vector, nil
}

func (c *ChatUseCase) search(ctx context.Context, vector []float32) ([]*model.KnowledgeDocument, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.uc.callTimeout)
	defer cancel()

	docs, err := c.uc.repo.Knowledge().FindByEmbedding(callCtx, vector, c.uc.searchLimit)
	if err != nil {
		return nil, upstreamTimeout(err)
	}
	return docs, nil
}

func (c *ChatUseCase) generate(ctx context.Context, message, contextText string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.uc.callTimeout)
	defer cancel()

	answer, err := c.uc.generator.Generate(callCtx, message, contextText)
	if err != nil {
		return "", upstreamTimeout(err)
	}
	return answer, nil
}

// upstreamTimeout maps a per-call deadline hit onto the upstream failure
// sentinel so callers can treat a hung dependency like an unavailable one.
// Errors the callee already classified pass through untouched.
func upstreamTimeout(err error) error {
	if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, model.ErrUpstreamUnavailable) {
		return goerr.Wrap(model.ErrUpstreamUnavailable, "upstream call timed out", goerr.V("cause", err.Error()))
	}
	return err
}

// assembleContext joins retrieved document texts in rank order. Pure; an
// empty retrieval yields an empty string, which downstream treats as
// "no context", not as an error.
func assembleContext(docs []*model.KnowledgeDocument) string {
	if len(docs) == 0 {
		return ""
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
	}
	return strings.Join(texts, "\n\n")
}

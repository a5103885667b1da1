package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/m-mizutani/goerr/v2"

	"github.com/celokit/celokit-assist/pkg/domain/model"
	"github.com/celokit/celokit-assist/pkg/usecase"
	"github.com/celokit/celokit-assist/pkg/utils/errutil"
	"github.com/celokit/celokit-assist/pkg/utils/safe"
)

type chatRequest struct {
	Message string `json:"message"`
	ChatID  string `json:"chatId,omitempty"`
}

type chatResponse struct {
	Message    string `json:"message"`
	ChatID     string `json:"chatId"`
	HasContext bool   `json:"hasContext"`
	Warning    string `json:"warning,omitempty"`
}

type historyEntry struct {
	Message   string `json:"message"`
	ChatID    string `json:"chatId"`
	Type      string `json:"type"`
	Context   string `json:"context,omitempty"`
	CreatedAt string `json:"createdAt"`
	Error     string `json:"error,omitempty"`
}

type historyResponse struct {
	Messages []historyEntry `json:"messages"`
	ChatID   string         `json:"chatId,omitempty"`
}

// handleChat runs one chat turn
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(ctx, w,
			goerr.Wrap(model.ErrNoMessage, "invalid request body", goerr.V("cause", err.Error())),
			http.StatusBadRequest, "No message provided")
		return
	}

	resp, err := s.chatUC.Send(ctx, &usecase.ChatRequest{
		Message: req.Message,
		ChatID:  model.ChatID(req.ChatID),
	})
	if err != nil {
		status, clientMsg := statusOf(err)
		errutil.HandleHTTP(ctx, w, err, status, clientMsg)
		return
	}

	writeJSON(w, r, http.StatusOK, &chatResponse{
		Message:    resp.Message,
		ChatID:     resp.ChatID.String(),
		HasContext: resp.HasContext,
		Warning:    resp.Warning,
	})
}

// handleChatProbe is the liveness/identity probe; no side effects
func (s *Server) handleChatProbe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{
		"message": "CeloKit AI Chat API",
	})
}

// handleHistory lists decoded chat history records
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	chatID := r.URL.Query().Get("chatId")
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			errutil.HandleHTTP(ctx, w,
				goerr.New("invalid limit parameter", goerr.V("limit", raw)),
				http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = parsed
	}

	entries, err := s.chatUC.History(ctx, model.ChatID(chatID), limit)
	if err != nil {
		status, clientMsg := statusOf(err)
		errutil.HandleHTTP(ctx, w, err, status, clientMsg)
		return
	}

	resp := historyResponse{
		Messages: make([]historyEntry, len(entries)),
		ChatID:   chatID,
	}
	for i, e := range entries {
		resp.Messages[i] = historyEntry{
			Message:   e.Message,
			ChatID:    e.ChatID.String(),
			Type:      e.Type.String(),
			Context:   e.Context.String(),
			CreatedAt: e.CreatedAt.Format("2006-01-02T15:04:05.000Z07:00"),
			Error:     e.Error,
		}
	}

	writeJSON(w, r, http.StatusOK, &resp)
}

// statusOf maps a pipeline failure to an HTTP status and the client-facing
// message. Clients can tell "fix your input" (4xx) from "retry later" (5xx
// with details) apart without parsing error internals.
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrNoMessage):
		return http.StatusBadRequest, "No message provided"
	case errors.Is(err, model.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge, "Message too large to process"
	default:
		return http.StatusInternalServerError, "Failed to process request"
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w,
			goerr.Wrap(err, "failed to marshal response"),
			http.StatusInternalServerError, "Failed to process request")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, data)
}

package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	httpctrl "github.com/celokit/celokit-assist/pkg/controller/http"
	"github.com/celokit/celokit-assist/pkg/domain/model"
	"github.com/celokit/celokit-assist/pkg/repository/memory"
	"github.com/celokit/celokit-assist/pkg/usecase"
)

type stubEmbedder struct {
	err error
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []float32{1, 0, 0}, nil
}

type stubGenerator struct {
	answer string
	err    error
}

func (s *stubGenerator) Generate(ctx context.Context, message, contextText string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.answer, nil
}

func newTestServer(t *testing.T, repo *memory.Memory, gen *stubGenerator, emb *stubEmbedder) *httpctrl.Server {
	t.Helper()
	if repo == nil {
		repo = memory.New()
	}
	if gen == nil {
		gen = &stubGenerator{answer: "Celo is carbon negative."}
	}
	if emb == nil {
		emb = &stubEmbedder{}
	}
	uc := usecase.New(repo, emb, gen)
	return httpctrl.New(uc.Chat)
}

func TestPostChat_OK(t *testing.T) {
	srv := newTestServer(t, nil, nil, nil)

	body := `{"message":"what is celo?","chatId":"abc"}`
	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	gt.Number(t, rec.Code).Equal(200)

	var resp struct {
		Message    string `json:"message"`
		ChatID     string `json:"chatId"`
		HasContext bool   `json:"hasContext"`
		Warning    string `json:"warning"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	gt.Value(t, resp.Message).Equal("Celo is carbon negative.")
	gt.Value(t, resp.ChatID).Equal("abc")
	gt.Bool(t, resp.HasContext).False()
	gt.Value(t, resp.Warning).Equal("")
}

func TestPostChat_NoMessage(t *testing.T) {
	repo := memory.New()
	srv := newTestServer(t, repo, nil, nil)

	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	gt.Number(t, rec.Code).Equal(400)

	var resp map[string]any
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	gt.Value(t, resp["error"]).Equal("No message provided")

	// Validation failures persist nothing
	records, err := repo.Chat().List(context.Background(), "", 10)
	gt.NoError(t, err)
	gt.Array(t, records).Length(0)
}

func TestPostChat_PayloadTooLarge(t *testing.T) {
	srv := newTestServer(t, nil, &stubGenerator{err: model.ErrPayloadTooLarge}, nil)

	body := `{"message":"hello"}`
	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	gt.Number(t, rec.Code).Equal(413)

	var resp map[string]any
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	gt.Value(t, resp["error"]).Equal("Message too large to process")
}

func TestPostChat_UpstreamFailure(t *testing.T) {
	srv := newTestServer(t, nil, &stubGenerator{err: model.ErrUpstreamUnavailable}, nil)

	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{"message":"hi"}`))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	gt.Number(t, rec.Code).Equal(500)

	var resp map[string]any
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	gt.Value(t, resp["error"]).Equal("Failed to process request")
	gt.Bool(t, resp["details"] != nil).True()
}

func TestPostChat_TruncationWarning(t *testing.T) {
	srv := newTestServer(t, nil, nil, nil)

	long := strings.Repeat("a", 9000)
	body, err := json.Marshal(map[string]string{"message": long, "chatId": "abc"})
	gt.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/chat", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	gt.Number(t, rec.Code).Equal(200)

	var resp struct {
		Warning string `json:"warning"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	gt.Bool(t, resp.Warning != "").True()
}

func TestPostChat_DefaultChatID(t *testing.T) {
	srv := newTestServer(t, nil, nil, nil)

	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{"message":"hi"}`))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	gt.Number(t, rec.Code).Equal(200)

	var resp struct {
		ChatID string `json:"chatId"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	gt.Bool(t, strings.HasPrefix(resp.ChatID, "chat-")).True()
}

func TestGetChat_Probe(t *testing.T) {
	srv := newTestServer(t, nil, nil, nil)

	req := httptest.NewRequest("GET", "/api/chat", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	gt.Number(t, rec.Code).Equal(200)

	var resp map[string]string
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	gt.Value(t, resp["message"]).Equal("CeloKit AI Chat API")
}

func TestGetHistory(t *testing.T) {
	repo := memory.New()
	srv := newTestServer(t, repo, nil, nil)

	// Run one chat turn to populate history
	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{"message":"hi","chatId":"abc"}`))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	gt.Number(t, rec.Code).Equal(200)

	req = httptest.NewRequest("GET", "/api/chat/history?chatId=abc", nil)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	gt.Number(t, rec.Code).Equal(200)

	var resp struct {
		Messages []struct {
			Message string `json:"message"`
			Type    string `json:"type"`
		} `json:"messages"`
		ChatID string `json:"chatId"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	gt.Value(t, resp.ChatID).Equal("abc")
	gt.Array(t, resp.Messages).Length(2)
	gt.Value(t, resp.Messages[0].Type).Equal("ai_response")
	gt.Value(t, resp.Messages[1].Type).Equal("user_message")
}

func TestGetHistory_InvalidLimit(t *testing.T) {
	srv := newTestServer(t, nil, nil, nil)

	req := httptest.NewRequest("GET", "/api/chat/history?limit=zero", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	gt.Number(t, rec.Code).Equal(400)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, nil, nil, nil)

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	gt.Number(t, rec.Code).Equal(200)
}

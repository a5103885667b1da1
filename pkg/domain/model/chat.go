package model

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/celokit/celokit-assist/pkg/domain/types"
)

const (
	// MaxMessageLength is the upper bound on the persisted copy of an inbound
	// message, counted in runes. Messages over this are truncated before
	// storage; the original text still goes to generation untouched.
	MaxMessageLength = 8000

	// TruncationMarker is appended to a truncated persisted copy
	TruncationMarker = "... [TRUNCATED]"

	// truncationReserve keeps room for the marker and some slack, so a
	// truncated copy stays well under MaxMessageLength
	truncationReserve = 100
)

// ChatID groups messages into a conversation
type ChatID string

// NewChatID generates a conversation ID for requests that do not carry one
func NewChatID() ChatID {
	return ChatID(fmt.Sprintf("chat-%d", time.Now().UnixMilli()))
}

// String returns the string representation of the chat ID
func (id ChatID) String() string {
	return string(id)
}

// ChatMessage is one persisted chat history record. Records are append-only:
// created once per user turn and once per generated reply, never mutated.
type ChatMessage struct {
	Message      string            // stored payload, possibly codec-compressed
	ChatID       ChatID            // conversation grouping
	Type         types.MessageType // user_message or ai_response
	IsCompressed bool              // true when Message holds a compressed payload
	WasTruncated bool              // true when the persisted copy was shortened
	Context      types.ContextFlag // set only on ai_response records
	CreatedAt    time.Time         // set at persistence time
}

// Truncate shortens a message for storage when it exceeds MaxMessageLength
// runes. It returns the persisted copy and whether truncation happened. The
// caller keeps the original for embedding-independent processing.
func Truncate(message string) (string, bool) {
	if utf8.RuneCountInString(message) <= MaxMessageLength {
		return message, false
	}

	keep := MaxMessageLength - truncationReserve
	runes := []rune(message)
	return string(runes[:keep]) + TruncationMarker, true
}

package types

import "fmt"

// MessageType represents the origin of a chat history record
type MessageType string

const (
	MessageTypeUser MessageType = "user_message"
	MessageTypeAI   MessageType = "ai_response"
)

// AllMessageTypes returns all valid message types
func AllMessageTypes() []MessageType {
	return []MessageType{
		MessageTypeUser,
		MessageTypeAI,
	}
}

// IsValid checks if the message type is valid
func (t MessageType) IsValid() bool {
	for _, v := range AllMessageTypes() {
		if t == v {
			return true
		}
	}
	return false
}

// String returns the string representation of the message type
func (t MessageType) String() string {
	return string(t)
}

// ParseMessageType parses a string into a MessageType
func ParseMessageType(s string) (MessageType, error) {
	t := MessageType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid message type: %s", s)
	}
	return t, nil
}

package types

// ContextFlag records whether retrieval produced grounding context for an
// AI response. It is empty on user messages.
type ContextFlag string

const (
	ContextAvailable ContextFlag = "context_available"
	ContextNone      ContextFlag = "no_context"
)

// IsValid checks if the context flag is valid
func (f ContextFlag) IsValid() bool {
	switch f {
	case ContextAvailable, ContextNone:
		return true
	default:
		return false
	}
}

// String returns the string representation of the context flag
func (f ContextFlag) String() string {
	return string(f)
}

// ContextFlagOf returns the flag matching the assembled context text
func ContextFlagOf(contextText string) ContextFlag {
	if contextText == "" {
		return ContextNone
	}
	return ContextAvailable
}

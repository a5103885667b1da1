package llm

import _ "embed"

//go:embed prompt/chat_system.md
var chatSystemPrompt string

package llm

// Export internal helpers for testing
var (
	BuildPrompt = buildPrompt
	Classify    = classify
)

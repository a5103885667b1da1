package usecase

// Export internal helpers for testing
var (
	AssembleContext = assembleContext
	SplitText       = splitText
)

package usecase

import (
	"time"

	"github.com/celokit/celokit-assist/pkg/domain/interfaces"
)

const (
	// DefaultSearchLimit is the number of knowledge documents retrieved per turn
	DefaultSearchLimit = 5

	// DefaultCallTimeout bounds every external call: embedding, search,
	// generation, persistence. A call over this fails the request instead of
	// hanging it.
	DefaultCallTimeout = 30 * time.Second

	// DefaultHistoryLimit is the record cap for history listings
	DefaultHistoryLimit = 50
)

type UseCases struct {
	repo        interfaces.Repository
	embedder    interfaces.Embedder
	generator   interfaces.Generator
	searchLimit int
	callTimeout time.Duration

	Chat *ChatUseCase
	Seed *SeedUseCase
}

type Option func(*UseCases)

// WithSearchLimit overrides the retrieval limit
func WithSearchLimit(limit int) Option {
	return func(uc *UseCases) {
		if limit > 0 {
			uc.searchLimit = limit
		}
	}
}

// WithCallTimeout overrides the per-call timeout for external services
func WithCallTimeout(d time.Duration) Option {
	return func(uc *UseCases) {
		if d > 0 {
			uc.callTimeout = d
		}
	}
}

func New(repo interfaces.Repository, embedder interfaces.Embedder, generator interfaces.Generator, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:        repo,
		embedder:    embedder,
		generator:   generator,
		searchLimit: DefaultSearchLimit,
		callTimeout: DefaultCallTimeout,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Chat = newChatUseCase(uc)
	uc.Seed = newSeedUseCase(uc)

	return uc
}

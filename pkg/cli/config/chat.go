package config

import (
	"time"

	"github.com/urfave/cli/v3"

	"github.com/celokit/celokit-assist/pkg/usecase"
)

// Chat holds CLI flags for chat pipeline tuning
type Chat struct {
	searchLimit int
	callTimeout time.Duration
}

// Flags returns CLI flags for chat pipeline configuration
func (c *Chat) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "search-limit",
			Usage:       "Maximum number of knowledge documents retrieved per query",
			Value:       usecase.DefaultSearchLimit,
			Sources:     cli.EnvVars("CELOKIT_SEARCH_LIMIT"),
			Destination: &c.searchLimit,
		},
		&cli.DurationFlag{
			Name:        "call-timeout",
			Usage:       "Timeout for each upstream call (embedding, search, generation)",
			Value:       usecase.DefaultCallTimeout,
			Sources:     cli.EnvVars("CELOKIT_CALL_TIMEOUT"),
			Destination: &c.callTimeout,
		},
	}
}

// Options returns use case options derived from the configured flags
func (c *Chat) Options() []usecase.Option {
	var opts []usecase.Option
	if c.searchLimit > 0 {
		opts = append(opts, usecase.WithSearchLimit(int(c.searchLimit)))
	}
	if c.callTimeout > 0 {
		opts = append(opts, usecase.WithCallTimeout(c.callTimeout))
	}
	return opts
}

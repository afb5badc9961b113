// Package advisor invokes the external recommendation generator and
// normalizes its response. The generator is an LLM agent whose output has
// shipped in two envelope shapes; on any failure the service degrades to a
// fixed set of placeholder recommendations rather than surfacing the error.
package advisor

import (
	"context"
	"log/slog"

	"github.com/JaimeStill/go-agents/pkg/agent"

	"github.com/mailward/mailward/internal/config"
	"github.com/mailward/mailward/pkg/formatting"
)

const prompt = `Review the recorded sender feedback and produce email security
recommendations. Respond with JSON: {"recommendations": ["..."], "reasoning": "..."}.`

// fallbackRecommendations are returned whenever the generator cannot be
// reached or parsed. Callers see a normal success either way.
var fallbackRecommendations = []string{
	"Review quarantined messages from new sender domains before releasing them.",
	"Confirm allow verdicts for senders that previously triggered PHI detection.",
	"Block senders with repeated user reports across multiple recipients.",
}

// Result is the normalized generator output.
type Result struct {
	Recommendations []string `json:"recommendations"`
	Reasoning       string   `json:"reasoning,omitempty"`
}

// envelope covers both response generations: fields inline, or the whole
// payload JSON-encoded inside body.
type envelope struct {
	Recommendations []string `json:"recommendations"`
	Reasoning       string   `json:"reasoning"`
	Body            string   `json:"body"`
}

// System defines the public contract for recommendation retrieval.
type System interface {
	Handler() *Handler
	Recommendations(ctx context.Context) (*Result, error)
}

type service struct {
	cfg    config.AdvisorConfig
	logger *slog.Logger
}

// New creates the advisor service implementing the System interface.
func New(cfg config.AdvisorConfig, logger *slog.Logger) System {
	return &service{
		cfg:    cfg,
		logger: logger.With("system", "advisor"),
	}
}

func (s *service) Handler() *Handler {
	return NewHandler(s, s.logger)
}

// Recommendations asks the generator for current guidance. Every failure
// path logs and returns the fallback set with a nil error.
func (s *service) Recommendations(ctx context.Context) (*Result, error) {
	a, err := agent.New(&s.cfg.Agent)
	if err != nil {
		s.logger.Warn("advisor agent unavailable", "error", err)
		return fallback(), nil
	}

	resp, err := a.Chat(ctx, prompt)
	if err != nil {
		s.logger.Warn("advisor chat failed", "error", err)
		return fallback(), nil
	}

	result, err := unwrap(resp.Content())
	if err != nil {
		s.logger.Warn("advisor response unparseable", "error", err)
		return fallback(), nil
	}

	return result, nil
}

// unwrap handles both envelope shapes: recommendations inline, or a
// stringified payload under body.
func unwrap(content string) (*Result, error) {
	outer, err := formatting.Parse[envelope](content)
	if err != nil {
		return nil, err
	}

	if len(outer.Recommendations) == 0 && outer.Body != "" {
		inner, err := formatting.Parse[envelope](outer.Body)
		if err != nil {
			return nil, err
		}
		outer = inner
	}

	if len(outer.Recommendations) == 0 {
		return fallback(), nil
	}

	return &Result{
		Recommendations: outer.Recommendations,
		Reasoning:       outer.Reasoning,
	}, nil
}

func fallback() *Result {
	return &Result{Recommendations: fallbackRecommendations}
}

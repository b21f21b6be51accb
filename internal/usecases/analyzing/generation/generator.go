// Package generation holds the pluggable insight-generation backends. The
// LLM-backed generator is selected only when both an API key and an endpoint
// are configured at process start; otherwise the deterministic mock serves
// transparently. Callers never observe which backend ran except via content.
package generation

import (
	"context"

	"github.com/ziaflow/marketing-lens/internal/config"
	"github.com/ziaflow/marketing-lens/internal/domain"
	"github.com/ziaflow/marketing-lens/pkg/log"
)

// Request is one generation call. Instructions select what the backend looks
// for; Payload carries the serialized metrics sample.
type Request struct {
	Instructions string
	Payload      string
	AnalysisType domain.AnalysisType
}

// Generator produces a JSON document of the shape
// {"insights":[{title,severity,description,action_item}]}.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// FromConfig selects the backend once at startup.
func FromConfig(cfg *config.Config) Generator {
	if cfg.OpenAI.APIKey != "" && cfg.OpenAI.Endpoint != "" {
		log.L.WithField("model", cfg.OpenAI.Model).Info("generation: using LLM backend")
		return NewOpenAI(cfg.OpenAI)
	}

	log.L.Warn("generation: LLM credentials not configured, using deterministic mock backend")
	return NewMock()
}

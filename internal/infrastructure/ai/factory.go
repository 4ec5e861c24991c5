// Package ai adapts external language-understanding services to the
// ports.LanguageProvider capability.
package ai

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Michael-Yan-wun/google-calendar-tool/internal/domain"
	"github.com/Michael-Yan-wun/google-calendar-tool/internal/ports"
)

type providerKind string

const (
	kindGemini providerKind = "gemini"
	kindOpenAI providerKind = "openai"
)

type Factory struct {
	httpClient *http.Client
}

func NewFactory() *Factory {
	return &Factory{
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (f *Factory) ForModel(model domain.ModelDefinition) (ports.LanguageProvider, error) {
	switch inferProviderKind(model) {
	case kindGemini:
		return newGeminiProvider(model, f.httpClient), nil
	case kindOpenAI:
		return newOpenAIProvider(model)
	default:
		return nil, fmt.Errorf("unsupported provider for model %s", model.Name)
	}
}

// IsGemini reports whether the model resolves to the Gemini API. Diagnostics
// use it to pick the right reachability probe.
func IsGemini(model domain.ModelDefinition) bool {
	return inferProviderKind(model) == kindGemini
}

// inferProviderKind decides how to talk to a model. Anything that is not
// recognizably Gemini is treated as OpenAI-compatible, which covers the
// OpenAI API itself and the many gateways speaking its dialect.
func inferProviderKind(model domain.ModelDefinition) providerKind {
	nameLower := strings.ToLower(model.Name + " " + model.ModelID)
	switch {
	case strings.Contains(model.Endpoint, "generativelanguage.googleapis.com"):
		return kindGemini
	case strings.Contains(nameLower, "gemini"):
		return kindGemini
	default:
		return kindOpenAI
	}
}

var _ ports.ProviderFactory = (*Factory)(nil)

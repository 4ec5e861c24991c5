// Package doctor runs environment diagnostics: configuration, credentials,
// and reachability of the language capability.
package doctor

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/Michael-Yan-wun/google-calendar-tool/internal/domain"
	"github.com/Michael-Yan-wun/google-calendar-tool/internal/infrastructure/ai"
	"github.com/Michael-Yan-wun/google-calendar-tool/internal/ports"
)

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider

	// HTTPClient is overridable for tests; defaults to a short-timeout client.
	HTTPClient *http.Client
}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Config file", fmt.Sprintf("loaded, format version %s", cfg.ConfigFormatVersion)))

	checks = append(checks, modelCheck(cfg))
	checks = append(checks, googleCheck(cfg.Google))
	checks = append(checks, languageKeyCheck(cfg.CandidateModels()))
	checks = append(checks, s.reachabilityCheck(ctx, cfg.CandidateModels()))

	return domain.HealthReport{Checks: checks}, nil
}

func modelCheck(cfg domain.Config) domain.HealthCheck {
	candidates := cfg.CandidateModels()
	if len(candidates) == 0 {
		return fail("Models", "no usable model configurations; check default_model and models in the config file")
	}
	return ok("Models", fmt.Sprintf("%d candidate configuration(s), primary %s", len(candidates), candidates[0].Name))
}

func googleCheck(settings domain.GoogleSettings) domain.HealthCheck {
	missing := []string{}
	if os.Getenv(settings.ClientIDEnvVar) == "" {
		missing = append(missing, settings.ClientIDEnvVar)
	}
	if os.Getenv(settings.ClientSecretEnvVar) == "" {
		missing = append(missing, settings.ClientSecretEnvVar)
	}
	if len(missing) > 0 {
		return warn("Google OAuth", fmt.Sprintf("missing %v; calendar access will stay unauthenticated", missing))
	}
	return ok("Google OAuth", "client credentials present")
}

func languageKeyCheck(models []domain.ModelDefinition) domain.HealthCheck {
	for _, model := range models {
		if envMissing(model.AuthEnvVar, "GEMINI_API_KEY") {
			return warn("API keys", fmt.Sprintf("no key for model %s (set %s)", model.Name, model.AuthEnvVar))
		}
	}
	return ok("API keys", "detected for configured models")
}

// reachabilityCheck lists the models on the primary configuration's
// endpoint, the cheapest call that exercises key and connectivity at once.
func (s *Service) reachabilityCheck(ctx context.Context, models []domain.ModelDefinition) domain.HealthCheck {
	if len(models) == 0 {
		return warn("Language capability", "skipped, no models configured")
	}
	primary := models[0]
	if !ai.IsGemini(primary) {
		return warn("Language capability", fmt.Sprintf("no reachability probe for model %s", primary.Name))
	}
	if envMissing(primary.AuthEnvVar, "GEMINI_API_KEY") {
		return warn("Language capability", "skipped, no API key")
	}

	client := s.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	names, err := ai.ListGeminiModels(ctx, client, primary)
	if err != nil {
		return fail("Language capability", fmt.Sprintf("model listing failed: %v", err))
	}
	return ok("Language capability", fmt.Sprintf("reachable, %d models visible", len(names)))
}

func envMissing(primary, fallback string) bool {
	if primary != "" && os.Getenv(primary) != "" {
		return false
	}
	if fallback != "" && os.Getenv(fallback) != "" {
		return false
	}
	return true
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}

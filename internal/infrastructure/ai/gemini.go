package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/Michael-Yan-wun/google-calendar-tool/internal/domain"
	"github.com/Michael-Yan-wun/google-calendar-tool/internal/ports"
)

const defaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta"

// geminiProvider talks to the Gemini generateContent REST API.
type geminiProvider struct {
	model      domain.ModelDefinition
	httpClient *http.Client
}

func newGeminiProvider(model domain.ModelDefinition, client *http.Client) ports.LanguageProvider {
	return &geminiProvider{model: model, httpClient: client}
}

func (p *geminiProvider) Name() string {
	return "gemini"
}

func (p *geminiProvider) Model() domain.ModelDefinition {
	return p.model
}

func (p *geminiProvider) Complete(ctx context.Context, prompt string) (string, error) {
	apiKey := resolveAuth(p.model.AuthEnvVar, "GEMINI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("missing API key: set %s or GEMINI_API_KEY", p.model.AuthEnvVar)
	}

	requestBody, err := buildGeminiRequest(p.model, prompt)
	if err != nil {
		return "", err
	}

	endpoint := valueOrDefault(p.model.Endpoint, defaultGeminiEndpoint)
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", strings.TrimRight(endpoint, "/"), p.model.ModelID, apiKey)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(requestBody))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("content-type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("gemini: %s", resp.Status)
	}

	var responseBody bytes.Buffer
	if _, err := responseBody.ReadFrom(resp.Body); err != nil {
		return "", err
	}

	return parseGeminiResponse(responseBody.Bytes())
}

func buildGeminiRequest(model domain.ModelDefinition, prompt string) ([]byte, error) {
	request := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
	}
	if model.MaxTokens > 0 {
		request["generationConfig"] = map[string]interface{}{
			"maxOutputTokens": model.MaxTokens,
		}
	}
	return json.Marshal(request)
}

func parseGeminiResponse(body []byte) (string, error) {
	var response struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.Unmarshal(body, &response); err != nil {
		return "", err
	}

	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: empty response")
	}
	return strings.TrimSpace(response.Candidates[0].Content.Parts[0].Text), nil
}

// ListGeminiModels queries the models endpoint and returns the available
// model names. Used by diagnostics.
func ListGeminiModels(ctx context.Context, client *http.Client, model domain.ModelDefinition) ([]string, error) {
	apiKey := resolveAuth(model.AuthEnvVar, "GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("missing API key: set %s or GEMINI_API_KEY", model.AuthEnvVar)
	}

	endpoint := valueOrDefault(model.Endpoint, defaultGeminiEndpoint)
	url := fmt.Sprintf("%s/models?key=%s", strings.TrimRight(endpoint, "/"), apiKey)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("gemini: %s", resp.Status)
	}

	var response struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(response.Models))
	for _, m := range response.Models {
		names = append(names, strings.TrimPrefix(m.Name, "models/"))
	}
	return names, nil
}

func resolveAuth(primary string, fallback string) string {
	if primary != "" {
		if value := os.Getenv(primary); value != "" {
			return value
		}
	}
	if fallback == "" {
		return ""
	}
	return os.Getenv(fallback)
}

func valueOrDefault(value string, def string) string {
	if value == "" {
		return def
	}
	return value
}

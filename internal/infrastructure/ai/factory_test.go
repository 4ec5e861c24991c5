package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Michael-Yan-wun/google-calendar-tool/internal/domain"
)

func TestInferProviderKind(t *testing.T) {
	cases := []struct {
		name  string
		model domain.ModelDefinition
		want  providerKind
	}{
		{
			name:  "gemini endpoint",
			model: domain.ModelDefinition{Name: "primary", Endpoint: "https://generativelanguage.googleapis.com/v1beta", ModelID: "some-model"},
			want:  kindGemini,
		},
		{
			name:  "gemini by model id",
			model: domain.ModelDefinition{Name: "fallback", ModelID: "gemini-1.5-flash"},
			want:  kindGemini,
		},
		{
			name:  "gemini by name",
			model: domain.ModelDefinition{Name: "gemini-pro", ModelID: "custom-id"},
			want:  kindGemini,
		},
		{
			name:  "openai by default",
			model: domain.ModelDefinition{Name: "gpt-4o", ModelID: "gpt-4o"},
			want:  kindOpenAI,
		},
		{
			name:  "openai-compatible gateway",
			model: domain.ModelDefinition{Name: "local", Endpoint: "http://localhost:8080/v1", ModelID: "llama3"},
			want:  kindOpenAI,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := inferProviderKind(tc.model); got != tc.want {
				t.Errorf("inferProviderKind() = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestGeminiComplete(t *testing.T) {
	t.Setenv("TEST_GEMINI_KEY", "secret")

	var gotPath string
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("content-type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"  {\"action\":\"list\"}  "}]}}]}`))
	}))
	defer server.Close()

	model := domain.ModelDefinition{
		Name:       "gemini-pro",
		Endpoint:   server.URL,
		AuthEnvVar: "TEST_GEMINI_KEY",
		ModelID:    "gemini-pro",
		MaxTokens:  512,
	}
	provider := newGeminiProvider(model, server.Client())

	got, err := provider.Complete(context.Background(), "what is on my calendar today")
	if err != nil {
		t.Fatalf("Complete() error: %v", err)
	}
	if got != `{"action":"list"}` {
		t.Errorf("Complete() = %q, want trimmed JSON", got)
	}
	if gotPath != "/models/gemini-pro:generateContent" {
		t.Errorf("request path = %s", gotPath)
	}
	if _, ok := gotBody["generationConfig"]; !ok {
		t.Error("expected generationConfig when max tokens is set")
	}
}

func TestGeminiCompleteServerError(t *testing.T) {
	t.Setenv("TEST_GEMINI_KEY", "secret")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	model := domain.ModelDefinition{Name: "gemini-pro", Endpoint: server.URL, AuthEnvVar: "TEST_GEMINI_KEY", ModelID: "gemini-pro"}
	provider := newGeminiProvider(model, server.Client())

	if _, err := provider.Complete(context.Background(), "hello"); err == nil {
		t.Fatal("expected error on 429 response")
	}
}

func TestGeminiCompleteMissingKey(t *testing.T) {
	t.Setenv("TEST_GEMINI_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	model := domain.ModelDefinition{Name: "gemini-pro", AuthEnvVar: "TEST_GEMINI_KEY", ModelID: "gemini-pro"}
	provider := newGeminiProvider(model, http.DefaultClient)

	if _, err := provider.Complete(context.Background(), "hello"); err == nil {
		t.Fatal("expected error when no API key is configured")
	}
}

func TestListGeminiModels(t *testing.T) {
	t.Setenv("TEST_GEMINI_KEY", "secret")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			t.Errorf("request path = %s", r.URL.Path)
		}
		w.Header().Set("content-type", "application/json")
		_, _ = w.Write([]byte(`{"models":[{"name":"models/gemini-pro"},{"name":"models/gemini-1.5-flash"}]}`))
	}))
	defer server.Close()

	model := domain.ModelDefinition{Name: "gemini-pro", Endpoint: server.URL, AuthEnvVar: "TEST_GEMINI_KEY", ModelID: "gemini-pro"}

	names, err := ListGeminiModels(context.Background(), server.Client(), model)
	if err != nil {
		t.Fatalf("ListGeminiModels() error: %v", err)
	}
	if len(names) != 2 || names[0] != "gemini-pro" || names[1] != "gemini-1.5-flash" {
		t.Errorf("ListGeminiModels() = %v", names)
	}
}

package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Decoding-DataScience/NutridecodeProd/config"
	"github.com/Decoding-DataScience/NutridecodeProd/utils"
)

func testImageURI() string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("fake-jpeg"))
}

func chatContentResponse(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	return string(b)
}

func newTestOpenAI(t *testing.T, handler http.HandlerFunc) (*OpenAIService, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	dispatcher, _ := newTestDispatcher(1_000_000)
	svc := NewOpenAIService(&config.Settings{
		OpenAIBaseURL: server.URL,
		OpenAIKey:     "test-key",
	}, dispatcher)
	return svc, server
}

func TestAnalyzeFoodLabelParsesResponse(t *testing.T) {
	labelJSON := `{
		"productName": "Hummus Chips",
		"ingredients": {"list": ["Chickpea flour (45%)", "Rapeseed oil (28%)"]},
		"allergens": {"declared": ["GLUTEN"], "mayContain": ["SESAME"]},
		"nutritionalInfo": {"per100g": {"calories": 454, "sugar": 3, "salt": 1.07}}
	}`

	var gotAuth string
	svc, _ := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")

		var req chatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Model != visionModel {
			t.Errorf("model = %q, want %q", req.Model, visionModel)
		}
		if req.Temperature != visionTemperature {
			t.Errorf("temperature = %v, want %v", req.Temperature, visionTemperature)
		}

		w.Write([]byte(chatContentResponse(labelJSON)))
	})

	result, err := svc.AnalyzeFoodLabel(context.Background(), testImageURI())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if result.ProductName != "Hummus Chips" {
		t.Errorf("productName = %q", result.ProductName)
	}
	if result.NutritionalInfo.Per100g.Calories != 454 {
		t.Errorf("calories = %v, want 454", result.NutritionalInfo.Per100g.Calories)
	}
	// Normalize must leave no nil slices behind.
	if result.Ingredients.Preservatives == nil || result.HealthClaims == nil {
		t.Error("expected absent list fields to be empty slices")
	}
	if result.Metadata.Model != visionModel || result.Metadata.QueryType != labelAnalysisQueryType {
		t.Errorf("metadata not attached: %+v", result.Metadata)
	}
}

func TestAnalyzeFoodLabelStripsFences(t *testing.T) {
	svc, _ := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatContentResponse("```json\n{\"productName\": \"Oat Bar\"}\n```")))
	})

	result, err := svc.AnalyzeFoodLabel(context.Background(), testImageURI())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ProductName != "Oat Bar" {
		t.Errorf("productName = %q, want Oat Bar", result.ProductName)
	}
}

func TestAnalyzeFoodLabelRejectsBadImage(t *testing.T) {
	svc, _ := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("remote API must not be called for an invalid image")
	})

	_, err := svc.AnalyzeFoodLabel(context.Background(), "https://example.com/not-a-data-uri")
	var ve *utils.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestAnalyzeFoodLabelEmptyContentIsParseError(t *testing.T) {
	svc, _ := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatContentResponse("  ")))
	})

	_, err := svc.AnalyzeFoodLabel(context.Background(), testImageURI())
	var pe *utils.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestAnalyzeFoodLabelAuthFailure(t *testing.T) {
	svc, _ := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "invalid api key"}`, http.StatusUnauthorized)
	})

	_, err := svc.AnalyzeFoodLabel(context.Background(), testImageURI())
	var se *utils.ServiceError
	if !errors.As(err, &se) || se.Kind != utils.ServiceAuth {
		t.Fatalf("expected auth ServiceError, got %v", err)
	}
}

func TestAnalyzeFoodLabelRetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	svc, _ := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, `{"error": "rate limit"}`, http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(chatContentResponse(`{"productName": "Retry Snack"}`)))
	})

	result, err := svc.AnalyzeFoodLabel(context.Background(), testImageURI())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("remote called %d times, want 2", calls.Load())
	}
	if result.ProductName != "Retry Snack" {
		t.Errorf("productName = %q", result.ProductName)
	}
}

func TestVerifyConnection(t *testing.T) {
	svc, _ := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Model != "gpt-3.5-turbo" || req.MaxTokens != 5 {
			t.Errorf("verify probe = model %q max_tokens %d", req.Model, req.MaxTokens)
		}
		w.Write([]byte(chatContentResponse("ok")))
	})

	if !svc.VerifyConnection(context.Background()) {
		t.Error("expected a healthy endpoint to verify")
	}
}

func TestVerifyConnectionFailure(t *testing.T) {
	svc, server := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {})
	server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if svc.VerifyConnection(ctx) {
		t.Error("expected a dead endpoint to fail verification")
	}
}

func TestChat(t *testing.T) {
	svc, _ := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Model != chatModel || req.MaxTokens != 150 {
			t.Errorf("chat request = model %q max_tokens %d", req.Model, req.MaxTokens)
		}
		sys, _ := req.Messages[0].Content.(string)
		if !strings.Contains(sys, "NutriDecode") {
			t.Errorf("system prompt missing persona: %q", sys)
		}
		w.Write([]byte(chatContentResponse("Oats are a whole grain.")))
	})

	reply, err := svc.Chat(context.Background(), "are oats healthy?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply == "" {
		t.Error("expected a reply")
	}
}

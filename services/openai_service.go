package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Decoding-DataScience/NutridecodeProd/config"
	"github.com/Decoding-DataScience/NutridecodeProd/models"
	"github.com/Decoding-DataScience/NutridecodeProd/utils"
)

const (
	visionModel       = "gpt-4-turbo"
	visionTemperature = 0.1
	chatModel         = "gpt-4"

	labelAnalysisQueryType = "food-label-analysis"
)

// labelSystemPrompt instructs the vision model to extract only what is
// explicitly printed on the label, in a fixed JSON shape.
const labelSystemPrompt = `You are a food label analysis expert. Analyze the food label image and extract ONLY information that is explicitly stated on the label. Be extremely precise and thorough in your analysis. Format the response as a JSON object with the following structure:
{
  "productName": "exact product name from label",
  "ingredients": {
    "list": ["all ingredients with exact percentages as shown (e.g., 'Rapeseed oil (78%)')"],
    "preservatives": ["identified preservatives with E-numbers and full names"],
    "additives": ["identified additives with full names"],
    "antioxidants": ["identified antioxidants with full chemical names"],
    "stabilizers": ["identified stabilizers"]
  },
  "allergens": {
    "declared": ["explicitly declared allergens in CAPS"],
    "mayContain": ["may contain warnings"]
  },
  "nutritionalInfo": {
    "servingSize": "stated serving size with exact measurements",
    "perServing": {"calories": number, "protein": number, "carbs": number, "fats": {"total": number, "saturated": number}, "sugar": number, "salt": number, "omega3": number},
    "per100g": {"calories": number, "protein": number, "carbs": number, "fats": {"total": number, "saturated": number}, "sugar": number, "salt": number, "omega3": number}
  },
  "healthClaims": ["all health-related claims exactly as written"],
  "packaging": {
    "materials": ["packaging materials with specifications"],
    "recyclingInfo": "complete recycling instructions",
    "sustainabilityClaims": ["all sustainability claims exactly as written"],
    "certifications": ["all certification marks and symbols shown"]
  },
  "storage": {
    "instructions": ["storage instructions exactly as written"],
    "bestBefore": "exact date format as shown"
  },
  "manufacturer": {
    "name": "company name",
    "address": "full address as shown",
    "contact": "contact information if provided"
  }
}
IMPORTANT:
1. Capture ALL ingredients with their exact percentages when shown
2. Identify and classify preservatives, additives, and antioxidants
3. Maintain exact wording and numerical values as shown on the label
4. Include all percentages, measurements, and units exactly as displayed
5. Capture all certification marks, symbols, and recycling information
6. Note any specific dietary certifications (e.g., vegetarian, vegan)
7. Extract all health claims and sustainability statements verbatim`

type OpenAIService struct {
	baseURL    string
	apiKey     string
	client     *http.Client
	dispatcher *Dispatcher
}

func NewOpenAIService(settings *config.Settings, dispatcher *Dispatcher) *OpenAIService {
	return &OpenAIService{
		baseURL:    settings.OpenAIBaseURL,
		apiKey:     settings.OpenAIKey,
		client:     &http.Client{Timeout: 60 * time.Second},
		dispatcher: dispatcher,
	}
}

// Wire types for the chat completions endpoint. Message content is
// either a plain string or a list of parts (text + image_url).
type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// completion POSTs one chat request and returns the first choice's
// content. Remote failures come back as classified ServiceErrors.
func (s *OpenAIService) completion(ctx context.Context, req chatRequest) (string, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return "", &utils.ServiceError{Kind: utils.ServiceTimeout, Err: err}
		}
		return "", &utils.ServiceError{Kind: utils.ServiceUnknown, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &utils.ServiceError{Kind: utils.ServiceUnknown, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	if resp.StatusCode != http.StatusOK {
		return "", utils.ClassifyHTTPStatus(resp.StatusCode, string(body))
	}

	var cr chatResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return "", &utils.ParseError{Err: err}
	}
	if len(cr.Choices) == 0 {
		return "", &utils.ParseError{Err: fmt.Errorf("no choices in response")}
	}
	return cr.Choices[0].Message.Content, nil
}

// dispatchCompletion routes a completion through the rate limiter with
// an estimated cost derived from the request payload.
func (s *OpenAIService) dispatchCompletion(ctx context.Context, req chatRequest) (string, error) {
	payload, _ := json.Marshal(req)
	cost := EstimateTokens(string(payload))

	var content string
	err := s.dispatcher.Dispatch(ctx, cost, func(ctx context.Context) error {
		var callErr error
		content, callErr = s.completion(ctx, req)
		return callErr
	})
	return content, err
}

// AnalyzeFoodLabel converts a data-URI image into a structured
// AnalysisResult. The image must already satisfy utils.ValidateImage.
func (s *OpenAIService) AnalyzeFoodLabel(ctx context.Context, imageDataURI string) (*models.AnalysisResult, error) {
	if !utils.ValidateImage(imageDataURI) {
		return nil, &utils.ValidationError{Reason: "unsupported image format or size"}
	}

	start := time.Now()

	req := chatRequest{
		Model:       visionModel,
		Temperature: visionTemperature,
		MaxTokens:   4096,
		Messages: []chatMessage{
			{Role: "system", Content: labelSystemPrompt},
			{Role: "user", Content: []contentPart{
				{Type: "image_url", ImageURL: &imageURL{URL: imageDataURI, Detail: "high"}},
				{Type: "text", Text: "Analyze this food label and provide only the information that is explicitly shown on the packaging."},
			}},
		},
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	content, err := s.dispatchCompletion(ctx, req)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, &utils.ParseError{Err: fmt.Errorf("empty response content")}
	}

	var result models.AnalysisResult
	if err := json.Unmarshal([]byte(stripJSONFences(content)), &result); err != nil {
		return nil, &utils.ParseError{Err: err}
	}

	result.Normalize()
	result.Metadata = models.AnalysisMetadata{
		Timestamp:        time.Now().UTC(),
		Temperature:      visionTemperature,
		Model:            visionModel,
		QueryType:        labelAnalysisQueryType,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}
	return &result, nil
}

// VerifyConnection issues a minimal completion to confirm the API key
// and endpoint work.
func (s *OpenAIService) VerifyConnection(ctx context.Context) bool {
	content, err := s.completion(ctx, chatRequest{
		Model:     "gpt-3.5-turbo",
		Messages:  []chatMessage{{Role: "user", Content: "Test connection"}},
		MaxTokens: 5,
	})
	return err == nil && content != ""
}

// GenerateSummary produces a short spoken-style summary of an analysis.
func (s *OpenAIService) GenerateSummary(ctx context.Context, analysis *models.AnalysisResult) (string, error) {
	serialized, _ := json.MarshalIndent(analysis, "", "  ")

	content, err := s.dispatchCompletion(ctx, chatRequest{
		Model:       chatModel,
		Temperature: 0.7,
		MaxTokens:   500,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a nutrition expert summarizing food product analysis. Create clear, concise summaries that are easy to understand when spoken aloud. Focus on the most important health aspects and any concerns."},
			{Role: "user", Content: fmt.Sprintf("Create a concise, conversational summary of this food analysis that would sound natural when spoken:\n%s", serialized)},
		},
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(content) == "" {
		return "", &utils.ParseError{Err: fmt.Errorf("empty summary from model")}
	}
	return content, nil
}

// Chat answers a free-text nutrition question as the NutriDecode
// assistant.
func (s *OpenAIService) Chat(ctx context.Context, message string) (string, error) {
	content, err := s.dispatchCompletion(ctx, chatRequest{
		Model:       chatModel,
		Temperature: 0.7,
		MaxTokens:   150,
		Messages: []chatMessage{
			{Role: "system", Content: "You are NutriDecode, a friendly and knowledgeable nutrition assistant. Keep responses concise and focused on nutrition, health, and food-related topics."},
			{Role: "user", Content: message},
		},
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(content) == "" {
		return "", &utils.ParseError{Err: fmt.Errorf("no response generated")}
	}
	return content, nil
}

// Models sometimes wrap JSON in markdown fences despite json_object
// mode.
func stripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"foodlens/metrics"
	"foodlens/models"
	"foodlens/utils"

	"github.com/tidwall/gjson"
)

var ErrVisionNotConfigured = errors.New("OpenAI API key not set")

// VisionAnalyzer turns a food photo into a structured analysis.
type VisionAnalyzer interface {
	Analyze(ctx context.Context, img utils.Image, lang Language) (*models.AnalysisResult, error)
}

var _ VisionAnalyzer = (*OpenAIVisionService)(nil)

type OpenAIVisionService struct {
	client  *http.Client
	apiKey  string
	model   string
	baseURL string
}

func NewOpenAIVisionService(apiKey, model, baseURL string, timeout time.Duration) *OpenAIVisionService {
	return &OpenAIVisionService{
		client:  &http.Client{Timeout: timeout},
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type chatContentPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *chatImageURL `json:"image_url,omitempty"`
}

type chatImageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail"`
}

type chatMessage struct {
	Role    string            `json:"role"`
	Content []chatContentPart `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	ResponseFormat map[string]string `json:"response_format"`
	Temperature    float64           `json:"temperature"`
	MaxTokens      int               `json:"max_tokens"`
}

func (s *OpenAIVisionService) buildRequest(img utils.Image, lang Language) chatRequest {
	return chatRequest{
		Model: s.model,
		Messages: []chatMessage{{
			Role: "user",
			Content: []chatContentPart{
				{Type: "text", Text: Prompt(lang)},
				{Type: "image_url", ImageURL: &chatImageURL{URL: img.DataURI(), Detail: "low"}},
			},
		}},
		ResponseFormat: map[string]string{"type": "json_object"},
		Temperature:    0.7,
		MaxTokens:      2000,
	}
}

func (s *OpenAIVisionService) Analyze(ctx context.Context, img utils.Image, lang Language) (*models.AnalysisResult, error) {
	if s.apiKey == "" {
		return nil, ErrVisionNotConfigured
	}

	b, err := json.Marshal(s.buildRequest(img, lang))
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := s.client.Do(req)
	metrics.ObserveVision("openai", time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("call OpenAI: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read OpenAI response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(body, "error.message").String()
		if msg == "" {
			msg = string(body)
		}
		return nil, fmt.Errorf("OpenAI API error %d: %s", resp.StatusCode, msg)
	}

	content := gjson.GetBytes(body, "choices.0.message.content").String()
	if strings.TrimSpace(content) == "" {
		return nil, errors.New("no response from OpenAI API")
	}
	return ParseAnalysis(content)
}

// ParseAnalysis decodes the model's JSON answer.
func ParseAnalysis(content string) (*models.AnalysisResult, error) {
	if !gjson.Valid(content) {
		return nil, errors.New("model returned invalid JSON")
	}
	if !gjson.Get(content, "isFood").Exists() {
		return nil, errors.New("model response is missing isFood")
	}
	var out models.AnalysisResult
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}
	return &out, nil
}

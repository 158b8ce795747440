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

	"salesboard-be/config"
	"salesboard-be/internal/models"
	"salesboard-be/internal/repository"
	"salesboard-be/internal/utils"

	"github.com/sahilm/fuzzy"
	"go.uber.org/zap"
)

// Classifier produces a structured intent classification for one inbound
// message. A nil Classification with a nil error means "no classification
// produced"; the pipeline proceeds without intent fields.
type Classifier interface {
	Classify(ctx context.Context, text string) (*models.Classification, error)
}

const classifierSystemPrompt = "You are an intent classifier for a sales CRM. " +
	"Classify the customer message and return ONLY JSON with keys: " +
	"intent (one of: interested, pricing_inquiry, demo_request, support_request, complaint, not_interested, general_inquiry), " +
	"confidence (number between 0 and 1), " +
	"summary (one sentence), " +
	"suggested_response (a short reply to send the customer), " +
	"urgency (one of: low, medium, high), " +
	"next_action (one of: follow_up, send_proposal, schedule_call, close_deal, none). " +
	"No prose, no markdown, JSON only."

// IntentClassifier calls an external language model when an API key is
// configured and falls back to fuzzy keyword matching against the
// configured Intent records otherwise.
type IntentClassifier struct {
	intents  repository.IntentStore
	apiKey   string
	provider string
	model    string
	client   *http.Client
	log      *zap.Logger

	geminiBaseURL string
	openAIBaseURL string
}

func NewIntentClassifier(cfg *config.Config, intents repository.IntentStore, log *zap.Logger) *IntentClassifier {
	return &IntentClassifier{
		intents:  intents,
		apiKey:   cfg.AIAPIKey,
		provider: strings.ToLower(cfg.AIProvider),
		model:    cfg.AIModel,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		log:           log,
		geminiBaseURL: "https://generativelanguage.googleapis.com/v1beta",
		openAIBaseURL: "https://api.openai.com/v1",
	}
}

func (s *IntentClassifier) Classify(ctx context.Context, text string) (*models.Classification, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	if s.apiKey != "" {
		var raw string
		var err error
		if s.provider == "openai" {
			raw, err = s.callOpenAI(ctx, text)
		} else {
			raw, err = s.callGemini(ctx, text)
		}
		if err != nil {
			s.log.Warn("ai classification call failed, falling back to keywords", zap.Error(err))
		} else {
			cls, perr := parseClassification(raw)
			if perr != nil {
				s.log.Warn("unparseable classification output",
					zap.String("raw", truncate(raw, 200)), zap.Error(perr))
			} else {
				return cls, nil
			}
		}
	}

	return s.keywordFallback(ctx, text)
}

// callGemini calls the Google Gemini API. Returns the raw model text.
func (s *IntentClassifier) callGemini(ctx context.Context, text string) (string, error) {
	model := s.model
	if model == "" {
		model = "gemini-1.5-flash"
	}
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", s.geminiBaseURL, model, s.apiKey)

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": classifierSystemPrompt + "\n\nCustomer message:\n" + text},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature":     0,
			"maxOutputTokens": 300,
		},
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode, truncate(string(bodyBytes), 200))
	}

	var parsed struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}

	if len(parsed.Candidates) > 0 && len(parsed.Candidates[0].Content.Parts) > 0 {
		return strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text), nil
	}
	return "", errors.New("no content in gemini response")
}

// callOpenAI calls the OpenAI Chat Completions API. Returns the raw model text.
func (s *IntentClassifier) callOpenAI(ctx context.Context, text string) (string, error) {
	type message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	model := s.model
	if model == "" {
		model = "gpt-4o-mini"
	}
	reqBody := map[string]interface{}{
		"model": model,
		"messages": []message{
			{Role: "system", Content: classifierSystemPrompt},
			{Role: "user", Content: text},
		},
		"max_tokens":  300,
		"temperature": 0,
	}

	b, _ := json.Marshal(reqBody)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.openAIBaseURL+"/chat/completions", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("openai API error (status %d): %s", resp.StatusCode, truncate(string(bodyBytes), 200))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("no choices in openai response")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

// parseClassification decodes the model output, tolerating markdown fences.
func parseClassification(raw string) (*models.Classification, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var cls models.Classification
	if err := json.Unmarshal([]byte(raw), &cls); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cls.Intent) == "" {
		return nil, errors.New("missing intent label")
	}
	if cls.Confidence < 0 {
		cls.Confidence = 0
	}
	if cls.Confidence > 1 {
		cls.Confidence = 1
	}
	return &cls, nil
}

// keywordFallback matches the message against the keyword lists of the
// configured Intent records. Accents are folded on both sides so keyword
// matching works across spellings; confidence is the share of an intent's
// keywords found in the message.
func (s *IntentClassifier) keywordFallback(ctx context.Context, text string) (*models.Classification, error) {
	intents, err := s.intents.List(ctx)
	if err != nil {
		s.log.Warn("intent list unavailable for keyword fallback", zap.Error(err))
		return nil, nil
	}

	folded := utils.FoldAccents(text)
	tokens := strings.Fields(folded)

	var best *models.Intent
	var bestScore float64
	for _, in := range intents {
		if len(in.Keywords) == 0 {
			continue
		}
		matched := 0
		for _, kw := range in.Keywords {
			foldedKw := utils.FoldAccents(kw)
			if foldedKw == "" {
				continue
			}
			if strings.Contains(folded, foldedKw) || len(fuzzy.Find(foldedKw, tokens)) > 0 {
				matched++
			}
		}
		score := float64(matched) / float64(len(in.Keywords))
		if score > bestScore {
			bestScore = score
			best = in
		}
	}

	if best == nil || bestScore == 0 {
		return nil, nil
	}

	return &models.Classification{
		Intent:            best.Name,
		Confidence:        bestScore,
		Summary:           "Matched configured keywords for " + best.Name,
		SuggestedResponse: best.AutomatedResponseTemplate,
		Urgency:           "medium",
		NextAction:        "follow_up",
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"bankagent/internal/domain"
)

// DefaultGroqBaseURL is the OpenAI-compatible endpoint Groq exposes.
const DefaultGroqBaseURL = "https://api.groq.com/openai/v1"

// GroqClient implements domain.Classifier and domain.Planner against
// an OpenAI-compatible chat-completions API. It tries the preferred
// model first and walks the fallback list on any failure; a fallback
// that answers becomes the preferred model for later calls. That
// memory is owned client state, guarded by a mutex, not a global.
type GroqClient struct {
	baseURL    string
	apiKey     string
	fallbacks  []string
	httpClient *http.Client

	mu    sync.Mutex
	model string
}

// NewGroqClient creates a model client. An empty baseURL selects the
// Groq endpoint.
func NewGroqClient(baseURL, apiKey, model string, fallbacks []string) *GroqClient {
	if baseURL == "" {
		baseURL = DefaultGroqBaseURL
	}
	return &GroqClient{
		baseURL:   baseURL,
		apiKey:    apiKey,
		model:     model,
		fallbacks: fallbacks,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Classify extracts intent and entities from one query. Exhausting
// every model degrades to an unknown intent with zero confidence
// instead of an error, so the caller's rephrase path kicks in.
func (c *GroqClient) Classify(ctx context.Context, query string) (*domain.Classification, error) {
	var result domain.Classification
	err := c.completeJSON(ctx, classifierSystemPrompt, classifyPrompt(query), &result)
	if err != nil {
		log.Printf("all models failed for intent classification: %v", err)
		return &domain.Classification{Intent: domain.IntentUnknown}, nil
	}
	log.Printf("classified intent %q with confidence %.2f", result.Intent, result.Confidence)
	return &result, nil
}

// Plan generates an execution plan for the intent. Steps with missing
// tool names are repaired from their action or the intent; a fully
// failed call returns an error so the caller can substitute the
// deterministic fallback plan.
func (c *GroqClient) Plan(ctx context.Context, intent string, entities domain.Entities) (*domain.Plan, error) {
	entityJSON, err := json.Marshal(entities.ToParams())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entities: %w", err)
	}

	var plan domain.Plan
	if err := c.completeJSON(ctx, plannerSystemPrompt, planPrompt(intent, string(entityJSON)), &plan); err != nil {
		return nil, fmt.Errorf("planning failed: %w", err)
	}

	for i := range plan.Steps {
		if plan.Steps[i].Tool != "" {
			continue
		}
		tool, ok := domain.ToolForIntent(plan.Steps[i].Action)
		if !ok {
			tool, ok = domain.ToolForIntent(intent)
		}
		if !ok {
			tool = "get_balance"
		}
		log.Printf("fixed missing tool name in step %d, set to %s", plan.Steps[i].StepID, tool)
		plan.Steps[i].Tool = tool
	}

	log.Printf("generated plan with %d steps", len(plan.Steps))
	return &plan, nil
}

// completeJSON runs one JSON-object completion through the model
// chain, unmarshalling the answer into out. A model counts as failed
// on transport errors, non-200 statuses and unparseable JSON alike.
func (c *GroqClient) completeJSON(ctx context.Context, system, prompt string, out any) error {
	var lastErr error
	for _, model := range c.modelsToTry() {
		content, err := c.chatCompletion(ctx, model, system, prompt)
		if err != nil {
			log.Printf("model %s failed: %v, trying next model", model, err)
			lastErr = err
			continue
		}
		if err := json.Unmarshal([]byte(content), out); err != nil {
			log.Printf("model %s returned invalid JSON: %v, trying next model", model, err)
			lastErr = fmt.Errorf("invalid JSON from %s: %w", model, err)
			continue
		}
		c.remember(model)
		return nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no models configured")
	}
	return lastErr
}

func (c *GroqClient) modelsToTry() []string {
	c.mu.Lock()
	current := c.model
	c.mu.Unlock()

	models := []string{current}
	for _, m := range c.fallbacks {
		if m != current {
			models = append(models, m)
		}
	}
	return models
}

func (c *GroqClient) remember(model string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.model != model {
		log.Printf("switched to model: %s", model)
		c.model = model
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *GroqClient) chatCompletion(ctx context.Context, model, system, user string) (string, error) {
	reqBody := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		// Low temperature for consistent parsing.
		Temperature: 0.1,
	}
	reqBody.ResponseFormat.Type = "json_object"

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/chat/completions", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call model API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("model API returned error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("model API returned no choices")
	}

	return chatResp.Choices[0].Message.Content, nil
}

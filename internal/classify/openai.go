package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ppiankov/crosswiki/internal/model"
)

// openAIClassifier implements zero-shot classification over the Chat
// Completions API by asking for a JSON score object.
type openAIClassifier struct {
	client *openai.Client
	model  string
}

func newOpenAIClassifier(cfg model.ClassifierConfig) (*openAIClassifier, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	m := cfg.Model
	if m == "" {
		m = openai.GPT4oMini
	}

	return &openAIClassifier{
		client: openai.NewClientWithConfig(clientConfig),
		model:  m,
	}, nil
}

// Name returns the provider name
func (c *openAIClassifier) Name() string { return "openai" }

// Available probes the API with a lightweight model listing
func (c *openAIClassifier) Available(ctx context.Context) bool {
	_, err := c.client.ListModels(ctx)
	return err == nil
}

const classifyPrompt = `You are a zero-shot text classifier. Score the sentence below against each label.
Respond with a single JSON object mapping every label to a score between 0 and 1.
The scores should sum to roughly 1. No prose, JSON only.

Labels: %s

Sentence: %q`

// Classify scores one sentence against the label set
func (c *openAIClassifier) Classify(ctx context.Context, sentence string, labels []string) (Scores, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0,
		MaxTokens:   200,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(classifyPrompt, strings.Join(labels, ", "), sentence),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty completion response")
	}

	return parseScores(resp.Choices[0].Message.Content, labels)
}

// parseScores pulls the JSON object out of the completion, tolerating code
// fences around it.
func parseScores(content string, labels []string) (Scores, error) {
	content = strings.TrimSpace(content)
	if start := strings.IndexByte(content, '{'); start >= 0 {
		if end := strings.LastIndexByte(content, '}'); end > start {
			content = content[start : end+1]
		}
	}

	var raw map[string]float64
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("parse scores: %w", err)
	}

	scores := make(Scores, len(labels))
	for _, label := range labels {
		scores[label] = clampScore(raw[label])
	}
	return scores, nil
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/template"
	"time"

	"github.com/masmgr/changelog-go/internal/git"
)

// DefaultBaseURL is the OpenAI API root. Any server implementing the
// chat completions endpoint can be used instead.
const DefaultBaseURL = "https://api.openai.com/v1"

var promptTemplate = template.Must(template.New("prompt").Parse(`commit message: {{.Message}} | diff: {{.Diff}}

Given the commit message and the diff, your task is to generate a short summary of the commit.
First provide a short (10 words or less) high-level summary of the changes. Then provide a
more detailed (2-5 sentences) explanation. Make sure to mention which files were changed,
the reason for the changes, and how the changes might impact a user. Assume the user has some
knowledge of the project and its technologies. Do not explicitly mention the commit message or
the diff. Use proper spelling and grammar, and only write in complete sentences.
Write in the tone of a software engineer. Write confidently - avoid words like 'likely' and 'may'.
Write your response in the following format and make sure to use full sentences:

Summary:
    high-level summary of the changes
Changes:
    2-5 sentence explanation
`))

// ChatSummarizer summarizes commits with a chat completion model.
type ChatSummarizer struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	Client      *http.Client
}

// NewChatSummarizer creates a ChatSummarizer with the default token budget
// and temperature. An empty baseURL uses DefaultBaseURL.
func NewChatSummarizer(baseURL, apiKey, model string) *ChatSummarizer {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &ChatSummarizer{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		APIKey:      apiKey,
		Model:       model,
		MaxTokens:   128,
		Temperature: 0.5,
		Client:      &http.Client{Timeout: 60 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Summarize implements Summarizer.
func (s *ChatSummarizer) Summarize(ctx context.Context, cs git.CommitChangeSet) (Summary, error) {
	prompt, err := buildPrompt(cs)
	if err != nil {
		return Summary{}, err
	}

	content, err := s.complete(ctx, prompt)
	if err != nil {
		return Summary{}, err
	}
	return ParseSummary(content)
}

// ParseSummary turns model output into a Summary. The first non-empty
// cleaned line is the title and the remaining lines form the detail.
func ParseSummary(content string) (Summary, error) {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if cleaned := CleanupOutput(line); cleaned != "" {
			lines = append(lines, cleaned)
		}
	}
	if len(lines) < 2 {
		return Summary{}, ErrIncompleteSummary
	}
	return Summary{Title: lines[0], Detail: strings.Join(lines[1:], " ")}, nil
}

func buildPrompt(cs git.CommitChangeSet) (string, error) {
	var buf bytes.Buffer
	err := promptTemplate.Execute(&buf, struct {
		Message string
		Diff    string
	}{
		Message: cs.Commit.Message,
		Diff:    DescribeChanges(cs.Changes),
	})
	if err != nil {
		return "", fmt.Errorf("failed to build prompt: %w", err)
	}
	return buf.String(), nil
}

func (s *ChatSummarizer) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       s.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   s.MaxTokens,
		Temperature: s.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.APIKey)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call chat completions: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read chat response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("chat completions failed with status %d", resp.StatusCode)
		}
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return "", fmt.Errorf("chat completions failed with status %d: %s", resp.StatusCode, parsed.Error.Message)
		}
		return "", fmt.Errorf("chat completions failed with status %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return "", ErrIncompleteSummary
	}
	return parsed.Choices[0].Message.Content, nil
}

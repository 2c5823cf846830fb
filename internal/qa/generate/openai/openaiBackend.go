package openai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/akolanti/docchat/internal/config"
	"github.com/akolanti/docchat/internal/customHttpClient"
	"github.com/akolanti/docchat/internal/qa/generate"
	"github.com/akolanti/docchat/internal/qa/prompt"
	"github.com/akolanti/docchat/pkg/logger_i"

	"github.com/akolanti/docchat/internal/domain/chatModel"
)

// Backend talks to any OpenAI-compatible chat completions endpoint over
// plain HTTP. Streaming responses are decoded line by line from the SSE
// body; a malformed line is skipped, it never fails the whole call.
type Backend struct {
	*generate.Session
	cfg    generate.Config
	client *http.Client
	logger *logger_i.Logger
}

func NewBackend(cfg generate.Config) *Backend {
	if cfg.BaseURL == "" {
		cfg.BaseURL = config.OpenAIBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = config.OpenAIModelName
	}
	return &Backend{
		Session: generate.NewSession(),
		cfg:     cfg,
		client:  customHttpClient.GetPooledClient(),
		logger:  logger_i.NewLogger("llm_openai"),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

const streamDataPrefix = "data: "
const streamDoneSentinel = "[DONE]"

func (b *Backend) GenerateResponse(ctx context.Context, query string, onDelta func(string)) (string, error) {
	if err := b.BeginGeneration(); err != nil {
		return "", err
	}
	defer b.EndGeneration()

	conversation, err := b.BuildConversation(query)
	if err != nil {
		return "", err
	}

	answer, err := b.streamChat(ctx, conversation, onDelta)
	if err != nil {
		b.logger.Error("Streaming chat completion failed", "error", err)
		return "", generate.ErrGenerationFailed
	}

	b.RecordExchange(query, answer)
	return answer, nil
}

func (b *Backend) SummarizeDocument(ctx context.Context) (string, error) {
	doc, err := b.Document()
	if err != nil {
		return "", err
	}
	if err := b.BeginGeneration(); err != nil {
		return "", err
	}
	defer b.EndGeneration()

	summary, err := b.completeChat(ctx, prompt.SummaryConversation(doc.Content, config.RemoteSummaryContentLimit))
	if err != nil {
		b.logger.Error("Summary completion failed", "error", err)
		return "", generate.ErrGenerationFailed
	}
	return summary, nil
}

func (b *Backend) ExtractKeyTopics(ctx context.Context) ([]string, error) {
	doc, err := b.Document()
	if err != nil {
		return nil, err
	}
	if err := b.BeginGeneration(); err != nil {
		return nil, err
	}
	defer b.EndGeneration()

	raw, err := b.completeChat(ctx, prompt.TopicsConversation(doc.Content, config.RemoteTopicsContentLimit))
	if err != nil {
		b.logger.Error("Topics completion failed", "error", err)
		return nil, generate.ErrGenerationFailed
	}
	return prompt.ParseTopics(raw), nil
}

func (b *Backend) streamChat(ctx context.Context, conversation []chatModel.Message, onDelta func(string)) (string, error) {
	resp, err := b.postCompletion(ctx, conversation, true)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var full strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, streamDataPrefix) {
			continue
		}
		payload := strings.TrimPrefix(line, streamDataPrefix)
		if payload == streamDoneSentinel {
			break
		}

		var chunk streamChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			// best effort decoding - one bad delta must not kill the stream
			b.logger.Debug("Skipping malformed stream line", "line", payload)
			continue
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		full.WriteString(delta)
		if onDelta != nil {
			onDelta(delta)
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading stream: %w", err)
	}

	return full.String(), nil
}

func (b *Backend) completeChat(ctx context.Context, conversation []chatModel.Message) (string, error) {
	resp, err := b.postCompletion(ctx, conversation, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var apiResp chatResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if apiResp.Error != nil {
		return "", fmt.Errorf("api error %s: %s", apiResp.Error.Type, apiResp.Error.Message)
	}
	if len(apiResp.Choices) == 0 {
		return "", fmt.Errorf("empty choices in response")
	}
	return apiResp.Choices[0].Message.Content, nil
}

func (b *Backend) postCompletion(ctx context.Context, conversation []chatModel.Message, stream bool) (*http.Response, error) {
	messages := make([]chatMessage, 0, len(conversation))
	for _, m := range conversation {
		messages = append(messages, chatMessage{Role: string(m.Role), Content: m.Content})
	}

	body, err := json.Marshal(chatRequest{
		Model:       b.cfg.Model,
		Messages:    messages,
		Temperature: b.cfg.Temperature,
		Stream:      stream,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := strings.TrimSuffix(b.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if b.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+b.cfg.APIKey)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("completions api: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		resp.Body.Close()
		return nil, fmt.Errorf("completions api status %d: %s", resp.StatusCode, string(detail))
	}
	return resp, nil
}

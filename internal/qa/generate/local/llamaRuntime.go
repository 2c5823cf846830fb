package local

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/akolanti/docchat/internal/config"
	"github.com/akolanti/docchat/internal/domain/chatModel"
	"github.com/akolanti/docchat/pkg/logger_i"
)

// llamaRuntime fronts an OpenAI-compatible local model server (llama.cpp,
// llamafile and friends). Loading means waiting for the server to answer
// the models listing, which it refuses to do until weights are in memory.
type llamaRuntime struct {
	client openai.Client
	model  string
	logger *logger_i.Logger
}

func NewLlamaRuntime(baseURL string, model string) ModelRuntime {
	if baseURL == "" {
		baseURL = config.LocalBaseURL
	}
	if model == "" {
		model = config.LocalModelName
	}
	return &llamaRuntime{
		client: openai.NewClient(
			option.WithBaseURL(baseURL),
			option.WithAPIKey("local"), //the server ignores it but the SDK wants one
		),
		model:  model,
		logger: logger_i.NewLogger("llama_runtime"),
	}
}

func (r *llamaRuntime) Load(ctx context.Context, onProgress func(int)) error {
	loadCtx, cancel := context.WithTimeout(ctx, config.LocalLoadTimeout)
	defer cancel()

	start := time.Now()
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	onProgress(0)
	for {
		if _, err := r.client.Models.List(loadCtx); err == nil {
			onProgress(100)
			r.logger.Info("Model server is up", "model", r.model)
			return nil
		}

		//report elapsed share of the load budget, never claiming done
		percent := int(float64(time.Since(start)) / float64(config.LocalLoadTimeout) * 100)
		if percent > 99 {
			percent = 99
		}
		onProgress(percent)

		select {
		case <-loadCtx.Done():
			return fmt.Errorf("model server not reachable: %w", loadCtx.Err())
		case <-ticker.C:
		}
	}
}

func (r *llamaRuntime) Complete(ctx context.Context, conversation []chatModel.Message, temperature float64) (string, error) {
	resp, err := r.client.Chat.Completions.New(ctx, r.buildParams(conversation, temperature))
	if err != nil {
		return "", fmt.Errorf("local completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty choices from local model")
	}
	return resp.Choices[0].Message.Content, nil
}

func (r *llamaRuntime) StreamComplete(ctx context.Context, conversation []chatModel.Message, temperature float64, onDelta func(string)) (string, error) {
	stream := r.client.Chat.Completions.NewStreaming(ctx, r.buildParams(conversation, temperature))
	defer stream.Close()

	var full strings.Builder
	for stream.Next() {
		chunk := stream.Current()
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
	if err := stream.Err(); err != nil {
		return "", fmt.Errorf("local stream: %w", err)
	}
	return full.String(), nil
}

func (r *llamaRuntime) buildParams(conversation []chatModel.Message, temperature float64) openai.ChatCompletionNewParams {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(conversation))
	for _, m := range conversation {
		switch m.Role {
		case chatModel.RoleSystem:
			messages = append(messages, openai.SystemMessage(m.Content))
		case chatModel.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(m.Content))
		default:
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}
	return openai.ChatCompletionNewParams{
		Model:       r.model,
		Messages:    messages,
		Temperature: openai.Float(temperature),
	}
}

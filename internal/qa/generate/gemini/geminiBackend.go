package gemini

import (
	"context"
	"strings"

	"google.golang.org/genai"

	"github.com/akolanti/docchat/internal/config"
	"github.com/akolanti/docchat/internal/domain/chatModel"
	"github.com/akolanti/docchat/internal/qa/generate"
	"github.com/akolanti/docchat/internal/qa/prompt"
	"github.com/akolanti/docchat/pkg/logger_i"
)

// Backend answers through the Gemini API. Gemini takes one flattened prompt
// plus a system instruction, so the assembled conversation is collapsed and
// the full answer is delivered as a single delta.
type Backend struct {
	*generate.Session
	client      *genai.Client
	modelName   string
	temperature float64
	logger      *logger_i.Logger
}

func NewBackend(ctx context.Context, cfg generate.Config) (*Backend, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, err
	}
	modelName := cfg.Model
	if modelName == "" {
		modelName = config.GeminiModelName
	}
	return &Backend{
		Session:     generate.NewSession(),
		client:      client,
		modelName:   modelName,
		temperature: cfg.Temperature,
		logger:      logger_i.NewLogger("llm_gemini"),
	}, nil
}

func (b *Backend) GenerateResponse(ctx context.Context, query string, onDelta func(string)) (string, error) {
	if err := b.BeginGeneration(); err != nil {
		return "", err
	}
	defer b.EndGeneration()

	conversation, err := b.BuildConversation(query)
	if err != nil {
		return "", err
	}

	answer, err := b.generate(ctx, conversation)
	if err != nil {
		b.logger.Error("Gemini generation failed", "error", err)
		return "", generate.ErrGenerationFailed
	}
	if onDelta != nil {
		onDelta(answer)
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

	summary, err := b.generate(ctx, prompt.SummaryConversation(doc.Content, config.RemoteSummaryContentLimit))
	if err != nil {
		b.logger.Error("Gemini summary failed", "error", err)
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

	raw, err := b.generate(ctx, prompt.TopicsConversation(doc.Content, config.RemoteTopicsContentLimit))
	if err != nil {
		b.logger.Error("Gemini topics failed", "error", err)
		return nil, generate.ErrGenerationFailed
	}
	return prompt.ParseTopics(raw), nil
}

func (b *Backend) generate(ctx context.Context, conversation []chatModel.Message) (string, error) {
	var systemInstruction *genai.Content
	var parts []string
	for _, m := range conversation {
		if m.Role == chatModel.RoleSystem {
			systemInstruction = &genai.Content{
				Parts: []*genai.Part{{Text: m.Content}},
			}
			continue
		}
		parts = append(parts, string(m.Role)+": "+m.Content)
	}

	contentConfig := &genai.GenerateContentConfig{
		SystemInstruction: systemInstruction,
		Temperature:       genai.Ptr(float32(b.temperature)),
	}

	result, err := b.client.Models.GenerateContent(
		ctx,
		b.modelName,
		genai.Text(strings.Join(parts, "\n\n")),
		contentConfig,
	)
	if err != nil {
		return "", err
	}
	return result.Text(), nil
}

package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/invopop/jsonschema"
	openai "github.com/sashabaranov/go-openai"

	"github.com/ravenmoor/chatwell/internal/models"
)

const (
	defaultModel = "gpt-4o-mini"

	// Messages are truncated before being sent; a classification only
	// needs the leading context.
	maxPromptRunes = 512
)

const systemPrompt = `You classify the emotional tone of a single chat message.
Return the overall sentiment (positive, negative or neutral), your confidence
between 0 and 1, and scores between 0 and 1 for each emotion you detect, such
as joy, sadness, anger, fear, optimism, anxiety or frustration.`

// RemoteConfig configures the remote classifier. BaseURL may point at any
// OpenAI-compatible endpoint; empty keeps the library default.
type RemoteConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Remote classifies messages through an OpenAI-compatible chat-completions
// endpoint with a strict JSON schema response. Transport or decode
// failures degrade to the heuristic classifier, so Classify still never
// fails.
type Remote struct {
	client   *openai.Client
	model    string
	fallback Fallback
}

func NewRemote(cfg RemoteConfig) *Remote {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Remote{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}
}

// wireClassification is the schema the endpoint must fill. Emotions are
// name/score pairs rather than a free-form object so the schema stays
// strict-mode compliant.
type wireClassification struct {
	Sentiment  string        `json:"sentiment" jsonschema:"required,enum=positive,enum=negative,enum=neutral"`
	Confidence float64       `json:"confidence" jsonschema:"required,minimum=0,maximum=1"`
	Emotions   []wireEmotion `json:"emotions" jsonschema:"required"`
}

type wireEmotion struct {
	Name  string  `json:"name" jsonschema:"required"`
	Score float64 `json:"score" jsonschema:"required,minimum=0,maximum=1"`
}

var classificationSchema = func() *jsonschema.Schema {
	r := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	return r.Reflect(&wireClassification{})
}()

func (r *Remote) Classify(ctx context.Context, text string) models.SentimentRecord {
	processed := Preprocess(text)
	emojiSent, emojiConf := emojiSentiment(text)
	penalty := mixedSignalPenalty(text, processed)

	wire, err := r.complete(ctx, truncateRunes(processed, maxPromptRunes))
	if err != nil {
		log.Printf("classify: remote classification failed, using fallback: %v", err)
		return r.fallback.Classify(ctx, text)
	}

	sentiment := normalizeLabel(wire.Sentiment)
	confidence := clamp01(wire.Confidence)
	emotions := make(map[string]float64, len(wire.Emotions))
	for _, e := range wire.Emotions {
		emotions[strings.ToLower(e.Name)] = clamp01(e.Score)
	}

	// A neutral verdict with a strong emoji signal is usually wrong for
	// chat text; trust the emojis. Agreement reinforces instead.
	if sentiment == models.SentimentNeutral && emojiSent != models.SentimentNeutral && emojiConf > 0.6 {
		sentiment = emojiSent
		confidence = emojiConf * 0.85
	} else if emojiSent != models.SentimentNeutral && emojiSent == sentiment {
		confidence = math.Min(confidence+emojiConf*0.15, 0.98)
	}
	confidence = math.Max(confidence-penalty, 0.15)

	rec := models.SentimentRecord{
		Sentiment:  sentiment,
		Confidence: confidence,
		Emotions:   emotions,
	}
	if emojiSent != models.SentimentNeutral {
		rec.EmojiSignal = &models.EmojiSignal{Sentiment: emojiSent, Confidence: emojiConf}
	}
	return rec
}

// complete runs the chat completion with one retry.
func (r *Remote) complete(ctx context.Context, text string) (wireClassification, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: r.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: text},
			},
			Temperature: 0.1,
			MaxTokens:   300,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
				JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
					Name:   "sentiment_classification",
					Schema: classificationSchema,
					Strict: true,
				},
			},
		})
		if err != nil {
			lastErr = fmt.Errorf("chat completion: %w", err)
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("no response choices")
			continue
		}
		var wire wireClassification
		if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &wire); err != nil {
			lastErr = fmt.Errorf("decode classification: %w", err)
			continue
		}
		return wire, nil
	}
	return wireClassification{}, lastErr
}

func normalizeLabel(label string) string {
	label = strings.ToLower(label)
	switch {
	case strings.Contains(label, "positive"):
		return models.SentimentPositive
	case strings.Contains(label, "negative"):
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

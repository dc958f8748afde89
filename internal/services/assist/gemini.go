package assist

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

var ErrEmptyResponse = errors.New("model returned no content")

const speechVoice = "Fenrir"

// GeminiConfig names the models used for each kind of call
type GeminiConfig struct {
	APIKey      string
	TextModel   string
	ImageModel  string
	SpeechModel string
}

// GeminiClient is a Provider backed by the Gemini API
type GeminiClient struct {
	models *genai.Models
	cfg    GeminiConfig
}

func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating gemini client: %w", err)
	}
	return &GeminiClient{models: client.Models, cfg: cfg}, nil
}

func (c *GeminiClient) generate(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) ([]*genai.Part, error) {
	resp, err := c.models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("generate content with %s: %w", model, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, ErrEmptyResponse
	}
	return resp.Candidates[0].Content.Parts, nil
}

// joinText concatenates the answer text, skipping thought summaries
func joinText(parts []*genai.Part) string {
	var b strings.Builder
	for _, p := range parts {
		if p == nil || p.Thought {
			continue
		}
		b.WriteString(p.Text)
	}
	return b.String()
}

// firstInline returns the first inline payload as base64
func firstInline(parts []*genai.Part) (string, error) {
	for _, p := range parts {
		if p != nil && p.InlineData != nil && len(p.InlineData.Data) > 0 {
			return base64.StdEncoding.EncodeToString(p.InlineData.Data), nil
		}
	}
	return "", ErrEmptyResponse
}

func (c *GeminiClient) Text(ctx context.Context, prompt string) (string, error) {
	parts, err := c.generate(ctx, c.cfg.TextModel, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	return joinText(parts), nil
}

func (c *GeminiClient) JSON(ctx context.Context, prompt string) (string, error) {
	parts, err := c.generate(ctx, c.cfg.TextModel, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", err
	}
	return joinText(parts), nil
}

func (c *GeminiClient) Image(ctx context.Context, image Blob, instruction string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(image.Data)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(data, image.MimeType),
			genai.NewPartFromText(instruction),
		}, genai.RoleUser),
	}
	parts, err := c.generate(ctx, c.cfg.ImageModel, contents, &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	})
	if err != nil {
		return "", err
	}
	return firstInline(parts)
}

func (c *GeminiClient) Speech(ctx context.Context, text string) (string, error) {
	parts, err := c.generate(ctx, c.cfg.SpeechModel, genai.Text(text), &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: speechVoice},
			},
		},
	})
	if err != nil {
		return "", err
	}
	return firstInline(parts)
}

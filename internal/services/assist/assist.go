// Package assist generates menu copy, price hints, sales tips, dish images and
// dish audio through an external model. Every call has a fallback: callers
// never see an error, and a missing API key simply means the fallbacks are used.
package assist

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"bistro-backend/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	FallbackDescription      = "Freshly prepared with quality ingredients."
	FallbackEmptyDescription = "Delicious dish prepared with fresh ingredients."
	FallbackInsight          = "Good job on today's sales! Keep monitoring the lunch rush for better staff allocation."
	FallbackEmptyInsight     = "Sales look good! Consider adding a special for the afternoon slump."
	FallbackInsightError     = "Unable to generate insights at this time."
)

// Assistant is what the rest of the service depends on
type Assistant interface {
	DescribeDish(ctx context.Context, name, ingredients string) string
	// SuggestPrice returns zero when there is no suggestion
	SuggestPrice(ctx context.Context, name string, category models.Category) decimal.Decimal
	AnalyzeSales(ctx context.Context, series []models.SalesPoint, popular []string) string
	// EditImage returns the edited image as base64, or nil
	EditImage(ctx context.Context, imageBase64, instruction string) *string
	// SynthesizeAudio returns spoken audio as base64, or nil
	SynthesizeAudio(ctx context.Context, text string) *string
}

// Provider is a fallible model backend
type Provider interface {
	Text(ctx context.Context, prompt string) (string, error)
	JSON(ctx context.Context, prompt string) (string, error)
	Image(ctx context.Context, image Blob, instruction string) (string, error)
	Speech(ctx context.Context, text string) (string, error)
}

// Blob is base64 data with its MIME type
type Blob struct {
	MimeType string
	Data     string
}

// Service wraps a Provider with timeouts, caching and fallbacks
type Service struct {
	provider Provider
	cache    Cache
	timeout  time.Duration
	logger   *zap.Logger
}

// New returns an Assistant. provider and cache may be nil.
func New(provider Provider, cache Cache, timeout time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		provider: provider,
		cache:    cache,
		timeout:  timeout,
		logger:   logger.Named("assist"),
	}
}

// Enabled reports whether a model backend is configured
func (s *Service) Enabled() bool {
	return s.provider != nil
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// cachedText runs call unless the cache already has an answer for key
func (s *Service) cachedText(ctx context.Context, key string, call func(context.Context) (string, error)) (string, error) {
	if s.cache != nil {
		if v, ok := s.cache.Get(ctx, key); ok {
			return v, nil
		}
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	v, err := call(ctx)
	if err != nil {
		return "", err
	}
	if s.cache != nil && strings.TrimSpace(v) != "" {
		s.cache.Set(ctx, key, v)
	}
	return v, nil
}

func cacheKey(kind string, parts ...string) string {
	hash := md5.Sum([]byte(strings.Join(parts, "\x00")))
	return fmt.Sprintf("assist:%s:%x", kind, hash[:8])
}

func (s *Service) DescribeDish(ctx context.Context, name, ingredients string) string {
	if s.provider == nil {
		return FallbackDescription
	}
	prompt := fmt.Sprintf("Write a short, appetizing, mouth-watering menu description (max 2 sentences) "+
		"for a dish named %q containing these ingredients: %s.", name, ingredients)

	text, err := s.cachedText(ctx, cacheKey("describe", name, ingredients), func(ctx context.Context) (string, error) {
		return s.provider.Text(ctx, prompt)
	})
	if err != nil {
		s.logger.Warn("describe dish failed", zap.String("dish", name), zap.Error(err))
		return FallbackDescription
	}
	if text = strings.TrimSpace(text); text == "" {
		return FallbackEmptyDescription
	}
	return text
}

func (s *Service) SuggestPrice(ctx context.Context, name string, category models.Category) decimal.Decimal {
	if s.provider == nil {
		return decimal.Zero
	}
	prompt := fmt.Sprintf("Suggest a reasonable price for a standard restaurant %s dish named %q. "+
		`Respond with JSON of the form {"price": 12.5} and nothing else.`, strings.ToLower(string(category)), name)

	raw, err := s.cachedText(ctx, cacheKey("price", name, string(category)), func(ctx context.Context) (string, error) {
		return s.provider.JSON(ctx, prompt)
	})
	if err != nil {
		s.logger.Warn("suggest price failed", zap.String("dish", name), zap.Error(err))
		return decimal.Zero
	}
	price, err := parsePrice(raw)
	if err != nil {
		s.logger.Warn("unusable price suggestion", zap.String("dish", name), zap.String("raw", raw), zap.Error(err))
		return decimal.Zero
	}
	return price
}

// parsePrice reads {"price": n}. Missing, zero or negative prices are "no suggestion".
func parsePrice(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.Trim(raw, "`\n ")

	var body struct {
		Price *decimal.Decimal `json:"price"`
	}
	if err := json.Unmarshal([]byte(raw), &body); err != nil {
		return decimal.Zero, err
	}
	if body.Price == nil || !body.Price.IsPositive() {
		return decimal.Zero, nil
	}
	return body.Price.Round(2), nil
}

func (s *Service) AnalyzeSales(ctx context.Context, series []models.SalesPoint, popular []string) string {
	if s.provider == nil {
		return FallbackInsight
	}
	data, err := json.Marshal(series)
	if err != nil {
		return FallbackInsightError
	}
	prompt := fmt.Sprintf("You are a restaurant manager assistant. Analyze this sales data:\n%s\n"+
		"Popular Items: %s\n\n"+
		"Give me ONE concise, actionable, and encouraging business tip (max 30 words) based on this data. "+
		"Focus on revenue peaks or staffing.", data, strings.Join(popular, ", "))

	text, err := s.cachedText(ctx, cacheKey("insight", string(data), strings.Join(popular, ",")), func(ctx context.Context) (string, error) {
		return s.provider.Text(ctx, prompt)
	})
	if err != nil {
		s.logger.Warn("analyze sales failed", zap.Error(err))
		return FallbackInsightError
	}
	if text = strings.TrimSpace(text); text == "" {
		return FallbackEmptyInsight
	}
	return text
}

func (s *Service) EditImage(ctx context.Context, imageBase64, instruction string) *string {
	if s.provider == nil || imageBase64 == "" {
		return nil
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	data, err := s.provider.Image(ctx, ParseDataURL(imageBase64, "image/jpeg"), instruction)
	if err != nil {
		s.logger.Warn("edit image failed", zap.Error(err))
		return nil
	}
	if data == "" {
		return nil
	}
	return &data
}

func (s *Service) SynthesizeAudio(ctx context.Context, text string) *string {
	if s.provider == nil || strings.TrimSpace(text) == "" {
		return nil
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	data, err := s.provider.Speech(ctx, text)
	if err != nil {
		s.logger.Warn("synthesize audio failed", zap.Error(err))
		return nil
	}
	if data == "" {
		return nil
	}
	return &data
}

// ParseDataURL splits "data:<mime>;base64,<data>". Plain base64 gets defaultMime.
func ParseDataURL(s, defaultMime string) Blob {
	if !strings.HasPrefix(s, "data:") {
		return Blob{MimeType: defaultMime, Data: s}
	}
	header, data, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !ok {
		return Blob{MimeType: defaultMime, Data: s}
	}
	mime := strings.TrimSuffix(header, ";base64")
	if mime == "" {
		mime = defaultMime
	}
	return Blob{MimeType: mime, Data: data}
}

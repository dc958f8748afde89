package assist

import (
	"context"
	"errors"
	"testing"
	"time"

	"bistro-backend/internal/models"

	"github.com/shopspring/decimal"
)

type fakeProvider struct {
	text    string
	json    string
	image   string
	speech  string
	err     error
	block   bool
	calls   int
	gotBlob Blob
}

func (f *fakeProvider) wait(ctx context.Context) error {
	f.calls++
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return f.err
}

func (f *fakeProvider) Text(ctx context.Context, _ string) (string, error) {
	return f.text, f.wait(ctx)
}

func (f *fakeProvider) JSON(ctx context.Context, _ string) (string, error) {
	return f.json, f.wait(ctx)
}

func (f *fakeProvider) Image(ctx context.Context, image Blob, _ string) (string, error) {
	f.gotBlob = image
	return f.image, f.wait(ctx)
}

func (f *fakeProvider) Speech(ctx context.Context, _ string) (string, error) {
	return f.speech, f.wait(ctx)
}

func TestNoProviderUsesFallbacks(t *testing.T) {
	s := New(nil, nil, time.Second, nil)
	ctx := context.Background()

	if s.Enabled() {
		t.Error("expected disabled assistant")
	}
	if got := s.DescribeDish(ctx, "Soup", "leeks"); got != FallbackDescription {
		t.Errorf("describe: %q", got)
	}
	if got := s.SuggestPrice(ctx, "Soup", models.CategoryAppetizer); !got.IsZero() {
		t.Errorf("price: %s", got)
	}
	if got := s.AnalyzeSales(ctx, nil, nil); got != FallbackInsight {
		t.Errorf("insight: %q", got)
	}
	if s.EditImage(ctx, "abc", "white background") != nil || s.SynthesizeAudio(ctx, "hello") != nil {
		t.Error("expected nil media")
	}
}

func TestProviderErrorsUseFallbacks(t *testing.T) {
	p := &fakeProvider{err: errors.New("quota exceeded")}
	s := New(p, nil, time.Second, nil)
	ctx := context.Background()

	if got := s.DescribeDish(ctx, "Soup", "leeks"); got != FallbackDescription {
		t.Errorf("describe: %q", got)
	}
	if got := s.SuggestPrice(ctx, "Soup", models.CategoryAppetizer); !got.IsZero() {
		t.Errorf("price: %s", got)
	}
	if got := s.AnalyzeSales(ctx, nil, []string{"Soup"}); got != FallbackInsightError {
		t.Errorf("insight: %q", got)
	}
	if s.EditImage(ctx, "abc", "x") != nil || s.SynthesizeAudio(ctx, "hello") != nil {
		t.Error("expected nil media")
	}
}

func TestEmptyResponsesUseFallbacks(t *testing.T) {
	s := New(&fakeProvider{text: "  "}, nil, time.Second, nil)
	ctx := context.Background()
	if got := s.DescribeDish(ctx, "Soup", "leeks"); got != FallbackEmptyDescription {
		t.Errorf("describe: %q", got)
	}
	if got := s.AnalyzeSales(ctx, nil, nil); got != FallbackEmptyInsight {
		t.Errorf("insight: %q", got)
	}
	if s.EditImage(ctx, "abc", "x") != nil {
		t.Error("empty image should be nil")
	}
}

func TestTimeoutFallsBack(t *testing.T) {
	s := New(&fakeProvider{block: true}, nil, 10*time.Millisecond, nil)
	if got := s.DescribeDish(context.Background(), "Soup", "leeks"); got != FallbackDescription {
		t.Errorf("describe: %q", got)
	}
}

func TestSuggestPriceParsing(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`{"price": 18.5}`, "18.5"},
		{`{"price": "14.999"}`, "15"},
		{"```json\n{\"price\": 9}\n```", "9"},
		{`{"price": 0}`, "0"},
		{`{"price": -3}`, "0"},
		{`{}`, "0"},
		{`fifteen dollars`, "0"},
	}
	for _, tt := range tests {
		s := New(&fakeProvider{json: tt.raw}, nil, time.Second, nil)
		got := s.SuggestPrice(context.Background(), "Burger", models.CategoryMain)
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("%q: got %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func TestTextIsCached(t *testing.T) {
	p := &fakeProvider{text: "Silky leek soup."}
	s := New(p, NewMemoryCache(10, time.Hour), time.Second, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if got := s.DescribeDish(ctx, "Soup", "leeks"); got != "Silky leek soup." {
			t.Fatalf("describe: %q", got)
		}
	}
	if p.calls != 1 {
		t.Errorf("expected 1 provider call, got %d", p.calls)
	}
	s.DescribeDish(ctx, "Soup", "leeks, cream")
	if p.calls != 2 {
		t.Errorf("different ingredients should miss the cache, calls = %d", p.calls)
	}
}

func TestEditImageStripsDataURL(t *testing.T) {
	p := &fakeProvider{image: "edited"}
	s := New(p, nil, time.Second, nil)
	got := s.EditImage(context.Background(), "data:image/png;base64,AAAA", "white background")
	if got == nil || *got != "edited" {
		t.Fatalf("got %v", got)
	}
	if p.gotBlob.MimeType != "image/png" || p.gotBlob.Data != "AAAA" {
		t.Errorf("unexpected blob: %+v", p.gotBlob)
	}
}

func TestParseDataURL(t *testing.T) {
	tests := []struct {
		in   string
		want Blob
	}{
		{"AAAA", Blob{MimeType: "image/jpeg", Data: "AAAA"}},
		{"data:image/webp;base64,BBBB", Blob{MimeType: "image/webp", Data: "BBBB"}},
		{"data:;base64,CCCC", Blob{MimeType: "image/jpeg", Data: "CCCC"}},
	}
	for _, tt := range tests {
		if got := ParseDataURL(tt.in, "image/jpeg"); got != tt.want {
			t.Errorf("ParseDataURL(%q) = %+v", tt.in, got)
		}
	}
}

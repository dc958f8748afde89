package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// Category is one of the built-in menu sections or a custom one added by staff.
// Values are always upper-case.
type Category string

const (
	CategoryAppetizer Category = "APPETIZER"
	CategoryMain      Category = "MAIN"
	CategoryDessert   Category = "DESSERT"
	CategoryDrink     Category = "DRINK"
)

// FilterAll is the list filter value meaning "no filter"
const FilterAll = "ALL"

var KnownCategories = []Category{CategoryAppetizer, CategoryMain, CategoryDessert, CategoryDrink}

var (
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidPrice    = errors.New("price must not be negative")
	ErrMissingName     = errors.New("name is required")
)

const maxCategoryLength = 32

// ParseCategory normalizes a category name and validates it.
func ParseCategory(s string) (Category, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidCategory)
	}
	if name == FilterAll {
		return "", fmt.Errorf("%w: %s is reserved", ErrInvalidCategory, FilterAll)
	}
	if len(name) > maxCategoryLength {
		return "", fmt.Errorf("%w: longer than %d characters", ErrInvalidCategory, maxCategoryLength)
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != ' ' && r != '_' && r != '-' {
			return "", fmt.Errorf("%w: unexpected character %q", ErrInvalidCategory, r)
		}
	}
	return Category(name), nil
}

// IsKnown returns true for the built-in categories
func (c Category) IsKnown() bool {
	for _, k := range KnownCategories {
		if c == k {
			return true
		}
	}
	return false
}

// ImageFilter is stored as-is for the client to render
type ImageFilter json.RawMessage

func (f ImageFilter) MarshalJSON() ([]byte, error) {
	if len(f) == 0 {
		return []byte("null"), nil
	}
	return json.RawMessage(f).MarshalJSON()
}

func (f *ImageFilter) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = nil
		return nil
	}
	*f = append((*f)[:0], data...)
	return nil
}

// MenuItem is a dish or drink that can be ordered
type MenuItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    Category        `json:"category"`
	ImageURL    string          `json:"image_url,omitempty"`
	Available   bool            `json:"available"`
	Ingredients string          `json:"ingredients,omitempty"`
	ImageFilter ImageFilter     `json:"image_filter,omitempty"`
	AudioURL    string          `json:"audio_url,omitempty"`
	MusicVibe   string          `json:"music_vibe,omitempty"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Validate checks the fields every saved menu item must have
func (m *MenuItem) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrMissingName
	}
	if m.Price.IsNegative() {
		return ErrInvalidPrice
	}
	if m.Category == "" {
		return fmt.Errorf("%w: empty", ErrInvalidCategory)
	}
	return nil
}

// ToOrderItem snapshots the item as a single order line
func (m *MenuItem) ToOrderItem() OrderItem {
	return OrderItem{
		MenuItemID: m.ID,
		Name:       m.Name,
		Price:      m.Price,
		Quantity:   1,
	}
}

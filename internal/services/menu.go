package services

import (
	"context"
	"fmt"
	"strings"

	"bistro-backend/internal/models"
	"bistro-backend/internal/services/assist"
	"bistro-backend/internal/store"

	"github.com/shopspring/decimal"
)

const (
	audioDataPrefix = "data:audio/mp3;base64,"
	imageDataPrefix = "data:image/png;base64,"

	defaultImageInstruction = "Isolate this dish on a pure white background"
)

// MenuInput is the editable part of a menu item
type MenuInput struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Price       decimal.Decimal    `json:"price"`
	Category    string             `json:"category"`
	ImageURL    string             `json:"image_url"`
	Available   *bool              `json:"available"`
	Ingredients string             `json:"ingredients"`
	ImageFilter models.ImageFilter `json:"image_filter"`
	MusicVibe   string             `json:"music_vibe"`
}

func (in MenuInput) apply(item *models.MenuItem) error {
	category, err := models.ParseCategory(in.Category)
	if err != nil {
		return err
	}
	item.Name = strings.TrimSpace(in.Name)
	item.Description = strings.TrimSpace(in.Description)
	item.Price = in.Price
	item.Category = category
	item.ImageURL = in.ImageURL
	if in.Available != nil {
		item.Available = *in.Available
	}
	item.Ingredients = strings.TrimSpace(in.Ingredients)
	item.ImageFilter = in.ImageFilter
	item.MusicVibe = in.MusicVibe
	return nil
}

// AssistInput asks for generated copy and a price hint. When MenuItemID is
// set the result is merged into that item.
type AssistInput struct {
	MenuItemID   string          `json:"menu_item_id"`
	Name         string          `json:"name"`
	Ingredients  string          `json:"ingredients"`
	Category     string          `json:"category"`
	CurrentPrice decimal.Decimal `json:"current_price"`
}

type AssistResult struct {
	Description    string           `json:"description"`
	SuggestedPrice decimal.Decimal  `json:"suggested_price"`
	Price          decimal.Decimal  `json:"price"`
	Item           *models.MenuItem `json:"item,omitempty"`
}

type MenuService struct {
	store     *store.Store
	assistant assist.Assistant
}

func NewMenuService(st *store.Store, assistant assist.Assistant) *MenuService {
	return &MenuService{store: st, assistant: assistant}
}

func (m *MenuService) List(category, query string) ([]models.MenuItem, error) {
	f := store.MenuFilter{Query: query}
	if category != "" && !strings.EqualFold(category, models.FilterAll) {
		c, err := models.ParseCategory(category)
		if err != nil {
			return nil, err
		}
		f.Category = c
	}
	return m.store.MenuItems(f), nil
}

func (m *MenuService) Get(id string) (models.MenuItem, error) {
	return m.store.MenuItem(id)
}

// Create adds an item. Items are available unless the input says otherwise.
func (m *MenuService) Create(in MenuInput) (models.MenuItem, error) {
	item := models.MenuItem{Available: true}
	if err := in.apply(&item); err != nil {
		return models.MenuItem{}, err
	}
	return m.store.CreateMenuItem(item)
}

func (m *MenuService) Update(id string, in MenuInput) (models.MenuItem, error) {
	return m.store.UpdateMenuItem(id, in.apply)
}

func (m *MenuService) Delete(id string) error {
	return m.store.DeleteMenuItem(id)
}

func (m *MenuService) Categories() []models.Category {
	return m.store.Categories()
}

func (m *MenuService) AddCategory(name string) (models.Category, error) {
	return m.store.AddCategory(name)
}

func (m *MenuService) DeleteCategory(name string) error {
	return m.store.DeleteCategory(name)
}

// Assist generates a description and a price hint. A zero suggestion never
// replaces the current price.
func (m *MenuService) Assist(ctx context.Context, in AssistInput) (AssistResult, error) {
	name := strings.TrimSpace(in.Name)
	ingredients := strings.TrimSpace(in.Ingredients)
	if name == "" || ingredients == "" {
		return AssistResult{}, fmt.Errorf("%w: name and ingredients are required", ErrInvalidInput)
	}
	category := models.CategoryMain
	if in.Category != "" {
		c, err := models.ParseCategory(in.Category)
		if err != nil {
			return AssistResult{}, err
		}
		category = c
	}

	res := AssistResult{
		Description:    m.assistant.DescribeDish(ctx, name, ingredients),
		SuggestedPrice: m.assistant.SuggestPrice(ctx, name, category),
		Price:          in.CurrentPrice,
	}
	if res.SuggestedPrice.IsPositive() {
		res.Price = res.SuggestedPrice
	}

	if in.MenuItemID == "" {
		return res, nil
	}
	item, err := m.store.UpdateMenuItem(in.MenuItemID, func(item *models.MenuItem) error {
		item.Description = res.Description
		item.Ingredients = ingredients
		if res.SuggestedPrice.IsPositive() {
			item.Price = res.SuggestedPrice
		}
		return nil
	})
	if err != nil {
		return AssistResult{}, err
	}
	res.Price = item.Price
	res.Item = &item
	return res, nil
}

// GenerateAudio reads the item's description aloud and stores the clip on the item
func (m *MenuService) GenerateAudio(ctx context.Context, id string) (models.MenuItem, error) {
	item, err := m.store.MenuItem(id)
	if err != nil {
		return models.MenuItem{}, err
	}
	if strings.TrimSpace(item.Description) == "" {
		return models.MenuItem{}, fmt.Errorf("%s: %w", item.Name, ErrNoDescription)
	}
	audio := m.assistant.SynthesizeAudio(ctx, item.Description)
	if audio == nil {
		return models.MenuItem{}, ErrMediaUnavailable
	}
	return m.store.UpdateMenuItem(id, func(item *models.MenuItem) error {
		item.AudioURL = audioDataPrefix + *audio
		return nil
	})
}

// EditImage runs an image edit on the given image, or the item's current one,
// and stores the result. Nothing changes when the collaborator returns no image.
func (m *MenuService) EditImage(ctx context.Context, id, imageBase64, instruction string) (models.MenuItem, error) {
	item, err := m.store.MenuItem(id)
	if err != nil {
		return models.MenuItem{}, err
	}
	if imageBase64 == "" {
		imageBase64 = item.ImageURL
	}
	if !strings.HasPrefix(imageBase64, "data:") && strings.Contains(imageBase64, "://") {
		return models.MenuItem{}, fmt.Errorf("%w: image must be base64 data, not a link", ErrInvalidInput)
	}
	if imageBase64 == "" {
		return models.MenuItem{}, fmt.Errorf("%w: no image to edit", ErrInvalidInput)
	}
	if strings.TrimSpace(instruction) == "" {
		instruction = defaultImageInstruction
	}

	edited := m.assistant.EditImage(ctx, imageBase64, instruction)
	if edited == nil {
		return models.MenuItem{}, ErrMediaUnavailable
	}
	return m.store.UpdateMenuItem(id, func(item *models.MenuItem) error {
		item.ImageURL = imageDataPrefix + *edited
		return nil
	})
}

package store

import (
	"fmt"
	"strings"

	"bistro-backend/internal/models"
)

// MenuFilter narrows MenuItems. Zero values match everything.
type MenuFilter struct {
	Category models.Category
	Query    string
}

// MenuItems returns items in creation order
func (s *Store) MenuItems(f MenuFilter) []models.MenuItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]models.MenuItem, 0, len(s.menuOrder))
	for _, id := range s.menuOrder {
		item := s.menu[id]
		if f.Category != "" && item.Category != f.Category {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(item.Name), q) {
			continue
		}
		out = append(out, *item)
	}
	return out
}

func (s *Store) MenuItem(id string) (models.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.menu[id]
	if !ok {
		return models.MenuItem{}, fmt.Errorf("menu item %s: %w", id, ErrNotFound)
	}
	return *item, nil
}

// CreateMenuItem stores a new item. Its category must be one of Categories.
func (s *Store) CreateMenuItem(item models.MenuItem) (models.MenuItem, error) {
	if err := item.Validate(); err != nil {
		return models.MenuItem{}, err
	}

	s.mu.Lock()
	if !s.hasCategory(item.Category) {
		s.mu.Unlock()
		return models.MenuItem{}, fmt.Errorf("%w: %s", ErrUnknownCategory, item.Category)
	}
	item.ID = s.newID()
	item.UpdatedAt = s.now()
	s.menu[item.ID] = &item
	s.menuOrder = append(s.menuOrder, item.ID)
	out := item
	s.mu.Unlock()

	s.notify([]Event{{Type: EventMenuUpdated, Menu: &out, At: out.UpdatedAt}})
	return out, nil
}

// UpdateMenuItem applies fn to a copy of the item and saves it if fn succeeds
// and the result is valid. Changing the category to one that no longer exists
// is rejected; keeping a deleted category is allowed.
func (s *Store) UpdateMenuItem(id string, fn func(*models.MenuItem) error) (models.MenuItem, error) {
	s.mu.Lock()
	current, ok := s.menu[id]
	if !ok {
		s.mu.Unlock()
		return models.MenuItem{}, fmt.Errorf("menu item %s: %w", id, ErrNotFound)
	}
	updated := *current
	if err := fn(&updated); err != nil {
		s.mu.Unlock()
		return models.MenuItem{}, err
	}
	updated.ID = id
	if err := updated.Validate(); err != nil {
		s.mu.Unlock()
		return models.MenuItem{}, err
	}
	if updated.Category != current.Category && !s.hasCategory(updated.Category) {
		s.mu.Unlock()
		return models.MenuItem{}, fmt.Errorf("%w: %s", ErrUnknownCategory, updated.Category)
	}
	updated.UpdatedAt = s.now()
	*current = updated
	s.mu.Unlock()

	s.notify([]Event{{Type: EventMenuUpdated, Menu: &updated, At: updated.UpdatedAt}})
	return updated, nil
}

// DeleteMenuItem removes the item. Lines already in drafts or orders keep their snapshot.
func (s *Store) DeleteMenuItem(id string) error {
	s.mu.Lock()
	item, ok := s.menu[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("menu item %s: %w", id, ErrNotFound)
	}
	removed := *item
	delete(s.menu, id)
	for i, mid := range s.menuOrder {
		if mid == id {
			s.menuOrder = append(s.menuOrder[:i], s.menuOrder[i+1:]...)
			break
		}
	}
	ev := Event{Type: EventMenuDeleted, Menu: &removed, At: s.now()}
	s.mu.Unlock()

	s.notify([]Event{ev})
	return nil
}

func (s *Store) Categories() []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Category(nil), s.categories...)
}

// categoriesEvent must be called with mu held
func (s *Store) categoriesEvent() Event {
	return Event{
		Type:       EventCategoriesUpdated,
		Categories: append([]models.Category{}, s.categories...),
		At:         s.now(),
	}
}

// AddCategory appends a custom category. Names are compared upper-case.
func (s *Store) AddCategory(name string) (models.Category, error) {
	c, err := models.ParseCategory(name)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	if s.hasCategory(c) {
		s.mu.Unlock()
		return "", fmt.Errorf("category %s: %w", c, ErrDuplicate)
	}
	s.categories = append(s.categories, c)
	ev := s.categoriesEvent()
	s.mu.Unlock()

	s.notify([]Event{ev})
	return c, nil
}

// DeleteCategory removes the category from the list. Items in it are kept.
func (s *Store) DeleteCategory(name string) error {
	c := models.Category(strings.ToUpper(strings.TrimSpace(name)))

	s.mu.Lock()
	for i, existing := range s.categories {
		if existing == c {
			s.categories = append(s.categories[:i], s.categories[i+1:]...)
			ev := s.categoriesEvent()
			s.mu.Unlock()

			s.notify([]Event{ev})
			return nil
		}
	}
	s.mu.Unlock()
	return fmt.Errorf("category %s: %w", c, ErrNotFound)
}

// hasCategory must be called with mu held
func (s *Store) hasCategory(c models.Category) bool {
	for _, existing := range s.categories {
		if existing == c {
			return true
		}
	}
	return false
}

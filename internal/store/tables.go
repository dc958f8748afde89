package store

import (
	"fmt"
	"sort"

	"bistro-backend/internal/models"
)

// Tables returns every table ordered by id
func (s *Store) Tables() []models.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Table, 0, len(s.tables))
	for _, t := range s.tables {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) Table(id int) (models.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tables[id]
	if !ok {
		return models.Table{}, fmt.Errorf("table %d: %w", id, ErrNotFound)
	}
	return *t, nil
}

// SetTableStatus is the floor manager's manual override. A table with an
// open draft or order can only be marked OCCUPIED.
func (s *Store) SetTableStatus(id int, status models.TableStatus) (models.Table, error) {
	s.mu.Lock()
	t, ok := s.tables[id]
	if !ok {
		s.mu.Unlock()
		return models.Table{}, fmt.Errorf("table %d: %w", id, ErrNotFound)
	}
	if status != models.TableStatusOccupied && (len(s.drafts[id]) > 0 || s.hasOpenOrder(t)) {
		s.mu.Unlock()
		return models.Table{}, fmt.Errorf("table %s: %w", t.Name, ErrTableBusy)
	}
	t.Status = status
	out := *t
	ev := tableEvent(t, s.now())
	s.mu.Unlock()

	s.notify([]Event{ev})
	return out, nil
}

// CleanTable moves a DIRTY table back to AVAILABLE
func (s *Store) CleanTable(id int) (models.Table, error) {
	s.mu.Lock()
	t, ok := s.tables[id]
	if !ok {
		s.mu.Unlock()
		return models.Table{}, fmt.Errorf("table %d: %w", id, ErrNotFound)
	}
	if t.Status != models.TableStatusDirty {
		s.mu.Unlock()
		return models.Table{}, fmt.Errorf("%w: table %s is %s", ErrInvalidTableState, t.Name, t.Status)
	}
	t.Status = models.TableStatusAvailable
	t.CurrentOrderID = ""
	out := *t
	ev := tableEvent(t, s.now())
	s.mu.Unlock()

	s.notify([]Event{ev})
	return out, nil
}

// hasOpenOrder must be called with mu held
func (s *Store) hasOpenOrder(t *models.Table) bool {
	if t.CurrentOrderID == "" {
		return false
	}
	o, ok := s.orderIndex[t.CurrentOrderID]
	return ok && !o.Status.IsTerminal()
}

// Draft returns a copy of the table's unsubmitted lines
func (s *Store) Draft(tableID int) ([]models.OrderItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.tables[tableID]; !ok {
		return nil, fmt.Errorf("table %d: %w", tableID, ErrNotFound)
	}
	return append([]models.OrderItem{}, s.drafts[tableID]...), nil
}

// AddDraftItem adds one unit of a menu item to the table's draft, appending a
// new line or incrementing an existing one. The first item seats an AVAILABLE
// table; a RESERVED table keeps its status until the draft is submitted.
// A table with an open order takes no new draft until that order is closed.
func (s *Store) AddDraftItem(tableID int, menuItemID string) ([]models.OrderItem, error) {
	s.mu.Lock()
	t, ok := s.tables[tableID]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("table %d: %w", tableID, ErrNotFound)
	}
	item, ok := s.menu[menuItemID]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("menu item %s: %w", menuItemID, ErrNotFound)
	}
	if !item.Available {
		s.mu.Unlock()
		return nil, fmt.Errorf("%s: %w", item.Name, ErrItemUnavailable)
	}
	if t.Status == models.TableStatusDirty {
		s.mu.Unlock()
		return nil, fmt.Errorf("table %s: %w", t.Name, ErrTableNotReady)
	}
	if s.hasOpenOrder(t) {
		s.mu.Unlock()
		return nil, fmt.Errorf("table %s: %w", t.Name, ErrTableBusy)
	}

	lines := s.drafts[tableID]
	found := false
	for i := range lines {
		if lines[i].MenuItemID == menuItemID {
			lines[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		lines = append(lines, item.ToOrderItem())
	}
	s.drafts[tableID] = lines

	var events []Event
	if t.Status == models.TableStatusAvailable {
		t.Status = models.TableStatusOccupied
		events = append(events, tableEvent(t, s.now()))
	}
	out := append([]models.OrderItem{}, lines...)
	s.mu.Unlock()

	s.notify(events)
	return out, nil
}

// RemoveDraftItem drops the whole line for menuItemID. The table stays OCCUPIED.
func (s *Store) RemoveDraftItem(tableID int, menuItemID string) ([]models.OrderItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tables[tableID]; !ok {
		return nil, fmt.Errorf("table %d: %w", tableID, ErrNotFound)
	}
	lines := s.drafts[tableID]
	for i := range lines {
		if lines[i].MenuItemID == menuItemID {
			lines = append(lines[:i:i], lines[i+1:]...)
			s.drafts[tableID] = lines
			return append([]models.OrderItem{}, lines...), nil
		}
	}
	return nil, fmt.Errorf("draft line %s: %w", menuItemID, ErrNotFound)
}

// SubmitDraft turns the table's draft into a PENDING dine-in order, clears the
// draft and records the order on the table. An empty draft is rejected with
// models.ErrEmptyOrder.
func (s *Store) SubmitDraft(tableID int, note string) (models.Order, error) {
	s.mu.Lock()
	t, ok := s.tables[tableID]
	if !ok {
		s.mu.Unlock()
		return models.Order{}, fmt.Errorf("table %d: %w", tableID, ErrNotFound)
	}
	lines := s.drafts[tableID]
	if len(lines) == 0 {
		s.mu.Unlock()
		return models.Order{}, fmt.Errorf("table %s: %w", t.Name, models.ErrEmptyOrder)
	}
	if s.hasOpenOrder(t) {
		s.mu.Unlock()
		return models.Order{}, fmt.Errorf("table %s: %w", t.Name, ErrTableBusy)
	}

	now := s.now()
	o, err := models.NewOrder(s.newID(), models.DineIn{TableID: tableID}, lines, note, now)
	if err != nil {
		s.mu.Unlock()
		return models.Order{}, err
	}
	s.insertOrder(&o)
	delete(s.drafts, tableID)
	t.Status = models.TableStatusOccupied
	t.CurrentOrderID = o.ID

	events := []Event{
		orderEvent(EventOrderCreated, &o, "", now),
		tableEvent(t, now),
	}
	out := o.Clone()
	s.mu.Unlock()

	s.notify(events)
	return out, nil
}

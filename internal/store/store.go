// Package store holds the live restaurant state: orders, tables, menu, drivers,
// reservations, staff users and the per-table POS drafts.
//
// Every exported operation is atomic. A rejected operation leaves the state
// untouched. Successful mutations emit events to subscribers after the lock is
// released, so subscribers may read from the store but must not block.
package store

import (
	"fmt"
	"sync"
	"time"

	"bistro-backend/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventType names a store mutation
type EventType string

const (
	EventOrderCreated        EventType = "order_created"
	EventOrderStatusChanged  EventType = "order_status_changed"
	EventOrderDriverAssigned EventType = "order_driver_assigned"
	EventTableUpdated        EventType = "table_updated"
	EventDriverUpdated       EventType = "driver_updated"
	EventMenuUpdated         EventType = "menu_updated"
	EventMenuDeleted         EventType = "menu_deleted"
	EventCategoriesUpdated   EventType = "categories_updated"
)

// Event describes one mutation. Only the fields relevant to Type are set and
// they are copies, safe to keep.
type Event struct {
	Type     EventType
	Order    *models.Order
	Previous models.OrderStatus
	Table    *models.Table
	Driver   *models.Driver
	Menu     *models.MenuItem
	// Categories is the full list after a category change
	Categories []models.Category
	At         time.Time
}

// Subscriber receives events in mutation order
type Subscriber func(Event)

// Options configures a new Store
type Options struct {
	TableCount int
	Logger     *zap.Logger
	// Now and NewID are overridable in tests
	Now   func() time.Time
	NewID func() string
}

type Store struct {
	mu sync.RWMutex

	orders     []*models.Order
	orderIndex map[string]*models.Order

	tables map[int]*models.Table
	drafts map[int][]models.OrderItem

	menu       map[string]*models.MenuItem
	menuOrder  []string
	categories []models.Category

	drivers     map[string]*models.Driver
	driverOrder []string

	reservations     map[string]*models.Reservation
	reservationOrder []string

	users        map[string]*models.User
	usersByEmail map[string]*models.User

	subMu       sync.RWMutex
	subscribers []Subscriber

	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// New creates a store with TableCount tables named T-1..T-N and the built-in menu categories.
func New(opts Options) *Store {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}

	s := &Store{
		orderIndex:   make(map[string]*models.Order),
		tables:       make(map[int]*models.Table),
		drafts:       make(map[int][]models.OrderItem),
		menu:         make(map[string]*models.MenuItem),
		categories:   append([]models.Category(nil), models.KnownCategories...),
		drivers:      make(map[string]*models.Driver),
		reservations: make(map[string]*models.Reservation),
		users:        make(map[string]*models.User),
		usersByEmail: make(map[string]*models.User),
		logger:       opts.Logger,
		now:          opts.Now,
		newID:        opts.NewID,
	}

	for i := 1; i <= opts.TableCount; i++ {
		s.tables[i] = &models.Table{
			ID:       i,
			Name:     fmt.Sprintf("T-%d", i),
			Capacity: models.DefaultCapacity(i),
			Status:   models.TableStatusAvailable,
		}
	}
	return s
}

// Subscribe registers fn for every future event
func (s *Store) Subscribe(fn Subscriber) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Now returns the store clock
func (s *Store) Now() time.Time {
	return s.now()
}

func (s *Store) notify(events []Event) {
	if len(events) == 0 {
		return
	}
	s.subMu.RLock()
	subs := append([]Subscriber(nil), s.subscribers...)
	s.subMu.RUnlock()

	for _, ev := range events {
		for _, fn := range subs {
			s.dispatch(fn, ev)
		}
	}
}

func (s *Store) dispatch(fn Subscriber, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("store subscriber panicked",
				zap.String("event", string(ev.Type)),
				zap.Any("panic", r))
		}
	}()
	fn(ev)
}

func orderEvent(t EventType, o *models.Order, prev models.OrderStatus, at time.Time) Event {
	c := o.Clone()
	return Event{Type: t, Order: &c, Previous: prev, At: at}
}

func tableEvent(t *models.Table, at time.Time) Event {
	c := *t
	return Event{Type: EventTableUpdated, Table: &c, At: at}
}

func driverEvent(d *models.Driver, at time.Time) Event {
	c := *d
	return Event{Type: EventDriverUpdated, Driver: &c, At: at}
}

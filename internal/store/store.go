// Package store holds the single in-memory authority over the shop's
// products, orders, phone database, notes, settings and transient UI state.
//
// A Store is created explicitly with New and handed to its consumers. Every
// mutator runs to completion under one lock and then notifies subscribers
// with the slices it changed and a snapshot of the committed state.
// Subscribers run while the lock is held and must not call back into the
// Store.
package store

import (
	"errors"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"shopdesk/internal/derive"
	"shopdesk/internal/models"
)

var (
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidSortOption = errors.New("invalid sort option")
	ErrInvalidCollection = errors.New("invalid search collection")
)

// Slice names a part of the state that a mutation changed.
type Slice string

const (
	SliceProducts Slice = "products"
	SliceOrders   Slice = "orders"
	SliceDatabase Slice = "database"
	SliceNotes    Slice = "notes"
	SliceTheme    Slice = "theme"
	SliceSettings Slice = "settings"
	// SliceUI covers filters, sort option and sidebar state. It is never persisted.
	SliceUI Slice = "ui"
)

// Event describes one committed mutation.
type Event struct {
	Slices     []Slice
	Snapshot   models.Snapshot
	OccurredAt time.Time
}

// Has reports whether the event changed s.
func (e Event) Has(s Slice) bool {
	return slices.Contains(e.Slices, s)
}

type Listener func(Event)

type subscription struct {
	id int
	fn Listener
}

type Store struct {
	mu sync.Mutex

	products []models.Product
	orders   []models.Order
	database []models.PhoneEntry
	notes    []models.Note
	theme    models.Theme
	settings models.Settings

	filters     models.SearchFilters
	sortOption  models.SortOption
	sidebarOpen bool

	subs   []subscription
	nextID int

	now   func() time.Time
	newID func() string
	log   *logrus.Logger
}

type Option func(*Store)

// WithClock overrides the source of creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides the generator of product, order and note ids.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

func WithLogger(logger *logrus.Logger) Option {
	return func(s *Store) { s.log = logger }
}

// New builds a store seeded with a persisted snapshot.
func New(snapshot models.Snapshot, opts ...Option) *Store {
	snap := snapshot.Clone()
	if snap.Theme != models.ThemeDark {
		snap.Theme = models.ThemeLight
	}

	s := &Store{
		products:   snap.Products,
		orders:     snap.Orders,
		database:   snap.Database,
		notes:      snap.Notes,
		theme:      snap.Theme,
		settings:   snap.Settings,
		filters:    models.DefaultSearchFilters(),
		sortOption: models.SortDefault,
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logrus.New()
		s.log.SetOutput(io.Discard)
	}
	return s
}

// Subscribe registers fn for change notifications and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.subs = slices.DeleteFunc(s.subs, func(sub subscription) bool { return sub.id == id })
	}
}

// commit notifies subscribers. Callers hold s.mu.
func (s *Store) commit(changed ...Slice) {
	if len(s.subs) == 0 {
		return
	}
	event := Event{
		Slices:     changed,
		Snapshot:   s.snapshotLocked(),
		OccurredAt: s.now().UTC(),
	}
	for _, sub := range s.subs {
		sub.fn(event)
	}
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

func (s *Store) snapshotLocked() models.Snapshot {
	return models.Snapshot{
		Products: s.products,
		Orders:   s.orders,
		Database: s.database,
		Notes:    s.notes,
		Theme:    s.theme,
		Settings: s.settings,
	}.Clone()
}

// Snapshot returns a deep copy of the persisted state.
func (s *Store) Snapshot() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) Products() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CloneProducts(s.products)
}

func (s *Store) Orders() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CloneOrders(s.orders)
}

// Database returns the phone index.
func (s *Store) Database() []models.PhoneEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CloneDatabase(s.database)
}

// FilteredProducts is the catalog view under the current filters and sort option.
func (s *Store) FilteredProducts() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return derive.Products(s.products, s.filters, s.sortOption)
}

// FilteredOrders is the order list view under the current filters and sort option.
func (s *Store) FilteredOrders() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return derive.Orders(s.orders, s.filters, s.sortOption)
}

// FilteredDatabase is the phone database view under the current filters.
func (s *Store) FilteredDatabase() []models.PhoneEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return derive.Database(s.database, s.filters)
}

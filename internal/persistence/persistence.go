// Package persistence maps the store's persisted slices onto storage keys.
//
// Layout: products, orders, database and notes hold JSON arrays, settings
// holds a JSON object and theme holds the bare theme name. Each change
// rewrites the whole value of the affected key.
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"shopdesk/internal/models"
	"shopdesk/internal/storage"
	"shopdesk/internal/store"
)

const (
	KeyProducts = "products"
	KeyOrders   = "orders"
	KeyDatabase = "database"
	KeyNotes    = "notes"
	KeyTheme    = "theme"
	KeySettings = "settings"
)

// keyBySlice maps persisted slices to keys. store.SliceUI has no key.
var keyBySlice = map[store.Slice]string{
	store.SliceProducts: KeyProducts,
	store.SliceOrders:   KeyOrders,
	store.SliceDatabase: KeyDatabase,
	store.SliceNotes:    KeyNotes,
	store.SliceTheme:    KeyTheme,
	store.SliceSettings: KeySettings,
}

const defaultWriteTimeout = 5 * time.Second

type Adapter struct {
	kv      storage.KV
	log     *logrus.Logger
	timeout time.Duration
	onWrite func(key string, err error)
}

type Option func(*Adapter)

// WithWriteHook registers a callback invoked after every write attempt.
func WithWriteHook(fn func(key string, err error)) Option {
	return func(a *Adapter) { a.onWrite = fn }
}

func WithWriteTimeout(d time.Duration) Option {
	return func(a *Adapter) { a.timeout = d }
}

func New(kv storage.KV, logger *logrus.Logger, opts ...Option) *Adapter {
	a := &Adapter{kv: kv, log: logger, timeout: defaultWriteTimeout}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Load reads the persisted snapshot. Missing keys yield defaults. A value
// that cannot be decoded is logged and replaced by its default; the stored
// bytes stay untouched until that slice is written again. Only storage
// failures are returned as errors.
func (a *Adapter) Load(ctx context.Context) (models.Snapshot, error) {
	snap := models.EmptySnapshot()

	if err := loadJSON(ctx, a, KeyProducts, &snap.Products); err != nil {
		return models.Snapshot{}, err
	}
	if err := loadJSON(ctx, a, KeyOrders, &snap.Orders); err != nil {
		return models.Snapshot{}, err
	}
	if err := loadJSON(ctx, a, KeyDatabase, &snap.Database); err != nil {
		return models.Snapshot{}, err
	}
	if err := loadJSON(ctx, a, KeyNotes, &snap.Notes); err != nil {
		return models.Snapshot{}, err
	}
	if err := loadJSON(ctx, a, KeySettings, &snap.Settings); err != nil {
		return models.Snapshot{}, err
	}

	raw, err := a.kv.Get(ctx, KeyTheme)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		return models.Snapshot{}, fmt.Errorf("persistence: load %s: %w", KeyTheme, err)
	default:
		snap.Theme = parseTheme(raw)
	}

	for i := range snap.Orders {
		if !snap.Orders[i].Status.Valid() {
			a.log.WithFields(logrus.Fields{
				"orderId": snap.Orders[i].ID,
				"status":  snap.Orders[i].Status,
			}).Warn("stored order has invalid status, using default")
			snap.Orders[i].Status = models.DefaultOrderStatus
		}
	}

	return snap.Clone(), nil
}

// loadJSON decodes key over the default held in dst. dst is left unchanged
// when the key is missing or its value is malformed.
func loadJSON[T any](ctx context.Context, a *Adapter, key string, dst *T) error {
	raw, err := a.kv.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("persistence: load %s: %w", key, err)
	}

	v := *dst
	if err := json.Unmarshal(raw, &v); err != nil {
		a.log.WithError(err).WithField("key", key).Warn("stored value is malformed, falling back to default")
		return nil
	}
	*dst = v
	return nil
}

func parseTheme(raw []byte) models.Theme {
	v := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if models.Theme(v) == models.ThemeDark {
		return models.ThemeDark
	}
	return models.ThemeLight
}

// Save writes the value of one key from snap.
func (a *Adapter) Save(ctx context.Context, key string, snap models.Snapshot) error {
	value, err := encode(key, snap)
	if err != nil {
		return err
	}
	err = a.kv.Set(ctx, key, value)
	if a.onWrite != nil {
		a.onWrite(key, err)
	}
	if err != nil {
		return fmt.Errorf("persistence: save %s: %w", key, err)
	}
	return nil
}

// SaveAll writes every persisted key.
func (a *Adapter) SaveAll(ctx context.Context, snap models.Snapshot) error {
	snap = snap.Clone()
	var errs []error
	for _, key := range []string{KeyProducts, KeyOrders, KeyDatabase, KeyNotes, KeyTheme, KeySettings} {
		if err := a.Save(ctx, key, snap); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Handle is a store.Listener that rewrites the slices named by the event.
// Failures are logged and not retried.
func (a *Adapter) Handle(event store.Event) {
	for _, slice := range event.Slices {
		key, ok := keyBySlice[slice]
		if !ok {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		err := a.Save(ctx, key, event.Snapshot)
		cancel()
		if err != nil {
			a.log.WithError(err).WithField("key", key).Error("failed to persist state")
		}
	}
}

func encode(key string, snap models.Snapshot) ([]byte, error) {
	var v any
	switch key {
	case KeyProducts:
		v = snap.Products
	case KeyOrders:
		v = snap.Orders
	case KeyDatabase:
		v = snap.Database
	case KeyNotes:
		v = snap.Notes
	case KeySettings:
		v = snap.Settings
	case KeyTheme:
		return []byte(snap.Theme), nil
	default:
		return nil, fmt.Errorf("persistence: unknown key %q", key)
	}
	return json.Marshal(v)
}

// Package currency converts between Chinese yuan and Kazakhstani tenge using
// a daily exchange rate fetched from a public rates API and cached in storage.
package currency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"shopdesk/internal/storage"
)

const (
	DefaultEndpoint        = "https://open.er-api.com/v6/latest/CNY"
	DefaultMaxAge          = 24 * time.Hour
	DefaultRefreshInterval = time.Minute

	KeyRate      = "yuanToTengeRate"
	KeyUpdatedAt = "yuanToTengeRateUpdated"
)

var (
	ErrNoRate           = errors.New("currency: no exchange rate available")
	ErrRefreshThrottled = errors.New("currency: refresh requested too often")
)

// Quote is the CNY→KZT rate together with the time it was fetched. Stale is
// set when the rate comes from the cache because a fetch failed.
type Quote struct {
	Rate      float64   `json:"rate"`
	UpdatedAt time.Time `json:"updatedAt"`
	Stale     bool      `json:"stale"`
}

type Converter struct {
	kv       storage.KV
	client   *http.Client
	endpoint string
	maxAge   time.Duration
	now      func() time.Time
	limiter  *rate.Limiter
	log      *logrus.Logger
}

type Option func(*Converter)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Converter) { c.client = client }
}

func WithEndpoint(url string) Option {
	return func(c *Converter) {
		if url != "" {
			c.endpoint = url
		}
	}
}

func WithMaxAge(d time.Duration) Option {
	return func(c *Converter) {
		if d > 0 {
			c.maxAge = d
		}
	}
}

// WithRefreshInterval sets the minimum spacing of forced refreshes.
func WithRefreshInterval(d time.Duration) Option {
	return func(c *Converter) {
		if d > 0 {
			c.limiter = rate.NewLimiter(rate.Every(d), 1)
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Converter) { c.now = now }
}

func New(kv storage.KV, logger *logrus.Logger, opts ...Option) *Converter {
	c := &Converter{
		kv:       kv,
		client:   &http.Client{Timeout: 10 * time.Second},
		endpoint: DefaultEndpoint,
		maxAge:   DefaultMaxAge,
		now:      time.Now,
		limiter:  rate.NewLimiter(rate.Every(DefaultRefreshInterval), 1),
		log:      logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Rate returns the cached rate while it is younger than the max age and
// fetches a new one otherwise.
func (c *Converter) Rate(ctx context.Context) (Quote, error) {
	cached, ok, err := c.cached(ctx)
	if err != nil {
		return Quote{}, err
	}
	if ok && !cached.UpdatedAt.IsZero() && c.now().Sub(cached.UpdatedAt) < c.maxAge {
		return cached, nil
	}
	return c.fetchOrFallback(ctx, cached, ok)
}

// Refresh fetches a new rate regardless of the cache age.
func (c *Converter) Refresh(ctx context.Context) (Quote, error) {
	if !c.limiter.Allow() {
		return Quote{}, ErrRefreshThrottled
	}
	cached, ok, err := c.cached(ctx)
	if err != nil {
		return Quote{}, err
	}
	return c.fetchOrFallback(ctx, cached, ok)
}

func (c *Converter) fetchOrFallback(ctx context.Context, cached Quote, haveCached bool) (Quote, error) {
	fetched, err := c.fetch(ctx)
	if err == nil {
		c.store(ctx, fetched)
		return fetched, nil
	}

	if !haveCached {
		c.log.WithError(err).Error("exchange rate fetch failed and no cached rate exists")
		return Quote{}, fmt.Errorf("%w: %v", ErrNoRate, err)
	}
	c.log.WithError(err).WithField("updatedAt", cached.UpdatedAt).Warn("exchange rate fetch failed, using cached rate")
	cached.Stale = true
	return cached, nil
}

type ratesResponse struct {
	Result string             `json:"result"`
	Rates  map[string]float64 `json:"rates"`
}

func (c *Converter) fetch(ctx context.Context) (Quote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return Quote{}, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return Quote{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Quote{}, fmt.Errorf("rates api responded %d", resp.StatusCode)
	}
	var body ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Quote{}, fmt.Errorf("decode rates response: %w", err)
	}
	kzt := body.Rates["KZT"]
	if kzt <= 0 {
		return Quote{}, errors.New("rates response has no KZT rate")
	}
	return Quote{Rate: kzt, UpdatedAt: c.now().UTC()}, nil
}

// cached reads the stored rate. A rate without a readable timestamp is
// returned with a zero UpdatedAt so it can still serve as a fallback.
func (c *Converter) cached(ctx context.Context) (Quote, bool, error) {
	raw, err := c.kv.Get(ctx, KeyRate)
	if errors.Is(err, storage.ErrNotFound) {
		return Quote{}, false, nil
	}
	if err != nil {
		return Quote{}, false, fmt.Errorf("currency: load cached rate: %w", err)
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(string(raw)), 64)
	if err != nil || value <= 0 {
		c.log.WithField("value", string(raw)).Warn("cached exchange rate is malformed, ignoring it")
		return Quote{}, false, nil
	}

	q := Quote{Rate: value}
	if rawTime, err := c.kv.Get(ctx, KeyUpdatedAt); err == nil {
		if ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(string(rawTime))); err == nil {
			q.UpdatedAt = ts.UTC()
		}
	}
	return q, true, nil
}

func (c *Converter) store(ctx context.Context, q Quote) {
	if err := c.kv.Set(ctx, KeyRate, []byte(strconv.FormatFloat(q.Rate, 'f', -1, 64))); err != nil {
		c.log.WithError(err).Error("failed to cache exchange rate")
		return
	}
	if err := c.kv.Set(ctx, KeyUpdatedAt, []byte(q.UpdatedAt.Format(time.RFC3339Nano))); err != nil {
		c.log.WithError(err).Error("failed to cache exchange rate timestamp")
	}
}

// YuanToTenge converts to whole tenge.
func YuanToTenge(amount, rate float64) float64 {
	return math.Round(amount * rate)
}

// TengeToYuan converts to yuan rounded to two decimals. A non-positive rate
// yields zero.
func TengeToYuan(amount, rate float64) float64 {
	if rate <= 0 {
		return 0
	}
	return math.Round(amount/rate*100) / 100
}

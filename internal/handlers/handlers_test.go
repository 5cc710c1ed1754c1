package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"shopdesk/internal/currency"
	"shopdesk/internal/models"
	"shopdesk/internal/store"
)

type fakeRates struct {
	quote currency.Quote
	err   error
}

func (f fakeRates) Rate(context.Context) (currency.Quote, error)    { return f.quote, f.err }
func (f fakeRates) Refresh(context.Context) (currency.Quote, error) { return f.quote, f.err }

type testServer struct {
	router *gin.Engine
	store  *store.Store
	token  string
}

func newTestServer(t *testing.T, mutate ...func(*Deps)) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	clock := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	seq := 0
	s := store.New(models.EmptySnapshot(),
		store.WithLogger(quiet),
		store.WithClock(func() time.Time {
			clock = clock.Add(time.Minute)
			return clock
		}),
		store.WithIDGenerator(func() string {
			seq++
			return "id-" + strconv.Itoa(seq)
		}),
	)

	deps := Deps{
		Store:          s,
		Rates:          fakeRates{quote: currency.Quote{Rate: 70, UpdatedAt: clock}},
		Logger:         quiet,
		AccessTokenTTL: time.Hour,
	}
	for _, fn := range mutate {
		fn(&deps)
	}
	return &testServer{router: NewRouter(deps), store: s}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if ts.token != "" {
		req.Header.Set("Authorization", "Bearer "+ts.token)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type listResponse[T any] struct {
	Data       []T `json:"data"`
	Pagination struct {
		Page       int `json:"page"`
		Limit      int `json:"limit"`
		Total      int `json:"total"`
		TotalPages int `json:"totalPages"`
	} `json:"pagination"`
}

type validationResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

/* =======================
   NAVIGATION
======================= */

func TestHomeRedirectsToCatalog(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/products", rec.Header().Get("Location"))
}

func TestUnknownPathRendersNotFoundView(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/nowhere", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "not found", body["error"])
	assert.Equal(t, "/nowhere", body["path"])
}

/* =======================
   PRODUCTS
======================= */

func TestCreateProductAndListCatalog(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/products", gin.H{"name": "  Chair ", "price": 5000, "quantity": 10})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[models.Product](t, rec)
	assert.Equal(t, "id-1", created.ID)
	assert.Equal(t, "Chair", created.Name)
	assert.Nil(t, created.Image)

	rec = ts.do(t, http.MethodGet, "/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[listResponse[models.Product]](t, rec)
	require.Len(t, list.Data, 1)
	assert.Equal(t, created, list.Data[0])
	assert.Equal(t, 1, list.Pagination.Total)
}

func TestCreateProductReportsFieldErrors(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/products", gin.H{"price": 0, "quantity": -1})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[validationResponse](t, rec)
	assert.Equal(t, "validation failed", body.Error)
	assert.Equal(t, "is required", body.Fields["name"])
	assert.Equal(t, "must be > 0", body.Fields["price"])
	assert.Equal(t, "must be ≥ 0", body.Fields["quantity"])
	assert.Empty(t, ts.store.Products())
}

func TestUpdateProductKeepsImageWhenOmitted(t *testing.T) {
	ts := newTestServer(t)
	image := "data:image/png;base64,AAAA"
	p := ts.store.AddProduct(models.ProductInput{Name: "Chair", Price: 5000, Quantity: 1, Image: &image})

	rec := ts.do(t, http.MethodPut, "/products/"+p.ID, gin.H{"name": "Stool", "price": 4000, "quantity": 2})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[models.Product](t, rec)
	assert.Equal(t, "Stool", updated.Name)
	require.NotNil(t, updated.Image)
	assert.Equal(t, image, *updated.Image)
	assert.Equal(t, p.CreatedAt, updated.CreatedAt)

	rec = ts.do(t, http.MethodPut, "/products/missing", gin.H{"name": "X", "price": 1, "quantity": 0})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdjustQuantityClampsAtZero(t *testing.T) {
	ts := newTestServer(t)
	p := ts.store.AddProduct(models.ProductInput{Name: "Chair", Price: 5000, Quantity: 10})

	rec := ts.do(t, http.MethodPost, "/products/"+p.ID+"/adjust", gin.H{"delta": -15})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decode[models.Product](t, rec).Quantity)

	rec = ts.do(t, http.MethodPost, "/products/"+p.ID+"/adjust", gin.H{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteProduct(t *testing.T) {
	ts := newTestServer(t)
	p := ts.store.AddProduct(models.ProductInput{Name: "Chair"})

	assert.Equal(t, http.StatusNoContent, ts.do(t, http.MethodDelete, "/products/"+p.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodDelete, "/products/"+p.ID, nil).Code)
}

func TestUploadProductImageStoresDataURI(t *testing.T) {
	ts := newTestServer(t)
	p := ts.store.AddProduct(models.ProductInput{Name: "Chair"})

	body, contentType := multipartImage(t, "chair.png", pngHeader)
	req := httptest.NewRequest(http.MethodPost, "/products/"+p.ID+"/image", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	stored, ok := ts.store.Product(p.ID)
	require.True(t, ok)
	require.NotNil(t, stored.Image)
	assert.Contains(t, *stored.Image, "data:image/png;base64,")
	assert.Equal(t, "Chair", stored.Name)
}

func TestUploadProductImageKeepsStockAndDetails(t *testing.T) {
	ts := newTestServer(t)
	p := ts.store.AddProduct(models.ProductInput{Name: "Chair", Price: 5000, Quantity: 3})
	ts.store.AdjustQuantity(p.ID, 4)

	body, contentType := multipartImage(t, "chair.png", pngHeader)
	req := httptest.NewRequest(http.MethodPost, "/products/"+p.ID+"/image", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[models.Product](t, rec)
	assert.Equal(t, 7, got.Quantity)
	assert.Equal(t, 5000.0, got.Price)
	require.NotNil(t, got.Image)

	rec = httptest.NewRecorder()
	body, contentType = multipartImage(t, "chair.png", pngHeader)
	req = httptest.NewRequest(http.MethodPost, "/products/missing/image", body)
	req.Header.Set("Content-Type", contentType)
	ts.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalogPagination(t *testing.T) {
	ts := newTestServer(t)
	for i := range 5 {
		ts.store.AddProduct(models.ProductInput{Name: "P" + strconv.Itoa(i)})
	}

	rec := ts.do(t, http.MethodGet, "/products?page=2&limit=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[listResponse[models.Product]](t, rec)
	require.Len(t, list.Data, 2)
	assert.Equal(t, "P2", list.Data[0].Name)
	assert.Equal(t, 3, list.Pagination.TotalPages)

	rec = ts.do(t, http.MethodGet, "/products?page=9&limit=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[listResponse[models.Product]](t, rec).Data)

	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/products?page=0", nil).Code)

	rec = ts.do(t, http.MethodGet, "/products?page=9223372036854775807&limit=200", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	list = decode[listResponse[models.Product]](t, rec)
	assert.Empty(t, list.Data)
	assert.Equal(t, 5, list.Pagination.Total)
}

/* =======================
   ORDERS AND DATABASE
======================= */

func validOrder() gin.H {
	return gin.H{
		"customerName": "Айгуль",
		"date":         "2024-05-01",
		"phoneNumber":  "+7 (700) 123-45-67",
		"products": []gin.H{
			{"productId": "id-9", "name": "Chair", "quantity": 2, "price": 5000},
			{"name": "Lamp", "quantity": 1, "price": 1500.5},
		},
	}
}

func TestCreateOrderComputesTotalAndIndexesPhone(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/orders", validOrder())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decode[models.Order](t, rec)
	assert.Equal(t, 11500.5, order.TotalAmount)
	assert.Equal(t, models.StatusInTransit, order.Status)

	rec = ts.do(t, http.MethodGet, "/database", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[listResponse[phoneEntryView]](t, rec)
	require.Len(t, list.Data, 1)
	entry := list.Data[0]
	assert.Equal(t, "+7 (700) 123-45-67", entry.PhoneNumber)
	require.Len(t, entry.Orders, 1)
	assert.Equal(t, "Chair", entry.Orders[0].ProductName)
	assert.Equal(t, 11500.5, entry.Total)
}

func TestCreateOrderUnknownStatusFallsBackToDefault(t *testing.T) {
	ts := newTestServer(t)
	body := validOrder()
	body["status"] = "processing"
	body["totalAmount"] = 100

	rec := ts.do(t, http.MethodPost, "/orders", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	order := decode[models.Order](t, rec)
	assert.Equal(t, models.StatusInTransit, order.Status)
	assert.Equal(t, 100.0, order.TotalAmount)
}

func TestCreateOrderValidatesForm(t *testing.T) {
	ts := newTestServer(t)
	body := validOrder()
	body["phoneNumber"] = "call me"
	body["date"] = "01.05.2024"
	body["products"] = []gin.H{{"name": "Chair", "quantity": 0, "price": 1}}

	rec := ts.do(t, http.MethodPost, "/orders", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	fields := decode[validationResponse](t, rec).Fields
	assert.Equal(t, "invalid phone number", fields["phoneNumber"])
	assert.Contains(t, fields["date"], "2006-01-02")
	assert.Equal(t, "must be ≥ 1", fields["products[0].quantity"])
	assert.Empty(t, ts.store.Orders())
}

func TestOrderStatusPatch(t *testing.T) {
	ts := newTestServer(t)
	order := ts.store.AddOrder(models.OrderInput{CustomerName: "A", Date: "2024-05-01"})

	rec := ts.do(t, http.MethodPatch, "/orders/"+order.ID+"/status", gin.H{"status": "shipped"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[validationResponse](t, rec).Fields["status"], string(models.StatusInStock))

	rec = ts.do(t, http.MethodPatch, "/orders/"+order.ID+"/status", gin.H{"status": models.StatusInStock})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StatusInStock, decode[models.Order](t, rec).Status)

	rec = ts.do(t, http.MethodPatch, "/orders/missing/status", gin.H{"status": models.StatusInStock})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteOrderKeepsPurchaseHistory(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodPost, "/orders", validOrder())
	require.Equal(t, http.StatusCreated, rec.Code)
	order := decode[models.Order](t, rec)

	require.Equal(t, http.StatusNoContent, ts.do(t, http.MethodDelete, "/orders/"+order.ID, nil).Code)

	phone := url.PathEscape(order.PhoneNumber)
	rec = ts.do(t, http.MethodGet, "/database/"+phone, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	entry := decode[phoneEntryView](t, rec)
	require.Len(t, entry.Orders, 1)
	assert.True(t, entry.Orders[0].IsDeleted)

	rec = ts.do(t, http.MethodDelete, "/database/"+phone+"/orders/"+order.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, ts.store.Database())
}

func TestDeletePhoneEntry(t *testing.T) {
	ts := newTestServer(t)
	ts.store.AddOrder(models.OrderInput{CustomerName: "A", PhoneNumber: "87001234567"})

	assert.Equal(t, http.StatusNoContent, ts.do(t, http.MethodDelete, "/database/87001234567", nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodDelete, "/database/87001234567", nil).Code)
	assert.Len(t, ts.store.Orders(), 1)
}

/* =======================
   NOTES, SETTINGS, UI
======================= */

func TestNotesAreListedNewestFirst(t *testing.T) {
	ts := newTestServer(t)
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/notes", gin.H{"title": "first", "content": "a"}).Code)
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/notes", gin.H{"title": "second", "content": "b"}).Code)

	rec := ts.do(t, http.MethodPost, "/notes", gin.H{"title": "  ", "content": "b"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "is required", decode[validationResponse](t, rec).Fields["title"])

	list := decode[listResponse[models.Note]](t, ts.do(t, http.MethodGet, "/notes", nil))
	require.Len(t, list.Data, 2)
	assert.Equal(t, "second", list.Data[0].Title)

	assert.Equal(t, http.StatusNoContent, ts.do(t, http.MethodDelete, "/notes/"+list.Data[0].ID, nil).Code)
	assert.Len(t, ts.store.Notes(), 1)
}

func TestSettingsAndThemeToggle(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/settings/theme/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dark", decode[map[string]string](t, rec)["theme"])

	rec = ts.do(t, http.MethodPatch, "/settings", gin.H{"showCurrencyConverter": false})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, ts.store.Settings().ShowCurrencyConverter)
	assert.Equal(t, models.ThemeDark, ts.store.Theme())
}

func TestFiltersAndSortShapeTheCatalog(t *testing.T) {
	ts := newTestServer(t)
	ts.store.AddProduct(models.ProductInput{Name: "Стул", Price: 5000, Quantity: 3})
	ts.store.AddProduct(models.ProductInput{Name: "Лампа", Price: 1200, Quantity: 0})
	ts.store.AddProduct(models.ProductInput{Name: "Шкаф", Price: 90000, Quantity: 1})

	rec := ts.do(t, http.MethodPatch, "/ui/filters", gin.H{"type": "products", "minQuantity": 1})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPut, "/ui/sort", gin.H{"option": "priceHighToLow"}).Code)

	list := decode[listResponse[models.Product]](t, ts.do(t, http.MethodGet, "/products", nil))
	require.Len(t, list.Data, 2)
	assert.Equal(t, "Шкаф", list.Data[0].Name)
	assert.Equal(t, "Стул", list.Data[1].Name)

	rec = ts.do(t, http.MethodPatch, "/ui/filters", gin.H{"minQuantity": nil})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, ts.store.FilteredProducts(), 3)

	rec = ts.do(t, http.MethodPatch, "/ui/filters", gin.H{"type": "customers", "minPrice": "cheap"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	fields := decode[validationResponse](t, rec).Fields
	assert.Contains(t, fields, "type")
	assert.Contains(t, fields, "minPrice")

	rec = ts.do(t, http.MethodPut, "/ui/sort", gin.H{"option": "random"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, models.SortPriceHighToLow, ts.store.SortOption())
}

func TestSidebarState(t *testing.T) {
	ts := newTestServer(t)
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPut, "/ui/sidebar", gin.H{"open": true}).Code)

	state := decode[map[string]any](t, ts.do(t, http.MethodGet, "/ui", nil))
	assert.Equal(t, true, state["sidebarOpen"])
	assert.Equal(t, "default", state["sortOption"])
}

/* =======================
   CURRENCY
======================= */

func TestConvertCurrency(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/currency/convert?from=CNY&amount=10.5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, 735.0, body["result"])
	assert.Equal(t, "KZT", body["to"])
	assert.NotContains(t, body, "warning")

	rec = ts.do(t, http.MethodGet, "/currency/convert?from=KZT&amount=1000", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 14.29, decode[map[string]any](t, rec)["result"])

	rec = ts.do(t, http.MethodGet, "/currency/convert?from=USD&amount=1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStaleRateCarriesWarning(t *testing.T) {
	ts := newTestServer(t, func(d *Deps) {
		d.Rates = fakeRates{quote: currency.Quote{Rate: 65, Stale: true}}
	})

	body := decode[map[string]any](t, ts.do(t, http.MethodGet, "/currency/rate", nil))
	assert.Equal(t, true, body["stale"])
	assert.Equal(t, staleRateWarning, body["warning"])
}

func TestRateErrorsMapToStatus(t *testing.T) {
	cases := []struct {
		err  error
		path string
		want int
	}{
		{currency.ErrNoRate, "/currency/rate", http.StatusServiceUnavailable},
		{currency.ErrRefreshThrottled, "/currency/refresh", http.StatusTooManyRequests},
		{errors.New("boom"), "/currency/rate", http.StatusInternalServerError},
	}
	for _, tc := range cases {
		ts := newTestServer(t, func(d *Deps) { d.Rates = fakeRates{err: tc.err} })
		method := http.MethodGet
		if tc.path == "/currency/refresh" {
			method = http.MethodPost
		}
		assert.Equal(t, tc.want, ts.do(t, method, tc.path, nil).Code, tc.path)
	}
}

/* =======================
   AUTH AND HEALTH
======================= */

func TestMutationsRequireTokenWhenAuthEnabled(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("1234"), bcrypt.MinCost)
	require.NoError(t, err)
	ts := newTestServer(t, func(d *Deps) {
		d.JWTSecret = "secret"
		d.PasscodeHash = string(hash)
	})

	assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodPost, "/notes", gin.H{"title": "t", "content": "c"}).Code)
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/notes", nil).Code)

	assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodPost, "/auth/token", gin.H{"passcode": "0000"}).Code)

	rec := ts.do(t, http.MethodPost, "/auth/token", gin.H{"passcode": "1234"})
	require.Equal(t, http.StatusOK, rec.Code)
	ts.token = decode[map[string]string](t, rec)["token"]
	require.NotEmpty(t, ts.token)

	assert.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/notes", gin.H{"title": "t", "content": "c"}).Code)
}

func TestTokenEndpointDisabledWithoutSecret(t *testing.T) {
	ts := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodPost, "/auth/token", gin.H{"passcode": "1234"}).Code)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/health", nil).Code)

	failing := newTestServer(t, func(d *Deps) {
		d.HealthCheck = func(context.Context) error { return errors.New("down") }
	})
	assert.Equal(t, http.StatusServiceUnavailable, failing.do(t, http.MethodGet, "/health", nil).Code)
}

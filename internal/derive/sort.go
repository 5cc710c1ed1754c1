package derive

import (
	"cmp"
	"slices"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"shopdesk/internal/models"
)

// Kind tells which entity an Entry carries.
type Kind uint8

const (
	KindProduct Kind = iota + 1
	KindOrder
)

// Entry is a sortable product or order. Kind selects the populated field.
type Entry struct {
	Kind    Kind
	Product models.Product
	Order   models.Order
}

func ProductEntry(p models.Product) Entry { return Entry{Kind: KindProduct, Product: p} }

func OrderEntry(o models.Order) Entry { return Entry{Kind: KindOrder, Order: o} }

// Name is the product name or the order's customer name.
func (e Entry) Name() string {
	if e.Kind == KindOrder {
		return e.Order.CustomerName
	}
	return e.Product.Name
}

// Amount is the product price or the order total.
func (e Entry) Amount() float64 {
	if e.Kind == KindOrder {
		return e.Order.TotalAmount
	}
	return e.Product.Price
}

// CreatedAt is the creation time; a missing timestamp counts as the Unix epoch.
func (e Entry) CreatedAt() time.Time {
	t := e.Product.CreatedAt
	if e.Kind == KindOrder {
		t = e.Order.CreatedAt
	}
	if t.IsZero() {
		return time.Unix(0, 0)
	}
	return t
}

// Comparator returns the ordering for option, or nil when the option keeps insertion order.
func Comparator(option models.SortOption) func(a, b Entry) int {
	switch option {
	case models.SortAlphabetical:
		// collate.Collator keeps internal buffers, so each comparator owns one.
		c := collate.New(language.Russian)
		return func(a, b Entry) int {
			return c.CompareString(a.Name(), b.Name())
		}
	case models.SortPriceLowToHigh:
		return func(a, b Entry) int { return cmp.Compare(a.Amount(), b.Amount()) }
	case models.SortPriceHighToLow:
		return func(a, b Entry) int { return cmp.Compare(b.Amount(), a.Amount()) }
	case models.SortDateNewest:
		return func(a, b Entry) int { return b.CreatedAt().Compare(a.CreatedAt()) }
	case models.SortDateOldest:
		return func(a, b Entry) int { return a.CreatedAt().Compare(b.CreatedAt()) }
	default:
		return nil
	}
}

// Sort returns entries stably ordered by option.
func Sort(entries []Entry, option models.SortOption) []Entry {
	out := slices.Clone(entries)
	if cmpFn := Comparator(option); cmpFn != nil {
		slices.SortStableFunc(out, cmpFn)
	}
	return out
}

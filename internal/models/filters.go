package models

// CollectionType names the collection the search filters target.
type CollectionType string

const (
	CollectionProducts CollectionType = "products"
	CollectionOrders   CollectionType = "orders"
	CollectionDatabase CollectionType = "database"
)

func (c CollectionType) Valid() bool {
	switch c {
	case CollectionProducts, CollectionOrders, CollectionDatabase:
		return true
	}
	return false
}

// SearchFilters are the transient criteria applied to the collection named by Type.
type SearchFilters struct {
	Type        CollectionType `json:"type"`
	Query       string         `json:"query"`
	MinPrice    *float64       `json:"minPrice,omitempty"`
	MaxPrice    *float64       `json:"maxPrice,omitempty"`
	MinQuantity *int           `json:"minQuantity,omitempty"`
	MaxQuantity *int           `json:"maxQuantity,omitempty"`
}

func DefaultSearchFilters() SearchFilters {
	return SearchFilters{Type: CollectionProducts}
}

// Bound patches one optional numeric bound. Set with a nil Value clears it.
type Bound[T int | float64] struct {
	Set   bool
	Value *T
}

// FilterPatch is merged into the current SearchFilters; zero fields are left unchanged.
type FilterPatch struct {
	Type        *CollectionType
	Query       *string
	MinPrice    Bound[float64]
	MaxPrice    Bound[float64]
	MinQuantity Bound[int]
	MaxQuantity Bound[int]
}

// Apply merges p into f.
func (p FilterPatch) Apply(f SearchFilters) SearchFilters {
	if p.Type != nil {
		f.Type = *p.Type
	}
	if p.Query != nil {
		f.Query = *p.Query
	}
	if p.MinPrice.Set {
		f.MinPrice = p.MinPrice.Value
	}
	if p.MaxPrice.Set {
		f.MaxPrice = p.MaxPrice.Value
	}
	if p.MinQuantity.Set {
		f.MinQuantity = p.MinQuantity.Value
	}
	if p.MaxQuantity.Set {
		f.MaxQuantity = p.MaxQuantity.Value
	}
	return f
}

// SortOption selects the ordering of derived product and order views.
type SortOption string

const (
	SortDefault        SortOption = "default"
	SortAlphabetical   SortOption = "alphabetical"
	SortPriceLowToHigh SortOption = "priceLowToHigh"
	SortPriceHighToLow SortOption = "priceHighToLow"
	SortDateNewest     SortOption = "dateNewest"
	SortDateOldest     SortOption = "dateOldest"
)

func (s SortOption) Valid() bool {
	switch s {
	case SortDefault, SortAlphabetical, SortPriceLowToHigh, SortPriceHighToLow, SortDateNewest, SortDateOldest:
		return true
	}
	return false
}

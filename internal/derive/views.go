package derive

import "shopdesk/internal/models"

// Products filters and sorts the catalog. Filters apply only while the
// products collection is the active search target.
func Products(items []models.Product, f models.SearchFilters, option models.SortOption) []models.Product {
	entries := make([]Entry, 0, len(items))
	for _, p := range items {
		if f.Type != models.CollectionProducts || MatchProduct(p, f) {
			entries = append(entries, ProductEntry(p.Clone()))
		}
	}

	sorted := Sort(entries, option)
	out := make([]models.Product, len(sorted))
	for i, e := range sorted {
		out[i] = e.Product
	}
	return out
}

// Orders filters and sorts the order list. Filters apply only while the
// orders collection is the active search target.
func Orders(items []models.Order, f models.SearchFilters, option models.SortOption) []models.Order {
	entries := make([]Entry, 0, len(items))
	for _, o := range items {
		if f.Type != models.CollectionOrders || MatchOrder(o, f) {
			entries = append(entries, OrderEntry(o.Clone()))
		}
	}

	sorted := Sort(entries, option)
	out := make([]models.Order, len(sorted))
	for i, e := range sorted {
		out[i] = e.Order
	}
	return out
}

// Database filters the phone index by phone digits. It is never sorted.
func Database(entries []models.PhoneEntry, f models.SearchFilters) []models.PhoneEntry {
	out := make([]models.PhoneEntry, 0, len(entries))
	for _, e := range entries {
		if f.Type != models.CollectionDatabase || MatchPhone(e, f) {
			out = append(out, e.Clone())
		}
	}
	return out
}

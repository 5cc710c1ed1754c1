package derive

import (
	"strconv"
	"strings"

	"shopdesk/internal/models"
)

// MatchProduct reports whether p satisfies the query and the price and quantity bounds of f.
func MatchProduct(p models.Product, f models.SearchFilters) bool {
	matchesQuery := true
	if strings.TrimSpace(f.Query) != "" {
		q := strings.ToLower(f.Query)
		matchesQuery = strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q) ||
			strings.Contains(formatNumber(p.Price), q)
	}

	return matchesQuery &&
		inRange(p.Price, f.MinPrice, f.MaxPrice) &&
		inRange(p.Quantity, f.MinQuantity, f.MaxQuantity)
}

// MatchOrder reports whether o matches the query on customer name, id or any
// line item name, and whether its total lies within the price bounds of f.
func MatchOrder(o models.Order, f models.SearchFilters) bool {
	matchesQuery := true
	if strings.TrimSpace(f.Query) != "" {
		q := strings.ToLower(f.Query)
		matchesNameOrID := strings.Contains(strings.ToLower(o.CustomerName), q) ||
			strings.Contains(strings.ToLower(o.ID), q)
		matchesProductNames := false
		for _, item := range o.Products {
			if strings.Contains(strings.ToLower(item.Name), q) {
				matchesProductNames = true
				break
			}
		}
		matchesQuery = matchesNameOrID || matchesProductNames
	}

	return matchesQuery && inRange(o.TotalAmount, f.MinPrice, f.MaxPrice)
}

// MatchPhone reports whether the digits of the query occur in the digits of
// the entry's phone number. A query without digits matches every entry.
func MatchPhone(e models.PhoneEntry, f models.SearchFilters) bool {
	digits := Digits(f.Query)
	if digits == "" {
		return true
	}
	return strings.Contains(Digits(e.PhoneNumber), digits)
}

// Digits strips everything but decimal digits from s.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func inRange[T int | float64](v T, lo, hi *T) bool {
	if lo != nil && v < *lo {
		return false
	}
	if hi != nil && v > *hi {
		return false
	}
	return true
}

// formatNumber renders a price the way it is typed: shortest decimal form, no exponent.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

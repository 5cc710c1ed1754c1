package models

import "slices"

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func (p Product) Clone() Product {
	p.Image = cloneString(p.Image)
	return p
}

func (o Order) Clone() Order {
	o.Image = cloneString(o.Image)
	o.Products = slices.Clone(o.Products)
	if o.Products == nil {
		o.Products = []OrderItem{}
	}
	return o
}

func (e PhoneEntry) Clone() PhoneEntry {
	e.Orders = slices.Clone(e.Orders)
	if e.Orders == nil {
		e.Orders = []PhoneOrderRecord{}
	}
	return e
}

func (f SearchFilters) Clone() SearchFilters {
	if f.MinPrice != nil {
		v := *f.MinPrice
		f.MinPrice = &v
	}
	if f.MaxPrice != nil {
		v := *f.MaxPrice
		f.MaxPrice = &v
	}
	if f.MinQuantity != nil {
		v := *f.MinQuantity
		f.MinQuantity = &v
	}
	if f.MaxQuantity != nil {
		v := *f.MaxQuantity
		f.MaxQuantity = &v
	}
	return f
}

func CloneProducts(in []Product) []Product {
	out := make([]Product, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}

func CloneOrders(in []Order) []Order {
	out := make([]Order, len(in))
	for i, o := range in {
		out[i] = o.Clone()
	}
	return out
}

func CloneDatabase(in []PhoneEntry) []PhoneEntry {
	out := make([]PhoneEntry, len(in))
	for i, e := range in {
		out[i] = e.Clone()
	}
	return out
}

// Clone deep-copies the snapshot.
func (s Snapshot) Clone() Snapshot {
	notes := slices.Clone(s.Notes)
	if notes == nil {
		notes = []Note{}
	}
	return Snapshot{
		Products: CloneProducts(s.Products),
		Orders:   CloneOrders(s.Orders),
		Database: CloneDatabase(s.Database),
		Notes:    notes,
		Theme:    s.Theme,
		Settings: s.Settings,
	}
}

package store

import (
	"math"
	"slices"

	"github.com/sirupsen/logrus"

	"shopdesk/internal/models"
)

// AddProduct appends a new product with a fresh id and creation time.
func (s *Store) AddProduct(in models.ProductInput) models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := models.Product{
		ID:          s.newID(),
		Name:        in.Name,
		Price:       in.Price,
		Quantity:    in.Quantity,
		Description: in.Description,
		Image:       in.Image,
		CreatedAt:   s.timestamp(),
	}.Clone()
	s.products = append(s.products, p)

	s.log.WithFields(logrus.Fields{"productId": p.ID, "name": p.Name}).Info("product added")
	s.commit(SliceProducts)
	return p.Clone()
}

// UpdateProduct replaces the product with the same id. It reports false and
// changes nothing when no such product exists. A zero CreatedAt keeps the
// stored creation time.
func (s *Store) UpdateProduct(p models.Product) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.productIndex(p.ID)
	if i < 0 {
		s.log.WithField("productId", p.ID).Warn("update of unknown product ignored")
		return false
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.products[i].CreatedAt
	}
	s.products[i] = p.Clone()

	s.log.WithFields(logrus.Fields{"productId": p.ID, "name": p.Name}).Info("product updated")
	s.commit(SliceProducts)
	return true
}

func (s *Store) DeleteProduct(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.productIndex(id)
	if i < 0 {
		return false
	}
	name := s.products[i].Name
	s.products = slices.Delete(s.products, i, i+1)

	s.log.WithFields(logrus.Fields{"productId": id, "name": name}).Info("product deleted")
	s.commit(SliceProducts)
	return true
}

// AdjustQuantity adds delta to the product quantity, clamping at zero and
// saturating at math.MaxInt.
func (s *Store) AdjustQuantity(id string, delta int) (models.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.productIndex(id)
	if i < 0 {
		return models.Product{}, false
	}
	s.products[i].Quantity = clampQuantity(s.products[i].Quantity, delta)

	s.log.WithFields(logrus.Fields{
		"productId": id,
		"delta":     delta,
		"quantity":  s.products[i].Quantity,
	}).Debug("product quantity adjusted")
	s.commit(SliceProducts)
	return s.products[i].Clone(), true
}

// SetProductImage replaces only the image of a product, leaving concurrent
// edits to its other fields intact.
func (s *Store) SetProductImage(id string, image *string) (models.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.productIndex(id)
	if i < 0 {
		return models.Product{}, false
	}
	if image != nil {
		uri := *image
		image = &uri
	}
	s.products[i].Image = image

	s.log.WithField("productId", id).Info("product image updated")
	s.commit(SliceProducts)
	return s.products[i].Clone(), true
}

func clampQuantity(q, delta int) int {
	if delta > 0 && q > math.MaxInt-delta {
		return math.MaxInt
	}
	return max(0, q+delta)
}

// Product looks a product up by id.
func (s *Store) Product(id string) (models.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.productIndex(id)
	if i < 0 {
		return models.Product{}, false
	}
	return s.products[i].Clone(), true
}

func (s *Store) productIndex(id string) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}

package store

import (
	"slices"

	"github.com/sirupsen/logrus"

	"shopdesk/internal/models"
)

// AddOrder appends a new order. An invalid status is replaced by the
// default one. Orders carrying a phone number are added to the phone index.
func (s *Store) AddOrder(in models.OrderInput) models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !in.Status.Valid() {
		s.log.WithField("status", in.Status).Warn("invalid order status replaced by default")
	}
	o := models.Order{
		ID:           s.newID(),
		CustomerName: in.CustomerName,
		Date:         in.Date,
		Status:       models.NormalizeStatus(in.Status),
		PhoneNumber:  in.PhoneNumber,
		Description:  in.Description,
		Image:        in.Image,
		Products:     in.Products,
		TotalAmount:  in.TotalAmount,
		CreatedAt:    s.timestamp(),
	}.Clone()
	s.orders = append(s.orders, o)

	changed := []Slice{SliceOrders}
	if s.indexOrder(o) {
		changed = append(changed, SliceDatabase)
	}

	s.log.WithFields(logrus.Fields{"orderId": o.ID, "customer": o.CustomerName}).Info("order created")
	s.commit(changed...)
	return o.Clone()
}

// UpdateOrder replaces the order with the same id, normalizing its status and
// refreshing its phone index record. It reports false when the id is unknown.
func (s *Store) UpdateOrder(o models.Order) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.orderIndex(o.ID)
	if i < 0 {
		s.log.WithField("orderId", o.ID).Warn("update of unknown order ignored")
		return false
	}
	if !o.Status.Valid() {
		s.log.WithFields(logrus.Fields{"orderId": o.ID, "status": o.Status}).Warn("invalid order status replaced by default")
	}
	o.Status = models.NormalizeStatus(o.Status)
	if o.CreatedAt.IsZero() {
		o.CreatedAt = s.orders[i].CreatedAt
	}
	s.orders[i] = o.Clone()

	changed := []Slice{SliceOrders}
	if s.indexOrder(s.orders[i]) {
		changed = append(changed, SliceDatabase)
	}

	s.log.WithField("orderId", o.ID).Info("order updated")
	s.commit(changed...)
	return true
}

// UpdateOrderStatus patches the status of one order. A status outside the
// allowed set is rejected with ErrInvalidStatus and nothing changes.
func (s *Store) UpdateOrderStatus(id string, status models.OrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !status.Valid() {
		s.log.WithFields(logrus.Fields{"orderId": id, "status": status}).Error("invalid status rejected")
		return ErrInvalidStatus
	}
	i := s.orderIndex(id)
	if i < 0 {
		return ErrOrderNotFound
	}
	s.orders[i].Status = status

	changed := []Slice{SliceOrders}
	if s.indexOrder(s.orders[i]) {
		changed = append(changed, SliceDatabase)
	}

	s.log.WithFields(logrus.Fields{"orderId": id, "status": status}).Info("order status changed")
	s.commit(changed...)
	return nil
}

// DeleteOrder removes an order. Its phone index record, if any, is flagged
// deleted and kept as purchase history.
func (s *Store) DeleteOrder(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.orderIndex(id)
	if i < 0 {
		return false
	}
	removed := s.orders[i]
	s.orders = slices.Delete(s.orders, i, i+1)

	changed := []Slice{SliceOrders}
	if s.markOrderDeleted(removed) {
		changed = append(changed, SliceDatabase)
	}

	s.log.WithField("orderId", id).Info("order deleted")
	s.commit(changed...)
	return true
}

// Order looks an order up by id.
func (s *Store) Order(id string) (models.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.orderIndex(id)
	if i < 0 {
		return models.Order{}, false
	}
	return s.orders[i].Clone(), true
}

func (s *Store) orderIndex(id string) int {
	for i := range s.orders {
		if s.orders[i].ID == id {
			return i
		}
	}
	return -1
}

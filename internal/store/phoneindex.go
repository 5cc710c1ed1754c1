package store

import (
	"slices"
	"strings"

	"github.com/sirupsen/logrus"

	"shopdesk/internal/models"
)

// unnamedProduct stands in for the product name of an order without line items.
const unnamedProduct = "Без названия"

// indexOrder upserts the phone index record of o. It reports whether the
// index changed, which is false for orders without a phone number.
func (s *Store) indexOrder(o models.Order) bool {
	phone := strings.TrimSpace(o.PhoneNumber)
	if phone == "" {
		return false
	}

	productName := unnamedProduct
	if len(o.Products) > 0 {
		productName = o.Products[0].Name
	}
	record := models.PhoneOrderRecord{
		ID:          o.ID,
		Date:        o.Date,
		ProductName: productName,
		TotalAmount: o.TotalAmount,
	}

	i := s.phoneIndex(phone)
	if i < 0 {
		s.database = append(s.database, models.PhoneEntry{
			PhoneNumber: phone,
			Orders:      []models.PhoneOrderRecord{record},
		})
		return true
	}

	entry := &s.database[i]
	for j := range entry.Orders {
		if entry.Orders[j].ID == o.ID {
			entry.Orders[j] = record
			return true
		}
	}
	entry.Orders = append(entry.Orders, record)
	return true
}

// markOrderDeleted flags the phone index record of o as deleted.
func (s *Store) markOrderDeleted(o models.Order) bool {
	i := s.phoneIndex(strings.TrimSpace(o.PhoneNumber))
	if i < 0 {
		return false
	}
	entry := &s.database[i]
	for j := range entry.Orders {
		if entry.Orders[j].ID == o.ID {
			entry.Orders[j].IsDeleted = true
			return true
		}
	}
	return false
}

// DeletePhoneEntry removes a phone number together with its whole history.
func (s *Store) DeletePhoneEntry(phone string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.phoneIndex(strings.TrimSpace(phone))
	if i < 0 {
		return false
	}
	s.database = slices.Delete(s.database, i, i+1)

	s.log.WithField("phone", phone).Info("phone entry deleted")
	s.commit(SliceDatabase)
	return true
}

// DeleteOrderFromDatabase removes one order record from a phone entry and
// drops the entry once it has no records left.
func (s *Store) DeleteOrderFromDatabase(phone, orderID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.phoneIndex(strings.TrimSpace(phone))
	if i < 0 {
		return false
	}
	entry := &s.database[i]
	before := len(entry.Orders)
	entry.Orders = slices.DeleteFunc(entry.Orders, func(r models.PhoneOrderRecord) bool {
		return r.ID == orderID
	})
	if len(entry.Orders) == before {
		return false
	}
	if len(entry.Orders) == 0 {
		s.database = slices.Delete(s.database, i, i+1)
	}

	s.log.WithFields(logrus.Fields{"phone": phone, "orderId": orderID}).Info("order removed from phone database")
	s.commit(SliceDatabase)
	return true
}

// PhoneEntry looks a phone number up in the index.
func (s *Store) PhoneEntry(phone string) (models.PhoneEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.phoneIndex(strings.TrimSpace(phone))
	if i < 0 {
		return models.PhoneEntry{}, false
	}
	return s.database[i].Clone(), true
}

func (s *Store) phoneIndex(phone string) int {
	if phone == "" {
		return -1
	}
	for i := range s.database {
		if s.database[i].PhoneNumber == phone {
			return i
		}
	}
	return -1
}

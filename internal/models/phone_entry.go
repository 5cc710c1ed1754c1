package models

// PhoneOrderRecord summarizes one order placed from a phone number.
// Deleted orders keep their record with IsDeleted set.
type PhoneOrderRecord struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	ProductName string  `json:"productName"`
	TotalAmount float64 `json:"totalAmount"`
	IsDeleted   bool    `json:"isDeleted"`
}

// PhoneEntry is the purchase history of one phone number.
type PhoneEntry struct {
	PhoneNumber string             `json:"phoneNumber"`
	Orders      []PhoneOrderRecord `json:"orders"`
}

// Total is the lifetime spend recorded for the number, deleted orders included.
func (e PhoneEntry) Total() float64 {
	var total float64
	for _, o := range e.Orders {
		total += o.TotalAmount
	}
	return total
}

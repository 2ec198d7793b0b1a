package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

type SnackItem struct {
	ID       int             `json:"id"`
	ItemName string          `json:"itemName"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	LowStock bool            `json:"lowStock"`
	Trending bool            `json:"trending"`
}

func SortSnacks(snacks []SnackItem) []SnackItem {
	return TrendingFirst(snacks,
		func(s SnackItem) bool { return s.Trending },
		func(s SnackItem) int { return s.ID },
	)
}

// SnackRequest is one line of a snack order as sent to the backend.
type SnackRequest struct {
	SnackID  int `json:"snackId"`
	Quantity int `json:"quantity"`
}

type SnackOrderRequest struct {
	ReservationID int            `json:"reservationId"`
	Orders        []SnackRequest `json:"orders"`
}

// SnackSelection holds the quantities picked in the snack form. Every quantity is
// kept within [0, stock] of its item.
type SnackSelection struct {
	stock      map[int]int
	quantities map[int]int
}

func NewSnackSelection(items []SnackItem) *SnackSelection {
	s := &SnackSelection{
		stock:      make(map[int]int, len(items)),
		quantities: make(map[int]int, len(items)),
	}

	for _, item := range items {
		s.stock[item.ID] = max(item.Quantity, 0)
	}

	return s
}

// Adjust moves the quantity of a snack by delta and returns the clamped result.
// atMax reports an increment that ended at the stock limit.
func (s *SnackSelection) Adjust(snackID, delta int) (quantity int, atMax bool) {
	quantity = s.Set(snackID, s.quantities[snackID]+delta)

	return quantity, delta > 0 && quantity == s.stock[snackID]
}

// Set stores quantity clamped to [0, stock]. Unknown snacks always end at 0.
func (s *SnackSelection) Set(snackID, quantity int) int {
	stock, ok := s.stock[snackID]
	if !ok {
		return 0
	}

	quantity = min(max(quantity, 0), stock)
	if quantity == 0 {
		delete(s.quantities, snackID)
	} else {
		s.quantities[snackID] = quantity
	}

	return quantity
}

func (s *SnackSelection) Quantity(snackID int) int {
	return s.quantities[snackID]
}

// Requests returns the non-zero lines ordered by snack ID.
func (s *SnackSelection) Requests() []SnackRequest {
	requests := make([]SnackRequest, 0, len(s.quantities))
	for id, quantity := range s.quantities {
		requests = append(requests, SnackRequest{SnackID: id, Quantity: quantity})
	}

	sort.Slice(requests, func(i, j int) bool {
		return requests[i].SnackID < requests[j].SnackID
	})

	return requests
}

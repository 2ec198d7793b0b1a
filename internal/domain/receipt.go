package domain

import (
	"github.com/shopspring/decimal"
)

type SnackOrderLine struct {
	SnackID  int             `json:"snackId"`
	ItemName string          `json:"itemName"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Total    decimal.Decimal `json:"total"`
	LowStock bool            `json:"lowStock"`
}

// LineTotal prefers the total computed by the backend and falls back to
// unit price times quantity.
func (l SnackOrderLine) LineTotal() decimal.Decimal {
	if !l.Total.IsZero() {
		return l.Total
	}

	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Receipt struct {
	Reservation Reservation
	Tickets     []Ticket
	Snacks      []SnackOrderLine
	TicketTotal decimal.Decimal
	SnackTotal  decimal.Decimal
	GrandTotal  decimal.Decimal
}

func NewReceipt(reservation Reservation, snacks []SnackOrderLine) Receipt {
	if len(snacks) == 0 {
		snacks = reservation.Snacks
	}

	tickets := uniqueSeats(reservation.Tickets)
	ticketTotal := calculateTicketTotal(tickets)
	snackTotal := calculateSnackTotal(snacks)

	return Receipt{
		Reservation: reservation,
		Tickets:     tickets,
		Snacks:      snacks,
		TicketTotal: ticketTotal,
		SnackTotal:  snackTotal,
		GrandTotal:  ticketTotal.Add(snackTotal),
	}
}

func (r Receipt) Confirmed() bool {
	return r.Reservation.Status == StatusConfirmed
}

// uniqueSeats drops repeated (row, seat) pairs. Tickets missing either label are
// always kept since they cannot be told apart.
func uniqueSeats(tickets []Ticket) []Ticket {
	unique := make([]Ticket, 0, len(tickets))
	seen := make(map[[2]SeatLabel]struct{}, len(tickets))

	for _, t := range tickets {
		if t.RowNo != "" && t.SeatNo != "" {
			key := [2]SeatLabel{t.RowNo, t.SeatNo}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
		}

		unique = append(unique, t)
	}

	return unique
}

func calculateTicketTotal(tickets []Ticket) decimal.Decimal {
	total := decimal.Zero

	for _, t := range tickets {
		total = total.Add(t.Price)
	}

	return total
}

func calculateSnackTotal(lines []SnackOrderLine) decimal.Decimal {
	total := decimal.Zero

	for _, l := range lines {
		total = total.Add(l.LineTotal())
	}

	return total
}

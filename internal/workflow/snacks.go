package workflow

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/metinatakli/movie-booking-web/internal/domain"
	"github.com/metinatakli/movie-booking-web/internal/events"
	appvalidator "github.com/metinatakli/movie-booking-web/internal/validator"
	"github.com/shopspring/decimal"
)

type SnackOrderResult struct {
	Receipt domain.Receipt
	// Items is the total quantity ordered.
	Items int
	// LowStock is set when the backend flagged any ordered item as running low.
	LowStock bool
}

// OpenSnackForm loads a fresh snack catalog for the current reservation.
func (w *Workflow) OpenSnackForm(ctx context.Context, reservationID int) ([]domain.SnackItem, error) {
	w.mu.Lock()
	err := w.checkSnackForm(reservationID)
	w.mu.Unlock()

	if err != nil {
		return nil, err
	}

	items, err := w.catalog.Snacks(ctx)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	err = w.checkSnackForm(reservationID)
	if err != nil {
		return nil, err
	}

	w.snacks = domain.SortSnacks(items)
	w.selection = domain.NewSnackSelection(w.snacks)
	w.state = StateSnackFormOpen

	snacks := make([]domain.SnackItem, len(w.snacks))
	copy(snacks, w.snacks)

	return snacks, nil
}

func (w *Workflow) checkSnackForm(reservationID int) error {
	err := w.checkCurrent(reservationID)
	if err != nil {
		return err
	}

	if w.state != StateTicketReview && w.state != StateSnackFormOpen {
		return domain.ErrInvalidTransition
	}

	return nil
}

// AdjustSnack changes the selected quantity of a snack by delta. The result is
// clamped to [0, stock]; atMax is set when an increment hit the stock limit.
func (w *Workflow) AdjustSnack(snackID, delta int) (quantity int, atMax bool, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateSnackFormOpen || w.selection == nil {
		return 0, false, domain.ErrInvalidTransition
	}

	quantity, atMax = w.selection.Adjust(snackID, delta)

	return quantity, atMax, nil
}

func (w *Workflow) SetSnackQuantity(snackID, quantity int) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateSnackFormOpen || w.selection == nil {
		return 0, domain.ErrInvalidTransition
	}

	return w.selection.Set(snackID, quantity), nil
}

// SubmitSnackOrder orders the given lines for the current reservation. Lines
// with a zero quantity are dropped. If any remaining line names an unknown
// snack or exceeds its stock, nothing is sent.
func (w *Workflow) SubmitSnackOrder(ctx context.Context, reservationID int, requests []domain.SnackRequest) (SnackOrderResult, error) {
	w.mu.Lock()

	// a pending confirm or cancel could make the reservation final while the
	// backend accepts the order, so the two never overlap
	err := w.acquire(opSnackOrder)
	if err != nil {
		w.mu.Unlock()
		return SnackOrderResult{}, err
	}

	err = w.checkCurrent(reservationID)
	if err == nil && w.state != StateSnackFormOpen {
		err = domain.ErrInvalidTransition
	}

	var orders []domain.SnackRequest
	if err == nil {
		orders, err = w.prepareSnackOrder(requests)
	}

	if err != nil {
		delete(w.inflight, opSnackOrder)
		w.mu.Unlock()
		return SnackOrderResult{}, err
	}

	catalog := w.snackIndex()
	w.mu.Unlock()

	defer w.release(opSnackOrder)

	lines, err := w.orders.OrderSnacks(ctx, domain.SnackOrderRequest{
		ReservationID: reservationID,
		Orders:        orders,
	})
	if err != nil {
		return SnackOrderResult{}, err
	}

	lines = completeSnackLines(lines, orders, catalog)

	w.mu.Lock()

	err = w.checkCurrent(reservationID)
	if err != nil {
		w.mu.Unlock()
		return SnackOrderResult{}, err
	}

	w.snackLines = append(w.snackLines, lines...)
	w.selection = domain.NewSnackSelection(w.snacks)
	w.state = StateReceiptReview

	result := SnackOrderResult{
		Receipt: domain.NewReceipt(*w.reservation, w.snackLines),
	}
	w.mu.Unlock()

	for _, line := range lines {
		result.Items += line.Quantity
		result.LowStock = result.LowStock || line.LowStock
	}

	w.publish(ctx, events.Event{
		Type:          events.SnacksOrdered,
		ReservationID: reservationID,
		Items:         result.Items,
		OccurredAt:    time.Now().UTC(),
	})

	return result, nil
}

// prepareSnackOrder merges the requested lines by snack and checks each one
// against the catalog loaded with the form. The caller must hold w.mu.
func (w *Workflow) prepareSnackOrder(requests []domain.SnackRequest) ([]domain.SnackRequest, error) {
	quantities := make(map[int]int, len(requests))
	for _, r := range requests {
		if r.Quantity > 0 {
			quantities[r.SnackID] += r.Quantity
		}
	}

	if len(quantities) == 0 {
		return nil, domain.NewValidationError("Orders", appvalidator.ErrNoSnackSelected)
	}

	catalog := w.snackIndex()
	orders := make([]domain.SnackRequest, 0, len(quantities))

	for id, quantity := range quantities {
		orders = append(orders, domain.SnackRequest{SnackID: id, Quantity: quantity})
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].SnackID < orders[j].SnackID
	})

	for _, order := range orders {
		item, ok := catalog[order.SnackID]
		if !ok {
			return nil, domain.NewValidationError("Orders", appvalidator.ErrUnknownSnack)
		}

		if order.Quantity > item.Quantity {
			reason := fmt.Sprintf(appvalidator.ErrSnackStock, item.Quantity, item.ItemName)
			return nil, domain.NewValidationError("Orders", reason)
		}
	}

	return orders, nil
}

// snackIndex returns the loaded catalog keyed by ID. The caller must hold w.mu.
func (w *Workflow) snackIndex() map[int]domain.SnackItem {
	index := make(map[int]domain.SnackItem, len(w.snacks))
	for _, item := range w.snacks {
		index[item.ID] = item
	}

	return index
}

// completeSnackLines fills in what the backend left out of its answer. With no
// lines at all the order is echoed from the request.
func completeSnackLines(lines []domain.SnackOrderLine, orders []domain.SnackRequest, catalog map[int]domain.SnackItem) []domain.SnackOrderLine {
	if len(lines) == 0 {
		lines = make([]domain.SnackOrderLine, 0, len(orders))
		for _, order := range orders {
			lines = append(lines, domain.SnackOrderLine{
				SnackID:  order.SnackID,
				Quantity: order.Quantity,
			})
		}
	}

	completed := make([]domain.SnackOrderLine, len(lines))
	for i, line := range lines {
		item, ok := catalog[line.SnackID]
		if ok {
			if line.ItemName == "" {
				line.ItemName = item.ItemName
			}

			if line.Price.IsZero() {
				line.Price = item.Price
			}
		}

		if line.Total.IsZero() {
			line.Total = line.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		}

		completed[i] = line
	}

	return completed
}

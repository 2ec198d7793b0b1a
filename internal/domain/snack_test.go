package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestSnackSelectionAdjust(t *testing.T) {
	tests := []struct {
		name      string
		stock     int
		deltas    []int
		want      int
		wantAtMax bool
	}{
		{name: "increments stop at stock", stock: 3, deltas: []int{1, 1, 1, 1}, want: 3, wantAtMax: true},
		{name: "decrements stop at zero", stock: 3, deltas: []int{-1, -1}, want: 0},
		{name: "mixed sequence", stock: 2, deltas: []int{1, 1, 1, -1, 1, -1, -1, -1}, want: 0},
		{name: "out of stock item", stock: 0, deltas: []int{1, 1}, want: 0, wantAtMax: true},
		{name: "below the cap", stock: 5, deltas: []int{1, 1}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := NewSnackSelection([]SnackItem{{ID: 1, Quantity: tt.stock}})

			var (
				got   int
				atMax bool
			)
			for _, d := range tt.deltas {
				got, atMax = sel.Adjust(1, d)
				assert.GreaterOrEqual(t, got, 0)
				assert.LessOrEqual(t, got, tt.stock)
			}

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantAtMax, atMax)
			assert.Equal(t, tt.want, sel.Quantity(1))
		})
	}
}

func TestSnackSelectionSetClamps(t *testing.T) {
	sel := NewSnackSelection([]SnackItem{
		{ID: 1, Quantity: 4},
		{ID: 2, Quantity: 10},
	})

	assert.Equal(t, 4, sel.Set(1, 9))
	assert.Equal(t, 0, sel.Set(2, -3))
	assert.Equal(t, 0, sel.Set(99, 1), "unknown snack")
	assert.Equal(t, 7, sel.Set(2, 7))

	want := []SnackRequest{
		{SnackID: 1, Quantity: 4},
		{SnackID: 2, Quantity: 7},
	}
	if diff := cmp.Diff(want, sel.Requests()); diff != "" {
		t.Errorf("Requests() mismatch (-want +got):\n%s", diff)
	}
}

func TestSortSnacks(t *testing.T) {
	snacks := []SnackItem{
		{ID: 1, ItemName: "Popcorn"},
		{ID: 2, ItemName: "Nachos", Trending: true},
		{ID: 3, ItemName: "Soda"},
		{ID: 2, ItemName: "Nachos", Trending: true},
	}

	got := SortSnacks(snacks)

	ids := make([]int, len(got))
	for i, s := range got {
		ids[i] = s.ID
	}

	if diff := cmp.Diff([]int{2, 1, 3}, ids); diff != "" {
		t.Errorf("SortSnacks() order mismatch (-want +got):\n%s", diff)
	}
}

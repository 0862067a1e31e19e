package quotation

import (
	"github.com/ginjaninja78/quotegen/internal/types"
)

// Move returns a copy of items with the element at from relocated to to.
// Elements in between shift by one position; all others keep their order.
// from == to yields an unchanged copy.
func Move(items []types.LineItem, from, to int) ([]types.LineItem, error) {
	if err := checkIndex(from, len(items)); err != nil {
		return nil, err
	}
	if err := checkIndex(to, len(items)); err != nil {
		return nil, err
	}

	out := make([]types.LineItem, 0, len(items))
	moved := items[from]
	for i, it := range items {
		if i != from {
			out = append(out, it)
		}
	}

	out = append(out, types.LineItem{})
	copy(out[to+1:], out[to:])
	out[to] = moved
	return out, nil
}

func checkIndex(i, n int) error {
	if i < 0 || i >= n {
		return &IndexError{Index: i, Len: n}
	}
	return nil
}

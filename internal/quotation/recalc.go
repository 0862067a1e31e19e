// =============================================================================
// Quotation Generator - Recalculation Engine
// =============================================================================
//
// Derived totals of a document:
//   excludingTax = sum(item.amount)
//   tax          = ceil(percentage / 100 * excludingTax)
//   includingTax = excludingTax + tax
//
// Tax always rounds up. Arithmetic is done in decimal so that values such as
// 0.1 + 0.2 never push the ceiling up by one unit.
//
// LIMITS:
//   No price, amount or total may exceed MaxAmount. CheckAmounts reports a
//   document that would, and the Editor refuses to install one.
//
// =============================================================================

package quotation

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/quotegen/internal/types"
)

// MaxAmount bounds every price, amount and total, in NT$.
const MaxAmount = 1e15

// ErrAmountOutOfRange indicates a price, amount or total above MaxAmount.
var ErrAmountOutOfRange = errors.New("amount out of range")

var maxAmount = decimal.NewFromFloat(MaxAmount)

// Totals holds the three derived fields of a document.
type Totals struct {
	ExcludingTax float64
	Tax          float64
	IncludingTax float64
}

// ItemAmount returns price * count.
func ItemAmount(price float64, count int) float64 {
	return itemAmount(price, count).InexactFloat64()
}

func itemAmount(price float64, count int) decimal.Decimal {
	return toDecimal(price).Mul(decimal.NewFromInt(int64(count)))
}

// Recalculate computes the totals for items at the given tax percentage.
// It is pure: the same inputs always produce the same Totals.
func Recalculate(items []types.LineItem, percentage float64) Totals {
	sum, tax := totals(items, percentage, func(it types.LineItem) decimal.Decimal {
		return toDecimal(it.Amount)
	})

	return Totals{
		ExcludingTax: sum.InexactFloat64(),
		Tax:          tax.InexactFloat64(),
		IncludingTax: sum.Add(tax).InexactFloat64(),
	}
}

func totals(items []types.LineItem, percentage float64, amount func(types.LineItem) decimal.Decimal) (sum, tax decimal.Decimal) {
	sum = decimal.Zero
	for _, it := range items {
		sum = sum.Add(amount(it))
	}
	tax = toDecimal(percentage).
		Mul(sum).
		Div(decimal.NewFromInt(100)).
		Ceil()
	return sum, tax
}

// toDecimal converts v, reading NaN and the infinities as 0.
func toDecimal(v float64) decimal.Decimal {
	if !finite(v) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

// CheckAmounts reports whether doc stays within MaxAmount once
// recalculated. Amounts are derived from price and count, as Apply does.
//
// RETURNS:
//   - nil, or an error wrapping ErrAmountOutOfRange naming the first
//     offending value.
func CheckAmounts(doc types.Document) error {
	if !finite(doc.Percentage) {
		return fmt.Errorf("%w: percentage %v", ErrAmountOutOfRange, doc.Percentage)
	}
	for i, it := range doc.ServiceItems {
		if !finite(it.Price) || itemAmount(it.Price, it.Count).Abs().GreaterThan(maxAmount) {
			return fmt.Errorf("%w: line item %d (%v x %d)", ErrAmountOutOfRange, i+1, it.Price, it.Count)
		}
	}

	sum, tax := totals(doc.ServiceItems, doc.Percentage, func(it types.LineItem) decimal.Decimal {
		return itemAmount(it.Price, it.Count)
	})
	if sum.Abs().GreaterThan(maxAmount) || sum.Add(tax).Abs().GreaterThan(maxAmount) {
		return fmt.Errorf("%w: total above %s", ErrAmountOutOfRange, maxAmount.String())
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Apply re-derives every item amount and then the document totals.
// A pasted or imported amount that disagrees with price * count does not
// survive it.
func Apply(doc *types.Document) {
	for i := range doc.ServiceItems {
		it := &doc.ServiceItems[i]
		it.Amount = ItemAmount(it.Price, it.Count)
	}

	t := Recalculate(doc.ServiceItems, doc.Percentage)
	doc.ExcludingTax = t.ExcludingTax
	doc.Tax = t.Tax
	doc.IncludingTax = t.IncludingTax
}

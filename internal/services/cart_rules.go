package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"toko-storefront/internal/models"
)

// DeliveryQuote is the delivery charge for one supplier group.
type DeliveryQuote struct {
	Fee              decimal.Decimal `json:"fee"`
	RemainingForFree decimal.Decimal `json:"remaining_for_free"`
	Free             bool            `json:"free"`
}

// ComputeDeliveryFee charges the supplier's flat fee until the group total
// reaches the free-delivery threshold.
func ComputeDeliveryFee(g models.SupplierGroup) DeliveryQuote {
	if g.TotalAmount.LessThan(g.FreeDeliveryAmount) {
		return DeliveryQuote{
			Fee:              g.DeliveryFee,
			RemainingForFree: g.FreeDeliveryAmount.Sub(g.TotalAmount),
		}
	}
	return DeliveryQuote{Fee: decimal.Zero, RemainingForFree: decimal.Zero, Free: true}
}

// ValidateForCheckout flags every supplier whose group total is below its
// minimum order. An empty map means checkout may proceed.
func ValidateForCheckout(cart models.CartResponse) map[int64]bool {
	flagged := make(map[int64]bool)
	for _, g := range cart.Suppliers {
		if g.TotalAmount.LessThan(g.OrderAmount) {
			flagged[g.ID] = true
		}
	}
	return flagged
}

// MinimumOrderMessage is the inline warning for a flagged supplier.
func MinimumOrderMessage(g models.SupplierGroup) string {
	return fmt.Sprintf("minimum order for %s is %s", g.Name, g.OrderAmount.String())
}

// NormalizeCart makes every group's total equal the sum of its lines and the
// grand total equal the sum of the groups. It returns the ids of groups whose
// reported total disagreed.
func NormalizeCart(cart *models.CartResponse) []int64 {
	var mismatched []int64
	total := decimal.Zero
	for i := range cart.Suppliers {
		g := &cart.Suppliers[i]
		lines := g.LinesTotal()
		if !g.TotalAmount.Equal(lines) {
			mismatched = append(mismatched, g.ID)
			g.TotalAmount = lines
		}
		total = total.Add(g.TotalAmount)
	}
	cart.Total = total
	return mismatched
}

// MergeLine adds line to lines; an existing (product, supplier) line has its
// quantity increased instead of being duplicated.
func MergeLine(lines []models.CartLine, line models.CartLine) []models.CartLine {
	out := make([]models.CartLine, 0, len(lines)+1)
	merged := false
	for _, l := range lines {
		if l.Key() == line.Key() {
			l.Quantity += line.Quantity
			merged = true
		}
		out = append(out, l)
	}
	if !merged {
		out = append(out, line)
	}
	return out
}

// StepQuantity moves an offer's quantity stepper by delta, never below one.
func StepQuantity(current, delta int) int {
	if n := current + delta; n > 1 {
		return n
	}
	return 1
}

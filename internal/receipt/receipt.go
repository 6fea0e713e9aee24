// Package receipt renders the plain-text ticket stored with every order.
package receipt

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/altyebv/restaurant-pos-system/internal/model"
)

const lineWidth = 32

type Renderer struct {
	CafeName string
}

func New(cafeName string) *Renderer {
	return &Renderer{CafeName: cafeName}
}

// Render produces the ticket text for an order. Edited orders carry an
// EDITED banner so a reprinted ticket is distinguishable from the first.
func (r *Renderer) Render(o *model.Order, edited bool, now time.Time) string {
	var b strings.Builder

	writeCentered(&b, r.CafeName)
	writeCentered(&b, now.Format("02/01/2006 15:04"))
	if edited {
		writeCentered(&b, "*** EDITED ***")
	}
	b.WriteString(strings.Repeat("-", lineWidth) + "\n")
	b.WriteString(fmt.Sprintf("Order: %s\n", o.OrderNumber))
	b.WriteString(strings.Repeat("-", lineWidth) + "\n")

	for _, it := range o.Items {
		left := fmt.Sprintf("%dx %s", it.Quantity, it.Name)
		right := it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))).StringFixed(2)
		b.WriteString(padLine(left, right))
	}

	b.WriteString(strings.Repeat("-", lineWidth) + "\n")
	b.WriteString(padLine("Subtotal", o.Bills.Total.StringFixed(2)))
	b.WriteString(padLine("Tax", o.Bills.Tax.StringFixed(2)))
	b.WriteString(padLine("TOTAL", o.Bills.TotalWithTax.StringFixed(2)))
	b.WriteString(padLine("Paid by", o.PaymentMethod))
	b.WriteString(strings.Repeat("-", lineWidth) + "\n")
	writeCentered(&b, "Thank you for your visit!")

	return b.String()
}

func writeCentered(b *strings.Builder, s string) {
	if len(s) >= lineWidth {
		b.WriteString(s + "\n")
		return
	}
	pad := (lineWidth - len(s)) / 2
	b.WriteString(strings.Repeat(" ", pad) + s + "\n")
}

func padLine(left, right string) string {
	gap := lineWidth - len(left) - len(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right + "\n"
}

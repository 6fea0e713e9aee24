package receipt

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/altyebv/restaurant-pos-system/internal/model"
)

func sampleOrder() *model.Order {
	total := decimal.NewFromInt(30)
	tax := decimal.NewFromInt(3)
	return &model.Order{
		OrderNumber:   "A1-007",
		Bills:         model.Bills{Total: total, Tax: tax, TotalWithTax: total.Add(tax)},
		PaymentMethod: "cash",
		Items: []model.OrderItem{
			{Name: "Espresso", Quantity: 2, UnitPrice: decimal.NewFromInt(10)},
			{Name: "Croissant", Quantity: 1, UnitPrice: decimal.NewFromInt(10)},
		},
	}
}

func TestRender(t *testing.T) {
	r := New("Vision Café")
	now := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

	out := r.Render(sampleOrder(), false, now)

	assert.Contains(t, out, "Vision Café")
	assert.Contains(t, out, "14/03/2026 10:30")
	assert.Contains(t, out, "Order: A1-007")
	assert.Contains(t, out, "2x Espresso")
	assert.Contains(t, out, "1x Croissant")
	assert.Contains(t, out, "20.00")
	assert.Contains(t, out, "Subtotal")
	assert.Contains(t, out, "Tax")
	assert.Contains(t, out, "33.00")
	assert.Contains(t, out, "cash")
	assert.NotContains(t, out, "EDITED")
}

func TestRenderEditedBanner(t *testing.T) {
	r := New("Vision Café")
	out := r.Render(sampleOrder(), true, time.Now())
	assert.Contains(t, out, "*** EDITED ***")
}

func TestRenderLineWidth(t *testing.T) {
	r := New("Vision Café")
	out := r.Render(sampleOrder(), false, time.Now())
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), lineWidth+1)
	}
}

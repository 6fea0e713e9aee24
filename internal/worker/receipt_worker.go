package worker

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/altyebv/restaurant-pos-system/internal/infra"
	"github.com/altyebv/restaurant-pos-system/internal/repository"
)

// ReceiptJobPayload identifies the order whose PDF ticket should be
// rendered.
type ReceiptJobPayload struct {
	OrderID uuid.UUID `json:"order_id"`
}

// ReceiptWorker renders PDF tickets for completed orders. The text
// receipt is stored inline with the order; the PDF is a printable copy
// written to disk.
type ReceiptWorker struct {
	orders      repository.OrderRepository
	cafeName    string
	storagePath string
}

func NewReceiptWorker(orders repository.OrderRepository, cafeName, storagePath string) *ReceiptWorker {
	return &ReceiptWorker{orders: orders, cafeName: cafeName, storagePath: storagePath}
}

func (w *ReceiptWorker) Process(ctx context.Context, payload json.RawMessage) error {
	var p ReceiptJobPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return err
	}

	order, err := w.orders.FindByID(ctx, p.OrderID)
	if err != nil {
		return err
	}

	path, err := infra.GenerateReceiptPDF(order, w.cafeName, w.storagePath)
	if err != nil {
		return err
	}

	log.Info().
		Str("order_number", order.OrderNumber).
		Str("path", path).
		Msg("receipt pdf generated")
	return nil
}

// Package warehouse consumes order.placed events and starts picking: it logs
// the pick list and advances the order to progressing through the orders
// service. Collection is a counter-staff action, driven over HTTP, not here.
package warehouse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/westgate-labs/happyshop/internal/domain"
	"github.com/westgate-labs/happyshop/internal/format"
)

type PickHandler struct {
	ordersServiceURL string
	httpClient       *http.Client
	logger           *slog.Logger
}

func NewPickHandler(ordersServiceURL string, client *http.Client, logger *slog.Logger) *PickHandler {
	return &PickHandler{
		ordersServiceURL: ordersServiceURL,
		httpClient:       client,
		logger:           logger,
	}
}

func (h *PickHandler) Handle(ctx context.Context, payload []byte) error {
	var event domain.OrderPlacedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("unmarshal order placed event: %w", err)
	}

	h.logger.Info("picking order",
		"order_id", event.OrderID,
		"lines", len(event.Products),
		"pick_list", format.ProductList(event.Products))

	if err := h.advanceOrder(ctx, event.OrderID); err != nil {
		h.logger.Error("failed to advance order", "error", err, "order_id", event.OrderID)
		return fmt.Errorf("advance order %d: %w", event.OrderID, err)
	}

	h.logger.Info("order progressing", "order_id", event.OrderID)
	return nil
}

func (h *PickHandler) advanceOrder(ctx context.Context, orderID int) error {
	url := fmt.Sprintf("%s/orders/%d/advance", h.ordersServiceURL, orderID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(nil))
	if err != nil {
		return err
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("orders service returned status %d", resp.StatusCode)
	}

	return nil
}

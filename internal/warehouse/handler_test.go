package warehouse

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/westgate-labs/happyshop/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func eventPayload(t *testing.T, orderID int) []byte {
	t.Helper()

	event := domain.OrderPlacedEvent{
		OrderID: orderID,
		Products: []domain.Product{
			{ID: "0001", Description: "Apples", UnitPrice: 100, OrderedQuantity: 2},
		},
		Timestamp: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	return payload
}

func TestPickHandler(t *testing.T) {
	t.Run("advances the order after picking", func(t *testing.T) {
		var advancedPath string
		ordersServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPatch {
				t.Errorf("expected PATCH, got %s", r.Method)
			}
			advancedPath = r.URL.Path
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"order_id":7,"state":"progressing"}`))
		}))
		defer ordersServer.Close()

		handler := NewPickHandler(ordersServer.URL, ordersServer.Client(), testLogger())

		if err := handler.Handle(context.Background(), eventPayload(t, 7)); err != nil {
			t.Fatalf("handle: %v", err)
		}

		if advancedPath != "/orders/7/advance" {
			t.Errorf("expected /orders/7/advance, got %s", advancedPath)
		}
	})

	t.Run("reports a failure from the orders service", func(t *testing.T) {
		ordersServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer ordersServer.Close()

		handler := NewPickHandler(ordersServer.URL, ordersServer.Client(), testLogger())

		if err := handler.Handle(context.Background(), eventPayload(t, 8)); err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("rejects a malformed payload", func(t *testing.T) {
		handler := NewPickHandler("http://unused", http.DefaultClient, testLogger())

		if err := handler.Handle(context.Background(), []byte("not json")); err == nil {
			t.Fatal("expected an error")
		}
	})
}

package shop

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/westgate-labs/happyshop/internal/catalogue"
	"github.com/westgate-labs/happyshop/internal/checkout"
	"github.com/westgate-labs/happyshop/internal/format"
)

type Handler struct {
	catalogue    catalogue.Store
	orchestrator *checkout.Orchestrator
	sessions     *SessionManager
	logger       *slog.Logger

	checkouts metric.Int64Counter
}

func NewHandler(store catalogue.Store, orchestrator *checkout.Orchestrator, sessions *SessionManager, logger *slog.Logger) (*Handler, error) {
	meter := otel.Meter("shop")

	checkouts, err := meter.Int64Counter("shop.checkouts",
		metric.WithDescription("Checkout attempts by terminal state"))
	if err != nil {
		return nil, err
	}

	return &Handler{
		catalogue:    store,
		orchestrator: orchestrator,
		sessions:     sessions,
		logger:       logger,
		checkouts:    checkouts,
	}, nil
}

type sessionResponse struct {
	SessionID string `json:"session_id"`
}

func (h *Handler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.Create()
	h.logger.Info("session created", "session_id", session.ID)
	h.writeJSON(w, http.StatusCreated, sessionResponse{SessionID: session.ID})
}

type searchResponse struct {
	Message   string `json:"message"`
	ImageName string `json:"image_name,omitempty"`
}

// HandleSearch looks a product up by id and renders the customer-facing
// search result. A product with no stock reads as not found.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("productId")
	if productID == "" {
		h.writeError(w, http.StatusBadRequest, "missing product id")
		return
	}

	product, err := h.catalogue.FindByID(r.Context(), productID)
	if err != nil {
		h.logger.Error("failed to search product", "error", err, "product_id", productID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if product == nil || product.StockQuantity <= 0 {
		h.writeJSON(w, http.StatusNotFound, searchResponse{
			Message: "No Product was found with ID " + productID,
		})
		return
	}

	message := fmt.Sprintf("Product_Id: %s\n%s,\nPrice: %s",
		product.ID, product.Description, format.Money(product.UnitPrice))
	if product.StockQuantity < 100 {
		message += fmt.Sprintf("\n%d units left.", product.StockQuantity)
	}

	h.writeJSON(w, http.StatusOK, searchResponse{
		Message:   message,
		ImageName: product.ImageName,
	})
}

type addToTrolleyRequest struct {
	ProductID string `json:"product_id"`
	Quantity  *int   `json:"quantity,omitempty"`
}

type trolleyResponse struct {
	Trolley string `json:"trolley"`
	Status  string `json:"status"`
}

func (h *Handler) HandleAddToTrolley(w http.ResponseWriter, r *http.Request) {
	session := h.session(w, r)
	if session == nil {
		return
	}

	var req addToTrolleyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProductID == "" {
		h.writeError(w, http.StatusBadRequest, "missing product id")
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	product, err := h.catalogue.FindByID(r.Context(), req.ProductID)
	if err != nil {
		h.logger.Error("failed to look up product", "error", err, "product_id", req.ProductID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if product == nil || product.StockQuantity <= 0 {
		h.writeJSON(w, http.StatusNotFound, trolleyResponse{
			Status: "Please search for an available product before adding it to the trolley",
		})
		return
	}

	line := *product
	line.OrderedQuantity = quantity

	session.Lock()
	session.Trolley.Add(line)
	trolleyText := format.ProductList(session.Trolley.Items())
	session.Unlock()

	h.logger.Info("product added to trolley", "session_id", session.ID, "product_id", req.ProductID, "quantity", quantity)
	h.writeJSON(w, http.StatusOK, trolleyResponse{
		Trolley: trolleyText,
		Status:  fmt.Sprintf("Added %s to trolley", req.ProductID),
	})
}

func (h *Handler) HandleRemoveFromTrolley(w http.ResponseWriter, r *http.Request) {
	session := h.session(w, r)
	if session == nil {
		return
	}

	productID := r.PathValue("productId")
	if productID == "" {
		h.writeError(w, http.StatusBadRequest, "missing product id")
		return
	}

	session.Lock()
	session.Trolley.RemoveAll(productID)
	trolleyText := format.ProductList(session.Trolley.Items())
	session.Unlock()

	h.writeJSON(w, http.StatusOK, trolleyResponse{
		Trolley: trolleyText,
		Status:  fmt.Sprintf("Removed %s from trolley", productID),
	})
}

func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	session := h.session(w, r)
	if session == nil {
		return
	}

	session.Lock()
	session.Trolley.Clear()
	session.Unlock()

	h.logger.Info("trolley cancelled", "session_id", session.ID)
	h.writeJSON(w, http.StatusOK, trolleyResponse{Status: "Trolley emptied"})
}

type checkoutResponse struct {
	Trolley string `json:"trolley"`
	Status  string `json:"status"`
	Receipt string `json:"receipt,omitempty"`
	OrderID int    `json:"order_id,omitempty"`
}

func (h *Handler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	session := h.session(w, r)
	if session == nil {
		return
	}

	session.Lock()
	defer session.Unlock()

	var resp checkoutResponse
	sink := checkout.SinkFunc(func(trolleyText, statusText, receiptText string) {
		resp.Trolley = trolleyText
		resp.Status = statusText
		resp.Receipt = receiptText
	})

	state, order, err := h.orchestrator.Checkout(r.Context(), session.Trolley, sink)

	h.checkouts.Add(r.Context(), 1, metric.WithAttributes(
		attribute.String("state", string(state)),
	))

	if err != nil {
		h.logger.Error("checkout failed", "error", err, "session_id", session.ID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if order != nil {
		resp.OrderID = order.ID
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// session resolves the path's session id, writing a 404 when it is unknown.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) *Session {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing session id")
		return nil
	}

	session := h.sessions.Get(id)
	if session == nil {
		h.writeError(w, http.StatusNotFound, "session not found")
		return nil
	}

	return session
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

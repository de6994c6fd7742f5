package warehouse

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/westgate-labs/happyshop/internal/catalogue"
	"github.com/westgate-labs/happyshop/internal/domain"
)

// AdminHandler is the stock management surface: warehouse staff add catalogue
// lines and put delivered stock on the shelves.
type AdminHandler struct {
	repo   *catalogue.CatalogueRepository
	logger *slog.Logger
}

func NewAdminHandler(repo *catalogue.CatalogueRepository, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		repo:   repo,
		logger: logger,
	}
}

func (h *AdminHandler) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.repo.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list products", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, products)
}

func (h *AdminHandler) HandleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var product domain.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if product.ID == "" {
		h.writeError(w, http.StatusBadRequest, "product_id is required")
		return
	}
	if product.StockQuantity < 0 {
		h.writeError(w, http.StatusBadRequest, "stock_quantity must not be negative")
		return
	}

	if err := h.repo.Insert(r.Context(), product); err != nil {
		h.logger.Error("failed to insert product", "error", err, "product_id", product.ID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("product created", "product_id", product.ID, "stock", product.StockQuantity)
	h.writeJSON(w, http.StatusCreated, product)
}

func (h *AdminHandler) HandleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var product domain.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product.ID = r.PathValue("productId")
	if product.StockQuantity < 0 {
		h.writeError(w, http.StatusBadRequest, "stock_quantity must not be negative")
		return
	}

	if err := h.repo.Update(r.Context(), product); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.writeError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("failed to update product", "error", err, "product_id", product.ID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, product)
}

func (h *AdminHandler) HandleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("productId")

	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to delete product", "error", err, "product_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("product deleted", "product_id", id)
	w.WriteHeader(http.StatusNoContent)
}

type restockRequest struct {
	Quantity int `json:"quantity"`
}

// HandleRestock adds delivered units to a line's shelf stock.
func (h *AdminHandler) HandleRestock(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("productId")

	var req restockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Quantity <= 0 {
		h.writeError(w, http.StatusBadRequest, "quantity must be positive")
		return
	}

	product, err := h.repo.Restock(r.Context(), id, req.Quantity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.writeError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("failed to restock product", "error", err, "product_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("product restocked", "product_id", id, "added", req.Quantity, "stock", product.StockQuantity)
	h.writeJSON(w, http.StatusOK, product)
}

func (h *AdminHandler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *AdminHandler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

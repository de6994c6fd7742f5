package gateway

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
)

type Handler struct {
	shopProxy   *ServiceProxy
	ordersProxy *ServiceProxy
	logger      *slog.Logger
}

func NewHandler(shopProxy, ordersProxy *ServiceProxy, logger *slog.Logger) *Handler {
	return &Handler{
		shopProxy:   shopProxy,
		ordersProxy: ordersProxy,
		logger:      logger,
	}
}

// HandleShop forwards session, product and checkout traffic to the shop
// service unchanged.
func (h *Handler) HandleShop(w http.ResponseWriter, r *http.Request) {
	h.proxyRequest(w, r, h.shopProxy, r.URL.Path)
}

// HandleOrders forwards order traffic to the orders service unchanged.
func (h *Handler) HandleOrders(w http.ResponseWriter, r *http.Request) {
	h.proxyRequest(w, r, h.ordersProxy, r.URL.Path)
}

func (h *Handler) proxyRequest(w http.ResponseWriter, r *http.Request, proxy *ServiceProxy, path string) {
	resp, err := proxy.ForwardRequest(r.Context(), r, path)
	if err != nil {
		h.logger.Error("failed to forward request", "error", err, "path", path)
		h.writeError(w, http.StatusBadGateway, "service unavailable")
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if contentType := resp.Header.Get("Content-Type"); contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}

	w.WriteHeader(resp.StatusCode)

	h.logger.Info("request proxied", "method", r.Method, "path", path, "status", resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		h.logger.Error("failed to copy response body", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		h.logger.Error("failed to encode error response", "error", err)
	}
}

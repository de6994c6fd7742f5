package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/westgate-labs/happyshop/internal/gateway"
	"github.com/westgate-labs/happyshop/internal/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, "gateway", "0.1.0")
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(ctx) }()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	shopServiceURL := os.Getenv("SHOP_SERVICE_URL")
	if shopServiceURL == "" {
		logger.Error("SHOP_SERVICE_URL is required")
		os.Exit(1)
	}

	ordersServiceURL := os.Getenv("ORDERS_SERVICE_URL")
	if ordersServiceURL == "" {
		logger.Error("ORDERS_SERVICE_URL is required")
		os.Exit(1)
	}

	httpClient := &http.Client{
		Timeout:   10 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	shopProxy := gateway.NewServiceProxy(shopServiceURL, httpClient)
	ordersProxy := gateway.NewServiceProxy(ordersServiceURL, httpClient)
	handler := gateway.NewHandler(shopProxy, ordersProxy, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /sessions", telemetry.WithHTTPRoute(handler.HandleShop))
	mux.HandleFunc("GET /products/{productId}", telemetry.WithHTTPRoute(handler.HandleShop))
	mux.HandleFunc("POST /sessions/{id}/trolley", telemetry.WithHTTPRoute(handler.HandleShop))
	mux.HandleFunc("DELETE /sessions/{id}/trolley/{productId}", telemetry.WithHTTPRoute(handler.HandleShop))
	mux.HandleFunc("POST /sessions/{id}/checkout", telemetry.WithHTTPRoute(handler.HandleShop))
	mux.HandleFunc("POST /sessions/{id}/cancel", telemetry.WithHTTPRoute(handler.HandleShop))
	mux.HandleFunc("GET /orders", telemetry.WithHTTPRoute(handler.HandleOrders))
	mux.HandleFunc("GET /orders/{id}", telemetry.WithHTTPRoute(handler.HandleOrders))
	mux.HandleFunc("PATCH /orders/{id}/advance", telemetry.WithHTTPRoute(handler.HandleOrders))

	server := &http.Server{
		Addr: ":" + port,
		Handler: otelhttp.NewHandler(mux, "gateway",
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				if r.Pattern != "" {
					return r.Pattern
				}
				return r.Method + " " + r.URL.Path
			}),
		),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting gateway service", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}

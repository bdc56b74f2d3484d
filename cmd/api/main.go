package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/mkrogh/shop-backend/internal/customers"
	"github.com/mkrogh/shop-backend/internal/messaging"
	"github.com/mkrogh/shop-backend/internal/orders"
	"github.com/mkrogh/shop-backend/internal/products"
	"github.com/mkrogh/shop-backend/internal/routes"
	"github.com/mkrogh/shop-backend/internal/telemetry"
)

const (
	serviceName    = "shop-api"
	serviceVersion = "0.1.0"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	svc := telemetry.Service{Name: serviceName, Version: serviceVersion}

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, svc)
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(ctx) }()

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider(svc)
	if err != nil {
		logger.Error("failed to initialize meter", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownMeter(ctx) }()

	postgresURL := os.Getenv("POSTGRES_URL")
	if postgresURL == "" {
		logger.Error("POSTGRES_URL environment variable is required")
		os.Exit(1)
	}

	db, err := telemetry.OpenDB("postgres", postgresURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	var producer *messaging.Producer
	if kafkaBrokers := os.Getenv("KAFKA_BROKERS"); kafkaBrokers != "" {
		producer = messaging.NewProducer(strings.Split(kafkaBrokers, ","), messaging.TopicOrderPlaced)
		defer func() { _ = producer.Close() }()
	}

	customerHandler := customers.NewHandler(customers.NewCustomerRepository(db), logger)
	orderHandler := orders.NewHandler(orders.NewOrderRepository(db), producer, logger)
	productHandler := products.NewHandler(products.NewProductRepository(db), logger)

	mux := http.NewServeMux()

	register := func(route routes.Route, h http.HandlerFunc) {
		mux.HandleFunc(route.Pattern(), telemetry.WithHTTPRoute(h))
	}

	register(routes.CustomersList, customerHandler.HandleList)
	register(routes.CustomerGet, customerHandler.HandleGet)
	register(routes.CustomerCreate, customerHandler.HandleCreate)
	register(routes.CustomerUpdate, customerHandler.HandleUpdate)
	register(routes.CustomerDelete, customerHandler.HandleDelete)

	register(routes.OrdersList, orderHandler.HandleList)
	register(routes.OrderGet, orderHandler.HandleGet)
	register(routes.OrderCreate, orderHandler.HandleCreate)
	register(routes.OrderUpdate, orderHandler.HandleUpdate)
	register(routes.OrderDelete, orderHandler.HandleDelete)

	register(routes.ProductsList, productHandler.HandleList)
	register(routes.ProductGet, productHandler.HandleGet)
	register(routes.ProductCreateMultiple, productHandler.HandleCreateMultiple)
	register(routes.ProductCreate, productHandler.HandleCreate)
	register(routes.ProductUpdate, productHandler.HandleUpdate)
	register(routes.ProductDelete, productHandler.HandleDelete)

	mux.Handle("GET /metrics", metricsHandler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr: ":" + port,
		Handler: otelhttp.NewHandler(mux, serviceName,
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
		logger.Info("starting shop api", "port", port)
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

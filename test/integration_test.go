//go:build integration

package test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/mkrogh/shop-backend/internal/customers"
	"github.com/mkrogh/shop-backend/internal/domain"
	"github.com/mkrogh/shop-backend/internal/messaging"
	"github.com/mkrogh/shop-backend/internal/orders"
	"github.com/mkrogh/shop-backend/internal/products"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedProduct(t *testing.T, handler *products.Handler, id string) {
	t.Helper()

	body := fmt.Sprintf(`{"id":%q,"name":%q,"price":"9.95","currency":"DKK"}`, id, gofakeit.BeerName())
	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.HandleCreate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("failed to seed product %s: %d %s", id, rec.Code, rec.Body.String())
	}
}

func TestCustomerLifecycle(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg := SetupPostgres(ctx, t)
	defer pg.Cleanup()
	db := OpenDB(t, pg.ConnStr)

	handler := customers.NewHandler(customers.NewCustomerRepository(db), testLogger())
	email := gofakeit.Email()

	t.Run("create", func(t *testing.T) {
		body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, gofakeit.Password(true, true, true, false, false, 12))
		req := httptest.NewRequest(http.MethodPost, "/api/customers", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.HandleCreate(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("duplicate create conflicts", func(t *testing.T) {
		body := fmt.Sprintf(`{"email":%q,"password":"other"}`, email)
		req := httptest.NewRequest(http.MethodPost, "/api/customers", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.HandleCreate(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "This email is already in use!") {
			t.Errorf("unexpected body: %s", rec.Body.String())
		}
	})

	t.Run("get returns the created representation", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/customers/"+email, nil)
		req.SetPathValue("email", email)
		rec := httptest.NewRecorder()

		handler.HandleGet(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var dto customers.CustomerDTO
		if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if dto.Email != email {
			t.Errorf("expected email %s, got %s", email, dto.Email)
		}
	})

	t.Run("delete then get is not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/customers/"+email, nil)
		req.SetPathValue("email", email)
		rec := httptest.NewRecorder()

		handler.HandleDelete(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		req = httptest.NewRequest(http.MethodGet, "/api/customers/"+email, nil)
		req.SetPathValue("email", email)
		rec = httptest.NewRecorder()

		handler.HandleGet(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404 after delete, got %d", rec.Code)
		}
	})
}

func TestOrderLifecycle(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg := SetupPostgres(ctx, t)
	defer pg.Cleanup()
	db := OpenDB(t, pg.ConnStr)

	logger := testLogger()
	productHandler := products.NewHandler(products.NewProductRepository(db), logger)
	repo := orders.NewOrderRepository(db)
	handler := orders.NewHandler(repo, nil, logger)

	seedProduct(t, productHandler, "beer-1")
	seedProduct(t, productHandler, "beer-2")

	t.Run("empty detail list is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{"order_details":[]}`))
		rec := httptest.NewRecorder()

		handler.HandleCreate(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("create and fetch the aggregate", func(t *testing.T) {
		body := `{"order_status":"pending","order_details":[{"quantity":2,"product_id":"beer-1"}]}`
		req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.HandleCreate(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}

		stored, err := repo.GetAll(ctx)
		if err != nil {
			t.Fatalf("failed to list orders: %v", err)
		}
		if len(stored) != 1 {
			t.Fatalf("expected 1 order, got %d", len(stored))
		}
		if len(stored[0].Details) != 1 || stored[0].Details[0].ProductID != "beer-1" {
			t.Fatalf("unexpected details: %+v", stored[0].Details)
		}
		if stored[0].Details[0].Product == nil || stored[0].Details[0].Product.Name == "" {
			t.Error("detail product should be eagerly loaded")
		}
	})

	t.Run("update replaces the detail set", func(t *testing.T) {
		existing, err := repo.GetAll(ctx)
		if err != nil || len(existing) == 0 {
			t.Fatalf("no order to update: %v", err)
		}
		id := existing[0].ID

		body := `{
			"order_date": "2026-04-01T08:00:00Z",
			"order_status": "shipped",
			"submit_comment": "updated",
			"order_details": [{"quantity":5,"product_id":"beer-2"}]
		}`
		req := httptest.NewRequest(http.MethodPut, "/api/orders/"+id.String(), strings.NewReader(body))
		req.SetPathValue("orderId", id.String())
		rec := httptest.NewRecorder()

		handler.HandleUpdate(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		updated, err := repo.Get(ctx, id)
		if err != nil {
			t.Fatalf("failed to fetch order: %v", err)
		}
		if updated.Status != domain.OrderStatusShipped {
			t.Errorf("expected status shipped, got %s", updated.Status)
		}
		if len(updated.Details) != 1 || updated.Details[0].ProductID != "beer-2" {
			t.Errorf("stale details survived the update: %+v", updated.Details)
		}
	})

	t.Run("deleting an unknown id leaves the store unchanged", func(t *testing.T) {
		before, err := repo.GetAll(ctx)
		if err != nil {
			t.Fatalf("failed to list orders: %v", err)
		}

		id := "66b44632-2fcb-4f23-a351-63b368411e76"
		req := httptest.NewRequest(http.MethodDelete, "/api/orders/"+id, nil)
		req.SetPathValue("orderId", id)
		rec := httptest.NewRecorder()

		handler.HandleDelete(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}

		after, err := repo.GetAll(ctx)
		if err != nil {
			t.Fatalf("failed to list orders: %v", err)
		}
		if len(after) != len(before) {
			t.Errorf("order count changed from %d to %d", len(before), len(after))
		}
	})
}

func TestProductLinkAsymmetry(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg := SetupPostgres(ctx, t)
	defer pg.Cleanup()
	db := OpenDB(t, pg.ConnStr)

	handler := products.NewHandler(products.NewProductRepository(db), testLogger())

	body := `{"id":"beer-1","name":"Pilsner","price":"9.95","currency":"DKK"}`
	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.HandleCreate(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var postLinks []struct {
		Rel string `json:"rel"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &postLinks); err != nil {
		t.Fatalf("failed to decode links: %v", err)
	}
	postRels := map[string]bool{}
	for _, l := range postLinks {
		postRels[l.Rel] = true
	}
	if !postRels["self"] || !postRels["delete_product"] || !postRels["update_product"] {
		t.Errorf("POST links must include self, delete and update, got %v", postRels)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/products/beer-1", nil)
	req.SetPathValue("productId", "beer-1")
	rec = httptest.NewRecorder()

	handler.HandleGet(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var dto products.ProductDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	getRels := map[string]bool{}
	for _, l := range dto.Links {
		getRels[l.Rel] = true
	}
	if getRels["self"] {
		t.Error("GET links must not include self")
	}
	if !getRels["delete_product"] || !getRels["update_product"] {
		t.Errorf("GET links must include delete and update, got %v", getRels)
	}
}

func TestOrderPlacedEvent(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	pg := SetupPostgres(ctx, t)
	defer pg.Cleanup()
	db := OpenDB(t, pg.ConnStr)

	brokers, cleanupKafka := SetupKafka(ctx, t)
	defer cleanupKafka()

	logger := testLogger()
	productHandler := products.NewHandler(products.NewProductRepository(db), logger)
	seedProduct(t, productHandler, "beer-1")

	producer := messaging.NewProducer(brokers, messaging.TopicOrderPlaced)
	defer func() { _ = producer.Close() }()

	handler := orders.NewHandler(orders.NewOrderRepository(db), producer, logger)

	body := `{"order_status":"pending","order_details":[{"quantity":1,"product_id":"beer-1"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.HandleCreate(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	consumer := messaging.NewConsumer(brokers, messaging.TopicOrderPlaced, "shop-test",
		messaging.WithStartOffset(kafkago.FirstOffset))
	defer func() { _ = consumer.Close() }()

	received := make(chan domain.OrderPlacedEvent, 1)
	consumeCtx, stopConsume := context.WithTimeout(ctx, time.Minute)
	defer stopConsume()

	go func() {
		_ = consumer.ConsumeOrderPlaced(consumeCtx, func(_ context.Context, event domain.OrderPlacedEvent) error {
			received <- event
			stopConsume()
			return nil
		})
	}()

	select {
	case event := <-received:
		if len(event.Details) != 1 || event.Details[0].ProductID != "beer-1" {
			t.Errorf("unexpected event payload: %+v", event)
		}
	case <-consumeCtx.Done():
		t.Fatal("timed out waiting for order placed event")
	}
}

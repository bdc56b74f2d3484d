package customers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/mkrogh/shop-backend/internal/domain"
)

type fakeRepo struct {
	customers map[string]domain.Customer
}

func newFakeRepo(customers ...domain.Customer) *fakeRepo {
	repo := &fakeRepo{customers: map[string]domain.Customer{}}
	for _, c := range customers {
		repo.customers[c.Email] = c
	}
	return repo
}

func (f *fakeRepo) GetAll(_ context.Context) ([]domain.Customer, error) {
	var out []domain.Customer
	for _, c := range f.customers {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeRepo) Get(_ context.Context, email string) (*domain.Customer, error) {
	c, ok := f.customers[email]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (f *fakeRepo) Insert(_ context.Context, c domain.Customer) (int64, error) {
	if _, exists := f.customers[c.Email]; exists {
		return 0, nil
	}
	f.customers[c.Email] = c
	return 1, nil
}

func (f *fakeRepo) Update(_ context.Context, c domain.Customer) (int64, error) {
	if _, exists := f.customers[c.Email]; !exists {
		return 0, nil
	}
	f.customers[c.Email] = c
	return 1, nil
}

func (f *fakeRepo) Delete(_ context.Context, email string) (int64, error) {
	if _, exists := f.customers[email]; !exists {
		return 0, nil
	}
	delete(f.customers, email)
	return 1, nil
}

func newTestHandler(repo Repository) *Handler {
	return NewHandler(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

func TestHandler_HandleCreate(t *testing.T) {
	t.Run("email is required", func(t *testing.T) {
		handler := newTestHandler(newFakeRepo())

		req := httptest.NewRequest(http.MethodPost, "/api/customers", strings.NewReader(`{"password":"hunter2"}`))
		rec := httptest.NewRecorder()

		handler.HandleCreate(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if msg := decodeBody(t, rec)["error"]; msg != "Customer email is required to register the customer!" {
			t.Errorf("unexpected message: %s", msg)
		}
	})

	t.Run("duplicate email is rejected, never overwritten", func(t *testing.T) {
		repo := newFakeRepo(domain.Customer{Email: "a@x.com", Password: "original"})
		handler := newTestHandler(repo)

		req := httptest.NewRequest(http.MethodPost, "/api/customers", strings.NewReader(`{"email":"a@x.com","password":"other"}`))
		rec := httptest.NewRecorder()

		handler.HandleCreate(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if msg := decodeBody(t, rec)["error"]; msg != "This email is already in use!" {
			t.Errorf("unexpected message: %s", msg)
		}
		if repo.customers["a@x.com"].Password != "original" {
			t.Error("existing customer must not be overwritten")
		}
	})

	t.Run("creates a customer", func(t *testing.T) {
		repo := newFakeRepo()
		handler := newTestHandler(repo)

		req := httptest.NewRequest(http.MethodPost, "/api/customers", strings.NewReader(`{"email":"a@x.com","password":"hunter2"}`))
		rec := httptest.NewRecorder()

		handler.HandleCreate(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if _, ok := repo.customers["a@x.com"]; !ok {
			t.Error("customer was not stored")
		}
	})
}

func TestHandler_HandleGet(t *testing.T) {
	t.Run("unknown email is not found", func(t *testing.T) {
		handler := newTestHandler(newFakeRepo())

		req := httptest.NewRequest(http.MethodGet, "/api/customers/a@x.com", nil)
		req.SetPathValue("email", "a@x.com")
		rec := httptest.NewRecorder()

		handler.HandleGet(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if msg := decodeBody(t, rec)["error"]; msg != "The specified customer does not exist!" {
			t.Errorf("unexpected message: %s", msg)
		}
	})

	t.Run("password never round-trips", func(t *testing.T) {
		handler := newTestHandler(newFakeRepo(domain.Customer{Email: "a@x.com", Password: "hunter2"}))

		req := httptest.NewRequest(http.MethodGet, "/api/customers/a@x.com", nil)
		req.SetPathValue("email", "a@x.com")
		rec := httptest.NewRecorder()

		handler.HandleGet(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if strings.Contains(rec.Body.String(), "hunter2") {
			t.Error("response leaked the stored password")
		}
		var dto CustomerDTO
		if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if dto.Email != "a@x.com" {
			t.Errorf("unexpected email: %s", dto.Email)
		}
	})
}

func TestHandler_HandleList(t *testing.T) {
	t.Run("no customers is not found", func(t *testing.T) {
		handler := newTestHandler(newFakeRepo())

		rec := httptest.NewRecorder()
		handler.HandleList(rec, httptest.NewRequest(http.MethodGet, "/api/customers", nil))

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if msg := decodeBody(t, rec)["error"]; msg != "The specified customers does not exist!" {
			t.Errorf("unexpected message: %s", msg)
		}
	})
}

func TestHandler_HandleUpdate(t *testing.T) {
	t.Run("email is required", func(t *testing.T) {
		handler := newTestHandler(newFakeRepo())

		req := httptest.NewRequest(http.MethodPut, "/api/customers", strings.NewReader(`{"orders":[]}`))
		rec := httptest.NewRecorder()

		handler.HandleUpdate(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("unknown customer is not found", func(t *testing.T) {
		handler := newTestHandler(newFakeRepo())

		req := httptest.NewRequest(http.MethodPut, "/api/customers", strings.NewReader(`{"email":"a@x.com"}`))
		rec := httptest.NewRecorder()

		handler.HandleUpdate(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if msg := decodeBody(t, rec)["error"]; msg != "Customer does not exist!" {
			t.Errorf("unexpected message: %s", msg)
		}
	})

	t.Run("replaces the order collection wholesale", func(t *testing.T) {
		existing := domain.Customer{
			Email:    "a@x.com",
			Password: "hunter2",
			Orders: []domain.Order{
				{ID: uuid.New(), Details: []domain.OrderDetail{{Quantity: 1, ProductID: "beer-1"}}},
			},
		}
		repo := newFakeRepo(existing)
		handler := newTestHandler(repo)

		body := `{"email":"a@x.com","orders":[{"order_status":"pending","order_details":[{"quantity":3,"product_id":"beer-2"}]}]}`
		req := httptest.NewRequest(http.MethodPut, "/api/customers", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.HandleUpdate(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		stored := repo.customers["a@x.com"]
		if stored.Password != "hunter2" {
			t.Error("update must keep the stored password")
		}
		if len(stored.Orders) != 1 || stored.Orders[0].Details[0].ProductID != "beer-2" {
			t.Errorf("order collection was not replaced: %+v", stored.Orders)
		}
	})
}

func TestHandler_HandleDelete(t *testing.T) {
	t.Run("unknown customer is not found and store unchanged", func(t *testing.T) {
		repo := newFakeRepo(domain.Customer{Email: "a@x.com"})
		handler := newTestHandler(repo)

		req := httptest.NewRequest(http.MethodDelete, "/api/customers/b@x.com", nil)
		req.SetPathValue("email", "b@x.com")
		rec := httptest.NewRecorder()

		handler.HandleDelete(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if len(repo.customers) != 1 {
			t.Error("store must be unchanged after a failed delete")
		}
	})

	t.Run("deletes and confirms", func(t *testing.T) {
		repo := newFakeRepo(domain.Customer{Email: "a@x.com"})
		handler := newTestHandler(repo)

		req := httptest.NewRequest(http.MethodDelete, "/api/customers/a@x.com", nil)
		req.SetPathValue("email", "a@x.com")
		rec := httptest.NewRecorder()

		handler.HandleDelete(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if len(repo.customers) != 0 {
			t.Error("customer was not deleted")
		}
	})
}

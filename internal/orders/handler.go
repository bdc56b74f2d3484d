package orders

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/mkrogh/shop-backend/internal/domain"
	"github.com/mkrogh/shop-backend/internal/messaging"
)

type Handler struct {
	repo     Repository
	producer *messaging.Producer
	logger   *slog.Logger
}

func NewHandler(repo Repository, producer *messaging.Producer, logger *slog.Logger) *Handler {
	return &Handler{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	orders, err := h.repo.GetAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list orders", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if len(orders) == 0 {
		h.writeError(w, http.StatusNotFound, "The specified orders does not exist!")
		return
	}

	h.logger.Info("orders listed", "count", len(orders))
	h.writeJSON(w, http.StatusOK, lo.Map(orders, func(o domain.Order, _ int) OrderDTO { return OrderToDTO(o) }))
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(r.PathValue("orderId"))
	if err != nil {
		h.writeError(w, http.StatusNotFound, "The specified order does not exist!")
		return
	}

	order, err := h.repo.Get(r.Context(), orderID)
	if err != nil {
		h.logger.Error("failed to get order", "error", err, "order_id", orderID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if order == nil {
		h.writeError(w, http.StatusNotFound, "The specified order does not exist!")
		return
	}

	h.logger.Info("order retrieved", "order_id", order.ID)
	h.writeJSON(w, http.StatusOK, OrderToDTO(*order))
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req OrderDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.OrderDetails) == 0 {
		h.writeError(w, http.StatusBadRequest, "ProductDetails is required to register the order!")
		return
	}

	order, err := OrderFromDTO(req)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.OrderDate.IsZero() {
		order.OrderDate = time.Now().UTC()
	}
	if order.Status == "" {
		order.Status = domain.OrderStatusPending
	}

	affected, err := h.repo.Insert(r.Context(), order)
	if err != nil {
		h.logger.Error("failed to insert order", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if affected == 0 {
		h.writeError(w, http.StatusNotFound, "Order could not be registered!")
		return
	}

	h.publishPlaced(r, order)

	h.logger.Info("order created", "order_id", order.ID)
	h.writeMessage(w, http.StatusCreated, "Order is inserted successfully!")
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(r.PathValue("orderId"))
	if err != nil {
		h.writeError(w, http.StatusNotFound, "Order does not exist!")
		return
	}

	var req OrderDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	existing, err := h.repo.Get(r.Context(), orderID)
	if err != nil {
		h.logger.Error("failed to get order", "error", err, "order_id", orderID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if existing == nil {
		h.writeError(w, http.StatusNotFound, "Order does not exist!")
		return
	}

	incoming, err := OrderFromDTO(req)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated := *existing
	updated.OrderDate = incoming.OrderDate
	updated.Status = incoming.Status
	updated.CheckMarketing = incoming.CheckMarketing
	updated.SubmitComment = incoming.SubmitComment
	// The detail set becomes exactly what the caller sent.
	updated.Details = incoming.Details

	affected, err := h.repo.Update(r.Context(), updated)
	if err != nil {
		h.logger.Error("failed to update order", "error", err, "order_id", orderID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if affected == 0 {
		h.writeError(w, http.StatusNotFound, "Order could not be updated!")
		return
	}

	h.logger.Info("order updated", "order_id", orderID)
	h.writeMessage(w, http.StatusOK, "Order has been updated!")
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(r.PathValue("orderId"))
	if err != nil {
		h.writeError(w, http.StatusNotFound, "Order could not be deleted!")
		return
	}

	affected, err := h.repo.Delete(r.Context(), orderID)
	if err != nil {
		h.logger.Error("failed to delete order", "error", err, "order_id", orderID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if affected == 0 {
		h.writeError(w, http.StatusNotFound, "Order could not be deleted!")
		return
	}

	h.logger.Info("order deleted", "order_id", orderID)
	h.writeMessage(w, http.StatusOK, "Order has been deleted!")
}

func (h *Handler) publishPlaced(r *http.Request, order domain.Order) {
	if h.producer == nil {
		return
	}

	event := domain.OrderPlacedEvent{
		OrderID:       order.ID,
		CustomerEmail: order.CustomerEmail,
		Details:       order.Details,
		Timestamp:     order.OrderDate,
	}
	if err := h.producer.PublishOrderPlaced(r.Context(), event); err != nil {
		h.logger.Error("failed to publish order placed event", "error", err, "order_id", order.ID)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeMessage(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"message": message})
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

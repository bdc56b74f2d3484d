package customers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/samber/lo"

	"github.com/mkrogh/shop-backend/internal/domain"
)

type Handler struct {
	repo   Repository
	logger *slog.Logger
}

func NewHandler(repo Repository, logger *slog.Logger) *Handler {
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

type createCustomerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	customers, err := h.repo.GetAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list customers", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if len(customers) == 0 {
		h.writeError(w, http.StatusNotFound, "The specified customers does not exist!")
		return
	}

	h.logger.Info("customers listed", "count", len(customers))
	h.writeJSON(w, http.StatusOK, lo.Map(customers, func(c domain.Customer, _ int) CustomerDTO { return CustomerToDTO(c) }))
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")

	customer, err := h.repo.Get(r.Context(), email)
	if err != nil {
		h.logger.Error("failed to get customer", "error", err, "email", email)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if customer == nil {
		h.writeError(w, http.StatusNotFound, "The specified customer does not exist!")
		return
	}

	h.logger.Info("customer retrieved", "email", email)
	h.writeJSON(w, http.StatusOK, CustomerToDTO(*customer))
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" {
		h.writeError(w, http.StatusBadRequest, "Customer email is required to register the customer!")
		return
	}

	existing, err := h.repo.Get(r.Context(), req.Email)
	if err != nil {
		h.logger.Error("failed to check customer email", "error", err, "email", req.Email)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if existing != nil {
		h.writeError(w, http.StatusBadRequest, "This email is already in use!")
		return
	}

	affected, err := h.repo.Insert(r.Context(), domain.Customer{Email: req.Email, Password: req.Password})
	if err != nil {
		h.logger.Error("failed to insert customer", "error", err, "email", req.Email)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if affected == 0 {
		h.writeError(w, http.StatusNotFound, "Customer could not be registered!")
		return
	}

	h.logger.Info("customer created", "email", req.Email)
	h.writeMessage(w, http.StatusCreated, "Customer is inserted successfully!")
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req CustomerDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" {
		h.writeError(w, http.StatusBadRequest, "Customer email is required to update the customer!")
		return
	}

	existing, err := h.repo.Get(r.Context(), req.Email)
	if err != nil {
		h.logger.Error("failed to get customer", "error", err, "email", req.Email)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if existing == nil {
		h.writeError(w, http.StatusNotFound, "Customer does not exist!")
		return
	}

	incoming, err := CustomerFromDTO(req)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated := *existing
	// The order collection becomes exactly what the caller sent.
	updated.Orders = incoming.Orders

	affected, err := h.repo.Update(r.Context(), updated)
	if err != nil {
		h.logger.Error("failed to update customer", "error", err, "email", req.Email)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if affected == 0 {
		h.writeError(w, http.StatusNotFound, "Customer could not be updated!")
		return
	}

	h.logger.Info("customer updated", "email", req.Email)
	h.writeMessage(w, http.StatusOK, "Customer has been updated!")
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")
	if email == "" {
		h.writeError(w, http.StatusBadRequest, "Customer email is required to delete the customer!")
		return
	}

	existing, err := h.repo.Get(r.Context(), email)
	if err != nil {
		h.logger.Error("failed to get customer", "error", err, "email", email)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if existing == nil {
		h.writeError(w, http.StatusNotFound, "Customer does not exist!")
		return
	}

	affected, err := h.repo.Delete(r.Context(), email)
	if err != nil {
		h.logger.Error("failed to delete customer", "error", err, "email", email)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if affected == 0 {
		h.writeError(w, http.StatusNotFound, "Customer could not be deleted!")
		return
	}

	h.logger.Info("customer deleted", "email", email)
	h.writeMessage(w, http.StatusOK, "Customer has been deleted!")
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

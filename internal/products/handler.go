package products

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/text/currency"

	"github.com/mkrogh/shop-backend/internal/hypermedia"
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

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	products, err := h.repo.GetAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list products", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	// An empty catalogue is reported as not-found, not as an empty list.
	if len(products) == 0 {
		h.writeError(w, http.StatusNotFound, "The specified products does not exist!")
		return
	}

	dtos := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		dto := ProductToDTO(p)
		links, err := hypermedia.BuildProductLinks(p.ID, http.MethodGet)
		if err != nil {
			h.logger.Error("failed to build product links", "error", err, "product_id", p.ID)
			h.writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		dto.Links = links
		dtos = append(dtos, dto)
	}

	h.logger.Info("products listed", "count", len(dtos))
	h.writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("productId")

	product, err := h.repo.Get(r.Context(), productID)
	if err != nil {
		h.logger.Error("failed to get product", "error", err, "product_id", productID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if product == nil {
		h.writeError(w, http.StatusNotFound, "The specified product does not exist!")
		return
	}

	dto := ProductToDTO(*product)
	links, err := hypermedia.BuildProductLinks(productID, http.MethodGet)
	if err != nil {
		h.logger.Error("failed to build product links", "error", err, "product_id", productID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	dto.Links = links

	h.logger.Info("product retrieved", "product_id", productID)
	h.writeJSON(w, http.StatusOK, dto)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req ProductDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ID == "" {
		h.writeError(w, http.StatusBadRequest, "Product id is required to register the product!")
		return
	}

	if req.Currency != "" {
		if _, err := currency.ParseISO(req.Currency); err != nil {
			h.writeError(w, http.StatusBadRequest, "Product currency must be a valid ISO 4217 code!")
			return
		}
	}

	existing, err := h.repo.Get(r.Context(), req.ID)
	if err != nil {
		h.logger.Error("failed to check product id", "error", err, "product_id", req.ID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if existing != nil {
		h.writeError(w, http.StatusBadRequest, "This product id is already in use!")
		return
	}

	affected, err := h.repo.Insert(r.Context(), ProductFromDTO(req))
	if err != nil {
		h.logger.Error("failed to insert product", "error", err, "product_id", req.ID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if affected == 0 {
		h.writeError(w, http.StatusNotFound, "Product could not be inserted!")
		return
	}

	links, err := hypermedia.BuildProductLinks(req.ID, http.MethodPost)
	if err != nil {
		h.logger.Error("failed to build product links", "error", err, "product_id", req.ID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("product created", "product_id", req.ID)
	h.writeJSON(w, http.StatusOK, links)
}

// HandleCreateMultiple inserts products one by one and fails fast on the
// first rejected write. Earlier inserts are not rolled back.
func (h *Handler) HandleCreateMultiple(w http.ResponseWriter, r *http.Request) {
	var reqs []ProductDTO
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	for _, req := range reqs {
		affected, err := h.repo.Insert(r.Context(), ProductFromDTO(req))
		if err != nil {
			h.logger.Error("failed to insert product", "error", err, "product_id", req.ID)
			h.writeError(w, http.StatusNotFound, fmt.Sprintf("Product %s could not be inserted!", req.Name))
			return
		}
		if affected == 0 {
			h.writeError(w, http.StatusNotFound, fmt.Sprintf("Product %s could not be inserted!", req.Name))
			return
		}
	}

	h.logger.Info("products created", "count", len(reqs))
	h.writeMessage(w, http.StatusOK, "Products were inserted successfully!")
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req ProductDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	existing, err := h.repo.Get(r.Context(), req.ID)
	if err != nil {
		h.logger.Error("failed to get product", "error", err, "product_id", req.ID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	// A missing target is a bad request here, unlike customers and orders.
	if existing == nil {
		h.writeError(w, http.StatusBadRequest, "Product does not exist!")
		return
	}

	updated := *existing
	updated.Name = req.Name
	updated.Price = req.Price
	updated.Currency = req.Currency
	updated.RebateQuantity = req.RebateQuantity
	updated.RebatePercent = req.RebatePercent
	updated.UpsellProductID = req.UpsellProductID
	// ImageURL is deliberately left as stored.

	affected, err := h.repo.Update(r.Context(), updated)
	if err != nil {
		h.logger.Error("failed to update product", "error", err, "product_id", req.ID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if affected == 0 {
		h.writeError(w, http.StatusNotFound, "Product could not be updated!")
		return
	}

	links, err := hypermedia.BuildProductLinks(req.ID, http.MethodPut)
	if err != nil {
		h.logger.Error("failed to build product links", "error", err, "product_id", req.ID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("product updated", "product_id", req.ID)
	h.writeJSON(w, http.StatusOK, links)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("productId")

	affected, err := h.repo.Delete(r.Context(), productID)
	if err != nil {
		h.logger.Error("failed to delete product", "error", err, "product_id", productID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if affected == 0 {
		h.writeError(w, http.StatusNotFound, "Product could not be deleted!")
		return
	}

	h.logger.Info("product deleted", "product_id", productID)
	h.writeMessage(w, http.StatusOK, "Product has been deleted!")
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

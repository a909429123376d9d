package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/agrisense/agrisense-be/internal/auth"
	"github.com/agrisense/agrisense-be/internal/http/respond"
	"github.com/agrisense/agrisense-be/internal/models"
	"github.com/agrisense/agrisense-be/internal/models/dto"
	"github.com/agrisense/agrisense-be/internal/storage"
)

// Middleware wraps a handler with a cross-cutting concern such as
// authentication.
type Middleware = func(http.Handler) http.Handler

// ProductHandler owns the catalog endpoints. Reads are public; writes are
// admin-only, reviews require authentication.
type ProductHandler struct {
	products storage.ProductStore
}

// NewProductHandler constructs the handler.
func NewProductHandler(products storage.ProductStore) *ProductHandler {
	return &ProductHandler{products: products}
}

// Register attaches catalog routes. authed gates on a valid token, admin
// additionally requires the stored admin flag.
func (h *ProductHandler) Register(mux *http.ServeMux, authed, admin Middleware) {
	mux.HandleFunc("GET /api/products", h.handleList)
	mux.HandleFunc("GET /api/products/top", h.handleTop)
	mux.HandleFunc("GET /api/products/{id}", h.handleGet)
	mux.Handle("POST /api/products", admin(http.HandlerFunc(h.handleCreate)))
	mux.Handle("PUT /api/products/{id}", admin(http.HandlerFunc(h.handleUpdate)))
	mux.Handle("DELETE /api/products/{id}", admin(http.HandlerFunc(h.handleDelete)))
	mux.Handle("POST /api/products/{id}/reviews", authed(http.HandlerFunc(h.handleCreateReview)))
}

func (h *ProductHandler) handleList(w http.ResponseWriter, r *http.Request) {
	keyword := strings.TrimSpace(r.URL.Query().Get("keyword"))
	category := strings.TrimSpace(r.URL.Query().Get("category"))

	products, err := h.products.ListProducts(r.Context(), keyword, category)
	if err != nil {
		logrus.WithError(err).Error("list products failed")
		respond.Error(w, http.StatusInternalServerError, "Server Error")
		return
	}
	respond.JSON(w, http.StatusOK, "ok", products)
}

func (h *ProductHandler) handleTop(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.TopProducts(r.Context(), 5)
	if err != nil {
		logrus.WithError(err).Error("top products failed")
		respond.Error(w, http.StatusInternalServerError, "Server Error")
		return
	}
	respond.JSON(w, http.StatusOK, "ok", products)
}

func (h *ProductHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respond.Error(w, http.StatusNotFound, "Product not found")
		return
	}
	product, err := h.products.FindProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Product not found")
			return
		}
		logrus.WithError(err).Error("get product failed")
		respond.Error(w, http.StatusInternalServerError, "Server Error")
		return
	}
	respond.JSON(w, http.StatusOK, "ok", product)
}

func (h *ProductHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respond.Error(w, http.StatusBadRequest, "Product name is required")
		return
	}

	created, err := h.products.CreateProduct(r.Context(), models.Product{
		Name:         strings.TrimSpace(req.Name),
		Price:        req.Price,
		Description:  req.Description,
		Image:        req.Image,
		Category:     req.Category,
		CountInStock: req.CountInStock,
	})
	if err != nil {
		logrus.WithError(err).Error("create product failed")
		respond.Error(w, http.StatusInternalServerError, "Server Error")
		return
	}
	respond.JSON(w, http.StatusCreated, "Product created", created)
}

func (h *ProductHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respond.Error(w, http.StatusNotFound, "Product not found")
		return
	}
	var req dto.ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	updated, err := h.products.UpdateProduct(r.Context(), models.Product{
		ID:           id,
		Name:         strings.TrimSpace(req.Name),
		Price:        req.Price,
		Description:  req.Description,
		Image:        req.Image,
		Category:     req.Category,
		CountInStock: req.CountInStock,
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Product not found")
			return
		}
		logrus.WithError(err).Error("update product failed")
		respond.Error(w, http.StatusInternalServerError, "Server Error")
		return
	}
	respond.JSON(w, http.StatusOK, "Product updated", updated)
}

func (h *ProductHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respond.Error(w, http.StatusNotFound, "Product not found")
		return
	}
	if err := h.products.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Product not found")
			return
		}
		logrus.WithError(err).Error("delete product failed")
		respond.Error(w, http.StatusInternalServerError, "Server Error")
		return
	}
	respond.JSON(w, http.StatusOK, "Product removed", nil)
}

func (h *ProductHandler) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Authorization token is required")
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respond.Error(w, http.StatusNotFound, "Product not found")
		return
	}
	var req dto.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		respond.Error(w, http.StatusBadRequest, "Rating must be between 1 and 5")
		return
	}

	err = h.products.AddReview(r.Context(), models.Review{
		ProductID: id,
		UserID:    principal.UserID,
		Name:      principal.Email,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrAlreadyExists):
			respond.Error(w, http.StatusBadRequest, "Product already reviewed")
		case errors.Is(err, storage.ErrNotFound):
			respond.Error(w, http.StatusNotFound, "Product not found")
		default:
			logrus.WithError(err).Error("add review failed")
			respond.Error(w, http.StatusInternalServerError, "Server Error")
		}
		return
	}
	respond.JSON(w, http.StatusCreated, "Review added", nil)
}

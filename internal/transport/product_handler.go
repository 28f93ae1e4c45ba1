package transport

import (
	"net/http"

	"food-court/internal/domain"
	"food-court/internal/middleware"
	"food-court/internal/service"
	"food-court/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateProductRequest is the JSON carried in the multipart "data" field
// when creating a product
type CreateProductRequest struct {
	Name        string `json:"name" validate:"required,min=3"`
	Price       string `json:"price" validate:"required"`
	Description string `json:"description" validate:"required,min=3"`
	Category    string `json:"category" validate:"required,oneof=food drink dessert other"`
}

// UpdateProductRequest is the JSON carried in the multipart "data" field
// when updating a product. Absent fields retain their prior value.
type UpdateProductRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=3"`
	Price       *string `json:"price" validate:"omitempty"`
	Description *string `json:"description" validate:"omitempty,min=3"`
	Category    *string `json:"category" validate:"omitempty,oneof=food drink dessert other"`
}

// ProductHandler handles HTTP requests for the catalog
type ProductHandler struct {
	productService service.ProductService
	fileStore      *storage.FileStore
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, fileStore *storage.FileStore, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		fileStore:      fileStore,
		logger:         logger,
	}
}

// RegisterRoutes registers all catalog routes
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	enterpriseOnly := middleware.RequireRole([]domain.Role{domain.RoleEnterprise}, h.logger)

	r.Route("/products", func(r chi.Router) {
		r.Use(authMiddleware)

		r.Get("/{enterpriseId}", h.ListByEnterprise)

		r.Group(func(r chi.Router) {
			r.Use(enterpriseOnly)
			r.Get("/{enterpriseId}/{productId}", h.GetByID)
			r.Put("/{enterpriseId}/{productId}", h.Update)
			r.Patch("/{enterpriseId}/{productId}", h.SoftDelete)
		})
	})

	// Creation lives under the enterprise resource
	r.With(authMiddleware, enterpriseOnly).Post("/enterprises/{enterpriseId}/products", h.Create)
}

// Create adds a product to the enterprise's catalog. The request is
// multipart: JSON in "data", optional image in "photo".
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	enterpriseID, err := uuidParam(r, "enterpriseId")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid enterprise ID")
		return
	}

	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := r.ParseMultipartForm(storage.MaxFileSize + 1024*1024); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	var req CreateProductRequest
	if err := middleware.DecodeAndValidateBytes([]byte(r.FormValue("data")), &req); err != nil {
		h.logger.Debug("Product creation validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid data payload")
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid price")
		return
	}

	photoURL, ok := h.savePhotoIfPresent(w, r)
	if !ok {
		return
	}

	product, err := h.productService.Create(r.Context(), caller, enterpriseID, service.CreateProductInput{
		Name:        req.Name,
		Price:       price,
		Description: req.Description,
		Category:    domain.ProductCategory(req.Category),
		PhotoURL:    photoURL,
	})
	if err != nil {
		if photoURL != "" {
			h.logger.Warn("Photo stored but product not created", zap.String("filename", photoURL))
		}
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	h.logger.Info("Product created",
		zap.Int64("product_id", product.ID),
		zap.String("enterprise_id", enterpriseID.String()),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// ListByEnterprise returns the active catalog of an enterprise
func (h *ProductHandler) ListByEnterprise(w http.ResponseWriter, r *http.Request) {
	enterpriseID, err := uuidParam(r, "enterpriseId")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid enterprise ID")
		return
	}

	products, err := h.productService.ListActiveByEnterprise(r.Context(), enterpriseID)
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// GetByID returns a single active product; owner only
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	enterpriseID, productID, caller, ok := h.productRequest(w, r)
	if !ok {
		return
	}

	product, err := h.productService.GetActiveByID(r.Context(), caller, enterpriseID, productID)
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Update merges the provided fields into an existing product. The request
// is multipart like Create; a new photo replaces the stored one.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	enterpriseID, productID, caller, ok := h.productRequest(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(storage.MaxFileSize + 1024*1024); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	var req UpdateProductRequest
	if err := middleware.DecodeAndValidateBytes([]byte(r.FormValue("data")), &req); err != nil {
		h.logger.Debug("Product update validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid data payload")
		return
	}

	update := service.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
	}

	if req.Price != nil {
		price, err := decimal.NewFromString(*req.Price)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid price")
			return
		}
		update.Price = &price
	}
	if req.Category != nil {
		category := domain.ProductCategory(*req.Category)
		update.Category = &category
	}

	photoURL, ok := h.savePhotoIfPresent(w, r)
	if !ok {
		return
	}
	if photoURL != "" {
		update.PhotoURL = &photoURL
	}

	product, err := h.productService.Update(r.Context(), caller, enterpriseID, productID, update)
	if err != nil {
		if photoURL != "" {
			h.logger.Warn("Photo stored but product not updated", zap.String("filename", photoURL))
		}
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// SoftDelete deactivates a product
func (h *ProductHandler) SoftDelete(w http.ResponseWriter, r *http.Request) {
	enterpriseID, productID, caller, ok := h.productRequest(w, r)
	if !ok {
		return
	}

	if err := h.productService.SoftDelete(r.Context(), caller, enterpriseID, productID); err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	h.logger.Info("Product deactivated",
		zap.Int64("product_id", productID),
		zap.String("enterprise_id", enterpriseID.String()),
	)
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "product deactivated"})
}

func (h *ProductHandler) productRequest(w http.ResponseWriter, r *http.Request) (enterpriseID uuid.UUID, productID int64, caller *domain.Caller, ok bool) {
	enterpriseID, err := uuidParam(r, "enterpriseId")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid enterprise ID")
		return enterpriseID, 0, nil, false
	}

	productID, err = int64Param(r, "productId")
	if err != nil || productID <= 0 {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return enterpriseID, 0, nil, false
	}

	caller, found := middleware.GetCaller(r.Context())
	if !found {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return enterpriseID, 0, nil, false
	}

	return enterpriseID, productID, caller, true
}

// savePhotoIfPresent stores the optional "photo" file. The second return
// value is false when an error response has already been written.
func (h *ProductHandler) savePhotoIfPresent(w http.ResponseWriter, r *http.Request) (string, bool) {
	file, header, err := r.FormFile("photo")
	if err != nil {
		if err == http.ErrMissingFile {
			return "", true
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid photo upload")
		return "", false
	}
	defer file.Close()

	filename, err := h.fileStore.Save(file, header)
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return "", false
	}

	return filename, true
}

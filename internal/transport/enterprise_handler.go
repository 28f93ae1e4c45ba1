package transport

import (
	"net/http"

	"food-court/internal/domain"
	"food-court/internal/middleware"
	"food-court/internal/service"
	"food-court/internal/storage"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RegisterEnterpriseRequest represents the enterprise registration payload
type RegisterEnterpriseRequest struct {
	Name     string         `json:"name" validate:"required,min=3"`
	Email    string         `json:"email" validate:"required,email"`
	Password string         `json:"password" validate:"required,min=8,strongpassword"`
	Address  AddressPayload `json:"address" validate:"required"`
}

// AddressPayload represents an enterprise address
type AddressPayload struct {
	Street string `json:"street" validate:"required,min=3"`
	Number int    `json:"number" validate:"required,gt=0"`
	City   string `json:"city" validate:"required"`
	State  string `json:"state" validate:"required,min=2"`
}

// UpdateOpenRequest toggles the enterprise is-open flag
type UpdateOpenRequest struct {
	IsOpen *bool `json:"isOpen" validate:"required"`
}

// UpdateOpeningHoursRequest updates the opening-hours text
type UpdateOpeningHoursRequest struct {
	OpeningHours string `json:"openingHours" validate:"required,min=1,max=85"`
}

// EnterpriseHandler handles HTTP requests for enterprise accounts
type EnterpriseHandler struct {
	enterpriseService service.EnterpriseService
	fileStore         *storage.FileStore
	logger            *zap.Logger
}

// NewEnterpriseHandler creates a new EnterpriseHandler
func NewEnterpriseHandler(enterpriseService service.EnterpriseService, fileStore *storage.FileStore, logger *zap.Logger) *EnterpriseHandler {
	return &EnterpriseHandler{
		enterpriseService: enterpriseService,
		fileStore:         fileStore,
		logger:            logger,
	}
}

// RegisterRoutes registers all enterprise routes
func (h *EnterpriseHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/enterprises", func(r chi.Router) {
		// Public routes
		r.Post("/register", h.Register)
		r.Get("/", h.Search)
		r.Get("/{enterpriseId}", h.GetByID)

		// Owner-only routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RequireRole([]domain.Role{domain.RoleEnterprise}, h.logger))
			r.Patch("/{enterpriseId}/is-open", h.UpdateOpenStatus)
			r.Patch("/{enterpriseId}/opening-hours", h.UpdateOpeningHours)
			r.Patch("/{enterpriseId}/logo", h.UpdateLogo)
		})
	})
}

// Register handles enterprise registration
func (h *EnterpriseHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterEnterpriseRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Enterprise registration validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	enterprise, err := h.enterpriseService.Register(r.Context(), req.Name, req.Email, req.Password, domain.Address{
		Street: req.Address.Street,
		Number: req.Address.Number,
		City:   req.Address.City,
		State:  req.Address.State,
	})
	if err != nil {
		h.logger.Debug("Enterprise registration failed", zap.Error(err))
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	h.logger.Info("Enterprise registered", zap.String("enterprise_id", enterprise.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, enterprise)
}

// Search lists enterprises whose name contains the query substring
func (h *EnterpriseHandler) Search(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")

	enterprises, err := h.enterpriseService.Search(r.Context(), name)
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, enterprises)
}

// GetByID returns the public profile of an enterprise
func (h *EnterpriseHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	enterpriseID, err := uuidParam(r, "enterpriseId")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid enterprise ID")
		return
	}

	enterprise, err := h.enterpriseService.GetByID(r.Context(), enterpriseID)
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, enterprise)
}

// UpdateOpenStatus toggles whether the enterprise is currently open
func (h *EnterpriseHandler) UpdateOpenStatus(w http.ResponseWriter, r *http.Request) {
	enterpriseID, err := uuidParam(r, "enterpriseId")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid enterprise ID")
		return
	}

	var req UpdateOpenRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.enterpriseService.SetOpen(r.Context(), caller, enterpriseID, *req.IsOpen); err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]bool{"isOpen": *req.IsOpen})
}

// UpdateOpeningHours updates the opening-hours text
func (h *EnterpriseHandler) UpdateOpeningHours(w http.ResponseWriter, r *http.Request) {
	enterpriseID, err := uuidParam(r, "enterpriseId")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid enterprise ID")
		return
	}

	var req UpdateOpeningHoursRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.enterpriseService.SetOpeningHours(r.Context(), caller, enterpriseID, req.OpeningHours); err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"openingHours": req.OpeningHours})
}

// UpdateLogo stores an uploaded logo image for the enterprise
func (h *EnterpriseHandler) UpdateLogo(w http.ResponseWriter, r *http.Request) {
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

	file, header, err := r.FormFile("photo")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "missing photo file")
		return
	}
	defer file.Close()

	filename, err := h.fileStore.Save(file, header)
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	if err := h.enterpriseService.SetLogo(r.Context(), caller, enterpriseID, filename); err != nil {
		// The stored file stays behind; an orphan is accepted here.
		h.logger.Warn("Logo stored but not linked", zap.String("filename", filename), zap.Error(err))
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"logoUrl": filename})
}

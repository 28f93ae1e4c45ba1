package transport

import (
	"net/http"

	"food-court/internal/middleware"
	"food-court/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RegisterClientRequest represents the client registration payload
type RegisterClientRequest struct {
	Name     string `json:"name" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,strongpassword"`
}

// ClientProfile represents client account data returned to callers
type ClientProfile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ClientHandler handles HTTP requests for client accounts
type ClientHandler struct {
	clientService service.ClientService
	logger        *zap.Logger
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clientService service.ClientService, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
		logger:        logger,
	}
}

// RegisterRoutes registers all client routes
func (h *ClientHandler) RegisterRoutes(r chi.Router) {
	r.Route("/clients", func(r chi.Router) {
		r.Post("/register", h.Register)
	})
}

// Register handles client registration
func (h *ClientHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterClientRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Client registration validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	client, err := h.clientService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.logger.Debug("Client registration failed", zap.Error(err))
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	h.logger.Info("Client registered", zap.String("client_id", client.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, ClientProfile{
		ID:    client.ID.String(),
		Name:  client.Name,
		Email: client.Email,
	})
}

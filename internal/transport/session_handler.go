package transport

import (
	"net/http"

	"food-court/internal/middleware"
	"food-court/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// LoginRequest represents the login payload for both account kinds
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginResponse represents a successful login
type LoginResponse struct {
	Token string      `json:"token"`
	User  interface{} `json:"user"`
}

// SessionHandler handles login for clients and enterprises
type SessionHandler struct {
	clientService     service.ClientService
	enterpriseService service.EnterpriseService
	logger            *zap.Logger
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(clientService service.ClientService, enterpriseService service.EnterpriseService, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		clientService:     clientService,
		enterpriseService: enterpriseService,
		logger:            logger,
	}
}

// RegisterRoutes registers all session routes
func (h *SessionHandler) RegisterRoutes(r chi.Router) {
	r.Route("/session", func(r chi.Router) {
		r.Post("/client", h.ClientLogin)
		r.Post("/enterprise", h.EnterpriseLogin)
	})
}

// ClientLogin authenticates a client account
func (h *SessionHandler) ClientLogin(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeLogin(w, r)
	if !ok {
		return
	}

	token, client, err := h.clientService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Debug("Client login failed", zap.Error(err))
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	h.logger.Info("Client logged in", zap.String("client_id", client.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, LoginResponse{Token: token, User: client})
}

// EnterpriseLogin authenticates an enterprise account
func (h *SessionHandler) EnterpriseLogin(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeLogin(w, r)
	if !ok {
		return
	}

	token, enterprise, err := h.enterpriseService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Debug("Enterprise login failed", zap.Error(err))
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	h.logger.Info("Enterprise logged in", zap.String("enterprise_id", enterprise.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, LoginResponse{Token: token, User: enterprise})
}

func (h *SessionHandler) decodeLogin(w http.ResponseWriter, r *http.Request) (*LoginRequest, bool) {
	var req LoginRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Login validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return nil, false
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}

	return &req, true
}

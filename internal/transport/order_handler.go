package transport

import (
	"net/http"

	"food-court/internal/domain"
	"food-court/internal/middleware"
	"food-court/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PlaceOrderRequest represents the order placement payload
type PlaceOrderRequest struct {
	EnterpriseID string             `json:"enterpriseId" validate:"required,uuid"`
	Items        []OrderItemPayload `json:"items" validate:"dive"`
}

// OrderItemPayload is one (product, quantity) pair of a placement request
type OrderItemPayload struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}

// UpdateOrderStatusRequest represents a status transition payload
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=created preparing closed"`
}

// OrderHandler handles HTTP requests for orders
type OrderHandler struct {
	orderService service.OrderService
	logger       *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// RegisterRoutes registers all order routes
func (h *OrderHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	clientOnly := middleware.RequireRole([]domain.Role{domain.RoleClient}, h.logger)
	enterpriseOnly := middleware.RequireRole([]domain.Role{domain.RoleEnterprise}, h.logger)
	anyRole := middleware.RequireRole([]domain.Role{domain.RoleClient, domain.RoleEnterprise}, h.logger)

	r.Route("/orders", func(r chi.Router) {
		r.Use(authMiddleware)

		r.With(clientOnly).Post("/", h.Create)
		r.With(anyRole).Get("/{clientId}", h.GetByClientID)
		r.With(enterpriseOnly).Get("/enterprise/{enterpriseId}", h.GetByEnterpriseID)
		r.With(enterpriseOnly).Patch("/{enterpriseId}/{orderId}", h.UpdateStatus)
	})
}

// Create appends items to the caller's open order against an enterprise,
// creating the order when none is open.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Order placement validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	enterpriseID, err := uuid.Parse(req.EnterpriseID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid enterprise ID")
		return
	}

	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	items := make([]service.OrderItemRequest, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.OrderItemRequest{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	order, err := h.orderService.PlaceOrder(r.Context(), caller, enterpriseID, items)
	if err != nil {
		h.logger.Debug("Order placement failed", zap.Error(err))
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	h.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("client_id", caller.ID.String()),
		zap.String("total", order.Total.String()),
	)
	middleware.RespondWithJSON(w, http.StatusOK, order)
}

// GetByClientID lists a client's orders. Clients see only their own;
// enterprises see the subset placed against themselves.
func (h *OrderHandler) GetByClientID(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuidParam(r, "clientId")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid client ID")
		return
	}

	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	page := queryInt(r, "page", 0)
	limit := queryInt(r, "limit", 0)

	result, err := h.orderService.ListByClient(r.Context(), caller, clientID, page, limit)
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, result)
}

// GetByEnterpriseID lists an enterprise's own orders
func (h *OrderHandler) GetByEnterpriseID(w http.ResponseWriter, r *http.Request) {
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

	page := queryInt(r, "page", 0)
	limit := queryInt(r, "limit", 0)

	result, err := h.orderService.ListByEnterprise(r.Context(), caller, enterpriseID, page, limit)
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, result)
}

// UpdateStatus transitions an order's lifecycle status
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	enterpriseID, err := uuidParam(r, "enterpriseId")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid enterprise ID")
		return
	}

	orderID, err := uuidParam(r, "orderId")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	var req UpdateOrderStatusRequest
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

	order, err := h.orderService.TransitionStatus(r.Context(), caller, enterpriseID, orderID, domain.OrderStatus(req.Status))
	if err != nil {
		h.logger.Debug("Order status transition failed", zap.Error(err))
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	h.logger.Info("Order status updated",
		zap.String("order_id", order.ID.String()),
		zap.String("status", string(order.Status)),
	)
	middleware.RespondWithJSON(w, http.StatusOK, order)
}

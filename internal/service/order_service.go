package service

import (
	"context"

	"food-court/internal/domain"
	"food-court/internal/pagination"
	"food-court/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItemRequest is one (product, quantity) pair of a placement request.
type OrderItemRequest struct {
	ProductID int64
	Quantity  int
}

// OrderPage is a listing page with its pagination block.
type OrderPage struct {
	Orders     []*domain.OrderWithItems `json:"orders"`
	Pagination pagination.Info          `json:"pagination"`
}

// OrderService defines the interface for order business logic.
type OrderService interface {
	PlaceOrder(ctx context.Context, caller *domain.Caller, enterpriseID uuid.UUID, items []OrderItemRequest) (*domain.OrderWithItems, error)
	TransitionStatus(ctx context.Context, caller *domain.Caller, enterpriseID, orderID uuid.UUID, next domain.OrderStatus) (*domain.Order, error)
	ListByClient(ctx context.Context, caller *domain.Caller, clientID uuid.UUID, page, limit int) (*OrderPage, error)
	ListByEnterprise(ctx context.Context, caller *domain.Caller, enterpriseID uuid.UUID, page, limit int) (*OrderPage, error)
}

type orderService struct {
	orders repository.OrderRepository
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(orders repository.OrderRepository) OrderService {
	return &orderService{orders: orders}
}

// PlaceOrder appends items to the caller's open order against the given
// enterprise, creating the order first when none is open. The whole flow
// runs in one transaction: a missing product aborts everything, so no
// order, line, or total update ever persists partially.
func (s *orderService) PlaceOrder(ctx context.Context, caller *domain.Caller, enterpriseID uuid.UUID, items []OrderItemRequest) (*domain.OrderWithItems, error) {
	if err := domain.RequireRole(caller, domain.RoleClient); err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return nil, domain.Validationf("you must add at least one product")
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, domain.Validationf("quantity for product %d must be a positive integer", item.ProductID)
		}
	}

	var result *domain.OrderWithItems

	err := s.orders.InTx(ctx, func(tx repository.OrderTx) error {
		// Resolve every price before touching the order so a missing
		// product aborts with no writes at all.
		prices := make(map[int64]decimal.Decimal, len(items))
		for _, item := range items {
			product, err := tx.ActiveProduct(ctx, item.ProductID, enterpriseID)
			if err != nil {
				return err
			}
			prices[item.ProductID] = product.Price
		}

		order, err := tx.FindOpen(ctx, caller.ID, enterpriseID)
		if err != nil {
			return err
		}
		if order == nil {
			order = &domain.Order{
				ID:           uuid.New(),
				ClientID:     caller.ID,
				EnterpriseID: enterpriseID,
				Status:       domain.OrderStatusCreated,
				Total:        decimal.Zero,
			}
			if err := tx.CreateOrder(ctx, order); err != nil {
				return err
			}
		}

		delta := decimal.Zero
		for _, item := range items {
			line := &domain.OrderLine{
				OrderID:      order.ID,
				ProductID:    item.ProductID,
				ClientID:     caller.ID,
				EnterpriseID: enterpriseID,
				Quantity:     item.Quantity,
			}
			if err := tx.InsertLine(ctx, line); err != nil {
				return err
			}
			delta = delta.Add(prices[item.ProductID].Mul(decimal.NewFromInt(int64(item.Quantity))))
		}

		updated, err := tx.AddToTotal(ctx, order.ID, delta)
		if err != nil {
			return err
		}

		lines, err := tx.Lines(ctx, order.ID)
		if err != nil {
			return err
		}

		result = &domain.OrderWithItems{Order: *updated, Items: lines}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// TransitionStatus moves an order to a new lifecycle state. Only the owning
// enterprise may transition; "created" is never a manual target and
// "closed" is terminal.
func (s *orderService) TransitionStatus(ctx context.Context, caller *domain.Caller, enterpriseID, orderID uuid.UUID, next domain.OrderStatus) (*domain.Order, error) {
	if err := domain.RequireOwnership(caller, enterpriseID); err != nil {
		return nil, err
	}

	if !domain.ValidOrderStatus(next) {
		return nil, domain.Validationf("unknown order status %q", next)
	}

	if next == domain.OrderStatusCreated {
		return nil, domain.InvalidTransitionf("you cannot open an order that has already been opened or closed")
	}

	order, err := s.orders.FindByID(ctx, orderID, enterpriseID)
	if err != nil {
		return nil, err
	}

	if order.Status == next {
		return nil, domain.InvalidTransitionf("the status is already %s", next)
	}

	if order.Status == domain.OrderStatusClosed {
		return nil, domain.InvalidTransitionf("it is not possible to modify a closed order")
	}

	return s.orders.UpdateStatus(ctx, orderID, next)
}

// ListByClient returns a page of a client's orders. A client may only read
// its own; an enterprise reading a client's history sees just the subset
// placed against itself, filtered after the fetch.
func (s *orderService) ListByClient(ctx context.Context, caller *domain.Caller, clientID uuid.UUID, page, limit int) (*OrderPage, error) {
	if err := domain.RequireRole(caller, domain.RoleClient, domain.RoleEnterprise); err != nil {
		return nil, err
	}
	if caller.Role == domain.RoleClient {
		if err := domain.RequireOwnership(caller, clientID); err != nil {
			return nil, err
		}
	}

	window, err := pagination.Resolve(page, limit)
	if err != nil {
		return nil, err
	}

	totalCount, err := s.orders.CountByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	orders, err := s.orders.ListByClient(ctx, clientID, window.Offset, window.Limit)
	if err != nil {
		return nil, err
	}

	if caller.Role == domain.RoleEnterprise {
		own := make([]*domain.OrderWithItems, 0, len(orders))
		for _, order := range orders {
			if order.EnterpriseID == caller.ID {
				own = append(own, order)
			}
		}
		orders = own
	}

	return &OrderPage{
		Orders: orders,
		Pagination: pagination.Info{
			CurrentPage: window.Page,
			Limit:       window.Limit,
			TotalPages:  pagination.TotalPages(totalCount, window.Limit),
		},
	}, nil
}

// ListByEnterprise returns a page of an enterprise's orders; owner only.
func (s *orderService) ListByEnterprise(ctx context.Context, caller *domain.Caller, enterpriseID uuid.UUID, page, limit int) (*OrderPage, error) {
	if err := domain.RequireRole(caller, domain.RoleEnterprise); err != nil {
		return nil, err
	}
	if err := domain.RequireOwnership(caller, enterpriseID); err != nil {
		return nil, err
	}

	window, err := pagination.Resolve(page, limit)
	if err != nil {
		return nil, err
	}

	totalCount, err := s.orders.CountByEnterprise(ctx, enterpriseID)
	if err != nil {
		return nil, err
	}

	orders, err := s.orders.ListByEnterprise(ctx, enterpriseID, window.Offset, window.Limit)
	if err != nil {
		return nil, err
	}

	return &OrderPage{
		Orders: orders,
		Pagination: pagination.Info{
			CurrentPage: window.Page,
			Limit:       window.Limit,
			TotalPages:  pagination.TotalPages(totalCount, window.Limit),
		},
	}, nil
}

package service

import (
	"context"
	"testing"
	"time"

	"food-court/internal/domain"
	"food-court/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Mock order repository with transactional rollback semantics: InTx takes a
// snapshot of the order state and restores it when the callback fails, so
// atomicity can be observed from the outside.
type mockOrderRepository struct {
	products    map[int64]*domain.Product
	orders      map[uuid.UUID]*domain.Order
	lines       map[uuid.UUID][]domain.OrderLine
	clientNames map[uuid.UUID]string
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{
		products:    make(map[int64]*domain.Product),
		orders:      make(map[uuid.UUID]*domain.Order),
		lines:       make(map[uuid.UUID][]domain.OrderLine),
		clientNames: make(map[uuid.UUID]string),
	}
}

func (m *mockOrderRepository) addProduct(id int64, enterpriseID uuid.UUID, name string, price string) {
	m.products[id] = &domain.Product{
		ID:           id,
		EnterpriseID: enterpriseID,
		Name:         name,
		Price:        decimal.RequireFromString(price),
		Category:     domain.CategoryFood,
		IsActive:     true,
	}
}

func (m *mockOrderRepository) snapshot() (map[uuid.UUID]*domain.Order, map[uuid.UUID][]domain.OrderLine) {
	orders := make(map[uuid.UUID]*domain.Order, len(m.orders))
	for id, o := range m.orders {
		cp := *o
		orders[id] = &cp
	}
	lines := make(map[uuid.UUID][]domain.OrderLine, len(m.lines))
	for id, ls := range m.lines {
		lines[id] = append([]domain.OrderLine(nil), ls...)
	}
	return orders, lines
}

func (m *mockOrderRepository) InTx(ctx context.Context, fn func(tx repository.OrderTx) error) error {
	orders, lines := m.snapshot()
	if err := fn(&mockOrderTx{repo: m}); err != nil {
		m.orders = orders
		m.lines = lines
		return err
	}
	return nil
}

func (m *mockOrderRepository) FindByID(ctx context.Context, orderID, enterpriseID uuid.UUID) (*domain.Order, error) {
	order, ok := m.orders[orderID]
	if !ok || order.EnterpriseID != enterpriseID {
		return nil, domain.NotFoundf("this order does not exist")
	}
	cp := *order
	return &cp, nil
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	order, ok := m.orders[orderID]
	if !ok {
		return nil, domain.NotFoundf("this order does not exist")
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	cp := *order
	return &cp, nil
}

func (m *mockOrderRepository) ListByClient(ctx context.Context, clientID uuid.UUID, offset, limit int) ([]*domain.OrderWithItems, error) {
	result := []*domain.OrderWithItems{}
	for _, order := range m.orders {
		if order.ClientID != clientID {
			continue
		}
		result = append(result, m.withItems(order))
	}
	return window(result, offset, limit), nil
}

func (m *mockOrderRepository) CountByClient(ctx context.Context, clientID uuid.UUID) (int, error) {
	count := 0
	for _, order := range m.orders {
		if order.ClientID == clientID {
			count++
		}
	}
	return count, nil
}

func (m *mockOrderRepository) ListByEnterprise(ctx context.Context, enterpriseID uuid.UUID, offset, limit int) ([]*domain.OrderWithItems, error) {
	result := []*domain.OrderWithItems{}
	for _, order := range m.orders {
		if order.EnterpriseID != enterpriseID {
			continue
		}
		result = append(result, m.withItems(order))
	}
	return window(result, offset, limit), nil
}

func (m *mockOrderRepository) CountByEnterprise(ctx context.Context, enterpriseID uuid.UUID) (int, error) {
	count := 0
	for _, order := range m.orders {
		if order.EnterpriseID == enterpriseID {
			count++
		}
	}
	return count, nil
}

func (m *mockOrderRepository) withItems(order *domain.Order) *domain.OrderWithItems {
	cp := *order
	result := &domain.OrderWithItems{Order: cp, ClientName: m.clientNames[order.ClientID]}
	for _, line := range m.lines[order.ID] {
		product := m.products[line.ProductID]
		result.Items = append(result.Items, domain.OrderItemView{
			Name:     product.Name,
			Price:    product.Price,
			Quantity: line.Quantity,
		})
	}
	return result
}

func window(orders []*domain.OrderWithItems, offset, limit int) []*domain.OrderWithItems {
	if offset >= len(orders) {
		return []*domain.OrderWithItems{}
	}
	end := offset + limit
	if end > len(orders) {
		end = len(orders)
	}
	return orders[offset:end]
}

type mockOrderTx struct {
	repo *mockOrderRepository
}

func (t *mockOrderTx) ActiveProduct(ctx context.Context, productID int64, enterpriseID uuid.UUID) (*domain.Product, error) {
	product, ok := t.repo.products[productID]
	if !ok || product.EnterpriseID != enterpriseID || !product.IsActive {
		return nil, domain.NotFoundf("product %d not found", productID)
	}
	cp := *product
	return &cp, nil
}

func (t *mockOrderTx) FindOpen(ctx context.Context, clientID, enterpriseID uuid.UUID) (*domain.Order, error) {
	for _, order := range t.repo.orders {
		if order.ClientID == clientID && order.EnterpriseID == enterpriseID && order.Status == domain.OrderStatusCreated {
			cp := *order
			return &cp, nil
		}
	}
	return nil, nil
}

func (t *mockOrderTx) CreateOrder(ctx context.Context, order *domain.Order) error {
	for _, existing := range t.repo.orders {
		if existing.ClientID == order.ClientID && existing.EnterpriseID == order.EnterpriseID && existing.Status == domain.OrderStatusCreated {
			return domain.Conflictf("an open order already exists for this enterprise")
		}
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()
	cp := *order
	t.repo.orders[order.ID] = &cp
	return nil
}

func (t *mockOrderTx) InsertLine(ctx context.Context, line *domain.OrderLine) error {
	line.ID = int64(len(t.repo.lines[line.OrderID]) + 1)
	t.repo.lines[line.OrderID] = append(t.repo.lines[line.OrderID], *line)
	return nil
}

func (t *mockOrderTx) AddToTotal(ctx context.Context, orderID uuid.UUID, delta decimal.Decimal) (*domain.Order, error) {
	order, ok := t.repo.orders[orderID]
	if !ok {
		return nil, domain.NotFoundf("order not found")
	}
	order.Total = order.Total.Add(delta)
	order.UpdatedAt = time.Now()
	cp := *order
	return &cp, nil
}

func (t *mockOrderTx) Lines(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItemView, error) {
	items := []domain.OrderItemView{}
	for _, line := range t.repo.lines[orderID] {
		product := t.repo.products[line.ProductID]
		items = append(items, domain.OrderItemView{
			Name:     product.Name,
			Price:    product.Price,
			Quantity: line.Quantity,
		})
	}
	return items, nil
}

func clientCaller() *domain.Caller {
	return &domain.Caller{ID: uuid.New(), Role: domain.RoleClient}
}

func enterpriseCaller(id uuid.UUID) *domain.Caller {
	return &domain.Caller{ID: id, Role: domain.RoleEnterprise}
}

func TestPlaceOrder_AccumulatesIntoOpenOrder(t *testing.T) {
	repo := newMockOrderRepository()
	service := NewOrderService(repo)
	ctx := context.Background()

	enterpriseID := uuid.New()
	repo.addProduct(1, enterpriseID, "burger", "10.00")
	repo.addProduct(2, enterpriseID, "soda", "5.00")

	caller := clientCaller()

	first, err := service.PlaceOrder(ctx, caller, enterpriseID, []OrderItemRequest{
		{ProductID: 1, Quantity: 2},
	})
	if err != nil {
		t.Fatalf("first placement failed: %v", err)
	}
	if !first.Total.Equal(decimal.RequireFromString("20.00")) {
		t.Errorf("expected total 20.00 after first placement, got %s", first.Total)
	}

	second, err := service.PlaceOrder(ctx, caller, enterpriseID, []OrderItemRequest{
		{ProductID: 2, Quantity: 1},
	})
	if err != nil {
		t.Fatalf("second placement failed: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("second placement opened a new order: %s vs %s", second.ID, first.ID)
	}
	if !second.Total.Equal(decimal.RequireFromString("25.00")) {
		t.Errorf("expected total 25.00 after second placement, got %s", second.Total)
	}
	if len(second.Items) != 2 {
		t.Errorf("expected 2 line items, got %d", len(second.Items))
	}
	if len(repo.orders) != 1 {
		t.Errorf("expected a single persisted order, got %d", len(repo.orders))
	}
}

func TestPlaceOrder_MissingProductRollsBackEverything(t *testing.T) {
	repo := newMockOrderRepository()
	service := NewOrderService(repo)
	ctx := context.Background()

	enterpriseID := uuid.New()
	repo.addProduct(1, enterpriseID, "burger", "10.00")

	caller := clientCaller()

	_, err := service.PlaceOrder(ctx, caller, enterpriseID, []OrderItemRequest{
		{ProductID: 1, Quantity: 1},
		{ProductID: 99, Quantity: 1},
	})
	if err == nil {
		t.Fatal("expected placement with unknown product to fail")
	}
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Errorf("expected not_found error, got %v", err)
	}

	if len(repo.orders) != 0 {
		t.Errorf("expected no persisted order after rollback, got %d", len(repo.orders))
	}
	if len(repo.lines) != 0 {
		t.Errorf("expected no persisted lines after rollback, got %d", len(repo.lines))
	}
}

func TestPlaceOrder_MissingProductKeepsExistingOrderIntact(t *testing.T) {
	repo := newMockOrderRepository()
	service := NewOrderService(repo)
	ctx := context.Background()

	enterpriseID := uuid.New()
	repo.addProduct(1, enterpriseID, "burger", "10.00")

	caller := clientCaller()

	first, err := service.PlaceOrder(ctx, caller, enterpriseID, []OrderItemRequest{
		{ProductID: 1, Quantity: 1},
	})
	if err != nil {
		t.Fatalf("placement failed: %v", err)
	}

	_, err = service.PlaceOrder(ctx, caller, enterpriseID, []OrderItemRequest{
		{ProductID: 1, Quantity: 1},
		{ProductID: 42, Quantity: 3},
	})
	if err == nil {
		t.Fatal("expected placement with unknown product to fail")
	}

	order := repo.orders[first.ID]
	if order == nil {
		t.Fatal("existing order disappeared")
	}
	if !order.Total.Equal(decimal.RequireFromString("10.00")) {
		t.Errorf("expected total unchanged at 10.00, got %s", order.Total)
	}
	if len(repo.lines[first.ID]) != 1 {
		t.Errorf("expected 1 line after rollback, got %d", len(repo.lines[first.ID]))
	}
}

func TestPlaceOrder_RejectsEmptyItems(t *testing.T) {
	repo := newMockOrderRepository()
	service := NewOrderService(repo)

	_, err := service.PlaceOrder(context.Background(), clientCaller(), uuid.New(), nil)
	if !domain.IsKind(err, domain.KindValidation) {
		t.Errorf("expected validation error for empty items, got %v", err)
	}
}

func TestPlaceOrder_RejectsNonPositiveQuantity(t *testing.T) {
	repo := newMockOrderRepository()
	service := NewOrderService(repo)

	for _, quantity := range []int{0, -1} {
		_, err := service.PlaceOrder(context.Background(), clientCaller(), uuid.New(), []OrderItemRequest{
			{ProductID: 1, Quantity: quantity},
		})
		if !domain.IsKind(err, domain.KindValidation) {
			t.Errorf("quantity %d: expected validation error, got %v", quantity, err)
		}
	}
}

func TestPlaceOrder_RequiresClientRole(t *testing.T) {
	repo := newMockOrderRepository()
	service := NewOrderService(repo)

	enterpriseID := uuid.New()
	_, err := service.PlaceOrder(context.Background(), enterpriseCaller(enterpriseID), enterpriseID, []OrderItemRequest{
		{ProductID: 1, Quantity: 1},
	})
	if !domain.IsKind(err, domain.KindUnauthorized) {
		t.Errorf("expected unauthorized error for enterprise caller, got %v", err)
	}
}

func TestTransitionStatus(t *testing.T) {
	enterpriseID := uuid.New()

	tests := []struct {
		name     string
		from     domain.OrderStatus
		to       domain.OrderStatus
		wantKind domain.ErrorKind
	}{
		{name: "created to preparing", from: domain.OrderStatusCreated, to: domain.OrderStatusPreparing},
		{name: "created to closed", from: domain.OrderStatusCreated, to: domain.OrderStatusClosed},
		{name: "preparing to closed", from: domain.OrderStatusPreparing, to: domain.OrderStatusClosed},
		{name: "reopening is rejected", from: domain.OrderStatusPreparing, to: domain.OrderStatusCreated, wantKind: domain.KindInvalidTransition},
		{name: "same status is rejected", from: domain.OrderStatusPreparing, to: domain.OrderStatusPreparing, wantKind: domain.KindInvalidTransition},
		{name: "closed is terminal", from: domain.OrderStatusClosed, to: domain.OrderStatusPreparing, wantKind: domain.KindInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockOrderRepository()
			service := NewOrderService(repo)

			orderID := uuid.New()
			repo.orders[orderID] = &domain.Order{
				ID:           orderID,
				ClientID:     uuid.New(),
				EnterpriseID: enterpriseID,
				Status:       tt.from,
				Total:        decimal.RequireFromString("15.00"),
			}

			updated, err := service.TransitionStatus(context.Background(), enterpriseCaller(enterpriseID), enterpriseID, orderID, tt.to)

			if tt.wantKind != "" {
				if err == nil {
					t.Fatalf("expected %s error, got success", tt.wantKind)
				}
				if domain.KindOf(err) != tt.wantKind {
					t.Errorf("expected %s error, got %v", tt.wantKind, err)
				}
				if repo.orders[orderID].Status != tt.from {
					t.Errorf("status changed despite rejected transition: %s", repo.orders[orderID].Status)
				}
				return
			}

			if err != nil {
				t.Fatalf("transition failed: %v", err)
			}
			if updated.Status != tt.to {
				t.Errorf("expected status %s, got %s", tt.to, updated.Status)
			}
		})
	}
}

func TestTransitionStatus_UnknownOrder(t *testing.T) {
	repo := newMockOrderRepository()
	service := NewOrderService(repo)

	enterpriseID := uuid.New()
	_, err := service.TransitionStatus(context.Background(), enterpriseCaller(enterpriseID), enterpriseID, uuid.New(), domain.OrderStatusPreparing)
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Errorf("expected not_found error, got %v", err)
	}
}

func TestTransitionStatus_RejectsOtherEnterprise(t *testing.T) {
	repo := newMockOrderRepository()
	service := NewOrderService(repo)

	enterpriseID := uuid.New()
	orderID := uuid.New()
	repo.orders[orderID] = &domain.Order{
		ID:           orderID,
		ClientID:     uuid.New(),
		EnterpriseID: enterpriseID,
		Status:       domain.OrderStatusCreated,
	}

	_, err := service.TransitionStatus(context.Background(), enterpriseCaller(uuid.New()), enterpriseID, orderID, domain.OrderStatusPreparing)
	if !domain.IsKind(err, domain.KindUnauthorized) {
		t.Errorf("expected unauthorized error, got %v", err)
	}
	if repo.orders[orderID].Status != domain.OrderStatusCreated {
		t.Error("status changed despite unauthorized caller")
	}
}

func TestListByClient_ClientSeesOwnOrdersOnly(t *testing.T) {
	repo := newMockOrderRepository()
	service := NewOrderService(repo)
	ctx := context.Background()

	caller := clientCaller()
	other := uuid.New()
	repo.orders[uuid.New()] = &domain.Order{ID: uuid.New(), ClientID: caller.ID, EnterpriseID: uuid.New(), Status: domain.OrderStatusCreated}
	repo.orders[uuid.New()] = &domain.Order{ID: uuid.New(), ClientID: other, EnterpriseID: uuid.New(), Status: domain.OrderStatusCreated}

	_, err := service.ListByClient(ctx, caller, other, 1, 10)
	if !domain.IsKind(err, domain.KindUnauthorized) {
		t.Errorf("expected unauthorized when reading another client's orders, got %v", err)
	}

	page, err := service.ListByClient(ctx, caller, caller.ID, 1, 10)
	if err != nil {
		t.Fatalf("listing failed: %v", err)
	}
	if len(page.Orders) != 1 {
		t.Errorf("expected 1 order, got %d", len(page.Orders))
	}
}

func TestListByClient_EnterpriseSeesOnlyOrdersAgainstItself(t *testing.T) {
	repo := newMockOrderRepository()
	service := NewOrderService(repo)
	ctx := context.Background()

	clientID := uuid.New()
	mine := uuid.New()
	theirs := uuid.New()

	for i, entID := range []uuid.UUID{mine, theirs, mine} {
		id := uuid.New()
		repo.orders[id] = &domain.Order{ID: id, ClientID: clientID, EnterpriseID: entID, Status: domain.OrderStatusCreated, Total: decimal.NewFromInt(int64(i))}
	}

	page, err := service.ListByClient(ctx, enterpriseCaller(mine), clientID, 1, 10)
	if err != nil {
		t.Fatalf("listing failed: %v", err)
	}
	if len(page.Orders) != 2 {
		t.Fatalf("expected 2 orders against own enterprise, got %d", len(page.Orders))
	}
	for _, order := range page.Orders {
		if order.EnterpriseID != mine {
			t.Errorf("leaked order against enterprise %s", order.EnterpriseID)
		}
	}
}

func TestListByEnterprise_RequiresOwnership(t *testing.T) {
	repo := newMockOrderRepository()
	service := NewOrderService(repo)
	ctx := context.Background()

	enterpriseID := uuid.New()

	_, err := service.ListByEnterprise(ctx, clientCaller(), enterpriseID, 1, 10)
	if !domain.IsKind(err, domain.KindUnauthorized) {
		t.Errorf("expected unauthorized for client caller, got %v", err)
	}

	_, err = service.ListByEnterprise(ctx, enterpriseCaller(uuid.New()), enterpriseID, 1, 10)
	if !domain.IsKind(err, domain.KindUnauthorized) {
		t.Errorf("expected unauthorized for other enterprise, got %v", err)
	}
}

func TestListByClient_RejectsOversizedLimit(t *testing.T) {
	repo := newMockOrderRepository()
	service := NewOrderService(repo)

	caller := clientCaller()
	_, err := service.ListByClient(context.Background(), caller, caller.ID, 1, 1000)
	if !domain.IsKind(err, domain.KindValidation) {
		t.Errorf("expected validation error for limit above maximum, got %v", err)
	}
}

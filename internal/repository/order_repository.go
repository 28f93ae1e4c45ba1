package repository

import (
	"context"
	"database/sql"
	"fmt"

	"food-court/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderTx is the set of order operations available inside one transaction.
// Order placement runs entirely through it so a failed step rolls back
// every prior write.
type OrderTx interface {
	// ActiveProduct resolves an active product scoped to an enterprise.
	ActiveProduct(ctx context.Context, productID int64, enterpriseID uuid.UUID) (*domain.Product, error)
	// FindOpen looks up the open order for a (client, enterprise) pair and
	// locks its row for the rest of the transaction. Returns (nil, nil)
	// when no open order exists.
	FindOpen(ctx context.Context, clientID, enterpriseID uuid.UUID) (*domain.Order, error)
	CreateOrder(ctx context.Context, order *domain.Order) error
	InsertLine(ctx context.Context, line *domain.OrderLine) error
	// AddToTotal applies an additive in-database update to the persisted
	// total and returns the updated order. The delta is computed from
	// prices read inside the same transaction, so concurrent commits
	// cannot lose an update.
	AddToTotal(ctx context.Context, orderID uuid.UUID, delta decimal.Decimal) (*domain.Order, error)
	Lines(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItemView, error)
}

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// InTx runs fn inside a single transaction, rolling back on any error.
	InTx(ctx context.Context, fn func(tx OrderTx) error) error
	FindByID(ctx context.Context, orderID, enterpriseID uuid.UUID) (*domain.Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) (*domain.Order, error)
	ListByClient(ctx context.Context, clientID uuid.UUID, offset, limit int) ([]*domain.OrderWithItems, error)
	CountByClient(ctx context.Context, clientID uuid.UUID) (int, error)
	ListByEnterprise(ctx context.Context, enterpriseID uuid.UUID, offset, limit int) ([]*domain.OrderWithItems, error)
	CountByEnterprise(ctx context.Context, enterpriseID uuid.UUID) (int, error)
}

type orderRepository struct {
	db *sql.DB
	orderStore
}

// orderStore implements OrderTx against any querier, transactional or not.
type orderStore struct {
	q DBTX
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db, orderStore: orderStore{q: db}}
}

// InTx opens a transaction, hands a tx-scoped store to fn and commits when
// fn succeeds. Any error from fn rolls everything back and is returned
// unchanged so domain error kinds survive the boundary.
func (r *orderRepository) InTx(ctx context.Context, fn func(tx OrderTx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(&orderStore{q: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *orderStore) ActiveProduct(ctx context.Context, productID int64, enterpriseID uuid.UUID) (*domain.Product, error) {
	query := `
		SELECT id, enterprise_id, name, price, description, category, photo_url, is_active, created_at, updated_at
		FROM products
		WHERE id = $1 AND enterprise_id = $2 AND is_active = TRUE
	`

	product := &domain.Product{}
	err := s.q.QueryRowContext(ctx, query, productID, enterpriseID).Scan(
		&product.ID,
		&product.EnterpriseID,
		&product.Name,
		&product.Price,
		&product.Description,
		&product.Category,
		&product.PhotoURL,
		&product.IsActive,
		&product.CreatedAt,
		&product.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NotFoundf("product %d not found", productID)
		}
		return nil, fmt.Errorf("failed to resolve product: %w", err)
	}

	return product, nil
}

func (s *orderStore) FindOpen(ctx context.Context, clientID, enterpriseID uuid.UUID) (*domain.Order, error) {
	// FOR UPDATE serializes concurrent placements against the same open
	// order for the remainder of the transaction.
	query := `
		SELECT id, client_id, enterprise_id, status, total, created_at, updated_at
		FROM orders
		WHERE client_id = $1 AND enterprise_id = $2 AND status = 'created'
		FOR UPDATE
	`

	order := &domain.Order{}
	err := s.q.QueryRowContext(ctx, query, clientID, enterpriseID).Scan(
		&order.ID,
		&order.ClientID,
		&order.EnterpriseID,
		&order.Status,
		&order.Total,
		&order.CreatedAt,
		&order.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find open order: %w", err)
	}

	return order, nil
}

func (s *orderStore) CreateOrder(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (id, client_id, enterprise_id, status, total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err := s.q.QueryRowContext(
		ctx,
		query,
		order.ID,
		order.ClientID,
		order.EnterpriseID,
		order.Status,
		order.Total,
	).Scan(&order.CreatedAt, &order.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			// Lost the create race to a concurrent placement; the partial
			// unique index keeps the single-open-order invariant intact.
			return domain.Conflictf("an open order already exists for this enterprise")
		}
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

func (s *orderStore) InsertLine(ctx context.Context, line *domain.OrderLine) error {
	query := `
		INSERT INTO order_products (order_id, product_id, client_id, enterprise_id, quantity)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := s.q.QueryRowContext(
		ctx,
		query,
		line.OrderID,
		line.ProductID,
		line.ClientID,
		line.EnterpriseID,
		line.Quantity,
	).Scan(&line.ID)

	if err != nil {
		return fmt.Errorf("failed to insert order line: %w", err)
	}

	return nil
}

func (s *orderStore) AddToTotal(ctx context.Context, orderID uuid.UUID, delta decimal.Decimal) (*domain.Order, error) {
	query := `
		UPDATE orders
		SET total = total + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, client_id, enterprise_id, status, total, created_at, updated_at
	`

	order := &domain.Order{}
	err := s.q.QueryRowContext(ctx, query, orderID, delta).Scan(
		&order.ID,
		&order.ClientID,
		&order.EnterpriseID,
		&order.Status,
		&order.Total,
		&order.CreatedAt,
		&order.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NotFoundf("order not found")
		}
		return nil, fmt.Errorf("failed to update order total: %w", err)
	}

	return order, nil
}

func (s *orderStore) Lines(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItemView, error) {
	query := `
		SELECT p.name, p.price, op.quantity
		FROM order_products op
		JOIN products p ON p.id = op.product_id
		WHERE op.order_id = $1
		ORDER BY op.id ASC
	`

	rows, err := s.q.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list order lines: %w", err)
	}
	defer rows.Close()

	items := []domain.OrderItemView{}
	for rows.Next() {
		var item domain.OrderItemView
		if err := rows.Scan(&item.Name, &item.Price, &item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order lines: %w", err)
	}

	return items, nil
}

// FindByID retrieves an order scoped to an enterprise
func (r *orderRepository) FindByID(ctx context.Context, orderID, enterpriseID uuid.UUID) (*domain.Order, error) {
	query := `
		SELECT id, client_id, enterprise_id, status, total, created_at, updated_at
		FROM orders
		WHERE id = $1 AND enterprise_id = $2
	`

	order := &domain.Order{}
	err := r.db.QueryRowContext(ctx, query, orderID, enterpriseID).Scan(
		&order.ID,
		&order.ClientID,
		&order.EnterpriseID,
		&order.Status,
		&order.Total,
		&order.CreatedAt,
		&order.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NotFoundf("this order does not exist")
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}

	return order, nil
}

// UpdateStatus persists a new lifecycle status and returns the updated order
func (r *orderRepository) UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	query := `
		UPDATE orders
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, client_id, enterprise_id, status, total, created_at, updated_at
	`

	order := &domain.Order{}
	err := r.db.QueryRowContext(ctx, query, orderID, status).Scan(
		&order.ID,
		&order.ClientID,
		&order.EnterpriseID,
		&order.Status,
		&order.Total,
		&order.CreatedAt,
		&order.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NotFoundf("this order does not exist")
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	return order, nil
}

// ListByClient retrieves a page of a client's orders, newest first, with
// line items joined to product name and price.
func (r *orderRepository) ListByClient(ctx context.Context, clientID uuid.UUID, offset, limit int) ([]*domain.OrderWithItems, error) {
	query := `
		SELECT o.id, o.client_id, o.enterprise_id, o.status, o.total, o.created_at, o.updated_at, c.name
		FROM orders o
		JOIN clients c ON c.id = o.client_id
		WHERE o.client_id = $1
		ORDER BY o.created_at DESC
		LIMIT $2 OFFSET $3
	`

	return r.listWithItems(ctx, query, clientID, limit, offset)
}

// CountByClient returns the total number of a client's orders
func (r *orderRepository) CountByClient(ctx context.Context, clientID uuid.UUID) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders WHERE client_id = $1`, clientID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return total, nil
}

// ListByEnterprise retrieves a page of an enterprise's orders, newest first
func (r *orderRepository) ListByEnterprise(ctx context.Context, enterpriseID uuid.UUID, offset, limit int) ([]*domain.OrderWithItems, error) {
	query := `
		SELECT o.id, o.client_id, o.enterprise_id, o.status, o.total, o.created_at, o.updated_at, c.name
		FROM orders o
		JOIN clients c ON c.id = o.client_id
		WHERE o.enterprise_id = $1
		ORDER BY o.created_at DESC
		LIMIT $2 OFFSET $3
	`

	return r.listWithItems(ctx, query, enterpriseID, limit, offset)
}

// CountByEnterprise returns the total number of an enterprise's orders
func (r *orderRepository) CountByEnterprise(ctx context.Context, enterpriseID uuid.UUID) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders WHERE enterprise_id = $1`, enterpriseID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return total, nil
}

func (r *orderRepository) listWithItems(ctx context.Context, query string, id uuid.UUID, limit, offset int) ([]*domain.OrderWithItems, error) {
	rows, err := r.db.QueryContext(ctx, query, id, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.OrderWithItems{}
	for rows.Next() {
		order := &domain.OrderWithItems{}
		err := rows.Scan(
			&order.ID,
			&order.ClientID,
			&order.EnterpriseID,
			&order.Status,
			&order.Total,
			&order.CreatedAt,
			&order.UpdatedAt,
			&order.ClientName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	for _, order := range orders {
		items, err := r.Lines(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		order.Items = items
	}

	return orders, nil
}

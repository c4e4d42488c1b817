package orders

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"resto-service/internal/events"
	"resto-service/pkg/jwt"
	"resto-service/pkg/kafka"
	"resto-service/pkg/logger"
)

// Service contains order business logic.
type Service struct {
	db    *pgxpool.Pool
	kafka *kafka.Client
	log   logger.Logger
}

// NewService creates an order service. kafka may be nil when event
// publishing is disabled.
func NewService(db *pgxpool.Pool, k *kafka.Client, log logger.Logger) *Service {
	return &Service{db: db, kafka: k, log: log}
}

// Create inserts a new order with its items, pricing each line from the
// current product price, and publishes order.created.
func (s *Service) Create(ctx context.Context, restaurantID string, req CreateRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, errors.New("order needs at least one item")
	}

	id := uuid.New().String()
	now := time.Now()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	total := 0.0
	items := make([]Item, 0, len(req.Items))
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			return nil, errors.New("item quantity must be positive")
		}
		var price float64
		err := tx.QueryRow(ctx,
			`SELECT price FROM products WHERE id=$1 AND restaurant_id=$2`,
			it.ProductID, restaurantID).Scan(&price)
		if err != nil {
			return nil, errors.New("product not found: " + it.ProductID)
		}
		items = append(items, Item{
			ID:        uuid.New().String(),
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     price,
		})
		total += price * float64(it.Quantity)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO orders (id,restaurant_id,customer_name,address,status,total,created_at,updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$7)`,
		id, restaurantID, req.CustomerName, req.Address, StatusPending, total, now)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		_, err = tx.Exec(ctx,
			`INSERT INTO order_items (id,order_id,product_id,quantity,price) VALUES ($1,$2,$3,$4,$5)`,
			it.ID, id, it.ProductID, it.Quantity, it.Price)
		if err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	order := &Order{
		ID: id, RestaurantID: restaurantID,
		CustomerName: req.CustomerName, Address: req.Address,
		Status: StatusPending, Total: total, Items: items,
		CreatedAt: now, UpdatedAt: now,
	}

	s.publish(kafka.TopicOrderCreated, id, events.OrderCreatedEvent{
		OrderID: id, RestaurantID: restaurantID,
		CustomerName: req.CustomerName, Total: total,
		CreatedAt: now.Format(time.RFC3339),
	})

	return order, nil
}

// GetByID fetches an order with its items, scoped to the restaurant.
func (s *Service) GetByID(ctx context.Context, restaurantID, id string) (*Order, error) {
	var o Order
	err := s.db.QueryRow(ctx,
		`SELECT id,restaurant_id,customer_name,address,status,driver_id,total,created_at,updated_at
		 FROM orders WHERE id=$1 AND restaurant_id=$2`, id, restaurantID).
		Scan(&o.ID, &o.RestaurantID, &o.CustomerName, &o.Address, &o.Status,
			&o.DriverID, &o.Total, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, errors.New("order not found")
	}

	rows, err := s.db.Query(ctx,
		`SELECT id,product_id,quantity,price FROM order_items WHERE order_id=$1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.ProductID, &it.Quantity, &it.Price); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, it)
	}
	return &o, rows.Err()
}

// List returns the restaurant's orders, optionally filtered by status.
func (s *Service) List(ctx context.Context, restaurantID, status string) ([]Order, error) {
	query := `SELECT id,restaurant_id,customer_name,address,status,driver_id,total,created_at,updated_at
	          FROM orders WHERE restaurant_id=$1 ORDER BY created_at DESC`
	args := []any{restaurantID}
	if status != "" {
		query = `SELECT id,restaurant_id,customer_name,address,status,driver_id,total,created_at,updated_at
		         FROM orders WHERE restaurant_id=$1 AND status=$2 ORDER BY created_at DESC`
		args = append(args, status)
	}
	return s.queryOrders(ctx, query, args...)
}

// Active returns orders that are still in flight. Observer clients poll this
// to derive BUSY classification for drivers.
func (s *Service) Active(ctx context.Context, restaurantID string) ([]Order, error) {
	return s.queryOrders(ctx,
		`SELECT id,restaurant_id,customer_name,address,status,driver_id,total,created_at,updated_at
		 FROM orders WHERE restaurant_id=$1 AND status NOT IN ($2,$3) ORDER BY created_at`,
		restaurantID, StatusCompleted, StatusCancelled)
}

// MyDeliveries returns the DELIVERING orders assigned to one driver.
func (s *Service) MyDeliveries(ctx context.Context, driverID string) ([]Order, error) {
	return s.queryOrders(ctx,
		`SELECT id,restaurant_id,customer_name,address,status,driver_id,total,created_at,updated_at
		 FROM orders WHERE driver_id=$1 AND status=$2 ORDER BY created_at`,
		driverID, StatusDelivering)
}

// UpdateStatus moves an order along its lifecycle, enforcing legal
// transitions, and publishes order.status_changed.
func (s *Service) UpdateStatus(ctx context.Context, restaurantID, id, status string) (*Order, error) {
	if !ValidStatus(status) {
		return nil, errors.New("unknown status")
	}

	o, err := s.GetByID(ctx, restaurantID, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(o.Status, status) {
		return nil, errors.New("cannot change status from " + o.Status + " to " + status)
	}
	if status == StatusDelivering && o.DriverID == nil {
		return nil, errors.New("cannot deliver without an assigned driver")
	}

	_, err = s.db.Exec(ctx,
		`UPDATE orders SET status=$1, updated_at=NOW() WHERE id=$2`, status, id)
	if err != nil {
		return nil, err
	}

	s.publish(kafka.TopicOrderStatusChanged, id, events.OrderStatusChangedEvent{
		OrderID: id, RestaurantID: restaurantID,
		OldStatus: o.Status, NewStatus: status,
		ChangedAt: time.Now().Format(time.RFC3339),
	})

	o.Status = status
	return o, nil
}

// AssignDriver sets the driver on an order that is not yet out for delivery.
// The driver must belong to the same restaurant.
func (s *Service) AssignDriver(ctx context.Context, restaurantID, orderID, driverID string) (*Order, error) {
	var role string
	err := s.db.QueryRow(ctx,
		`SELECT role FROM users WHERE id=$1 AND restaurant_id=$2`, driverID, restaurantID).Scan(&role)
	if err != nil || role != jwt.RoleDriver {
		return nil, errors.New("driver not found in this restaurant")
	}

	tag, err := s.db.Exec(ctx,
		`UPDATE orders SET driver_id=$1, updated_at=NOW()
		 WHERE id=$2 AND restaurant_id=$3 AND status IN ($4,$5,$6)`,
		driverID, orderID, restaurantID, StatusPending, StatusPreparing, StatusReady)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, errors.New("order not found or already out for delivery")
	}

	s.publish(kafka.TopicDriverAssigned, orderID, events.DriverAssignedEvent{
		OrderID: orderID, RestaurantID: restaurantID, DriverID: driverID,
	})

	return s.GetByID(ctx, restaurantID, orderID)
}

// Stats computes the dashboard summary for one restaurant.
func (s *Service) Stats(ctx context.Context, restaurantID string) (*Stats, error) {
	var st Stats
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE status=$2),
		        COUNT(*) FILTER (WHERE status NOT IN ($3,$4)),
		        COALESCE(SUM(total) FILTER (WHERE status=$3), 0)
		 FROM orders WHERE restaurant_id=$1`,
		restaurantID, StatusPending, StatusCompleted, StatusCancelled).
		Scan(&st.TotalOrders, &st.PendingOrders, &st.ActiveOrders, &st.TotalRevenue)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// StartDriverAssignedConsumer notifies drivers of new assignments. The
// delivery channel to the driver app is currently just a log line; the
// consumer exists so assignment fan-out is decoupled from the API write.
func (s *Service) StartDriverAssignedConsumer(ctx context.Context) {
	if s.kafka == nil {
		return
	}
	s.kafka.Subscribe(ctx, kafka.TopicDriverAssigned, "order-notifier", func(data []byte) error {
		var ev events.DriverAssignedEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return err
		}
		s.log.Info("driver assignment notification",
			"order_id", ev.OrderID, "driver_id", ev.DriverID, "restaurant_id", ev.RestaurantID)
		return nil
	})
}

func (s *Service) publish(topic, key string, ev any) {
	if s.kafka == nil {
		return
	}
	go func() {
		if err := s.kafka.Publish(context.Background(), topic, key, ev); err != nil {
			s.log.Error("kafka publish failed", "topic", topic, "key", key, "error", err)
		}
	}()
}

func (s *Service) queryOrders(ctx context.Context, query string, args ...any) ([]Order, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.RestaurantID, &o.CustomerName, &o.Address, &o.Status,
			&o.DriverID, &o.Total, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

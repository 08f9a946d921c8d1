package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/qr_menu/internal/hub"
	"github.com/Skotchmaster/qr_menu/internal/logging"
	"github.com/Skotchmaster/qr_menu/internal/models"
	"github.com/Skotchmaster/qr_menu/internal/repo"
)

const streamTimeout = 5 * time.Second

type Publisher interface {
	Publish(ev hub.Event)
}

type EventStream interface {
	PublishEvent(ctx context.Context, topic, key string, event interface{}) error
}

type OrderService struct {
	Repo   *repo.GormRepo
	Hub    Publisher
	Stream EventStream
	Topic  string
	Now    func() time.Time
}

func (s *OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Total sums price times quantity over lines.
func Total(lines []models.OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, ln := range lines {
		total = total.Add(ln.Price.Mul(decimal.NewFromInt(int64(ln.Quantity))))
	}
	return total
}

func validateLines(lines []models.OrderLine) error {
	if len(lines) == 0 {
		return fmt.Errorf("%w: items required", ErrValidation)
	}
	for i, ln := range lines {
		if strings.TrimSpace(ln.MenuItemID) == "" {
			return fmt.Errorf("%w: items[%d]: menu_item_id required", ErrValidation, i)
		}
		if ln.Quantity <= 0 {
			return fmt.Errorf("%w: items[%d]: quantity must be > 0", ErrValidation, i)
		}
		if !models.ValidMoney(ln.Price) {
			return fmt.Errorf("%w: items[%d]: price must be >= 0 with at most 2 decimals", ErrValidation, i)
		}
	}
	if !models.ValidMoney(Total(lines)) {
		return fmt.Errorf("%w: order total out of range", ErrValidation)
	}
	return nil
}

// CreateOrder prices lines as given, stores the order for the table and
// announces it once stored.
func (s *OrderService) CreateOrder(ctx context.Context, tableID uuid.UUID, lines []models.OrderLine) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.create")

	table, err := s.Repo.GetTable(ctx, tableID)
	if err != nil {
		return nil, notFound(err, "table")
	}
	if err := validateLines(lines); err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:          uuid.New(),
		TableID:     table.ID,
		TableNumber: table.Number,
		Items:       lines,
		Status:      models.StatusPending,
		Total:       Total(lines),
		CreatedAt:   s.now(),
	}

	order, err = s.Repo.CreateOrder(ctx, order)
	if err != nil {
		return nil, err
	}

	s.announce(ctx, hub.Event{Type: hub.EventNewOrder, Order: *order})
	l.Info("order_created", "order_id", order.ID, "table_number", order.TableNumber, "total", order.Total.String())
	return order, nil
}

// UpdateStatus sets any valid status. completed_at is stamped on completion
// and never cleared.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.update_status")

	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	if _, err := s.Repo.GetOrder(ctx, orderID); err != nil {
		return nil, notFound(err, "order")
	}

	var completedAt *time.Time
	if status == models.StatusCompleted {
		now := s.now()
		completedAt = &now
	}

	if err := s.Repo.UpdateOrderStatus(ctx, orderID, status, completedAt); err != nil {
		return nil, notFound(err, "order")
	}

	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, notFound(err, "order")
	}

	s.announce(ctx, hub.Event{Type: hub.EventOrderUpdate, Order: *order})
	l.Info("order_status_updated", "order_id", order.ID, "status", order.Status)
	return order, nil
}

// ListOrders filters by status when given; a status no order can have matches nothing.
func (s *OrderService) ListOrders(ctx context.Context, status models.OrderStatus, offset, limit int) ([]models.Order, error) {
	if status != "" && !status.Valid() {
		return []models.Order{}, nil
	}
	return s.Repo.ListOrders(ctx, status, offset, limit)
}

func (s *OrderService) announce(ctx context.Context, ev hub.Event) {
	if s.Hub != nil {
		s.Hub.Publish(ev)
	}
	if s.Stream == nil {
		return
	}

	// the request may already be finishing; the mirror gets its own deadline
	streamCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), streamTimeout)
	defer cancel()
	if err := s.Stream.PublishEvent(streamCtx, s.Topic, ev.Order.ID.String(), ev); err != nil {
		logging.FromContext(ctx).Warn("order_stream_publish_failed", "type", ev.Type, "order_id", ev.Order.ID, "error", err)
	}
}

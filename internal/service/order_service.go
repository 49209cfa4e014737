package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"atelier/internal/events"
	"atelier/internal/model"
	"atelier/internal/pricing"
	"atelier/internal/repository"
	"atelier/internal/validation"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// DefaultOrderLimit caps the order listing.
const DefaultOrderLimit = 50

const (
	minPasswordLength     = 6
	generatedPasswordSize = 16
)

// orderService implements OrderService.
type orderService struct {
	userRepo  repository.UserRepository
	orderRepo repository.OrderRepository
	publisher events.Publisher
	hashCost  int
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	userRepo repository.UserRepository,
	orderRepo repository.OrderRepository,
	publisher events.Publisher,
	logger zerolog.Logger,
) OrderService {
	if publisher == nil {
		publisher = events.NewNopPublisher()
	}
	return &orderService{
		userRepo:  userRepo,
		orderRepo: orderRepo,
		publisher: publisher,
		hashCost:  bcrypt.DefaultCost,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// CreateOrder validates the request, upserts the customer and stores the order.
func (s *orderService) CreateOrder(ctx context.Context, req *model.CreateOrderRequest) (*model.Order, error) {
	if req == nil {
		return nil, &model.ValidationError{Issues: []validation.Issue{{Message: "Request body is required"}}}
	}

	items, total, err := validateOrderRequest(req)
	if err != nil {
		s.logger.Warn().Err(err).Str("email", req.User.Email).Msg("invalid order payload")
		return nil, err
	}

	password, err := s.hashPassword(req.User.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, s.storageError("failed to create order", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	user := &model.User{
		Name:     req.User.Name,
		Email:    req.User.Email,
		Phone:    req.User.Phone,
		Password: password,
	}
	if err = s.userRepo.UpsertByEmail(ctx, tx, user); err != nil {
		s.logger.Error().Err(err).Str("email", user.Email).Msg("failed to upsert user")
		return nil, s.storageError("failed to create order", err)
	}

	order := &model.Order{
		UserID:      user.ID,
		TotalAmount: total,
		Shipping:    normalizeShipping(req.Shipping),
		Notes:       req.Notes,
	}
	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Int64("user_id", user.ID).Msg("failed to create order")
		return nil, s.storageError("failed to create order", err)
	}

	for i := range items {
		items[i].OrderID = order.ID
	}
	if err = s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
		s.logger.Error().
			Err(err).
			Int64("order_id", order.ID).
			Int("item_count", len(items)).
			Msg("failed to create order items")
		return nil, s.storageError("failed to create order items", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Int64("order_id", order.ID).Msg("failed to commit transaction")
		return nil, s.storageError("failed to create order", err)
	}

	user.Password = ""
	order.Items = items
	order.User = user

	s.logger.Info().
		Int64("order_id", order.ID).
		Str("email", user.Email).
		Str("total", pricing.Format(pricing.FromCents(order.TotalAmount))).
		Msg("order created")

	s.publish(ctx, events.Event{
		Type:    events.OrderCreated,
		OrderID: order.ID,
		UserID:  user.ID,
		Payload: map[string]any{"totalAmount": order.TotalAmount, "itemCount": len(items)},
	})

	return order, nil
}

// ListOrders returns up to limit orders. Out of range limits fall back to the
// default cap.
func (s *orderService) ListOrders(ctx context.Context, limit int) ([]model.Order, error) {
	if limit <= 0 || limit > DefaultOrderLimit {
		limit = DefaultOrderLimit
	}

	orders, err := s.orderRepo.List(ctx, limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list orders")
		return nil, s.storageError("failed to list orders", err)
	}
	return orders, nil
}

// GetOrder retrieves an order by its ID.
func (s *orderService) GetOrder(ctx context.Context, id int64) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("order_id", id).Msg("failed to get order")
		return nil, s.storageError("failed to get order", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}
	return order, nil
}

// ListOrdersForUser returns a user's orders. Unknown users have none.
func (s *orderService) ListOrdersForUser(ctx context.Context, userID int64) ([]model.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to list user orders")
		return nil, s.storageError("failed to list user orders", err)
	}
	if orders == nil {
		orders = []model.Order{}
	}
	return orders, nil
}

// UpdateStatus changes the status of an order. Concurrent updates are last
// write wins.
func (s *orderService) UpdateStatus(ctx context.Context, id int64, raw string) (*model.Order, error) {
	status, err := model.ParseStatus(raw)
	if err != nil {
		return nil, err
	}

	current, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !model.CanTransition(current.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", model.ErrInvalidStatus, current.Status, status)
	}

	found, err := s.orderRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		s.logger.Error().Err(err).Int64("order_id", id).Msg("failed to update order status")
		return nil, s.storageError("failed to update order", err)
	}
	if !found {
		return nil, model.ErrOrderNotFound
	}

	updated, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("order_id", id).
		Str("from", current.Status.String()).
		Str("to", status.String()).
		Msg("order status updated")

	s.publish(ctx, events.Event{
		Type:    events.OrderStatusChanged,
		OrderID: id,
		UserID:  updated.UserID,
		Payload: map[string]string{"from": current.Status.String(), "to": status.String()},
	})

	return updated, nil
}

// DeleteOrder removes a completed order and its items in one transaction.
func (s *orderService) DeleteOrder(ctx context.Context, id int64) (err error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return s.storageError("failed to delete order", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	status, found, err := s.orderRepo.LockStatus(ctx, tx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("order_id", id).Msg("failed to lock order")
		return s.storageError("failed to delete order", err)
	}
	if !found {
		return model.ErrOrderNotFound
	}
	if status != model.StatusCompleted {
		s.logger.Warn().Int64("order_id", id).Str("status", status.String()).Msg("refusing to delete order")
		return model.NewOrderNotCompletedError(id, status)
	}

	removed, err := s.orderRepo.DeleteItems(ctx, tx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("order_id", id).Msg("failed to delete order items")
		return s.storageError("failed to delete order", err)
	}
	if err = s.orderRepo.Delete(ctx, tx, id); err != nil {
		s.logger.Error().Err(err).Int64("order_id", id).Msg("failed to delete order")
		return s.storageError("failed to delete order", err)
	}
	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Int64("order_id", id).Msg("failed to commit transaction")
		return s.storageError("failed to delete order", err)
	}

	s.logger.Info().Int64("order_id", id).Int64("items", removed).Msg("order deleted")
	s.publish(ctx, events.Event{Type: events.OrderDeleted, OrderID: id})
	return nil
}

// DeleteUser removes a user that owns no orders. The order count is taken
// inside the transaction so it cannot be stale.
func (s *orderService) DeleteUser(ctx context.Context, id int64) (err error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return s.storageError("failed to delete user", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	found, err := s.userRepo.LockByID(ctx, tx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", id).Msg("failed to lock user")
		return s.storageError("failed to delete user", err)
	}
	if !found {
		return model.ErrUserNotFound
	}

	count, err := s.userRepo.CountOrders(ctx, tx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", id).Msg("failed to count user orders")
		return s.storageError("failed to delete user", err)
	}
	if count > 0 {
		s.logger.Warn().Int64("user_id", id).Int("order_count", count).Msg("refusing to delete user")
		return model.NewUserHasOrdersError(id, count)
	}

	if err = s.userRepo.Delete(ctx, tx, id); err != nil {
		if repository.IsForeignKeyViolation(err) {
			s.logger.Warn().Err(err).Int64("user_id", id).Msg("user still referenced")
			return model.NewUserHasReferencesError(id)
		}
		s.logger.Error().Err(err).Int64("user_id", id).Msg("failed to delete user")
		return s.storageError("failed to delete user", err)
	}
	if err = tx.Commit(ctx); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return model.NewUserHasReferencesError(id)
		}
		s.logger.Error().Err(err).Int64("user_id", id).Msg("failed to commit transaction")
		return s.storageError("failed to delete user", err)
	}

	s.logger.Info().Int64("user_id", id).Msg("user deleted")
	s.publish(ctx, events.Event{Type: events.UserDeleted, UserID: id})
	return nil
}

// storageError maps connectivity failures to the unavailable kind and wraps
// everything else.
func (s *orderService) storageError(msg string, err error) error {
	if repository.IsUnavailable(err) {
		return fmt.Errorf("%s: %w: %v", msg, model.ErrServiceUnavailable, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func (s *orderService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn().
			Err(err).
			Str("type", string(event.Type)).
			Int64("order_id", event.OrderID).
			Msg("failed to publish event")
	}
}

// hashPassword hashes the supplied password, or a random one when none was
// given, so every stored user has a credential.
func (s *orderService) hashPassword(supplied *string) (string, error) {
	password := ""
	if supplied != nil {
		password = strings.TrimSpace(*supplied)
	}
	if password == "" {
		buf := make([]byte, generatedPasswordSize)
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to generate password: %w", err)
		}
		password = hex.EncodeToString(buf)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// normalizeShipping drops an absent or JSON null shipping payload.
func normalizeShipping(raw json.RawMessage) json.RawMessage {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil
	}
	return raw
}

// validateOrderRequest checks the payload, converts its items and computes
// the order total in cents. Every problem is reported, not only the first.
func validateOrderRequest(req *model.CreateOrderRequest) ([]model.OrderItem, int64, error) {
	v := validation.New()

	v.Required("user.name", req.User.Name, "Name is required")
	v.Email("user.email", req.User.Email, "Invalid email address")
	v.Required("user.phone", req.User.Phone, "Phone number is required")
	if req.User.Password != nil {
		v.MinLen("user.password", *req.User.Password, minPasswordLength, "Password must be at least 6 characters")
	}

	v.MinItems("items", len(req.Items), 1, "At least one item is required")

	items := make([]model.OrderItem, 0, len(req.Items))
	for i, in := range req.Items {
		v.Required(validation.Path("items", i, "productId"), in.ProductID, "Product ID is required")
		v.Required(validation.Path("items", i, "name"), in.Name, "Product name is required")

		priceField := validation.Path("items", i, "price")
		price, ok := v.Integer(priceField, in.Price, "Price must be a positive number")
		if ok {
			v.Check(price >= 0, priceField, "Price must be a positive number")
		}

		quantityField := validation.Path("items", i, "quantity")
		quantity, ok := v.Integer(quantityField, in.Quantity, "Quantity must be at least 1")
		if ok && v.Check(quantity > 0, quantityField, "Quantity must be at least 1") {
			// quantity is an INTEGER column
			v.Check(quantity <= math.MaxInt32, quantityField, fmt.Sprintf("Quantity must be at most %d", math.MaxInt32))
		}

		items = append(items, model.OrderItem{
			ProductID: in.ProductID,
			Name:      in.Name,
			Price:     price,
			Quantity:  int(quantity),
			Image:     in.Image,
			Meta:      in.Meta,
		})
	}

	if !v.Valid() {
		return nil, 0, &model.ValidationError{Issues: v.Issues()}
	}

	lines := make([]pricing.CentsLine, len(items))
	for i, item := range items {
		lines[i] = pricing.CentsLine{Price: item.Price, Quantity: item.Quantity}
	}
	total, err := pricing.CentsTotal(lines)
	if err != nil {
		return nil, 0, &model.ValidationError{Issues: []validation.Issue{
			{Field: "items", Message: "Order total is too large"},
		}}
	}
	return items, total, nil
}

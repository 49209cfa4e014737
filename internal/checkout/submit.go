package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"atelier/internal/cart"
	"atelier/internal/client"
	"atelier/internal/model"

	"github.com/rs/zerolog"
)

// GenericFailureMessage is used when the server gives no reason.
const GenericFailureMessage = "Failed to create order"

// ErrEmptyCart is returned when there is nothing to submit.
var ErrEmptyCart = errors.New("cart is empty")

// ErrServerUnreachable means the API could not be contacted at all.
var ErrServerUnreachable = errors.New(
	"Cannot connect to API server. Please:\n\n" +
		"1. Make sure the API is running: go run ./cmd/api\n" +
		"2. Check http://localhost:4000/health\n" +
		"3. If that works, try checkout again",
)

// ValidationError is a server-side rejection with field-level issues.
type ValidationError struct {
	Response model.ErrorResponse
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Response.Issues))
	for _, issue := range e.Response.Issues {
		parts = append(parts, issue.String())
	}
	return strings.Join(parts, ", ")
}

// SubmitError is any other server-reported failure.
type SubmitError struct {
	StatusCode int
	Message    string
}

func (e *SubmitError) Error() string {
	return e.Message
}

// OrderAPI creates orders on the server.
type OrderAPI interface {
	CreateOrder(ctx context.Context, req model.CreateOrderRequest) (*model.CreateOrderResponse, error)
}

// SuccessFunc runs after the server accepted an order.
type SuccessFunc func(ctx context.Context, order *model.Order, items []cart.Item, form Form)

// Submitter validates and posts orders.
type Submitter struct {
	api       OrderAPI
	onSuccess SuccessFunc
	now       func() time.Time
	logger    zerolog.Logger
}

// NewSubmitter creates a submitter. onSuccess may be nil.
func NewSubmitter(api OrderAPI, onSuccess SuccessFunc, logger zerolog.Logger) *Submitter {
	return &Submitter{
		api:       api,
		onSuccess: onSuccess,
		now:       time.Now,
		logger:    logger.With().Str("component", "checkout").Logger(),
	}
}

// Submit validates the form, sends the order and runs the success hook.
// On any failure the caller's cart is left untouched.
func (s *Submitter) Submit(ctx context.Context, items []cart.Item, form Form) (*model.Order, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	req := BuildRequest(items, form, s.now())
	s.logger.Info().Int("items", len(req.Items)).Str("email", req.User.Email).Msg("submitting order")

	resp, err := s.api.CreateOrder(ctx, req)
	if err != nil {
		return nil, s.classify(err)
	}
	if resp.Order == nil {
		return nil, &SubmitError{Message: GenericFailureMessage}
	}

	s.logger.Info().Int64("order_id", resp.Order.ID).Msg("order saved")

	if s.onSuccess != nil {
		s.onSuccess(ctx, resp.Order, items, form.Trimmed())
	}
	return resp.Order, nil
}

func (s *Submitter) classify(err error) error {
	if errors.Is(err, client.ErrUnreachable) {
		s.logger.Warn().Err(err).Msg("api unreachable")
		return ErrServerUnreachable
	}

	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("failed to submit order: %w", err)
	}

	if len(apiErr.Body.Issues) > 0 {
		return &ValidationError{Response: apiErr.Body}
	}

	msg := apiErr.Body.Message
	if msg == "" {
		msg = apiErr.Body.Error
	}
	if msg == "" {
		msg = GenericFailureMessage
	}
	return &SubmitError{StatusCode: apiErr.StatusCode, Message: msg}
}

package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ordivo/shopkit/pkg/logger"
	"github.com/ordivo/shopkit/pkg/orderstatus"
	"github.com/ordivo/shopkit/pkg/validator"
)

var (
	// ErrOrderNotFound is returned when the requested order does not exist.
	ErrOrderNotFound = errors.New("order.errors.not_found")
	// ErrDuplicateNumber is returned when two orders land on the same
	// second-precision number.
	ErrDuplicateNumber = errors.New("order.errors.duplicate_number")
	// ErrStorageFailure wraps storage-level failures.
	ErrStorageFailure = errors.New("order.errors.storage_failure")
)

const maxCustomerNameLen = 200

// Service orchestrates order intake and status updates.
type Service struct {
	storage Storage
	mail    Mailer
	log     *slog.Logger
	now     func() time.Time
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// NewService wires an order service. A nil logger falls back to slog.Default.
func NewService(storage Storage, mail Mailer, log *slog.Logger, opts ...ServiceOption) (*Service, error) {
	if storage == nil {
		return nil, errors.New("order: storage is required")
	}
	if mail == nil {
		return nil, errors.New("order: mailer is required")
	}
	if log == nil {
		log = slog.Default()
	}
	s := &Service{storage: storage, mail: mail, log: log, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Create validates and persists a new order in the PENDING state, then
// sends the admin notice and the customer confirmation. Email failures are
// logged and do not fail the request.
func (s *Service) Create(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	rules := []validator.Rule{
		validator.Required("customer_name", req.CustomerName),
		validator.MaxLen("customer_name", req.CustomerName, maxCustomerNameLen),
		validator.Required("customer_email", req.CustomerEmail),
		validator.ValidEmail("customer_email", req.CustomerEmail),
		validator.Required("total", req.Total),
	}
	if len(req.Items) == 0 {
		rules = append(rules, validator.Rule{
			Check: func() bool { return false },
			Error: validator.ValidationError{Field: "items", Message: "at least one item is required"},
		})
	}
	for i, it := range req.Items {
		field := fmt.Sprintf("items[%d]", i)
		rules = append(rules,
			validator.Required(field+".product_name", it.ProductName),
			validator.Positive(field+".quantity", it.Quantity),
			validator.Required(field+".price", it.Price),
		)
	}
	if err := validator.Apply(rules...); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	o := &Order{
		ID:            uuid.New(),
		Number:        s.nextNumber(now),
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Status:        orderstatus.Pending,
		Total:         req.Total,
		Items:         req.Items,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.storage.Save(ctx, o); err != nil {
		if errors.Is(err, ErrDuplicateNumber) {
			return nil, err
		}
		return nil, errors.Join(ErrStorageFailure, err)
	}

	s.notify(ctx, o)

	return o, nil
}

// notify delivers both order emails, logging failures instead of
// propagating them.
func (s *Service) notify(ctx context.Context, o *Order) {
	details := o.mailDetails()
	if err := s.mail.SendOrderNotificationToAdmin(ctx, details); err != nil {
		s.log.ErrorContext(ctx, "admin order notification failed",
			logger.OrderNumber(o.Number),
			logger.Error(err),
		)
	}
	if err := s.mail.SendOrderConfirmationToCustomer(ctx, details); err != nil {
		s.log.ErrorContext(ctx, "customer order confirmation failed",
			logger.OrderNumber(o.Number),
			logger.Error(err),
		)
	}
}

// nextNumber builds an order number from the wall clock, second precision.
func (s *Service) nextNumber(now time.Time) string {
	return orderstatus.OrderNumberPrefix + now.Format("20060102150405")
}

// Get returns a single order by its number. The number format is checked
// before touching storage.
func (s *Service) Get(ctx context.Context, number string) (*Order, error) {
	if err := orderstatus.ValidateOrderNumber(number); err != nil {
		return nil, err
	}
	o, err := s.storage.FindByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, err
		}
		return nil, errors.Join(ErrStorageFailure, err)
	}
	return o, nil
}

// List returns all orders, newest first.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	list, err := s.storage.FindAll(ctx)
	if err != nil {
		return nil, errors.Join(ErrStorageFailure, err)
	}
	return list, nil
}

// UpdateStatus applies a status change to an order. The checks run in a
// fixed sequence: number format, status parsing, order lookup, transition
// validation, persistence. The first failure wins.
func (s *Service) UpdateStatus(ctx context.Context, number, rawStatus string) (*Order, error) {
	if err := orderstatus.ValidateOrderNumber(number); err != nil {
		return nil, err
	}

	next, err := orderstatus.Parse(rawStatus)
	if err != nil {
		return nil, err
	}

	o, err := s.storage.FindByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, err
		}
		return nil, errors.Join(ErrStorageFailure, err)
	}

	if err := orderstatus.ValidateTransition(o.Status, next); err != nil {
		return nil, err
	}

	updatedAt := s.now().UTC()
	if err := s.storage.UpdateStatus(ctx, number, next, updatedAt); err != nil {
		return nil, errors.Join(ErrStorageFailure, err)
	}

	s.log.InfoContext(ctx, "order status updated",
		logger.OrderNumber(number),
		slog.String("from", string(o.Status)),
		slog.String("to", string(next)),
	)

	o.Status = next
	o.UpdatedAt = updatedAt
	return o, nil
}

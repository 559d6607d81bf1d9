package mailer

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// Service renders the four canonical message types and hands them to a
// transport. When the Brevo API transport is configured it is always
// attempted first; on any delivery failure the service falls back to SMTP
// within the same call and logs why the primary transport was abandoned.
type Service struct {
	cfg       Config
	primary   Sender // Brevo API transport, nil when disabled
	secondary Sender // SMTP relay, always present
	log       *slog.Logger
}

// ServiceOption overrides a Service dependency, mainly for tests.
type ServiceOption func(*Service)

// WithPrimarySender replaces the Brevo transport.
func WithPrimarySender(s Sender) ServiceOption {
	return func(svc *Service) { svc.primary = s }
}

// WithSecondarySender replaces the SMTP transport.
func WithSecondarySender(s Sender) ServiceOption {
	return func(svc *Service) { svc.secondary = s }
}

// NewService builds the dispatch service from config. The SMTP transport is
// mandatory as the fallback channel; the Brevo transport is constructed
// only when an API key is configured.
func NewService(cfg Config, log *slog.Logger, opts ...ServiceOption) (*Service, error) {
	svc := &Service{cfg: cfg, log: log}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.log == nil {
		svc.log = slog.Default()
	}
	if svc.secondary == nil {
		if cfg.DevDir != "" {
			svc.secondary = NewDevSender(cfg.DevDir)
		} else {
			smtpSender, err := NewSMTPSender(cfg)
			if err != nil {
				return nil, err
			}
			svc.secondary = smtpSender
		}
	}
	if svc.primary == nil && cfg.BrevoEnabled() {
		brevoSender, err := NewBrevoSender(cfg)
		if err != nil {
			return nil, err
		}
		svc.primary = brevoSender
	}
	return svc, nil
}

// MustNewService builds a dispatch service that panics on invalid config.
func MustNewService(cfg Config, log *slog.Logger, opts ...ServiceOption) *Service {
	svc, err := NewService(cfg, log, opts...)
	if err != nil {
		panic(err)
	}
	return svc
}

// SendContactNotificationToAdmin notifies the configured admin address of a
// new contact-form submission.
func (s *Service) SendContactNotificationToAdmin(ctx context.Context, name, email, subject, message string) error {
	if err := s.validateContact(ctx, name, email, subject); err != nil {
		return err
	}
	msg, err := buildAdminContactNotice(s.cfg, name, email, subject, message)
	if err != nil {
		return err
	}
	return s.dispatch(ctx, msg, slog.String("customer_name", name))
}

// SendContactConfirmationToCustomer acknowledges a contact-form submission
// to the customer who sent it.
func (s *Service) SendContactConfirmationToCustomer(ctx context.Context, name, email, subject string) error {
	if err := s.validateContact(ctx, name, email, subject); err != nil {
		return err
	}
	msg, err := buildCustomerContactAck(s.cfg, name, email, subject)
	if err != nil {
		return err
	}
	return s.dispatch(ctx, msg, slog.String("customer_name", name))
}

// SendOrderNotificationToAdmin notifies the configured admin address of a
// newly placed order.
func (s *Service) SendOrderNotificationToAdmin(ctx context.Context, order OrderDetails) error {
	if err := s.validateOrder(ctx, order); err != nil {
		return err
	}
	msg, err := buildAdminOrderNotice(s.cfg, order)
	if err != nil {
		return err
	}
	return s.dispatch(ctx, msg, slog.String("order_number", order.Number))
}

// SendOrderConfirmationToCustomer acknowledges a newly placed order to the
// customer, mirroring the admin notice with a processing note.
func (s *Service) SendOrderConfirmationToCustomer(ctx context.Context, order OrderDetails) error {
	if err := s.validateOrder(ctx, order); err != nil {
		return err
	}
	msg, err := buildCustomerOrderAck(s.cfg, order)
	if err != nil {
		return err
	}
	return s.dispatch(ctx, msg, slog.String("order_number", order.Number))
}

// validateContact enforces the fail-fast preconditions shared by both
// contact message types. It never contacts a transport.
func (s *Service) validateContact(ctx context.Context, name, email, subject string) error {
	var derr *DeliveryError
	switch {
	case strings.TrimSpace(name) == "":
		derr = NewDeliveryError(KindValidation, "CUSTOMER_NAME_REQUIRED",
			"customer name must not be blank", nil)
	case strings.TrimSpace(email) == "":
		derr = NewDeliveryError(KindValidation, "CUSTOMER_EMAIL_REQUIRED",
			"customer email must not be blank", nil)
	case strings.TrimSpace(subject) == "":
		derr = NewDeliveryError(KindValidation, "EMAIL_SUBJECT_REQUIRED",
			"email subject must not be blank", nil)
	default:
		derr = validateRecipient(email)
	}
	if derr == nil {
		return nil
	}
	derr.WithContext("customer_name", name)
	s.log.WarnContext(ctx, "contact email rejected by validation",
		slog.String("code", derr.Code),
		slog.String("customer_name", name),
		slog.String("recipient", email),
		slog.String("subject", subject))
	return derr
}

// validateOrder enforces the fail-fast preconditions shared by both order
// message types.
func (s *Service) validateOrder(ctx context.Context, order OrderDetails) error {
	var derr *DeliveryError
	switch {
	case strings.TrimSpace(order.CustomerName) == "":
		derr = NewDeliveryError(KindValidation, "CUSTOMER_NAME_REQUIRED",
			"customer name must not be blank", nil)
	case strings.TrimSpace(order.CustomerEmail) == "":
		derr = NewDeliveryError(KindValidation, "CUSTOMER_EMAIL_REQUIRED",
			"customer email must not be blank", nil)
	case strings.TrimSpace(order.Number) == "":
		derr = NewDeliveryError(KindValidation, "ORDER_NUMBER_REQUIRED",
			"order number must not be blank", nil)
	case strings.TrimSpace(order.Total) == "":
		derr = NewDeliveryError(KindValidation, "ORDER_TOTAL_REQUIRED",
			"order total must not be blank", nil)
	default:
		derr = validateRecipient(order.CustomerEmail)
	}
	if derr == nil {
		return nil
	}
	derr.WithContext("order_number", order.Number)
	s.log.WarnContext(ctx, "order email rejected by validation",
		slog.String("code", derr.Code),
		slog.String("order_number", order.Number),
		slog.String("recipient", order.CustomerEmail))
	return derr
}

// dispatch hands the rendered message to a transport. The primary (Brevo)
// transport is attempted first when enabled; any delivery failure from it
// triggers a logged fallback to SMTP within the same call. A failure of the
// fallback transport is surfaced to the caller.
func (s *Service) dispatch(ctx context.Context, msg Message, extra slog.Attr) error {
	logAttrs := []any{
		slog.String("email_type", string(msg.Type)),
		slog.String("recipient", msg.To),
		slog.String("subject", msg.Subject),
		extra,
	}

	if s.primary != nil {
		s.log.InfoContext(ctx, "dispatching email via primary transport", logAttrs...)
		err := s.primary.Send(ctx, msg)
		if err == nil {
			s.log.InfoContext(ctx, "email sent via primary transport", logAttrs...)
			return nil
		}
		reason := err.Error()
		code := ErrorCode(err)
		s.log.WarnContext(ctx, "primary transport failed, falling back to smtp",
			slog.String("email_type", string(msg.Type)),
			slog.String("recipient", msg.To),
			slog.String("brevo_failure_code", code),
			slog.String("brevo_failure_reason", reason),
			slog.Time("timestamp", time.Now()))
	} else {
		s.log.InfoContext(ctx, "dispatching email via smtp", logAttrs...)
	}

	if err := s.secondary.Send(ctx, msg); err != nil {
		s.log.ErrorContext(ctx, "email delivery failed",
			append(logAttrs, slog.String("code", ErrorCode(err)), slog.Any("error", err))...)
		return err
	}
	s.log.InfoContext(ctx, "email sent via smtp", logAttrs...)
	return nil
}

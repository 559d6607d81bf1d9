package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ordivo/shopkit/pkg/logger"
	"github.com/ordivo/shopkit/pkg/validator"
)

var (
	// ErrContactNotFound is returned when the requested submission does not exist.
	ErrContactNotFound = errors.New("contact.errors.not_found")
	// ErrStorageFailure wraps storage-level failures.
	ErrStorageFailure = errors.New("contact.errors.storage_failure")
)

const (
	maxNameLen    = 200
	maxSubjectLen = 300
	maxMessageLen = 5000
)

// Service orchestrates validation, persistence, and notifications for
// contact submissions.
type Service struct {
	storage Storage
	mail    Mailer
	log     *slog.Logger
}

// NewService wires a contact service. A nil logger falls back to slog.Default.
func NewService(storage Storage, mail Mailer, log *slog.Logger) (*Service, error) {
	if storage == nil {
		return nil, errors.New("contact: storage is required")
	}
	if mail == nil {
		return nil, errors.New("contact: mailer is required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{storage: storage, mail: mail, log: log}, nil
}

// Create validates and persists a submission, then sends the admin notice
// and the customer acknowledgement. Email failures are logged and do not
// fail the request: the submission is already stored.
func (s *Service) Create(ctx context.Context, req CreateContactRequest) (*Contact, error) {
	if err := validator.Apply(
		validator.Required("name", req.Name),
		validator.MaxLen("name", req.Name, maxNameLen),
		validator.Required("email", req.Email),
		validator.ValidEmail("email", req.Email),
		validator.Required("subject", req.Subject),
		validator.MaxLen("subject", req.Subject, maxSubjectLen),
		validator.Required("message", req.Message),
		validator.MaxLen("message", req.Message, maxMessageLen),
	); err != nil {
		return nil, err
	}

	c := &Contact{
		ID:        uuid.New(),
		Name:      req.Name,
		Email:     req.Email,
		Subject:   req.Subject,
		Message:   req.Message,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.storage.Save(ctx, c); err != nil {
		return nil, errors.Join(ErrStorageFailure, err)
	}

	s.notify(ctx, c)

	return c, nil
}

// notify delivers both contact emails, logging failures instead of
// propagating them.
func (s *Service) notify(ctx context.Context, c *Contact) {
	if err := s.mail.SendContactNotificationToAdmin(ctx, c.Name, c.Email, c.Subject, c.Message); err != nil {
		s.log.ErrorContext(ctx, "admin contact notification failed",
			logger.ContactID(c.ID.String()),
			logger.Error(err),
		)
	}
	if err := s.mail.SendContactConfirmationToCustomer(ctx, c.Name, c.Email, c.Subject); err != nil {
		s.log.ErrorContext(ctx, "customer contact confirmation failed",
			logger.ContactID(c.ID.String()),
			logger.Error(err),
		)
	}
}

// Get returns a single submission by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Contact, error) {
	c, err := s.storage.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrContactNotFound) {
			return nil, err
		}
		return nil, errors.Join(ErrStorageFailure, err)
	}
	return c, nil
}

// List returns all submissions, newest first.
func (s *Service) List(ctx context.Context) ([]Contact, error) {
	list, err := s.storage.FindAll(ctx)
	if err != nil {
		return nil, errors.Join(ErrStorageFailure, err)
	}
	return list, nil
}

// Count returns the total number of stored submissions.
func (s *Service) Count(ctx context.Context) (int64, error) {
	n, err := s.storage.Count(ctx)
	if err != nil {
		return 0, errors.Join(ErrStorageFailure, err)
	}
	return n, nil
}

// ParseContactID parses a path parameter into a contact id.
func ParseContactID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("contact: invalid id %q: %w", raw, err)
	}
	return id, nil
}

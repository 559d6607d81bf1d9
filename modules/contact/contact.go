// Package contact handles contact-form submissions: persistence first,
// then best-effort email notifications.
package contact

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Contact is a persisted contact-form submission.
type Contact struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateContactRequest is the inbound payload for a new submission.
type CreateContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Storage is the opaque store the service persists submissions into.
type Storage interface {
	Save(ctx context.Context, c *Contact) error
	FindByID(ctx context.Context, id uuid.UUID) (*Contact, error)
	FindAll(ctx context.Context) ([]Contact, error)
	Count(ctx context.Context) (int64, error)
}

// Mailer is the slice of the email dispatch service this module needs.
type Mailer interface {
	SendContactNotificationToAdmin(ctx context.Context, name, email, subject, message string) error
	SendContactConfirmationToCustomer(ctx context.Context, name, email, subject string) error
}

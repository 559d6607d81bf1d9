package mailer

import (
	"context"
	"net/mail"
	"strings"
)

// MessageType tags the canonical message being dispatched.
type MessageType string

const (
	TypeAdminContactNotice MessageType = "admin-contact-notice"
	TypeCustomerContactAck MessageType = "customer-contact-ack"
	TypeAdminOrderNotice   MessageType = "admin-order-notice"
	TypeCustomerOrderAck   MessageType = "customer-order-ack"
)

// Message is an immutable outbound email, created per send attempt and
// discarded after dispatch.
type Message struct {
	To       string
	ToName   string
	Subject  string
	BodyHTML string
	Type     MessageType
}

// Sender is a concrete channel capable of delivering one outbound message.
// Exactly one implementation exists per transport.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// validateRecipient performs the structural check every transport relies on.
// It never contacts a network.
func validateRecipient(addr string) *DeliveryError {
	if strings.TrimSpace(addr) == "" {
		return NewDeliveryError(KindValidation, "RECIPIENT_EMAIL_EMPTY",
			"recipient email address is empty", nil)
	}
	parsed, err := mail.ParseAddress(addr)
	if err != nil {
		return NewDeliveryError(KindValidation, "RECIPIENT_EMAIL_INVALID_FORMAT",
			"recipient email address has an invalid format", err).
			WithContext("recipient", addr)
	}
	// mail.ParseAddress accepts dotless domains; transactional providers do not.
	domain := parsed.Address[strings.LastIndex(parsed.Address, "@")+1:]
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return NewDeliveryError(KindValidation, "RECIPIENT_EMAIL_INVALID_FORMAT",
			"recipient email address has an invalid format", nil).
			WithContext("recipient", addr)
	}
	return nil
}

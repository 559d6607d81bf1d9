package mailer

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by transport constructors when the mailer
// configuration is incomplete.
var ErrInvalidConfig = errors.New("mailer.errors.invalid_config")

// Kind is the discriminant category of a DeliveryError.
type Kind string

const (
	// KindValidation means caller-supplied data failed a precondition.
	// Recoverable by correcting input, never retried automatically.
	KindValidation Kind = "validation"
	// KindAuthentication means a transport rejected our credentials.
	// Not retryable without operator intervention.
	KindAuthentication Kind = "authentication"
	// KindInvalidRecipient means the transport or provider rejected the
	// destination address. Not retryable with the same address.
	KindInvalidRecipient Kind = "invalid_recipient"
	// KindTimeout means an attempt exceeded its bound. Safe to retry.
	KindTimeout Kind = "timeout"
	// KindTransport covers connection-level, messaging-protocol-level and
	// provider-server-level failures independent of the specific message.
	KindTransport Kind = "transport"
	// KindUnexpected is the catch-all for anything not classified above.
	KindUnexpected Kind = "unexpected"
)

// DeliveryError is the tagged error value returned by transports and the
// dispatch service. Code is a short stable machine string identifying the
// specific failure condition within a Kind. Context carries diagnostic
// key/values (recipient, subject, transport) and is never parsed.
type DeliveryError struct {
	Kind    Kind
	Code    string
	Message string
	Context map[string]any
	Err     error
}

func (e *DeliveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s [%s]: %s: %v", e.Kind, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %s", e.Kind, e.Code, e.Message)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// WithContext returns the error with the given diagnostic key set.
// The receiver is mutated; errors are built and consumed on one call stack.
func (e *DeliveryError) WithContext(key string, value any) *DeliveryError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// NewDeliveryError creates a DeliveryError with an initialized, non-nil
// context map. Transports must always attach recipient, subject and
// transport name before returning the error.
func NewDeliveryError(kind Kind, code, message string, err error) *DeliveryError {
	return &DeliveryError{
		Kind:    kind,
		Code:    code,
		Message: message,
		Context: make(map[string]any),
		Err:     err,
	}
}

// AsDeliveryError extracts a DeliveryError from err, if any.
func AsDeliveryError(err error) (*DeliveryError, bool) {
	var de *DeliveryError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// IsKind reports whether err is a DeliveryError of the given kind.
func IsKind(err error, kind Kind) bool {
	de, ok := AsDeliveryError(err)
	return ok && de.Kind == kind
}

// ErrorCode returns the stable machine code of err, or "" when err is not
// a DeliveryError.
func ErrorCode(err error) string {
	if de, ok := AsDeliveryError(err); ok {
		return de.Code
	}
	return ""
}

func IsValidationError(err error) bool     { return IsKind(err, KindValidation) }
func IsAuthenticationError(err error) bool { return IsKind(err, KindAuthentication) }
func IsInvalidRecipientError(err error) bool {
	return IsKind(err, KindInvalidRecipient)
}
func IsTimeoutError(err error) bool { return IsKind(err, KindTimeout) }

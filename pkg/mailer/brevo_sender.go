package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
)

// brevoSender delivers messages through the Brevo transactional REST API.
// Success is exactly HTTP 201 with a message identifier in the response.
type brevoSender struct {
	cfg    Config
	client *http.Client
}

type brevoParty struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type brevoSendRequest struct {
	Sender      brevoParty   `json:"sender"`
	To          []brevoParty `json:"to"`
	Subject     string       `json:"subject"`
	HTMLContent string       `json:"htmlContent"`
}

type brevoSendResponse struct {
	MessageID string `json:"messageId"`
}

// NewBrevoSender creates the HTTP API transport. The API key and sender
// identity are required; the endpoint is overridable for tests.
func NewBrevoSender(cfg Config) (Sender, error) {
	if cfg.BrevoAPIKey == "" {
		return nil, fmt.Errorf("%w: BrevoAPIKey is required", ErrInvalidConfig)
	}
	if cfg.BrevoEndpoint == "" {
		return nil, fmt.Errorf("%w: BrevoEndpoint is required", ErrInvalidConfig)
	}
	if cfg.SenderEmail == "" {
		return nil, fmt.Errorf("%w: SenderEmail is required", ErrInvalidConfig)
	}
	return &brevoSender{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.BrevoTimeout},
	}, nil
}

// MustNewBrevoSender creates a Brevo transport that panics on invalid config.
func MustNewBrevoSender(cfg Config) Sender {
	s, err := NewBrevoSender(cfg)
	if err != nil {
		panic(err)
	}
	return s
}

func (b *brevoSender) Send(ctx context.Context, msg Message) error {
	if derr := validateRecipient(msg.To); derr != nil {
		return derr.
			WithContext("transport", "brevo").
			WithContext("subject", msg.Subject)
	}

	payload, err := json.Marshal(brevoSendRequest{
		Sender:      brevoParty{Name: b.cfg.SenderName, Email: b.cfg.SenderEmail},
		To:          []brevoParty{{Name: msg.ToName, Email: msg.To}},
		Subject:     msg.Subject,
		HTMLContent: msg.BodyHTML,
	})
	if err != nil {
		return b.classify(NewDeliveryError(KindUnexpected, "BREVO_IO_ERROR",
			"could not encode the send request", err), msg)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.cfg.BrevoEndpoint, bytes.NewReader(payload))
	if err != nil {
		return b.classify(NewDeliveryError(KindUnexpected, "BREVO_IO_ERROR",
			"could not build the send request", err), msg)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("api-key", b.cfg.BrevoAPIKey)
	req.Header.Set("content-type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return b.classify(classifyBrevoNetworkError(err), msg)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return b.classify(NewDeliveryError(KindTransport, "BREVO_IO_ERROR",
			"could not read the provider response", err), msg)
	}

	if resp.StatusCode != http.StatusCreated {
		derr := classifyBrevoStatus(resp.StatusCode, string(body))
		return b.classify(derr, msg)
	}

	// A 201 without a message identifier is not an accepted send.
	var sent brevoSendResponse
	if err := json.Unmarshal(body, &sent); err != nil || sent.MessageID == "" {
		return b.classify(NewDeliveryError(KindTransport, "BREVO_IO_ERROR",
			"provider returned 201 without a message identifier", err), msg)
	}
	return nil
}

func (b *brevoSender) classify(derr *DeliveryError, msg Message) *DeliveryError {
	return derr.
		WithContext("transport", "brevo").
		WithContext("recipient", msg.To).
		WithContext("subject", msg.Subject)
}

// classifyBrevoStatus maps a non-201 provider status onto the taxonomy.
func classifyBrevoStatus(status int, body string) *DeliveryError {
	err := fmt.Errorf("brevo returned status %d: %s", status, body)
	switch {
	case status == http.StatusBadRequest:
		return NewDeliveryError(KindInvalidRecipient, "BREVO_INVALID_DATA",
			"provider rejected the message data", err)
	case status == http.StatusUnauthorized:
		return NewDeliveryError(KindAuthentication, "BREVO_AUTH_FAILED",
			"provider rejected the API key", err)
	case status == http.StatusPaymentRequired:
		return NewDeliveryError(KindTransport, "BREVO_API_INSUFFICIENT_CREDITS",
			"provider account has insufficient credits", err)
	case status == http.StatusForbidden:
		return NewDeliveryError(KindTransport, "BREVO_API_FORBIDDEN",
			"provider refused the request", err)
	case status == http.StatusNotFound:
		return NewDeliveryError(KindTransport, "BREVO_API_NOT_FOUND",
			"provider endpoint or resource not found", err)
	case status == http.StatusTooManyRequests:
		return NewDeliveryError(KindTransport, "BREVO_API_RATE_LIMIT",
			"provider rate limit exceeded", err)
	case status >= 500:
		return NewDeliveryError(KindTransport, "BREVO_API_SERVER_ERROR",
			"provider server error", err)
	default:
		return NewDeliveryError(KindTransport, "BREVO_API_CLIENT_ERROR",
			"provider rejected the request", err)
	}
}

// classifyBrevoNetworkError maps request-level failures. Cancellation is
// surfaced explicitly rather than swallowed into a generic I/O failure.
func classifyBrevoNetworkError(err error) *DeliveryError {
	switch {
	case errors.Is(err, context.Canceled):
		return NewDeliveryError(KindTransport, "BREVO_INTERRUPTED",
			"send was cancelled while in flight", err)
	case errors.Is(err, context.DeadlineExceeded):
		return NewDeliveryError(KindTimeout, "BREVO_API_TIMEOUT",
			"provider request exceeded its time bound", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NewDeliveryError(KindTimeout, "BREVO_API_TIMEOUT",
			"provider request exceeded its time bound", err)
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return NewDeliveryError(KindTransport, "BREVO_CONNECTION_FAILED",
			"could not connect to the provider", err)
	}
	return NewDeliveryError(KindTransport, "BREVO_IO_ERROR",
		"provider request failed", err)
}

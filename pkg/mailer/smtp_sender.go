package mailer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/textproto"
	"regexp"
	"strings"

	"github.com/wneessen/go-mail"
)

// smtpSender delivers messages through a configured SMTP relay. A fresh
// session is opened per call, so it is safe for concurrent use from
// independent requests. SMTP gives no message id back; success is the
// absence of an error.
type smtpSender struct {
	cfg Config
}

// NewSMTPSender creates the SMTP transport. The relay host and sender
// identity are required; credentials are optional for relays that accept
// unauthenticated submission.
func NewSMTPSender(cfg Config) (Sender, error) {
	if cfg.SMTPHost == "" {
		return nil, fmt.Errorf("%w: SMTPHost is required", ErrInvalidConfig)
	}
	if cfg.SenderEmail == "" {
		return nil, fmt.Errorf("%w: SenderEmail is required", ErrInvalidConfig)
	}
	return &smtpSender{cfg: cfg}, nil
}

// MustNewSMTPSender creates an SMTP transport that panics on invalid config.
func MustNewSMTPSender(cfg Config) Sender {
	s, err := NewSMTPSender(cfg)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *smtpSender) Send(ctx context.Context, msg Message) error {
	if derr := validateRecipient(msg.To); derr != nil {
		return derr.
			WithContext("transport", "smtp").
			WithContext("subject", msg.Subject)
	}

	m := mail.NewMsg()
	if err := m.FromFormat(s.cfg.SenderName, s.cfg.SenderEmail); err != nil {
		return s.classify(err, msg)
	}
	if err := m.AddToFormat(msg.ToName, msg.To); err != nil {
		return s.classify(err, msg)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, msg.BodyHTML)

	opts := []mail.Option{
		mail.WithPort(s.cfg.SMTPPort),
		mail.WithTimeout(s.cfg.SMTPTimeout),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if s.cfg.SMTPUsername != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.SMTPUsername),
			mail.WithPassword(s.cfg.SMTPPassword),
		)
	}

	// One client per call: go-mail clients hold session state while dialing,
	// so sharing one across goroutines would race.
	client, err := mail.NewClient(s.cfg.SMTPHost, opts...)
	if err != nil {
		return s.classify(err, msg)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return s.classify(err, msg)
	}
	return nil
}

// classify maps an underlying SMTP error onto the delivery taxonomy and
// attaches the transport context.
func (s *smtpSender) classify(err error, msg Message) *DeliveryError {
	derr := classifySMTPError(err)
	return derr.
		WithContext("transport", "smtp").
		WithContext("recipient", msg.To).
		WithContext("subject", msg.Subject)
}

// classifySMTPError runs the typed checks first: protocol reply codes,
// envelope rejections, and connection errors are unambiguous, so the text
// heuristics only ever see errors none of those matched. A dial failure
// whose address happens to contain auth-looking digits must stay a
// connection failure.
func classifySMTPError(err error) *DeliveryError {
	var tpErr *textproto.Error
	if errors.As(err, &tpErr) {
		// 530/534/535/538 are the authentication reply family.
		switch tpErr.Code {
		case 530, 534, 535, 538:
			return NewDeliveryError(KindAuthentication, "SMTP_AUTHENTICATION_FAILED",
				"SMTP server rejected the configured credentials", err)
		}
	}

	var sendErr *mail.SendError
	if errors.As(err, &sendErr) {
		switch sendErr.Reason {
		case mail.ErrSMTPRcptTo, mail.ErrSMTPMailFrom:
			return NewDeliveryError(KindInvalidRecipient, "SMTP_SEND_FAILED",
				"SMTP server refused the message envelope", err)
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && !opErr.Timeout() {
		return NewDeliveryError(KindTransport, "SMTP_CONNECTION_FAILED",
			"could not reach the SMTP server", err)
	}

	text := strings.ToLower(err.Error())

	if isSMTPAuthErrorText(text) {
		return NewDeliveryError(KindAuthentication, "SMTP_AUTHENTICATION_FAILED",
			"SMTP server rejected the configured credentials", err)
	}

	if errors.Is(err, context.DeadlineExceeded) ||
		strings.Contains(text, "timeout") || strings.Contains(text, "timed out") {
		return NewDeliveryError(KindTimeout, "SMTP_TIMEOUT",
			"SMTP operation exceeded its time bound", err)
	}

	if errors.As(err, &sendErr) {
		return NewDeliveryError(KindTransport, "SMTP_MESSAGING_ERROR",
			"SMTP messaging failure", err)
	}

	return NewDeliveryError(KindUnexpected, "SMTP_UNEXPECTED_ERROR",
		"unexpected SMTP failure", err)
}

// smtpAuthReplyPrefix matches a 535 SMTP reply code at the start of a
// reply line, not the digits 535 buried in an address or port.
var smtpAuthReplyPrefix = regexp.MustCompile(`(^|[\s:])535[ -]`)

// isSMTPAuthErrorText recognizes credential rejections that reach us as
// flattened strings instead of typed protocol errors.
func isSMTPAuthErrorText(text string) bool {
	return strings.Contains(text, "authentication failed") ||
		strings.Contains(text, "username and password not accepted") ||
		smtpAuthReplyPrefix.MatchString(text)
}

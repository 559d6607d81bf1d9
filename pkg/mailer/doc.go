// Package mailer is the transactional email engine: it renders the four
// canonical storefront messages and delivers them through one of two
// transports with a typed failure taxonomy.
//
// # Architecture
//
// The package is built around the Sender interface with exactly one
// implementation per transport:
//   - brevoSender posts to the Brevo transactional REST API (primary)
//   - smtpSender submits through a configured SMTP relay (fallback)
//   - DevSender writes messages to disk for local development
//
// Service orchestrates a dispatch: validate the caller-supplied fields,
// render the message from a fixed {{placeholder}} template, then hand it to
// a transport. When Brevo is configured it is always attempted first; any
// delivery failure from it triggers a logged fallback to SMTP within the
// same call. Validation failures never reach a transport.
//
// # Failure taxonomy
//
// Every failure is a *DeliveryError carrying a Kind discriminant, a stable
// machine Code (for example SMTP_AUTHENTICATION_FAILED or BREVO_AUTH_FAILED)
// and a diagnostic context map that always includes the recipient, subject
// and transport name. Transport errors are reclassified at the transport
// boundary and never silently swallowed.
//
// # Usage
//
//	cfg := mailer.Config{
//	    SenderEmail: "noreply@ordivo.it",
//	    SenderName:  "Ordivo",
//	    AdminEmail:  "ordini@ordivo.it",
//	    SMTPHost:    "smtp.example.com",
//	    BrevoAPIKey: "xkeysib-...", // optional, enables the primary transport
//	}
//
//	svc, err := mailer.NewService(cfg, slog.Default())
//	if err != nil {
//	    // configuration error
//	}
//
//	err = svc.SendContactNotificationToAdmin(ctx,
//	    "Mario Rossi", "mario@example.com", "Informazioni prodotto", "Vorrei info sui prodotti")
//	if mailer.IsValidationError(err) {
//	    // caller input problem, fix and resubmit
//	}
//
// Callers that persist an entity before notifying treat any returned error
// as non-fatal: the write wins, the notification is best effort.
package mailer

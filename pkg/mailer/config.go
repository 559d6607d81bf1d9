package mailer

import "time"

// Config holds the immutable email delivery configuration. It is read once
// at startup and shared read-only across concurrent dispatches.
type Config struct {
	SenderEmail string `env:"MAIL_SENDER_EMAIL,required"`              // SenderEmail is the From address for all outbound mail.
	SenderName  string `env:"MAIL_SENDER_NAME" envDefault:"Ordivo"`    // SenderName is the From display name.
	AdminEmail  string `env:"MAIL_ADMIN_EMAIL,required"`               // AdminEmail receives contact and order notifications.
	AdminName   string `env:"MAIL_ADMIN_NAME" envDefault:"Amministratore"` // AdminName is the admin display name.

	SMTPHost     string        `env:"SMTP_HOST"`                          // SMTPHost is the SMTP relay hostname.
	SMTPPort     int           `env:"SMTP_PORT" envDefault:"587"`         // SMTPPort is the SMTP relay port.
	SMTPUsername string        `env:"SMTP_USERNAME"`                      // SMTPUsername authenticates against the relay.
	SMTPPassword string        `env:"SMTP_PASSWORD"`                      // SMTPPassword authenticates against the relay.
	SMTPTimeout  time.Duration `env:"SMTP_TIMEOUT" envDefault:"10s"`      // SMTPTimeout bounds the SMTP dial and handshake.

	BrevoAPIKey   string        `env:"BREVO_API_KEY"`                                              // BrevoAPIKey enables the HTTP API transport when non-blank.
	BrevoEndpoint string        `env:"BREVO_ENDPOINT" envDefault:"https://api.brevo.com/v3/smtp/email"` // BrevoEndpoint is the transactional send endpoint.
	BrevoTimeout  time.Duration `env:"BREVO_TIMEOUT" envDefault:"30s"`                             // BrevoTimeout bounds the whole HTTP request.

	ContactCTAURL string `env:"MAIL_CONTACT_CTA_URL" envDefault:"https://www.ordivo.it/prodotti"` // ContactCTAURL is the link in the customer contact acknowledgement.

	DevDir string `env:"MAIL_DEV_DIR"` // DevDir, when set, replaces SMTP with a file-dumping sender for local work.
}

// BrevoEnabled reports whether the HTTP API transport should be attempted
// as the primary channel.
func (c Config) BrevoEnabled() bool {
	return c.BrevoAPIKey != ""
}

package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// DevSender implements Sender for local development. It saves every message
// as an HTML file plus a JSON metadata file instead of contacting a relay
// or provider.
type DevSender struct {
	dir string
}

// NewDevSender creates a development sender that writes messages to dir.
// The directory is created on first send if it does not exist.
func NewDevSender(dir string) *DevSender {
	return &DevSender{dir: dir}
}

type devMessageMeta struct {
	Timestamp string `json:"timestamp"`
	To        string `json:"to"`
	ToName    string `json:"to_name,omitempty"`
	Subject   string `json:"subject"`
	Type      string `json:"type"`
}

func (d *DevSender) Send(ctx context.Context, msg Message) error {
	if derr := validateRecipient(msg.To); derr != nil {
		return derr.WithContext("transport", "dev").WithContext("subject", msg.Subject)
	}

	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return NewDeliveryError(KindTransport, "DEV_WRITE_FAILED",
			"could not create the dev mail directory", err).
			WithContext("transport", "dev").
			WithContext("recipient", msg.To).
			WithContext("subject", msg.Subject)
	}

	now := time.Now()
	base := fmt.Sprintf("%s_%s", now.Format("2006_01_02_150405"), devSafeName(string(msg.Type)))

	if err := os.WriteFile(filepath.Join(d.dir, base+".html"), []byte(msg.BodyHTML), 0644); err != nil {
		return NewDeliveryError(KindTransport, "DEV_WRITE_FAILED",
			"could not write the message body", err).
			WithContext("transport", "dev").
			WithContext("recipient", msg.To).
			WithContext("subject", msg.Subject)
	}

	meta, err := json.MarshalIndent(devMessageMeta{
		Timestamp: now.Format(time.RFC3339),
		To:        msg.To,
		ToName:    msg.ToName,
		Subject:   msg.Subject,
		Type:      string(msg.Type),
	}, "", "  ")
	if err != nil {
		return NewDeliveryError(KindUnexpected, "DEV_WRITE_FAILED",
			"could not marshal the message metadata", err).
			WithContext("transport", "dev").
			WithContext("recipient", msg.To).
			WithContext("subject", msg.Subject)
	}
	if err := os.WriteFile(filepath.Join(d.dir, base+".json"), meta, 0644); err != nil {
		return NewDeliveryError(KindTransport, "DEV_WRITE_FAILED",
			"could not write the message metadata", err).
			WithContext("transport", "dev").
			WithContext("recipient", msg.To).
			WithContext("subject", msg.Subject)
	}
	return nil
}

var devUnsafeChars = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

func devSafeName(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = devUnsafeChars.ReplaceAllString(s, "")
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "message"
	}
	return strings.ToLower(s)
}

package mailer_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ordivo/shopkit/pkg/mailer"
)

func brevoTestConfig(endpoint string) mailer.Config {
	return mailer.Config{
		SenderEmail:   "noreply@ordivo.it",
		SenderName:    "Ordivo",
		AdminEmail:    "ordini@ordivo.it",
		BrevoAPIKey:   "xkeysib-test",
		BrevoEndpoint: endpoint,
		BrevoTimeout:  5 * time.Second,
	}
}

func TestNewBrevoSender_InvalidConfig(t *testing.T) {
	t.Parallel()

	t.Run("missing api key", func(t *testing.T) {
		t.Parallel()

		cfg := brevoTestConfig("https://api.brevo.com/v3/smtp/email")
		cfg.BrevoAPIKey = ""
		_, err := mailer.NewBrevoSender(cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, mailer.ErrInvalidConfig)
	})

	t.Run("missing sender email", func(t *testing.T) {
		t.Parallel()

		cfg := brevoTestConfig("https://api.brevo.com/v3/smtp/email")
		cfg.SenderEmail = ""
		_, err := mailer.NewBrevoSender(cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, mailer.ErrInvalidConfig)
	})
}

func TestBrevoSender_Send(t *testing.T) {
	t.Parallel()

	msg := mailer.Message{
		To:       "mario@example.com",
		ToName:   "Mario Rossi",
		Subject:  "Conferma ordine ODV20240101120000",
		BodyHTML: "<p>grazie</p>",
		Type:     mailer.TypeCustomerOrderAck,
	}

	t.Run("201 with message id is success", func(t *testing.T) {
		t.Parallel()

		var gotBody map[string]any
		var gotHeaders http.Header
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotHeaders = r.Header.Clone()
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"messageId":"<202401@smtp-relay.brevo.com>"}`))
		}))
		t.Cleanup(server.Close)

		sender, err := mailer.NewBrevoSender(brevoTestConfig(server.URL))
		require.NoError(t, err)

		err = sender.Send(context.Background(), msg)
		require.NoError(t, err)

		assert.Equal(t, "xkeysib-test", gotHeaders.Get("api-key"))
		assert.Equal(t, "application/json", gotHeaders.Get("content-type"))
		assert.Equal(t, "application/json", gotHeaders.Get("accept"))

		sender2, ok := gotBody["sender"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "noreply@ordivo.it", sender2["email"])
		assert.Equal(t, "Ordivo", sender2["name"])

		to, ok := gotBody["to"].([]any)
		require.True(t, ok)
		require.Len(t, to, 1)
		first := to[0].(map[string]any)
		assert.Equal(t, "mario@example.com", first["email"])
		assert.Equal(t, "Mario Rossi", first["name"])

		assert.Equal(t, "Conferma ordine ODV20240101120000", gotBody["subject"])
		assert.Equal(t, "<p>grazie</p>", gotBody["htmlContent"])
	})

	t.Run("201 without a message id is a transport failure", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{}`))
		}))
		t.Cleanup(server.Close)

		sender, err := mailer.NewBrevoSender(brevoTestConfig(server.URL))
		require.NoError(t, err)

		err = sender.Send(context.Background(), msg)
		require.Error(t, err)

		derr, ok := mailer.AsDeliveryError(err)
		require.True(t, ok)
		assert.Equal(t, mailer.KindTransport, derr.Kind)
		assert.Equal(t, "BREVO_IO_ERROR", derr.Code)
		assert.Equal(t, "brevo", derr.Context["transport"])
	})

	t.Run("401 maps to authentication failure", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"code":"unauthorized","message":"Key not found"}`))
		}))
		t.Cleanup(server.Close)

		sender, err := mailer.NewBrevoSender(brevoTestConfig(server.URL))
		require.NoError(t, err)

		err = sender.Send(context.Background(), msg)
		require.Error(t, err)

		derr, ok := mailer.AsDeliveryError(err)
		require.True(t, ok)
		assert.Equal(t, mailer.KindAuthentication, derr.Kind)
		assert.Equal(t, "BREVO_AUTH_FAILED", derr.Code)
		assert.Equal(t, "brevo", derr.Context["transport"])
		assert.Equal(t, "mario@example.com", derr.Context["recipient"])
	})

	t.Run("400 maps to invalid recipient data", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"code":"invalid_parameter"}`))
		}))
		t.Cleanup(server.Close)

		sender, err := mailer.NewBrevoSender(brevoTestConfig(server.URL))
		require.NoError(t, err)

		err = sender.Send(context.Background(), msg)
		require.Error(t, err)
		assert.True(t, mailer.IsInvalidRecipientError(err))
		assert.Equal(t, "BREVO_INVALID_DATA", mailer.ErrorCode(err))
	})

	t.Run("server error maps to transport failure", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		t.Cleanup(server.Close)

		sender, err := mailer.NewBrevoSender(brevoTestConfig(server.URL))
		require.NoError(t, err)

		err = sender.Send(context.Background(), msg)
		require.Error(t, err)
		assert.Equal(t, "BREVO_API_SERVER_ERROR", mailer.ErrorCode(err))
		assert.True(t, mailer.IsKind(err, mailer.KindTransport))
	})

	t.Run("slow provider hits the request timeout", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-release
		}))
		t.Cleanup(func() {
			close(release)
			server.Close()
		})

		cfg := brevoTestConfig(server.URL)
		cfg.BrevoTimeout = 50 * time.Millisecond
		sender, err := mailer.NewBrevoSender(cfg)
		require.NoError(t, err)

		err = sender.Send(context.Background(), msg)
		require.Error(t, err)
		assert.True(t, mailer.IsTimeoutError(err))
		assert.Equal(t, "BREVO_API_TIMEOUT", mailer.ErrorCode(err))
	})

	t.Run("cancelled context is reported as interrupted", func(t *testing.T) {
		t.Parallel()

		started := make(chan struct{})
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			close(started)
			<-release
		}))
		t.Cleanup(func() {
			close(release)
			server.Close()
		})

		sender, err := mailer.NewBrevoSender(brevoTestConfig(server.URL))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			<-started
			cancel()
		}()

		err = sender.Send(ctx, msg)
		require.Error(t, err)
		assert.Equal(t, "BREVO_INTERRUPTED", mailer.ErrorCode(err))
	})

	t.Run("connection refused maps to connection failure", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		endpoint := server.URL
		server.Close()

		sender, err := mailer.NewBrevoSender(brevoTestConfig(endpoint))
		require.NoError(t, err)

		err = sender.Send(context.Background(), msg)
		require.Error(t, err)
		assert.Equal(t, "BREVO_CONNECTION_FAILED", mailer.ErrorCode(err))
	})

	t.Run("invalid recipient fails before any request", func(t *testing.T) {
		t.Parallel()

		called := false
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		t.Cleanup(server.Close)

		sender, err := mailer.NewBrevoSender(brevoTestConfig(server.URL))
		require.NoError(t, err)

		bad := msg
		bad.To = "not-an-address"
		err = sender.Send(context.Background(), bad)
		require.Error(t, err)
		assert.Equal(t, "RECIPIENT_EMAIL_INVALID_FORMAT", mailer.ErrorCode(err))
		assert.False(t, called)
	})
}

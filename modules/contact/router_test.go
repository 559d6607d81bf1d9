package contact_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ordivo/shopkit/modules/contact"
	"github.com/ordivo/shopkit/pkg/handler"
)

func newTestRouter(t *testing.T, svc *contact.Service) http.Handler {
	t.Helper()
	return contact.Router(svc)
}

func TestRouter_Create(t *testing.T) {
	t.Parallel()

	t.Run("valid submission returns 201", func(t *testing.T) {
		t.Parallel()

		storage := new(MockStorage)
		mailer := new(MockMailer)
		svc := newTestService(t, storage, mailer)

		storage.On("Save", mock.Anything, mock.Anything).Return(nil).Once()
		mailer.On("SendContactNotificationToAdmin", mock.Anything,
			mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
		mailer.On("SendContactConfirmationToCustomer", mock.Anything,
			mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

		body := `{"name":"Mario Rossi","email":"mario@example.com","subject":"Ordine","message":"Ciao"}`
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		rec := httptest.NewRecorder()
		newTestRouter(t, svc).ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)

		var resp handler.JSONResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		data := resp.Data.(map[string]any)
		assert.Equal(t, "mario@example.com", data["email"])
		assert.NotEmpty(t, data["id"])
	})

	t.Run("malformed JSON returns 400", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(t, new(MockStorage), new(MockMailer))

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
		rec := httptest.NewRecorder()
		newTestRouter(t, svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid fields return 422 with details", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(t, new(MockStorage), new(MockMailer))

		body := `{"name":"","email":"nope","subject":"s","message":"m"}`
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		rec := httptest.NewRecorder()
		newTestRouter(t, svc).ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var resp handler.JSONResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, "validation_error", resp.Error.Code)
		assert.Contains(t, resp.Error.Details, "name")
		assert.Contains(t, resp.Error.Details, "email")
	})
}

func TestRouter_Get(t *testing.T) {
	t.Parallel()

	t.Run("unknown id returns 404", func(t *testing.T) {
		t.Parallel()

		storage := new(MockStorage)
		svc := newTestService(t, storage, new(MockMailer))

		id := uuid.New()
		storage.On("FindByID", mock.Anything, id).
			Return(nil, contact.ErrContactNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/"+id.String(), nil)
		rec := httptest.NewRecorder()
		newTestRouter(t, svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("non uuid id returns 400", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(t, new(MockStorage), new(MockMailer))

		req := httptest.NewRequest(http.MethodGet, "/not-a-uuid", nil)
		rec := httptest.NewRecorder()
		newTestRouter(t, svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRouter_ListAndCount(t *testing.T) {
	t.Parallel()

	t.Run("list returns envelope with count meta", func(t *testing.T) {
		t.Parallel()

		storage := new(MockStorage)
		svc := newTestService(t, storage, new(MockMailer))

		storage.On("FindAll", mock.Anything).Return([]contact.Contact{
			{ID: uuid.New(), Name: "Mario Rossi"},
			{ID: uuid.New(), Name: "Luisa Bianchi"},
		}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		newTestRouter(t, svc).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp handler.JSONResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Data, 2)
		assert.Equal(t, float64(2), resp.Meta["count"])
	})

	t.Run("count endpoint", func(t *testing.T) {
		t.Parallel()

		storage := new(MockStorage)
		svc := newTestService(t, storage, new(MockMailer))

		storage.On("Count", mock.Anything).Return(int64(42), nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/count", nil)
		rec := httptest.NewRecorder()
		newTestRouter(t, svc).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp handler.JSONResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		data := resp.Data.(map[string]any)
		assert.Equal(t, float64(42), data["count"])
	})
}

package handler_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ordivo/shopkit/pkg/handler"
	"github.com/ordivo/shopkit/pkg/orderstatus"
	"github.com/ordivo/shopkit/pkg/validator"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) handler.JSONResponse {
	t.Helper()
	var resp handler.JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestJSON(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	handler.JSON(rec, http.StatusCreated, map[string]string{"name": "Mario Rossi"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	resp := decode(t, rec)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "Mario Rossi", data["name"])
	assert.Nil(t, resp.Error)
}

func TestFromError(t *testing.T) {
	t.Parallel()

	t.Run("validation errors become 422 with details", func(t *testing.T) {
		t.Parallel()

		err := validator.Apply(
			validator.Required("name", ""),
			validator.ValidEmail("email", "nope"),
		)
		require.Error(t, err)

		rec := httptest.NewRecorder()
		handler.FromError(rec, err)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		resp := decode(t, rec)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "validation_error", resp.Error.Code)
		assert.Contains(t, resp.Error.Details, "name")
		assert.Contains(t, resp.Error.Details, "email")
	})

	t.Run("invalid transition becomes 409", func(t *testing.T) {
		t.Parallel()

		err := orderstatus.ValidateTransition(orderstatus.Delivered, orderstatus.Pending)
		require.Error(t, err)

		rec := httptest.NewRecorder()
		handler.FromError(rec, err)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "invalid_transition", decode(t, rec).Error.Code)
	})

	t.Run("unknown status becomes 400", func(t *testing.T) {
		t.Parallel()

		_, err := orderstatus.Parse("SHIPPING")
		require.Error(t, err)

		rec := httptest.NewRecorder()
		handler.FromError(rec, err)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unclassified error becomes opaque 500", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		handler.FromError(rec, errors.New("pq: connection reset"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		resp := decode(t, rec)
		assert.Equal(t, "internal_error", resp.Error.Code)
		assert.NotContains(t, resp.Error.Message, "pq:")
	})
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	type payload struct {
		Name string `json:"name"`
	}

	t.Run("valid body", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Mario"}`))
		var p payload
		require.NoError(t, handler.DecodeJSON(req, &p))
		assert.Equal(t, "Mario", p.Name)
	})

	t.Run("unknown fields rejected", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Mario","extra":1}`))
		var p payload
		assert.Error(t, handler.DecodeJSON(req, &p))
	})
}

package order

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ordivo/shopkit/pkg/handler"
)

// Router mounts the order endpoints on a chi router.
func Router(svc *Service) chi.Router {
	r := chi.NewRouter()
	r.Post("/", createHandler(svc))
	r.Get("/", listHandler(svc))
	r.Get("/{number}", getHandler(svc))
	r.Patch("/{number}/status", updateStatusHandler(svc))
	return r
}

func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateOrderRequest
		if err := handler.DecodeJSON(r, &req); err != nil {
			handler.Error(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
			return
		}

		o, err := svc.Create(r.Context(), req)
		if err != nil {
			if errors.Is(err, ErrDuplicateNumber) {
				handler.Error(w, http.StatusConflict, "duplicate_order_number",
					"an order with this number already exists, retry the request")
				return
			}
			handler.FromError(w, err)
			return
		}
		handler.JSON(w, http.StatusCreated, o)
	}
}

func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context())
		if err != nil {
			handler.FromError(w, err)
			return
		}
		if list == nil {
			list = []Order{}
		}
		handler.JSONMeta(w, http.StatusOK, list, map[string]any{"count": len(list)})
	}
}

func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		o, err := svc.Get(r.Context(), chi.URLParam(r, "number"))
		if err != nil {
			if errors.Is(err, ErrOrderNotFound) {
				handler.Error(w, http.StatusNotFound, "not_found", "order not found")
				return
			}
			handler.FromError(w, err)
			return
		}
		handler.JSON(w, http.StatusOK, o)
	}
}

func updateStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateStatusRequest
		if err := handler.DecodeJSON(r, &req); err != nil {
			handler.Error(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
			return
		}

		o, err := svc.UpdateStatus(r.Context(), chi.URLParam(r, "number"), req.Status)
		if err != nil {
			if errors.Is(err, ErrOrderNotFound) {
				handler.Error(w, http.StatusNotFound, "not_found", "order not found")
				return
			}
			handler.FromError(w, err)
			return
		}
		handler.JSON(w, http.StatusOK, o)
	}
}

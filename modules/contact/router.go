package contact

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ordivo/shopkit/pkg/handler"
)

// Router mounts the contact endpoints on a chi router.
func Router(svc *Service) chi.Router {
	r := chi.NewRouter()
	r.Post("/", createHandler(svc))
	r.Get("/", listHandler(svc))
	r.Get("/count", countHandler(svc))
	r.Get("/{id}", getHandler(svc))
	return r
}

func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateContactRequest
		if err := handler.DecodeJSON(r, &req); err != nil {
			handler.Error(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
			return
		}

		c, err := svc.Create(r.Context(), req)
		if err != nil {
			handler.FromError(w, err)
			return
		}
		handler.JSON(w, http.StatusCreated, c)
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
			list = []Contact{}
		}
		handler.JSONMeta(w, http.StatusOK, list, map[string]any{"count": len(list)})
	}
}

func countHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := svc.Count(r.Context())
		if err != nil {
			handler.FromError(w, err)
			return
		}
		handler.JSON(w, http.StatusOK, map[string]int64{"count": n})
	}
}

func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := ParseContactID(chi.URLParam(r, "id"))
		if err != nil {
			handler.Error(w, http.StatusBadRequest, "invalid_id", "contact id must be a valid UUID")
			return
		}

		c, err := svc.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, ErrContactNotFound) {
				handler.Error(w, http.StatusNotFound, "not_found", "contact not found")
				return
			}
			handler.FromError(w, err)
			return
		}
		handler.JSON(w, http.StatusOK, c)
	}
}

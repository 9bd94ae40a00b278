package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"forecourt/internal/auth"
	"forecourt/internal/listing"
)

// resource wires one record type onto the uniform list/create/update/
// delete surface. Every endpoint shares the same query contract, the
// same envelope and the same role guard; only the storage callbacks
// and the validation differ per resource.
type resource[T any] struct {
	srv      *Server
	name     auth.Resource
	defaults listing.Defaults

	list     func(r *http.Request, q listing.Query) (listing.Page[T], error)
	create   func(r *http.Request, record T) (T, error)
	update   func(r *http.Request, record T) (T, error)
	remove   func(r *http.Request, id int64) error
	validate func(T) error
	setID    func(*T, int64)

	// onChange runs after any successful mutation, for cache
	// invalidation.
	onChange func()
}

func (res *resource[T]) mount(parent chi.Router, path string) {
	parent.Route(path, func(r chi.Router) {
		r.Use(res.guard)
		r.Get("/", res.handleList)
		r.Post("/", res.handleCreate)
		r.Put("/{id}", res.handleUpdate)
		r.Delete("/{id}", res.handleDelete)
	})
}

func (res *resource[T]) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := auth.SessionFrom(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		if !auth.Can(session.Role, res.name, actionFor(r.Method)) {
			respondError(w, http.StatusForbidden, "insufficient permissions")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (res *resource[T]) handleList(w http.ResponseWriter, r *http.Request) {
	q := listing.ParseQuery(r.URL.Query(), res.defaults)
	page, err := res.list(r, q)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

func (res *resource[T]) handleCreate(w http.ResponseWriter, r *http.Request) {
	var record T
	if err := decodeJSON(r, &record); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := res.validate(record); err != nil {
		respondValidation(w, map[string][]string{"record": {err.Error()}})
		return
	}
	created, err := res.create(r, record)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	res.changed()
	respondJSON(w, http.StatusCreated, created)
}

func (res *resource[T]) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var record T
	if err := decodeJSON(r, &record); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	res.setID(&record, id)
	if err := res.validate(record); err != nil {
		respondValidation(w, map[string][]string{"record": {err.Error()}})
		return
	}
	updated, err := res.update(r, record)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	res.changed()
	respondJSON(w, http.StatusOK, updated)
}

func (res *resource[T]) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := res.remove(r, id); err != nil {
		respondDomainError(w, err)
		return
	}
	res.changed()
	w.WriteHeader(http.StatusNoContent)
}

func (res *resource[T]) changed() {
	if res.onChange != nil {
		res.onChange()
	}
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

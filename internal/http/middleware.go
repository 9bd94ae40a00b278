package http

import (
	"net/http"

	"forecourt/internal/auth"
)

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.BearerToken(r)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		session, err := s.tokens.Verify(token)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), session)))
	})
}

// requirePermission gates a subtree on one (resource, action) pair.
func (s *Server) requirePermission(resource auth.Resource, action auth.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := auth.SessionFrom(r.Context())
			if !ok {
				respondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}
			if !auth.Can(session.Role, resource, action) {
				respondError(w, http.StatusForbidden, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// actionFor maps a method onto the policy action for resource routes.
func actionFor(method string) auth.Action {
	switch method {
	case http.MethodPost:
		return auth.ActionCreate
	case http.MethodPut, http.MethodPatch:
		return auth.ActionUpdate
	case http.MethodDelete:
		return auth.ActionDelete
	}
	return auth.ActionRead
}

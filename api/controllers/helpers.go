package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/velvetloom/velvetloom-backend/api/middleware"
	pkgerrors "github.com/velvetloom/velvetloom-backend/pkg/errors"
)

// currentUserID pulls the authenticated user id from the request context.
func currentUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, nil
}

func isAdmin(r *http.Request) bool {
	return middleware.IsAdminFromContext(r.Context())
}

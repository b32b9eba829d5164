package controllers

import (
	"net/http"

	"github.com/stefanobartoli/filiera-backend/api/responses"
	"github.com/stefanobartoli/filiera-backend/api/validators"
	"github.com/stefanobartoli/filiera-backend/internal/auth"
	pkgerrors "github.com/stefanobartoli/filiera-backend/pkg/errors"
	"github.com/stefanobartoli/filiera-backend/pkg/logger"
)

// AuthLogin wires the back-office login endpoint into the HTTP layer.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

package controllers

import (
	"net/http"

	"github.com/lbstore/storefront-backend/api/middleware"
	"github.com/lbstore/storefront-backend/api/responses"
	"github.com/lbstore/storefront-backend/api/validators"
	"github.com/lbstore/storefront-backend/internal/auth"
	"github.com/lbstore/storefront-backend/pkg/logger"
)

func AdminLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds auth.Credentials
		if err := validators.DecodeJSONBody(w, r, &creds); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sess, err := svc.Authenticate(r.Context(), creds)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sess)
	}
}

// AdminLogout must run behind middleware.Auth so the access id is known.
func AdminLogout(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Logout(r.Context(), middleware.AccessIDFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

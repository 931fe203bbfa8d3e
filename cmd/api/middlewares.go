package main

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"
)

func (app *application) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Authorization")

		authorizationHeader := r.Header.Get("Authorization")

		if authorizationHeader == "" {
			app.unauthorizedResponse(w, r, "missing authorization header")
			return
		}

		headerParts := strings.Split(authorizationHeader, " ")

		if len(headerParts) != 2 || headerParts[0] != "Bearer" {
			app.unauthorizedResponse(w, r, "invalid authorization header")
			return
		}

		payload, err := app.authToken.ValidateAdminToken(headerParts[1])

		if err != nil {
			app.unauthorizedResponse(w, r, "invalid or expired token")
			return
		}

		if err := payload.Valid(); err != nil {
			app.unauthorizedResponse(w, r, "invalid or expired token")
			return
		}

		next.ServeHTTP(w, r)
	})
}

type CreateAdminTokenForm struct {
	Secret string `json:"secret" validate:"required"`
}

func (app *application) createAdminToken(w http.ResponseWriter, r *http.Request) {
	var form CreateAdminTokenForm

	if err := app.readJSON(w, r, &form); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := validate.Struct(form); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if app.cfg.adminBootstrap == "" {
		app.unauthorizedResponse(w, r, "admin access is not configured")
		return
	}

	if subtle.ConstantTimeCompare([]byte(form.Secret), []byte(app.cfg.adminBootstrap)) != 1 {
		app.unauthorizedResponse(w, r, "invalid admin secret")
		return
	}

	token, err := app.authToken.GenerateAdminToken("admin", 24*time.Hour)

	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.successResponse(w, http.StatusCreated, envelope{"token": token})
}

package main

import (
	"errors"
	"net/http"

	"licensehub/internal/validator"
)

type ResponseErrorCode string

const (
	ErrorCodeBadRequest          ResponseErrorCode = "bad_request"
	ErrorCodeUnauthorized        ResponseErrorCode = "unauthorized"
	ErrorCodeNotFound            ResponseErrorCode = "not_found"
	ErrorCodeConflict            ResponseErrorCode = "conflict"
	ErrDuplicateEmailCode        ResponseErrorCode = "duplicate_email"
	ErrorCodeInternalServerError ResponseErrorCode = "internal_server_error"
)

func (app *application) errorResponse(w http.ResponseWriter, status int, message any, extras ...envelope) {
	response := envelope{
		"success": false,
		"error":   message,
	}

	for _, extra := range extras {
		for key, value := range extra {
			response[key] = value
		}
	}

	if err := app.writeJSON(w, status, response); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (app *application) successResponse(w http.ResponseWriter, status int, data any) {
	response := envelope{
		"success": true,
	}

	if data != nil {
		response["data"] = data
	}

	if err := app.writeJSON(w, status, response); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("bad request error", "method", r.Method, "path", r.URL.Path, "error", err)

	var validationErrors *validator.ValidationErrors

	if errors.As(err, &validationErrors) {
		app.errorResponse(w, http.StatusBadRequest, validationErrors.FieldErrors(), envelope{"code": ErrorCodeBadRequest})
		return
	}
	app.errorResponse(w, http.StatusBadRequest, err.Error(), envelope{"code": ErrorCodeBadRequest})
}

func (app *application) unauthorizedResponse(w http.ResponseWriter, r *http.Request, message string) {
	app.logger.Warnw("unauthorized", "method", r.Method, "path", r.URL.Path)

	app.errorResponse(w, http.StatusUnauthorized, message, envelope{"code": ErrorCodeUnauthorized})
}

func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, http.StatusNotFound, "the requested resource could not be found", envelope{"code": ErrorCodeNotFound})
}

func (app *application) conflictResponse(w http.ResponseWriter, r *http.Request, message string) {
	app.errorResponse(w, http.StatusConflict, message, envelope{"code": ErrorCodeConflict})
}

func (app *application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Errorw("internal server error", "method", r.Method, "path", r.URL.Path, "error", err)

	app.errorResponse(w, http.StatusInternalServerError,
		"the server encountered a problem and could not process your request",
		envelope{"code": ErrorCodeInternalServerError})
}

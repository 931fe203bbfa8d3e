package main

import (
	"errors"
	"net/http"
	"time"

	"licensehub/internal/store"
	"licensehub/internal/store/cache"
	"licensehub/worker"

	"github.com/hibiken/asynq"
)

type RegisterUserForm struct {
	Email       string `json:"email" validate:"required,email,max=254"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	FirstName   string `json:"first_name" validate:"required,max=100"`
	LastName    string `json:"last_name" validate:"required,max=100"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=30"`
	Country     string `json:"country" validate:"omitempty,max=100"`
}

func (app *application) registerUser(w http.ResponseWriter, r *http.Request) {
	var form RegisterUserForm

	if err := app.readJSON(w, r, &form); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := validate.Struct(form); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := &store.User{
		Email:       form.Email,
		FirstName:   form.FirstName,
		LastName:    form.LastName,
		PhoneNumber: form.PhoneNumber,
		Country:     form.Country,
	}

	if err := user.Password.Set(form.Password); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	ctx := r.Context()

	if err := app.store.Users.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicateEmail):
			app.errorResponse(w, http.StatusConflict,
				"a user with this email address already exists",
				envelope{"code": ErrDuplicateEmailCode})
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	token, err := app.cacheStore.Tokens.New(user.ID, 24*time.Hour, cache.ScopeActivation)

	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if err := app.cacheStore.Tokens.Insert(ctx, token); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	opts := []asynq.Option{
		asynq.MaxRetry(10),
		asynq.ProcessIn(10 * time.Second),
		asynq.Queue(worker.QueueCritical),
	}

	err = app.taskDistributor.DistributeTaskSendVerifyEmail(ctx, &worker.PayloadSendVerifyEmail{
		UserID:    user.ID,
		Token:     token.Plaintext,
		ClientURL: app.cfg.clientURL,
	}, opts...)

	if err != nil {
		app.logger.Errorw("failed to enqueue verification email", "user_id", user.ID, "error", err)
	}

	err = app.taskDistributor.DistributeTaskSendWelcomeEmail(ctx, &worker.PayloadSendWelcomeEmail{
		UserID: user.ID,
	}, asynq.MaxRetry(10), asynq.ProcessIn(10*time.Second), asynq.Queue(worker.QueueDefault))

	if err != nil {
		app.logger.Errorw("failed to enqueue welcome email", "user_id", user.ID, "error", err)
	}

	err = app.taskDistributor.DistributeTaskSendAdminNewUserEmail(ctx, &worker.PayloadSendAdminNewUserEmail{
		UserID: user.ID,
	}, asynq.MaxRetry(10), asynq.ProcessIn(10*time.Second), asynq.Queue(worker.QueueDefault))

	if err != nil {
		app.logger.Errorw("failed to enqueue admin notification", "user_id", user.ID, "error", err)
	}

	app.successResponse(w, http.StatusCreated, envelope{"user": user})
}

func (app *application) activateUser(w http.ResponseWriter, r *http.Request) {
	tokenKey := app.readStringID(r, "token")
	userID := r.URL.Query().Get("userId")

	if tokenKey == "" || userID == "" {
		app.badRequestResponse(w, r, errors.New("activation token and userId are required"))
		return
	}

	ctx := r.Context()

	token, err := app.cacheStore.Tokens.Get(ctx, cache.ScopeActivation, userID, tokenKey)

	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if token == nil {
		app.unauthorizedResponse(w, r, "invalid or expired activation token")
		return
	}

	user, err := app.store.Users.GetByID(ctx, token.UserID)

	if err != nil {
		switch {
		case errors.Is(err, store.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	if err := app.store.Users.MarkEmailVerified(ctx, user); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if err := app.cacheStore.Tokens.DeleteAllForUser(ctx, cache.ScopeActivation, user.ID); err != nil {
		app.logger.Errorw("failed to clear activation tokens", "user_id", user.ID, "error", err)
	}

	app.successResponse(w, http.StatusOK, envelope{"user": user})
}

type ForgotPasswordForm struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

func (app *application) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var form ForgotPasswordForm

	if err := app.readJSON(w, r, &form); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := validate.Struct(form); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx := r.Context()

	// Respond identically whether or not the account exists so the
	// endpoint cannot be used to probe for registered addresses.
	user, err := app.store.Users.GetByEmail(ctx, form.Email)

	if err != nil {
		if !errors.Is(err, store.ErrRecordNotFound) {
			app.serverErrorResponse(w, r, err)
			return
		}

		app.successResponse(w, http.StatusOK, envelope{
			"message": "if the email address is registered, a reset link has been sent",
		})
		return
	}

	token, err := app.cacheStore.Tokens.New(user.ID, time.Hour, cache.ScopePasswordReset)

	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if err := app.cacheStore.Tokens.Insert(ctx, token); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.taskDistributor.DistributeTaskSendPasswordResetEmail(ctx, &worker.PayloadSendPasswordResetEmail{
		UserID:    user.ID,
		Token:     token.Plaintext,
		ClientURL: app.cfg.clientURL,
	}, asynq.MaxRetry(10), asynq.ProcessIn(5*time.Second), asynq.Queue(worker.QueueCritical))

	if err != nil {
		app.logger.Errorw("failed to enqueue password reset email", "user_id", user.ID, "error", err)
	}

	app.successResponse(w, http.StatusOK, envelope{
		"message": "if the email address is registered, a reset link has been sent",
	})
}

package main

import (
	"errors"
	"net/http"

	"licensehub/internal/email"
	"licensehub/internal/store"
)

func (app *application) listEmailTemplates(w http.ResponseWriter, r *http.Request) {
	tmplType := r.URL.Query().Get("type")
	category := r.URL.Query().Get("category")

	if tmplType == "" {
		tmplType = email.TemplateTypeUser
	}

	templates, err := app.emailService.GetTemplates(r.Context(), tmplType, category)

	if err != nil {
		var invalidArg *email.InvalidArgumentError

		if errors.As(err, &invalidArg) {
			app.badRequestResponse(w, r, err)
			return
		}

		app.serverErrorResponse(w, r, err)
		return
	}

	if templates == nil {
		templates = []*store.EmailTemplate{}
	}

	app.successResponse(w, http.StatusOK, envelope{"templates": templates})
}

type TestEmailTemplateForm struct {
	TemplateName string     `json:"template_name" validate:"required,template_name"`
	Data         email.Data `json:"data"`
}

func (app *application) testEmailTemplate(w http.ResponseWriter, r *http.Request) {
	var form TestEmailTemplateForm

	if err := app.readJSON(w, r, &form); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := validate.Struct(form); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	preview, err := app.emailService.TestTemplate(r.Context(), form.TemplateName, form.Data)

	if err != nil {
		var invalidArg *email.InvalidArgumentError

		switch {
		case errors.As(err, &invalidArg):
			app.badRequestResponse(w, r, err)
		case errors.Is(err, store.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.successResponse(w, http.StatusOK, envelope{"preview": preview})
}

type SendEmailForm struct {
	TemplateName   string     `json:"template_name" validate:"required,template_name"`
	RecipientEmail string     `json:"recipient_email" validate:"required,email,max=254"`
	RecipientName  string     `json:"recipient_name" validate:"omitempty,max=200"`
	Data           email.Data `json:"data"`
}

func (app *application) sendEmail(w http.ResponseWriter, r *http.Request) {
	var form SendEmailForm

	if err := app.readJSON(w, r, &form); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := validate.Struct(form); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	sent, err := app.emailService.SendEmail(r.Context(), form.TemplateName,
		form.RecipientEmail, form.Data, form.RecipientName)

	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	app.successResponse(w, http.StatusOK, envelope{"sent": sent})
}

type SendBulkEmailForm struct {
	TemplateName string     `json:"template_name" validate:"required,template_name"`
	UserIDs      []string   `json:"user_ids" validate:"required,min=1,max=500,dive,required"`
	Data         email.Data `json:"data"`
}

func (app *application) sendBulkEmail(w http.ResponseWriter, r *http.Request) {
	var form SendBulkEmailForm

	if err := app.readJSON(w, r, &form); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := validate.Struct(form); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	users, err := app.store.Users.GetByIDs(r.Context(), form.UserIDs)

	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	results := app.emailService.SendBulkEmail(r.Context(), users, form.TemplateName, form.Data)

	sentCount := 0
	for _, ok := range results {
		if ok {
			sentCount++
		}
	}

	app.successResponse(w, http.StatusOK, envelope{
		"results":    results,
		"sent":       sentCount,
		"requested":  len(form.UserIDs),
		"recipients": len(users),
	})
}

package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"licensehub/internal/store"
	"licensehub/worker"

	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"
)

const maxWebhookBodyBytes = int64(65536)

func (app *application) stripeWebhook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes)

	body, err := io.ReadAll(r.Body)

	if err != nil {
		app.badRequestResponse(w, r, errors.New("unable to read webhook body"))
		return
	}

	event, err := webhook.ConstructEvent(body, r.Header.Get("Stripe-Signature"), app.cfg.stripe.webhookSecret)

	if err != nil {
		app.logger.Warnw("stripe webhook signature verification failed", "error", err)
		app.badRequestResponse(w, r, errors.New("invalid webhook signature"))
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession

		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			app.badRequestResponse(w, r, errors.New("malformed checkout session payload"))
			return
		}

		invoiceID := session.Metadata["invoice_id"]

		if invoiceID == "" {
			app.logger.Warnw("checkout session missing invoice_id metadata", "session_id", session.ID)
			break
		}

		ctx := r.Context()

		invoice, err := app.store.Invoices.MarkPaid(ctx, invoiceID, "stripe", session.ID)

		if err != nil {
			switch {
			case errors.Is(err, store.ErrRecordNotFound):
				// Already paid or unknown invoice. Stripe retries on
				// non-2xx, so acknowledge rather than loop forever.
				app.logger.Warnw("webhook for unknown or settled invoice", "invoice_id", invoiceID)
			default:
				app.serverErrorResponse(w, r, err)
				return
			}
			break
		}

		err = app.taskDistributor.DistributeTaskSendPaymentConfirmationEmail(ctx,
			&worker.PayloadSendPaymentConfirmationEmail{InvoiceID: invoice.ID},
			asynq.MaxRetry(10), asynq.ProcessIn(5*time.Second), asynq.Queue(worker.QueueCritical))

		if err != nil {
			app.logger.Errorw("failed to enqueue payment confirmation email", "invoice_id", invoiceID, "error", err)
		}

	default:
		app.logger.Infow("ignoring unhandled stripe event", "type", event.Type)
	}

	app.successResponse(w, http.StatusOK, envelope{"received": true})
}

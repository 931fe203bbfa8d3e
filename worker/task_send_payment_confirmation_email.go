package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const TaskSendPaymentConfirmationEmail = "task:send_payment_confirmation_email"

type PayloadSendPaymentConfirmationEmail struct {
	InvoiceID string `json:"invoice_id"`
}

func (rt *RedisTaskDistributor) DistributeTaskSendPaymentConfirmationEmail(ctx context.Context, payload *PayloadSendPaymentConfirmationEmail, opts ...asynq.Option) error {
	jsonPayload, err := json.Marshal(payload)

	if err != nil {
		return fmt.Errorf("failed to marshal task payload: %w", err)
	}

	confirmationTask := asynq.NewTask(TaskSendPaymentConfirmationEmail, jsonPayload, opts...)

	taskInfo, err := rt.client.EnqueueContext(ctx, confirmationTask)

	if err != nil {
		return err
	}

	rt.logger.Info(
		"message", "enqueued task",
		"type", taskInfo.Type,
		"queue", taskInfo.Queue,
		"max_retry", taskInfo.MaxRetry,
	)

	return nil
}

func (processor *RedisTaskProcessor) ProcessTaskSendPaymentConfirmationEmail(ctx context.Context, task *asynq.Task) error {
	var payload PayloadSendPaymentConfirmationEmail

	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", asynq.SkipRetry)
	}

	invoice, err := processor.store.Invoices.GetByID(ctx, payload.InvoiceID)

	if err != nil {
		return fmt.Errorf("failed to load invoice %s: %w", payload.InvoiceID, err)
	}

	license, err := processor.store.Licenses.GetByID(ctx, invoice.LicenseID)

	if err != nil {
		return fmt.Errorf("failed to load license %s: %w", invoice.LicenseID, err)
	}

	user, err := processor.store.Users.GetByID(ctx, invoice.UserID)

	if err != nil {
		return fmt.Errorf("failed to load user %s: %w", invoice.UserID, err)
	}

	sent, err := processor.emailService.SendPaymentConfirmation(ctx, user, license, invoice)

	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	if !sent {
		return fmt.Errorf("payment confirmation was not delivered to %s", user.Email)
	}

	// Admin copy is best effort; a failure here should not retry the
	// customer-facing send.
	if _, err := processor.emailService.SendAdminPaymentNotification(ctx, user, license, invoice); err != nil {
		processor.logger.Error("message", "failed to notify admin of payment", "invoice", invoice.ID, "err", err)
	}

	return nil
}

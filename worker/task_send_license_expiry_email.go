package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"licensehub/internal/store"

	"github.com/hibiken/asynq"
)

const TaskSendLicenseExpiryEmail = "task:send_license_expiry_email"

type PayloadSendLicenseExpiryEmail struct {
	LicenseID     string `json:"license_id"`
	DaysRemaining int    `json:"days_remaining"`
}

func (rt *RedisTaskDistributor) DistributeTaskSendLicenseExpiryEmail(ctx context.Context, payload *PayloadSendLicenseExpiryEmail, opts ...asynq.Option) error {
	jsonPayload, err := json.Marshal(payload)

	if err != nil {
		return fmt.Errorf("failed to marshal task payload: %w", err)
	}

	expiryEmailTask := asynq.NewTask(TaskSendLicenseExpiryEmail, jsonPayload, opts...)

	taskInfo, err := rt.client.EnqueueContext(ctx, expiryEmailTask)

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

func (processor *RedisTaskProcessor) ProcessTaskSendLicenseExpiryEmail(ctx context.Context, task *asynq.Task) error {
	var payload PayloadSendLicenseExpiryEmail

	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", asynq.SkipRetry)
	}

	license, err := processor.store.Licenses.GetByID(ctx, payload.LicenseID)

	if err != nil {
		return fmt.Errorf("failed to load license %s: %w", payload.LicenseID, err)
	}

	user, err := processor.store.Users.GetByID(ctx, license.UserID)

	if err != nil {
		return fmt.Errorf("failed to load user %s: %w", license.UserID, err)
	}

	// When a renewal invoice is already open, point the user at it
	// instead of the generic expiry warning.
	invoice, err := processor.store.Invoices.GetPendingByLicenseID(ctx, license.ID)

	if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up renewal invoice for license %s: %w", license.ID, err)
	}

	var sent bool

	if invoice != nil {
		sent, err = processor.emailService.SendRenewalReminder(ctx, user, license, invoice)
	} else {
		sent, err = processor.emailService.SendLicenseExpiring(ctx, user, license, payload.DaysRemaining)
	}

	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	if !sent {
		return fmt.Errorf("license expiry email was not delivered to %s", user.Email)
	}

	if err := processor.store.Licenses.MarkExpiryReminderSent(ctx, license.ID); err != nil {
		return fmt.Errorf("failed to mark reminder sent for license %s: %w", license.ID, err)
	}

	if _, err := processor.emailService.SendAdminLicenseExpiring(ctx, user, license, payload.DaysRemaining); err != nil {
		processor.logger.Error("message", "failed to notify admin of expiring license", "license", license.ID, "err", err)
	}

	return nil
}
